package project

import (
	"context"
	"errors"
	"strings"
	"time"

	"portfolio_backend/internal/common"
	"portfolio_backend/internal/platform/crypto"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// Service defines the interface for project business logic.
type Service interface {
	List(ctx context.Context, filter ListFilter, page, pageSize int) ([]Project, *common.Pagination, error)
	Get(ctx context.Context, idOrSlug string) (*Project, error)
	Search(ctx context.Context, query string, page, pageSize int) ([]Project, *common.Pagination, error)
	Create(ctx context.Context, req CreateProjectRequest) (*Project, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateProjectRequest) (*Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ActivateDueProjects(ctx context.Context, now time.Time) (int, error)
}

type service struct {
	repo   Repository
	index  SearchIndex
	logger *zap.Logger
}

// NewService creates a new project service. index may be a disabled ESIndex.
func NewService(repo Repository, index SearchIndex, logger *zap.Logger) Service {
	return &service{repo: repo, index: index, logger: logger}
}

func (s *service) List(ctx context.Context, filter ListFilter, page, pageSize int) ([]Project, *common.Pagination, error) {
	projects, total, err := s.repo.List(ctx, filter, common.Offset(page, pageSize), pageSize)
	if err != nil {
		return nil, nil, err
	}
	return projects, common.NewPagination(total, page, pageSize), nil
}

// Get resolves a project by id, or by slug when the argument is not a UUID.
func (s *service) Get(ctx context.Context, idOrSlug string) (*Project, error) {
	if id, err := uuid.Parse(idOrSlug); err == nil {
		return s.repo.FindByID(ctx, id)
	}
	return s.repo.FindBySlug(ctx, strings.ToLower(strings.TrimSpace(idOrSlug)))
}

// Search uses the search index when it is available and the database otherwise.
func (s *service) Search(ctx context.Context, query string, page, pageSize int) ([]Project, *common.Pagination, error) {
	query = normalizeQuery(query)
	if query == "" {
		return nil, nil, common.ErrBadRequest.WithDetails("Query parameter 'q' is required.")
	}
	offset := common.Offset(page, pageSize)

	if s.index != nil {
		ids, total, err := s.index.Search(ctx, query, offset, pageSize)
		switch {
		case err == nil:
			projects, err := s.repo.FindByIDs(ctx, ids)
			if err != nil {
				return nil, nil, err
			}
			return projects, common.NewPagination(total, page, pageSize), nil
		case errors.Is(err, ErrSearchDisabled):
		default:
			common.LoggerWithRequestID(ctx, s.logger).Warn("Search index query failed, falling back to database", zap.Error(err))
		}
	}

	projects, total, err := s.repo.SearchText(ctx, query, offset, pageSize)
	if err != nil {
		return nil, nil, err
	}
	return projects, common.NewPagination(total, page, pageSize), nil
}

func (s *service) Create(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	start, end, err := parseTimeline(req.Timeline, Timeline{})
	if err != nil {
		return nil, err
	}

	p := &Project{
		Slug:             baseSlug(req.Title),
		Title:            strings.TrimSpace(req.Title),
		Subtitle:         req.Subtitle,
		Description:      req.Description,
		Technologies:     req.Technologies,
		RepoURL:          req.RepoURL,
		LiveURL:          req.LiveURL,
		PreviewImageURLs: req.PreviewImageURLs,
		IconURL:          req.IconURL,
		Featured:         req.Featured,
		Keywords:         req.Keywords,
		Timeline:         Timeline{StartDate: start, EndDate: end},
		IsUpcoming:       req.IsUpcoming || req.Status == StatusUpcoming,
		Status:           req.Status,
	}

	err = s.repo.Create(ctx, p)
	if errors.Is(err, common.ErrConflict) {
		// Same title as an existing project; retry once with a unique suffix.
		suffix, serr := crypto.RandomHex(4)
		if serr != nil {
			return nil, serr
		}
		p.ID = uuid.Nil
		p.Slug = p.Slug + "-" + suffix
		err = s.repo.Create(ctx, p)
	}
	if err != nil {
		return nil, err
	}

	s.syncIndex(ctx, p)
	common.LoggerWithRequestID(ctx, s.logger).Info("Project created",
		zap.String("project_id", p.ID.String()), zap.String("slug", p.Slug))
	return p, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateProjectRequest) (*Project, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		p.Title = strings.TrimSpace(*req.Title)
	}
	if req.Subtitle != nil {
		p.Subtitle = req.Subtitle
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Technologies != nil {
		p.Technologies = req.Technologies
	}
	if req.RepoURL != nil {
		p.RepoURL = req.RepoURL
	}
	if req.LiveURL != nil {
		p.LiveURL = req.LiveURL
	}
	if req.PreviewImageURLs != nil {
		p.PreviewImageURLs = req.PreviewImageURLs
	}
	if req.IconURL != nil {
		p.IconURL = req.IconURL
	}
	if req.Featured != nil {
		p.Featured = *req.Featured
	}
	if req.Keywords != nil {
		p.Keywords = req.Keywords
	}
	if req.IsUpcoming != nil {
		p.IsUpcoming = *req.IsUpcoming
	}
	if req.Status != nil {
		p.Status = *req.Status
		if req.IsUpcoming == nil {
			p.IsUpcoming = p.Status == StatusUpcoming
		}
	}
	if req.Timeline != nil {
		start, end, err := parseTimeline(req.Timeline, p.Timeline)
		if err != nil {
			return nil, err
		}
		p.Timeline = Timeline{StartDate: start, EndDate: end}
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.syncIndex(ctx, p)
	common.LoggerWithRequestID(ctx, s.logger).Info("Project updated", zap.String("project_id", id.String()))
	return p, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.index != nil {
		if err := s.index.Delete(ctx, id); err != nil {
			common.LoggerWithRequestID(ctx, s.logger).Warn("Failed to remove project from search index",
				zap.String("project_id", id.String()), zap.Error(err))
		}
	}
	common.LoggerWithRequestID(ctx, s.logger).Info("Project deleted", zap.String("project_id", id.String()))
	return nil
}

// ActivateDueProjects moves upcoming projects whose start date has arrived to ongoing.
func (s *service) ActivateDueProjects(ctx context.Context, now time.Time) (int, error) {
	due, err := s.repo.FindDueUpcoming(ctx, now)
	if err != nil {
		return 0, err
	}
	if len(due) == 0 {
		return 0, nil
	}

	ids := make([]uuid.UUID, 0, len(due))
	for _, p := range due {
		ids = append(ids, p.ID)
	}
	n, err := s.repo.MarkOngoing(ctx, ids)
	if err != nil {
		return 0, err
	}

	for i := range due {
		due[i].Status = StatusOngoing
		due[i].IsUpcoming = false
		s.syncIndex(ctx, &due[i])
	}
	return int(n), nil
}

// syncIndex pushes p to the search index. Failures are logged only.
func (s *service) syncIndex(ctx context.Context, p *Project) {
	if s.index == nil {
		return
	}
	if err := s.index.Index(ctx, p); err != nil {
		common.LoggerWithRequestID(ctx, s.logger).Warn("Failed to index project",
			zap.String("project_id", p.ID.String()), zap.Error(err))
	}
}

func baseSlug(title string) string {
	if s := slug.Make(title); s != "" {
		return s
	}
	return "project"
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

func parseDate(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, common.NewValidationAPIError(map[string]string{
		field: "The " + field + " field must be a date (YYYY-MM-DD or RFC 3339).",
	})
}

// parseTimeline applies req on top of current. An empty string clears a date.
func parseTimeline(req *TimelineRequest, current Timeline) (start, end *time.Time, err error) {
	start, end = current.StartDate, current.EndDate
	if req == nil {
		return start, end, nil
	}
	if req.StartDate != nil {
		if start, err = parseDate("startDate", *req.StartDate); err != nil {
			return nil, nil, err
		}
	}
	if req.EndDate != nil {
		if end, err = parseDate("endDate", *req.EndDate); err != nil {
			return nil, nil, err
		}
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, nil, common.NewValidationAPIError(map[string]string{
			"endDate": "The endDate field must not be before startDate.",
		})
	}
	return start, end, nil
}
