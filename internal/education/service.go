package education

import (
	"context"
	"strings"
	"time"

	"portfolio_backend/internal/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context) ([]Education, error)
	Get(ctx context.Context, id uuid.UUID) (*Education, error)
	Create(ctx context.Context, req CreateRequest) (*Education, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Education, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{repo: repo, logger: logger}
}

func (s *service) List(ctx context.Context) ([]Education, error) {
	return s.repo.FindAll(ctx)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Education, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Education, error) {
	start, err := parseDate("startDate", req.StartDate)
	if err != nil {
		return nil, err
	}
	if start == nil {
		return nil, common.NewValidationAPIError(map[string]string{"startDate": "The startDate field is required."})
	}
	var end *time.Time
	if req.EndDate != nil {
		if end, err = parseDate("endDate", *req.EndDate); err != nil {
			return nil, err
		}
	}
	if err := checkRange(*start, end); err != nil {
		return nil, err
	}

	e := &Education{
		Degree:      strings.TrimSpace(req.Degree),
		Field:       req.Field,
		Domain:      req.Domain,
		Institute:   strings.TrimSpace(req.Institute),
		StartDate:   *start,
		EndDate:     end,
		IsCurrent:   req.IsCurrent,
		Result:      strings.TrimSpace(req.Result),
		Description: req.Description,
		Major:       req.Major,
		Board:       req.Board,
		Group:       req.Group,
		ModeOfStudy: req.ModeOfStudy,
		LogoURL:     req.LogoURL,
		Location:    req.Location,
		Courses:     req.Courses,
		Activities:  req.Activities,
	}
	if req.DisplayOrder != nil {
		e.DisplayOrder = *req.DisplayOrder
	}
	if err := requireText(e); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	common.LoggerWithRequestID(ctx, s.logger).Info("Education record created",
		zap.String("education_id", e.ID.String()), zap.String("institute", e.Institute))
	return e, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Education, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Degree != nil {
		e.Degree = strings.TrimSpace(*req.Degree)
	}
	if req.Field != nil {
		e.Field = req.Field
	}
	if req.Domain != nil {
		e.Domain = req.Domain
	}
	if req.Institute != nil {
		e.Institute = strings.TrimSpace(*req.Institute)
	}
	if req.StartDate != nil {
		start, err := parseDate("startDate", *req.StartDate)
		if err != nil {
			return nil, err
		}
		if start == nil {
			return nil, common.NewValidationAPIError(map[string]string{"startDate": "The startDate field cannot be cleared."})
		}
		e.StartDate = *start
	}
	if req.EndDate != nil {
		if e.EndDate, err = parseDate("endDate", *req.EndDate); err != nil {
			return nil, err
		}
	}
	if req.IsCurrent != nil {
		e.IsCurrent = *req.IsCurrent
	}
	if req.Result != nil {
		e.Result = strings.TrimSpace(*req.Result)
	}
	if req.Description != nil {
		e.Description = req.Description
	}
	if req.Major != nil {
		e.Major = req.Major
	}
	if req.Board != nil {
		e.Board = req.Board
	}
	if req.Group != nil {
		e.Group = req.Group
	}
	if req.ModeOfStudy != nil {
		e.ModeOfStudy = req.ModeOfStudy
	}
	if req.LogoURL != nil {
		e.LogoURL = req.LogoURL
	}
	if req.DisplayOrder != nil {
		e.DisplayOrder = *req.DisplayOrder
	}
	if req.Location != nil {
		e.Location = req.Location
	}
	if req.Courses != nil {
		e.Courses = req.Courses
	}
	if req.Activities != nil {
		e.Activities = req.Activities
	}

	if err := checkRange(e.StartDate, e.EndDate); err != nil {
		return nil, err
	}
	if err := requireText(e); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	common.LoggerWithRequestID(ctx, s.logger).Info("Education record deleted", zap.String("education_id", id.String()))
	return nil
}

func requireText(e *Education) error {
	missing := map[string]string{}
	if e.Degree == "" {
		missing["degree"] = "The degree field must not be blank."
	}
	if e.Institute == "" {
		missing["institute"] = "The institute field must not be blank."
	}
	if e.Result == "" {
		missing["result"] = "The result field must not be blank."
	}
	if len(missing) > 0 {
		return common.NewValidationAPIError(missing)
	}
	return nil
}

func checkRange(start time.Time, end *time.Time) error {
	if end != nil && end.Before(start) {
		return common.NewValidationAPIError(map[string]string{
			"endDate": "The endDate field must not be before startDate.",
		})
	}
	return nil
}

// Academic dates are often known only to the month or year.
var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01", "2006"}

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
		field: "The " + field + " field must be a date (YYYY, YYYY-MM, YYYY-MM-DD or RFC 3339).",
	})
}
