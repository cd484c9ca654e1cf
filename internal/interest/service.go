package interest

import (
	"context"
	"strings"

	"portfolio_backend/internal/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context) ([]Interest, error)
	Get(ctx context.Context, id uuid.UUID) (*Interest, error)
	Create(ctx context.Context, req CreateRequest) (*Interest, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Interest, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{repo: repo, logger: logger}
}

func (s *service) List(ctx context.Context) ([]Interest, error) {
	return s.repo.FindAll(ctx)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Interest, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Interest, error) {
	i := &Interest{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Icon:        strings.TrimSpace(req.Icon),
		IconPath:    optional(req.IconPath),
		Position:    req.Position,
	}
	if err := validate(i); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, i); err != nil {
		return nil, err
	}
	common.LoggerWithRequestID(ctx, s.logger).Info("Interest created",
		zap.String("interest_id", i.ID.String()), zap.String("title", i.Title))
	return i, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Interest, error) {
	i, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		i.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		i.Description = strings.TrimSpace(*req.Description)
	}
	if req.Icon != nil {
		i.Icon = strings.TrimSpace(*req.Icon)
	}
	if req.IconPath != nil {
		i.IconPath = optional(req.IconPath)
	}
	if req.Position != nil {
		i.Position = *req.Position
	}
	if err := validate(i); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	common.LoggerWithRequestID(ctx, s.logger).Info("Interest deleted", zap.String("interest_id", id.String()))
	return nil
}

func validate(i *Interest) error {
	if i.Title == "" || i.Description == "" || i.Icon == "" {
		return common.NewValidationAPIError(map[string]string{
			"Title": "Title, description and icon must not be blank.",
		})
	}
	return nil
}

// optional maps a blank value to nil.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
