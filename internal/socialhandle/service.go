package socialhandle

import (
	"context"
	"strings"

	"portfolio_backend/internal/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context, visibleOnly bool) ([]SocialHandle, error)
	Get(ctx context.Context, id uuid.UUID) (*SocialHandle, error)
	Create(ctx context.Context, req CreateRequest) (*SocialHandle, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*SocialHandle, error)
	Delete(ctx context.Context, id uuid.UUID) (*SocialHandle, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{repo: repo, logger: logger}
}

func (s *service) List(ctx context.Context, visibleOnly bool) ([]SocialHandle, error) {
	return s.repo.FindAll(ctx, visibleOnly)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*SocialHandle, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*SocialHandle, error) {
	h := &SocialHandle{
		Name:     strings.TrimSpace(req.Name),
		Link:     strings.TrimSpace(req.Link),
		Hide:     req.Hide,
		Position: req.Position,
	}
	if h.Name == "" || h.Link == "" {
		return nil, common.NewValidationAPIError(map[string]string{"Name": "Name and link must not be blank."})
	}
	if err := s.repo.Create(ctx, h); err != nil {
		return nil, err
	}
	common.LoggerWithRequestID(ctx, s.logger).Info("Social handle created",
		zap.String("social_handle_id", h.ID.String()), zap.String("name", h.Name))
	return h, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*SocialHandle, error) {
	h, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		h.Name = strings.TrimSpace(*req.Name)
	}
	if req.Link != nil {
		h.Link = strings.TrimSpace(*req.Link)
	}
	if req.Hide != nil {
		h.Hide = *req.Hide
	}
	if req.Position != nil {
		h.Position = *req.Position
	}
	if h.Name == "" || h.Link == "" {
		return nil, common.NewValidationAPIError(map[string]string{"Name": "Name and link must not be blank."})
	}

	if err := s.repo.Update(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// Delete removes the handle and returns it as it was before deletion.
func (s *service) Delete(ctx context.Context, id uuid.UUID) (*SocialHandle, error) {
	h, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	common.LoggerWithRequestID(ctx, s.logger).Info("Social handle deleted", zap.String("social_handle_id", id.String()))
	return h, nil
}
