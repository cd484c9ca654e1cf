package user

import (
	"context"
	"errors"
	"strings"

	"portfolio_backend/internal/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the administrative user operations.
type Service interface {
	List(ctx context.Context, page, pageSize int) ([]User, *common.Pagination, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByExternalID(ctx context.Context, externalID string) (*User, error)
	Create(ctx context.Context, req CreateUserRequest) (*User, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new user service.
func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{repo: repo, logger: logger}
}

func (s *service) List(ctx context.Context, page, pageSize int) ([]User, *common.Pagination, error) {
	users, total, err := s.repo.List(ctx, common.Offset(page, pageSize), pageSize)
	if err != nil {
		return nil, nil, err
	}
	return users, common.NewPagination(total, page, pageSize), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) GetByExternalID(ctx context.Context, externalID string) (*User, error) {
	u, err := s.repo.FindByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound.WithDetails("User not found. Call POST /auth/sync first.")
		}
		return nil, err
	}
	return u, nil
}

func (s *service) Create(ctx context.Context, req CreateUserRequest) (*User, error) {
	u := &User{
		ExternalID:      strings.TrimSpace(req.ExternalID),
		Email:           strings.TrimSpace(req.Email),
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		ProfileImageURL: req.ProfileImageURL,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		common.LoggerWithRequestID(ctx, s.logger).Warn("Failed to create user",
			zap.String("external_id", u.ExternalID), zap.Error(err))
		return nil, err
	}
	common.LoggerWithRequestID(ctx, s.logger).Info("User created",
		zap.String("user_id", u.ID.String()), zap.String("external_id", u.ExternalID))
	return u, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*User, error) {
	changes := req.Changes()
	if changes.IsEmpty() {
		return s.repo.FindByID(ctx, id)
	}
	u, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	common.LoggerWithRequestID(ctx, s.logger).Info("User updated",
		zap.String("user_id", id.String()), zap.Strings("fields", changes.Fields()))
	return u, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	common.LoggerWithRequestID(ctx, s.logger).Info("User deleted", zap.String("user_id", id.String()))
	return nil
}
