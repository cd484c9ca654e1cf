// Package service manages the offerings listed in the portfolio's services section.
package service

import (
	"context"
	"strings"

	"portfolio_backend/internal/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the business logic for offerings.
type Service interface {
	List(ctx context.Context) ([]Offering, error)
	Get(ctx context.Context, id uuid.UUID) (*Offering, error)
	Create(ctx context.Context, req CreateRequest) (*Offering, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Offering, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type offeringService struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &offeringService{repo: repo, logger: logger}
}

func (s *offeringService) List(ctx context.Context) ([]Offering, error) {
	return s.repo.FindAll(ctx)
}

func (s *offeringService) Get(ctx context.Context, id uuid.UUID) (*Offering, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *offeringService) Create(ctx context.Context, req CreateRequest) (*Offering, error) {
	o := &Offering{
		IconLink:    strings.TrimSpace(req.IconLink),
		Icon:        strings.TrimSpace(req.Icon),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Position:    req.Position,
	}
	if err := checkBlank(o); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	common.LoggerWithRequestID(ctx, s.logger).Info("Service created",
		zap.String("service_id", o.ID.String()), zap.String("title", o.Title))
	return o, nil
}

func (s *offeringService) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Offering, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.IconLink != nil {
		o.IconLink = strings.TrimSpace(*req.IconLink)
	}
	if req.Icon != nil {
		o.Icon = strings.TrimSpace(*req.Icon)
	}
	if req.Title != nil {
		o.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		o.Description = strings.TrimSpace(*req.Description)
	}
	if req.Position != nil {
		o.Position = *req.Position
	}
	if err := checkBlank(o); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	common.LoggerWithRequestID(ctx, s.logger).Info("Service updated", zap.String("service_id", id.String()))
	return o, nil
}

func (s *offeringService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func checkBlank(o *Offering) error {
	blank := map[string]string{}
	for field, v := range map[string]string{
		"iconLink":    o.IconLink,
		"icon":        o.Icon,
		"title":       o.Title,
		"description": o.Description,
	} {
		if v == "" {
			blank[field] = "The " + field + " field must not be blank."
		}
	}
	if len(blank) > 0 {
		return common.NewValidationAPIError(blank)
	}
	return nil
}
