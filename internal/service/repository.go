package service

import (
	"context"
	"time"

	"portfolio_backend/internal/common"
	"portfolio_backend/internal/config"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists offerings.
type Repository interface {
	Create(ctx context.Context, o *Offering) error
	FindByID(ctx context.Context, id uuid.UUID) (*Offering, error)
	FindAll(ctx context.Context) ([]Offering, error)
	Update(ctx context.Context, o *Offering) error
	Delete(ctx context.Context, id uuid.UUID) error
}

const (
	msgNotFound = "Service not found."
	msgConflict = "Service already exists."
)

type gormRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewGORMRepository(db *gorm.DB, cfg *config.Config) Repository {
	return &gormRepository{db: db, timeout: cfg.DBQueryTimeout}
}

func (r *gormRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *gormRepository) Create(ctx context.Context, o *Offering) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return common.TranslateStoreError(r.db.WithContext(ctx).Create(o).Error, msgNotFound, msgConflict)
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Offering, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var o Offering
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&o).Error; err != nil {
		return nil, common.TranslateStoreError(err, msgNotFound, msgConflict)
	}
	return &o, nil
}

// FindAll returns offerings by ascending position.
func (r *gormRepository) FindAll(ctx context.Context) ([]Offering, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var offerings []Offering
	err := r.db.WithContext(ctx).Order("position ASC").Order("created_at ASC").Find(&offerings).Error
	if err != nil {
		return nil, common.TranslateStoreError(err, msgNotFound, msgConflict)
	}
	return offerings, nil
}

func (r *gormRepository) Update(ctx context.Context, o *Offering) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	o.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(o).
		Select("icon_link", "icon", "title", "description", "position", "updated_at").
		Updates(o)
	if res.Error != nil {
		return common.TranslateStoreError(res.Error, msgNotFound, msgConflict)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails(msgNotFound)
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Offering{})
	if res.Error != nil {
		return common.TranslateStoreError(res.Error, msgNotFound, msgConflict)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails(msgNotFound)
	}
	return nil
}
