package education

import (
	"context"
	"time"

	"portfolio_backend/internal/common"
	"portfolio_backend/internal/config"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, e *Education) error
	FindByID(ctx context.Context, id uuid.UUID) (*Education, error)
	FindAll(ctx context.Context) ([]Education, error)
	Update(ctx context.Context, e *Education) error
	Delete(ctx context.Context, id uuid.UUID) error
}

const (
	msgNotFound = "Education record not found."
	msgConflict = "Education record already exists."
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

func (r *gormRepository) Create(ctx context.Context, e *Education) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return common.TranslateStoreError(r.db.WithContext(ctx).Create(e).Error, msgNotFound, msgConflict)
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Education, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var e Education
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, common.TranslateStoreError(err, msgNotFound, msgConflict)
	}
	return &e, nil
}

// FindAll orders by display order, then most recent start first.
func (r *gormRepository) FindAll(ctx context.Context) ([]Education, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var entries []Education
	err := r.db.WithContext(ctx).
		Order("display_order ASC").
		Order("start_date DESC").
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, common.TranslateStoreError(err, msgNotFound, msgConflict)
	}
	return entries, nil
}

func (r *gormRepository) Update(ctx context.Context, e *Education) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	e.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(e).Select("*").Omit("id", "created_at").Updates(e)
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

	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Education{})
	if res.Error != nil {
		return common.TranslateStoreError(res.Error, msgNotFound, msgConflict)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails(msgNotFound)
	}
	return nil
}
