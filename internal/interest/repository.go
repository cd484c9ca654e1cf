package interest

import (
	"context"
	"time"

	"portfolio_backend/internal/common"
	"portfolio_backend/internal/config"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, i *Interest) error
	FindByID(ctx context.Context, id uuid.UUID) (*Interest, error)
	FindAll(ctx context.Context) ([]Interest, error)
	Update(ctx context.Context, i *Interest) error
	Delete(ctx context.Context, id uuid.UUID) error
}

const msgNotFound = "Interest not found."

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

func translate(err error) error {
	return common.TranslateStoreError(err, msgNotFound, "Interest already exists.")
}

func (r *gormRepository) Create(ctx context.Context, i *Interest) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return translate(r.db.WithContext(ctx).Create(i).Error)
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Interest, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var i Interest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&i).Error; err != nil {
		return nil, translate(err)
	}
	return &i, nil
}

func (r *gormRepository) FindAll(ctx context.Context) ([]Interest, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var interests []Interest
	if err := r.db.WithContext(ctx).Order("position ASC").Order("created_at ASC").Find(&interests).Error; err != nil {
		return nil, translate(err)
	}
	return interests, nil
}

func (r *gormRepository) Update(ctx context.Context, i *Interest) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	i.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(i).
		Select("title", "description", "icon", "icon_path", "position", "updated_at").
		Updates(i)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails(msgNotFound)
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Interest{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails(msgNotFound)
	}
	return nil
}
