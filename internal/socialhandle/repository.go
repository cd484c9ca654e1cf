package socialhandle

import (
	"context"
	"time"

	"portfolio_backend/internal/common"
	"portfolio_backend/internal/config"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for social handle data operations.
type Repository interface {
	Create(ctx context.Context, h *SocialHandle) error
	FindByID(ctx context.Context, id uuid.UUID) (*SocialHandle, error)
	FindAll(ctx context.Context, visibleOnly bool) ([]SocialHandle, error)
	Update(ctx context.Context, h *SocialHandle) error
	Delete(ctx context.Context, id uuid.UUID) error
}

const (
	msgNotFound  = "Social handle not found."
	msgDuplicate = "Social handle already exists."
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

func translate(err error) error {
	return common.TranslateStoreError(err, msgNotFound, msgDuplicate)
}

func (r *gormRepository) Create(ctx context.Context, h *SocialHandle) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return translate(r.db.WithContext(ctx).Create(h).Error)
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*SocialHandle, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var h SocialHandle
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&h).Error; err != nil {
		return nil, translate(err)
	}
	return &h, nil
}

// FindAll returns handles by ascending position; ties keep creation order.
func (r *gormRepository) FindAll(ctx context.Context, visibleOnly bool) ([]SocialHandle, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	q := r.db.WithContext(ctx).Model(&SocialHandle{})
	if visibleOnly {
		q = q.Where("hide = ?", false)
	}
	var handles []SocialHandle
	if err := q.Order("position ASC").Order("created_at ASC").Find(&handles).Error; err != nil {
		return nil, translate(err)
	}
	return handles, nil
}

func (r *gormRepository) Update(ctx context.Context, h *SocialHandle) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	h.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(h).Select("name", "link", "hide", "position", "updated_at").Updates(h)
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

	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&SocialHandle{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails(msgNotFound)
	}
	return nil
}
