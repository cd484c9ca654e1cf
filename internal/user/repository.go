package user

import (
	"context"
	"time"

	"portfolio_backend/internal/common"
	"portfolio_backend/internal/config"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for user data operations.
type Repository interface {
	FindByExternalID(ctx context.Context, externalID string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, id uuid.UUID, changes UserChanges) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, offset, limit int) ([]User, int64, error)
}

const (
	msgUserNotFound      = "User not found."
	msgDuplicateExternal = "User with this external ID already exists."
)

type gormRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewGORMRepository creates a new GORM user repository.
// Every call is bounded by DB_QUERY_TIMEOUT_SECONDS when it is set.
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
	return common.TranslateStoreError(err, msgUserNotFound, msgDuplicateExternal)
}

// FindByExternalID retrieves a user by the identity provider's subject id.
func (r *gormRepository) FindByExternalID(ctx context.Context, externalID string) (*User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var u User
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// FindByID retrieves a user by local id.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var u User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// Create inserts a new user. A duplicate external id yields common.ErrConflict.
func (r *gormRepository) Create(ctx context.Context, user *User) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return translate(r.db.WithContext(ctx).Create(user).Error)
}

// Update writes exactly the staged columns plus updated_at and returns the refreshed row.
func (r *gormRepository) Update(ctx context.Context, id uuid.UUID, changes UserChanges) (*User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	cols := changes.columns()
	cols["updated_at"] = time.Now().UTC()

	res := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, common.ErrNotFound.WithDetails(msgUserNotFound)
	}

	var u User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// Delete removes a user by local id.
func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&User{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails(msgUserNotFound)
	}
	return nil
}

// List returns one page of users ordered by creation time, plus the total count.
func (r *gormRepository) List(ctx context.Context, offset, limit int) ([]User, int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int64
	if err := r.db.WithContext(ctx).Model(&User{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var users []User
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return users, total, nil
}
