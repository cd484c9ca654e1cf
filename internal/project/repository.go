package project

import (
	"context"
	"strings"
	"time"

	"portfolio_backend/internal/common"
	"portfolio_backend/internal/config"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for project data operations.
type Repository interface {
	Create(ctx context.Context, p *Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)
	FindBySlug(ctx context.Context, slug string) (*Project, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Project, error)
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ListFilter, offset, limit int) ([]Project, int64, error)
	SearchText(ctx context.Context, query string, offset, limit int) ([]Project, int64, error)
	FindDueUpcoming(ctx context.Context, now time.Time) ([]Project, error)
	MarkOngoing(ctx context.Context, ids []uuid.UUID) (int64, error)
	FindAllForSync(ctx context.Context, offset, limit int) ([]Project, error)
}

const (
	msgProjectNotFound = "Project not found."
	msgDuplicateSlug   = "Project with this slug already exists."
)

type gormRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewGORMRepository creates a new GORM project repository.
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
	return common.TranslateStoreError(err, msgProjectNotFound, msgDuplicateSlug)
}

func (r *gormRepository) Create(ctx context.Context, p *Project) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var p Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *gormRepository) FindBySlug(ctx context.Context, slug string) (*Project, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var p Project
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// FindByIDs loads the given projects, preserving the order of ids. Unknown ids are skipped.
func (r *gormRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Project, error) {
	if len(ids) == 0 {
		return []Project{}, nil
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var found []Project
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, translate(err)
	}

	byID := make(map[uuid.UUID]Project, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	ordered := make([]Project, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// Update writes every mutable column of p, including zero values.
func (r *gormRepository) Update(ctx context.Context, p *Project) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	p.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(p).Select("*").Omit("id", "created_at").Updates(p)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails(msgProjectNotFound)
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Project{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails(msgProjectNotFound)
	}
	return nil
}

// List returns one page of projects, featured first, then newest.
func (r *gormRepository) List(ctx context.Context, filter ListFilter, offset, limit int) ([]Project, int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	q := r.db.WithContext(ctx).Model(&Project{})
	if filter.Featured != nil {
		q = q.Where("featured = ?", *filter.Featured)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var projects []Project
	err := q.Order("featured DESC").Order("created_at DESC").Offset(offset).Limit(limit).Find(&projects).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return projects, total, nil
}

// SearchText is the database fallback for full-text search: a case-insensitive
// substring match over title, subtitle, description, technologies and keywords.
func (r *gormRepository) SearchText(ctx context.Context, query string, offset, limit int) ([]Project, int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	term := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	q := r.db.WithContext(ctx).Model(&Project{}).Where(
		"LOWER(title) LIKE ? OR LOWER(COALESCE(subtitle, '')) LIKE ? OR LOWER(description) LIKE ? "+
			"OR LOWER(COALESCE(technologies, '')) LIKE ? OR LOWER(COALESCE(keywords, '')) LIKE ?",
		term, term, term, term, term,
	)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var projects []Project
	if err := q.Order("featured DESC").Order("created_at DESC").Offset(offset).Limit(limit).Find(&projects).Error; err != nil {
		return nil, 0, translate(err)
	}
	return projects, total, nil
}

// FindDueUpcoming returns upcoming projects whose start date is at or before now.
func (r *gormRepository) FindDueUpcoming(ctx context.Context, now time.Time) ([]Project, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var projects []Project
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusUpcoming).
		Where("timeline_start_date IS NOT NULL AND timeline_start_date <= ?", now.UTC()).
		Find(&projects).Error
	if err != nil {
		return nil, translate(err)
	}
	return projects, nil
}

// MarkOngoing moves the given upcoming projects to ongoing in one statement.
func (r *gormRepository) MarkOngoing(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res := r.db.WithContext(ctx).Model(&Project{}).
		Where("id IN ? AND status = ?", ids, StatusUpcoming).
		Updates(map[string]interface{}{
			"status":      StatusOngoing,
			"is_upcoming": false,
			"updated_at":  time.Now().UTC(),
		})
	if res.Error != nil {
		return 0, translate(res.Error)
	}
	return res.RowsAffected, nil
}

// FindAllForSync pages through every project in id order for search re-indexing.
func (r *gormRepository) FindAllForSync(ctx context.Context, offset, limit int) ([]Project, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var projects []Project
	if err := r.db.WithContext(ctx).Order("id ASC").Offset(offset).Limit(limit).Find(&projects).Error; err != nil {
		return nil, translate(err)
	}
	return projects, nil
}
