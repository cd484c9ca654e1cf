package interest

import (
	"time"

	"portfolio_backend/internal/common"

	"github.com/google/uuid"
)

// Interest is a hobby or topic shown on the portfolio. Icon is usually an
// emoji; IconPath optionally points at an image that replaces it.
type Interest struct {
	common.BaseModel
	Title       string  `gorm:"type:varchar(255);not null"`
	Description string  `gorm:"type:text;not null"`
	Icon        string  `gorm:"type:varchar(64);not null"`
	IconPath    *string `gorm:"type:text"`
	Position    int     `gorm:"not null;index:idx_interests_position"`
}

func (Interest) TableName() string {
	return "interests"
}

type CreateRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Icon        string  `json:"icon" binding:"required,max=64"`
	IconPath    *string `json:"iconPath,omitempty"`
	Position    int     `json:"position" binding:"required,min=1"`
}

// UpdateRequest changes only the supplied fields. An empty iconPath removes it.
type UpdateRequest struct {
	Title       *string `json:"title,omitempty" binding:"omitempty,min=1"`
	Description *string `json:"description,omitempty" binding:"omitempty,min=1"`
	Icon        *string `json:"icon,omitempty" binding:"omitempty,min=1,max=64"`
	IconPath    *string `json:"iconPath,omitempty"`
	Position    *int    `json:"position,omitempty" binding:"omitempty,min=1"`
}

type Response struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	IconPath    *string   `json:"iconPath,omitempty"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func ToResponse(i *Interest) Response {
	return Response{
		ID:          i.ID,
		Title:       i.Title,
		Description: i.Description,
		Icon:        i.Icon,
		IconPath:    i.IconPath,
		Position:    i.Position,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}
