package service

import (
	"time"

	"portfolio_backend/internal/common"

	"github.com/google/uuid"
)

// Offering is a service the portfolio owner offers, rendered as a card.
type Offering struct {
	common.BaseModel
	IconLink    string `gorm:"type:text;not null"`
	Icon        string `gorm:"type:varchar(100);not null"`
	Title       string `gorm:"type:varchar(255);not null"`
	Description string `gorm:"type:text;not null"`
	Position    int    `gorm:"not null;index:idx_services_position"`
}

func (Offering) TableName() string {
	return "services"
}

type CreateRequest struct {
	IconLink    string `json:"iconLink" binding:"required"`
	Icon        string `json:"icon" binding:"required,max=100"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Position    int    `json:"position" binding:"required,min=1"`
}

type UpdateRequest struct {
	IconLink    *string `json:"iconLink,omitempty" binding:"omitempty,min=1"`
	Icon        *string `json:"icon,omitempty" binding:"omitempty,min=1,max=100"`
	Title       *string `json:"title,omitempty" binding:"omitempty,min=1"`
	Description *string `json:"description,omitempty" binding:"omitempty,min=1"`
	Position    *int    `json:"position,omitempty" binding:"omitempty,min=1"`
}

type Response struct {
	ID          uuid.UUID `json:"id"`
	IconLink    string    `json:"iconLink"`
	Icon        string    `json:"icon"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func ToResponse(o *Offering) Response {
	return Response{
		ID:          o.ID,
		IconLink:    o.IconLink,
		Icon:        o.Icon,
		Title:       o.Title,
		Description: o.Description,
		Position:    o.Position,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}
