package socialhandle

import (
	"time"

	"portfolio_backend/internal/common"

	"github.com/google/uuid"
)

// SocialHandle is a link to one of the owner's profiles (github, linkedin, mail...).
type SocialHandle struct {
	common.BaseModel
	Name     string `gorm:"type:varchar(100);not null;index:idx_social_handles_name"`
	Link     string `gorm:"type:text;not null"`
	Hide     bool   `gorm:"not null"`
	Position int    `gorm:"not null;index:idx_social_handles_position"`
}

func (SocialHandle) TableName() string {
	return "social_handles"
}

type CreateRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Link     string `json:"link" binding:"required"`
	Hide     bool   `json:"hide"`
	Position int    `json:"position" binding:"required,min=1"`
}

type UpdateRequest struct {
	Name     *string `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Link     *string `json:"link,omitempty" binding:"omitempty,min=1"`
	Hide     *bool   `json:"hide,omitempty"`
	Position *int    `json:"position,omitempty" binding:"omitempty,min=1"`
}

type Response struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Link      string    `json:"link"`
	Hide      bool      `json:"hide"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ToResponse(h *SocialHandle) Response {
	return Response{
		ID:        h.ID,
		Name:      h.Name,
		Link:      h.Link,
		Hide:      h.Hide,
		Position:  h.Position,
		CreatedAt: h.CreatedAt,
		UpdatedAt: h.UpdatedAt,
	}
}
