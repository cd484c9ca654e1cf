package project

import (
	"time"

	"portfolio_backend/internal/common"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a portfolio project.
type Status string

const (
	StatusStart    Status = "start"
	StatusOngoing  Status = "ongoing"
	StatusDone     Status = "done"
	StatusCanceled Status = "canceled"
	StatusUpcoming Status = "upcoming"
)

// Timeline bounds a project in time. Both ends are optional.
type Timeline struct {
	StartDate *time.Time `gorm:"column:start_date"`
	EndDate   *time.Time `gorm:"column:end_date"`
}

// Project represents a portfolio project.
type Project struct {
	common.BaseModel
	Slug             string   `gorm:"type:varchar(255);not null;uniqueIndex:idx_projects_slug"`
	Title            string   `gorm:"type:varchar(255);not null"`
	Subtitle         *string  `gorm:"type:varchar(255)"`
	Description      string   `gorm:"type:text;not null"`
	Technologies     []string `gorm:"type:text;serializer:json"`
	RepoURL          *string  `gorm:"type:text"`
	LiveURL          *string  `gorm:"type:text"`
	PreviewImageURLs []string `gorm:"type:text;serializer:json"`
	IconURL          *string  `gorm:"type:text"`
	Featured         bool     `gorm:"not null;index"`
	Keywords         []string `gorm:"type:text;serializer:json"`
	Timeline         Timeline `gorm:"embedded;embeddedPrefix:timeline_"`
	IsUpcoming       bool     `gorm:"not null"`
	Status           Status   `gorm:"type:varchar(20);not null;index"`
}

// TableName specifies the table name for GORM.
func (Project) TableName() string {
	return "projects"
}

// TimelineRequest is the wire form of a timeline; dates are YYYY-MM-DD or RFC 3339.
type TimelineRequest struct {
	StartDate *string `json:"startDate,omitempty"`
	EndDate   *string `json:"endDate,omitempty"`
}

// CreateProjectRequest is the body of POST /projects.
type CreateProjectRequest struct {
	Title            string           `json:"title" binding:"required,max=255"`
	Subtitle         *string          `json:"subtitle,omitempty" binding:"omitempty,max=255"`
	Description      string           `json:"description" binding:"required"`
	Technologies     []string         `json:"technologies,omitempty" binding:"omitempty,dive,required"`
	RepoURL          *string          `json:"repoUrl,omitempty" binding:"omitempty,url"`
	LiveURL          *string          `json:"liveUrl,omitempty" binding:"omitempty,url"`
	PreviewImageURLs []string         `json:"previewImageUrls,omitempty" binding:"omitempty,dive,url"`
	IconURL          *string          `json:"iconUrl,omitempty" binding:"omitempty,url"`
	Featured         bool             `json:"featured"`
	Keywords         []string         `json:"keywords,omitempty" binding:"omitempty,dive,required"`
	Timeline         *TimelineRequest `json:"timeline,omitempty"`
	IsUpcoming       bool             `json:"isUpcoming"`
	Status           Status           `json:"status" binding:"required,oneof=start ongoing done canceled upcoming"`
}

// UpdateProjectRequest is the body of PATCH /projects/:id. Nil fields are left untouched.
type UpdateProjectRequest struct {
	Title            *string          `json:"title,omitempty" binding:"omitempty,min=1,max=255"`
	Subtitle         *string          `json:"subtitle,omitempty" binding:"omitempty,max=255"`
	Description      *string          `json:"description,omitempty" binding:"omitempty,min=1"`
	Technologies     []string         `json:"technologies,omitempty" binding:"omitempty,dive,required"`
	RepoURL          *string          `json:"repoUrl,omitempty" binding:"omitempty,url"`
	LiveURL          *string          `json:"liveUrl,omitempty" binding:"omitempty,url"`
	PreviewImageURLs []string         `json:"previewImageUrls,omitempty" binding:"omitempty,dive,url"`
	IconURL          *string          `json:"iconUrl,omitempty" binding:"omitempty,url"`
	Featured         *bool            `json:"featured,omitempty"`
	Keywords         []string         `json:"keywords,omitempty" binding:"omitempty,dive,required"`
	Timeline         *TimelineRequest `json:"timeline,omitempty"`
	IsUpcoming       *bool            `json:"isUpcoming,omitempty"`
	Status           *Status          `json:"status,omitempty" binding:"omitempty,oneof=start ongoing done canceled upcoming"`
}

// TimelineResponse is the public representation of a timeline.
type TimelineResponse struct {
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

// ProjectResponse is the public representation of a project.
type ProjectResponse struct {
	ID               uuid.UUID        `json:"id"`
	Slug             string           `json:"slug"`
	Title            string           `json:"title"`
	Subtitle         *string          `json:"subtitle,omitempty"`
	Description      string           `json:"description"`
	Technologies     []string         `json:"technologies"`
	RepoURL          *string          `json:"repoUrl,omitempty"`
	LiveURL          *string          `json:"liveUrl,omitempty"`
	PreviewImageURLs []string         `json:"previewImageUrls"`
	IconURL          *string          `json:"iconUrl,omitempty"`
	Featured         bool             `json:"featured"`
	Keywords         []string         `json:"keywords"`
	Timeline         TimelineResponse `json:"timeline"`
	IsUpcoming       bool             `json:"isUpcoming"`
	Status           Status           `json:"status"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// ToProjectResponse converts a Project model to a ProjectResponse.
func ToProjectResponse(p *Project) ProjectResponse {
	return ProjectResponse{
		ID:               p.ID,
		Slug:             p.Slug,
		Title:            p.Title,
		Subtitle:         p.Subtitle,
		Description:      p.Description,
		Technologies:     nonNil(p.Technologies),
		RepoURL:          p.RepoURL,
		LiveURL:          p.LiveURL,
		PreviewImageURLs: nonNil(p.PreviewImageURLs),
		IconURL:          p.IconURL,
		Featured:         p.Featured,
		Keywords:         nonNil(p.Keywords),
		Timeline:         TimelineResponse{StartDate: p.Timeline.StartDate, EndDate: p.Timeline.EndDate},
		IsUpcoming:       p.IsUpcoming,
		Status:           p.Status,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// ListFilter narrows GET /projects.
type ListFilter struct {
	Featured *bool
	Status   Status
}
