package education

import (
	"time"

	"portfolio_backend/internal/common"

	"github.com/google/uuid"
)

// Modes of study accepted for ModeOfStudy.
const (
	ModeOnline   = "Online"
	ModeOnCampus = "On-Campus"
	ModeHybrid   = "Hybrid"
)

type Location struct {
	Country         string  `json:"country" binding:"required"`
	City            *string `json:"city,omitempty"`
	StateOrProvince *string `json:"stateOrProvince,omitempty"`
}

type Course struct {
	Name        string   `json:"name" binding:"required"`
	Code        *string  `json:"code,omitempty"`
	Description *string  `json:"description,omitempty"`
	Grade       *string  `json:"grade,omitempty"`
	Credits     *float64 `json:"credits,omitempty" binding:"omitempty,min=0"`
}

type ExtraCurricular struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Role        *string `json:"role,omitempty"`
	Duration    *string `json:"duration,omitempty"`
}

type Award struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Issuer      *string  `json:"issuer,omitempty"`
	Year        *string  `json:"year,omitempty"`
	MediaURLs   []string `json:"mediaUrls,omitempty" binding:"omitempty,dive,url"`
}

type Thesis struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Supervisor  *string `json:"supervisor,omitempty"`
	Institution *string `json:"institution,omitempty"`
	Year        *string `json:"year,omitempty"`
	DocumentURL *string `json:"documentUrl,omitempty" binding:"omitempty,url"`
}

type AcademicProject struct {
	Title            string   `json:"title" binding:"required"`
	Description      string   `json:"description" binding:"required"`
	TechnologiesUsed []string `json:"technologiesUsed,omitempty"`
	Collaborators    []string `json:"collaborators,omitempty"`
	RepositoryURL    *string  `json:"repositoryUrl,omitempty" binding:"omitempty,url"`
	LiveDemoURL      *string  `json:"liveDemoUrl,omitempty" binding:"omitempty,url"`
	Year             *string  `json:"year,omitempty"`
}

type Publication struct {
	Title               string   `json:"title" binding:"required"`
	JournalOrConference string   `json:"journalOrConference" binding:"required"`
	Authors             []string `json:"authors" binding:"required,min=1,dive,required"`
	Year                string   `json:"year" binding:"required"`
	URL                 *string  `json:"url,omitempty" binding:"omitempty,url"`
	DOI                 *string  `json:"doi,omitempty"`
}

type Certification struct {
	Name                string  `json:"name" binding:"required"`
	IssuingOrganization string  `json:"issuingOrganization" binding:"required"`
	IssueDate           string  `json:"issueDate" binding:"required,datetime=2006-01-02"`
	ExpirationDate      *string `json:"expirationDate,omitempty" binding:"omitempty,datetime=2006-01-02"`
	CredentialID        *string `json:"credentialId,omitempty"`
	CredentialURL       *string `json:"credentialUrl,omitempty" binding:"omitempty,url"`
}

// Activities groups everything done alongside the degree itself.
type Activities struct {
	ExtraCurriculars []ExtraCurricular `json:"extraCurriculars,omitempty" binding:"omitempty,dive"`
	Awards           []Award           `json:"awards,omitempty" binding:"omitempty,dive"`
	Theses           []Thesis          `json:"theses,omitempty" binding:"omitempty,dive"`
	Projects         []AcademicProject `json:"projects,omitempty" binding:"omitempty,dive"`
	Publications     []Publication     `json:"publications,omitempty" binding:"omitempty,dive"`
	Certifications   []Certification   `json:"certifications,omitempty" binding:"omitempty,dive"`
}

// Education is one entry of the owner's academic history.
// Nested documents are stored as JSON text columns.
type Education struct {
	common.BaseModel
	Degree       string    `gorm:"type:varchar(255);not null"`
	Field        *string   `gorm:"type:varchar(255)"`
	Domain       *string   `gorm:"type:varchar(255)"`
	Institute    string    `gorm:"type:varchar(255);not null"`
	StartDate    time.Time `gorm:"not null;index:idx_education_start_date"`
	EndDate      *time.Time
	IsCurrent    bool        `gorm:"not null"`
	Result       string      `gorm:"type:varchar(255);not null"`
	Description  *string     `gorm:"type:text"`
	Major        *string     `gorm:"type:varchar(255)"`
	Board        *string     `gorm:"type:varchar(255)"`
	Group        *string     `gorm:"column:study_group;type:varchar(255)"`
	ModeOfStudy  *string     `gorm:"type:varchar(20)"`
	LogoURL      *string     `gorm:"type:text"`
	DisplayOrder int         `gorm:"not null;index:idx_education_display_order"`
	Location     *Location   `gorm:"type:text;serializer:json"`
	Courses      []Course    `gorm:"type:text;serializer:json"`
	Activities   *Activities `gorm:"type:text;serializer:json"`
}

func (Education) TableName() string {
	return "education"
}

type CreateRequest struct {
	Degree       string      `json:"degree" binding:"required"`
	Field        *string     `json:"field,omitempty"`
	Domain       *string     `json:"domain,omitempty"`
	Institute    string      `json:"institute" binding:"required"`
	StartDate    string      `json:"startDate" binding:"required"`
	EndDate      *string     `json:"endDate,omitempty"`
	IsCurrent    bool        `json:"isCurrent"`
	Result       string      `json:"result" binding:"required"`
	Description  *string     `json:"description,omitempty"`
	Major        *string     `json:"major,omitempty"`
	Board        *string     `json:"board,omitempty"`
	Group        *string     `json:"group,omitempty"`
	ModeOfStudy  *string     `json:"modeOfStudy,omitempty" binding:"omitempty,oneof=Online On-Campus Hybrid"`
	LogoURL      *string     `json:"logoUrl,omitempty" binding:"omitempty,url"`
	DisplayOrder *int        `json:"displayOrder,omitempty" binding:"omitempty,min=0"`
	Location     *Location   `json:"location,omitempty"`
	Courses      []Course    `json:"courses,omitempty" binding:"omitempty,dive"`
	Activities   *Activities `json:"activities,omitempty"`
}

// UpdateRequest replaces only the fields that are present. Nested documents
// are replaced as a whole. An empty endDate clears it.
type UpdateRequest struct {
	Degree       *string     `json:"degree,omitempty" binding:"omitempty,min=1"`
	Field        *string     `json:"field,omitempty"`
	Domain       *string     `json:"domain,omitempty"`
	Institute    *string     `json:"institute,omitempty" binding:"omitempty,min=1"`
	StartDate    *string     `json:"startDate,omitempty" binding:"omitempty,min=1"`
	EndDate      *string     `json:"endDate,omitempty"`
	IsCurrent    *bool       `json:"isCurrent,omitempty"`
	Result       *string     `json:"result,omitempty" binding:"omitempty,min=1"`
	Description  *string     `json:"description,omitempty"`
	Major        *string     `json:"major,omitempty"`
	Board        *string     `json:"board,omitempty"`
	Group        *string     `json:"group,omitempty"`
	ModeOfStudy  *string     `json:"modeOfStudy,omitempty" binding:"omitempty,oneof=Online On-Campus Hybrid"`
	LogoURL      *string     `json:"logoUrl,omitempty" binding:"omitempty,url"`
	DisplayOrder *int        `json:"displayOrder,omitempty" binding:"omitempty,min=0"`
	Location     *Location   `json:"location,omitempty"`
	Courses      []Course    `json:"courses,omitempty" binding:"omitempty,dive"`
	Activities   *Activities `json:"activities,omitempty"`
}

type Response struct {
	ID           uuid.UUID   `json:"id"`
	Degree       string      `json:"degree"`
	Field        *string     `json:"field,omitempty"`
	Domain       *string     `json:"domain,omitempty"`
	Institute    string      `json:"institute"`
	StartDate    time.Time   `json:"startDate"`
	EndDate      *time.Time  `json:"endDate,omitempty"`
	IsCurrent    bool        `json:"isCurrent"`
	Result       string      `json:"result"`
	Description  *string     `json:"description,omitempty"`
	Major        *string     `json:"major,omitempty"`
	Board        *string     `json:"board,omitempty"`
	Group        *string     `json:"group,omitempty"`
	ModeOfStudy  *string     `json:"modeOfStudy,omitempty"`
	LogoURL      *string     `json:"logoUrl,omitempty"`
	DisplayOrder int         `json:"displayOrder"`
	Location     *Location   `json:"location,omitempty"`
	Courses      []Course    `json:"courses"`
	Activities   *Activities `json:"activities,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func ToResponse(e *Education) Response {
	courses := e.Courses
	if courses == nil {
		courses = []Course{}
	}
	return Response{
		ID:           e.ID,
		Degree:       e.Degree,
		Field:        e.Field,
		Domain:       e.Domain,
		Institute:    e.Institute,
		StartDate:    e.StartDate,
		EndDate:      e.EndDate,
		IsCurrent:    e.IsCurrent,
		Result:       e.Result,
		Description:  e.Description,
		Major:        e.Major,
		Board:        e.Board,
		Group:        e.Group,
		ModeOfStudy:  e.ModeOfStudy,
		LogoURL:      e.LogoURL,
		DisplayOrder: e.DisplayOrder,
		Location:     e.Location,
		Courses:      courses,
		Activities:   e.Activities,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
