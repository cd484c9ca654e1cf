package user

import (
	"time"

	"portfolio_backend/internal/common"

	"github.com/google/uuid"
)

// User is the local mirror of an identity managed by the external provider.
type User struct {
	common.BaseModel
	ExternalID      string  `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_external_id"`
	Email           string  `gorm:"type:varchar(255);not null;index:idx_users_email"`
	FirstName       *string `gorm:"type:varchar(100)"`
	LastName        *string `gorm:"type:varchar(100)"`
	ProfileImageURL *string `gorm:"type:text"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}

// UserChanges carries the columns of a partial update. Nil fields are left untouched.
type UserChanges struct {
	Email           *string
	FirstName       *string
	LastName        *string
	ProfileImageURL *string
}

// IsEmpty reports whether no field is staged.
func (c UserChanges) IsEmpty() bool {
	return c.Email == nil && c.FirstName == nil && c.LastName == nil && c.ProfileImageURL == nil
}

// Fields lists the JSON names of the staged fields, for logging.
func (c UserChanges) Fields() []string {
	var fields []string
	if c.Email != nil {
		fields = append(fields, "email")
	}
	if c.FirstName != nil {
		fields = append(fields, "firstName")
	}
	if c.LastName != nil {
		fields = append(fields, "lastName")
	}
	if c.ProfileImageURL != nil {
		fields = append(fields, "profileImageUrl")
	}
	return fields
}

func (c UserChanges) columns() map[string]interface{} {
	cols := make(map[string]interface{}, 5)
	if c.Email != nil {
		cols["email"] = *c.Email
	}
	if c.FirstName != nil {
		cols["first_name"] = *c.FirstName
	}
	if c.LastName != nil {
		cols["last_name"] = *c.LastName
	}
	if c.ProfileImageURL != nil {
		cols["profile_image_url"] = *c.ProfileImageURL
	}
	return cols
}

// UserResponse is the public representation of a user.
type UserResponse struct {
	ID              uuid.UUID `json:"id"`
	ExternalID      string    `json:"externalId"`
	Email           string    `json:"email"`
	FirstName       *string   `json:"firstName,omitempty"`
	LastName        *string   `json:"lastName,omitempty"`
	ProfileImageURL *string   `json:"profileImageUrl,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ToUserResponse converts a User model to a UserResponse.
func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:              u.ID,
		ExternalID:      u.ExternalID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	ExternalID      string  `json:"externalId" binding:"required,max=255"`
	Email           string  `json:"email" binding:"required,email,max=255"`
	FirstName       *string `json:"firstName,omitempty" binding:"omitempty,max=100"`
	LastName        *string `json:"lastName,omitempty" binding:"omitempty,max=100"`
	ProfileImageURL *string `json:"profileImageUrl,omitempty" binding:"omitempty,url"`
}

// UpdateUserRequest is the body of PATCH /users/:id. The external id is immutable.
type UpdateUserRequest struct {
	Email           *string `json:"email,omitempty" binding:"omitempty,email,max=255"`
	FirstName       *string `json:"firstName,omitempty" binding:"omitempty,max=100"`
	LastName        *string `json:"lastName,omitempty" binding:"omitempty,max=100"`
	ProfileImageURL *string `json:"profileImageUrl,omitempty" binding:"omitempty,url"`
}

// Changes converts the request into staged columns.
func (r UpdateUserRequest) Changes() UserChanges {
	return UserChanges{
		Email:           r.Email,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		ProfileImageURL: r.ProfileImageURL,
	}
}
