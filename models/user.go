package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is someone who orders meals. Credentials live with the identity provider.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email       string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FirstName   string    `gorm:"type:varchar(100)" json:"first_name"`
	LastName    string    `gorm:"type:varchar(100)" json:"last_name"`
	PhoneNumber string    `gorm:"type:varchar(32)" json:"phone_number"`
	Role        string    `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	IsActive    bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// CreateUserRequest is the admin payload for adding a user.
type CreateUserRequest struct {
	Email       string `json:"email" binding:"required,email"`
	FirstName   string `json:"first_name" binding:"max=100"`
	LastName    string `json:"last_name" binding:"max=100"`
	PhoneNumber string `json:"phone_number" binding:"max=32"`
	Role        string `json:"role" binding:"omitempty,oneof=admin user"`
}

// UpdateUserRequest is a partial user update.
type UpdateUserRequest struct {
	FirstName   *string `json:"first_name" binding:"omitempty,max=100"`
	LastName    *string `json:"last_name" binding:"omitempty,max=100"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,max=32"`
	Role        *string `json:"role" binding:"omitempty,oneof=admin user"`
	IsActive    *bool   `json:"is_active"`
}
