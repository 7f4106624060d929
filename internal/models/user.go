package models

import (
	"time"
)

// Role represents the access role of a user
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// User represents a login identity. Admins have no Member record.
type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Email    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password string `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Role     Role   `gorm:"type:varchar(20);not null;default:'MEMBER'" json:"role"`

	// Relationships
	Member *Member `gorm:"foreignKey:UserID" json:"member,omitempty"`
}
