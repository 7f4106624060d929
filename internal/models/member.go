package models

import (
	"time"
)

// Member is the membership record owned one-to-one by a MEMBER user
type Member struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID       uint   `gorm:"uniqueIndex;not null" json:"userId"`
	MembershipID string `gorm:"type:varchar(100);uniqueIndex;not null" json:"membershipId"`
	Active       bool   `gorm:"not null;default:true" json:"active"`

	// Relationships
	User         User          `gorm:"foreignKey:UserID" json:"user"`
	Installments []Installment `gorm:"foreignKey:MemberID" json:"installments,omitempty"`
}
