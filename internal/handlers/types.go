package handlers

import (
	"encoding/json"

	"memberfee_app_echo/internal/models"
)

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest is the body of the change-password endpoints
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// MemberRequest is the body of member create and update. Password is
// required on create only.
type MemberRequest struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	MembershipID string `json:"membershipId" validate:"required"`
	Password     string `json:"password"`
	Active       *bool  `json:"active"`
}

// InstallmentRequest is the body of installment create and update
type InstallmentRequest struct {
	MemberID    uint        `json:"memberId" validate:"required"`
	Month       string      `json:"month" validate:"required,yearmonth"`
	Amount      json.Number `json:"amount" validate:"required"`
	PaymentDate string      `json:"paymentDate"`
}

// UserSummary is the principal returned by login and me
type UserSummary struct {
	ID       uint        `json:"id"`
	Email    string      `json:"email"`
	Name     string      `json:"name"`
	Role     models.Role `json:"role"`
	MemberID *uint       `json:"memberId,omitempty"`
}

// MessageResponse is a plain success message
type MessageResponse struct {
	Message string `json:"message"`
}
