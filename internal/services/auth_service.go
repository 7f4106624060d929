package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"memberfee_app_echo/internal/auth"
	"memberfee_app_echo/internal/models"
)

// MinPasswordLength applies to password changes only, never to login
const MinPasswordLength = 8

// AuthService handles credential checks and password changes
type AuthService struct {
	db       *gorm.DB
	throttle LoginThrottle
	logger   *slog.Logger
}

// NewAuthService creates a new AuthService. throttle may be nil.
func NewAuthService(db *gorm.DB, throttle LoginThrottle, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{db: db, throttle: throttle, logger: logger}
}

// Login verifies email and password and returns the session principal.
// Unknown email and wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*auth.SessionClaims, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, email)
		if err != nil {
			s.logger.WarnContext(ctx, "login throttle unavailable", slog.Any("error", err))
		} else if !allowed {
			return nil, ErrTooManyAttempts
		}
	}

	var user models.User
	err := s.db.WithContext(ctx).Preload("Member").Where("email = ?", email).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if err != nil || !auth.VerifyPassword(password, user.Password) {
		s.logger.InfoContext(ctx, "login failed", slog.String("email", email))
		s.recordFailure(ctx, email)
		return nil, ErrInvalidCredentials
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.logger.WarnContext(ctx, "reset login throttle", slog.Any("error", err))
		}
	}

	claims := &auth.SessionClaims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
	}
	if user.Member != nil {
		memberID := user.Member.ID
		claims.MemberID = &memberID
	}

	s.logger.InfoContext(ctx, "user logged in", slog.Uint64("user_id", uint64(user.ID)), slog.String("role", string(user.Role)))
	return claims, nil
}

// ChangePassword replaces the password of userID after verifying the current one
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	if current == "" || next == "" {
		return fmt.Errorf("%w: current and new password are required", ErrValidation)
	}
	if len(next) < MinPasswordLength {
		return fmt.Errorf("%w: new password must be at least %d characters", ErrValidation, MinPasswordLength)
	}

	db := s.db.WithContext(ctx)
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.VerifyPassword(current, user.Password) {
		return fmt.Errorf("%w: current password is incorrect", ErrValidation)
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := db.Model(&models.User{}).Where("id = ?", userID).Update("password", hash).Error; err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.logger.InfoContext(ctx, "password changed", slog.Uint64("user_id", uint64(userID)))
	return nil
}

// Profile loads a user with its member record, if any
func (s *AuthService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Member").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}
	return &user, nil
}

// CreateAdmin inserts an ADMIN user. Used by the seed command.
func (s *AuthService) CreateAdmin(ctx context.Context, name, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{Name: name, Email: email, Password: hash, Role: models.RoleAdmin}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: email already exists", ErrConflict)
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return &user, nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.Fail(ctx, email); err != nil {
		s.logger.WarnContext(ctx, "record login failure", slog.Any("error", err))
	}
}
