package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"memberfee_app_echo/internal/auth"
	"memberfee_app_echo/internal/middleware"
	"memberfee_app_echo/internal/services"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	auth     *services.AuthService
	sessions *auth.SessionManager
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService, sessions *auth.SessionManager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: authService, sessions: sessions, logger: logger}
}

// Login verifies credentials and sets the session cookie
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	claims, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			middleware.ObserveLogin("invalid")
		case errors.Is(err, services.ErrTooManyAttempts):
			middleware.ObserveLogin("throttled")
		case errors.Is(err, services.ErrValidation):
			middleware.ObserveLogin("invalid")
		default:
			middleware.ObserveLogin("error")
		}
		return httpError(err)
	}

	token, err := h.sessions.Create(*claims)
	if err != nil {
		middleware.ObserveLogin("error")
		return httpError(err)
	}
	h.sessions.SetCookie(c, token)
	middleware.ObserveLogin("success")

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "Login successful",
		"user":     summarize(claims),
		"redirect": middleware.DashboardFor(claims),
	})
}

// Logout clears the session cookie. Tokens cannot be revoked server side.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.sessions.ClearCookie(c)
	if c.Request().Header.Get(echo.HeaderAccept) == echo.MIMEApplicationJSON ||
		c.Request().Header.Get(echo.HeaderContentType) == echo.MIMEApplicationJSON {
		return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out"})
	}
	return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

// Me returns the principal of the current session
func (h *AuthHandler) Me(c echo.Context) error {
	claims := middleware.Session(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"user": summarize(claims)})
}

// ChangePassword replaces the password of the session user
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req ChangePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	claims := middleware.Session(c)
	if err := h.auth.ChangePassword(c.Request().Context(), claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Password changed successfully"})
}

func summarize(claims *auth.SessionClaims) UserSummary {
	return UserSummary{
		ID:       claims.UserID,
		Email:    claims.Email,
		Name:     claims.Name,
		Role:     claims.Role,
		MemberID: claims.MemberID,
	}
}
