// Package auth implements password hashing and stateless cookie sessions.
//
// A session is a signed HS256 token carrying the whole principal; there is
// no server-side store, so a token stays valid until it expires.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"memberfee_app_echo/internal/models"
)

const (
	// CookieName is the name of the session cookie
	CookieName = "session"
	// SessionTTL is the validity window of a session token and its cookie
	SessionTTL = 24 * time.Hour

	issuer = "memberfee"
)

// SessionClaims is the authenticated principal carried in the token
type SessionClaims struct {
	UserID   uint        `json:"userId"`
	Email    string      `json:"email"`
	Name     string      `json:"name"`
	Role     models.Role `json:"role"`
	MemberID *uint       `json:"memberId,omitempty"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the principal has the ADMIN role
func (c *SessionClaims) IsAdmin() bool {
	return c != nil && c.Role == models.RoleAdmin
}

// SessionManager signs and verifies session tokens
type SessionManager struct {
	secret       []byte
	secureCookie bool
	now          func() time.Time
	logger       *slog.Logger
}

// NewSessionManager creates a SessionManager. secureCookie controls the
// Secure flag of the session cookie.
func NewSessionManager(secret string, secureCookie bool, logger *slog.Logger) *SessionManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{
		secret:       []byte(secret),
		secureCookie: secureCookie,
		now:          time.Now,
		logger:       logger,
	}
}

// WithClock returns a copy of the manager that reads time from now
func (m *SessionManager) WithClock(now func() time.Time) *SessionManager {
	cp := *m
	cp.now = now
	return &cp
}

// Create signs claims into a token that expires SessionTTL from now
func (m *SessionManager) Create(claims SessionClaims) (string, error) {
	now := m.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   fmt.Sprint(claims.UserID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry of token. Any failure yields nil.
func (m *SessionManager) Verify(ctx context.Context, token string) *SessionClaims {
	if token == "" {
		return nil
	}

	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(issuer),
	)
	if err != nil || !parsed.Valid {
		m.logger.WarnContext(ctx, "session token rejected", slog.Any("error", err))
		return nil
	}
	return claims
}

// SetCookie writes token into the session cookie
func (m *SessionManager) SetCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		MaxAge:   int(SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   m.secureCookie,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie
func (m *SessionManager) ClearCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secureCookie,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest decodes the session cookie of the request, nil if absent or invalid
func (m *SessionManager) FromRequest(c echo.Context) *SessionClaims {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	return m.Verify(c.Request().Context(), cookie.Value)
}
