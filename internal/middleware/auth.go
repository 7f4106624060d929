package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"memberfee_app_echo/internal/auth"
	"memberfee_app_echo/internal/models"
)

// SessionKey is the echo context key holding *auth.SessionClaims
const SessionKey = "session"

// RequireRole returns a middleware for API groups. A missing, invalid or
// expired session and a role other than role all answer 401.
func RequireRole(sessions *auth.SessionManager, role models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := sessions.FromRequest(c)
			if claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}
			if claims.Role != role {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}

			c.Set(SessionKey, claims)
			return next(c)
		}
	}
}

// RequireSession accepts any valid session
func RequireSession(sessions *auth.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := sessions.FromRequest(c)
			if claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}
			c.Set(SessionKey, claims)
			return next(c)
		}
	}
}

// Session returns the principal stored by RequireRole, RequireSession or RouteGuard
func Session(c echo.Context) *auth.SessionClaims {
	claims, _ := c.Get(SessionKey).(*auth.SessionClaims)
	return claims
}
