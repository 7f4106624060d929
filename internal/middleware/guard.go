package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"memberfee_app_echo/internal/auth"
	"memberfee_app_echo/internal/models"
)

const (
	LoginPath           = "/login"
	AdminSection        = "/admin"
	MemberSection       = "/member"
	AdminDashboardPath  = "/admin/dashboard"
	MemberDashboardPath = "/member/dashboard"
)

// Decision is the outcome of the route guard for one request
type Decision struct {
	Allow    bool
	Redirect string
}

var allow = Decision{Allow: true}

func redirectTo(path string) Decision {
	return Decision{Redirect: path}
}

// DashboardFor returns the landing page of the principal's role
func DashboardFor(claims *auth.SessionClaims) string {
	if claims.IsAdmin() {
		return AdminDashboardPath
	}
	return MemberDashboardPath
}

// Decide maps a page path and an optional session to allow or redirect.
// Only the admin and member sections are protected; other paths pass.
func Decide(path string, claims *auth.SessionClaims) Decision {
	public := path == "/" || path == LoginPath
	switch {
	case public && claims != nil:
		return redirectTo(DashboardFor(claims))
	case public:
		return allow
	}

	inAdmin := inSection(path, AdminSection)
	inMember := inSection(path, MemberSection)
	if !inAdmin && !inMember {
		return allow
	}

	switch {
	case claims == nil:
		return redirectTo(LoginPath)
	case inAdmin && claims.Role != models.RoleAdmin:
		return redirectTo(MemberDashboardPath)
	case inMember && claims.Role != models.RoleMember:
		return redirectTo(AdminDashboardPath)
	}
	return allow
}

func inSection(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// skipGuard lists the paths the page guard never looks at
func skipGuard(path string) bool {
	for _, prefix := range []string{"/api", "/static"} {
		if inSection(path, prefix) {
			return true
		}
	}
	return path == "/metrics" || path == "/healthz"
}

// RouteGuard applies Decide to every page request. Allowed requests carry
// the decoded session in the context for the page handlers.
func RouteGuard(sessions *auth.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if skipGuard(path) {
				return next(c)
			}

			claims := sessions.FromRequest(c)
			d := Decide(path, claims)
			if !d.Allow {
				return c.Redirect(http.StatusTemporaryRedirect, d.Redirect)
			}
			if claims != nil {
				c.Set(SessionKey, claims)
			}
			return next(c)
		}
	}
}
