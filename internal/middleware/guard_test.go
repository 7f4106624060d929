package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memberfee_app_echo/internal/auth"
	"memberfee_app_echo/internal/models"
)

var (
	adminClaims  = &auth.SessionClaims{UserID: 1, Email: "root@example.com", Name: "Root", Role: models.RoleAdmin}
	memberClaims = &auth.SessionClaims{UserID: 2, Email: "alice@example.com", Name: "Alice", Role: models.RoleMember}
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		claims *auth.SessionClaims
		want   Decision
	}{
		{"login without session", "/login", nil, allow},
		{"root without session", "/", nil, allow},
		{"login as admin", "/login", adminClaims, redirectTo("/admin/dashboard")},
		{"root as member", "/", memberClaims, redirectTo("/member/dashboard")},
		{"admin page without session", "/admin/dashboard", nil, redirectTo("/login")},
		{"member page without session", "/member/payments", nil, redirectTo("/login")},
		{"admin page as member", "/admin/members", memberClaims, redirectTo("/member/dashboard")},
		{"admin section root as member", "/admin", memberClaims, redirectTo("/member/dashboard")},
		{"member page as admin", "/member/dashboard", adminClaims, redirectTo("/admin/dashboard")},
		{"admin page as admin", "/admin/reports", adminClaims, allow},
		{"member page as member", "/member/profile", memberClaims, allow},
		{"lookalike prefix is not the admin section", "/administrator", nil, allow},
		{"unknown page", "/about", nil, allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.path, tt.claims))
		})
	}
}

func newSessions() *auth.SessionManager {
	return auth.NewSessionManager("test-secret", false, nil)
}

func requestWithSession(t *testing.T, sessions *auth.SessionManager, method, path string, claims *auth.SessionClaims) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if claims != nil {
		tok, err := sessions.Create(*claims)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: tok})
	}
	return req
}

func TestRouteGuardMiddleware(t *testing.T) {
	sessions := newSessions()
	e := echo.New()
	e.Use(RouteGuard(sessions))
	page := func(c echo.Context) error {
		name := ""
		if s := Session(c); s != nil {
			name = s.Name
		}
		return c.String(http.StatusOK, "page "+name)
	}
	e.GET("/login", page)
	e.GET("/admin/dashboard", page)
	e.GET("/api/admin/members", page)

	tests := []struct {
		name     string
		path     string
		claims   *auth.SessionClaims
		status   int
		location string
		body     string
	}{
		{"anonymous login page", "/login", nil, http.StatusOK, "", "page "},
		{"logged in user leaves login", "/login", adminClaims, http.StatusTemporaryRedirect, "/admin/dashboard", ""},
		{"anonymous admin page", "/admin/dashboard", nil, http.StatusTemporaryRedirect, "/login", ""},
		{"admin page", "/admin/dashboard", adminClaims, http.StatusOK, "", "page Root"},
		{"api is not guarded", "/api/admin/members", nil, http.StatusOK, "", "page "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, requestWithSession(t, sessions, http.MethodGet, tt.path, tt.claims))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get(echo.HeaderLocation))
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}

	t.Run("tampered cookie is no session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "not-a-token"})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
	})
}

func TestRequireRole(t *testing.T) {
	sessions := newSessions()
	e := echo.New()
	e.HTTPErrorHandler = NewErrorHandler(discardLogger())
	g := e.Group("/api/admin", RequireRole(sessions, models.RoleAdmin))
	g.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, Session(c).Email)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, requestWithSession(t, sessions, http.MethodGet, "/api/admin/ping", adminClaims))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "root@example.com", rec.Body.String())

	for name, claims := range map[string]*auth.SessionClaims{"anonymous": nil, "member": memberClaims} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, requestWithSession(t, sessions, http.MethodGet, "/api/admin/ping", claims))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
		})
	}
}
