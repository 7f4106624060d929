package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"memberfee_app_echo/internal/auth"
	"memberfee_app_echo/internal/models"
	"memberfee_app_echo/internal/services"
	"memberfee_app_echo/internal/testutil"
)

type testServer struct {
	e        *echo.Echo
	db       *gorm.DB
	sessions *auth.SessionManager
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServerWithDB(t *testing.T, db *gorm.DB, throttle services.LoginThrottle) *testServer {
	t.Helper()
	sessions := auth.NewSessionManager("test-secret", false, discardLogger())
	e := NewServer(Dependencies{
		DB:       db,
		Sessions: sessions,
		Throttle: throttle,
		Logger:   discardLogger(),
	}, "")
	return &testServer{e: e, db: db, sessions: sessions}
}

func newTestServer(t *testing.T) *testServer {
	return newTestServerWithDB(t, testutil.NewDB(t), nil)
}

// adminCookie inserts an admin and returns a session cookie for it
func (s *testServer) adminCookie(t *testing.T) *http.Cookie {
	t.Helper()
	admin, err := services.NewAuthService(s.db, nil, nil).CreateAdmin(context.Background(), "Root", "root@example.com", "admin-password")
	require.NoError(t, err)
	return s.cookieFor(t, auth.SessionClaims{UserID: admin.ID, Email: admin.Email, Name: admin.Name, Role: models.RoleAdmin})
}

func (s *testServer) memberCookie(t *testing.T, m *models.Member) *http.Cookie {
	t.Helper()
	id := m.ID
	return s.cookieFor(t, auth.SessionClaims{UserID: m.UserID, Email: m.User.Email, Name: m.User.Name, Role: models.RoleMember, MemberID: &id})
}

func (s *testServer) cookieFor(t *testing.T, claims auth.SessionClaims) *http.Cookie {
	t.Helper()
	tok, err := s.sessions.Create(claims)
	require.NoError(t, err)
	return &http.Cookie{Name: auth.CookieName, Value: tok}
}

func (s *testServer) createMember(t *testing.T, name, email, membershipID string) *models.Member {
	t.Helper()
	m, err := services.NewMemberService(s.db).Create(context.Background(), services.CreateMemberInput{
		Name: name, Email: email, MembershipID: membershipID, Password: "password123",
	})
	require.NoError(t, err)
	return m
}

func (s *testServer) do(t *testing.T, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}
