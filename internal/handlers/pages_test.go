package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPages(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminCookie(t)
	m := s.createMember(t, "Alice", "alice@example.com", "MEM-001")
	member := s.memberCookie(t, m)

	tests := []struct {
		name     string
		path     string
		cookie   *http.Cookie
		status   int
		location string
	}{
		{"root anonymous", "/", nil, http.StatusTemporaryRedirect, "/login"},
		{"login anonymous", "/login", nil, http.StatusOK, ""},
		{"login as admin", "/login", admin, http.StatusTemporaryRedirect, "/admin/dashboard"},
		{"root as member", "/", member, http.StatusTemporaryRedirect, "/member/dashboard"},
		{"admin page anonymous", "/admin/dashboard", nil, http.StatusTemporaryRedirect, "/login"},
		{"admin page as member", "/admin/members", member, http.StatusTemporaryRedirect, "/member/dashboard"},
		{"member page as admin", "/member/dashboard", admin, http.StatusTemporaryRedirect, "/admin/dashboard"},
		{"admin page", "/admin/reports", admin, http.StatusOK, ""},
		{"member page", "/member/payments", member, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, tt.path, "", tt.cookie)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get("Location"))
			if tt.status == http.StatusOK {
				assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
			}
		})
	}
}

func TestHealthzAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	s.do(t, http.MethodGet, "/login", "", nil)
	rec = s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "memberfee_http_requests_total")
}
