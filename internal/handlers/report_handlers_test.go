package handlers

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"memberfee_app_echo/internal/auth"
	"memberfee_app_echo/internal/models"
	"memberfee_app_echo/internal/services"
)

func seedReportData(t *testing.T, s *testServer) {
	t.Helper()
	a := s.createMember(t, "Alice", "alice@example.com", "MEM-A")
	b := s.createMember(t, "Bob", "bob@example.com", "MEM-B")
	installments := services.NewInstallmentService(s.db)
	for _, in := range []services.InstallmentInput{
		{MemberID: a.ID, Month: "2024-10", Amount: 5000},
		{MemberID: a.ID, Month: "2024-11", Amount: 5000},
		{MemberID: b.ID, Month: "2024-10", Amount: 2000},
	} {
		_, err := installments.Create(context.Background(), in)
		require.NoError(t, err)
	}
}

func TestReportEndpoint(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminCookie(t)
	seedReportData(t, s)

	rec := s.do(t, http.MethodGet, "/api/admin/reports", "", admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := rec.Body.String()
	assert.Contains(t, body, `"totalCollection":12000`)
	assert.Contains(t, body, `{"month":"2024-10","amount":7000,"count":2}`)
	assert.Contains(t, body, `"yearlyComparison"`)

	rec = s.do(t, http.MethodGet, "/api/admin/reports?year=2024", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"yearlyComparison"`)

	rec = s.do(t, http.MethodGet, "/api/admin/reports?startMonth=2024-11&endMonth=2024-12", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalCollection":5000`)

	rec = s.do(t, http.MethodGet, "/api/admin/reports?month=13", "", admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportDownload(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminCookie(t)
	seedReportData(t, s)

	t.Run("csv", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/admin/reports/download?format=csv&year=2024&month=10", "", admin)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, `attachment; filename="installments-2024-10.csv"`, rec.Header().Get("Content-Disposition"))
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")

		records, err := csv.NewReader(bytes.NewReader(rec.Body.Bytes())).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		for _, r := range records[1:] {
			assert.Equal(t, "2024-10", r[2])
		}
	})

	t.Run("pdf", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/admin/reports/download?format=pdf&type=member-wise", "", admin)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="member-wise-all.pdf"`, rec.Header().Get("Content-Disposition"))
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
	})

	t.Run("pdf without data", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/admin/reports/download?format=pdf&year=1999", "", admin)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	})

	t.Run("json", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/admin/reports/download?format=json", "", admin)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"totalCollection": 12000`)
	})

	t.Run("invalid format", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/admin/reports/download?format=xlsx", "", admin)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid type", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/admin/reports/download?format=pdf&type=weekly", "", admin)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestReportStoreFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	s := newTestServerWithDB(t, db, nil)
	cookie := s.cookieFor(t, auth.SessionClaims{UserID: 1, Email: "root@example.com", Name: "Root", Role: models.RoleAdmin})

	mock.ExpectQuery(`SELECT .* FROM "members"`).WillReturnError(errors.New("connection reset by peer"))
	rec := s.do(t, http.MethodGet, "/api/admin/reports", "", cookie)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Something went wrong. Please try again later."}`, rec.Body.String())

	mock.ExpectQuery(`SELECT .* FROM "members"`).WillReturnError(errors.New("connection reset by peer"))
	rec = s.do(t, http.MethodGet, "/api/admin/reports/download?format=csv", "", cookie)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Disposition"), "no partial file")

	assert.NoError(t, mock.ExpectationsWereMet())
}
