package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memberfee_app_echo/internal/models"
	"memberfee_app_echo/internal/reports"
)

func TestPortalStats(t *testing.T) {
	db, members := newMemberService(t)
	installments := NewInstallmentService(db)
	m := createMember(t, members, "Alice", "alice@example.com", "MEM-001")

	joined := time.Date(2024, 10, 3, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Model(&models.Member{}).Where("id = ?", m.ID).Update("created_at", joined).Error)

	createInstallment(t, installments, m.ID, "2024-10", 5000)
	createInstallment(t, installments, m.ID, "2024-12", 2500)
	createInstallment(t, installments, m.ID, "2025-01", 1000)

	portal := NewPortalService(db, members).WithClock(func() time.Time {
		return time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	})
	ctx := context.Background()

	stats, err := portal.Stats(ctx, m.UserID)
	require.NoError(t, err)
	assert.Equal(t, 8500.0, stats.TotalPaid)
	assert.Equal(t, 3, stats.PaymentsCount)
	assert.Equal(t, 2833.33, stats.AveragePayment)
	require.NotNil(t, stats.LastPayment)
	assert.Equal(t, "2025-01", *stats.LastPayment)
	assert.Equal(t, 1000.0, stats.CurrentYearTotal)
	assert.Equal(t, []string{"2024-11", "2025-02", "2025-03"}, stats.PendingMonths)
	assert.True(t, joined.Equal(stats.MemberSince))

	chart, err := portal.ChartData(ctx, m.UserID)
	require.NoError(t, err)
	assert.Equal(t, []reports.MonthlyPoint{
		{Month: "2024-10", Amount: 5000, Count: 1},
		{Month: "2024-12", Amount: 2500, Count: 1},
		{Month: "2025-01", Amount: 1000, Count: 1},
	}, chart.Monthly)
	assert.Equal(t, []reports.YearlyPoint{
		{Year: "2024", Amount: 7500, Count: 2},
		{Year: "2025", Amount: 1000, Count: 1},
	}, chart.Yearly)

	payments, err := portal.Payments(ctx, m.UserID)
	require.NoError(t, err)
	require.Len(t, payments, 3)
	assert.Equal(t, "2025-01", payments[0].Month)
}

func TestPortalWithoutMemberRecord(t *testing.T) {
	db, members := newMemberService(t)
	portal := NewPortalService(db, members)
	ctx := context.Background()

	admin, err := NewAuthService(db, nil, nil).CreateAdmin(ctx, "Root", "root@example.com", "admin-password")
	require.NoError(t, err)

	_, err = portal.Profile(ctx, admin.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = portal.Stats(ctx, admin.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = portal.Payments(ctx, admin.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = portal.ChartData(ctx, admin.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPortalStatsWithoutPayments(t *testing.T) {
	db, members := newMemberService(t)
	m := createMember(t, members, "Alice", "alice@example.com", "MEM-001")
	portal := NewPortalService(db, members)

	stats, err := portal.Stats(context.Background(), m.UserID)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalPaid)
	assert.Zero(t, stats.AveragePayment)
	assert.Nil(t, stats.LastPayment)
	assert.NotNil(t, stats.PendingMonths)
}
