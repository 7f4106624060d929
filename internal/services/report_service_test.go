package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memberfee_app_echo/internal/reports"
)

func TestReportDataset(t *testing.T) {
	db, members := newMemberService(t)
	installments := NewInstallmentService(db)
	ctx := context.Background()

	a := createMember(t, members, "Alice", "alice@example.com", "MEM-A")
	b := createMember(t, members, "Bob", "bob@example.com", "MEM-B")
	createInstallment(t, installments, a.ID, "2024-10", 5000)
	createInstallment(t, installments, a.ID, "2024-11", 5000)
	createInstallment(t, installments, b.ID, "2024-10", 2000)

	ds, err := NewReportService(db).Dataset(ctx)
	require.NoError(t, err)
	require.Len(t, ds.Members, 2)
	require.Len(t, ds.Payments, 3)
	assert.Equal(t, "2024-11", ds.Payments[0].Month)
	assert.Equal(t, "MEM-A", ds.Payments[0].MembershipID)
	assert.Equal(t, "Alice", ds.Payments[0].MemberName)

	rep := reports.Build(ds, reports.Filter{})
	assert.Equal(t, 12000.0, rep.Summary.TotalCollection)
	require.Len(t, rep.MemberWise, 2)
	assert.Equal(t, "MEM-A", rep.MemberWise[0].MembershipID)
}
