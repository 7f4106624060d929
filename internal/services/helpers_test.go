package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"memberfee_app_echo/internal/models"
	"memberfee_app_echo/internal/testutil"
)

func newMemberService(t *testing.T) (*gorm.DB, *MemberService) {
	t.Helper()
	db := testutil.NewDB(t)
	return db, NewMemberService(db)
}

func createMember(t *testing.T, svc *MemberService, name, email, membershipID string) *models.Member {
	t.Helper()
	m, err := svc.Create(context.Background(), CreateMemberInput{
		Name:         name,
		Email:        email,
		MembershipID: membershipID,
		Password:     "password123",
	})
	require.NoError(t, err)
	return m
}

func createInstallment(t *testing.T, svc *InstallmentService, memberID uint, month string, amount float64) *models.Installment {
	t.Helper()
	inst, err := svc.Create(context.Background(), InstallmentInput{MemberID: memberID, Month: month, Amount: amount})
	require.NoError(t, err)
	return inst
}
