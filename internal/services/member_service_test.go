package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"memberfee_app_echo/internal/auth"
	"memberfee_app_echo/internal/models"
)

func TestMemberCreate(t *testing.T) {
	db, svc := newMemberService(t)
	ctx := context.Background()

	m := createMember(t, svc, " Alice ", "Alice@Example.com", "MEM-001")
	assert.NotZero(t, m.ID)
	assert.True(t, m.Active)
	assert.Equal(t, "alice@example.com", m.User.Email)
	assert.Equal(t, models.RoleMember, m.User.Role)

	var user models.User
	require.NoError(t, db.First(&user, m.UserID).Error)
	assert.Equal(t, "Alice", user.Name)
	assert.True(t, auth.VerifyPassword("password123", user.Password))

	_, err := svc.Create(ctx, CreateMemberInput{Name: "Bob", Email: "alice@example.com", MembershipID: "MEM-002", Password: "x"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Create(ctx, CreateMemberInput{Name: "Bob", Email: "bob@example.com", MembershipID: "MEM-001", Password: "x"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Create(ctx, CreateMemberInput{Name: "Bob", Email: "bob@example.com"})
	assert.ErrorIs(t, err, ErrValidation)

	var users, members int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Member{}).Count(&members)
	assert.Equal(t, int64(1), users, "failed creates leave no user behind")
	assert.Equal(t, int64(1), members)
}

// A user registered between the email pre-check and the create transaction
// makes the transaction fail on the unique index, which is a conflict.
func TestMemberCreateRaceReportsConflict(t *testing.T) {
	db, svc := newMemberService(t)

	raced := false
	err := db.Callback().Query().After("gorm:query").Register("test:racing_user", func(tx *gorm.DB) {
		if raced || tx.Statement.Schema == nil || tx.Statement.Schema.Table != "users" {
			return
		}
		raced = true
		other := models.User{Name: "Other", Email: "alice@example.com", Password: "x", Role: models.RoleMember}
		if err := tx.Session(&gorm.Session{NewDB: true}).Create(&other).Error; err != nil {
			tx.AddError(err)
		}
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateMemberInput{
		Name:         "Alice",
		Email:        "alice@example.com",
		MembershipID: "MEM-001",
		Password:     "password123",
	})
	require.True(t, raced)
	assert.ErrorIs(t, err, ErrConflict)

	var users []models.User
	require.NoError(t, db.Where("email = ?", "alice@example.com").Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, "Other", users[0].Name)

	var members int64
	require.NoError(t, db.Model(&models.Member{}).Count(&members).Error)
	assert.Zero(t, members)
}

func TestMemberUpdate(t *testing.T) {
	db, svc := newMemberService(t)
	ctx := context.Background()

	alice := createMember(t, svc, "Alice", "alice@example.com", "MEM-001")
	createMember(t, svc, "Bob", "bob@example.com", "MEM-002")

	t.Run("keeping own email and id is not a conflict", func(t *testing.T) {
		got, err := svc.Update(ctx, alice.ID, UpdateMemberInput{
			Name:         "Alice Smith",
			Email:        "alice@example.com",
			MembershipID: "MEM-001",
		})
		require.NoError(t, err)
		assert.Equal(t, "Alice Smith", got.User.Name)

		var user models.User
		require.NoError(t, db.First(&user, alice.UserID).Error)
		assert.True(t, auth.VerifyPassword("password123", user.Password), "password untouched when omitted")
	})

	t.Run("taking another member's email conflicts", func(t *testing.T) {
		_, err := svc.Update(ctx, alice.ID, UpdateMemberInput{Name: "A", Email: "bob@example.com", MembershipID: "MEM-001"})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("taking another member's id conflicts", func(t *testing.T) {
		_, err := svc.Update(ctx, alice.ID, UpdateMemberInput{Name: "A", Email: "alice@example.com", MembershipID: "MEM-002"})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("password replaced when given", func(t *testing.T) {
		pw := "new-password"
		_, err := svc.Update(ctx, alice.ID, UpdateMemberInput{Name: "A", Email: "alice@example.com", MembershipID: "MEM-001", Password: &pw})
		require.NoError(t, err)

		var user models.User
		require.NoError(t, db.First(&user, alice.UserID).Error)
		assert.True(t, auth.VerifyPassword(pw, user.Password))
	})

	t.Run("unknown member", func(t *testing.T) {
		_, err := svc.Update(ctx, 999, UpdateMemberInput{Name: "A", Email: "z@example.com", MembershipID: "Z"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemberToggleStatusTwiceRestores(t *testing.T) {
	db, svc := newMemberService(t)
	ctx := context.Background()
	m := createMember(t, svc, "Alice", "alice@example.com", "MEM-001")

	time.Sleep(10 * time.Millisecond)
	got, err := svc.ToggleStatus(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.True(t, got.UpdatedAt.After(m.UpdatedAt))

	var stored models.Member
	require.NoError(t, db.First(&stored, m.ID).Error)
	assert.True(t, got.UpdatedAt.Equal(stored.UpdatedAt), "returns the stored row")
	assert.Equal(t, m.User.Email, got.User.Email)

	got, err = svc.ToggleStatus(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, got.Active)

	_, err = svc.ToggleStatus(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemberListAndDetails(t *testing.T) {
	db, svc := newMemberService(t)
	installments := NewInstallmentService(db)
	ctx := context.Background()

	alice := createMember(t, svc, "Alice", "alice@example.com", "MEM-001")
	bob := createMember(t, svc, "Bob", "bob@example.com", "MEM-002")
	createInstallment(t, installments, alice.ID, "2024-10", 5000)
	createInstallment(t, installments, alice.ID, "2024-11", 5000)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	byID := map[uint]MemberSummary{}
	for _, m := range list {
		byID[m.ID] = m
	}
	assert.Equal(t, 10000.0, byID[alice.ID].TotalPaid)
	assert.Equal(t, int64(2), byID[alice.ID].PaymentsCount)
	require.NotNil(t, byID[alice.ID].LastPayment)
	assert.Equal(t, "2024-11", *byID[alice.ID].LastPayment)
	assert.Zero(t, byID[bob.ID].TotalPaid)
	assert.Nil(t, byID[bob.ID].LastPayment)

	details, err := svc.Details(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 10000.0, details.TotalPaid)
	require.Len(t, details.Installments, 2)
	assert.Equal(t, "2024-11", details.Installments[0].Month)

	_, err = svc.Details(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "not found: member 999 not found")
}

func TestMemberByUserID(t *testing.T) {
	_, svc := newMemberService(t)
	ctx := context.Background()
	m := createMember(t, svc, "Alice", "alice@example.com", "MEM-001")

	got, err := svc.ByUserID(ctx, m.UserID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)

	_, err = svc.ByUserID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "not found: no member record for user 999")
}
