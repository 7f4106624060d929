package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"memberfee_app_echo/internal/auth"
	"memberfee_app_echo/internal/models"
)

// CreateMemberInput holds the fields required to register a member
type CreateMemberInput struct {
	Name         string
	Email        string
	MembershipID string
	Password     string
}

// UpdateMemberInput holds an admin edit of a member. Nil pointers leave the
// stored value untouched.
type UpdateMemberInput struct {
	Name         string
	Email        string
	MembershipID string
	Password     *string
	Active       *bool
}

// MemberSummary is a member with its payment totals computed at read time
type MemberSummary struct {
	models.Member
	TotalPaid     float64 `json:"totalPaid"`
	PaymentsCount int64   `json:"paymentsCount"`
	LastPayment   *string `json:"lastPayment"`
}

// MemberDetails is a member with all installments, newest first
type MemberDetails struct {
	models.Member
	TotalPaid float64 `json:"totalPaid"`
}

// paymentTotals is the row shape of the per-member aggregate query
type paymentTotals struct {
	MemberID  uint
	Total     float64
	Count     int64
	LastMonth string
}

type MemberService struct {
	db *gorm.DB
}

func NewMemberService(db *gorm.DB) *MemberService {
	return &MemberService{db: db}
}

// Create registers a MEMBER user and its Member record in one transaction
func (s *MemberService) Create(ctx context.Context, in CreateMemberInput) (*models.Member, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.MembershipID = strings.TrimSpace(in.MembershipID)
	if in.Name == "" || in.Email == "" || in.MembershipID == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: name, email, membershipId and password are required", ErrValidation)
	}

	db := s.db.WithContext(ctx)
	if err := s.checkUnique(db, in.Email, in.MembershipID, 0, 0); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var member models.Member
	err = db.Transaction(func(tx *gorm.DB) error {
		user := models.User{
			Name:     in.Name,
			Email:    in.Email,
			Password: hash,
			Role:     models.RoleMember,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		member = models.Member{
			UserID:       user.ID,
			MembershipID: in.MembershipID,
			Active:       true,
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}
		member.User = user
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: email or membership ID already exists", ErrConflict)
		}
		return nil, fmt.Errorf("create member: %w", err)
	}
	return &member, nil
}

// Update edits a member and its user in one transaction
func (s *MemberService) Update(ctx context.Context, id uint, in UpdateMemberInput) (*models.Member, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.MembershipID = strings.TrimSpace(in.MembershipID)
	if in.Name == "" || in.Email == "" || in.MembershipID == "" {
		return nil, fmt.Errorf("%w: name, email and membershipId are required", ErrValidation)
	}

	db := s.db.WithContext(ctx)
	member, err := s.find(db, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkUnique(db, in.Email, in.MembershipID, member.UserID, member.ID); err != nil {
		return nil, err
	}

	userUpdates := map[string]interface{}{
		"name":  in.Name,
		"email": in.Email,
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		userUpdates["password"] = hash
	}
	memberUpdates := map[string]interface{}{
		"membership_id": in.MembershipID,
	}
	if in.Active != nil {
		memberUpdates["active"] = *in.Active
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", member.UserID).Updates(userUpdates).Error; err != nil {
			return err
		}
		return tx.Model(&models.Member{}).Where("id = ?", member.ID).Updates(memberUpdates).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: email or membership ID already exists", ErrConflict)
		}
		return nil, fmt.Errorf("update member %d: %w", id, err)
	}
	return s.find(db, id)
}

// ToggleStatus flips the active flag and returns the updated member
func (s *MemberService) ToggleStatus(ctx context.Context, id uint) (*models.Member, error) {
	db := s.db.WithContext(ctx)
	member, err := s.find(db, id)
	if err != nil {
		return nil, err
	}

	if err := db.Model(&models.Member{}).Where("id = ?", id).Update("active", !member.Active).Error; err != nil {
		return nil, fmt.Errorf("toggle member %d: %w", id, err)
	}
	return s.find(db, id)
}

// List returns all members with their derived payment totals
func (s *MemberService) List(ctx context.Context) ([]MemberSummary, error) {
	db := s.db.WithContext(ctx)

	var members []models.Member
	if err := db.Preload("User").Order("created_at desc, id desc").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	var rows []paymentTotals
	err := db.Model(&models.Installment{}).
		Select("member_id, SUM(amount) AS total, COUNT(*) AS count, MAX(month) AS last_month").
		Group("member_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate installments: %w", err)
	}
	totals := make(map[uint]paymentTotals, len(rows))
	for _, r := range rows {
		totals[r.MemberID] = r
	}

	out := make([]MemberSummary, 0, len(members))
	for _, m := range members {
		summary := MemberSummary{Member: m}
		if t, ok := totals[m.ID]; ok {
			summary.TotalPaid = t.Total
			summary.PaymentsCount = t.Count
			if t.LastMonth != "" {
				last := t.LastMonth
				summary.LastPayment = &last
			}
		}
		out = append(out, summary)
	}
	return out, nil
}

// Details returns a member with its installments and total paid
func (s *MemberService) Details(ctx context.Context, id uint) (*MemberDetails, error) {
	var member models.Member
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Installments", func(db *gorm.DB) *gorm.DB { return db.Order("month desc") }).
		First(&member, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: member %d not found", ErrNotFound, id)
		}
		return nil, fmt.Errorf("load member %d: %w", id, err)
	}

	return &MemberDetails{Member: member, TotalPaid: sumAmounts(member.Installments)}, nil
}

// ByUserID returns the member owned by the given user
func (s *MemberService) ByUserID(ctx context.Context, userID uint) (*models.Member, error) {
	var member models.Member
	err := s.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no member record for user %d", ErrNotFound, userID)
		}
		return nil, fmt.Errorf("load member of user %d: %w", userID, err)
	}
	return &member, nil
}

func (s *MemberService) find(db *gorm.DB, id uint) (*models.Member, error) {
	var member models.Member
	if err := db.Preload("User").First(&member, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: member %d not found", ErrNotFound, id)
		}
		return nil, fmt.Errorf("load member %d: %w", id, err)
	}
	return &member, nil
}

// checkUnique looks for another user with email or another member with
// membershipID. excludeUserID and excludeMemberID skip the record being edited.
func (s *MemberService) checkUnique(db *gorm.DB, email, membershipID string, excludeUserID, excludeMemberID uint) error {
	var count int64
	q := db.Model(&models.User{}).Where("email = ?", email)
	if excludeUserID != 0 {
		q = q.Where("id <> ?", excludeUserID)
	}
	if err := q.Count(&count).Error; err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: email already exists", ErrConflict)
	}

	q = db.Model(&models.Member{}).Where("membership_id = ?", membershipID)
	if excludeMemberID != 0 {
		q = q.Where("id <> ?", excludeMemberID)
	}
	if err := q.Count(&count).Error; err != nil {
		return fmt.Errorf("check membership id: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: membership ID already exists", ErrConflict)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func sumAmounts(installments []models.Installment) float64 {
	var total float64
	for _, inst := range installments {
		total += inst.Amount
	}
	return total
}
