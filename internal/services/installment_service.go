package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"memberfee_app_echo/internal/models"
)

// InstallmentInput is the writable part of an installment
type InstallmentInput struct {
	MemberID    uint
	Month       string
	Amount      float64
	PaymentDate *time.Time
}

// InstallmentQuery narrows List. Zero values match everything.
type InstallmentQuery struct {
	MemberID uint
	Month    string
}

type InstallmentService struct {
	db *gorm.DB
}

func NewInstallmentService(db *gorm.DB) *InstallmentService {
	return &InstallmentService{db: db}
}

// Create records a payment. The (member, month) pre-check only improves the
// error message; the unique index decides when two writers race.
func (s *InstallmentService) Create(ctx context.Context, in InstallmentInput) (*models.Installment, error) {
	paymentDate, err := validateInstallment(in)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := s.memberExists(db, in.MemberID); err != nil {
		return nil, err
	}
	if err := s.checkDuplicate(db, in.MemberID, in.Month, 0); err != nil {
		return nil, err
	}

	inst := models.Installment{
		MemberID:    in.MemberID,
		Month:       in.Month,
		Amount:      in.Amount,
		PaymentDate: paymentDate,
	}
	if err := db.Create(&inst).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, duplicateInstallment(in.Month)
		}
		return nil, fmt.Errorf("create installment: %w", err)
	}
	return &inst, nil
}

// Update rewrites an installment. The duplicate search excludes the row itself.
func (s *InstallmentService) Update(ctx context.Context, id uint, in InstallmentInput) (*models.Installment, error) {
	paymentDate, err := validateInstallment(in)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var inst models.Installment
	if err := db.First(&inst, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: installment %d not found", ErrNotFound, id)
		}
		return nil, fmt.Errorf("load installment %d: %w", id, err)
	}
	if err := s.memberExists(db, in.MemberID); err != nil {
		return nil, err
	}
	if err := s.checkDuplicate(db, in.MemberID, in.Month, id); err != nil {
		return nil, err
	}

	err = db.Model(&inst).Updates(map[string]interface{}{
		"member_id":    in.MemberID,
		"month":        in.Month,
		"amount":       in.Amount,
		"payment_date": paymentDate,
	}).Error
	if err != nil {
		if isUniqueViolation(err) {
			return nil, duplicateInstallment(in.Month)
		}
		return nil, fmt.Errorf("update installment %d: %w", id, err)
	}

	inst.MemberID = in.MemberID
	inst.Month = in.Month
	inst.Amount = in.Amount
	inst.PaymentDate = paymentDate
	return &inst, nil
}

// Delete removes an installment permanently
func (s *InstallmentService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Installment{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete installment %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: installment %d not found", ErrNotFound, id)
	}
	return nil
}

// List returns installments newest month first, with member and user loaded
func (s *InstallmentService) List(ctx context.Context, q InstallmentQuery) ([]models.Installment, error) {
	query := s.db.WithContext(ctx).Preload("Member.User")
	if q.MemberID != 0 {
		query = query.Where("member_id = ?", q.MemberID)
	}
	if q.Month != "" {
		query = query.Where("month = ?", q.Month)
	}

	var installments []models.Installment
	if err := query.Order("month desc, id desc").Find(&installments).Error; err != nil {
		return nil, fmt.Errorf("list installments: %w", err)
	}
	return installments, nil
}

func (s *InstallmentService) memberExists(db *gorm.DB, memberID uint) error {
	var count int64
	if err := db.Model(&models.Member{}).Where("id = ?", memberID).Count(&count).Error; err != nil {
		return fmt.Errorf("check member %d: %w", memberID, err)
	}
	if count == 0 {
		return fmt.Errorf("%w: member %d not found", ErrNotFound, memberID)
	}
	return nil
}

func (s *InstallmentService) checkDuplicate(db *gorm.DB, memberID uint, month string, excludeID uint) error {
	q := db.Model(&models.Installment{}).Where("member_id = ? AND month = ?", memberID, month)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return fmt.Errorf("check duplicate installment: %w", err)
	}
	if count > 0 {
		return duplicateInstallment(month)
	}
	return nil
}

func validateInstallment(in InstallmentInput) (time.Time, error) {
	if in.MemberID == 0 {
		return time.Time{}, fmt.Errorf("%w: memberId is required", ErrValidation)
	}
	if !models.ValidMonth(in.Month) {
		return time.Time{}, fmt.Errorf("%w: month must be in YYYY-MM format", ErrValidation)
	}
	if math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) || in.Amount < 0 {
		return time.Time{}, fmt.Errorf("%w: amount must be a non-negative number", ErrValidation)
	}

	if in.PaymentDate != nil && !in.PaymentDate.IsZero() {
		return in.PaymentDate.UTC(), nil
	}
	return models.DefaultPaymentDate(in.Month)
}

func duplicateInstallment(month string) error {
	return fmt.Errorf("%w: an installment for %s already exists for this member", ErrConflict, month)
}
