package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"memberfee_app_echo/internal/models"
	"memberfee_app_echo/internal/reports"
)

// MemberStats is the self-service summary of a member's payments
type MemberStats struct {
	TotalPaid        float64   `json:"totalPaid"`
	PaymentsCount    int       `json:"paymentsCount"`
	AveragePayment   float64   `json:"averagePayment"`
	LastPayment      *string   `json:"lastPayment"`
	CurrentYearTotal float64   `json:"currentYearTotal"`
	PendingMonths    []string  `json:"pendingMonths"`
	MemberSince      time.Time `json:"memberSince"`
}

// ChartData feeds the member dashboard charts
type ChartData struct {
	Monthly []reports.MonthlyPoint `json:"monthly"`
	Yearly  []reports.YearlyPoint  `json:"yearly"`
}

// PortalService serves the member section. Every call is scoped to the
// member record owned by the session user.
type PortalService struct {
	db      *gorm.DB
	members *MemberService
	now     func() time.Time
}

func NewPortalService(db *gorm.DB, members *MemberService) *PortalService {
	return &PortalService{db: db, members: members, now: time.Now}
}

// WithClock replaces the time source used for the current year and due months
func (s *PortalService) WithClock(now func() time.Time) *PortalService {
	s.now = now
	return s
}

// Profile returns the member record of userID
func (s *PortalService) Profile(ctx context.Context, userID uint) (*models.Member, error) {
	return s.members.ByUserID(ctx, userID)
}

// Payments returns the member's installments, newest month first
func (s *PortalService) Payments(ctx context.Context, userID uint) ([]models.Installment, error) {
	member, err := s.members.ByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.installments(ctx, member.ID)
}

// Stats summarizes the member's payments and lists due months still unpaid
func (s *PortalService) Stats(ctx context.Context, userID uint) (*MemberStats, error) {
	member, err := s.members.ByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	installments, err := s.installments(ctx, member.ID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	payments := toPayments(installments)
	summary := reports.Summarize(nil, payments, nil)
	stats := &MemberStats{
		TotalPaid:     summary.TotalCollection,
		PaymentsCount: summary.TotalTransactions,
		MemberSince:   member.CreatedAt,
	}
	if stats.PaymentsCount > 0 {
		stats.AveragePayment = decimal.NewFromFloat(stats.TotalPaid).
			Div(decimal.NewFromInt(int64(stats.PaymentsCount))).
			Round(2).
			InexactFloat64()
		last := installments[0].Month
		stats.LastPayment = &last
	}
	for _, y := range reports.YearlyComparison(payments) {
		if y.Year == now.Format("2006") {
			stats.CurrentYearTotal = y.Amount
		}
	}

	due, err := DueMonths(member.CreatedAt, now)
	if err != nil {
		return nil, err
	}
	stats.PendingMonths = PendingMonths(due, installments)
	return stats, nil
}

// ChartData returns the member's monthly and yearly series
func (s *PortalService) ChartData(ctx context.Context, userID uint) (*ChartData, error) {
	member, err := s.members.ByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	installments, err := s.installments(ctx, member.ID)
	if err != nil {
		return nil, err
	}

	payments := toPayments(installments)
	return &ChartData{
		Monthly: reports.MonthlySeries(payments),
		Yearly:  reports.YearlyComparison(payments),
	}, nil
}

func (s *PortalService) installments(ctx context.Context, memberID uint) ([]models.Installment, error) {
	var installments []models.Installment
	err := s.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("month desc").
		Find(&installments).Error
	if err != nil {
		return nil, fmt.Errorf("load installments of member %d: %w", memberID, err)
	}
	return installments, nil
}
