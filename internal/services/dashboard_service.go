package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"memberfee_app_echo/internal/models"
	"memberfee_app_echo/internal/reports"
)

const (
	recentInstallments = 5
	dashboardMonths    = 6
)

// AdminOverview is the admin dashboard payload
type AdminOverview struct {
	TotalMembers           int64                  `json:"totalMembers"`
	ActiveMembers          int64                  `json:"activeMembers"`
	TotalCollection        float64                `json:"totalCollection"`
	CurrentMonth           string                 `json:"currentMonth"`
	CurrentMonthCollection float64                `json:"currentMonthCollection"`
	CurrentMonthPayments   int                    `json:"currentMonthPayments"`
	RecentInstallments     []models.Installment   `json:"recentInstallments"`
	LastMonths             []reports.MonthlyPoint `json:"lastMonths"`
}

type DashboardService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db, now: time.Now}
}

// WithClock replaces the time source that decides the current month
func (s *DashboardService) WithClock(now func() time.Time) *DashboardService {
	s.now = now
	return s
}

// Overview computes the admin dashboard numbers
func (s *DashboardService) Overview(ctx context.Context) (*AdminOverview, error) {
	db := s.db.WithContext(ctx)
	now := s.now().UTC()
	out := &AdminOverview{CurrentMonth: now.Format(models.MonthLayout)}

	if err := db.Model(&models.Member{}).Count(&out.TotalMembers).Error; err != nil {
		return nil, fmt.Errorf("count members: %w", err)
	}
	if err := db.Model(&models.Member{}).Where("active = ?", true).Count(&out.ActiveMembers).Error; err != nil {
		return nil, fmt.Errorf("count active members: %w", err)
	}

	var total struct{ Total float64 }
	if err := db.Model(&models.Installment{}).Select("COALESCE(SUM(amount), 0) AS total").Scan(&total).Error; err != nil {
		return nil, fmt.Errorf("sum installments: %w", err)
	}
	out.TotalCollection = total.Total

	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(dashboardMonths - 1), 0)
	var window []models.Installment
	err := db.Where("month >= ?", first.Format(models.MonthLayout)).
		Where("month <= ?", out.CurrentMonth).
		Find(&window).Error
	if err != nil {
		return nil, fmt.Errorf("load recent months: %w", err)
	}

	series := reports.MonthlySeries(toPayments(window))
	byMonth := make(map[string]reports.MonthlyPoint, len(series))
	for _, p := range series {
		byMonth[p.Month] = p
	}
	out.LastMonths = make([]reports.MonthlyPoint, 0, dashboardMonths)
	for i := 0; i < dashboardMonths; i++ {
		month := first.AddDate(0, i, 0).Format(models.MonthLayout)
		point, ok := byMonth[month]
		if !ok {
			point = reports.MonthlyPoint{Month: month}
		}
		out.LastMonths = append(out.LastMonths, point)
	}
	current := out.LastMonths[len(out.LastMonths)-1]
	out.CurrentMonthCollection = current.Amount
	out.CurrentMonthPayments = current.Count

	err = db.Preload("Member.User").
		Order("payment_date desc, id desc").
		Limit(recentInstallments).
		Find(&out.RecentInstallments).Error
	if err != nil {
		return nil, fmt.Errorf("load recent installments: %w", err)
	}
	return out, nil
}
