package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"memberfee_app_echo/internal/models"
	"memberfee_app_echo/internal/reports"
)

// ReportService loads the rows reports are computed from
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// Dataset returns every member and every installment, newest month first.
// Filtering happens in the reports package so all views share one read.
func (s *ReportService) Dataset(ctx context.Context) (reports.Dataset, error) {
	db := s.db.WithContext(ctx)

	var members []models.Member
	if err := db.Preload("User").Order("id").Find(&members).Error; err != nil {
		return reports.Dataset{}, fmt.Errorf("load members: %w", err)
	}

	var installments []models.Installment
	if err := db.Preload("Member.User").Order("month desc, id desc").Find(&installments).Error; err != nil {
		return reports.Dataset{}, fmt.Errorf("load installments: %w", err)
	}

	ds := reports.Dataset{
		Members:  make([]reports.MemberInfo, 0, len(members)),
		Payments: make([]reports.Payment, 0, len(installments)),
	}
	for _, m := range members {
		ds.Members = append(ds.Members, reports.MemberInfo{
			MemberID:     m.ID,
			MembershipID: m.MembershipID,
			Name:         m.User.Name,
			Email:        m.User.Email,
			Active:       m.Active,
		})
	}
	for _, inst := range installments {
		ds.Payments = append(ds.Payments, toPayment(inst))
	}
	return ds, nil
}

func toPayment(inst models.Installment) reports.Payment {
	p := reports.Payment{
		InstallmentID: inst.ID,
		MemberID:      inst.MemberID,
		Month:         inst.Month,
		Amount:        inst.Amount,
		PaymentDate:   inst.PaymentDate,
	}
	if inst.Member != nil {
		p.MembershipID = inst.Member.MembershipID
		p.MemberName = inst.Member.User.Name
	}
	return p
}

func toPayments(installments []models.Installment) []reports.Payment {
	out := make([]reports.Payment, len(installments))
	for i, inst := range installments {
		out[i] = toPayment(inst)
	}
	return out
}
