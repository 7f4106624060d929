// Package reports derives statistical views over installments and
// serializes them to JSON, CSV and PDF.
//
// Every view is a pure function of the filtered payment set; nothing here
// touches the database.
package reports

import (
	"fmt"
	"time"
)

// Payment is one installment flattened with its member identity
type Payment struct {
	InstallmentID uint      `json:"installmentId"`
	MemberID      uint      `json:"memberId"`
	MembershipID  string    `json:"membershipId"`
	MemberName    string    `json:"memberName"`
	Month         string    `json:"month"`
	Amount        float64   `json:"amount"`
	PaymentDate   time.Time `json:"paymentDate"`
}

// MemberInfo identifies a member in member-wise views
type MemberInfo struct {
	MemberID     uint   `json:"memberId"`
	MembershipID string `json:"membershipId"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Active       bool   `json:"active"`
}

// Dataset is the unfiltered input of a report
type Dataset struct {
	Members  []MemberInfo
	Payments []Payment
}

// Report is the JSON body of the reports endpoint
type Report struct {
	Filter       Filter             `json:"filter"`
	Summary      Summary            `json:"summary"`
	Monthly      []MonthlyPoint     `json:"monthlyCollection"`
	Yearly       []YearlyPoint      `json:"yearlyComparison,omitempty"`
	MemberWise   []MemberReport     `json:"memberWiseReport"`
	Distribution []DistributionBand `json:"paymentDistribution"`
}

// Build filters the dataset and computes every view
func Build(ds Dataset, f Filter) Report {
	payments := f.Apply(ds.Payments)
	monthly := MonthlySeries(payments)

	rep := Report{
		Filter:       f,
		Summary:      Summarize(ds.Members, payments, monthly),
		Monthly:      monthly,
		MemberWise:   MemberWise(ds.Members, payments),
		Distribution: Distribution(payments),
	}
	if !f.YearActive() {
		rep.Yearly = YearlyComparison(payments)
	}
	return rep
}

// ReportType selects the section recipe of an export
type ReportType string

const (
	TypeMonthlyInstallments  ReportType = "monthly-installments"
	TypeYearlySummary        ReportType = "yearly-summary"
	TypeMemberWise           ReportType = "member-wise"
	TypePaymentTrends        ReportType = "payment-trends"
	TypeExecutiveSummary     ReportType = "executive-summary"
	TypeDetailedTransactions ReportType = "detailed-transactions"
)

var reportTitles = map[ReportType]string{
	TypeMonthlyInstallments:  "Monthly Installments Report",
	TypeYearlySummary:        "Yearly Summary Report",
	TypeMemberWise:           "Member-wise Report",
	TypePaymentTrends:        "Payment Trends Report",
	TypeExecutiveSummary:     "Executive Summary",
	TypeDetailedTransactions: "Detailed Transactions Report",
}

// ParseReportType accepts one of the known report types; empty means executive summary
func ParseReportType(s string) (ReportType, error) {
	if s == "" {
		return TypeExecutiveSummary, nil
	}
	t := ReportType(s)
	if _, ok := reportTitles[t]; !ok {
		return "", fmt.Errorf("unknown report type %q", s)
	}
	return t, nil
}

// Title is the heading printed on exports
func (t ReportType) Title() string {
	return reportTitles[t]
}

// Filename builds the download name of an export
func Filename(t ReportType, f Filter, ext string) string {
	return fmt.Sprintf("%s-%s.%s", t, f.Label(), ext)
}
