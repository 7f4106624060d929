package models

import (
	"fmt"
	"regexp"
	"time"
)

// MonthLayout is the time layout of Installment.Month
const MonthLayout = "2006-01"

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// Installment is a single monthly payment of a member.
// At most one installment exists per (member, month).
type Installment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	MemberID    uint      `gorm:"not null;uniqueIndex:idx_installments_member_month,priority:1" json:"memberId"`
	Month       string    `gorm:"type:varchar(7);not null;index;uniqueIndex:idx_installments_member_month,priority:2" json:"month"` // YYYY-MM
	Amount      float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	PaymentDate time.Time `gorm:"not null" json:"paymentDate"`

	// Relationships
	Member *Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
}

// ValidMonth reports whether month has the YYYY-MM form and names a real month.
func ValidMonth(month string) bool {
	if !monthPattern.MatchString(month) {
		return false
	}
	_, err := time.Parse(MonthLayout, month)
	return err == nil
}

// DefaultPaymentDate returns the 15th of the given YYYY-MM month in UTC.
func DefaultPaymentDate(month string) (time.Time, error) {
	t, err := time.Parse(MonthLayout, month)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: %w", month, err)
	}
	return time.Date(t.Year(), t.Month(), 15, 0, 0, 0, 0, time.UTC), nil
}
