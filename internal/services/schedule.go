package services

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"memberfee_app_echo/internal/models"
)

// DueDay is the day of month an installment falls due
const DueDay = 15

// DueMonths lists, in YYYY-MM form, every month whose due day falls on or
// after since's date and no later than until. Joining after the 15th owes
// nothing for that month.
func DueMonths(since, until time.Time) ([]string, error) {
	since = since.UTC()
	until = until.UTC()
	start := time.Date(since.Year(), since.Month(), since.Day(), 0, 0, 0, 0, time.UTC)
	if until.Before(start) {
		return nil, nil
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:       rrule.MONTHLY,
		Dtstart:    start,
		Until:      until,
		Bymonthday: []int{DueDay},
	})
	if err != nil {
		return nil, fmt.Errorf("build due schedule: %w", err)
	}

	occurrences := rule.All()
	months := make([]string, 0, len(occurrences))
	for _, t := range occurrences {
		months = append(months, t.Format(models.MonthLayout))
	}
	return months, nil
}

// PendingMonths returns the due months that have no paid installment
func PendingMonths(due []string, paid []models.Installment) []string {
	paidSet := make(map[string]struct{}, len(paid))
	for _, inst := range paid {
		paidSet[inst.Month] = struct{}{}
	}

	pending := make([]string, 0)
	for _, m := range due {
		if _, ok := paidSet[m]; !ok {
			pending = append(pending, m)
		}
	}
	return pending
}
