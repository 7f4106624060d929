package reports

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"memberfee_app_echo/internal/models"
)

// ErrInvalidFilter is returned by ParseFilter for malformed query values
var ErrInvalidFilter = errors.New("invalid report filter")

var (
	yearPattern  = regexp.MustCompile(`^\d{4}$`)
	monthPattern = regexp.MustCompile(`^(0?[1-9]|1[0-2])$`)
)

// Filter restricts the installment set of a report. Resolution order:
// range (both bounds) > year+month > year > month of any year > everything.
type Filter struct {
	Year       string `json:"year,omitempty"`
	Month      string `json:"month,omitempty"` // 01-12
	StartMonth string `json:"startMonth,omitempty"`
	EndMonth   string `json:"endMonth,omitempty"`
}

// ParseFilter validates raw query values into a Filter
func ParseFilter(year, month, startMonth, endMonth string) (Filter, error) {
	f := Filter{
		Year:       strings.TrimSpace(year),
		Month:      strings.TrimSpace(month),
		StartMonth: strings.TrimSpace(startMonth),
		EndMonth:   strings.TrimSpace(endMonth),
	}

	if f.Year != "" && !yearPattern.MatchString(f.Year) {
		return Filter{}, fmt.Errorf("%w: year must be YYYY", ErrInvalidFilter)
	}
	if f.Month != "" {
		if !monthPattern.MatchString(f.Month) {
			return Filter{}, fmt.Errorf("%w: month must be 01-12", ErrInvalidFilter)
		}
		if len(f.Month) == 1 {
			f.Month = "0" + f.Month
		}
	}
	for _, m := range []string{f.StartMonth, f.EndMonth} {
		if m != "" && !models.ValidMonth(m) {
			return Filter{}, fmt.Errorf("%w: startMonth and endMonth must be YYYY-MM", ErrInvalidFilter)
		}
	}
	if f.HasRange() && f.StartMonth > f.EndMonth {
		return Filter{}, fmt.Errorf("%w: startMonth must not be after endMonth", ErrInvalidFilter)
	}
	return f, nil
}

// HasRange reports whether both range bounds are set
func (f Filter) HasRange() bool {
	return f.StartMonth != "" && f.EndMonth != ""
}

// YearActive reports whether the effective filter pins a single year
func (f Filter) YearActive() bool {
	return !f.HasRange() && f.Year != ""
}

// Match reports whether an installment month (YYYY-MM) passes the filter.
// YYYY-MM strings order lexicographically the same as chronologically.
func (f Filter) Match(month string) bool {
	switch {
	case f.HasRange():
		return month >= f.StartMonth && month <= f.EndMonth
	case f.Year != "" && f.Month != "":
		return strings.HasPrefix(month, f.Year+"-"+f.Month)
	case f.Year != "":
		return strings.HasPrefix(month, f.Year+"-")
	case f.Month != "":
		return strings.HasSuffix(month, "-"+f.Month)
	default:
		return true
	}
}

// Apply keeps the payments whose month matches
func (f Filter) Apply(payments []Payment) []Payment {
	out := make([]Payment, 0, len(payments))
	for _, p := range payments {
		if f.Match(p.Month) {
			out = append(out, p)
		}
	}
	return out
}

// Label names the effective filter for filenames and headings
func (f Filter) Label() string {
	switch {
	case f.HasRange():
		return f.StartMonth + "_to_" + f.EndMonth
	case f.Year != "" && f.Month != "":
		return f.Year + "-" + f.Month
	case f.Year != "":
		return f.Year
	case f.Month != "":
		return "month-" + f.Month
	default:
		return "all"
	}
}

// Describe is a human readable form of the filter
func (f Filter) Describe() string {
	switch {
	case f.HasRange():
		return fmt.Sprintf("%s to %s", f.StartMonth, f.EndMonth)
	case f.Year != "" && f.Month != "":
		return f.Year + "-" + f.Month
	case f.Year != "":
		return "Year " + f.Year
	case f.Month != "":
		return "Month " + f.Month + " (all years)"
	default:
		return "All time"
	}
}
