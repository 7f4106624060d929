package reports

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// MonthlyPoint is the collection of a single month
type MonthlyPoint struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
}

// YearlyPoint is the collection of a single year
type YearlyPoint struct {
	Year   string  `json:"year"`
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
}

// MemberReport summarizes one member's filtered installments
type MemberReport struct {
	MemberID      uint    `json:"memberId"`
	MembershipID  string  `json:"membershipId"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	TotalPaid     float64 `json:"totalPaid"`
	PaymentsCount int     `json:"paymentsCount"`
	Average       float64 `json:"averagePayment"`
	LastPayment   *string `json:"lastPayment"`
}

// DistributionBand counts the payments falling inside an amount band
type DistributionBand struct {
	Range      string `json:"range"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// Summary holds the headline numbers of a report
type Summary struct {
	TotalCollection          float64 `json:"totalCollection"`
	TotalMembers             int     `json:"totalMembers"`
	ActiveMembers            int     `json:"activeMembers"`
	AverageMonthlyCollection float64 `json:"averageMonthlyCollection"`
	HighestPayment           float64 `json:"highestPayment"`
	LowestPayment            float64 `json:"lowestPayment"`
	TotalTransactions        int     `json:"totalTransactions"`
}

type band struct {
	label string
	upper float64 // inclusive; zero means unbounded
}

var bands = []band{
	{label: "0-2000", upper: 2000},
	{label: "2001-5000", upper: 5000},
	{label: "5001-10000", upper: 10000},
	{label: "10001+"},
}

type bucket struct {
	total decimal.Decimal
	count int
}

func (b *bucket) add(amount float64) {
	b.total = b.total.Add(decimal.NewFromFloat(amount))
	b.count++
}

// MonthlySeries groups payments by month, ascending
func MonthlySeries(payments []Payment) []MonthlyPoint {
	groups := map[string]*bucket{}
	for _, p := range payments {
		b, ok := groups[p.Month]
		if !ok {
			b = &bucket{}
			groups[p.Month] = b
		}
		b.add(p.Amount)
	}

	out := make([]MonthlyPoint, 0, len(groups))
	for month, b := range groups {
		out = append(out, MonthlyPoint{Month: month, Amount: b.total.InexactFloat64(), Count: b.count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// YearlyComparison groups payments by the year prefix of their month, ascending
func YearlyComparison(payments []Payment) []YearlyPoint {
	groups := map[string]*bucket{}
	for _, p := range payments {
		if len(p.Month) < 4 {
			continue
		}
		year := p.Month[:4]
		b, ok := groups[year]
		if !ok {
			b = &bucket{}
			groups[year] = b
		}
		b.add(p.Amount)
	}

	out := make([]YearlyPoint, 0, len(groups))
	for year, b := range groups {
		out = append(out, YearlyPoint{Year: year, Amount: b.total.InexactFloat64(), Count: b.count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// MemberWise reports every active member against the filtered payments,
// highest total first. Members without payments are kept with zero totals.
func MemberWise(members []MemberInfo, payments []Payment) []MemberReport {
	byMember := map[uint]*bucket{}
	last := map[uint]string{}
	for _, p := range payments {
		b, ok := byMember[p.MemberID]
		if !ok {
			b = &bucket{}
			byMember[p.MemberID] = b
		}
		b.add(p.Amount)
		if p.Month > last[p.MemberID] {
			last[p.MemberID] = p.Month
		}
	}

	out := make([]MemberReport, 0, len(members))
	for _, m := range members {
		if !m.Active {
			continue
		}
		r := MemberReport{
			MemberID:     m.MemberID,
			MembershipID: m.MembershipID,
			Name:         m.Name,
			Email:        m.Email,
		}
		if b, ok := byMember[m.MemberID]; ok {
			r.TotalPaid = b.total.InexactFloat64()
			r.PaymentsCount = b.count
			r.Average = b.total.Div(decimal.NewFromInt(int64(b.count))).Round(2).InexactFloat64()
			month := last[m.MemberID]
			r.LastPayment = &month
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalPaid != out[j].TotalPaid {
			return out[i].TotalPaid > out[j].TotalPaid
		}
		return out[i].MembershipID < out[j].MembershipID
	})
	return out
}

// Distribution partitions payment amounts into the fixed bands
func Distribution(payments []Payment) []DistributionBand {
	counts := make([]int, len(bands))
	for _, p := range payments {
		counts[bandIndex(p.Amount)]++
	}

	out := make([]DistributionBand, len(bands))
	for i, b := range bands {
		out[i] = DistributionBand{Range: b.label, Count: counts[i]}
		if len(payments) > 0 {
			out[i].Percentage = int(math.Round(float64(counts[i]) * 100 / float64(len(payments))))
		}
	}
	return out
}

func bandIndex(amount float64) int {
	for i, b := range bands {
		if b.upper == 0 || amount <= b.upper {
			return i
		}
	}
	return len(bands) - 1
}

// Summarize computes the headline numbers. monthly must be the series of payments.
func Summarize(members []MemberInfo, payments []Payment, monthly []MonthlyPoint) Summary {
	s := Summary{
		TotalMembers:      len(members),
		TotalTransactions: len(payments),
	}

	total := decimal.Zero
	paying := map[uint]struct{}{}
	for i, p := range payments {
		total = total.Add(decimal.NewFromFloat(p.Amount))
		paying[p.MemberID] = struct{}{}
		if i == 0 || p.Amount > s.HighestPayment {
			s.HighestPayment = p.Amount
		}
		if i == 0 || p.Amount < s.LowestPayment {
			s.LowestPayment = p.Amount
		}
	}
	s.TotalCollection = total.InexactFloat64()
	s.ActiveMembers = len(paying)

	if len(monthly) > 0 {
		monthlyTotal := decimal.Zero
		for _, m := range monthly {
			monthlyTotal = monthlyTotal.Add(decimal.NewFromFloat(m.Amount))
		}
		s.AverageMonthlyCollection = monthlyTotal.Div(decimal.NewFromInt(int64(len(monthly)))).Round(2).InexactFloat64()
	}
	return s
}

// TrendPoint is a month of the series with its change against the previous month
type TrendPoint struct {
	Month  string   `json:"month"`
	Amount float64  `json:"amount"`
	Change *float64 `json:"change"` // percent; nil for the first month or after a zero month
}

// Trends derives month-over-month change from a monthly series
func Trends(monthly []MonthlyPoint) []TrendPoint {
	out := make([]TrendPoint, len(monthly))
	for i, m := range monthly {
		out[i] = TrendPoint{Month: m.Month, Amount: m.Amount}
		if i == 0 || monthly[i-1].Amount == 0 {
			continue
		}
		prev := decimal.NewFromFloat(monthly[i-1].Amount)
		change := decimal.NewFromFloat(m.Amount).Sub(prev).Div(prev).Mul(decimal.NewFromInt(100)).Round(1).InexactFloat64()
		out[i].Change = &change
	}
	return out
}
