package reports

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
)

// ErrNoData is returned when a PDF is requested for an empty payment set
var ErrNoData = errors.New("no installments match the report filter")

const (
	pageMargin   = 15.0
	footerSpace  = 15.0
	bannerHeight = 30.0
	cardHeight   = 22.0
	cardGap      = 6.0
	rowHeight    = 7.0
	titleHeight  = 10.0
	topMembers   = 20
)

type column struct {
	title string
	width float64 // fraction of the content width
	align string
}

type pdfWriter struct {
	pdf     *fpdf.Fpdf
	tr      func(string) string
	content float64
	pageH   float64
}

// WritePDF renders the report sections for the given type. Pages break
// automatically; every table repeats its header on a new page.
func WritePDF(w io.Writer, rep Report, typ ReportType, payments []Payment, generatedAt time.Time) error {
	if len(payments) == 0 {
		return ErrNoData
	}

	pw := newPDFWriter(generatedAt)
	pw.banner(typ.Title(), rep.Filter.Describe(), generatedAt)
	pw.summaryCards(rep.Summary)

	switch typ {
	case TypeMonthlyInstallments:
		pw.monthlySection(rep.Monthly)
	case TypeYearlySummary:
		yearly := rep.Yearly
		if yearly == nil {
			yearly = YearlyComparison(payments)
		}
		pw.yearlySection(yearly)
		pw.monthlySection(rep.Monthly)
	case TypeMemberWise:
		pw.membersSection("Top Members", rep.MemberWise, topMembers)
	case TypePaymentTrends:
		pw.trendSection(Trends(rep.Monthly))
		pw.distributionSection(rep.Distribution)
	case TypeExecutiveSummary:
		pw.kpiSection(rep.Summary)
		pw.membersSection("Top 5 Members", rep.MemberWise, 5)
		pw.distributionSection(rep.Distribution)
	case TypeDetailedTransactions:
		pw.transactionsSection(payments)
	default:
		return fmt.Errorf("unknown report type %q", typ)
	}

	if pw.pdf.Err() {
		return pw.pdf.Error()
	}
	return pw.pdf.Output(w)
}

func newPDFWriter(generatedAt time.Time) *pdfWriter {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, footerSpace)
	pdf.SetCreationDate(generatedAt)
	pdf.SetCreator("memberfee", false)
	pdf.AliasNbPages("")

	pw := &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pageW, pageH := pdf.GetPageSize()
	pw.content = pageW - 2*pageMargin
	pw.pageH = pageH

	pdf.SetFooterFunc(func() {
		pdf.SetY(-footerSpace + 3)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()
	return pw
}

func (pw *pdfWriter) remaining() float64 {
	return pw.pageH - footerSpace - pw.pdf.GetY()
}

func (pw *pdfWriter) ensureSpace(h float64) {
	if pw.remaining() < h {
		pw.pdf.AddPage()
	}
}

func (pw *pdfWriter) banner(title, filter string, generatedAt time.Time) {
	pdf := pw.pdf
	pdf.SetFillColor(30, 64, 120)
	pdf.Rect(0, 0, pw.content+2*pageMargin, bannerHeight, "F")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetXY(pageMargin, 7)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(pw.content, 9, pw.tr(title), "", 1, "L", false, 0, "")
	pdf.SetX(pageMargin)
	pdf.SetFont("Helvetica", "", 10)
	sub := fmt.Sprintf("Period: %s  |  Generated %s", filter, generatedAt.Format("2006-01-02 15:04 MST"))
	pdf.CellFormat(pw.content, 6, pw.tr(sub), "", 1, "L", false, 0, "")

	pdf.SetY(bannerHeight + 8)
	pdf.SetTextColor(0, 0, 0)
}

func (pw *pdfWriter) summaryCards(s Summary) {
	cards := [][2]string{
		{"Total Collection", FormatMoney(s.TotalCollection)},
		{"Members", fmt.Sprintf("%s (%s paying)", FormatCount(s.TotalMembers), FormatCount(s.ActiveMembers))},
		{"Average Monthly Collection", FormatMoney(s.AverageMonthlyCollection)},
		{"Transactions", FormatCount(s.TotalTransactions)},
	}

	pdf := pw.pdf
	cardW := (pw.content - cardGap) / 2
	top := pdf.GetY()
	for i, card := range cards {
		x := pageMargin + float64(i%2)*(cardW+cardGap)
		y := top + float64(i/2)*(cardHeight+cardGap)

		pdf.SetFillColor(242, 245, 250)
		pdf.SetDrawColor(200, 208, 220)
		pdf.Rect(x, y, cardW, cardHeight, "FD")

		pdf.SetXY(x+4, y+3)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(90, 90, 90)
		pdf.CellFormat(cardW-8, 6, pw.tr(card[0]), "", 0, "L", false, 0, "")
		pdf.SetXY(x+4, y+10)
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetTextColor(20, 20, 20)
		pdf.CellFormat(cardW-8, 8, pw.tr(card[1]), "", 0, "L", false, 0, "")
	}
	pdf.SetY(top + 2*cardHeight + cardGap + 8)
	pdf.SetTextColor(0, 0, 0)
}

// table keeps the title with the header and first row on the same page
func (pw *pdfWriter) table(title string, cols []column, rows [][]string) {
	pw.ensureSpace(titleHeight + 2*rowHeight)

	pdf := pw.pdf
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(30, 64, 120)
	pdf.CellFormat(pw.content, titleHeight, pw.tr(title), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	pw.tableHeader(cols)
	pdf.SetFont("Helvetica", "", 9)
	if len(rows) == 0 {
		pdf.CellFormat(pw.content, rowHeight, "No data", "1", 1, "C", false, 0, "")
	}
	for i, row := range rows {
		if pw.remaining() < rowHeight {
			pdf.AddPage()
			pw.tableHeader(cols)
			pdf.SetFont("Helvetica", "", 9)
		}
		pdf.SetFillColor(248, 249, 252)
		for j, col := range cols {
			pdf.CellFormat(col.width*pw.content, rowHeight, pw.tr(row[j]), "1", 0, col.align, i%2 == 1, 0, "")
		}
		pdf.Ln(rowHeight)
	}
	pdf.Ln(6)
}

func (pw *pdfWriter) tableHeader(cols []column) {
	pdf := pw.pdf
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(30, 64, 120)
	pdf.SetTextColor(255, 255, 255)
	for _, col := range cols {
		pdf.CellFormat(col.width*pw.content, rowHeight, pw.tr(col.title), "1", 0, col.align, true, 0, "")
	}
	pdf.Ln(rowHeight)
	pdf.SetTextColor(0, 0, 0)
}

func (pw *pdfWriter) monthlySection(monthly []MonthlyPoint) {
	rows := make([][]string, len(monthly))
	for i, m := range monthly {
		avg := 0.0
		if m.Count > 0 {
			avg = m.Amount / float64(m.Count)
		}
		rows[i] = []string{m.Month, FormatMoney(m.Amount), strconv.Itoa(m.Count), FormatMoney(avg)}
	}
	pw.table("Monthly Collection", []column{
		{"Month", 0.25, "L"},
		{"Collection", 0.3, "R"},
		{"Payments", 0.15, "R"},
		{"Average Payment", 0.3, "R"},
	}, rows)
}

func (pw *pdfWriter) yearlySection(yearly []YearlyPoint) {
	rows := make([][]string, len(yearly))
	for i, y := range yearly {
		change := "-"
		if i > 0 && yearly[i-1].Amount != 0 {
			change = fmt.Sprintf("%+.1f%%", (y.Amount-yearly[i-1].Amount)/yearly[i-1].Amount*100)
		}
		rows[i] = []string{y.Year, FormatMoney(y.Amount), strconv.Itoa(y.Count), change}
	}
	pw.table("Yearly Comparison", []column{
		{"Year", 0.2, "L"},
		{"Collection", 0.35, "R"},
		{"Payments", 0.2, "R"},
		{"Change", 0.25, "R"},
	}, rows)
}

func (pw *pdfWriter) membersSection(title string, members []MemberReport, limit int) {
	if len(members) > limit {
		members = members[:limit]
	}
	rows := make([][]string, len(members))
	for i, m := range members {
		last := "-"
		if m.LastPayment != nil {
			last = *m.LastPayment
		}
		rows[i] = []string{
			strconv.Itoa(i + 1),
			m.MembershipID,
			m.Name,
			FormatMoney(m.TotalPaid),
			strconv.Itoa(m.PaymentsCount),
			last,
		}
	}
	pw.table(title, []column{
		{"#", 0.06, "R"},
		{"Member ID", 0.16, "L"},
		{"Name", 0.3, "L"},
		{"Total Paid", 0.2, "R"},
		{"Payments", 0.12, "R"},
		{"Last", 0.16, "L"},
	}, rows)
}

func (pw *pdfWriter) trendSection(trends []TrendPoint) {
	rows := make([][]string, len(trends))
	for i, t := range trends {
		change := "-"
		if t.Change != nil {
			change = fmt.Sprintf("%+.1f%%", *t.Change)
		}
		rows[i] = []string{t.Month, FormatMoney(t.Amount), change}
	}
	pw.table("Monthly Trend", []column{
		{"Month", 0.3, "L"},
		{"Collection", 0.4, "R"},
		{"Change", 0.3, "R"},
	}, rows)
}

func (pw *pdfWriter) distributionSection(dist []DistributionBand) {
	rows := make([][]string, len(dist))
	for i, d := range dist {
		rows[i] = []string{d.Range, strconv.Itoa(d.Count), fmt.Sprintf("%d%%", d.Percentage)}
	}
	pw.table("Payment Distribution", []column{
		{"Amount Range", 0.4, "L"},
		{"Payments", 0.3, "R"},
		{"Share", 0.3, "R"},
	}, rows)
}

func (pw *pdfWriter) kpiSection(s Summary) {
	avgPayment := 0.0
	if s.TotalTransactions > 0 {
		avgPayment = s.TotalCollection / float64(s.TotalTransactions)
	}
	participation := "-"
	if s.TotalMembers > 0 {
		participation = fmt.Sprintf("%.1f%%", float64(s.ActiveMembers)*100/float64(s.TotalMembers))
	}
	rows := [][]string{
		{"Total collection", FormatMoney(s.TotalCollection)},
		{"Average monthly collection", FormatMoney(s.AverageMonthlyCollection)},
		{"Average payment", FormatMoney(avgPayment)},
		{"Highest payment", FormatMoney(s.HighestPayment)},
		{"Lowest payment", FormatMoney(s.LowestPayment)},
		{"Transactions", FormatCount(s.TotalTransactions)},
		{"Members with payments", fmt.Sprintf("%d of %d", s.ActiveMembers, s.TotalMembers)},
		{"Participation rate", participation},
	}
	pw.table("Key Indicators", []column{
		{"Indicator", 0.6, "L"},
		{"Value", 0.4, "R"},
	}, rows)
}

func (pw *pdfWriter) transactionsSection(payments []Payment) {
	rows := make([][]string, len(payments))
	for i, p := range payments {
		rows[i] = []string{
			p.PaymentDate.Format("2006-01-02"),
			p.MembershipID,
			p.MemberName,
			p.Month,
			FormatMoney(p.Amount),
		}
	}
	pw.table("Transactions", []column{
		{"Date", 0.17, "L"},
		{"Member ID", 0.17, "L"},
		{"Name", 0.33, "L"},
		{"Month", 0.13, "L"},
		{"Amount", 0.2, "R"},
	}, rows)
}
