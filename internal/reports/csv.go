package reports

import (
	"bufio"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

var csvHeader = []string{"Member ID", "Member Name", "Month", "Amount", "Payment Date"}

// WriteCSV writes one quoted row per payment. Amounts keep their exact
// decimal value so a reader gets back the stored number.
func WriteCSV(w io.Writer, payments []Payment) error {
	bw := bufio.NewWriter(w)
	writeQuotedRow(bw, csvHeader)
	for _, p := range payments {
		writeQuotedRow(bw, []string{
			p.MembershipID,
			p.MemberName,
			p.Month,
			FormatAmount(p.Amount),
			p.PaymentDate.Format("2006-01-02"),
		})
	}
	return bw.Flush()
}

// writeQuotedRow writes fields each wrapped in double quotes, doubling embedded quotes
func writeQuotedRow(w *bufio.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(f, `"`, `""`))
		w.WriteByte('"')
	}
	w.WriteByte('\n')
}

// FormatAmount renders an amount in its shortest exact decimal form
func FormatAmount(amount float64) string {
	return decimal.NewFromFloat(amount).String()
}
