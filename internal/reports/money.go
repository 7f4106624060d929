package reports

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatMoney renders an amount with thousands separators and two decimals
func FormatMoney(amount float64) string {
	return printer.Sprintf("%.2f", amount)
}

// FormatCount renders an integer with thousands separators
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}
