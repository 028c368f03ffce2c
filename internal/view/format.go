package view

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.MustParse("en-IN"))

// FormatCurrency renders an amount with Indian digit grouping and exactly
// two fraction digits, e.g. 123456.5 -> "1,23,456.50". No currency symbol.
func FormatCurrency(amount decimal.Decimal) string {
	v, _ := amount.Round(2).Float64()
	return printer.Sprint(number.Decimal(v, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// Initials returns the upper-cased first letter of every word in name.
func Initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
