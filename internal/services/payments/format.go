package payments

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DisplaySettings controls how money is rendered. It is always passed in
// explicitly.
type DisplaySettings struct {
	CurrencyCode string
	Symbol       string
	Decimals     int
}

var printer = message.NewPrinter(language.English)

// FormatAmount renders amount with thousands grouping, prefixed by the
// symbol or, when none is set, the currency code.
func FormatAmount(s DisplaySettings, amount float64) string {
	prefix := s.Symbol
	if prefix == "" {
		prefix = s.CurrencyCode
	}
	number := printer.Sprintf(fmt.Sprintf("%%.%df", s.Decimals), amount)
	if prefix == "" {
		return number
	}
	return prefix + " " + number
}
