package common

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numberPrinter = message.NewPrinter(language.English)

// ReadableAmount groups the integer part of amount by thousands and keeps
// the fractional part as is.
// Example:
// - ReadableAmount(1234567.25) = "1,234,567.25"
func ReadableAmount(amount decimal.Decimal) string {
	s := amount.String()
	intPart, frac, hasFrac := strings.Cut(s, ".")
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	n := decimal.RequireFromString(intPart)
	grouped := intPart
	if n.LessThan(decimal.New(1, 18)) {
		grouped = numberPrinter.Sprintf("%d", n.IntPart())
	}
	if neg {
		grouped = "-" + grouped
	}
	if hasFrac {
		return grouped + "." + frac
	}
	return grouped
}

// FormatAmount renders amount with its unit, e.g. "1.5 ALGO" or
// "10 (asset 31566704)".
func FormatAmount(amount decimal.Decimal, symbol string) string {
	if symbol == "" {
		return ReadableAmount(amount)
	}
	return fmt.Sprintf("%s %s", ReadableAmount(amount), symbol)
}

// PlainAddress formats an Address as a plain string with no ANSI color codes.
// Use this when the result will be stored or serialized.
func PlainAddress(addr Address) string {
	if addr.Address == "" {
		return ""
	}
	if addr.Desc != "" {
		return fmt.Sprintf("%s (%s)", addr.Address, addr.Desc)
	}
	return addr.Address
}
