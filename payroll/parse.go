package payroll

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TOLERANT NUMERIC PARSING
// =============================================================================

// ParseAmount parses a free-text numeric string as entered by a user.
// It strips whitespace and treats a comma as the decimal point. Anything
// that still fails to parse as a finite number yields zero — malformed
// input is never an error in this package.
//
// Note the deliberate limitation: a thousands-separated value like
// "1.234,56" becomes "1.234.56" after comma replacement, fails to parse,
// and therefore yields zero.
func ParseAmount(s string) decimal.Decimal {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// formatHours renders an hours value back into a ContractInput field.
// Trailing zeros are trimmed so auto-fill writes "5" rather than "5.00".
func formatHours(d decimal.Decimal) string {
	return d.Round(2).String()
}
