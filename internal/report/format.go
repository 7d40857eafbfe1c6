package report

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrency renders a monetary value for display: half-up rounding to
// two decimals, thousands separators and a currency symbol prefix. Negative
// values carry a leading minus before the symbol, e.g. "-$1,234.56".
func FormatCurrency(amount decimal.Decimal, currency string) string {
	if currency == "" {
		currency = "$"
	}

	rounded := amount.Round(2)
	negative := rounded.IsNegative()
	fixed := rounded.Abs().StringFixed(2)

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	b.WriteString(currency)
	b.WriteString(groupThousands(intPart))
	b.WriteByte('.')
	b.WriteString(fracPart)
	return b.String()
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
