package billing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Round2 rounds a monetary value to cents using half-up rounding.
// Every derived amount (qty*rate, percentage tax) passes through here
// so stored totals never carry sub-cent residue.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ApplyTax computes the tax line and grand total for a subtotal.
// rate is a percentage (10 means 10%). Callers clamp rate to [0,100]
// before invoking; a zero rate yields a zero tax amount.
func ApplyTax(subtotal, ratePercent decimal.Decimal) (taxAmount, total decimal.Decimal) {
	taxAmount = Round2(subtotal.Mul(ratePercent).Div(decimal.NewFromInt(100)))
	total = subtotal.Add(taxAmount)
	return taxAmount, total
}

// FormatCurrency renders an amount for display with a currency symbol,
// thousands separators and exactly two fraction digits.
// Presentation only — never parse the result back for arithmetic.
func FormatCurrency(amount decimal.Decimal, code, symbol string) string {
	fixed := amount.StringFixed(2)

	neg := strings.HasPrefix(fixed, "-")
	if neg {
		fixed = fixed[1:]
	}

	intPart := fixed[:len(fixed)-3]
	fracPart := fixed[len(fixed)-3:]

	var b strings.Builder
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}

	prefix := symbol
	if prefix == "" {
		prefix = code + " "
	}

	out := prefix + b.String() + fracPart
	if neg {
		return "-" + out
	}
	return out
}
