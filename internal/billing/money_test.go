package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestRound2HalfUp(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2.344", "2.34"},
		{"2.345", "2.35"}, // half rounds up
		{"2.346", "2.35"},
		{"2.5", "2.5"},
		{"100", "100"},
		{"-2.345", "-2.35"},
		{"0.005", "0.01"},
	}
	for _, tc := range cases {
		got := Round2(dec(t, tc.in))
		assert.True(t, got.Equal(dec(t, tc.want)), "Round2(%s) = %s, want %s", tc.in, got, tc.want)
	}
}

func TestApplyTax(t *testing.T) {
	taxAmount, total := ApplyTax(dec(t, "1000.00"), dec(t, "10"))
	assert.Equal(t, "100.00", taxAmount.StringFixed(2))
	assert.Equal(t, "1100.00", total.StringFixed(2))
}

func TestApplyTaxZeroRate(t *testing.T) {
	taxAmount, total := ApplyTax(dec(t, "543.21"), decimal.Zero)
	assert.True(t, taxAmount.IsZero())
	assert.Equal(t, "543.21", total.StringFixed(2))
}

func TestApplyTaxRoundsTaxAmount(t *testing.T) {
	// 333.33 * 7.5% = 24.99975 → 25.00
	taxAmount, total := ApplyTax(dec(t, "333.33"), dec(t, "7.5"))
	assert.Equal(t, "25.00", taxAmount.StringFixed(2))
	assert.Equal(t, "358.33", total.StringFixed(2))
}

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		amount string
		code   string
		symbol string
		want   string
	}{
		{"1234567.5", "USD", "$", "$1,234,567.50"},
		{"999.99", "USD", "$", "$999.99"},
		{"1000", "USD", "$", "$1,000.00"},
		{"0", "USD", "$", "$0.00"},
		{"-1234.56", "USD", "$", "-$1,234.56"},
		{"250", "SEK", "", "SEK 250.00"}, // no symbol: code prefix
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatCurrency(dec(t, tc.amount), tc.code, tc.symbol))
	}
}
