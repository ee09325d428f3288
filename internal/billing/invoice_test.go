package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{StatusDraft, StatusSent},
		{StatusDraft, StatusCancelled},
		{StatusSent, StatusPaid},
		{StatusSent, StatusCancelled},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	forbidden := []struct{ from, to string }{
		{StatusSent, StatusDraft},
		{StatusPaid, StatusSent},
		{StatusPaid, StatusCancelled},
		{StatusCancelled, StatusDraft},
		{StatusDraft, StatusPaid}, // cannot skip sent
		{StatusDraft, StatusDraft},
	}
	for _, tc := range forbidden {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s should be rejected", tc.from, tc.to)
	}
}

func TestDisplayStatusOverdue(t *testing.T) {
	due := time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local)

	today := time.Date(2025, 2, 1, 0, 0, 0, 0, time.Local)
	assert.Equal(t, StatusOverdue, DisplayStatus(StatusSent, due, today))

	// on the due date itself the invoice is not overdue yet
	assert.Equal(t, StatusSent, DisplayStatus(StatusSent, due, due))

	// only sent invoices derive overdue
	assert.Equal(t, StatusDraft, DisplayStatus(StatusDraft, due, today))
	assert.Equal(t, StatusPaid, DisplayStatus(StatusPaid, due, today))
}

func TestFormatInvoiceNumber(t *testing.T) {
	assert.Equal(t, "INV-00042", FormatInvoiceNumber("INV", 41))
	assert.Equal(t, "INV-00001", FormatInvoiceNumber("INV", 0))
	assert.Equal(t, "ACME-100000", FormatInvoiceNumber("ACME", 99999)) // grows past the padding
}

func TestDueDate(t *testing.T) {
	issue := time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local), DueDate(issue, 14))

	// plain calendar days across a month boundary
	issue = time.Date(2025, 1, 25, 0, 0, 0, 0, time.Local)
	assert.Equal(t, time.Date(2025, 2, 24, 0, 0, 0, 0, time.Local), DueDate(issue, 30))
}

func TestLineItemRecompute(t *testing.T) {
	line := LineItem{Description: "Consulting"}.
		WithRate(dec(t, "100")).
		WithQuantity(dec(t, "7.5"))
	assert.Equal(t, "750.00", line.Amount.StringFixed(2))

	line = line.WithAmount(dec(t, "700"))
	assert.Equal(t, "700.00", line.Amount.StringFixed(2))

	// editing quantity discards the manual override
	line = line.WithQuantity(dec(t, "8"))
	assert.Equal(t, "800.00", line.Amount.StringFixed(2))
}

func TestAutoLineItemHourly(t *testing.T) {
	job := JobBilling{
		Title:       "Website Redesign",
		BillingType: BillingHourly,
		BillingRate: dec(t, "90"),
		ActualHours: dec(t, "7.3"),
	}

	line := AutoLineItem(job, 15, dec(t, "100"))
	assert.Equal(t, "Website Redesign – Hourly Service", line.Description)
	assert.True(t, line.Quantity.Equal(dec(t, "7.5")))
	assert.True(t, line.Rate.Equal(dec(t, "100")))
	assert.Equal(t, "750.00", line.Amount.StringFixed(2))
}

func TestAutoLineItemHourlyFallsBackToJobRate(t *testing.T) {
	job := JobBilling{
		Title:       "Audit",
		BillingType: BillingHourly,
		BillingRate: dec(t, "80"),
		ActualHours: dec(t, "4"),
	}

	line := AutoLineItem(job, 15, decimal.Zero)
	assert.True(t, line.Rate.Equal(dec(t, "80")))
	assert.Equal(t, "320.00", line.Amount.StringFixed(2))
}

func TestAutoLineItemFixed(t *testing.T) {
	job := JobBilling{
		Title:       "Logo Package",
		BillingType: BillingFixed,
		BillingRate: dec(t, "2500"),
		ActualHours: dec(t, "37.5"), // irrelevant for fixed billing
	}

	line := AutoLineItem(job, 15, dec(t, "100"))
	assert.Equal(t, "Logo Package – Fixed Price", line.Description)
	assert.True(t, line.Quantity.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, "2500.00", line.Amount.StringFixed(2))
}

func TestInvoiceTotals(t *testing.T) {
	lines := []LineItem{
		{Amount: dec(t, "750.00")},
		{Amount: dec(t, "250.00")},
	}

	subtotal, taxAmount, total := InvoiceTotals(lines, dec(t, "10"))
	assert.Equal(t, "1000.00", subtotal.StringFixed(2))
	assert.Equal(t, "100.00", taxAmount.StringFixed(2))
	assert.Equal(t, "1100.00", total.StringFixed(2))
}

func TestInvoiceTotalsEmpty(t *testing.T) {
	subtotal, taxAmount, total := InvoiceTotals(nil, dec(t, "25"))
	assert.True(t, subtotal.IsZero())
	assert.True(t, taxAmount.IsZero())
	assert.True(t, total.IsZero())
}
