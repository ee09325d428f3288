package billing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Billing type enum constants
const (
	BillingFixed  = "fixed"
	BillingHourly = "hourly"
)

// Invoice status enum constants. StatusOverdue is a display-only
// derivation (see DisplayStatus) and is never stored.
const (
	StatusDraft     = "draft"
	StatusSent      = "sent"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
	StatusOverdue   = "overdue"
)

// transitions lists the allowed forward moves of the invoice lifecycle.
// Transitions are one-directional: once sent an invoice never returns
// to draft, and paid/cancelled are terminal.
var transitions = map[string][]string{
	StatusDraft: {StatusSent, StatusCancelled},
	StatusSent:  {StatusPaid, StatusCancelled},
}

// CanTransition reports whether an invoice may move from one stored
// status to another.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// DisplayStatus derives the status shown to users: a sent invoice whose
// due date has passed reads as overdue without mutating the stored row.
func DisplayStatus(status string, dueDate, today time.Time) string {
	if status == StatusSent && dueDate.Before(today) {
		return StatusOverdue
	}
	return status
}

// FormatInvoiceNumber formats the next invoice number from the
// organisation prefix and the last allocated sequence value. The
// sequence counter itself lives with the settings row; this only
// renders "{prefix}-{seq+1}" zero-padded to five digits.
func FormatInvoiceNumber(prefix string, lastSequence int64) string {
	return fmt.Sprintf("%s-%05d", prefix, lastSequence+1)
}

// DueDate adds the organisation's payment terms to the issue date.
// Plain calendar days, no business-day skipping.
func DueDate(issueDate time.Time, paymentTermsDays int) time.Time {
	return issueDate.AddDate(0, 0, paymentTermsDays)
}

// LineItem is one row of an invoice. Amount normally tracks
// Quantity*Rate but may be manually overridden (see WithAmount).
type LineItem struct {
	Description string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
	Amount      decimal.Decimal
}

// WithQuantity sets the quantity and recomputes the amount, discarding
// any prior manual override.
func (l LineItem) WithQuantity(qty decimal.Decimal) LineItem {
	l.Quantity = qty
	l.Amount = Round2(l.Quantity.Mul(l.Rate))
	return l
}

// WithRate sets the rate and recomputes the amount, discarding any
// prior manual override.
func (l LineItem) WithRate(rate decimal.Decimal) LineItem {
	l.Rate = rate
	l.Amount = Round2(l.Quantity.Mul(l.Rate))
	return l
}

// WithAmount overrides the amount directly. The override is not
// validated against Quantity*Rate and persists until the next
// quantity or rate edit.
func (l LineItem) WithAmount(amount decimal.Decimal) LineItem {
	l.Amount = amount
	return l
}

// WithDescription replaces the description. No recomputation.
func (l LineItem) WithDescription(desc string) LineItem {
	l.Description = desc
	return l
}

// JobBilling carries the billing-relevant slice of a job into
// AutoLineItem without coupling this package to the persistence model.
type JobBilling struct {
	Title       string
	BillingType string // fixed or hourly
	BillingRate decimal.Decimal
	ActualHours decimal.Decimal
}

// AutoLineItem proposes the initial line item for an invoice generated
// from a job. Fixed-price jobs bill the flat rate as a single unit;
// hourly jobs bill the actual hours rounded up to the billing increment
// at the default hourly rate (falling back to the job's own rate when
// no default is configured). The result is advisory — the user may
// freely edit it before the invoice is created.
func AutoLineItem(job JobBilling, incrementMinutes int, defaultHourlyRate decimal.Decimal) LineItem {
	if job.BillingType == BillingFixed {
		return LineItem{
			Description: job.Title + " – Fixed Price",
			Quantity:    decimal.NewFromInt(1),
			Rate:        job.BillingRate,
			Amount:      job.BillingRate,
		}
	}

	qty := RoundHours(job.ActualHours, incrementMinutes)
	rate := defaultHourlyRate
	if rate.IsZero() {
		rate = job.BillingRate
	}
	return LineItem{
		Description: job.Title + " – Hourly Service",
		Quantity:    qty,
		Rate:        rate,
		Amount:      Round2(qty.Mul(rate)),
	}
}

// InvoiceTotals folds line-item amounts into the invoice money fields.
// Recomputed on every line add/edit/remove so the stored invariants
// subtotal == Σ amounts, tax == round2(subtotal*rate/100) and
// total == subtotal+tax always hold.
func InvoiceTotals(lines []LineItem, taxRatePercent decimal.Decimal) (subtotal, taxAmount, total decimal.Decimal) {
	subtotal = decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Amount)
	}
	subtotal = Round2(subtotal)
	taxAmount, total = ApplyTax(subtotal, taxRatePercent)
	return subtotal, taxAmount, total
}
