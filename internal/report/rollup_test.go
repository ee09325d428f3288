package report

import (
	"testing"
	"time"

	"backend/internal/billing"
	"backend/internal/model"
	"backend/internal/period"
	"backend/internal/timesheet"

	"github.com/google/uuid"
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

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestRevenueByMonth(t *testing.T) {
	jobs := []model.Job{
		{BillingType: billing.BillingFixed, BillingRate: dec(t, "2500"), CreatedAt: day(2025, 1, 10)},
		{BillingType: billing.BillingHourly, BillingRate: dec(t, "100"), ActualHours: dec(t, "7.5"), CreatedAt: day(2025, 1, 20)},
		{BillingType: billing.BillingFixed, BillingRate: dec(t, "1000"), CreatedAt: day(2025, 3, 1)},
	}

	rows := RevenueByMonth(jobs, dec(t, "0.6"), period.Range{All: true})
	require.Len(t, rows, 2)

	assert.Equal(t, "2025-01", rows[0].Month)
	assert.Equal(t, "3250.00", rows[0].Revenue.StringFixed(2))
	assert.Equal(t, "1950.00", rows[0].Cost.StringFixed(2))
	assert.Equal(t, "1300.00", rows[0].Profit.StringFixed(2))

	assert.Equal(t, "2025-03", rows[1].Month)
	assert.Equal(t, "1000.00", rows[1].Revenue.StringFixed(2))
}

func TestRevenueByMonthRespectsRange(t *testing.T) {
	jobs := []model.Job{
		{BillingType: billing.BillingFixed, BillingRate: dec(t, "100"), CreatedAt: day(2024, 12, 31)},
		{BillingType: billing.BillingFixed, BillingRate: dec(t, "200"), CreatedAt: day(2025, 1, 1)},
	}

	r := period.Range{Start: day(2025, 1, 1), End: day(2025, 12, 31)}
	rows := RevenueByMonth(jobs, decimal.Zero, r)
	require.Len(t, rows, 1)
	assert.Equal(t, "2025-01", rows[0].Month)
	assert.Equal(t, "200.00", rows[0].Revenue.StringFixed(2))
}

func TestJobStatusBreakdown(t *testing.T) {
	jobs := []model.Job{
		{Status: model.JobOpen},
		{Status: model.JobInProgress},
		{Status: model.JobOpen},
		{Status: model.JobClosed},
	}

	counts := JobStatusBreakdown(jobs)
	require.Len(t, counts, 3)
	assert.Equal(t, StatusCount{Status: model.JobOpen, Count: 2}, counts[0])
	assert.Equal(t, StatusCount{Status: model.JobInProgress, Count: 1}, counts[1])
	assert.Equal(t, StatusCount{Status: model.JobClosed, Count: 1}, counts[2])
}

func TestInvoiceStatusBreakdownDerivesOverdue(t *testing.T) {
	today := day(2025, 2, 1)
	invoices := []model.Invoice{
		{Status: billing.StatusSent, DueDate: day(2025, 1, 15), Total: dec(t, "100")}, // past due
		{Status: billing.StatusSent, DueDate: day(2025, 2, 15), Total: dec(t, "200")},
		{Status: billing.StatusPaid, DueDate: day(2025, 1, 1), Total: dec(t, "300")},
	}

	slices := InvoiceStatusBreakdown(invoices, today)
	require.Len(t, slices, 3)

	assert.Equal(t, billing.StatusOverdue, slices[0].Status)
	assert.Equal(t, "100.00", slices[0].Amount.StringFixed(2))
	assert.Equal(t, billing.StatusSent, slices[1].Status)
	assert.Equal(t, billing.StatusPaid, slices[2].Status)
}

func TestTimeByEmployee(t *testing.T) {
	alice, bob := uuid.New(), uuid.New()
	names := map[uuid.UUID]string{alice: "alice", bob: "bob"}

	entries := []timesheet.Entry{
		{UserID: alice, Hours: dec(t, "6"), Billable: true},
		{UserID: alice, Hours: dec(t, "2"), Billable: false},
		{UserID: bob, Hours: dec(t, "4"), Billable: true},
	}

	rows := TimeByEmployee(entries, names)
	require.Len(t, rows, 2)

	assert.Equal(t, "alice", rows[0].Name)
	assert.Equal(t, "8.00", rows[0].TotalHours.StringFixed(2))
	assert.Equal(t, "6.00", rows[0].BillableHours.StringFixed(2))
	assert.Equal(t, 75, rows[0].BillablePct)
	assert.Equal(t, 2, rows[0].EntryCount)

	assert.Equal(t, "bob", rows[1].Name)
	assert.Equal(t, 100, rows[1].BillablePct)
}

func TestTopClientsByRevenue(t *testing.T) {
	big, small := uuid.New(), uuid.New()
	companies := map[uuid.UUID]string{big: "Big Corp", small: "Small LLC"}

	invoices := []model.Invoice{
		{ClientID: small, Status: billing.StatusSent, Total: dec(t, "500")},
		{ClientID: big, Status: billing.StatusPaid, Total: dec(t, "2000")},
		{ClientID: big, Status: billing.StatusSent, Total: dec(t, "1000")},
		{ClientID: big, Status: billing.StatusCancelled, Total: dec(t, "9999")}, // excluded
	}

	rows := TopClientsByRevenue(invoices, companies)
	require.Len(t, rows, 2)

	assert.Equal(t, "Big Corp", rows[0].Company)
	assert.Equal(t, "3000.00", rows[0].Invoiced.StringFixed(2))
	assert.Equal(t, "2000.00", rows[0].Collected.StringFixed(2))
	assert.Equal(t, "1000.00", rows[0].Outstanding.StringFixed(2))

	assert.Equal(t, "Small LLC", rows[1].Company)
	assert.Equal(t, "500.00", rows[1].Outstanding.StringFixed(2))
}
