// Package report computes the dashboard and export rollups: revenue per
// month, status breakdowns, per-employee hours and client rankings.
// All functions are deterministic reductions over already-validated
// entities; the only ordering applied is the one each rollup defines.
package report

import (
	"sort"
	"time"

	"backend/internal/billing"
	"backend/internal/model"
	"backend/internal/period"
	"backend/internal/timesheet"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthRevenue is one month's revenue/cost/profit row. Cost is modelled
// as revenue * hourly cost ratio from the organisation settings.
type MonthRevenue struct {
	Month   string          `json:"month"` // YYYY-MM
	Revenue decimal.Decimal `json:"revenue"`
	Cost    decimal.Decimal `json:"cost"`
	Profit  decimal.Decimal `json:"profit"`
}

// jobRevenue is the billable value of a job: the flat rate for fixed
// jobs, rounded hours-times-rate for hourly ones.
func jobRevenue(job model.Job) decimal.Decimal {
	if job.BillingType == billing.BillingFixed {
		return billing.Round2(job.BillingRate)
	}
	return billing.Round2(job.ActualHours.Mul(job.BillingRate))
}

// RevenueByMonth groups job value into calendar months of the job
// creation date, restricted to the range. Months appear in ascending
// order and only when they have at least one job.
func RevenueByMonth(jobs []model.Job, costRatio decimal.Decimal, r period.Range) []MonthRevenue {
	byMonth := make(map[string]*MonthRevenue)
	var order []string

	for _, job := range jobs {
		if !r.Contains(job.CreatedAt) {
			continue
		}
		key := job.CreatedAt.Format("2006-01")
		row, ok := byMonth[key]
		if !ok {
			row = &MonthRevenue{Month: key, Revenue: decimal.Zero, Cost: decimal.Zero, Profit: decimal.Zero}
			byMonth[key] = row
			order = append(order, key)
		}
		row.Revenue = row.Revenue.Add(jobRevenue(job))
	}

	sort.Strings(order)
	out := make([]MonthRevenue, 0, len(order))
	for _, key := range order {
		row := byMonth[key]
		row.Cost = billing.Round2(row.Revenue.Mul(costRatio))
		row.Profit = row.Revenue.Sub(row.Cost)
		out = append(out, *row)
	}
	return out
}

// StatusCount is one slice of a status breakdown.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// JobStatusBreakdown counts jobs per stored status, in first-seen order.
func JobStatusBreakdown(jobs []model.Job) []StatusCount {
	index := make(map[string]int)
	var out []StatusCount
	for _, job := range jobs {
		i, ok := index[job.Status]
		if !ok {
			out = append(out, StatusCount{Status: job.Status})
			i = len(out) - 1
			index[job.Status] = i
		}
		out[i].Count++
	}
	return out
}

// InvoiceStatusSlice is one slice of the invoice breakdown, carrying
// the summed invoice value alongside the count.
type InvoiceStatusSlice struct {
	Status string          `json:"status"`
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// InvoiceStatusBreakdown counts invoices per display status as of
// today, so sent invoices past due land in the overdue slice.
func InvoiceStatusBreakdown(invoices []model.Invoice, today time.Time) []InvoiceStatusSlice {
	index := make(map[string]int)
	var out []InvoiceStatusSlice
	for _, inv := range invoices {
		status := billing.DisplayStatus(inv.Status, inv.DueDate, today)
		i, ok := index[status]
		if !ok {
			out = append(out, InvoiceStatusSlice{Status: status, Amount: decimal.Zero})
			i = len(out) - 1
			index[status] = i
		}
		out[i].Count++
		out[i].Amount = out[i].Amount.Add(inv.Total)
	}
	return out
}

// EmployeeTime is one per-employee row of the time report.
type EmployeeTime struct {
	UserID        uuid.UUID       `json:"user_id"`
	Name          string          `json:"name"`
	TotalHours    decimal.Decimal `json:"total_hours"`
	BillableHours decimal.Decimal `json:"billable_hours"`
	BillablePct   int             `json:"billable_pct"`
	EntryCount    int             `json:"entry_count"`
}

// TimeByEmployee sums total and billable hours per user. BillablePct is
// a whole-number percentage, defined as 0 when the user has no hours.
func TimeByEmployee(entries []timesheet.Entry, names map[uuid.UUID]string) []EmployeeTime {
	index := make(map[uuid.UUID]int)
	var out []EmployeeTime
	for _, e := range entries {
		i, ok := index[e.UserID]
		if !ok {
			out = append(out, EmployeeTime{
				UserID:        e.UserID,
				Name:          names[e.UserID],
				TotalHours:    decimal.Zero,
				BillableHours: decimal.Zero,
			})
			i = len(out) - 1
			index[e.UserID] = i
		}
		out[i].TotalHours = out[i].TotalHours.Add(e.Hours)
		if e.Billable {
			out[i].BillableHours = out[i].BillableHours.Add(e.Hours)
		}
		out[i].EntryCount++
	}

	for i := range out {
		if out[i].TotalHours.IsZero() {
			out[i].BillablePct = 0
			continue
		}
		pct := out[i].BillableHours.Div(out[i].TotalHours).Mul(decimal.NewFromInt(100))
		out[i].BillablePct = int(pct.Round(0).IntPart())
	}
	return out
}

// ClientRevenue is one row of the top-clients ranking.
type ClientRevenue struct {
	ClientID    uuid.UUID       `json:"client_id"`
	Company     string          `json:"company"`
	Invoiced    decimal.Decimal `json:"invoiced"`
	Collected   decimal.Decimal `json:"collected"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// TopClientsByRevenue ranks clients by total invoiced value, descending.
// Cancelled invoices are excluded; collected counts paid invoices only.
func TopClientsByRevenue(invoices []model.Invoice, companies map[uuid.UUID]string) []ClientRevenue {
	index := make(map[uuid.UUID]int)
	var out []ClientRevenue
	for _, inv := range invoices {
		if inv.Status == billing.StatusCancelled {
			continue
		}
		i, ok := index[inv.ClientID]
		if !ok {
			out = append(out, ClientRevenue{
				ClientID:  inv.ClientID,
				Company:   companies[inv.ClientID],
				Invoiced:  decimal.Zero,
				Collected: decimal.Zero,
			})
			i = len(out) - 1
			index[inv.ClientID] = i
		}
		out[i].Invoiced = out[i].Invoiced.Add(inv.Total)
		if inv.Status == billing.StatusPaid {
			out[i].Collected = out[i].Collected.Add(inv.Total)
		}
	}

	for i := range out {
		out[i].Outstanding = out[i].Invoiced.Sub(out[i].Collected)
	}

	// Stable ranking: invoiced desc, first-seen order preserved on ties
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Invoiced.GreaterThan(out[j].Invoiced)
	})
	return out
}
