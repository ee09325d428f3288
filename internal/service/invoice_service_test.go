package service

import (
	"context"
	"testing"

	"backend/internal/billing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInvoice(t *testing.T, env *testEnv, jobID string) InvoiceResponse {
	t.Helper()
	inv, err := env.invoices.CreateInvoice(context.Background(), env.userID, CreateInvoiceRequest{
		JobID:     jobID,
		IssueDate: "2025-01-01",
		TaxRate:   "10",
		LineItems: []LineItemInput{
			{Description: "Website Redesign – Hourly Service", Quantity: "7.5", Rate: "100"},
		},
	})
	require.NoError(t, err)
	return inv
}

func TestCreateInvoiceNumberingAndTotals(t *testing.T) {
	env := newTestEnv(t)
	jobID, _ := env.newJob(t, "hourly", "100", "40")

	first := newInvoice(t, env, jobID)
	assert.Equal(t, "INV-00001", first.Number)
	assert.Equal(t, billing.StatusDraft, first.Status)
	assert.Equal(t, billing.StatusDraft, first.DisplayStatus)
	assert.Equal(t, "750.00", first.Subtotal)
	assert.Equal(t, "75.00", first.TaxAmount)
	assert.Equal(t, "825.00", first.Total)
	assert.Equal(t, "2025-01-01", first.IssueDate)
	assert.Equal(t, "2025-01-15", first.DueDate) // default 14-day terms
	assert.Equal(t, "Acme Corp", first.CompanyName)

	second := newInvoice(t, env, jobID)
	assert.Equal(t, "INV-00002", second.Number)
}

func TestPreviewInvoiceDoesNotConsumeSequence(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	jobID, taskID := env.newJob(t, "hourly", "100", "40")

	// 7.3 actual hours round up to 7.5 at the 15-minute increment
	_, err := env.timesheets.LogTime(ctx, env.userID, LogTimeRequest{
		JobID: jobID, TaskID: taskID, EntryDate: "2025-01-06", Hours: "7.3",
	})
	require.NoError(t, err)

	preview, err := env.invoices.PreviewInvoice(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, "INV-00001", preview.NextNumber)
	assert.Equal(t, "Website Redesign – Hourly Service", preview.LineItem.Description)
	assert.Equal(t, "7.50", preview.LineItem.Quantity)
	assert.Equal(t, "100.00", preview.LineItem.Rate)
	assert.Equal(t, "750.00", preview.LineItem.Amount)
	assert.Equal(t, "750.00", preview.Subtotal)
	assert.Equal(t, "0.00", preview.TaxAmount)
	assert.Equal(t, "750.00", preview.Total)

	// previewing again still proposes the same number, and the first
	// real invoice actually gets it
	preview, err = env.invoices.PreviewInvoice(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, "INV-00001", preview.NextNumber)

	inv := newInvoice(t, env, jobID)
	assert.Equal(t, "INV-00001", inv.Number)
}

func TestPreviewInvoiceFixedPrice(t *testing.T) {
	env := newTestEnv(t)
	jobID, _ := env.newJob(t, "fixed", "2500", "0")

	preview, err := env.invoices.PreviewInvoice(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, "Website Redesign – Fixed Price", preview.LineItem.Description)
	assert.Equal(t, "1.00", preview.LineItem.Quantity)
	assert.Equal(t, "2500.00", preview.LineItem.Amount)
	assert.Equal(t, "2500.00", preview.Total)
}

func TestUpdateInvoiceRecomputesTotals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	jobID, _ := env.newJob(t, "hourly", "100", "40")
	inv := newInvoice(t, env, jobID)

	updated, err := env.invoices.UpdateInvoice(ctx, env.userID, inv.ID, UpdateInvoiceRequest{
		LineItems: []LineItemInput{
			{Description: "Website Redesign – Hourly Service", Quantity: "7.5", Rate: "100"},
			{Description: "Rush fee", Quantity: "1", Rate: "250"},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.LineItems, 2)
	assert.Equal(t, "1000.00", updated.Subtotal)
	assert.Equal(t, "100.00", updated.TaxAmount)
	assert.Equal(t, "1100.00", updated.Total)
}

func TestUpdateInvoiceAmountOverride(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	jobID, _ := env.newJob(t, "hourly", "100", "40")
	inv := newInvoice(t, env, jobID)

	updated, err := env.invoices.UpdateInvoice(ctx, env.userID, inv.ID, UpdateInvoiceRequest{
		LineItems: []LineItemInput{
			{Description: "Discounted work", Quantity: "7.5", Rate: "100", Amount: "700", AmountOverridden: true},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.LineItems, 1)
	assert.Equal(t, "700.00", updated.LineItems[0].Amount)
	assert.Equal(t, "700.00", updated.Subtotal)
	assert.Equal(t, "770.00", updated.Total)
}

func TestUpdateInvoiceOnlyWhileDraft(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	jobID, _ := env.newJob(t, "hourly", "100", "40")
	inv := newInvoice(t, env, jobID)

	_, err := env.invoices.TransitionInvoice(ctx, env.userID, inv.ID, billing.StatusSent)
	require.NoError(t, err)

	notes := "too late"
	_, err = env.invoices.UpdateInvoice(ctx, env.userID, inv.ID, UpdateInvoiceRequest{Notes: &notes})
	assert.ErrorIs(t, err, ErrNotDraft)
}

func TestTransitionInvoiceLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	jobID, _ := env.newJob(t, "hourly", "100", "40")
	inv := newInvoice(t, env, jobID)

	// draft cannot jump straight to paid
	_, err := env.invoices.TransitionInvoice(ctx, env.userID, inv.ID, billing.StatusPaid)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	sent, err := env.invoices.TransitionInvoice(ctx, env.userID, inv.ID, billing.StatusSent)
	require.NoError(t, err)
	assert.Equal(t, billing.StatusSent, sent.Status)
	require.NotNil(t, sent.SentAt)
	// due date 2025-01-15 is long past: stored status stays sent, the
	// display derivation reads overdue
	assert.Equal(t, billing.StatusOverdue, sent.DisplayStatus)

	paid, err := env.invoices.TransitionInvoice(ctx, env.userID, inv.ID, billing.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, billing.StatusPaid, paid.Status)
	assert.Equal(t, billing.StatusPaid, paid.DisplayStatus)
	require.NotNil(t, paid.PaidAt)

	// paid is terminal
	_, err = env.invoices.TransitionInvoice(ctx, env.userID, inv.ID, billing.StatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestDeleteInvoiceOnlyWhileDraft(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	jobID, _ := env.newJob(t, "hourly", "100", "40")

	draft := newInvoice(t, env, jobID)
	require.NoError(t, env.invoices.DeleteInvoice(ctx, env.userID, draft.ID))
	_, err := env.invoices.GetInvoice(ctx, draft.ID)
	assert.Error(t, err)

	sent := newInvoice(t, env, jobID)
	_, err = env.invoices.TransitionInvoice(ctx, env.userID, sent.ID, billing.StatusSent)
	require.NoError(t, err)
	assert.ErrorIs(t, env.invoices.DeleteInvoice(ctx, env.userID, sent.ID), ErrNotDraft)
}
