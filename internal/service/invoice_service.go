package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/billing"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

// LineItemInput is one submitted invoice line. Amount is recomputed
// from quantity*rate on the server unless AmountOverridden is set, in
// which case the submitted amount is stored as-is. The override is an
// allowed, documented behavior — it survives until quantity or rate
// next change.
type LineItemInput struct {
	Description      string `json:"description" binding:"required"`
	Quantity         string `json:"quantity" binding:"required"`
	Rate             string `json:"rate" binding:"required"`
	Amount           string `json:"amount"`
	AmountOverridden bool   `json:"amount_overridden"`
}

type CreateInvoiceRequest struct {
	JobID     string          `json:"job_id" binding:"required"`
	IssueDate string          `json:"issue_date"` // YYYY-MM-DD, defaults to today
	TaxRate   string          `json:"tax_rate"`   // percent, defaults to org setting
	Notes     string          `json:"notes"`
	LineItems []LineItemInput `json:"line_items" binding:"required,min=1,dive"`
}

type UpdateInvoiceRequest struct {
	IssueDate *string         `json:"issue_date"`
	TaxRate   *string         `json:"tax_rate"`
	Notes     *string         `json:"notes"`
	LineItems []LineItemInput `json:"line_items" binding:"omitempty,min=1,dive"`
}

type InvoiceFilter struct {
	Status   string
	ClientID string
	Number   string
	Page     int
	Limit    int
}

type LineItemResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Rate        string `json:"rate"`
	Amount      string `json:"amount"`
}

type InvoiceResponse struct {
	ID             string             `json:"id"`
	Number         string             `json:"number"`
	JobID          string             `json:"job_id"`
	JobCode        string             `json:"job_code,omitempty"`
	ClientID       string             `json:"client_id"`
	CompanyName    string             `json:"company_name"`
	ContactName    string             `json:"contact_name"`
	BillingAddress string             `json:"billing_address"`
	IssueDate      string             `json:"issue_date"`
	DueDate        string             `json:"due_date"`
	TaxRate        string             `json:"tax_rate"`
	Subtotal       string             `json:"subtotal"`
	TaxAmount      string             `json:"tax_amount"`
	Total          string             `json:"total"`
	Status         string             `json:"status"`         // stored status
	DisplayStatus  string             `json:"display_status"` // sent past due reads as overdue
	Notes          string             `json:"notes"`
	LineItems      []LineItemResponse `json:"line_items"`
	SentAt         *string            `json:"sent_at"`
	PaidAt         *string            `json:"paid_at"`
	CreatedAt      string             `json:"created_at"`
}

// InvoicePreview is the advisory proposal for a new invoice from a job:
// the auto-generated line item, derived totals and the number the next
// allocation would produce. Nothing is persisted by a preview.
type InvoicePreview struct {
	NextNumber string           `json:"next_number"`
	IssueDate  string           `json:"issue_date"`
	DueDate    string           `json:"due_date"`
	TaxRate    string           `json:"tax_rate"`
	LineItem   LineItemResponse `json:"line_item"`
	Subtotal   string           `json:"subtotal"`
	TaxAmount  string           `json:"tax_amount"`
	Total      string           `json:"total"`
}

// --- Interface ---

type InvoiceService interface {
	PreviewInvoice(ctx context.Context, jobID string) (InvoicePreview, error)
	CreateInvoice(ctx context.Context, userID string, req CreateInvoiceRequest) (InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceResponse, int64, error)
	UpdateInvoice(ctx context.Context, userID, id string, req UpdateInvoiceRequest) (InvoiceResponse, error)
	TransitionInvoice(ctx context.Context, userID, id, newStatus string) (InvoiceResponse, error)
	DeleteInvoice(ctx context.Context, userID, id string) error
}

type invoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	jobRepo      repository.JobRepository
	clientRepo   repository.ClientRepository
	settingsRepo repository.SettingsRepository
	txManager    repository.TransactionManager
	audit        AuditService
	hub          *websocket.Hub
	now          func() time.Time
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	jobRepo repository.JobRepository,
	clientRepo repository.ClientRepository,
	settingsRepo repository.SettingsRepository,
	txManager repository.TransactionManager,
	audit AuditService,
	hub *websocket.Hub,
) InvoiceService {
	return &invoiceService{
		invoiceRepo:  invoiceRepo,
		jobRepo:      jobRepo,
		clientRepo:   clientRepo,
		settingsRepo: settingsRepo,
		txManager:    txManager,
		audit:        audit,
		hub:          hub,
		now:          time.Now,
	}
}

// --- Implementation ---

func (s *invoiceService) PreviewInvoice(ctx context.Context, jobID string) (InvoicePreview, error) {
	parsedJobID, err := uuid.Parse(jobID)
	if err != nil {
		return InvoicePreview{}, fmt.Errorf("invalid job id: %w", err)
	}

	job, err := s.jobRepo.FindByID(ctx, parsedJobID)
	if err != nil {
		return InvoicePreview{}, fmt.Errorf("job not found: %w", err)
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return InvoicePreview{}, fmt.Errorf("failed to load settings: %w", err)
	}

	// Client rate override takes precedence over the org default
	defaultRate := settings.DefaultHourlyRate
	if job.Client != nil && job.Client.HourlyRate != nil {
		defaultRate = *job.Client.HourlyRate
	}

	line := billing.AutoLineItem(jobBillingInput(*job), settings.BillingIncrementMinutes, defaultRate)
	subtotal, taxAmount, total := billing.InvoiceTotals([]billing.LineItem{line}, settings.DefaultTaxRate)

	issue := s.today()
	due := billing.DueDate(issue, settings.PaymentTermsDays)

	return InvoicePreview{
		NextNumber: billing.FormatInvoiceNumber(settings.InvoicePrefix, settings.InvoiceSequence),
		IssueDate:  issue.Format(dateFormat),
		DueDate:    due.Format(dateFormat),
		TaxRate:    settings.DefaultTaxRate.StringFixed(2),
		LineItem: LineItemResponse{
			Description: line.Description,
			Quantity:    line.Quantity.StringFixed(2),
			Rate:        line.Rate.StringFixed(2),
			Amount:      line.Amount.StringFixed(2),
		},
		Subtotal:  subtotal.StringFixed(2),
		TaxAmount: taxAmount.StringFixed(2),
		Total:     total.StringFixed(2),
	}, nil
}

func (s *invoiceService) CreateInvoice(ctx context.Context, userID string, req CreateInvoiceRequest) (InvoiceResponse, error) {
	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid job_id: %w", err)
	}

	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("referenced job not found: %w", err)
	}

	client, err := s.clientRepo.FindByID(ctx, job.ClientID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("job client not found: %w", err)
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to load settings: %w", err)
	}

	issueDate := s.today()
	if req.IssueDate != "" {
		issueDate, err = time.ParseInLocation(dateFormat, req.IssueDate, time.Local)
		if err != nil {
			return InvoiceResponse{}, fmt.Errorf("invalid issue_date: %w", err)
		}
	}

	taxRate := settings.DefaultTaxRate
	if req.TaxRate != "" {
		taxRate, err = parseTaxRate(req.TaxRate)
		if err != nil {
			return InvoiceResponse{}, err
		}
	}

	lines, err := buildLineItems(req.LineItems)
	if err != nil {
		return InvoiceResponse{}, err
	}
	subtotal, taxAmount, total := billing.InvoiceTotals(lines, taxRate)

	var invoice model.Invoice
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		seq, seqErr := s.settingsRepo.NextInvoiceSequence(txCtx)
		if seqErr != nil {
			return fmt.Errorf("failed to allocate invoice sequence: %w", seqErr)
		}

		invoice = model.Invoice{
			Number:         billing.FormatInvoiceNumber(settings.InvoicePrefix, seq-1),
			JobID:          jobID,
			ClientID:       client.ID,
			CompanyName:    client.CompanyName,
			ContactName:    client.ContactName,
			BillingAddress: client.BillingAddress,
			IssueDate:      issueDate,
			DueDate:        billing.DueDate(issueDate, settings.PaymentTermsDays),
			TaxRate:        taxRate,
			Subtotal:       subtotal,
			TaxAmount:      taxAmount,
			Total:          total,
			Status:         billing.StatusDraft,
			Notes:          req.Notes,
			LineItems:      toLineModels(lines),
		}
		return s.invoiceRepo.Create(txCtx, &invoice)
	})
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.audit.Record(ctx, userID, model.ActionCreateInvoice, invoice.ID.String(), invoice.Number, nil)

	return s.GetInvoice(ctx, invoice.ID.String())
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	invoice, err := s.invoiceRepo.FindByIDWithLines(ctx, invoiceID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invoice not found: %w", err)
	}
	return s.toInvoiceResponse(*invoice), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	repoFilter := repository.InvoiceListFilter{
		Status: filter.Status,
		Number: filter.Number,
		Page:   filter.Page,
		Limit:  filter.Limit,
	}
	if filter.ClientID != "" {
		clientID, err := uuid.Parse(filter.ClientID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid client_id: %w", err)
		}
		repoFilter.ClientID = &clientID
	}

	invoices, total, err := s.invoiceRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	result := make([]InvoiceResponse, 0, len(invoices))
	for _, invoice := range invoices {
		result = append(result, s.toInvoiceResponse(invoice))
	}
	return result, total, nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, userID, id string, req UpdateInvoiceRequest) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, findErr := s.invoiceRepo.FindByIDWithLines(txCtx, invoiceID)
		if findErr != nil {
			return fmt.Errorf("invoice not found: %w", findErr)
		}

		if invoice.Status != billing.StatusDraft {
			return ErrNotDraft
		}

		if req.IssueDate != nil {
			issue, parseErr := time.ParseInLocation(dateFormat, *req.IssueDate, time.Local)
			if parseErr != nil {
				return fmt.Errorf("invalid issue_date: %w", parseErr)
			}
			settings, settingsErr := s.settingsRepo.Get(txCtx)
			if settingsErr != nil {
				return fmt.Errorf("failed to load settings: %w", settingsErr)
			}
			invoice.IssueDate = issue
			invoice.DueDate = billing.DueDate(issue, settings.PaymentTermsDays)
		}
		if req.TaxRate != nil {
			rate, parseErr := parseTaxRate(*req.TaxRate)
			if parseErr != nil {
				return parseErr
			}
			invoice.TaxRate = rate
		}
		if req.Notes != nil {
			invoice.Notes = *req.Notes
		}

		lines := linesFromModels(invoice.LineItems)
		if req.LineItems != nil {
			if len(req.LineItems) == 0 {
				return ErrLastLineItem
			}
			var buildErr error
			lines, buildErr = buildLineItems(req.LineItems)
			if buildErr != nil {
				return buildErr
			}
			if replaceErr := s.invoiceRepo.ReplaceLineItems(txCtx, invoice.ID, toLineModels(lines)); replaceErr != nil {
				return fmt.Errorf("failed to replace line items: %w", replaceErr)
			}
		}

		invoice.Subtotal, invoice.TaxAmount, invoice.Total = billing.InvoiceTotals(lines, invoice.TaxRate)
		invoice.LineItems = nil // avoid re-saving stale associations
		if updateErr := s.invoiceRepo.Update(txCtx, invoice); updateErr != nil {
			return fmt.Errorf("failed to update invoice: %w", updateErr)
		}
		return nil
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	s.audit.Record(ctx, userID, model.ActionUpdateInvoice, id, "", nil)

	return s.GetInvoice(ctx, id)
}

func (s *invoiceService) TransitionInvoice(ctx context.Context, userID, id, newStatus string) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	var invoice *model.Invoice
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		invoice, findErr = s.invoiceRepo.FindByID(txCtx, invoiceID)
		if findErr != nil {
			return fmt.Errorf("invoice not found: %w", findErr)
		}

		if !billing.CanTransition(invoice.Status, newStatus) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, invoice.Status, newStatus)
		}

		now := s.now()
		invoice.Status = newStatus
		switch newStatus {
		case billing.StatusSent:
			invoice.SentAt = &now
		case billing.StatusPaid:
			invoice.PaidAt = &now
		}
		return s.invoiceRepo.Update(txCtx, invoice)
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	s.audit.Record(ctx, userID, model.ActionInvoiceStatusChange, id, invoice.Number, map[string]string{"to": newStatus})
	s.hub.Publish(websocket.EventInvoiceStatus, map[string]string{
		"invoice_id": id,
		"number":     invoice.Number,
		"status":     newStatus,
	})

	return s.GetInvoice(ctx, id)
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, userID, id string) error {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid invoice id: %w", err)
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return fmt.Errorf("invoice not found: %w", err)
	}

	if invoice.Status != billing.StatusDraft {
		return ErrNotDraft
	}

	if err := s.invoiceRepo.Delete(ctx, invoiceID); err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	s.audit.Record(ctx, userID, model.ActionDeleteInvoice, id, invoice.Number, nil)
	return nil
}

// --- Helpers ---

func (s *invoiceService) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func parseTaxRate(raw string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid tax_rate: %w", err)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, fmt.Errorf("tax_rate must be within [0,100]")
	}
	return rate, nil
}

// buildLineItems converts submitted lines into billing values. Amounts
// are recomputed from quantity*rate unless explicitly overridden.
func buildLineItems(inputs []LineItemInput) ([]billing.LineItem, error) {
	lines := make([]billing.LineItem, 0, len(inputs))
	for i, input := range inputs {
		qty, err := decimal.NewFromString(input.Quantity)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid quantity: %w", i+1, err)
		}
		rate, err := decimal.NewFromString(input.Rate)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid rate: %w", i+1, err)
		}

		line := billing.LineItem{Description: input.Description}.
			WithRate(rate).
			WithQuantity(qty)

		if input.AmountOverridden {
			amount, err := decimal.NewFromString(input.Amount)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid amount: %w", i+1, err)
			}
			line = line.WithAmount(amount)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func toLineModels(lines []billing.LineItem) []model.InvoiceLineItem {
	out := make([]model.InvoiceLineItem, 0, len(lines))
	for i, line := range lines {
		out = append(out, model.InvoiceLineItem{
			Position:    i,
			Description: line.Description,
			Quantity:    line.Quantity,
			Rate:        line.Rate,
			Amount:      line.Amount,
		})
	}
	return out
}

func linesFromModels(items []model.InvoiceLineItem) []billing.LineItem {
	out := make([]billing.LineItem, 0, len(items))
	for _, item := range items {
		out = append(out, billing.LineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
			Amount:      item.Amount,
		})
	}
	return out
}

// --- Mapping ---

func (s *invoiceService) toInvoiceResponse(invoice model.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:             invoice.ID.String(),
		Number:         invoice.Number,
		JobID:          invoice.JobID.String(),
		ClientID:       invoice.ClientID.String(),
		CompanyName:    invoice.CompanyName,
		ContactName:    invoice.ContactName,
		BillingAddress: invoice.BillingAddress,
		IssueDate:      invoice.IssueDate.Format(dateFormat),
		DueDate:        invoice.DueDate.Format(dateFormat),
		TaxRate:        invoice.TaxRate.StringFixed(2),
		Subtotal:       invoice.Subtotal.StringFixed(2),
		TaxAmount:      invoice.TaxAmount.StringFixed(2),
		Total:          invoice.Total.StringFixed(2),
		Status:         invoice.Status,
		DisplayStatus:  billing.DisplayStatus(invoice.Status, invoice.DueDate, s.today()),
		Notes:          invoice.Notes,
		CreatedAt:      invoice.CreatedAt.Format(timeFormat),
	}
	if invoice.Job != nil {
		resp.JobCode = invoice.Job.Code
	}
	for _, item := range invoice.LineItems {
		resp.LineItems = append(resp.LineItems, LineItemResponse{
			ID:          item.ID.String(),
			Description: item.Description,
			Quantity:    item.Quantity.StringFixed(2),
			Rate:        item.Rate.StringFixed(2),
			Amount:      item.Amount.StringFixed(2),
		})
	}
	if invoice.SentAt != nil {
		v := invoice.SentAt.Format(timeFormat)
		resp.SentAt = &v
	}
	if invoice.PaidAt != nil {
		v := invoice.PaidAt.Format(timeFormat)
		resp.PaidAt = &v
	}
	return resp
}
