package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/billing"
	"backend/internal/model"
	"backend/internal/period"
	"backend/internal/report"
	"backend/internal/repository"
	"backend/internal/timesheet"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RevenueReportResponse struct {
	Range  string                `json:"range"`
	Months []report.MonthRevenue `json:"months"`
	Total  string                `json:"total"`
}

type DashboardResponse struct {
	OpenJobs        int                         `json:"open_jobs"`
	PendingApproval int                         `json:"pending_approval"`
	JobStatus       []report.StatusCount        `json:"job_status"`
	InvoiceStatus   []report.InvoiceStatusSlice `json:"invoice_status"`
	Outstanding     string                      `json:"outstanding"`
}

type ReportService interface {
	Dashboard(ctx context.Context) (DashboardResponse, error)
	RevenueByMonth(ctx context.Context, rangePreset string) (RevenueReportResponse, error)
	JobStatusBreakdown(ctx context.Context) ([]report.StatusCount, error)
	InvoiceStatusBreakdown(ctx context.Context) ([]report.InvoiceStatusSlice, error)
	TimeByEmployee(ctx context.Context, rangePreset string) ([]report.EmployeeTime, error)
	TopClients(ctx context.Context) ([]report.ClientRevenue, error)

	ExportRevenueCSV(ctx context.Context, rangePreset string) (string, error)
	ExportTimeCSV(ctx context.Context, rangePreset string) (string, error)
	ExportClientsCSV(ctx context.Context) (string, error)
}

type reportService struct {
	jobRepo       repository.JobRepository
	invoiceRepo   repository.InvoiceRepository
	timesheetRepo repository.TimesheetRepository
	clientRepo    repository.ClientRepository
	userRepo      repository.UserRepository
	settingsRepo  repository.SettingsRepository
	now           func() time.Time
}

func NewReportService(
	jobRepo repository.JobRepository,
	invoiceRepo repository.InvoiceRepository,
	timesheetRepo repository.TimesheetRepository,
	clientRepo repository.ClientRepository,
	userRepo repository.UserRepository,
	settingsRepo repository.SettingsRepository,
) ReportService {
	return &reportService{
		jobRepo:       jobRepo,
		invoiceRepo:   invoiceRepo,
		timesheetRepo: timesheetRepo,
		clientRepo:    clientRepo,
		userRepo:      userRepo,
		settingsRepo:  settingsRepo,
		now:           time.Now,
	}
}

func (s *reportService) Dashboard(ctx context.Context) (DashboardResponse, error) {
	jobs, err := s.jobRepo.ListAll(ctx)
	if err != nil {
		return DashboardResponse{}, fmt.Errorf("failed to fetch jobs: %w", err)
	}
	invoices, err := s.invoiceRepo.ListAll(ctx)
	if err != nil {
		return DashboardResponse{}, fmt.Errorf("failed to fetch invoices: %w", err)
	}
	pending, err := s.timesheetRepo.List(ctx, repository.TimesheetListFilter{Status: timesheet.StatusPendingApproval})
	if err != nil {
		return DashboardResponse{}, fmt.Errorf("failed to fetch entries: %w", err)
	}

	resp := DashboardResponse{
		PendingApproval: len(pending),
		JobStatus:       report.JobStatusBreakdown(jobs),
		InvoiceStatus:   report.InvoiceStatusBreakdown(invoices, period.Truncate(s.now())),
	}
	for _, job := range jobs {
		if job.Status == model.JobOpen || job.Status == model.JobInProgress {
			resp.OpenJobs++
		}
	}

	outstanding := decimal.Zero
	for _, slice := range resp.InvoiceStatus {
		if slice.Status == billing.StatusSent || slice.Status == billing.StatusOverdue {
			outstanding = outstanding.Add(slice.Amount)
		}
	}
	resp.Outstanding = outstanding.StringFixed(2)
	return resp, nil
}

func (s *reportService) RevenueByMonth(ctx context.Context, rangePreset string) (RevenueReportResponse, error) {
	r, err := period.FromPreset(rangePreset, s.now())
	if err != nil {
		return RevenueReportResponse{}, err
	}

	jobs, err := s.jobRepo.ListAll(ctx)
	if err != nil {
		return RevenueReportResponse{}, fmt.Errorf("failed to fetch jobs: %w", err)
	}
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return RevenueReportResponse{}, fmt.Errorf("failed to load settings: %w", err)
	}

	months := report.RevenueByMonth(jobs, settings.HourlyCostRatio, r)

	total := decimal.Zero
	for _, m := range months {
		total = total.Add(m.Revenue)
	}
	return RevenueReportResponse{
		Range:  presetOrAll(rangePreset),
		Months: months,
		Total:  total.StringFixed(2),
	}, nil
}

func (s *reportService) JobStatusBreakdown(ctx context.Context) ([]report.StatusCount, error) {
	jobs, err := s.jobRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch jobs: %w", err)
	}
	return report.JobStatusBreakdown(jobs), nil
}

func (s *reportService) InvoiceStatusBreakdown(ctx context.Context) ([]report.InvoiceStatusSlice, error) {
	invoices, err := s.invoiceRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoices: %w", err)
	}
	return report.InvoiceStatusBreakdown(invoices, period.Truncate(s.now())), nil
}

func (s *reportService) TimeByEmployee(ctx context.Context, rangePreset string) ([]report.EmployeeTime, error) {
	r, err := period.FromPreset(rangePreset, s.now())
	if err != nil {
		return nil, err
	}

	filter := repository.TimesheetListFilter{}
	if !r.All {
		filter.DateFrom = &r.Start
		filter.DateTo = &r.End
	}
	entries, err := s.timesheetRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entries: %w", err)
	}

	names, err := s.userNames(ctx)
	if err != nil {
		return nil, err
	}
	return report.TimeByEmployee(toCalcEntries(entries), names), nil
}

func (s *reportService) TopClients(ctx context.Context) ([]report.ClientRevenue, error) {
	invoices, err := s.invoiceRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoices: %w", err)
	}
	companies, err := s.clientCompanies(ctx)
	if err != nil {
		return nil, err
	}
	return report.TopClientsByRevenue(invoices, companies), nil
}

// --- CSV exports ---

func (s *reportService) ExportRevenueCSV(ctx context.Context, rangePreset string) (string, error) {
	resp, err := s.RevenueByMonth(ctx, rangePreset)
	if err != nil {
		return "", err
	}

	rows := make([][]string, 0, len(resp.Months))
	for _, m := range resp.Months {
		rows = append(rows, []string{
			m.Month,
			m.Revenue.StringFixed(2),
			m.Cost.StringFixed(2),
			m.Profit.StringFixed(2),
		})
	}
	return report.WriteCSV([]string{"Month", "Revenue", "Cost", "Profit"}, rows)
}

func (s *reportService) ExportTimeCSV(ctx context.Context, rangePreset string) (string, error) {
	rowsIn, err := s.TimeByEmployee(ctx, rangePreset)
	if err != nil {
		return "", err
	}

	rows := make([][]string, 0, len(rowsIn))
	for _, r := range rowsIn {
		rows = append(rows, []string{
			r.Name,
			r.TotalHours.StringFixed(2),
			r.BillableHours.StringFixed(2),
			fmt.Sprintf("%d%%", r.BillablePct),
			fmt.Sprintf("%d", r.EntryCount),
		})
	}
	return report.WriteCSV([]string{"Employee", "Total Hours", "Billable Hours", "Billable %", "Entries"}, rows)
}

func (s *reportService) ExportClientsCSV(ctx context.Context) (string, error) {
	rowsIn, err := s.TopClients(ctx)
	if err != nil {
		return "", err
	}

	rows := make([][]string, 0, len(rowsIn))
	for _, r := range rowsIn {
		rows = append(rows, []string{
			r.Company,
			r.Invoiced.StringFixed(2),
			r.Collected.StringFixed(2),
			r.Outstanding.StringFixed(2),
		})
	}
	return report.WriteCSV([]string{"Client", "Invoiced", "Collected", "Outstanding"}, rows)
}

// --- Helpers ---

func (s *reportService) userNames(ctx context.Context) (map[uuid.UUID]string, error) {
	users, _, err := s.userRepo.List(ctx, 1, allRowsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}
	return names, nil
}

func (s *reportService) clientCompanies(ctx context.Context) (map[uuid.UUID]string, error) {
	clients, err := s.clientRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch clients: %w", err)
	}
	companies := make(map[uuid.UUID]string, len(clients))
	for _, c := range clients {
		companies[c.ID] = c.CompanyName
	}
	return companies, nil
}

func presetOrAll(preset string) string {
	if preset == "" {
		return period.RangeAll
	}
	return preset
}
