package service

import (
	"context"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/shopspring/decimal"
)

// --- DTOs ---

// UpdateSettingsRequest carries partial updates to the organisation
// settings. Nil fields are left unchanged.
type UpdateSettingsRequest struct {
	CurrencyCode            *string `json:"currency_code" binding:"omitempty,len=3"`
	CurrencySymbol          *string `json:"currency_symbol"`
	DateFormat              *string `json:"date_format"`
	DefaultTaxRate          *string `json:"default_tax_rate"`
	InvoicePrefix           *string `json:"invoice_prefix"`
	PaymentTermsDays        *int    `json:"payment_terms_days" binding:"omitempty,min=0"`
	BillingIncrementMinutes *int    `json:"billing_increment_minutes" binding:"omitempty,min=1"`
	DefaultHourlyRate       *string `json:"default_hourly_rate"`
	HourlyCostRatio         *string `json:"hourly_cost_ratio"`
	DailyHoursThreshold     *string `json:"daily_hours_threshold"`
	FlagUnderHours          *bool   `json:"flag_under_hours"`
	FlagOverHours           *bool   `json:"flag_over_hours"`
	FlagJobOvertime         *bool   `json:"flag_job_overtime"`
	NotifyFlaggedTimesheets *bool   `json:"notify_flagged_timesheets"`
}

// --- Interface ---

type SettingsService interface {
	GetSettings(ctx context.Context) (*model.OrgSettings, error)
	UpdateSettings(ctx context.Context, userID string, req UpdateSettingsRequest) (*model.OrgSettings, error)
}

type settingsService struct {
	settingsRepo repository.SettingsRepository
	audit        AuditService
}

func NewSettingsService(settingsRepo repository.SettingsRepository, audit AuditService) SettingsService {
	return &settingsService{settingsRepo: settingsRepo, audit: audit}
}

// --- Implementation ---

func (s *settingsService) GetSettings(ctx context.Context) (*model.OrgSettings, error) {
	return s.settingsRepo.Get(ctx)
}

func (s *settingsService) UpdateSettings(ctx context.Context, userID string, req UpdateSettingsRequest) (*model.OrgSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	if req.CurrencyCode != nil {
		settings.CurrencyCode = *req.CurrencyCode
	}
	if req.CurrencySymbol != nil {
		settings.CurrencySym = *req.CurrencySymbol
	}
	if req.DateFormat != nil {
		settings.DateFormat = *req.DateFormat
	}
	if req.DefaultTaxRate != nil {
		rate, err := decimal.NewFromString(*req.DefaultTaxRate)
		if err != nil {
			return nil, fmt.Errorf("invalid default_tax_rate: %w", err)
		}
		// Tax rate is clamped, not rejected: callers of ApplyTax rely
		// on rates staying inside [0,100]
		if rate.IsNegative() {
			rate = decimal.Zero
		}
		if rate.GreaterThan(decimal.NewFromInt(100)) {
			rate = decimal.NewFromInt(100)
		}
		settings.DefaultTaxRate = rate
	}
	if req.InvoicePrefix != nil {
		if *req.InvoicePrefix == "" {
			return nil, fmt.Errorf("invoice_prefix cannot be empty")
		}
		settings.InvoicePrefix = *req.InvoicePrefix
	}
	if req.PaymentTermsDays != nil {
		settings.PaymentTermsDays = *req.PaymentTermsDays
	}
	if req.BillingIncrementMinutes != nil {
		if *req.BillingIncrementMinutes <= 0 {
			return nil, fmt.Errorf("billing_increment_minutes must be positive")
		}
		settings.BillingIncrementMinutes = *req.BillingIncrementMinutes
	}
	if req.DefaultHourlyRate != nil {
		rate, err := decimal.NewFromString(*req.DefaultHourlyRate)
		if err != nil {
			return nil, fmt.Errorf("invalid default_hourly_rate: %w", err)
		}
		settings.DefaultHourlyRate = rate
	}
	if req.HourlyCostRatio != nil {
		ratio, err := decimal.NewFromString(*req.HourlyCostRatio)
		if err != nil {
			return nil, fmt.Errorf("invalid hourly_cost_ratio: %w", err)
		}
		if ratio.IsNegative() || ratio.GreaterThan(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("hourly_cost_ratio must be within [0,1]")
		}
		settings.HourlyCostRatio = ratio
	}
	if req.DailyHoursThreshold != nil {
		threshold, err := decimal.NewFromString(*req.DailyHoursThreshold)
		if err != nil {
			return nil, fmt.Errorf("invalid daily_hours_threshold: %w", err)
		}
		if !threshold.IsPositive() || threshold.GreaterThan(decimal.NewFromInt(24)) {
			return nil, fmt.Errorf("daily_hours_threshold must be within (0,24]")
		}
		settings.DailyHoursThreshold = threshold
	}
	if req.FlagUnderHours != nil {
		settings.FlagUnderHours = *req.FlagUnderHours
	}
	if req.FlagOverHours != nil {
		settings.FlagOverHours = *req.FlagOverHours
	}
	if req.FlagJobOvertime != nil {
		settings.FlagJobOvertime = *req.FlagJobOvertime
	}
	if req.NotifyFlaggedTimesheets != nil {
		settings.NotifyFlaggedTimesheets = *req.NotifyFlaggedTimesheets
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}

	s.audit.Record(ctx, userID, model.ActionUpdateSettings, settings.ID.String(), "organisation settings", req)

	return settings, nil
}
