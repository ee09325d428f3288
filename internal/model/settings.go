package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrgSettings is the singleton organisation configuration row. Every
// calculation function receives the values it needs as explicit
// parameters — nothing reads this as hidden global state.
type OrgSettings struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CurrencyCode string    `gorm:"type:varchar(3);not null;default:'USD'" json:"currency_code"`
	CurrencySym  string    `gorm:"type:varchar(5);not null;default:'$'" json:"currency_symbol"`
	DateFormat   string    `gorm:"type:varchar(20);not null;default:'2006-01-02'" json:"date_format"`

	DefaultTaxRate   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"default_tax_rate"` // percent, [0,100]
	InvoicePrefix    string          `gorm:"type:varchar(10);not null;default:'INV'" json:"invoice_prefix"`
	InvoiceSequence  int64           `gorm:"not null;default:0" json:"invoice_sequence"` // last allocated sequence value
	PaymentTermsDays int             `gorm:"not null;default:14" json:"payment_terms_days"`

	BillingIncrementMinutes int             `gorm:"not null;default:15" json:"billing_increment_minutes"`
	DefaultHourlyRate       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"default_hourly_rate"`
	HourlyCostRatio         decimal.Decimal `gorm:"type:decimal(5,4);not null;default:0.6" json:"hourly_cost_ratio"` // cost = revenue * ratio

	DailyHoursThreshold decimal.Decimal `gorm:"type:decimal(4,2);not null;default:8" json:"daily_hours_threshold"` // (0,24]
	FlagUnderHours      bool            `gorm:"not null;default:false" json:"flag_under_hours"`
	FlagOverHours       bool            `gorm:"not null;default:true" json:"flag_over_hours"`
	FlagJobOvertime     bool            `gorm:"not null;default:true" json:"flag_job_overtime"`

	// Gates notification emphasis only — never whether approval is required
	NotifyFlaggedTimesheets bool `gorm:"not null;default:true" json:"notify_flagged_timesheets"`

	UpdatedAt time.Time `json:"updated_at"`
}
