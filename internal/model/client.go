package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Client represents a customer organisation jobs are delivered to.
// Invoices snapshot the billing fields at creation time so later edits
// here never rewrite issued documents.
type Client struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyName    string           `gorm:"type:varchar(255);not null;index" json:"company_name"`
	ContactName    string           `gorm:"type:varchar(255)" json:"contact_name"`
	Email          string           `gorm:"type:varchar(255)" json:"email"`
	Phone          string           `gorm:"type:varchar(20)" json:"phone"`
	BillingAddress string           `gorm:"type:text" json:"billing_address"`
	HourlyRate     *decimal.Decimal `gorm:"type:decimal(18,4)" json:"hourly_rate"` // Overrides the org default when set
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	DeletedAt      gorm.DeletedAt   `gorm:"index" json:"-"`
}
