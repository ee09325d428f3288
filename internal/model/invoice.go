package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice represents a billing document raised against a job. Money
// fields hold the invariants subtotal == Σ line amounts,
// tax_amount == round2(subtotal * tax_rate/100), total == subtotal+tax.
// Status holds only stored states (draft, sent, paid, cancelled);
// "overdue" is derived at read time from a sent invoice past its due
// date. Only draft invoices may be edited or deleted.
type Invoice struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Number    string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"number"`
	JobID     uuid.UUID `gorm:"type:uuid;not null;index" json:"job_id"`
	Job       *Job      `gorm:"foreignKey:JobID" json:"job,omitempty"`
	ClientID  uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`

	// Client hard-copy fields, snapshotted at creation
	CompanyName    string `gorm:"type:varchar(255)" json:"company_name"`
	ContactName    string `gorm:"type:varchar(255)" json:"contact_name"`
	BillingAddress string `gorm:"type:text" json:"billing_address"`

	IssueDate time.Time `gorm:"type:date;not null;index" json:"issue_date"`
	DueDate   time.Time `gorm:"type:date;not null;index" json:"due_date"`

	TaxRate   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"tax_rate"` // percent, clamped to [0,100]
	Subtotal  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"subtotal"`
	TaxAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"tax_amount"`
	Total     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total"`

	Status    string            `gorm:"type:varchar(15);not null;default:'draft';index" json:"status"`
	Notes     string            `gorm:"type:text" json:"notes"`
	LineItems []InvoiceLineItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"line_items,omitempty"`

	SentAt    *time.Time `json:"sent_at"`
	PaidAt    *time.Time `json:"paid_at"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// InvoiceLineItem is one billed row of an invoice. Position preserves
// insertion order for display. Amount normally equals
// round2(quantity*rate) but a manual override is allowed and survives
// until quantity or rate next change.
type InvoiceLineItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Position    int             `gorm:"not null" json:"position"`
	Description string          `gorm:"type:varchar(500);not null" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"quantity"`
	Rate        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"rate"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
}
