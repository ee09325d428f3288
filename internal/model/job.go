package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Job status enum constants. Transitions are forward-only and enforced
// by the job service.
const (
	JobOpen       = "open"
	JobInProgress = "in_progress"
	JobOnHold     = "on_hold"
	JobCompleted  = "completed"
	JobInvoiced   = "invoiced"
	JobClosed     = "closed"
)

// Job priority enum constants
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Job represents one engagement for a client. Billing type decides how
// an invoice is proposed from it: fixed bills the flat rate, hourly
// bills rounded actual hours. Actual hours are the sum of task actuals
// and are maintained by the timesheet service as entries are approved.
type Job struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Code        string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"` // e.g. JOB-0042
	Title       string          `gorm:"type:varchar(255);not null" json:"title"`
	ClientID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"client_id"`
	Client      *Client         `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	BillingType string          `gorm:"type:varchar(10);not null" json:"billing_type"` // fixed, hourly
	BillingRate decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"billing_rate"`
	QuotedHours decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"quoted_hours"`
	ActualHours decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"actual_hours"`
	Status      string          `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	Priority    string          `gorm:"type:varchar(10);not null;default:'normal'" json:"priority"`
	Notes       string          `gorm:"type:text" json:"notes"`
	Tasks       []Task          `gorm:"foreignKey:JobID" json:"tasks,omitempty"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// Task status enum constants
const (
	TaskTodo  = "todo"
	TaskDoing = "doing"
	TaskDone  = "done"
)

// Task is one unit of work under a job. Actual hours accumulate from
// approved time entries referencing the task.
type Task struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	JobID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"job_id"`
	Title          string          `gorm:"type:varchar(255);not null" json:"title"`
	Status         string          `gorm:"type:varchar(10);not null;default:'todo'" json:"status"`
	EstimatedHours decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"estimated_hours"`
	ActualHours    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"actual_hours"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
