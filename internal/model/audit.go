package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateJob        = "CREATE_JOB"
	ActionUpdateJob        = "UPDATE_JOB"
	ActionDeleteJob        = "DELETE_JOB"
	ActionJobStatusChange  = "JOB_STATUS_CHANGE"
	ActionCreateClient     = "CREATE_CLIENT"
	ActionUpdateSettings   = "UPDATE_SETTINGS"
	ActionLogTime          = "LOG_TIME"
	ActionApproveTimesheet = "APPROVE_TIMESHEET"
	ActionRejectTimesheet  = "REJECT_TIMESHEET"
	ActionSubmitDrafts     = "SUBMIT_DRAFTS"

	// Invoice lifecycle actions
	ActionCreateInvoice       = "CREATE_INVOICE"
	ActionUpdateInvoice       = "UPDATE_INVOICE"
	ActionDeleteInvoice       = "DELETE_INVOICE"
	ActionInvoiceStatusChange = "INVOICE_STATUS_CHANGE"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Nullable gracefully if automated job
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // Reference string (uuid/code)
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
