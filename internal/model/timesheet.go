package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TimesheetEntry represents one logged block of work on a task. The
// entry date is a calendar day with no time component. Flagged entries
// (non-empty flag_reason) are created as pending_approval and need a
// manager decision; unflagged entries are pending_normal and never do.
type TimesheetEntry struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	User          *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	JobID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"job_id"`
	Job           *Job            `gorm:"foreignKey:JobID" json:"job,omitempty"`
	TaskID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"task_id"`
	Task          *Task           `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	EntryDate     time.Time       `gorm:"type:date;not null;index" json:"entry_date"`
	Hours         decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"hours"` // 0 < hours <= 24
	Billable      bool            `gorm:"not null;default:true" json:"billable"`
	Status        string          `gorm:"type:varchar(20);not null;default:'pending_normal';index" json:"status"`
	FlagReason    string          `gorm:"type:varchar(20)" json:"flag_reason,omitempty"` // UNDER_HOURS, OVER_HOURS, JOB_OVERTIME, MULTIPLE
	RejectionNote string          `gorm:"type:text" json:"rejection_note,omitempty"`
	ApprovedBy    *uuid.UUID      `gorm:"type:uuid" json:"approved_by"`
	ApprovedAt    *time.Time      `json:"approved_at"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// DraftSchemaVersion is the current shape version of the draft payload.
// Stored alongside the payload so a shape change is detected instead of
// silently mis-decoding old drafts.
const DraftSchemaVersion = 1

// TimesheetDraft holds one user's not-yet-submitted entries as a JSON
// payload. One row per user, last write wins.
type TimesheetDraft struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	SchemaVersion int       `gorm:"not null" json:"schema_version"`
	Payload       string    `gorm:"type:jsonb;not null" json:"payload"` // JSON array of DraftEntry
	UpdatedAt     time.Time `json:"updated_at"`
}

// DraftEntry is the payload shape of one unsubmitted entry. Same fields
// as TimesheetEntry minus id and workflow state.
type DraftEntry struct {
	JobID     uuid.UUID       `json:"job_id"`
	TaskID    uuid.UUID       `json:"task_id"`
	EntryDate string          `json:"entry_date"` // YYYY-MM-DD local day key
	Hours     decimal.Decimal `json:"hours"`
	Billable  bool            `json:"billable"`
	Notes     string          `json:"notes,omitempty"`
}
