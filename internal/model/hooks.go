package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UUIDs are generated application-side so the same models work against
// Postgres and the in-memory test database.

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(tx *gorm.DB) error { ensureID(&u.ID); return nil }

func (r *RefreshToken) BeforeCreate(tx *gorm.DB) error { ensureID(&r.ID); return nil }

func (r *Role) BeforeCreate(tx *gorm.DB) error { ensureID(&r.ID); return nil }

func (p *Permission) BeforeCreate(tx *gorm.DB) error { ensureID(&p.ID); return nil }

func (c *Client) BeforeCreate(tx *gorm.DB) error { ensureID(&c.ID); return nil }

func (j *Job) BeforeCreate(tx *gorm.DB) error { ensureID(&j.ID); return nil }

func (t *Task) BeforeCreate(tx *gorm.DB) error { ensureID(&t.ID); return nil }

func (i *Invoice) BeforeCreate(tx *gorm.DB) error { ensureID(&i.ID); return nil }

func (l *InvoiceLineItem) BeforeCreate(tx *gorm.DB) error { ensureID(&l.ID); return nil }

func (e *TimesheetEntry) BeforeCreate(tx *gorm.DB) error { ensureID(&e.ID); return nil }

func (d *TimesheetDraft) BeforeCreate(tx *gorm.DB) error { ensureID(&d.ID); return nil }

func (s *OrgSettings) BeforeCreate(tx *gorm.DB) error { ensureID(&s.ID); return nil }

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error { ensureID(&a.ID); return nil }
