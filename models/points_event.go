package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PointsEvent is an immutable fact in the points ledger. Rows are only ever
// inserted; nothing in this codebase updates or deletes them.
type PointsEvent struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	UserID    string         `gorm:"size:36;index;not null" json:"user_id"`
	RuleKey   string         `gorm:"size:64;index;not null" json:"rule_key"`
	Points    int            `gorm:"not null" json:"points"`
	RefType   string         `gorm:"size:32" json:"ref_type"`
	RefID     string         `gorm:"size:64;index" json:"ref_id"`
	Metadata  map[string]any `gorm:"serializer:json" json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}

// BeforeCreate assigns a UUID primary key when the caller did not set one.
func (e *PointsEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	return nil
}
