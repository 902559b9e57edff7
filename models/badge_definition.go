package models

import "time"

// BadgeDefinition is a static catalogue entry describing a badge that can be
// stored inside MonthlyAggregate.Badges. Seeded at boot, read-only at runtime.
type BadgeDefinition struct {
	Slug        string    `gorm:"primaryKey;size:64" json:"slug"`
	Label       string    `gorm:"size:128;not null" json:"label"`
	Description string    `gorm:"size:255" json:"description"`
	Icon        string    `gorm:"size:64" json:"icon"`
	Priority    int       `gorm:"not null;default:0" json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
