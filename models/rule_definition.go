package models

import "time"

// RuleDefinition is a static catalogue entry mapping a rule key to its fixed
// point value. Seeded at boot from the in-code catalogue and read-only at
// runtime; exposed to the UI through the catalogue endpoint.
type RuleDefinition struct {
	Key         string    `gorm:"primaryKey;size:64" json:"key"`
	Label       string    `gorm:"size:128;not null" json:"label"`
	Points      int       `gorm:"not null" json:"points"`
	Description string    `gorm:"size:255" json:"description"`
	Active      bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
