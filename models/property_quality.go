package models

import "time"

// PropertyQuality mirrors the quality-scoring service's output for a listing.
// Written by that service, read-only here: the engine consults it when a
// quality check is requested for a property.
type PropertyQuality struct {
	PropertyID   string    `gorm:"primaryKey;size:36" json:"property_id"`
	UserID       string    `gorm:"size:36;index;not null" json:"user_id"`
	QualityScore int       `gorm:"not null;default:0" json:"quality_score"`
	Has8Photos   bool      `gorm:"column:has_8_photos;not null;default:false" json:"has_8_photos"`
	UpdatedAt    time.Time `json:"updated_at"`
}
