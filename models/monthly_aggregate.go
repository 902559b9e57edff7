package models

import "time"

// MonthlyAggregate is the per-user-per-month summary row. One row per
// (user_id, year, month); created lazily on the first event of the month and
// kept forever as the historical record. Points must always equal the sum of
// that user/month's PointsEvent rows; Tier and DiscountPercent are derived
// from Points and recomputed on every change.
type MonthlyAggregate struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          string    `gorm:"size:36;not null;uniqueIndex:idx_user_period,priority:1" json:"user_id"`
	Year            int       `gorm:"not null;uniqueIndex:idx_user_period,priority:2" json:"year"`
	Month           int       `gorm:"not null;uniqueIndex:idx_user_period,priority:3" json:"month"`
	Points          int       `gorm:"not null;default:0" json:"points"`
	Tier            string    `gorm:"size:32" json:"tier"`
	DiscountPercent int       `gorm:"not null;default:0" json:"discount_percent"`
	Badges          []string  `gorm:"serializer:json" json:"badges"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// HasBadge reports whether the aggregate already carries the given badge slug.
func (a *MonthlyAggregate) HasBadge(slug string) bool {
	for _, b := range a.Badges {
		if b == slug {
			return true
		}
	}
	return false
}
