package models

import "time"

// MonthlyReset records that a scoring period has been finalized. The unique
// (year, month) index is what makes ProcessMonthlyReset idempotent: a second
// run for the same boundary finds the row and returns the stored summary.
type MonthlyReset struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Year           int       `gorm:"not null;uniqueIndex:idx_reset_period,priority:1" json:"year"`
	Month          int       `gorm:"not null;uniqueIndex:idx_reset_period,priority:2" json:"month"`
	UsersProcessed int       `gorm:"not null;default:0" json:"users_processed"`
	ChampionID     string    `gorm:"size:36" json:"champion_id"`
	ProcessedAt    time.Time `json:"processed_at"`
}
