package models

import "time"

// Broker holds the minimal public identity the leaderboard needs. The row is
// maintained by the platform's user service; this service only reads it.
type Broker struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	AvatarURL string    `gorm:"size:512" json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
