package models

// LeaderboardEntry is a derived read model: a MonthlyAggregate joined with the
// broker's public identity for the current month. Never persisted.
type LeaderboardEntry struct {
	Rank            int      `json:"rank"`
	UserID          string   `json:"user_id"`
	Name            string   `json:"name"`
	AvatarURL       string   `json:"avatar_url"`
	Points          int      `json:"points"`
	Tier            string   `json:"tier"`
	DiscountPercent int      `json:"discount_percent"`
	Badges          []string `json:"badges"`
}
