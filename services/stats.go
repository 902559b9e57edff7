package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Robsonrmaia/conectaios-sub003/models"
	"github.com/Robsonrmaia/conectaios-sub003/utils"
)

// UserStats is the read-only projection backing the broker's dashboard.
type UserStats struct {
	MonthlyData  models.MonthlyAggregate `json:"monthly_data"`
	TierProgress int                     `json:"tier_progress"`
	PointsToNext int                     `json:"points_to_next_tier"`
	NextTier     string                  `json:"next_tier,omitempty"`
	RecentEvents []models.PointsEvent    `json:"recent_events"`
	CurrentRank  int                     `json:"current_rank"`
	TotalUsers   int64                   `json:"total_users"`
}

// GetUserStats returns the current month's aggregate (a zero-valued default
// when the user has no events yet), the most recent events newest-first, and
// the user's 1-based rank for the month. Ranking orders by points descending;
// ties go to the aggregate updated earlier.
func (g *Gamification) GetUserStats(userID string) (*UserStats, error) {
	if userID == "" {
		return nil, &ValidationError{Message: "usuario_id is required"}
	}

	now := g.now().UTC()
	year, month := now.Year(), int(now.Month())

	var agg models.MonthlyAggregate
	hasAggregate := true
	if err := g.db.Where("user_id = ? AND year = ? AND month = ?", userID, year, month).
		First(&agg).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storeErr("load monthly aggregate", err)
		}
		hasAggregate = false
		agg = models.MonthlyAggregate{
			UserID: userID,
			Year:   year,
			Month:  month,
			Badges: []string{},
		}
	}

	// Tier is derived, never trusted from storage.
	tier := TierFor(agg.Points)
	agg.Tier = tier.Name
	agg.DiscountPercent = tier.Discount
	if agg.Badges == nil {
		agg.Badges = []string{}
	}

	var events []models.PointsEvent
	if err := g.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(g.recentEventsLimit).
		Find(&events).Error; err != nil {
		return nil, storeErr("load recent events", err)
	}

	var total int64
	if err := g.db.Model(&models.MonthlyAggregate{}).
		Where("year = ? AND month = ?", year, month).
		Count(&total).Error; err != nil {
		return nil, storeErr("count ranked users", err)
	}

	var ahead int64
	rankQuery := g.db.Model(&models.MonthlyAggregate{}).
		Where("year = ? AND month = ?", year, month)
	if hasAggregate {
		rankQuery = rankQuery.Where("points > ? OR (points = ? AND updated_at < ?)",
			agg.Points, agg.Points, agg.UpdatedAt)
	} else {
		rankQuery = rankQuery.Where("points > 0")
	}
	if err := rankQuery.Count(&ahead).Error; err != nil {
		return nil, storeErr("compute rank", err)
	}

	stats := &UserStats{
		MonthlyData:  agg,
		TierProgress: TierProgress(agg.Points),
		PointsToNext: PointsToNextTier(agg.Points),
		RecentEvents: events,
		CurrentRank:  int(ahead) + 1,
		TotalUsers:   total,
	}
	if next, ok := NextTier(agg.Points); ok {
		stats.NextTier = next.Name
	}
	return stats, nil
}

// Leaderboard is the month-scoped ranked view.
type Leaderboard struct {
	Entries []models.LeaderboardEntry `json:"leaderboard"`
	Month   int                       `json:"month"`
	Year    int                       `json:"year"`
}

// GetLeaderboard returns the current month's leaderboard.
func (g *Gamification) GetLeaderboard() (*Leaderboard, error) {
	now := g.now().UTC()
	return g.GetLeaderboardFor(now.Year(), int(now.Month()))
}

// GetLeaderboardFor returns the top aggregates of the given period joined with
// broker identity, points descending with earlier-updated winning ties.
// Finalized months are served the same way; their aggregates never change.
// Results are cached briefly in Redis and invalidated on every award.
func (g *Gamification) GetLeaderboardFor(year, month int) (*Leaderboard, error) {
	if month < 1 || month > 12 {
		return nil, &ValidationError{Message: "target_month must name a month between 01 and 12"}
	}
	cacheKey := fmt.Sprintf("%s%d-%02d", leaderboardCachePrefix, year, month)

	if g.cacheEnabled {
		var cached Leaderboard
		if utils.CacheGetJSON(cacheKey, &cached) {
			return &cached, nil
		}
	}

	var aggs []models.MonthlyAggregate
	if err := g.db.Where("year = ? AND month = ?", year, month).
		Order("points DESC, updated_at ASC").
		Limit(g.leaderboardSize).
		Find(&aggs).Error; err != nil {
		return nil, storeErr("load leaderboard aggregates", err)
	}

	ids := make([]string, 0, len(aggs))
	for _, a := range aggs {
		ids = append(ids, a.UserID)
	}
	brokerByID := map[string]models.Broker{}
	if len(ids) > 0 {
		var brokers []models.Broker
		if err := g.db.Where("id IN ?", ids).Find(&brokers).Error; err != nil {
			return nil, storeErr("load broker identities", err)
		}
		for _, b := range brokers {
			brokerByID[b.ID] = b
		}
	}

	board := &Leaderboard{Year: year, Month: month, Entries: make([]models.LeaderboardEntry, 0, len(aggs))}
	for i, a := range aggs {
		tier := TierFor(a.Points)
		badges := a.Badges
		if badges == nil {
			badges = []string{}
		}
		entry := models.LeaderboardEntry{
			Rank:            i + 1,
			UserID:          a.UserID,
			Points:          a.Points,
			Tier:            tier.Name,
			DiscountPercent: tier.Discount,
			Badges:          badges,
		}
		if b, ok := brokerByID[a.UserID]; ok {
			entry.Name = b.Name
			entry.AvatarURL = b.AvatarURL
		}
		board.Entries = append(board.Entries, entry)
	}

	if g.cacheEnabled {
		utils.CacheSetJSON(cacheKey, board, time.Minute)
	}
	return board, nil
}

// GetRules exposes the rule catalogue for UI display.
func (g *Gamification) GetRules() ([]models.RuleDefinition, error) {
	var rules []models.RuleDefinition
	if err := g.db.Where("active = ?", true).Order("points DESC").Find(&rules).Error; err != nil {
		return nil, storeErr("load rule catalogue", err)
	}
	return rules, nil
}

// GetBadges exposes the badge catalogue for UI display.
func (g *Gamification) GetBadges() ([]models.BadgeDefinition, error) {
	var badges []models.BadgeDefinition
	if err := g.db.Order("priority ASC").Find(&badges).Error; err != nil {
		return nil, storeErr("load badge catalogue", err)
	}
	return badges, nil
}
