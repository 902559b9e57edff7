package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Robsonrmaia/conectaios-sub003/models"
	"github.com/Robsonrmaia/conectaios-sub003/utils"
)

const leaderboardCachePrefix = "gamification:leaderboard:"

// Options tunes a Gamification engine. Zero values fall back to defaults.
type Options struct {
	SocialDailyLimit  int
	LeaderboardSize   int
	RecentEventsLimit int
	// Now overrides the clock, mainly for tests.
	Now func() time.Time
	// DisableCache skips the Redis leaderboard cache entirely.
	DisableCache bool
}

// Gamification is the points ledger and rule engine: it turns domain actions
// into immutable PointsEvent rows and keeps the per-user monthly aggregates
// (points, tier, discount, badges) consistent with them.
type Gamification struct {
	db                *gorm.DB
	socialDailyLimit  int
	leaderboardSize   int
	recentEventsLimit int
	now               func() time.Time
	cacheEnabled      bool
}

// NewGamification creates an engine bound to the given database.
func NewGamification(db *gorm.DB, opts Options) *Gamification {
	g := &Gamification{
		db:                db,
		socialDailyLimit:  opts.SocialDailyLimit,
		leaderboardSize:   opts.LeaderboardSize,
		recentEventsLimit: opts.RecentEventsLimit,
		now:               opts.Now,
		cacheEnabled:      !opts.DisableCache,
	}
	if g.socialDailyLimit <= 0 {
		g.socialDailyLimit = 10
	}
	if g.leaderboardSize <= 0 {
		g.leaderboardSize = 10
	}
	if g.recentEventsLimit <= 0 {
		g.recentEventsLimit = 10
	}
	if g.now == nil {
		g.now = time.Now
	}
	return g
}

// AddPoints is the primitive operation: append a PointsEvent and atomically
// add its points to the current month's aggregate, then recompute tier and
// discount. Safe under concurrent calls for the same user: the aggregate
// update is an insert-or-increment at the database, never a read-modify-write.
func (g *Gamification) AddPoints(userID, ruleKey string, points *int, refType, refID string, metadata map[string]any) error {
	if userID == "" {
		return &ValidationError{Message: "usuario_id is required"}
	}
	if ruleKey == "" {
		return &ValidationError{Message: "rule_key is required"}
	}
	if points == nil {
		return &ValidationError{Message: "pontos is required"}
	}
	return g.appendEvent(userID, RuleKey(ruleKey), *points, refType, refID, metadata)
}

// appendEvent inserts the ledger row and updates the aggregate in one
// transaction so a crash cannot leave an event without its increment.
func (g *Gamification) appendEvent(userID string, rule RuleKey, points int, refType, refID string, metadata map[string]any) error {
	if metadata != nil {
		metadata = utils.SanitizeMetadata(metadata)
	}
	now := g.now().UTC()
	year, month := now.Year(), int(now.Month())

	err := g.db.Transaction(func(tx *gorm.DB) error {
		event := models.PointsEvent{
			UserID:    userID,
			RuleKey:   string(rule),
			Points:    points,
			RefType:   refType,
			RefID:     refID,
			Metadata:  metadata,
			CreatedAt: now,
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		tier := TierFor(points)
		agg := models.MonthlyAggregate{
			UserID:          userID,
			Year:            year,
			Month:           month,
			Points:          points,
			Tier:            tier.Name,
			DiscountPercent: tier.Discount,
			Badges:          []string{},
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "year"}, {Name: "month"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"points":     gorm.Expr("points + ?", points),
				"updated_at": now,
			}),
		}).Create(&agg).Error; err != nil {
			return err
		}

		// Re-derive tier/discount from the post-increment total.
		var current models.MonthlyAggregate
		if err := tx.Where("user_id = ? AND year = ? AND month = ?", userID, year, month).
			First(&current).Error; err != nil {
			return err
		}
		tier = TierFor(current.Points)
		return tx.Model(&models.MonthlyAggregate{}).
			Where("id = ?", current.ID).
			Updates(map[string]interface{}{
				"tier":             tier.Name,
				"discount_percent": tier.Discount,
			}).Error
	})
	if err != nil {
		return storeErr("append points event", err)
	}

	g.invalidateLeaderboard()
	return nil
}

// QualityCheckResult reports what CheckPropertyQuality awarded.
type QualityCheckResult struct {
	EventsCreated int `json:"events_created"`
	QualityScore  int `json:"quality_score"`
}

// CheckPropertyQuality consults the quality-scoring collaborator's record for
// the property and independently awards the 90%-quality and 8-photos rules.
func (g *Gamification) CheckPropertyQuality(propertyID string) (*QualityCheckResult, error) {
	if propertyID == "" {
		return nil, &ValidationError{Message: "ref_id (property id) is required"}
	}

	var quality models.PropertyQuality
	if err := g.db.Where("property_id = ?", propertyID).First(&quality).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "property quality record not found"}
		}
		return nil, storeErr("load property quality", err)
	}

	result := &QualityCheckResult{QualityScore: quality.QualityScore}

	if quality.QualityScore >= 90 {
		if err := g.appendEvent(quality.UserID, RuleQuality90, rulePoints(RuleQuality90), "property", propertyID, nil); err != nil {
			return nil, err
		}
		result.EventsCreated++
	}
	if quality.Has8Photos {
		if err := g.appendEvent(quality.UserID, RuleEightPhotos, rulePoints(RuleEightPhotos), "property", propertyID, nil); err != nil {
			return nil, err
		}
		result.EventsCreated++
	}
	return result, nil
}

// MatchResponseResult reports which bucket a match response landed in.
// Rule is empty when the response came in past every bucket.
type MatchResponseResult struct {
	PointsAwarded int     `json:"points_awarded"`
	Rule          RuleKey `json:"rule,omitempty"`
}

// ProcessMatchResponse applies the tiered response-time rule. Buckets are
// checked ascending with inclusive upper bounds, so the first match wins.
func (g *Gamification) ProcessMatchResponse(matchID, userID string, responseTimeSeconds int64) (*MatchResponseResult, error) {
	if matchID == "" {
		return nil, &ValidationError{Message: "ref_id (match id) is required"}
	}
	if userID == "" {
		return nil, &ValidationError{Message: "meta.usuario_id is required"}
	}
	if responseTimeSeconds < 0 {
		return nil, &ValidationError{Message: "meta.response_time_seconds must be non-negative"}
	}

	var rule RuleKey
	switch {
	case responseTimeSeconds <= 3600:
		rule = RuleMatch1h
	case responseTimeSeconds <= 43200:
		rule = RuleMatch12h
	case responseTimeSeconds <= 86400:
		rule = RuleMatch24h
	default:
		// Too slow for any bucket: success, no event.
		return &MatchResponseResult{}, nil
	}

	points := rulePoints(rule)
	meta := map[string]any{"response_time_seconds": responseTimeSeconds}
	if err := g.appendEvent(userID, rule, points, "match", matchID, meta); err != nil {
		return nil, err
	}
	return &MatchResponseResult{PointsAwarded: points, Rule: rule}, nil
}

// SoldResult reports the outcome of a property-sold award.
type SoldResult struct {
	PointsAwarded  int  `json:"points_awarded"`
	AlreadyAwarded bool `json:"already_awarded"`
}

// ProcessPropertySold awards the sold/rented rule once per (user, property).
// A repeated call for the same property is answered as success with zero
// points instead of double-awarding.
func (g *Gamification) ProcessPropertySold(propertyID, userID string) (*SoldResult, error) {
	if propertyID == "" {
		return nil, &ValidationError{Message: "ref_id (property id) is required"}
	}
	if userID == "" {
		return nil, &ValidationError{Message: "usuario_id is required"}
	}

	var existing int64
	if err := g.db.Model(&models.PointsEvent{}).
		Where("user_id = ? AND rule_key = ? AND ref_id = ?", userID, string(RuleSoldOrRented), propertyID).
		Count(&existing).Error; err != nil {
		return nil, storeErr("check sold award", err)
	}
	if existing > 0 {
		return &SoldResult{AlreadyAwarded: true}, nil
	}

	points := rulePoints(RuleSoldOrRented)
	if err := g.appendEvent(userID, RuleSoldOrRented, points, "property", propertyID, nil); err != nil {
		return nil, err
	}
	return &SoldResult{PointsAwarded: points}, nil
}

// SocialResult reports the outcome of a social interaction award.
type SocialResult struct {
	PointsAwarded   int     `json:"points_awarded"`
	Rule            RuleKey `json:"rule"`
	InteractionType string  `json:"interaction_type"`
}

// AddSocialInteraction maps the interaction type to its rule and enforces the
// per-user daily cap across both social rule keys (UTC calendar day). The
// count-then-insert check is best effort under concurrency, as the cap is a
// soft abuse limit rather than a hard guarantee.
func (g *Gamification) AddSocialInteraction(userID, interactionType, refID string, metadata map[string]any) (*SocialResult, error) {
	if userID == "" {
		return nil, &ValidationError{Message: "usuario_id is required"}
	}

	var rule RuleKey
	switch interactionType {
	case "share":
		rule = RuleSocialShare
	case "like", "comment":
		rule = RuleSocialLike
	default:
		return nil, &ValidationError{Message: fmt.Sprintf("invalid interaction_type: %q", interactionType)}
	}

	now := g.now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	var today int64
	if err := g.db.Model(&models.PointsEvent{}).
		Where("user_id = ? AND rule_key IN ? AND created_at >= ? AND created_at < ?",
			userID, socialRuleKeys, dayStart, dayEnd).
		Count(&today).Error; err != nil {
		return nil, storeErr("count social interactions", err)
	}
	if today >= int64(g.socialDailyLimit) {
		return nil, &RateLimitError{Message: fmt.Sprintf("daily social interaction limit of %d reached", g.socialDailyLimit)}
	}

	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata["interaction_type"] = interactionType

	points := rulePoints(rule)
	if err := g.appendEvent(userID, rule, points, "social", refID, metadata); err != nil {
		return nil, err
	}
	return &SocialResult{PointsAwarded: points, Rule: rule, InteractionType: interactionType}, nil
}

func (g *Gamification) invalidateLeaderboard() {
	if !g.cacheEnabled {
		return
	}
	utils.InvalidateByPrefix(leaderboardCachePrefix)
}
