package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Robsonrmaia/conectaios-sub003/models"
	"github.com/Robsonrmaia/conectaios-sub003/utils"
)

// BadgeChampion is awarded to the finalized month's top scorer.
const BadgeChampion = "campeao_do_mes"

// ResetSummary describes what a monthly reset run did (or found already done).
type ResetSummary struct {
	Year             int    `json:"year"`
	Month            int    `json:"month"`
	UsersProcessed   int    `json:"users_processed"`
	ChampionID       string `json:"champion_id,omitempty"`
	AlreadyProcessed bool   `json:"already_processed"`
}

// ProcessMonthlyReset finalizes the previous calendar month: recomputes every
// aggregate's tier from its final point total, awards the champion badge and
// tier badges, and records the period in monthly_resets. The unique period row
// makes the operation idempotent; repeat calls return the stored summary. New
// month aggregates are created lazily at zero, so nothing is zeroed here and
// history survives intact.
func (g *Gamification) ProcessMonthlyReset() (*ResetSummary, error) {
	now := g.now().UTC()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	prev := firstOfMonth.AddDate(0, -1, 0)
	year, month := prev.Year(), int(prev.Month())

	var done models.MonthlyReset
	err := g.db.Where("year = ? AND month = ?", year, month).First(&done).Error
	if err == nil {
		return &ResetSummary{
			Year:             done.Year,
			Month:            done.Month,
			UsersProcessed:   done.UsersProcessed,
			ChampionID:       done.ChampionID,
			AlreadyProcessed: true,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeErr("load monthly reset record", err)
	}

	summary := &ResetSummary{Year: year, Month: month}

	err = g.db.Transaction(func(tx *gorm.DB) error {
		var aggs []models.MonthlyAggregate
		if err := tx.Where("year = ? AND month = ?", year, month).
			Order("points DESC, updated_at ASC").
			Find(&aggs).Error; err != nil {
			return err
		}

		for i := range aggs {
			agg := &aggs[i]
			tier := TierFor(agg.Points)
			badges := agg.Badges

			if i == 0 && agg.Points > 0 {
				badges = append(badges, BadgeChampion)
				summary.ChampionID = agg.UserID
			}
			if tier.BadgeSlug != "" {
				badges = append(badges, tier.BadgeSlug)
			}

			update := models.MonthlyAggregate{
				Tier:            tier.Name,
				DiscountPercent: tier.Discount,
				Badges:          utils.UniqueStrings(badges),
			}
			if err := tx.Model(&models.MonthlyAggregate{}).
				Where("id = ?", agg.ID).
				Select("tier", "discount_percent", "badges").
				Updates(update).Error; err != nil {
				return err
			}
			summary.UsersProcessed++
		}

		record := models.MonthlyReset{
			Year:           year,
			Month:          month,
			UsersProcessed: summary.UsersProcessed,
			ChampionID:     summary.ChampionID,
			ProcessedAt:    now,
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "year"}, {Name: "month"}},
			DoNothing: true,
		}).Create(&record)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// A concurrent run finalized this period first; abandon our pass.
			return gorm.ErrDuplicatedKey
		}
		return nil
	})

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		var winner models.MonthlyReset
		if lerr := g.db.Where("year = ? AND month = ?", year, month).First(&winner).Error; lerr == nil {
			return &ResetSummary{
				Year:             winner.Year,
				Month:            winner.Month,
				UsersProcessed:   winner.UsersProcessed,
				ChampionID:       winner.ChampionID,
				AlreadyProcessed: true,
			}, nil
		}
		return nil, storeErr("reload monthly reset record", err)
	}
	if err != nil {
		return nil, storeErr("process monthly reset", err)
	}

	g.invalidateLeaderboard()
	return summary, nil
}
