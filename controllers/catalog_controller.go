package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/Robsonrmaia/conectaios-sub003/services"
	"github.com/Robsonrmaia/conectaios-sub003/utils"
)

// CatalogController serves the public read-only projections: leaderboard,
// per-user stats, and the rule/badge catalogues the UI renders.
type CatalogController struct {
	svc *services.Gamification
}

// NewCatalogController creates a new controller instance.
func NewCatalogController(svc *services.Gamification) *CatalogController {
	return &CatalogController{svc: svc}
}

// GetLeaderboard returns the top entries for the current month, or for the
// period named by the optional month=YYYY-MM query parameter.
func (c *CatalogController) GetLeaderboard(ctx *gin.Context) {
	board, err := loadLeaderboard(c.svc, ctx.Query("month"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{
		"leaderboard": board.Entries,
		"month":       board.Month,
		"year":        board.Year,
	})
}

// GetUserStats returns the month summary, recent events, and rank for a user.
func (c *CatalogController) GetUserStats(ctx *gin.Context) {
	stats, err := c.svc.GetUserStats(ctx.Param("usuario_id"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{
		"monthly_data":        stats.MonthlyData,
		"tier_progress":       stats.TierProgress,
		"points_to_next_tier": stats.PointsToNext,
		"next_tier":           stats.NextTier,
		"recent_events":       stats.RecentEvents,
		"current_rank":        stats.CurrentRank,
		"total_users":         stats.TotalUsers,
	})
}

// GetRules returns the active rule catalogue.
func (c *CatalogController) GetRules(ctx *gin.Context) {
	rules, err := c.svc.GetRules()
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"rules": rules})
}

// GetBadges returns the badge catalogue ordered by priority.
func (c *CatalogController) GetBadges(ctx *gin.Context) {
	badges, err := c.svc.GetBadges()
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"badges": badges})
}
