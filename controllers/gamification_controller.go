package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Robsonrmaia/conectaios-sub003/services"
	"github.com/Robsonrmaia/conectaios-sub003/utils"
)

// GamificationController exposes the points engine over a single RPC-style
// endpoint: one operation per request, discriminated by the action field.
type GamificationController struct {
	svc *services.Gamification
}

// NewGamificationController creates a new controller instance.
func NewGamificationController(svc *services.Gamification) *GamificationController {
	return &GamificationController{svc: svc}
}

// eventRequest is the wire shape shared by every action. Field names match
// the platform's existing client (Portuguese keys included).
type eventRequest struct {
	Action    string         `json:"action"`
	UsuarioID string         `json:"usuario_id"`
	RuleKey   string         `json:"rule_key"`
	Pontos    *int           `json:"pontos"`
	RefTipo   string         `json:"ref_tipo"`
	RefID     string         `json:"ref_id"`
	Meta      map[string]any `json:"meta"`
	// TargetMonth selects a past period for get_leaderboard, format "2006-01".
	TargetMonth string `json:"target_month"`
}

// HandleEvent dispatches a gamification action.
func (g *GamificationController) HandleEvent(ctx *gin.Context) {
	var req eventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request body")
		return
	}

	switch req.Action {
	case "add_points":
		g.addPoints(ctx, req)
	case "check_property_quality":
		g.checkPropertyQuality(ctx, req)
	case "process_match_response":
		g.processMatchResponse(ctx, req)
	case "process_property_sold":
		g.processPropertySold(ctx, req)
	case "add_social_interaction":
		g.addSocialInteraction(ctx, req)
	case "process_monthly_reset":
		g.processMonthlyReset(ctx)
	case "get_user_stats":
		g.userStats(ctx, req.UsuarioID)
	case "get_leaderboard":
		g.leaderboard(ctx, req.TargetMonth)
	default:
		utils.Error(ctx, http.StatusBadRequest, "unknown action")
	}
}

func (g *GamificationController) addPoints(ctx *gin.Context, req eventRequest) {
	if err := g.svc.AddPoints(req.UsuarioID, req.RuleKey, req.Pontos, req.RefTipo, req.RefID, req.Meta); err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{})
}

func (g *GamificationController) checkPropertyQuality(ctx *gin.Context, req eventRequest) {
	result, err := g.svc.CheckPropertyQuality(req.RefID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{
		"events_created": result.EventsCreated,
		"quality_score":  result.QualityScore,
	})
}

func (g *GamificationController) processMatchResponse(ctx *gin.Context, req eventRequest) {
	userID, _ := req.Meta["usuario_id"].(string)
	seconds, ok := metaInt64(req.Meta, "response_time_seconds")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, "meta.response_time_seconds is required")
		return
	}

	result, err := g.svc.ProcessMatchResponse(req.RefID, userID, seconds)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	if result.Rule == "" {
		utils.Success(ctx, gin.H{"message": "response time over 24h, no points awarded"})
		return
	}
	utils.Success(ctx, gin.H{
		"points_awarded": result.PointsAwarded,
		"rule":           result.Rule,
	})
}

func (g *GamificationController) processPropertySold(ctx *gin.Context, req eventRequest) {
	result, err := g.svc.ProcessPropertySold(req.RefID, req.UsuarioID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	if result.AlreadyAwarded {
		utils.Success(ctx, gin.H{
			"points_awarded": 0,
			"message":        "sale already awarded for this property",
		})
		return
	}
	utils.Success(ctx, gin.H{"points_awarded": result.PointsAwarded})
}

func (g *GamificationController) addSocialInteraction(ctx *gin.Context, req eventRequest) {
	interactionType, _ := req.Meta["interaction_type"].(string)
	result, err := g.svc.AddSocialInteraction(req.UsuarioID, interactionType, req.RefID, req.Meta)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{
		"points_awarded":   result.PointsAwarded,
		"interaction_type": result.InteractionType,
	})
}

func (g *GamificationController) processMonthlyReset(ctx *gin.Context) {
	summary, err := g.svc.ProcessMonthlyReset()
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{
		"year":              summary.Year,
		"month":             summary.Month,
		"users_processed":   summary.UsersProcessed,
		"champion_id":       summary.ChampionID,
		"already_processed": summary.AlreadyProcessed,
	})
}

func (g *GamificationController) userStats(ctx *gin.Context, userID string) {
	stats, err := g.svc.GetUserStats(userID)
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

func (g *GamificationController) leaderboard(ctx *gin.Context, targetMonth string) {
	board, err := loadLeaderboard(g.svc, targetMonth)
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

// loadLeaderboard resolves an optional "2006-01" period selector, defaulting
// to the current month.
func loadLeaderboard(svc *services.Gamification, targetMonth string) (*services.Leaderboard, error) {
	if targetMonth == "" {
		return svc.GetLeaderboard()
	}
	period, err := time.Parse("2006-01", targetMonth)
	if err != nil {
		return nil, &services.ValidationError{Message: "target_month must use the format YYYY-MM"}
	}
	return svc.GetLeaderboardFor(period.Year(), int(period.Month()))
}

// metaInt64 reads a numeric meta field; JSON numbers decode as float64.
func metaInt64(meta map[string]any, key string) (int64, bool) {
	v, ok := meta[key]
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return int64(t), true
	case int:
		return int64(t), true
	case int64:
		return t, true
	default:
		return 0, false
	}
}

// respondServiceError maps engine errors onto the HTTP taxonomy.
func respondServiceError(ctx *gin.Context, err error) {
	var (
		vErr  *services.ValidationError
		nfErr *services.NotFoundError
		rlErr *services.RateLimitError
	)
	switch {
	case errors.As(err, &vErr):
		utils.Error(ctx, http.StatusBadRequest, vErr.Message)
	case errors.As(err, &nfErr):
		utils.Error(ctx, http.StatusNotFound, nfErr.Message)
	case errors.As(err, &rlErr):
		utils.Error(ctx, http.StatusTooManyRequests, rlErr.Message)
	default:
		if utils.Sugar != nil {
			utils.Sugar.Errorf("gamification request failed: %v", err)
		}
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
	}
}
