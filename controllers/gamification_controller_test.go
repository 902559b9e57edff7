package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Robsonrmaia/conectaios-sub003/config"
	"github.com/Robsonrmaia/conectaios-sub003/models"
	"github.com/Robsonrmaia/conectaios-sub003/routes"
	"github.com/Robsonrmaia/conectaios-sub003/services"
	"github.com/Robsonrmaia/conectaios-sub003/utils"
)

var routerDBSeq atomic.Int64

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "controller-test-secret")
	os.Setenv("GIN_MODE", "test")
	os.Setenv("GIN_PATH", os.TempDir()+"/conectaios_gamify_test_gin.log")
	os.Setenv("RATE_LIMIT_PER_MINUTE", "6000")
	cfg := config.Load()
	_ = utils.InitLogger(cfg)
	os.Exit(m.Run())
}

func newRouter(t *testing.T, opts services.Options) (*gin.Engine, *gorm.DB, string) {
	t.Helper()

	dsn := fmt.Sprintf("file:gamify_ctl_test_%d?mode=memory&cache=shared", routerDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.PointsEvent{},
		&models.MonthlyAggregate{},
		&models.RuleDefinition{},
		&models.BadgeDefinition{},
		&models.Broker{},
		&models.PropertyQuality{},
		&models.MonthlyReset{},
	))
	require.NoError(t, services.SeedCatalogues(db))

	opts.DisableCache = true
	svc := services.NewGamification(db, opts)
	r := routes.SetupRouter(db, svc)

	token, err := utils.GenerateToken("svc-proxy", "service", time.Hour)
	require.NoError(t, err)
	return r, db, token
}

func postEvent(t *testing.T, r *gin.Engine, token string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/gamification/events", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestEventsEndpointRequiresAuth(t *testing.T) {
	r, _, _ := newRouter(t, services.Options{})
	w := postEvent(t, r, "", map[string]any{"action": "get_leaderboard"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEventsEndpointRejectsBadToken(t *testing.T) {
	r, _, _ := newRouter(t, services.Options{})
	w := postEvent(t, r, "not-a-jwt", map[string]any{"action": "get_leaderboard"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUnknownActionIs400(t *testing.T) {
	r, _, token := newRouter(t, services.Options{})
	w := postEvent(t, r, token, map[string]any{"action": "frobnicate"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "unknown action", body["error"])
}

func TestAddPointsValidation(t *testing.T) {
	r, _, token := newRouter(t, services.Options{})
	w := postEvent(t, r, token, map[string]any{
		"action":     "add_points",
		"usuario_id": "user-1",
		"rule_key":   "match_1h",
		// pontos missing
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddPointsAndStatsRoundTrip(t *testing.T) {
	r, _, token := newRouter(t, services.Options{})

	w := postEvent(t, r, token, map[string]any{
		"action":     "add_points",
		"usuario_id": "user-1",
		"rule_key":   "match_1h",
		"pontos":     10,
		"ref_tipo":   "match",
		"ref_id":     "m1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["success"])

	req := httptest.NewRequest(http.MethodGet, "/api/v1/gamification/users/user-1/stats", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	monthly := body["monthly_data"].(map[string]any)
	assert.EqualValues(t, 10, monthly["points"])
	assert.Equal(t, "Sem Desconto", monthly["tier"])
	assert.EqualValues(t, 1, body["current_rank"])
	assert.Len(t, body["recent_events"], 1)
}

func TestCheckPropertyQualityActions(t *testing.T) {
	r, db, token := newRouter(t, services.Options{})

	require.NoError(t, db.Create(&models.PropertyQuality{
		PropertyID: "prop-1", UserID: "user-1", QualityScore: 95, Has8Photos: true,
	}).Error)

	w := postEvent(t, r, token, map[string]any{
		"action": "check_property_quality",
		"ref_id": "prop-1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.EqualValues(t, 2, body["events_created"])
	assert.EqualValues(t, 95, body["quality_score"])

	w = postEvent(t, r, token, map[string]any{
		"action": "check_property_quality",
		"ref_id": "prop-unknown",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProcessMatchResponseAction(t *testing.T) {
	r, _, token := newRouter(t, services.Options{})

	w := postEvent(t, r, token, map[string]any{
		"action": "process_match_response",
		"ref_id": "match-1",
		"meta":   map[string]any{"usuario_id": "user-1", "response_time_seconds": 3600},
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.EqualValues(t, 10, body["points_awarded"])
	assert.Equal(t, "match_1h", body["rule"])

	// Over 24h: success with a message and no event.
	w = postEvent(t, r, token, map[string]any{
		"action": "process_match_response",
		"ref_id": "match-2",
		"meta":   map[string]any{"usuario_id": "user-1", "response_time_seconds": 86401},
	})
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["message"])
	assert.NotContains(t, body, "points_awarded")

	// Missing response time is a validation error.
	w = postEvent(t, r, token, map[string]any{
		"action": "process_match_response",
		"ref_id": "match-3",
		"meta":   map[string]any{"usuario_id": "user-1"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProcessPropertySoldAction(t *testing.T) {
	r, _, token := newRouter(t, services.Options{})

	w := postEvent(t, r, token, map[string]any{
		"action":     "process_property_sold",
		"ref_id":     "prop-1",
		"usuario_id": "user-1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 25, decodeBody(t, w)["points_awarded"])

	w = postEvent(t, r, token, map[string]any{
		"action":     "process_property_sold",
		"ref_id":     "prop-1",
		"usuario_id": "user-1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.EqualValues(t, 0, body["points_awarded"])
	assert.NotEmpty(t, body["message"])
}

func TestAddSocialInteractionActionAndRateLimit(t *testing.T) {
	r, _, token := newRouter(t, services.Options{SocialDailyLimit: 2})

	for i := 0; i < 2; i++ {
		w := postEvent(t, r, token, map[string]any{
			"action":     "add_social_interaction",
			"usuario_id": "user-1",
			"ref_id":     fmt.Sprintf("prop-%d", i),
			"meta":       map[string]any{"interaction_type": "like"},
		})
		require.Equal(t, http.StatusOK, w.Code)
		assert.EqualValues(t, 1, decodeBody(t, w)["points_awarded"])
	}

	w := postEvent(t, r, token, map[string]any{
		"action":     "add_social_interaction",
		"usuario_id": "user-1",
		"ref_id":     "prop-3",
		"meta":       map[string]any{"interaction_type": "share"},
	})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = postEvent(t, r, token, map[string]any{
		"action":     "add_social_interaction",
		"usuario_id": "user-2",
		"meta":       map[string]any{"interaction_type": "poke"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMonthlyResetAction(t *testing.T) {
	r, _, token := newRouter(t, services.Options{})

	w := postEvent(t, r, token, map[string]any{"action": "process_monthly_reset"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["already_processed"])

	w = postEvent(t, r, token, map[string]any{"action": "process_monthly_reset"})
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, true, body["already_processed"])
}

func TestLeaderboardEndpoint(t *testing.T) {
	r, db, token := newRouter(t, services.Options{})

	require.NoError(t, db.Create(&models.Broker{ID: "user-1", Name: "Ana", AvatarURL: "https://cdn.example/ana.png"}).Error)
	require.NoError(t, db.Create(&models.Broker{ID: "user-2", Name: "Bruno"}).Error)

	for user, pts := range map[string]int{"user-1": 40, "user-2": 90} {
		w := postEvent(t, r, token, map[string]any{
			"action":     "add_points",
			"usuario_id": user,
			"rule_key":   "bonus",
			"pontos":     pts,
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/gamification/leaderboard", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	entries := body["leaderboard"].([]any)
	require.Len(t, entries, 2)
	first := entries[0].(map[string]any)
	assert.Equal(t, "Bruno", first["name"])
	assert.EqualValues(t, 90, first["points"])
	assert.EqualValues(t, 1, first["rank"])
}

func TestLeaderboardTargetMonth(t *testing.T) {
	r, _, token := newRouter(t, services.Options{})

	w := postEvent(t, r, token, map[string]any{
		"action":     "add_points",
		"usuario_id": "user-1",
		"rule_key":   "bonus",
		"pontos":     10,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// A month with no activity yields an empty board.
	w = postEvent(t, r, token, map[string]any{
		"action":       "get_leaderboard",
		"target_month": "2020-01",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody(t, w)["leaderboard"])

	w = postEvent(t, r, token, map[string]any{
		"action":       "get_leaderboard",
		"target_month": "january",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/gamification/leaderboard?month=2020-01", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody(t, rec)["leaderboard"])
}

func TestCatalogueEndpoints(t *testing.T) {
	r, _, _ := newRouter(t, services.Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/gamification/rules", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["rules"], 8)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/gamification/badges", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["badges"], 4)
}

func TestHealthEndpoint(t *testing.T) {
	r, _, _ := newRouter(t, services.Options{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
