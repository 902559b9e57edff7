package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Robsonrmaia/conectaios-sub003/models"
)

var testDBSeq atomic.Int64

// testClock is an adjustable clock injected into the engine.
type testClock struct {
	current time.Time
}

func (c *testClock) Now() time.Time          { return c.current }
func (c *testClock) Advance(d time.Duration) { c.current = c.current.Add(d) }
func (c *testClock) Set(t time.Time)         { c.current = t }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:gamify_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Single connection keeps the shared in-memory database alive and
	// serializes writes, which sqlite requires anyway.
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
	require.NoError(t, SeedCatalogues(db))
	return db
}

func newTestEngine(t *testing.T) (*Gamification, *testClock, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	clock := &testClock{current: time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)}
	g := NewGamification(db, Options{
		Now:          clock.Now,
		DisableCache: true,
	})
	return g, clock, db
}

func intp(v int) *int { return &v }

func eventCount(t *testing.T, db *gorm.DB, userID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.PointsEvent{}).Where("user_id = ?", userID).Count(&n).Error)
	return n
}

func loadAggregate(t *testing.T, db *gorm.DB, userID string, year, month int) models.MonthlyAggregate {
	t.Helper()
	var agg models.MonthlyAggregate
	require.NoError(t, db.Where("user_id = ? AND year = ? AND month = ?", userID, year, month).First(&agg).Error)
	return agg
}
