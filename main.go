package main

import (
	"time"

	"github.com/Robsonrmaia/conectaios-sub003/config"
	"github.com/Robsonrmaia/conectaios-sub003/models"
	"github.com/Robsonrmaia/conectaios-sub003/routes"
	"github.com/Robsonrmaia/conectaios-sub003/services"
	"github.com/Robsonrmaia/conectaios-sub003/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.PointsEvent{},
		&models.MonthlyAggregate{},
		&models.RuleDefinition{},
		&models.BadgeDefinition{},
		&models.Broker{},
		&models.PropertyQuality{},
		&models.MonthlyReset{},
	)

	if err := services.SeedCatalogues(db); err != nil {
		utils.Sugar.Fatalf("failed to seed catalogues: %v", err)
	}

	svc := services.NewGamification(db, services.Options{
		SocialDailyLimit:  cfg.SocialDailyLimit,
		LeaderboardSize:   cfg.LeaderboardSize,
		RecentEventsLimit: cfg.RecentEventsLimit,
	})

	r := routes.SetupRouter(db, svc)

	// Finalize past months in the background (idempotent per period)
	services.StartResetScheduler(svc, time.Duration(cfg.ResetCheckMinutes)*time.Minute)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
