package services

import (
	"time"

	"github.com/Robsonrmaia/conectaios-sub003/utils"
)

// StartResetScheduler launches a background goroutine that periodically runs
// the monthly reset. Because ProcessMonthlyReset is idempotent by period, it
// is safe to call on every tick and across multiple instances; only the first
// run after a month boundary does any work.
func StartResetScheduler(g *Gamification, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		for {
			// Sleep first to avoid racing immediately at startup
			time.Sleep(interval)
			summary, err := g.ProcessMonthlyReset()
			if err != nil {
				utils.Sugar.Errorf("monthly reset failed: %v", err)
				continue
			}
			if !summary.AlreadyProcessed {
				utils.Sugar.Infof("monthly reset finalized %04d-%02d: users=%d champion=%s",
					summary.Year, summary.Month, summary.UsersProcessed, summary.ChampionID)
			}
		}
	}()
}
