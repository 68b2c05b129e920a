// services/scheduler.go
package services

import (
	"context"
	"log"
	"time"

	"life-quest-system/models"

	"github.com/go-co-op/gocron/v2"
)

// StartRefreshScheduler sweeps recently-active profiles shortly after each
// UTC midnight so stale daily content is rebuilt off the request path. The
// per-request refresh still runs; the sweep just keeps dashboards warm.
func (s *RefreshService) StartRefreshScheduler() {
	sched, _ := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 5, 0))),
		gocron.NewTask(func() {
			now := time.Now().UTC()
			cutoff := now.AddDate(0, 0, -7)

			var profiles []models.UserProfile
			err := s.DB.Where("updated_at >= ?", cutoff).Find(&profiles).Error
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}

			for _, p := range profiles {
				if _, err := s.RefreshProfile(context.Background(), p.ExternalUserID, now); err != nil {
					log.Printf("[Scheduler] Failed to refresh %s: %v", p.ExternalUserID, err)
				}
			}
			log.Printf("[Scheduler] Nightly refresh swept %d profiles", len(profiles))
		}),
	)
}
