package application

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// StartPurge schedules the removal of expired documents on cfg.PurgeSchedule.
// The returned scheduler must be stopped by the caller.
func (a *Application) StartPurge() (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(a.Config.PurgeSchedule, a.purge)
	if err != nil {
		return nil, fmt.Errorf("scheduling purge %q: %w", a.Config.PurgeSchedule, err)
	}
	c.Start()

	a.Logger.Info("Purge scheduled", "schedule", a.Config.PurgeSchedule)
	return c, nil
}

func (a *Application) purge() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := a.CVService.PurgeExpired(ctx); err != nil {
		a.Logger.Error("Purge failed", "error", err)
	}
}
