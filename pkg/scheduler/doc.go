// Package scheduler runs periodic background jobs on a cron schedule.
//
// The serve command uses it to refresh the catalog size gauges:
//
//	s := scheduler.New("catalog.stats", cfg.Server.StatsSchedule, refresh, logger)
//	if err := s.Start(ctx); err != nil {
//		return err
//	}
//	defer s.Stop()
package scheduler
