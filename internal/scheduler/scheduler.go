// Package scheduler drives the periodic reconciliation jobs on cron
// cadences. Jobs are independent: a failed tick is logged and counted, and
// the next tick retries from current state.
package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/sorekai/livetrack/internal/config"
	"github.com/sorekai/livetrack/internal/logger"
	"github.com/sorekai/livetrack/internal/telemetry"
)

// Jobs is the set of reconciliation entry points the scheduler ticks.
// Satisfied by tracker.Service.
type Jobs interface {
	CheckNewVideos(ctx context.Context) error
	RefreshVideos(ctx context.Context) error
	UpdateChannels(ctx context.Context) error
}

// Scheduler owns the cron engine and the job registrations
type Scheduler struct {
	cron *cron.Cron
	jobs Jobs
}

// New registers the three jobs on their configured cadences. The cron
// expressions use a seconds field.
func New(cfg config.TrackerConfig, jobs Jobs) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		jobs: jobs,
	}

	registrations := []struct {
		name     string
		schedule string
		run      func(ctx context.Context) error
	}{
		{"discovery", cfg.DiscoverySchedule, jobs.CheckNewVideos},
		{"refresh", cfg.RefreshSchedule, jobs.RefreshVideos},
		{"channel_update", cfg.ChannelSchedule, jobs.UpdateChannels},
	}
	for _, reg := range registrations {
		if _, err := s.cron.AddFunc(reg.schedule, s.runJob(reg.name, reg.run)); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// runJob wraps a job with a run id, timing, logging and counters
func (s *Scheduler) runJob(name string, run func(ctx context.Context) error) func() {
	return func() {
		runID := uuid.New().String()
		start := time.Now()

		logger.Log.Debug().
			Str("job", name).
			Str("run_id", runID).
			Msg("Job tick started")

		err := run(context.Background())
		telemetry.CountJobRun(name, err)

		if err != nil {
			logger.Log.Error().
				Err(err).
				Str("job", name).
				Str("run_id", runID).
				Dur("duration", time.Since(start)).
				Msg("Job tick failed")
			return
		}

		logger.Log.Info().
			Str("job", name).
			Str("run_id", runID).
			Dur("duration", time.Since(start)).
			Msg("Job tick completed")
	}
}

// Start begins ticking jobs in the cron engine's own goroutines
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Log.Info().Msg("Scheduler started")
}

// Stop halts scheduling and waits for any in-flight job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Log.Info().Msg("Scheduler stopped")
}
