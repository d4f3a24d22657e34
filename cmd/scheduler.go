package main

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"soravault/internal/metrics"
	"soravault/internal/timeutil"
)

const (
	jobMarketRefresh = "market_refresh"
	jobImageBackfill = "image_backfill"
)

// startScheduler registers the background jobs and starts cron. An empty
// schedule leaves that job out. The returned cron must be stopped on shutdown.
func (app *application) startScheduler(ctx context.Context) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(timeutil.Location()))
	sc := app.cfg.Scheduler

	jobs := []struct {
		name     string
		schedule string
		run      func(ctx context.Context) (int, error)
	}{
		{jobMarketRefresh, sc.MarketRefresh, func(ctx context.Context) (int, error) {
			return app.aiService.RefreshValues(ctx, sc.StaleAfter, sc.BatchSize)
		}},
		{jobImageBackfill, sc.ImageBackfill, func(ctx context.Context) (int, error) {
			report, err := app.aiService.BackfillImages(ctx, sc.BatchSize)
			return len(report.Generated), err
		}},
	}

	for _, job := range jobs {
		if job.schedule == "" {
			app.logger.Info("scheduler job disabled", "job", job.name)
			continue
		}
		job := job
		if _, err := c.AddFunc(job.schedule, func() { app.runJob(ctx, job.name, job.run) }); err != nil {
			return nil, fmt.Errorf("schedule %s %q: %w", job.name, job.schedule, err)
		}
		app.logger.Info("scheduler job registered", "job", job.name, "schedule", job.schedule)
	}

	c.Start()
	return c, nil
}

func (app *application) runJob(ctx context.Context, name string, run func(ctx context.Context) (int, error)) {
	timeout := app.cfg.Scheduler.JobTimeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	n, err := run(runCtx)
	metrics.RecordJob(name, err == nil)
	if err != nil {
		app.logger.Error("scheduler job failed", "job", name, "processed", n, "error", err)
		return
	}
	app.logger.Info("scheduler job finished", "job", name, "processed", n, "duration", time.Since(start))
}
