package app

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"tickbars/internal/convert"
)

const clockLayout = "2006-01-02 15:04"

// RunFlow runs one conversion; with WATCH it then sleeps until RUN_HOUR:RUN_MINUTE
// UTC and converts again. SIGINT/SIGTERM cancels the current run between jobs
// or ends the wait.
func RunFlow(cfg *Config, conv *convert.Converter, metrics *convert.Metrics) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	runFlow(ctx, cfg, conv, metrics, time.Now)
}

func runFlow(ctx context.Context, cfg *Config, conv *convert.Converter, metrics *convert.Metrics, now func() time.Time) {
	progressUpdates := make(chan convert.ProgressUpdate, 256)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		convert.RunProgressWriter(cfg.ProgressPath(), progressUpdates)
	}()
	defer func() {
		close(progressUpdates)
		<-writerDone
	}()

	opts := ConvertOptions(cfg)
	done := make(chan convert.Done, 1)
	for {
		convert.RunOneConvert(ctx, conv, opts, metrics, progressUpdates, done)
		<-done
		if ctx.Err() != nil {
			slog.Info("received signal, graceful shutdown")
			return
		}
		if !cfg.Watch {
			return
		}
		next := nextRunTime(cfg, now().UTC())
		slog.Info("done, wait until next run", "until", next.Format(clockLayout))
		if !waitUntil(ctx, next, now) {
			slog.Info("received signal, stopping", "restart_at", next.Format(clockLayout))
			return
		}
	}
}

// waitUntil blocks until at or until ctx ends, reporting whether at was reached.
func waitUntil(ctx context.Context, at time.Time, now func() time.Time) bool {
	d := at.Sub(now())
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// nextRunTime is the next RUN_HOUR:RUN_MINUTE UTC strictly after now.
func nextRunTime(cfg *Config, now time.Time) time.Time {
	at := time.Date(now.Year(), now.Month(), now.Day(), cfg.RunHour, cfg.RunMinute, 0, 0, time.UTC)
	if !now.Before(at) {
		at = at.AddDate(0, 0, 1)
	}
	return at
}
