// Package convert runs tick-file to bar conversion over a directory of
// instrument-day files with a pool of workers.
package convert

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Options configures one conversion run.
type Options struct {
	TickDir      string
	OutDir       string
	ProgressPath string
	MetricsPath  string
	Workers      int
	Heartbeat    time.Duration
}

// Summary is the outcome of RunParallel.
type Summary struct {
	Success     int
	Failed      int
	Bars        int
	SuccessList []string
	FailedList  []failedEntry
}

// RunOneConvert runs one conversion cycle in parallel mode, sends done when finished.
func RunOneConvert(
	ctx context.Context,
	conv *Converter,
	opts Options,
	metrics *Metrics,
	progressUpdates chan<- ProgressUpdate,
	done chan<- Done,
) {
	defer func() { done <- Done{} }()

	runID := uuid.NewString()
	jobs, err := DiscoverJobs(opts.TickDir, opts.ProgressPath)
	if err != nil {
		slog.Error("discover jobs", "run_id", runID, "error", err)
		return
	}
	if len(jobs) == 0 {
		slog.Info("no jobs to convert, skip", "run_id", runID)
		return
	}
	slog.Info("jobs to convert", "run_id", runID, "jobs", len(jobs), "workers", opts.Workers)

	sum := RunParallel(ctx, conv, jobs, opts.Workers, opts.Heartbeat, metrics, progressUpdates)
	slog.Info("convert done", "run_id", runID, "success", sum.Success, "failed", sum.Failed, "bars", sum.Bars)

	if len(sum.SuccessList) > 0 || len(sum.FailedList) > 0 {
		if err := writeRunReport(opts.OutDir, runID, sum.SuccessList, sum.FailedList); err != nil {
			slog.Warn("could not write run report", "error", err)
		}
	}
	if metrics != nil && opts.MetricsPath != "" {
		metrics.LastRun.SetToCurrentTime()
		if err := metrics.WriteTextfile(opts.MetricsPath); err != nil {
			slog.Warn("could not write metrics", "path", opts.MetricsPath, "error", err)
		}
	}
}

// RunParallel converts jobs with N workers. Each job is an independent
// decode+aggregate pipeline; a bad file fails its job only. Cancelling ctx
// stops workers between jobs.
func RunParallel(
	ctx context.Context,
	conv *Converter,
	jobs []Job,
	workers int,
	heartbeat time.Duration,
	metrics *Metrics,
	progressUpdates chan<- ProgressUpdate,
) Summary {
	workers = max(workers, 1)

	out := newFanIn(os.Stdout)
	prevLog := conv.LogFunc
	conv.LogFunc = func(msg string) { out.logger.Info(msg) }
	defer func() {
		conv.LogFunc = prevLog
		out.close()
	}()

	pending := make(chan Job, len(jobs))
	for _, j := range jobs {
		pending <- j
	}
	close(pending)

	t := newTally(len(jobs))
	results := make(chan JobResult, len(jobs))
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		t.collect(results)
	}()

	hbCtx, stopHeartbeat := context.WithCancel(ctx)
	defer stopHeartbeat()
	hbDone := make(chan struct{})
	go func() {
		defer close(hbDone)
		t.heartbeat(hbCtx, heartbeat, out.logger)
	}()

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range pending {
				if ctx.Err() != nil {
					return
				}
				results <- runJob(conv, job, metrics, out, progressUpdates)
			}
		}()
	}
	wg.Wait()
	close(results)
	<-collected
	stopHeartbeat()
	<-hbDone

	sum := t.snapshot()
	logSummary(out.logger, sum, t.barsByInstrument())
	return sum
}

func logSummary(logger *slog.Logger, sum Summary, perInst map[string]int) {
	logger.Info("summary", "total_bars", sum.Bars, "success", sum.Success, "failed", sum.Failed)
	instruments := make([]string, 0, len(perInst))
	for k := range perInst {
		instruments = append(instruments, k)
	}
	sort.Strings(instruments)
	for _, k := range instruments {
		logger.Info("summary instrument", "instrument", k, "bars", perInst[k])
	}
	if len(sum.FailedList) > 0 {
		logger.Info("summary failed", "count", len(sum.FailedList), "reasons", joinFailedReasons(sum.FailedList))
	}
}

func runJob(conv *Converter, job Job, metrics *Metrics, out *fanIn, progressUpdates chan<- ProgressUpdate) JobResult {
	logger := out.logger
	day := job.DayString()
	start := time.Now()
	ticks, bars, err := conv.Convert(job)
	if metrics != nil {
		metrics.Duration.Observe(time.Since(start).Seconds())
		metrics.Ticks.Add(float64(ticks))
		metrics.Bars.Add(float64(bars))
	}
	if err != nil {
		if metrics != nil {
			metrics.Files.WithLabelValues("failed").Inc()
		}
		out.reportError(errorEntry{Instrument: job.Instrument, Day: day, Err: err})
		return JobResult{Ok: false, Instrument: job.Instrument, Day: day, Reason: err.Error()}
	}
	if metrics != nil {
		metrics.Files.WithLabelValues("ok").Inc()
	}
	logger.Info("convert ok", "instrument", job.Instrument, "day", day, "ticks", ticks, "bars", bars)
	if progressUpdates != nil {
		select {
		case progressUpdates <- ProgressUpdate{Instrument: job.Instrument, Day: day}:
		default:
			logger.Warn("progress channel full, skip update", "instrument", job.Instrument)
		}
	}
	return JobResult{Ok: true, Instrument: job.Instrument, Day: day, Ticks: ticks, Bars: bars}
}
