package convert

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"tickbars/internal/slogx"
)

type errorEntry struct {
	Instrument string
	Day        string
	Err        error
}

// fanIn serializes worker output for one run: log lines go to out in arrival
// order, failures are logged once by a single reader.
type fanIn struct {
	logger  *slog.Logger
	lines   chan string
	errs    chan errorEntry
	linesWg sync.WaitGroup
	errsWg  sync.WaitGroup
}

func newFanIn(out io.Writer) *fanIn {
	f := &fanIn{
		lines: make(chan string, 2048),
		errs:  make(chan errorEntry, 64),
	}
	f.logger = slogx.NewChanLogger(f.lines)
	f.linesWg.Add(1)
	go func() {
		defer f.linesWg.Done()
		for s := range f.lines {
			fmt.Fprintln(out, s)
		}
	}()
	f.errsWg.Add(1)
	go func() {
		defer f.errsWg.Done()
		for e := range f.errs {
			f.logger.Error("convert error", "instrument", e.Instrument, "day", e.Day, "error", e.Err)
		}
	}()
	return f
}

// reportError never blocks a worker; the job result still carries the reason.
func (f *fanIn) reportError(e errorEntry) {
	select {
	case f.errs <- e:
	default:
	}
}

// close must run after every writer is done. The error reader logs through
// lines, so errs drains before lines closes.
func (f *fanIn) close() {
	close(f.errs)
	f.errsWg.Wait()
	close(f.lines)
	f.linesWg.Wait()
}

// tally accumulates job results; the collector writes, heartbeat reads.
type tally struct {
	mu      sync.Mutex
	total   int
	sum     Summary
	perInst map[string]int
}

func newTally(total int) *tally {
	return &tally{total: total, perInst: make(map[string]int)}
}

func (t *tally) record(r JobResult) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !r.Ok {
		t.sum.Failed++
		t.sum.FailedList = append(t.sum.FailedList, failedEntry{Instrument: r.Instrument, Day: r.Day, Reason: r.Reason})
		return
	}
	t.sum.Success++
	t.sum.Bars += r.Bars
	t.sum.SuccessList = appendSuccess(t.sum.SuccessList, r.Instrument)
	t.perInst[r.Instrument] += r.Bars
}

func (t *tally) collect(results <-chan JobResult) {
	for r := range results {
		t.record(r)
	}
}

func (t *tally) snapshot() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sum
}

func (t *tally) barsByInstrument() map[string]int {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]int, len(t.perInst))
	for k, v := range t.perInst {
		out[k] = v
	}
	return out
}

func (t *tally) heartbeat(ctx context.Context, every time.Duration, logger *slog.Logger) {
	if every <= 0 {
		return
	}
	tk := time.NewTicker(every)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			s := t.snapshot()
			logger.Info("heartbeat", "done", s.Success+s.Failed, "total", t.total,
				"success", s.Success, "failed", s.Failed, "bars", s.Bars)
		}
	}
}
