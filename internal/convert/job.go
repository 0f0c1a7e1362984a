package convert

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"tickbars/internal/feed"
)

// TickFileExt is the extension of decompressed tick files: {instrument}/{YYYY.MM.DD}.bin
const TickFileExt = ".bin"

// Job represents one conversion unit (instrument + day file)
type Job struct {
	Instrument string
	Day        time.Time
	Path       string
}

// DayString returns the job day in feed.DateLayout.
func (j Job) DayString() string {
	return j.Day.Format(feed.DateLayout)
}

// JobResult is sent by workers for fan-in
type JobResult struct {
	Ok         bool
	Instrument string
	Day        string
	Reason     string
	Ticks      int
	Bars       int
}

// Done signals run completion
type Done struct{}

// DiscoverJobs scans tickDir/{instrument}/{YYYY.MM.DD}.bin and returns the days
// not yet recorded as converted in progressPath, sorted by instrument then day.
func DiscoverJobs(tickDir, progressPath string) ([]Job, error) {
	entries, err := os.ReadDir(tickDir)
	if err != nil {
		return nil, fmt.Errorf("read tick dir: %w", err)
	}
	prog := loadProgress(progressPath)

	var jobs []Job
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		instrument := e.Name()
		converted := prog.done(instrument)

		files, err := os.ReadDir(filepath.Join(tickDir, instrument))
		if err != nil {
			return nil, fmt.Errorf("read instrument dir: %w", err)
		}
		for _, f := range files {
			name := f.Name()
			if f.IsDir() || !strings.HasSuffix(name, TickFileExt) {
				continue
			}
			day, err := feed.ParseDate(strings.TrimSuffix(name, TickFileExt))
			if err != nil {
				slog.Debug("skip file with unexpected name", "instrument", instrument, "file", name)
				continue
			}
			if converted[day.Format(feed.DateLayout)] {
				continue
			}
			jobs = append(jobs, Job{
				Instrument: instrument,
				Day:        day,
				Path:       filepath.Join(tickDir, instrument, name),
			})
		}
	}

	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].Instrument != jobs[j].Instrument {
			return jobs[i].Instrument < jobs[j].Instrument
		}
		return jobs[i].Day.Before(jobs[j].Day)
	})
	return jobs, nil
}
