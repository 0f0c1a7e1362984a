package convert

import (
	"log/slog"
	"os"
	"sort"

	"github.com/goccy/go-json"
)

// ProgressUpdate is sent when an instrument-day conversion succeeds
type ProgressUpdate struct {
	Instrument string
	Day        string // feed.DateLayout
}

// progress records every converted day per instrument; a failed day stays
// absent and is picked up again by the next DiscoverJobs.
type progress map[string][]string

func loadProgress(path string) progress {
	data, err := os.ReadFile(path)
	if err != nil {
		return make(progress)
	}
	var p progress
	if err := json.Unmarshal(data, &p); err != nil || p == nil {
		return make(progress)
	}
	for _, days := range p {
		sort.Strings(days)
	}
	return p
}

// done returns the converted days of instrument as a set.
func (p progress) done(instrument string) map[string]bool {
	set := make(map[string]bool, len(p[instrument]))
	for _, d := range p[instrument] {
		set[d] = true
	}
	return set
}

// add records day and reports whether it was new. Days stay sorted
// (DateLayout sorts lexically in date order).
func (p progress) add(instrument, day string) bool {
	days := p[instrument]
	i := sort.SearchStrings(days, day)
	if i < len(days) && days[i] == day {
		return false
	}
	days = append(days, "")
	copy(days[i+1:], days[i:])
	days[i] = day
	p[instrument] = days
	return true
}

// RunProgressWriter receives updates and persists the converted days to path.
// Runs until updates is closed (run as goroutine).
func RunProgressWriter(path string, updates <-chan ProgressUpdate) {
	p := loadProgress(path)
	for u := range updates {
		if !p.add(u.Instrument, u.Day) {
			continue
		}
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			slog.Warn("progress marshal error", "error", err)
			continue
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			slog.Warn("progress write error", "error", err)
		}
	}
}
