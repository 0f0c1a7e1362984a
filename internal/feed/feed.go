// Package feed registers bars built from tick files under an instrument name.
package feed

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"tickbars/internal/aggregate"
	"tickbars/internal/model"
	"tickbars/internal/tickdata"
)

const (
	// DefaultMaxLen is the series bound used by the app when MAX_LEN is unset.
	DefaultMaxLen = 1024

	// DateLayout is the layout of the day a tick file covers, e.g. 2024.03.01.
	DateLayout = "2006.01.02"
)

// Config describes a Feed. There is no timezone setting: bar times are the
// file's day in UTC plus the tick offset, and nothing is localized.
type Config struct {
	Frequency model.Frequency
	MaxLen    int // 0 keeps every bar
	Digits    int // price digits in the files, 0 means tickdata.DefaultDigits
	FlushMode aggregate.FlushMode
}

// Feed keeps one time-ordered bar series per instrument. It is safe for concurrent use.
type Feed struct {
	cfg     Config
	decoder tickdata.Decoder

	mu     sync.RWMutex
	series map[string][]model.Bar
}

// New validates cfg and returns an empty Feed.
func New(cfg Config) (*Feed, error) {
	if !cfg.Frequency.Valid() {
		return nil, &model.ConfigurationError{Field: "frequency", Value: int(cfg.Frequency), Reason: "unsupported frequency"}
	}
	if cfg.MaxLen < 0 {
		return nil, &model.ConfigurationError{Field: "max len", Value: cfg.MaxLen, Reason: "must not be negative"}
	}
	dec := tickdata.Decoder{}
	if cfg.Digits != 0 {
		var err error
		if dec, err = tickdata.NewDecoder(cfg.Digits); err != nil {
			return nil, err
		}
	}
	return &Feed{
		cfg:     cfg,
		decoder: dec,
		series:  make(map[string][]model.Bar),
	}, nil
}

// Frequency returns the bar frequency of the feed.
func (f *Feed) Frequency() model.Frequency { return f.cfg.Frequency }

// BarsHaveAdjClose reports true; the field is present on every bar but always nil.
func (f *Feed) BarsHaveAdjClose() bool { return true }

// ParseDate parses a tick file day in DateLayout as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// BeforeRegister runs after a file is aggregated and before its bars enter the
// feed. An error aborts the add: nothing is registered and the error is returned.
type BeforeRegister func(ticks []model.Tick, bars []model.Bar) error

// AddBarsFromBytes decodes buf, aggregates the ticks for day and registers
// the bars under instrument. The produced bars are returned.
func (f *Feed) AddBarsFromBytes(instrument string, day time.Time, buf []byte, hooks ...BeforeRegister) ([]model.Bar, error) {
	if instrument == "" {
		return nil, errors.New("instrument is required")
	}
	ticks, err := f.decoder.Decode(buf)
	if err != nil {
		return nil, err
	}
	return f.register(instrument, day, ticks, hooks)
}

// AddBarsFromFile is AddBarsFromBytes for a decompressed tick file on disk.
func (f *Feed) AddBarsFromFile(instrument string, day time.Time, path string, hooks ...BeforeRegister) ([]model.Bar, error) {
	if instrument == "" {
		return nil, errors.New("instrument is required")
	}
	ticks, err := tickdata.LoadFile(path, f.decoder)
	if err != nil {
		return nil, err
	}
	return f.register(instrument, day, ticks, hooks)
}

func (f *Feed) register(instrument string, day time.Time, ticks []model.Tick, hooks []BeforeRegister) ([]model.Bar, error) {
	bars := aggregate.Aggregate(ticks, f.cfg.Frequency, day, aggregate.WithFlushMode(f.cfg.FlushMode))
	for _, h := range hooks {
		if err := h(ticks, bars); err != nil {
			return nil, err
		}
	}
	f.AddBarsFromSequence(instrument, bars)
	return bars, nil
}

// AddBarsFromSequence appends bars to the instrument's series. Days may arrive
// in any order; the series is kept sorted by time and trimmed to MaxLen.
func (f *Feed) AddBarsFromSequence(instrument string, bars []model.Bar) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.series[instrument]
	if !ok && len(bars) == 0 {
		f.series[instrument] = nil
		return
	}
	needSort := len(s) > 0 && len(bars) > 0 && bars[0].Time.Before(s[len(s)-1].Time)
	s = append(s, bars...)
	if needSort {
		sort.SliceStable(s, func(i, j int) bool { return s[i].Time.Before(s[j].Time) })
	}
	if limit := f.cfg.MaxLen; limit > 0 && len(s) > limit {
		s = append([]model.Bar(nil), s[len(s)-limit:]...)
	}
	f.series[instrument] = s
}

// Bars returns a copy of the instrument's series.
func (f *Feed) Bars(instrument string) []model.Bar {
	f.mu.RLock()
	defer f.mu.RUnlock()
	s := f.series[instrument]
	out := make([]model.Bar, len(s))
	copy(out, s)
	return out
}

// Len returns the number of bars held for instrument.
func (f *Feed) Len(instrument string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.series[instrument])
}

// Instruments returns the registered instruments, sorted.
func (f *Feed) Instruments() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, 0, len(f.series))
	for k := range f.series {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
