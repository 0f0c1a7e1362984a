// Package aggregate folds an ordered tick sequence into OHLC bars.
//
// Bucketed frequencies run a two-state machine: no bucket open, or one bucket
// open with its accumulator. Each tick either updates the open bucket or closes
// it (emitting a bar) and opens the next one. A new bucket opens at the previous
// bucket's close, so bars are chained across buckets.
package aggregate

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"tickbars/internal/model"
)

// SyntheticVolume is set on every bar. Tick files carry no traded volume.
const SyntheticVolume int64 = 10000

// FlushMode controls what happens to the bucket still open when the ticks run out.
type FlushMode int

const (
	// DropLast discards the final open bucket.
	DropLast FlushMode = iota
	// FlushLast emits the final open bucket as a bar.
	FlushLast
)

func (m FlushMode) String() string {
	if m == FlushLast {
		return "flush-last"
	}
	return "drop-last"
}

// Option configures an aggregation pass.
type Option func(*Aggregator)

// WithFlushMode sets the end-of-stream behavior. Default is DropLast.
func WithFlushMode(m FlushMode) Option {
	return func(a *Aggregator) { a.mode = m }
}

type accumulator struct {
	index  int64
	start  time.Time
	open   decimal.Decimal
	high   decimal.Decimal
	low    decimal.Decimal
	close  decimal.Decimal
	volume int64
}

func (acc *accumulator) bar(f model.Frequency) model.Bar {
	return model.Bar{
		Time:      acc.start,
		Open:      acc.open,
		High:      acc.high,
		Low:       acc.low,
		Close:     acc.close,
		Volume:    acc.volume,
		Frequency: f,
	}
}

// Aggregator holds the state of one aggregation pass. It is not safe for
// concurrent use; run one Aggregator per tick file.
type Aggregator struct {
	freq    model.Frequency
	base    time.Time
	widthMs int64
	mode    FlushMode

	open *accumulator // nil while no bucket is open
}

// New returns an Aggregator for ticks of the day starting at base.
// freq must be one of model.Frequencies; anything else panics.
func New(freq model.Frequency, base time.Time, opts ...Option) *Aggregator {
	if !freq.Valid() {
		panic(fmt.Sprintf("aggregate: unsupported frequency %d", int(freq)))
	}
	a := &Aggregator{
		freq:    freq,
		base:    base,
		widthMs: freq.Seconds() * 1000,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Mode returns the configured flush mode.
func (a *Aggregator) Mode() FlushMode { return a.mode }

// Push consumes one tick. It returns a bar when one is complete: every tick
// for Trade, or the previous bucket when tick starts a new one.
func (a *Aggregator) Push(t model.Tick) (model.Bar, bool) {
	if a.freq == model.Trade {
		return model.Bar{
			Time:      a.at(int64(t.TimeOffsetMs)),
			Open:      t.Bid,
			High:      t.Bid,
			Low:       t.Bid,
			Close:     t.Bid,
			Volume:    SyntheticVolume,
			Frequency: model.Trade,
		}, true
	}

	var (
		out  model.Bar
		done bool
	)
	offset := int64(t.TimeOffsetMs)
	index := floorDiv(offset, a.widthMs)
	if a.open == nil || a.open.index != index {
		price := t.Bid
		if a.open != nil {
			out, done = a.open.bar(a.freq), true
			price = a.open.close
		}
		a.open = &accumulator{
			index:  index,
			start:  a.at(index * a.widthMs),
			open:   price,
			high:   price,
			low:    price,
			close:  price,
			volume: SyntheticVolume,
		}
	}

	acc := a.open
	acc.close = t.Bid
	acc.low = decimal.Min(acc.low, acc.close)
	acc.high = decimal.Max(acc.high, acc.close)
	return out, done
}

// Finalize closes the open bucket, if any, and returns its bar.
// The chain is reset: a later Push opens a fresh bucket at its own bid.
func (a *Aggregator) Finalize() (model.Bar, bool) {
	if a.open == nil {
		return model.Bar{}, false
	}
	b := a.open.bar(a.freq)
	a.open = nil
	return b, true
}

func (a *Aggregator) at(offsetMs int64) time.Time {
	return a.base.Add(time.Duration(offsetMs) * time.Millisecond)
}

// Aggregate runs one full pass over ticks, which must be ordered by time.
// With DropLast the last bucket is not emitted.
func Aggregate(ticks []model.Tick, freq model.Frequency, base time.Time, opts ...Option) []model.Bar {
	a := New(freq, base, opts...)
	bars := make([]model.Bar, 0, estimateBars(ticks, freq))
	for _, t := range ticks {
		if b, ok := a.Push(t); ok {
			bars = append(bars, b)
		}
	}
	if a.mode == FlushLast {
		if b, ok := a.Finalize(); ok {
			bars = append(bars, b)
		}
	}
	return bars
}

func estimateBars(ticks []model.Tick, freq model.Frequency) int {
	if freq == model.Trade || len(ticks) == 0 {
		return len(ticks)
	}
	n := int(model.Day.Seconds()/freq.Seconds()) + 1
	if n > len(ticks) {
		n = len(ticks)
	}
	return n
}

// floorDiv rounds toward negative infinity so negative offsets land in the
// bucket before zero rather than in bucket zero.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
