package model

import (
	"strings"
	"time"
)

// Frequency is the bar width in seconds. Trade means one bar per tick.
type Frequency int

const (
	Trade          Frequency = -1
	Second         Frequency = 1
	Minute         Frequency = 60
	FiveMinutes    Frequency = 5 * 60
	FifteenMinutes Frequency = 15 * 60
	ThirtyMinutes  Frequency = 30 * 60
	Hour           Frequency = 60 * 60
	FourHours      Frequency = 4 * 60 * 60
	Day            Frequency = 24 * 60 * 60
)

// Frequencies lists every supported frequency, narrowest first.
var Frequencies = []Frequency{
	Trade, Second, Minute, FiveMinutes, FifteenMinutes, ThirtyMinutes, Hour, FourHours, Day,
}

var frequencyNames = map[Frequency]string{
	Trade:          "trade",
	Second:         "1s",
	Minute:         "1m",
	FiveMinutes:    "5m",
	FifteenMinutes: "15m",
	ThirtyMinutes:  "30m",
	Hour:           "1h",
	FourHours:      "4h",
	Day:            "1d",
}

var frequencyAliases = map[string]Frequency{
	"TRADE":           Trade,
	"SECOND":          Second,
	"MINUTE":          Minute,
	"FIVE_MINUTES":    FiveMinutes,
	"FIFTEEN_MINUTES": FifteenMinutes,
	"THIRTY_MINUTES":  ThirtyMinutes,
	"HOUR":            Hour,
	"FOUR_HOURS":      FourHours,
	"DAY":             Day,
}

// Valid reports whether f is one of the supported frequencies.
func (f Frequency) Valid() bool {
	_, ok := frequencyNames[f]
	return ok
}

// Seconds returns the bucket width in seconds. Trade returns 0.
func (f Frequency) Seconds() int64 {
	if f == Trade {
		return 0
	}
	return int64(f)
}

// Duration returns the bucket width. Trade returns 0.
func (f Frequency) Duration() time.Duration {
	return time.Duration(f.Seconds()) * time.Second
}

func (f Frequency) String() string {
	if s, ok := frequencyNames[f]; ok {
		return s
	}
	return "unknown"
}

// ParseFrequency accepts short names (trade, 1s, 1m, 5m, 15m, 30m, 1h, 4h, 1d)
// and enum names (TRADE, MINUTE, FIVE_MINUTES, ...).
func ParseFrequency(s string) (Frequency, error) {
	v := strings.TrimSpace(s)
	if f, ok := frequencyAliases[strings.ToUpper(v)]; ok {
		return f, nil
	}
	for f, name := range frequencyNames {
		if strings.EqualFold(name, v) {
			return f, nil
		}
	}
	return 0, &ConfigurationError{Field: "frequency", Value: s, Reason: "unsupported frequency"}
}
