// Package slogx builds the process logger and the per-run channel logger the
// conversion workers share.
package slogx

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// LineWriter cuts the handler output into lines and hands each one to Lines
// without blocking. A line that does not fit is counted in Dropped.
type LineWriter struct {
	Lines   chan<- string
	partial bytes.Buffer
	dropped atomic.Int64
}

func (w *LineWriter) Write(p []byte) (int, error) {
	w.partial.Write(p)
	for {
		i := bytes.IndexByte(w.partial.Bytes(), '\n')
		if i < 0 {
			return len(p), nil
		}
		line := string(w.partial.Next(i + 1)[:i])
		select {
		case w.Lines <- line:
		default:
			w.dropped.Add(1)
		}
	}
}

// Pending is the unterminated tail of the last write.
func (w *LineWriter) Pending() string { return w.partial.String() }

// Dropped reports how many lines were lost to a full channel.
func (w *LineWriter) Dropped() int64 { return w.dropped.Load() }

// NewChanLogger returns a text logger writing lines to ch at the level the
// default logger currently has enabled.
func NewChanLogger(ch chan<- string) *slog.Logger {
	return slog.New(slog.NewTextHandler(&LineWriter{Lines: ch}, &slog.HandlerOptions{
		Level: enabledLevel(slog.Default()),
	}))
}

func enabledLevel(l *slog.Logger) slog.Level {
	ctx := context.Background()
	lvl := slog.LevelDebug
	for lvl < slog.LevelError && !l.Enabled(ctx, lvl) {
		lvl += slog.LevelInfo - slog.LevelDebug
	}
	return lvl
}

// ParseLevel accepts the slog level names (any case, "warning" as an alias of
// warn). Anything else is info.
func ParseLevel(s string) slog.Level {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "warning") {
		return slog.LevelWarn
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// New creates a logger writing to w. format is text or json; unknown → text.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// NewDefault creates a logger writing to stderr with the given level and format.
func NewDefault(level, format string) *slog.Logger {
	return New(os.Stderr, level, format)
}
