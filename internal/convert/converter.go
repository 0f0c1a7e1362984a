package convert

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"tickbars/internal/feed"
	"tickbars/internal/model"
	"tickbars/internal/saver"
)

// LogFunc emits a log line. When set, used instead of slog.Info (fan-in logger).
type LogFunc func(msg string)

// Converter turns one tick file into bars, registers them in the feed and
// optionally persists them as a packet.
type Converter struct {
	Feed          *feed.Feed
	SavePacketDir string
	PacketSaver   saver.PacketSaver // When non-nil, used to persist packets.
	LogFunc       LogFunc           // Optional fan-in logger.
}

func (c *Converter) logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if c.LogFunc != nil {
		c.LogFunc(msg)
	} else {
		slog.Info(msg)
	}
}

// Convert processes job and returns the number of ticks read and bars produced.
// The packet is written before the bars enter the feed, so a failed save
// leaves the feed untouched and the day can be retried.
func (c *Converter) Convert(job Job) (ticks, bars int, err error) {
	produced, err := c.Feed.AddBarsFromFile(job.Instrument, job.Day, job.Path,
		func(decoded []model.Tick, out []model.Bar) error {
			ticks = len(decoded)
			if len(out) == 0 {
				return nil
			}
			return c.savePacket(job, saver.RowsFromBars(out))
		})
	if err != nil {
		return ticks, 0, err
	}
	if len(produced) == 0 {
		c.logf("[%s] %s: %d ticks, no complete bar", job.Instrument, job.DayString(), ticks)
	}
	return ticks, len(produced), nil
}

// PacketPath returns {SavePacketDir}/{INSTRUMENT}/{instrument}_{YYYY-MM-DD}_{freq}.{ext}
func (c *Converter) PacketPath(job Job) string {
	name := fmt.Sprintf("%s_%s_%s.%s",
		strings.ToLower(job.Instrument), job.Day.Format("2006-01-02"), c.Feed.Frequency(), c.PacketSaver.Extension())
	return filepath.Join(c.SavePacketDir, job.Instrument, name)
}

func (c *Converter) savePacket(job Job, rows []saver.Row) error {
	if c.SavePacketDir == "" || c.PacketSaver == nil {
		return nil
	}
	dir := filepath.Join(c.SavePacketDir, job.Instrument)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create packet dir: %w", err)
	}
	path := c.PacketPath(job)
	if err := c.PacketSaver.Save(rows, path); err != nil {
		return fmt.Errorf("save packet %s: %w", path, err)
	}
	c.logf("[%s] Saved 1 file (%s): %s (%d bars)", job.Instrument, c.PacketSaver.Extension(), path, len(rows))
	return nil
}
