package app

import (
	"fmt"

	"tickbars/internal/convert"
	"tickbars/internal/feed"
	"tickbars/internal/saver"
)

// ProvideConfig loads config from environment (for Wire).
func ProvideConfig() (*Config, error) {
	return LoadConfig()
}

// ProvidePacketSaver creates PacketSaver from config (for Wire).
// Returns error if SaveFormat is not supported.
func ProvidePacketSaver(cfg *Config) (saver.PacketSaver, error) {
	ps := saver.NewPacketSaver(cfg.SaveFormat)
	if ps == nil {
		return nil, fmt.Errorf("unsupported SAVE_FORMAT %q (use: csv, parquet, json)", cfg.SaveFormat)
	}
	return ps, nil
}

// ProvideFeed creates the bar feed described by config (for Wire).
func ProvideFeed(cfg *Config) (*feed.Feed, error) {
	return feed.New(FeedConfig(cfg))
}

// ProvideConverter wires feed and PacketSaver into a Converter (for Wire).
func ProvideConverter(cfg *Config, f *feed.Feed, ps saver.PacketSaver) *convert.Converter {
	return NewConverter(cfg, f, ps)
}

// ProvideMetrics creates the run metrics (for Wire).
func ProvideMetrics() *convert.Metrics {
	return convert.NewMetrics()
}
