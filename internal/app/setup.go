package app

import (
	"log/slog"

	"tickbars/internal/convert"
	"tickbars/internal/feed"
	"tickbars/internal/saver"
)

// FeedConfig builds the feed configuration from config.
func FeedConfig(cfg *Config) feed.Config {
	return feed.Config{
		Frequency: cfg.Freq,
		MaxLen:    cfg.MaxLen,
		Digits:    cfg.PriceDigits,
		FlushMode: cfg.FlushMode(),
	}
}

// ConvertOptions builds the run options from config.
func ConvertOptions(cfg *Config) convert.Options {
	return convert.Options{
		TickDir:      cfg.TickDir,
		OutDir:       cfg.OutDir,
		ProgressPath: cfg.ProgressPath(),
		MetricsPath:  cfg.MetricsPath(),
		Workers:      cfg.Workers,
		Heartbeat:    cfg.Heartbeat(),
	}
}

// NewConverter injects feed and PacketSaver into a Converter writing under OutDir.
func NewConverter(cfg *Config, f *feed.Feed, ps saver.PacketSaver) *convert.Converter {
	conv := &convert.Converter{
		Feed:          f,
		SavePacketDir: cfg.OutDir,
		PacketSaver:   ps,
	}
	slog.Info("wire", "frequency", cfg.Freq.String(), "flush", cfg.FlushMode().String(), "format", ps.Extension(),
		"dir", cfg.OutDir, "pattern", "{INSTRUMENT}/{instrument}_{date}_"+cfg.Freq.String()+"."+ps.Extension())
	return conv
}
