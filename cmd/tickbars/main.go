package main

import (
	"log/slog"
	"os"

	"tickbars/internal/app"
	"tickbars/internal/slogx"
)

func init() {
	slog.SetDefault(slogx.NewDefault("info", "text"))
}

func main() {
	a, err := InitializeApp()
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	cfg := a.Config

	slog.SetDefault(slogx.NewDefault(cfg.LogLevel, cfg.LogFormat))
	if err := os.MkdirAll(cfg.OutDir, 0755); err != nil {
		slog.Error("failed to create out dir", "error", err)
		os.Exit(1)
	}
	slog.Info("tick dir", "dir", cfg.TickDir, "frequency", cfg.Freq.String(), "workers", cfg.Workers, "watch", cfg.Watch)
	slog.Info("save dir", "dir", cfg.OutDir, "format", cfg.SaveFormat)

	app.RunFlow(cfg, a.Converter, a.Metrics)
}
