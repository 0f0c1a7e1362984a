//go:build wireinject
// +build wireinject

package main

import (
	"tickbars/internal/app"
	"tickbars/internal/convert"

	"github.com/google/wire"
)

// App holds application dependencies built by Wire.
type App struct {
	Config    *app.Config
	Converter *convert.Converter
	Metrics   *convert.Metrics
}

// InitializeApp builds App (Config + Feed + PacketSaver + Converter) via Wire.
func InitializeApp() (*App, error) {
	wire.Build(
		app.ProvideConfig,
		app.ProvidePacketSaver,
		app.ProvideFeed,
		app.ProvideConverter,
		app.ProvideMetrics,
		wire.Struct(new(App), "Config", "Converter", "Metrics"),
	)
	return nil, nil
}
