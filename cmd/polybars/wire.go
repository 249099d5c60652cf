//go:build wireinject
// +build wireinject

package main

import (
	"polybars/internal/app"
	"polybars/internal/metrics"
	"polybars/internal/provider"

	"github.com/google/wire"
)

// InitializeApp builds App (Config, logger, provider, engine, exporter, metrics) via Wire.
// Caller must call cleanup when done.
func InitializeApp(o app.Overrides) (*app.App, func(), error) {
	wire.Build(
		app.ProvideConfig,
		app.ProvideLogger,
		app.ProvidePolygonProvider,
		app.ProvideMetrics,
		app.ProvideEngine,
		app.ProvideExporter,
		wire.Bind(new(provider.DataProvider), new(*provider.PolygonProvider)),
		wire.Bind(new(metrics.Recorder), new(*metrics.Prometheus)),
		wire.Struct(new(app.App), "*"),
	)
	return nil, nil, nil
}
