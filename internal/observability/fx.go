package observability

import (
	"context"

	"github.com/fieldops/metas/internal/config"
	"github.com/fieldops/metas/internal/observability/metrics"
	"github.com/fieldops/metas/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

// Module wires metrics and tracing for the application.
var Module = fx.Module("observability",
	fx.Provide(
		metrics.NewRegistry,
		metrics.New,
		provideTracingConfig,
		tracing.NewProvider,
	),
	fx.Invoke(registerTracingShutdown),
)

func provideTracingConfig(cfg config.Config) tracing.Config {
	return tracing.Config{
		ServiceName:    cfg.AppName,
		ServiceVersion: cfg.AppVersion,
		Environment:    cfg.Environment,
		Endpoint:       cfg.OTLPEndpoint,
	}
}

func registerTracingShutdown(lc fx.Lifecycle, provider *sdktrace.TracerProvider) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return provider.Shutdown(ctx)
		},
	})
}
