package observe

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ProviderParams holds dependencies for InitProvider.
type ProviderParams struct {
	fx.In
	LC     fx.Lifecycle
	Logger *zap.Logger
}

// ServiceName is reported as service.name on every exported metric.
const ServiceName = "go-discord-clipper"

// InitProvider builds an SDK MeterProvider that feeds the Prometheus
// default registry and registers it as the global provider.
func InitProvider(params ProviderParams) (*sdkmetric.MeterProvider, error) {
	exp, err := promexporter.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(semconv.ServiceName(ServiceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build telemetry resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exp),
	)
	otel.SetMeterProvider(mp)

	params.LC.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := mp.Shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
				params.Logger.Warn("Meter provider shutdown failed", zap.Error(err))
				return err
			}
			return nil
		},
	})

	return mp, nil
}

// ProvideMetrics creates the application Metrics on the SDK provider.
func ProvideMetrics(mp *sdkmetric.MeterProvider) (*Metrics, error) {
	return NewMetrics(mp)
}
