// Package tracing configures OpenTelemetry for the reconciler.
package tracing

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const TracerName = "reconciler"

// Provider owns the tracer provider of the process.
type Provider struct {
	tracerProvider trace.TracerProvider
	shutdown       func(context.Context) error
}

// Init installs a Jaeger-exporting tracer provider as the global one. With an
// empty endpoint tracing stays disabled and a no-op provider is returned.
func Init(serviceName, jaegerEndpoint string, logger *slog.Logger) (*Provider, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	if jaegerEndpoint == "" {
		return &Provider{
			tracerProvider: noop.NewTracerProvider(),
			shutdown:       func(context.Context) error { return nil },
		}, nil
	}

	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(jaegerEndpoint)))
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
		)),
	)
	otel.SetTracerProvider(tp)

	logger.Info("tracing initialized", "service", serviceName, "endpoint", jaegerEndpoint)
	return &Provider{tracerProvider: tp, shutdown: tp.Shutdown}, nil
}

func (p *Provider) Tracer() trace.Tracer {
	return p.tracerProvider.Tracer(TracerName)
}

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.shutdown(ctx)
}
