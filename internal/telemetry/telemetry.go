// Package telemetry traces burrow sessions and field generation over OTLP.
package telemetry

import (
	"context"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	serviceName    = "burrow"
	serviceVersion = "0.1.0"

	// EndpointEnv enables export when set; without it tracing stays a no-op.
	EndpointEnv = "OTEL_EXPORTER_OTLP_ENDPOINT"
)

// Attribute keys shared by burrow spans.
const (
	KeyVariant = attribute.Key("burrow.variant")
	KeySeed    = attribute.Key("burrow.seed")
	KeyEaten   = attribute.Key("burrow.eaten")
)

// Enabled reports whether an OTLP endpoint is configured.
func Enabled() bool {
	return os.Getenv(EndpointEnv) != ""
}

// Setup installs a batching OTLP HTTP tracer provider when Enabled, otherwise
// nothing. The returned shutdown flushes pending spans and is always non-nil
// on success.
func Setup(ctx context.Context) (shutdown func(context.Context) error, err error) {
	if !Enabled() {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// SessionAttributes describes one play session.
func SessionAttributes(variant string, seed int64) []attribute.KeyValue {
	return []attribute.KeyValue{KeyVariant.String(variant), KeySeed.Int64(seed)}
}

// Tracer returns the tracer for a burrow component.
func Tracer(name string) trace.Tracer {
	return otel.GetTracerProvider().Tracer("burrow/" + name)
}

// NoopTracer returns a tracer that records nothing.
func NoopTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer("burrow/noop")
}
