// Package otel wires opt-in OpenTelemetry tracing for the tapfolio services.
package otel

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Setup registers a global tracer provider exporting OTLP/HTTP spans for the
// given service (the web frontend or the profile store).
//
// Tracing stays off unless TAPFOLIO_OTEL_ENDPOINT is set, and can be forced
// off with TAPFOLIO_OTEL_ENABLED=false. When off, Setup registers nothing and
// returns a no-op shutdown function.
//
// The returned shutdown function flushes pending spans; callers defer it.
func Setup(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	endpoint := tracingEndpoint()
	if endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return noop, fmt.Errorf("otlp exporter: %w", err)
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return noop, fmt.Errorf("otel resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return provider.Shutdown, nil
}

// tracingEndpoint resolves the collector endpoint, or empty when tracing is
// disabled.
func tracingEndpoint() string {
	if strings.EqualFold(os.Getenv("TAPFOLIO_OTEL_ENABLED"), "false") {
		return ""
	}
	return strings.TrimSpace(os.Getenv("TAPFOLIO_OTEL_ENDPOINT"))
}
