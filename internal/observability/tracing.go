// Package observability wires OpenTelemetry tracing for the application.
package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the application tracer used by the HTTP tracing middleware.
var Tracer trace.Tracer = otel.Tracer("ripple")

// InitTracing configures the global tracer provider. With an OTLP endpoint it
// exports over HTTP; otherwise spans go to stdout in development and are
// dropped in production. The returned shutdown function flushes exporters.
func InitTracing(ctx context.Context, serviceName, otlpEndpoint, env string) (func(context.Context) error, error) {
	var exporter sdktrace.SpanExporter
	var err error

	switch {
	case otlpEndpoint != "":
		exporter, err = otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(otlpEndpoint), otlptracehttp.WithInsecure())
	case env != "production" && env != "prod":
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	default:
		tp := sdktrace.NewTracerProvider()
		otel.SetTracerProvider(tp)
		Tracer = tp.Tracer(serviceName)
		return tp.Shutdown, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	Tracer = tp.Tracer(serviceName)
	return tp.Shutdown, nil
}
