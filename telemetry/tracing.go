// Package telemetry wires OpenTelemetry tracing. With no endpoint the global
// no-op provider stays in place and spans cost nothing.
package telemetry

import (
	"context"
	"fmt"
	"strings"

	"github.com/colorfulnotion/treasure/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const ServiceName = "treasure"

// Tracing owns the tracer provider for the life of the process.
type Tracing struct {
	tp       *sdktrace.TracerProvider
	disabled bool
}

// NewNoOpTracing returns a Tracing whose provider drops every span.
func NewNoOpTracing() *Tracing {
	return &Tracing{disabled: true}
}

// InitTracing exports spans over OTLP/HTTP to endpoint, given either as
// host:port (plain HTTP) or as a full URL. An empty endpoint disables tracing.
func InitTracing(ctx context.Context, endpoint string) (*Tracing, error) {
	if endpoint == "" {
		return NewNoOpTracing(), nil
	}
	var opts []otlptracehttp.Option
	if strings.Contains(endpoint, "://") {
		opts = append(opts, otlptracehttp.WithEndpointURL(endpoint))
	} else {
		opts = append(opts, otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
	}
	exp, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("otlp exporter for %s: %w", endpoint, err)
	}
	log.Info(log.CLIMonitoring, "tracing enabled", "endpoint", endpoint)
	return InitTracingWithExporter(exp), nil
}

// InitTracingWithExporter installs a batching provider around exp as the
// global provider.
func InitTracingWithExporter(exp sdktrace.SpanExporter) *Tracing {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", ServiceName))),
	)
	otel.SetTracerProvider(tp)
	return &Tracing{tp: tp}
}

func (t *Tracing) Enabled() bool { return !t.disabled }

func (t *Tracing) TracerProvider() trace.TracerProvider {
	if t.disabled {
		return noop.NewTracerProvider()
	}
	return t.tp
}

func (t *Tracing) ForceFlush(ctx context.Context) error {
	if t.disabled {
		return nil
	}
	return t.tp.ForceFlush(ctx)
}

// Shutdown flushes pending spans. Safe to call on a disabled Tracing.
func (t *Tracing) Shutdown(ctx context.Context) error {
	if t.disabled {
		return nil
	}
	return t.tp.Shutdown(ctx)
}
