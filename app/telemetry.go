package app

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	metricsdk "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName    = "ammpool"
	serviceVersion = "1.0.0"
)

// TelemetryConfig holds the configuration for telemetry
type TelemetryConfig struct {
	// OTLPEndpoint enables tracing when set (host:port or http://host:port).
	OTLPEndpoint string
	SampleRate   float64

	// PrometheusEnabled exports OpenTelemetry metrics to the default
	// Prometheus registry, next to the module's own collectors.
	PrometheusEnabled bool
}

// Telemetry owns the OpenTelemetry providers installed by InitTelemetry.
type Telemetry struct {
	tracerProvider *tracesdk.TracerProvider
	meterProvider  *metricsdk.MeterProvider
}

// InitTelemetry installs global tracer and meter providers. With an empty
// config nothing is installed and spans stay no-ops.
func InitTelemetry(cfg TelemetryConfig) (*Telemetry, error) {
	tel := &Telemetry{}
	if cfg.OTLPEndpoint == "" && !cfg.PrometheusEnabled {
		return tel, nil
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if cfg.OTLPEndpoint != "" {
		if err := tel.initTracing(res, cfg); err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}
	if cfg.PrometheusEnabled {
		if err := tel.initMetrics(res); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}
	return tel, nil
}

func (t *Telemetry) initTracing(res *resource.Resource, cfg TelemetryConfig) error {
	if _, err := url.Parse(cfg.OTLPEndpoint); err != nil {
		return err
	}
	if cfg.SampleRate < 0 || cfg.SampleRate > 1 {
		return fmt.Errorf("sample rate %v outside [0, 1]", cfg.SampleRate)
	}

	endpoint := strings.TrimPrefix(cfg.OTLPEndpoint, "http://")
	exp, err := otlptracehttp.New(context.Background(), otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
	if err != nil {
		return err
	}

	tp := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exp),
		tracesdk.WithResource(res),
		tracesdk.WithSampler(tracesdk.ParentBased(
			tracesdk.TraceIDRatioBased(cfg.SampleRate),
		)),
	)
	otel.SetTracerProvider(tp)
	t.tracerProvider = tp
	return nil
}

func (t *Telemetry) initMetrics(res *resource.Resource) error {
	exporter, err := prometheus.New()
	if err != nil {
		return err
	}

	provider := metricsdk.NewMeterProvider(
		metricsdk.WithResource(res),
		metricsdk.WithReader(exporter),
	)
	otel.SetMeterProvider(provider)
	t.meterProvider = provider
	return nil
}

// Shutdown flushes and stops the installed providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var err error
	if t.tracerProvider != nil {
		err = t.tracerProvider.Shutdown(ctx)
	}
	if t.meterProvider != nil {
		if shutdownErr := t.meterProvider.Shutdown(ctx); shutdownErr != nil {
			if err != nil {
				err = fmt.Errorf("%w; failed to shutdown meter provider: %w", err, shutdownErr)
			} else {
				err = fmt.Errorf("failed to shutdown meter provider: %w", shutdownErr)
			}
		}
	}
	return err
}

// StartOperationSpan starts a span for one host operation
func StartOperationSpan(ctx context.Context, operation, opID string) (context.Context, trace.Span) {
	tracer := otel.Tracer(serviceName)
	return tracer.Start(ctx, "amm."+operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("amm.operation", operation),
			attribute.String("amm.op_id", opID),
		),
	)
}

// RecordError records an error on the span
func RecordError(span trace.Span, err error) {
	if span != nil && err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// operationDuration returns the histogram recording committed operation latency
func operationDuration() metric.Float64Histogram {
	h, err := otel.Meter(serviceName).Float64Histogram(
		"amm.operation.duration",
		metric.WithDescription("Duration of committed pool operations"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		otel.Handle(err)
		return noop.Float64Histogram{}
	}
	return h
}
