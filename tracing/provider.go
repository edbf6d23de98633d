package tracing

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
)

// NewResource describes this process: SDK and host information, the service identity from
// the configuration, and any extra attributes.
func NewResource(ctx context.Context, c Config) (*resource.Resource, error) {
	keys := maps.Keys(c.Resource)
	sort.Strings(keys)

	attrs := make([]attribute.KeyValue, 0, len(keys)+4)
	for _, k := range keys {
		attrs = append(attrs, attribute.String(k, c.Resource[k]))
	}

	attrs = append(attrs,
		semconv.ServiceNameKey.String(c.serviceName()),
		semconv.DeploymentEnvironmentKey.String(c.environment()),
		semconv.ServiceInstanceIDKey.String(c.instanceID()),
	)

	if len(c.ServiceVersion) > 0 {
		attrs = append(attrs, semconv.ServiceVersionKey.String(c.ServiceVersion))
	}

	return resource.New(ctx,
		resource.WithTelemetrySDK(),
		resource.WithHost(),
		resource.WithAttributes(attrs...),
	)
}

func (c Config) batchOptions() []sdktrace.BatchSpanProcessorOption {
	var opts []sdktrace.BatchSpanProcessorOption
	if c.BatchTimeout > 0 {
		opts = append(opts, sdktrace.WithBatchTimeout(c.BatchTimeout))
	}

	if c.MaxExportBatchSize > 0 {
		opts = append(opts, sdktrace.WithMaxExportBatchSize(c.MaxExportBatchSize))
	}

	if c.MaxQueueSize > 0 {
		opts = append(opts, sdktrace.WithMaxQueueSize(c.MaxQueueSize))
	}

	return opts
}

// NewTracerProvider creates a provider that batches spans into exporter.  Any additional
// processors see every span as well, after the batcher.  The caller owns the returned
// provider and must shut it down to flush buffered spans.
func NewTracerProvider(ctx context.Context, c Config, exporter sdktrace.SpanExporter, processors ...sdktrace.SpanProcessor) (*sdktrace.TracerProvider, error) {
	res, err := NewResource(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("unable to build trace resource: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter, c.batchOptions()...),
	}

	for _, p := range processors {
		opts = append(opts, sdktrace.WithSpanProcessor(p))
	}

	return sdktrace.NewTracerProvider(opts...), nil
}

// Install makes tp the global tracer provider, installs W3C trace context and baggage
// propagation, and routes OpenTelemetry's internal errors to logger.
func Install(tp trace.TracerProvider, logger *zap.Logger) {
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}),
	)

	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		logger.Error("opentelemetry error", zap.Error(err))
	}))
}
