package tracing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/exporters/zipkin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var ErrUnknownExporter = errors.New("unknown span exporter")

// NewExporter creates the span exporter selected by the configuration.  The stdout exporter
// writes to w, or to os.Stdout when w is nil.  No connection is attempted here; the OTLP
// exporters dial lazily on first export.
func NewExporter(ctx context.Context, c Config, w io.Writer) (sdktrace.SpanExporter, error) {
	switch c.exporter() {
	case ExporterOTLPGRPC:
		return newOTLPGRPC(ctx, c)

	case ExporterOTLPHTTP:
		return newOTLPHTTP(ctx, c)

	case ExporterZipkin:
		return zipkin.New(
			c.endpoint(),
			zipkin.WithClient(&http.Client{Timeout: c.timeout()}),
		)

	case ExporterJaeger:
		return jaeger.New(
			jaeger.WithCollectorEndpoint(
				jaeger.WithEndpoint(c.endpoint()),
				jaeger.WithHTTPClient(&http.Client{Timeout: c.timeout()}),
			),
		)

	case ExporterStdout:
		if w == nil {
			w = os.Stdout
		}

		return stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())

	case ExporterNoop:
		return tracetest.NewNoopExporter(), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownExporter, c.Exporter)
	}
}

func newOTLPGRPC(ctx context.Context, c Config) (sdktrace.SpanExporter, error) {
	host, _, insecure, err := hostAndInsecure(c.endpoint())
	if err != nil {
		return nil, fmt.Errorf("invalid otlp endpoint %q: %w", c.endpoint(), err)
	}

	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(host),
		otlptracegrpc.WithTimeout(c.timeout()),
	}

	if insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	if len(c.Headers) > 0 {
		opts = append(opts, otlptracegrpc.WithHeaders(c.Headers))
	}

	return otlptracegrpc.New(ctx, opts...)
}

func newOTLPHTTP(ctx context.Context, c Config) (sdktrace.SpanExporter, error) {
	host, path, insecure, err := hostAndInsecure(c.endpoint())
	if err != nil {
		return nil, fmt.Errorf("invalid otlp endpoint %q: %w", c.endpoint(), err)
	}

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(host),
		otlptracehttp.WithTimeout(c.timeout()),
	}

	if len(path) > 0 {
		opts = append(opts, otlptracehttp.WithURLPath(path))
	}

	if insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	if len(c.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(c.Headers))
	}

	return otlptracehttp.New(ctx, opts...)
}
