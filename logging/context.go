package logging

import (
	"context"

	"github.com/xmidt-org/candlelight"
	"github.com/xmidt-org/sallust"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// WithLogger adds the given Logger to the context so that it can be retrieved with GetLogger
func WithLogger(parent context.Context, logger *zap.Logger) context.Context {
	return sallust.With(parent, logger)
}

// GetLogger retrieves the logger associated with the context.  If no logger is
// present in the context, sallust's default logger is returned instead.
func GetLogger(ctx context.Context) *zap.Logger {
	return sallust.Get(ctx)
}

// Ctx returns the context's logger bound to the span active in ctx.  Entries written to the
// returned logger carry the trace and span ids and are recorded as span events.  If ctx has
// no valid span, this is the same as GetLogger.
func Ctx(ctx context.Context) *zap.Logger {
	logger := GetLogger(ctx)
	traceID, spanID, ok := candlelight.ExtractTraceInfo(ctx)
	if !ok {
		return logger
	}

	return logger.With(
		SpanField(trace.SpanFromContext(ctx)),
		zap.String(TraceIDKey, traceID),
		zap.String(SpanIDKey, spanID),
	)
}
