package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Spanner acts as a factory for Spans
type Spanner interface {
	// Start begins a new, unfinished span as a child of whatever span ctx carries.  The returned
	// context carries the new span.  The returned closure must be called to finish the span,
	// which ends the underlying OpenTelemetry span and records the duration and the given error.
	// The closure is idempotent and only records the duration and error of the first call.
	// It always returns the same Span instance.
	Start(ctx context.Context, name string, o ...trace.SpanStartOption) (context.Context, func(error) Span)
}

type SpannerOption func(*spanner)

// Now sets a now function on a spanner.  If now is nil, this option does nothing.
func Now(now func() time.Time) SpannerOption {
	return func(sp *spanner) {
		if now != nil {
			sp.now = now
		}
	}
}

// Since sets a since function on a spanner.  If since is nil, this option does nothing.
func Since(since func(time.Time) time.Duration) SpannerOption {
	return func(sp *spanner) {
		if since != nil {
			sp.since = since
		}
	}
}

// NewSpanner constructs a new Spanner that starts spans with the given tracer
func NewSpanner(tracer trace.Tracer, o ...SpannerOption) Spanner {
	sp := &spanner{
		tracer: tracer,
		now:    time.Now,
		since:  time.Since,
	}

	for _, option := range o {
		option(sp)
	}

	return sp
}

type spanner struct {
	tracer trace.Tracer
	now    func() time.Time
	since  func(time.Time) time.Duration
}

func (sp *spanner) Start(ctx context.Context, name string, o ...trace.SpanStartOption) (context.Context, func(error) Span) {
	start := sp.now()
	options := make([]trace.SpanStartOption, 0, len(o)+1)
	options = append(options, o...)
	options = append(options, trace.WithTimestamp(start))
	ctx, otelSpan := sp.tracer.Start(ctx, name, options...)

	s := &span{
		name:  name,
		start: start,
		sc:    otelSpan.SpanContext(),
	}

	return ctx, func(err error) Span {
		if s.finish(sp.since(s.start), err) {
			if err != nil {
				otelSpan.RecordError(err)
				otelSpan.SetStatus(codes.Error, err.Error())
			}

			otelSpan.End(trace.WithTimestamp(s.start.Add(s.duration)))
		}

		return s
	}
}
