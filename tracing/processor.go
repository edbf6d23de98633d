package tracing

import (
	"context"

	"github.com/go-kit/kit/metrics"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// SpanNameLabel is the label under which DurationProcessor partitions its histogram
const SpanNameLabel = "span"

// DurationProcessor is a span processor that observes the duration, in seconds, of every
// ended span into a histogram labelled by span name.  It never exports anything.
type DurationProcessor struct {
	histogram metrics.Histogram
}

var _ sdktrace.SpanProcessor = (*DurationProcessor)(nil)

// NewDurationProcessor creates a processor observing into h
func NewDurationProcessor(h metrics.Histogram) *DurationProcessor {
	return &DurationProcessor{histogram: h}
}

func (dp *DurationProcessor) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

func (dp *DurationProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	dp.histogram.With(SpanNameLabel, s.Name()).Observe(
		s.EndTime().Sub(s.StartTime()).Seconds(),
	)
}

func (dp *DurationProcessor) Shutdown(context.Context) error {
	return nil
}

func (dp *DurationProcessor) ForceFlush(context.Context) error {
	return nil
}
