package logging

import (
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/exp/maps"
)

const (
	spanKey = "otel.span"

	// TraceIDKey and SpanIDKey are the fields Ctx adds so that console output can be
	// correlated with exported traces.  They are not copied onto span events.
	TraceIDKey = "trace_id"
	SpanIDKey  = "span_id"

	// LevelAttribute and TargetAttribute are attached to every span event
	LevelAttribute  = attribute.Key("level")
	TargetAttribute = attribute.Key("target")
)

// SpanField binds a logger to a span.  Encoders skip it; the span core picks it up.
func SpanField(s trace.Span) zap.Field {
	return zap.Field{Key: spanKey, Type: zapcore.SkipType, Interface: s}
}

// spanCore records each entry as an event on the bound span.  Without a bound,
// recording span it writes nothing.
type spanCore struct {
	zapcore.LevelEnabler
	span   trace.Span
	fields []zapcore.Field
}

// NewSpanCore creates the core that turns log entries into span events
func NewSpanCore(enab zapcore.LevelEnabler) zapcore.Core {
	return &spanCore{LevelEnabler: enab}
}

func (sc *spanCore) With(fields []zapcore.Field) zapcore.Core {
	clone := &spanCore{
		LevelEnabler: sc.LevelEnabler,
		span:         sc.span,
		fields:       make([]zapcore.Field, len(sc.fields), len(sc.fields)+len(fields)),
	}

	copy(clone.fields, sc.fields)
	for _, f := range fields {
		if f.Key == spanKey && f.Type == zapcore.SkipType {
			if s, ok := f.Interface.(trace.Span); ok {
				clone.span = s
			}

			continue
		}

		if f.Key == TraceIDKey || f.Key == SpanIDKey {
			continue
		}

		clone.fields = append(clone.fields, f)
	}

	return clone
}

func (sc *spanCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if sc.span != nil && sc.span.IsRecording() && sc.Enabled(e.Level) {
		return ce.AddCore(e, sc)
	}

	return ce
}

func (sc *spanCore) Write(e zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range sc.fields {
		f.AddTo(enc)
	}

	for _, f := range fields {
		f.AddTo(enc)
	}

	attrs := append(
		toAttributes(enc.Fields),
		LevelAttribute.String(e.Level.CapitalString()),
		TargetAttribute.String(e.LoggerName),
	)

	sc.span.AddEvent(e.Message, trace.WithTimestamp(e.Time), trace.WithAttributes(attrs...))
	return nil
}

func (sc *spanCore) Sync() error {
	return nil
}

// toAttributes converts encoded zap fields into span attributes, ordered by key
func toAttributes(fields map[string]interface{}) []attribute.KeyValue {
	keys := maps.Keys(fields)
	sort.Strings(keys)

	attrs := make([]attribute.KeyValue, 0, len(keys)+2)
	for _, k := range keys {
		key := attribute.Key(k)
		switch v := fields[k].(type) {
		case string:
			attrs = append(attrs, key.String(v))
		case bool:
			attrs = append(attrs, key.Bool(v))
		case int64:
			attrs = append(attrs, key.Int64(v))
		case int:
			attrs = append(attrs, key.Int(v))
		case float64:
			attrs = append(attrs, key.Float64(v))
		case time.Duration:
			attrs = append(attrs, key.String(v.String()))
		case time.Time:
			attrs = append(attrs, key.String(v.Format(time.RFC3339Nano)))
		case fmt.Stringer:
			attrs = append(attrs, key.String(v.String()))
		default:
			attrs = append(attrs, key.String(fmt.Sprint(v)))
		}
	}

	return attrs
}
