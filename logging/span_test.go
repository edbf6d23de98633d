package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newRecordingTracer() (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	recorder := tracetest.NewSpanRecorder()
	return recorder, sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
}

func attributeMap(attrs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(attrs))
	for _, kv := range attrs {
		m[kv.Key] = kv.Value
	}

	return m
}

func TestCtx(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		output  bytes.Buffer
		core, _ = NewCore(&Options{Filter: "otlp_debug=info"}, zapcore.AddSync(&output))
		logger  = zap.New(core).Named("otlp_debug")
	)

	recorder, provider := newRecordingTracer()

	ctx := WithLogger(context.Background(), logger)
	ctx, span := provider.Tracer("test").Start(ctx, "parent")

	Ctx(ctx).Info("trace-bbb", zap.Int("count", 3), zap.Duration("delay", 250*time.Millisecond), zap.Error(errors.New("expected")))
	Ctx(ctx).Debug("filtered out")
	Ctx(ctx).Named("child").Warn("from child")
	span.End()

	ended := recorder.Ended()
	require.Len(ended, 1)

	events := ended[0].Events()
	require.Len(events, 2)

	assert.Equal("trace-bbb", events[0].Name)
	attrs := attributeMap(events[0].Attributes)
	assert.Equal(int64(3), attrs["count"].AsInt64())
	assert.Equal("250ms", attrs["delay"].AsString())
	assert.Equal("expected", attrs["error"].AsString())
	assert.Equal("INFO", attrs[LevelAttribute].AsString())
	assert.Equal("otlp_debug", attrs[TargetAttribute].AsString())
	assert.NotContains(attrs, attribute.Key(TraceIDKey))
	assert.NotContains(attrs, attribute.Key(SpanIDKey))

	assert.Equal("from child", events[1].Name)
	assert.Equal("otlp_debug.child", attributeMap(events[1].Attributes)[TargetAttribute].AsString())

	text := output.String()
	assert.Contains(text, "trace-bbb")
	assert.Contains(text, "from child")
	assert.NotContains(text, "filtered out")
	assert.Contains(text, ended[0].SpanContext().TraceID().String())
	assert.Contains(text, ended[0].SpanContext().SpanID().String())
}

func TestCtxWithoutSpan(t *testing.T) {
	var (
		assert = assert.New(t)

		output  bytes.Buffer
		core, _ = NewCore(&Options{Level: "info"}, zapcore.AddSync(&output))
		logger  = zap.New(core)
	)

	ctx := WithLogger(context.Background(), logger)
	assert.Equal(logger, Ctx(ctx))

	Ctx(ctx).Info("no span")
	assert.Contains(output.String(), "no span")
	assert.NotContains(output.String(), TraceIDKey)
}

func TestSpanCoreNotRecording(t *testing.T) {
	var (
		assert = assert.New(t)

		recorder, provider = newRecordingTracer()
		core               = NewSpanCore(zapcore.DebugLevel)
	)

	_, span := provider.Tracer("test").Start(context.Background(), "finished")
	span.End()

	bound := core.With([]zapcore.Field{SpanField(span)})
	assert.Nil(bound.Check(zapcore.Entry{Level: zapcore.InfoLevel, Message: "late"}, nil))
	assert.Nil(core.Check(zapcore.Entry{Level: zapcore.InfoLevel, Message: "unbound"}, nil))
	assert.NoError(core.Sync())

	require.Len(t, recorder.Ended(), 1)
	assert.Empty(recorder.Ended()[0].Events())
}
