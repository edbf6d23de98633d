package workflow

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/otlp-debug/clock/clocktest"
	"github.com/xmidt-org/otlp-debug/logging"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var epoch = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

type runFixture struct {
	recorder *tracetest.SpanRecorder
	clock    *clocktest.Mock
	output   *bytes.Buffer
	ctx      context.Context
}

func newRunFixture(t *testing.T, filter string) *runFixture {
	output := new(bytes.Buffer)
	core, err := logging.NewCore(&logging.Options{Filter: filter}, zapcore.AddSync(output))
	require.NoError(t, err)

	f := newLoggerFixture(zap.New(core).Named("otlp_debug"))
	f.output = output
	return f
}

func newLoggerFixture(logger *zap.Logger) *runFixture {
	f := &runFixture{
		recorder: tracetest.NewSpanRecorder(),
		clock:    new(clocktest.Mock),
		ctx:      logging.WithLogger(context.Background(), logger),
	}

	f.clock.OnVirtual(epoch)
	return f
}

func (f *runFixture) provider() *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(f.recorder))
}

func (f *runFixture) run(o *Options, s Step) map[string]sdktrace.ReadOnlySpan {
	New(o, f.provider().Tracer("test"), f.clock).Run(f.ctx, s)

	ended := make(map[string]sdktrace.ReadOnlySpan)
	for _, s := range f.recorder.Ended() {
		ended[s.Name()] = s
	}

	return ended
}

func spanDuration(s sdktrace.ReadOnlySpan) time.Duration {
	return s.EndTime().Sub(s.StartTime())
}

func eventNames(s sdktrace.ReadOnlySpan) []string {
	var names []string
	for _, e := range s.Events() {
		names = append(names, e.Name)
	}

	return names
}

func testRunDefaultPlan(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
		f       = newRunFixture(t, "otlp_debug=info")
	)

	ended := f.run(nil, DefaultPlan())
	assert.Equal(
		[]time.Duration{500 * time.Millisecond, 250 * time.Millisecond, 250 * time.Millisecond, 250 * time.Millisecond},
		f.clock.Sleeps(),
	)

	var order []string
	for _, s := range f.recorder.Ended() {
		order = append(order, s.Name())
	}

	assert.Equal([]string{"bbb", "ddd", "eee", "ccc", "aaa", "fff", "do_something"}, order)

	for child, parent := range map[string]string{
		"aaa": "do_something",
		"bbb": "aaa",
		"ccc": "aaa",
		"ddd": "ccc",
		"eee": "ccc",
		"fff": "do_something",
	} {
		require.Contains(ended, child)
		require.Contains(ended, parent)
		assert.Equal(ended[parent].SpanContext().SpanID(), ended[child].Parent().SpanID(), "parent of %s", child)
		assert.Equal(ended[parent].SpanContext().TraceID(), ended[child].SpanContext().TraceID())
	}

	assert.False(ended["do_something"].Parent().IsValid())

	assert.Equal([]string{"trace-bbb"}, eventNames(ended["do_something"]))
	assert.Equal([]string{"trace-bbb"}, eventNames(ended["aaa"]))
	assert.Equal([]string{"trace-ccc"}, eventNames(ended["ccc"]))
	for _, name := range []string{"bbb", "ddd", "eee", "fff"} {
		assert.Empty(eventNames(ended[name]), name)
	}

	assert.Equal(2, strings.Count(f.output.String(), "trace-bbb"))
	assert.Equal(1, strings.Count(f.output.String(), "trace-ccc"))
}

func testRunFiltered(t *testing.T) {
	var (
		assert = assert.New(t)
		f      = newRunFixture(t, "")
	)

	ended := f.run(nil, DefaultPlan())
	assert.Len(ended, 7)
	assert.Empty(eventNames(ended["do_something"]))
	assert.Empty(f.output.String())
}

func testRunWithinParent(t *testing.T) {
	var (
		assert   = assert.New(t)
		require  = require.New(t)
		f        = newRunFixture(t, "otlp_debug=info")
		provider = f.provider()
	)

	ctx, root := provider.Tracer("test").Start(f.ctx, "test")
	New(nil, provider.Tracer("test"), f.clock).Run(ctx, NewStep("fff", Sleep(250*time.Millisecond)))
	root.End()

	ended := f.recorder.Ended()
	require.Len(ended, 2)
	assert.Equal("fff", ended[0].Name())
	assert.Equal(root.SpanContext().SpanID(), ended[0].Parent().SpanID())
}

func testRunScaled(t *testing.T) {
	var (
		assert = assert.New(t)
		f      = newRunFixture(t, "")
	)

	ended := f.run(&Options{Scale: 0.5}, DefaultPlan())
	assert.Equal(
		[]time.Duration{250 * time.Millisecond, 125 * time.Millisecond, 125 * time.Millisecond, 125 * time.Millisecond},
		f.clock.Sleeps(),
	)

	assert.Equal(250*time.Millisecond, spanDuration(ended["bbb"]))
	assert.Equal(625*time.Millisecond, spanDuration(ended["do_something"]))
}

func testRunTiming(t *testing.T) {
	var (
		assert = assert.New(t)
		f      = newRunFixture(t, "")
	)

	ended := f.run(nil, DefaultPlan())
	for name, expected := range map[string]time.Duration{
		"do_something": 1250 * time.Millisecond,
		"aaa":          time.Second,
		"bbb":          500 * time.Millisecond,
		"ccc":          500 * time.Millisecond,
		"ddd":          250 * time.Millisecond,
		"eee":          250 * time.Millisecond,
		"fff":          250 * time.Millisecond,
	} {
		if assert.Contains(ended, name) {
			assert.Equal(expected, spanDuration(ended[name]), name)
		}
	}

	for name, offset := range map[string]time.Duration{
		"do_something": 0,
		"bbb":          0,
		"ccc":          500 * time.Millisecond,
		"eee":          750 * time.Millisecond,
		"fff":          time.Second,
	} {
		assert.Equal(epoch.Add(offset), ended[name].StartTime(), name)
	}
}

func testRunStepFinished(t *testing.T) {
	var (
		assert     = assert.New(t)
		require    = require.New(t)
		core, logs = observer.New(zapcore.DebugLevel)
		f          = newLoggerFixture(zap.New(core))
	)

	f.run(nil, DefaultPlan())

	finished := logs.FilterMessage("step finished").All()
	require.Len(finished, 7)

	var steps []string
	for _, e := range finished {
		steps = append(steps, e.ContextMap()["step"].(string))
	}

	assert.Equal([]string{"bbb", "ddd", "eee", "ccc", "aaa", "fff", "do_something"}, steps)
	assert.Equal(500*time.Millisecond, finished[0].ContextMap()["duration"])
	assert.Equal(1250*time.Millisecond, finished[6].ContextMap()["duration"])
}

func TestWorkflow(t *testing.T) {
	t.Run("DefaultPlan", testRunDefaultPlan)
	t.Run("Filtered", testRunFiltered)
	t.Run("WithinParent", testRunWithinParent)
	t.Run("Scaled", testRunScaled)
	t.Run("Timing", testRunTiming)
	t.Run("StepFinished", testRunStepFinished)
}

func TestOptions(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
		v       = viper.New()
	)

	assert.Equal(DefaultScale, (*Options)(nil).scale())
	assert.Equal(DefaultScale, (&Options{Scale: -1}).scale())
	assert.Nil(Sub(nil))

	v.Set("workflow.scale", 0.1)
	o, err := FromViper(Sub(v))
	require.NoError(err)
	assert.Equal(0.1, o.scale())

	o, err = FromViper(nil)
	require.NoError(err)
	assert.Equal(DefaultScale, o.scale())
}
