package workflow

import (
	"context"

	"github.com/spf13/viper"
	"github.com/xmidt-org/otlp-debug/clock"
	"github.com/xmidt-org/otlp-debug/logging"
	"github.com/xmidt-org/otlp-debug/tracing"
	"github.com/xmidt-org/otlp-debug/xviper"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	// WorkflowKey is the Viper subkey under which workflow configuration is stored
	WorkflowKey = "workflow"

	DefaultScale = 1.0
)

// Options configures how a plan is run
type Options struct {
	// Scale multiplies every Sleep.  Zero or negative values are treated as DefaultScale.
	Scale float64
}

func (o *Options) scale() float64 {
	if o != nil && o.Scale > 0 {
		return o.Scale
	}

	return DefaultScale
}

// Sub returns the standard child Viper, using WorkflowKey, for this package.
// If passed nil, this function returns nil.
func Sub(v *viper.Viper) *viper.Viper {
	return xviper.Sub(v, WorkflowKey)
}

// FromViper produces an Options from a (possibly nil) Viper instance.
func FromViper(v *viper.Viper) (*Options, error) {
	o := new(Options)
	if v != nil {
		if err := v.Unmarshal(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Workflow executes Steps, starting a span for each one
type Workflow struct {
	spanner tracing.Spanner
	clock   clock.Interface
}

// New creates a Workflow whose spans come from tracer.  A nil clock means the system clock.
// The clock is scaled according to the options, and span timestamps are taken from it as
// well, so that span durations always agree with the delays.
func New(o *Options, tracer trace.Tracer, c clock.Interface) *Workflow {
	if c == nil {
		c = clock.System()
	}

	c = clock.Scaled(c, o.scale())
	return &Workflow{
		spanner: tracing.NewSpanner(tracer, tracing.Now(c.Now), tracing.Since(c.Since)),
		clock:   c,
	}
}

// Run executes the step tree rooted at s.  Log actions use the logger stored in ctx,
// bound to whichever step's span is current.
func (w *Workflow) Run(ctx context.Context, s Step) {
	logging.GetLogger(ctx).Debug("running workflow", zap.String("step", s.Name))
	s.run(ctx, w)
}
