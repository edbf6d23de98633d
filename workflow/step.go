package workflow

import (
	"context"
	"time"

	"github.com/xmidt-org/otlp-debug/logging"
	"go.uber.org/zap"
)

// Action is one element of a Step's body
type Action interface {
	run(context.Context, *Workflow)
}

// Sleep is an action that pauses for the given duration using the workflow's clock
type Sleep time.Duration

func (s Sleep) run(_ context.Context, w *Workflow) {
	w.clock.Sleep(time.Duration(s))
}

// Log is an action that writes an INFO entry through the span-bound logger of the context
type Log string

func (l Log) run(ctx context.Context, _ *Workflow) {
	logging.Ctx(ctx).Info(string(l))
}

// Step is a named span enclosing a sequence of actions.  A Step is itself an Action,
// which is how steps nest.
type Step struct {
	Name    string
	Actions []Action
}

// NewStep is a convenience for building a Step inline
func NewStep(name string, actions ...Action) Step {
	return Step{
		Name:    name,
		Actions: actions,
	}
}

func (s Step) run(ctx context.Context, w *Workflow) {
	spanCtx, finish := w.spanner.Start(ctx, s.Name)
	defer func() {
		span := finish(nil)
		logging.GetLogger(ctx).Debug(
			"step finished",
			zap.String("step", span.Name()),
			zap.Duration("duration", span.Duration()),
		)
	}()

	for _, a := range s.Actions {
		a.run(spanCtx, w)
	}
}

// Spans returns the names of this step and all of its descendants, depth first
func (s Step) Spans() []string {
	names := []string{s.Name}
	for _, a := range s.Actions {
		if child, ok := a.(Step); ok {
			names = append(names, child.Spans()...)
		}
	}

	return names
}

// DefaultPlan is the demonstration trace:
//
//	do_something
//	├── aaa
//	│   ├── bbb
//	│   └── ccc
//	│       ├── ddd
//	│       └── eee
//	└── fff
func DefaultPlan() Step {
	return NewStep("do_something",
		Log("trace-bbb"),
		NewStep("aaa",
			NewStep("bbb", Sleep(500*time.Millisecond)),
			Log("trace-bbb"),
			NewStep("ccc",
				NewStep("ddd", Sleep(250*time.Millisecond)),
				Log("trace-ccc"),
				NewStep("eee", Sleep(250*time.Millisecond)),
			),
		),
		NewStep("fff", Sleep(250*time.Millisecond)),
	)
}
