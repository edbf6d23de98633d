package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a zap Logger from a set of options.  The options object can be nil, in which
// case a console logger writing to os.Stdout at the error level is returned.
//
// The returned logger writes every entry that passes the filter both to the configured output
// and, when bound to a span through Ctx or SpanField, as an event on that span.
func New(o *Options, opts ...zap.Option) (*zap.Logger, error) {
	core, err := NewCore(o, o.output())
	if err != nil {
		return nil, err
	}

	return zap.New(core, opts...), nil
}

// NewCore builds the filtered, span-aware core for the given options, writing encoded
// output to ws.  The Options.File setting is ignored in favor of ws.
func NewCore(o *Options, ws zapcore.WriteSyncer) (zapcore.Core, error) {
	filter, err := NewFilter(o.level(), o.filter())
	if err != nil {
		return nil, fmt.Errorf("unable to parse log filter: %w", err)
	}

	// the filter is the only gate, so the inner cores accept everything
	return NewFilterCore(
		zapcore.NewTee(
			zapcore.NewCore(o.encoder(), ws, zapcore.DebugLevel),
			NewSpanCore(zapcore.DebugLevel),
		),
		filter,
	), nil
}

// Must panics if err is not nil.  It is meant for wrapping New during process startup,
// where a broken logging configuration is unrecoverable.
func Must(l *zap.Logger, err error) *zap.Logger {
	if err != nil {
		panic(err)
	}

	return l
}
