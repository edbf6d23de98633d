package logging

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap/zapcore"
)

// OffLevel disables a logger entirely.  It is more severe than any level zap can emit.
const OffLevel = zapcore.FatalLevel + 1

var (
	ErrInvalidLevel     = errors.New("invalid log level")
	ErrInvalidDirective = errors.New("invalid filter directive")
)

// ParseLevel converts a directive level into a zap level.  zap has no trace level, so
// trace maps onto debug.
func ParseLevel(v string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "trace", "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	case "off":
		return OffLevel, nil
	default:
		return OffLevel, fmt.Errorf("%w: %q", ErrInvalidLevel, v)
	}
}

// Directive enables a logger, and all of its named children, at Level and above.
type Directive struct {
	Target string
	Level  zapcore.Level
}

func (d Directive) matches(name string) bool {
	return name == d.Target || strings.HasPrefix(name, d.Target+".")
}

// Filter decides, per logger name, the minimum level that is written.
type Filter struct {
	defaultLevel zapcore.Level

	// sorted most specific target first
	directives []Directive
}

// NewFilter produces a Filter from a default level and a comma-separated list of directives.
// Each directive is either target=level, a bare target (which enables everything for that
// target), or a bare level, which replaces defaultLevel.  When several directives match a
// logger name, the one with the longest target wins.
func NewFilter(defaultLevel, directives string) (*Filter, error) {
	lvl, err := ParseLevel(defaultLevel)
	if err != nil {
		return nil, err
	}

	f := &Filter{defaultLevel: lvl}
	for _, part := range strings.Split(directives, ",") {
		part = strings.TrimSpace(part)
		if len(part) == 0 {
			continue
		}

		target, level, hasLevel := strings.Cut(part, "=")
		target = strings.TrimSpace(target)
		if !hasLevel {
			if l, err := ParseLevel(target); err == nil {
				f.defaultLevel = l
				continue
			}

			f.directives = append(f.directives, Directive{Target: target, Level: zapcore.DebugLevel})
			continue
		}

		if len(target) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDirective, part)
		}

		l, err := ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %s", ErrInvalidDirective, part, err)
		}

		f.directives = append(f.directives, Directive{Target: target, Level: l})
	}

	sort.SliceStable(f.directives, func(i, j int) bool {
		return len(f.directives[i].Target) > len(f.directives[j].Target)
	})

	return f, nil
}

// Level returns the minimum level enabled for the named logger.
func (f *Filter) Level(name string) zapcore.Level {
	for _, d := range f.directives {
		if d.matches(name) {
			return d.Level
		}
	}

	return f.defaultLevel
}

// Enabled tests whether an entry at lvl from the named logger is written.
func (f *Filter) Enabled(name string, lvl zapcore.Level) bool {
	return lvl >= f.Level(name)
}

// MinLevel is the most verbose level any logger can write.  It's used as the fast-path
// check that happens before a logger name is known.
func (f *Filter) MinLevel() zapcore.Level {
	lowest := f.defaultLevel
	for _, d := range f.directives {
		if d.Level < lowest {
			lowest = d.Level
		}
	}

	return lowest
}

// filterCore applies a Filter in front of another core.  The wrapped core should accept
// every level; the filter is the only gate.
type filterCore struct {
	zapcore.Core
	filter *Filter
}

// NewFilterCore decorates next so that entries are only written when f allows them.
func NewFilterCore(next zapcore.Core, f *Filter) zapcore.Core {
	return &filterCore{Core: next, filter: f}
}

func (fc *filterCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= fc.filter.MinLevel()
}

func (fc *filterCore) With(fields []zapcore.Field) zapcore.Core {
	return &filterCore{
		Core:   fc.Core.With(fields),
		filter: fc.filter,
	}
}

func (fc *filterCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if fc.filter.Enabled(e.LoggerName, e.Level) {
		return fc.Core.Check(e, ce)
	}

	return ce
}
