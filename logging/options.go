package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	StdoutFile = "stdout"
	StderrFile = "stderr"

	// DefaultLevel is the default directive used when Options.Level is unset
	DefaultLevel = "error"
)

// Options stores the configuration of a Logger.  Lumberjack is used for rolling files.
type Options struct {
	// File is the system file path for the log file.  If unset or set to "stdout", this will
	// log to os.Stdout.  "stderr" logs to os.Stderr.  Otherwise, a lumberjack.Logger is created.
	File string `json:"file"`

	// MaxSize is the lumberjack MaxSize
	MaxSize int `json:"maxsize"`

	// MaxAge is the lumberjack MaxAge
	MaxAge int `json:"maxage"`

	// MaxBackups is the lumberjack MaxBackups
	MaxBackups int `json:"maxbackups"`

	// JSON is a flag indicating whether JSON logging output is used.  The default is false,
	// meaning that zap's console encoding is used.
	JSON bool `json:"json"`

	// Level is the default directive: trace, debug, info, warn, error, or off.  The empty
	// string is equivalent to DefaultLevel.
	Level string `json:"level"`

	// Filter holds comma-separated directives which override Level for particular loggers.
	Filter string `json:"filter"`
}

func (o *Options) output() zapcore.WriteSyncer {
	if o != nil {
		switch o.File {
		case "", StdoutFile:
		case StderrFile:
			return zapcore.Lock(os.Stderr)
		default:
			return zapcore.AddSync(&lumberjack.Logger{
				Filename:   o.File,
				MaxSize:    o.MaxSize,
				MaxAge:     o.MaxAge,
				MaxBackups: o.MaxBackups,
			})
		}
	}

	return zapcore.Lock(os.Stdout)
}

func (o *Options) encoder() zapcore.Encoder {
	if o != nil && o.JSON {
		ec := zap.NewProductionEncoderConfig()
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewJSONEncoder(ec)
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.CallerKey = zapcore.OmitKey
	return zapcore.NewConsoleEncoder(ec)
}

func (o *Options) level() string {
	if o != nil && len(o.Level) > 0 {
		return o.Level
	}

	return DefaultLevel
}

func (o *Options) filter() string {
	if o != nil {
		return o.Filter
	}

	return ""
}
