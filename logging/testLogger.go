package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// testLogger is implemented by testing.T and testing.B
type testLogger interface {
	Log(...interface{})
}

// testWriter implements io.Writer and delegates to a testLogger
type testWriter struct {
	testLogger
}

func (t testWriter) Write(data []byte) (int, error) {
	t.testLogger.Log(string(data))
	return len(data), nil
}

func (t testWriter) Sync() error {
	return nil
}

// NewTestWriter returns a zapcore.WriteSyncer which delegates to a testing log.
// The returned writer does not need to be synchronized.
func NewTestWriter(t testLogger) zapcore.WriteSyncer {
	return testWriter{t}
}

// NewTestLogger produces a Logger which delegates to the supplied testing log.
func NewTestLogger(o *Options, t testLogger) *zap.Logger {
	if o == nil {
		// we want to see all log output in tests by default
		o = &Options{Level: "debug"}
	}

	core, err := NewCore(o, NewTestWriter(t))
	if err != nil {
		panic(err)
	}

	return zap.New(core)
}
