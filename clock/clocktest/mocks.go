package clocktest

import (
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/xmidt-org/otlp-debug/clock"
)

// Mock is a stretchr mock for a clock.  In addition to implementing clock.Interface and supplying
// mock behavior, other methods that make mocking a bit easier are supplied.
type Mock struct {
	mock.Mock
}

var _ clock.Interface = (*Mock)(nil)

func (m *Mock) Now() time.Time {
	return m.Called().Get(0).(time.Time)
}

func (m *Mock) OnNow(v time.Time) *mock.Call {
	return m.On("Now").Return(v)
}

func (m *Mock) Since(t time.Time) time.Duration {
	return m.Called(t).Get(0).(time.Duration)
}

func (m *Mock) OnSince(t time.Time, d time.Duration) *mock.Call {
	return m.On("Since", t).Return(d)
}

func (m *Mock) Sleep(d time.Duration) {
	m.Called(d)
}

func (m *Mock) OnSleep(d time.Duration) *mock.Call {
	return m.On("Sleep", d)
}

// Sleeps returns the durations passed to Sleep, in call order
func (m *Mock) Sleeps() []time.Duration {
	var sleeps []time.Duration
	for _, c := range m.Calls {
		if c.Method == "Sleep" {
			sleeps = append(sleeps, c.Arguments.Get(0).(time.Duration))
		}
	}

	return sleeps
}

// OnVirtual sets up Now, Since and Sleep so that the mock behaves as a clock which starts at
// start and only moves forward when Sleep is called.  Every call is still recorded.
// The returned mock must only be used from one goroutine at a time.
func (m *Mock) OnVirtual(start time.Time) {
	current := start

	now := m.OnNow(start)
	now.Run(func(mock.Arguments) {
		now.ReturnArguments = mock.Arguments{current}
	})

	since := m.On("Since", mock.Anything).Return(time.Duration(0))
	since.Run(func(args mock.Arguments) {
		since.ReturnArguments = mock.Arguments{current.Sub(args.Get(0).(time.Time))}
	})

	m.On("Sleep", mock.Anything).Run(func(args mock.Arguments) {
		current = current.Add(args.Get(0).(time.Duration))
	})
}
