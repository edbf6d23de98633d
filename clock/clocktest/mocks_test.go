package clocktest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMock(t *testing.T) {
	var (
		assert = assert.New(t)
		m      = new(Mock)
		start  = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	)

	m.OnNow(start).Once()
	m.OnSince(start, 3*time.Second).Once()
	m.OnSleep(time.Second).Once()

	assert.Equal(start, m.Now())
	assert.Equal(3*time.Second, m.Since(start))
	m.Sleep(time.Second)

	assert.Equal([]time.Duration{time.Second}, m.Sleeps())
	m.AssertExpectations(t)
}

func TestMockOnVirtual(t *testing.T) {
	var (
		assert = assert.New(t)
		m      = new(Mock)
		start  = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	)

	m.OnVirtual(start)
	assert.Equal(start, m.Now())

	m.Sleep(500 * time.Millisecond)
	mark := m.Now()
	assert.Equal(start.Add(500*time.Millisecond), mark)

	m.Sleep(250 * time.Millisecond)
	assert.Equal(750*time.Millisecond, m.Since(start))
	assert.Equal(250*time.Millisecond, m.Since(mark))
	assert.Equal([]time.Duration{500 * time.Millisecond, 250 * time.Millisecond}, m.Sleeps())
}
