// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package concurrent

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Panic is the outcome of a task whose function panicked.  Value is exactly what was
// passed to panic, and Stack is the stack trace of the spawned goroutine at that point.
type Panic struct {
	Value interface{}
	Stack []byte
}

func (p *Panic) String() string {
	return fmt.Sprintf("task panicked: %v\n\n%s", p.Value, p.Stack)
}

// Task is a handle to a function running on its own goroutine.  Tasks must be created
// with Spawn.
type Task struct {
	done   chan struct{}
	caught *Panic
}

// Spawn starts f on a new goroutine and returns a handle that can be joined.
func Spawn(f func()) *Task {
	t := &Task{
		done: make(chan struct{}),
	}

	go t.run(f)
	return t
}

func (t *Task) run(f func()) {
	defer close(t.done)
	defer func() {
		if r := recover(); r != nil {
			t.caught = &Panic{Value: r, Stack: debug.Stack()}
		}
	}()

	f()
}

// Done returns a channel that is closed once the task's function has returned or panicked.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Recovered returns the captured panic, or nil if the task has not finished or did not panic.
// This method never re-raises.
func (t *Task) Recovered() *Panic {
	select {
	case <-t.done:
		return t.caught
	default:
		return nil
	}
}

// Join blocks until the task finishes.  If the task panicked, Join panics with the
// original value on the calling goroutine.
func (t *Task) Join() {
	<-t.done
	t.resume()
}

// JoinTimeout is like Join, but waits at most timeout.  It returns false if the task
// was still running when the timeout elapsed, in which case nothing is re-raised.
func (t *Task) JoinTimeout(timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-t.done:
		t.resume()
		return true
	case <-timer.C:
		return false
	}
}

func (t *Task) resume() {
	if t.caught != nil {
		panic(t.caught.Value)
	}
}
