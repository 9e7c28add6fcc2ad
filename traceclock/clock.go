// Package traceclock provides the microsecond timestamp source used
// by collectors, plus the process-wide mock switch used for snapshot
// testing.
package traceclock

import (
	"os"
	"sync/atomic"
	"time"

	"github.com/zoobzio/clockz"
)

// Clock produces monotonic timestamps in microseconds.
type Clock interface {
	Now() float64
}

type wallClock struct {
	clock clockz.Clock
	start time.Time
}

// NewWallClock returns a Clock measuring microseconds elapsed since
// its creation, as observed by c.  Pass a fake clock in tests.
func NewWallClock(c clockz.Clock) Clock {
	return &wallClock{clock: c, start: c.Now()}
}

// Wall returns a Clock backed by the real system clock.
func Wall() Clock {
	return NewWallClock(clockz.RealClock)
}

func (c *wallClock) Now() float64 {
	return float64(c.clock.Now().Sub(c.start).Nanoseconds()) / 1e3
}

// CounterClock yields 0, 1, 2, ... one step per observation.  It is
// the clock behind mock mode.
type CounterClock struct {
	n int64
}

func NewCounterClock() *CounterClock { return &CounterClock{} }

func (c *CounterClock) Now() float64 {
	return float64(atomic.AddInt64(&c.n, 1) - 1)
}

const (
	// MockPID and MockTID replace the process and thread ids when
	// mock mode is on.
	MockPID = 2
	MockTID = 3
)

var mocked atomic.Bool

// EnableMockMode switches the process into mock mode: collectors
// created afterwards use a CounterClock and the fixed mock pid/tid.
// One-way; there is no way back.
func EnableMockMode() { mocked.Store(true) }

// Mocked reports whether mock mode is on.
func Mocked() bool { return mocked.Load() }

// PID returns the process id, or MockPID in mock mode.
func PID() int {
	if Mocked() {
		return MockPID
	}
	return os.Getpid()
}

// TID returns the id of the OS thread the calling goroutine is
// running on (on non-linux builds, the goroutine id), or MockTID in
// mock mode.
func TID() int64 {
	if Mocked() {
		return MockTID
	}
	return osThreadID()
}
