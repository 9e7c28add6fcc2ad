package trace

import (
	"sync/atomic"

	"github.com/tatchi/trace-go/tracebase"
)

// holder wraps the collector so the slot can hold interface values in
// an atomic.Pointer.
type holder struct {
	c tracebase.Collector
}

var active atomic.Pointer[holder]

// Install makes c the process-wide collector, replacing any prior
// one.  The prior collector is not shut down; callers replacing a
// live collector shut the old one down themselves.
func Install(c tracebase.Collector) {
	active.Store(&holder{c: c})
}

// Current returns the installed collector, if any.
func Current() (tracebase.Collector, bool) {
	h := active.Load()
	if h == nil {
		return nil, false
	}
	return h.c, true
}

// Enabled reports whether a collector is installed.
func Enabled() bool {
	return active.Load() != nil
}

// Shutdown clears the slot and shuts the collector down, blocking
// until its queue is drained and its output closed.  Emissions that
// raced ahead of the swap still land in the collector's queue and are
// written; later ones are dropped.  Idempotent.
func Shutdown() {
	h := active.Swap(nil)
	if h != nil {
		h.c.Shutdown()
	}
}
