package tracebase

import "math"

// SpanID identifies a span within one collector lifecycle.  IDs are
// dense, allocated from a monotonic counter.
type SpanID int64

// NoSpan is the sentinel for "no span".  The facade passes it to span
// bodies when no collector is installed.
const NoSpan SpanID = math.MinInt64

// Flavor distinguishes manual spans that begin and end on the same
// thread from those that cross threads.
type Flavor int

const (
	FlavorUnspecified Flavor = iota
	FlavorSync
	FlavorAsync
)

func (f Flavor) String() string {
	switch f {
	case FlavorSync:
		return "sync"
	case FlavorAsync:
		return "async"
	default:
		return "unspecified"
	}
}

// Collector is the bottom half of the tracing facade -- the part that
// actually records events somewhere.  There can be many Collector
// implementations; at most one is installed at a time.
//
// Every method is safe to call from any goroutine.  Apart from
// Shutdown, and the body that WithSpan runs, none blocks for longer
// than a bounded enqueue.
type Collector interface {
	// WithSpan opens a scope-span, runs body, and closes the span
	// on every exit path, panics included.  The body's error (and
	// any panic) propagates unchanged.  Opening and closing
	// timestamps are sampled inside the call.
	WithSpan(fun, file string, line int, attrs []Attr, name string, body func(SpanID) error) error

	// EnterManualSpan opens a span not tied to a lexical scope.
	// When parent is non-nil the new span inherits its async
	// correlation id; otherwise a fresh id is allocated.  The
	// returned ExplicitSpan is the span's only state: carry it to
	// wherever ExitManualSpan will run.
	EnterManualSpan(parent *ExplicitSpan, flavor Flavor, fun, file string, line int, attrs []Attr, name string) ExplicitSpan

	// ExitManualSpan closes a span made by EnterManualSpan on this
	// collector.  Passing a span from another collector is
	// undefined.
	ExitManualSpan(es ExplicitSpan)

	// Message emits an instant event.  span is informational and
	// may be NoSpan.
	Message(span SpanID, attrs []Attr, msg string)

	CounterInt(name string, value int64)
	CounterFloat(name string, value float64)

	NameThread(name string)
	NameProcess(name string)

	// Shutdown blocks until every previously enqueued event has
	// been written and the output is closed.  Idempotent.
	Shutdown()
}
