package trace

import (
	"fmt"
	"runtime"

	"github.com/tatchi/trace-go/tracebase"
)

// Aliases so most instrumentation only imports this package.
type (
	SpanID       = tracebase.SpanID
	Attr         = tracebase.Attr
	Datum        = tracebase.Datum
	Flavor       = tracebase.Flavor
	ExplicitSpan = tracebase.ExplicitSpan
	Collector    = tracebase.Collector
)

const (
	NoSpan            = tracebase.NoSpan
	FlavorUnspecified = tracebase.FlavorUnspecified
	FlavorSync        = tracebase.FlavorSync
	FlavorAsync       = tracebase.FlavorAsync
)

func A(key string, value Datum) Attr { return tracebase.A(key, value) }
func None() Datum                    { return tracebase.None() }
func Int(v int64) Datum              { return tracebase.Int(v) }
func Bool(v bool) Datum              { return tracebase.Bool(v) }
func Str(v string) Datum             { return tracebase.Str(v) }
func Float(v float64) Datum          { return tracebase.Float(v) }

// caller resolves the instrumentation site two frames up.
func caller() (fun, file string, line int) {
	pc, file, line, ok := runtime.Caller(2)
	if !ok {
		return "", "", 0
	}
	if f := runtime.FuncForPC(pc); f != nil {
		fun = f.Name()
	}
	return fun, file, line
}

// WithSpan runs body inside a scope-span.  With no collector
// installed, body still runs, with NoSpan.  The body's error (and any
// panic) propagates unchanged after the span is closed.
func WithSpan(name string, attrs []Attr, body func(SpanID) error) error {
	c, ok := Current()
	if !ok {
		return body(NoSpan)
	}
	fun, file, line := caller()
	return c.WithSpan(fun, file, line, attrs, name, body)
}

// WithSpanValue is WithSpan for bodies that produce a value.
func WithSpanValue[R any](name string, attrs []Attr, body func(SpanID) (R, error)) (R, error) {
	var out R
	err := WithSpan(name, attrs, func(span SpanID) error {
		var err error
		out, err = body(span)
		return err
	})
	return out, err
}

// EnterManualSpan opens a span whose lifetime is controlled by the
// caller.  Close it with ExitManualSpan, exactly once, possibly on
// another goroutine.
func EnterManualSpan(parent *ExplicitSpan, flavor Flavor, name string, attrs ...Attr) ExplicitSpan {
	c, ok := Current()
	if !ok {
		return ExplicitSpan{ID: NoSpan}
	}
	fun, file, line := caller()
	return c.EnterManualSpan(parent, flavor, fun, file, line, attrs, name)
}

func ExitManualSpan(es ExplicitSpan) {
	c, ok := Current()
	if !ok || es.ID == NoSpan {
		return
	}
	c.ExitManualSpan(es)
}

// Message emits an instant event.
func Message(msg string, attrs ...Attr) {
	if c, ok := Current(); ok {
		c.Message(NoSpan, attrs, msg)
	}
}

// MessageAt is Message with an informational span association.
func MessageAt(span SpanID, msg string, attrs ...Attr) {
	if c, ok := Current(); ok {
		c.Message(span, attrs, msg)
	}
}

// Messagef formats and emits an instant event.  The format arguments
// are not formatted unless a collector is installed.
func Messagef(format string, args ...any) {
	if c, ok := Current(); ok {
		c.Message(NoSpan, nil, fmt.Sprintf(format, args...))
	}
}

func CounterInt(name string, value int64) {
	if c, ok := Current(); ok {
		c.CounterInt(name, value)
	}
}

func CounterFloat(name string, value float64) {
	if c, ok := Current(); ok {
		c.CounterFloat(name, value)
	}
}

// NameThread attaches a display name to the calling thread.
func NameThread(name string) {
	if c, ok := Current(); ok {
		c.NameThread(name)
	}
}

// NameProcess attaches a display name to the process.
func NameProcess(name string) {
	if c, ok := Current(); ok {
		c.NameProcess(name)
	}
}
