package tracecatapult

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tatchi/trace-go/traceclock"
	"github.com/tatchi/trace-go/tracequeue"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/zoobzio/clockz"
)

type Option func(*config)

type config struct {
	out       io.Writer
	path      string
	clock     traceclock.Clock
	pid       int
	tid       func() int64
	tickClock clockz.Clock
	tickEvery time.Duration
	report    func(error)
}

// WithWriter sends output to w.  The writer is not closed on
// shutdown.
func WithWriter(w io.Writer) Option {
	return func(c *config) {
		c.out = w
		c.path = ""
	}
}

func WithStdout() Option { return WithWriter(os.Stdout) }
func WithStderr() Option { return WithWriter(os.Stderr) }

// WithFile sends output to path.  The file is created or truncated
// when the engine starts and closed when the writer goroutine
// finishes.
func WithFile(path string) Option {
	return func(c *config) {
		c.path = path
		c.out = nil
	}
}

// WithClock overrides the timestamp source.
func WithClock(clock traceclock.Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithTicker overrides the flush ticker's clock and cadence.  Tests
// pass a clockz fake clock to drive flushes by hand.
func WithTicker(clock clockz.Clock, every time.Duration) Option {
	return func(c *config) {
		c.tickClock = clock
		c.tickEvery = every
	}
}

// WithMockMode makes this engine deterministic regardless of the
// process-wide switch: counter clock from zero, pid 2, tid 3.
func WithMockMode() Option {
	return func(c *config) {
		c.clock = traceclock.NewCounterClock()
		c.pid = traceclock.MockPID
		c.tid = func() int64 { return traceclock.MockTID }
	}
}

// WithErrorReporter replaces the diagnostic channel, which defaults
// to stderr.
func WithErrorReporter(f func(error)) Option {
	return func(c *config) {
		c.report = f
	}
}

func defaultReporter(err error) {
	fmt.Fprintln(os.Stderr, err)
}

// New builds an engine and starts its writer and ticker goroutines.
// With no options output goes to stdout with real time.
func New(opts ...Option) (*Engine, error) {
	c := config{
		out:       os.Stdout,
		pid:       traceclock.PID(),
		tid:       traceclock.TID,
		tickClock: clockz.RealClock,
		tickEvery: defaultTickInterval,
		report:    defaultReporter,
	}
	if traceclock.Mocked() {
		WithMockMode()(&c)
	}
	for _, f := range opts {
		f(&c)
	}
	if c.clock == nil {
		c.clock = traceclock.Wall()
	}

	var file *os.File
	out := c.out
	if c.path != "" {
		f, err := os.Create(c.path)
		if err != nil {
			return nil, errors.Wrapf(err, "tracecatapult: cannot open '%s'", c.path)
		}
		file = f
		out = f
	}

	e := &Engine{
		id:        uuid.New(),
		clock:     c.clock,
		q:         tracequeue.New[event](),
		w:         newWriter(out, file, c.pid, c.report),
		done:      make(chan struct{}),
		report:    c.report,
		tid:       c.tid,
		tickClock: c.tickClock,
		tickEvery: c.tickEvery,
	}
	e.active.Store(true)
	go e.writeLoop()
	go e.tickLoop()
	return e, nil
}
