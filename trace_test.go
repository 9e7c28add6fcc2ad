package trace_test

import (
	"testing"

	trace "github.com/tatchi/trace-go"
	"github.com/tatchi/trace-go/tracetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func install(t *testing.T) *tracetest.Recorder {
	t.Helper()
	r := tracetest.New()
	trace.Install(r)
	t.Cleanup(trace.Shutdown)
	return r
}

func TestFacadeForwarding(t *testing.T) {
	r := install(t)

	err := trace.WithSpan("work", []trace.Attr{trace.A("k", trace.Str("v"))}, func(span trace.SpanID) error {
		assert.NotEqual(t, trace.NoSpan, span)
		trace.MessageAt(span, "inside")
		return nil
	})
	require.NoError(t, err)

	trace.Message("hello", trace.A("n", trace.Int(1)))
	trace.Messagef("formatted %d", 42)
	trace.CounterInt("count", 7)
	trace.CounterFloat("load", 0.5)
	trace.NameThread("worker")
	trace.NameProcess("app")

	assert.Equal(t, 1, r.Count(tracetest.SpanStart))
	assert.Equal(t, 1, r.Count(tracetest.SpanDone))
	assert.Equal(t, 3, r.Count(tracetest.MessageEvent))
	assert.Equal(t, 2, r.Count(tracetest.CounterEvent))

	start, ok := r.Find(tracetest.SpanStart, "work")
	require.True(t, ok)
	assert.Contains(t, start.Fun, "TestFacadeForwarding")
	assert.NotEmpty(t, start.File)
	assert.NotZero(t, start.Line)
	require.Len(t, start.Attrs, 1)
	assert.Equal(t, "v", start.Attrs[0].Value.Str)

	_, ok = r.Find(tracetest.MessageEvent, "formatted 42")
	assert.True(t, ok)
	_, ok = r.Find(tracetest.ThreadNameEvent, "worker")
	assert.True(t, ok)
	_, ok = r.Find(tracetest.ProcessNameEvent, "app")
	assert.True(t, ok)
}

func TestWithSpanValue(t *testing.T) {
	install(t)
	v, err := trace.WithSpanValue("compute", nil, func(span trace.SpanID) (int, error) {
		return 41 + 1, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestErrorPropagates(t *testing.T) {
	r := install(t)
	err := trace.WithSpan("failing", nil, func(trace.SpanID) error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, r.Count(tracetest.SpanDone), "span closed despite error")
}

func TestPanicPropagatesAfterSpanClose(t *testing.T) {
	r := install(t)
	assert.Panics(t, func() {
		_ = trace.WithSpan("boom", nil, func(trace.SpanID) error {
			panic("boom")
		})
	})
	assert.Equal(t, 1, r.Count(tracetest.SpanDone))
}

func TestManualSpanInheritance(t *testing.T) {
	r := install(t)

	es := trace.EnterManualSpan(nil, trace.FlavorAsync, "req")
	es2 := trace.EnterManualSpan(&es, trace.FlavorAsync, "sub")
	assert.Equal(t, es.ID, es2.ID, "child inherits the async correlation id")
	trace.ExitManualSpan(es2)
	trace.ExitManualSpan(es)

	assert.Equal(t, 2, r.Count(tracetest.ManualEnter))
	assert.Equal(t, 2, r.Count(tracetest.ManualExit))
	exit, ok := r.Find(tracetest.ManualExit, "sub")
	require.True(t, ok)
	assert.Equal(t, trace.FlavorAsync, exit.Flavor)
}

func TestNoCollectorInstalled(t *testing.T) {
	trace.Shutdown() // make sure the slot is empty
	assert.False(t, trace.Enabled())

	ran := false
	err := trace.WithSpan("work", nil, func(span trace.SpanID) error {
		ran = true
		assert.Equal(t, trace.NoSpan, span)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran, "body runs even without a collector")

	es := trace.EnterManualSpan(nil, trace.FlavorAsync, "req")
	assert.Equal(t, trace.NoSpan, es.ID)
	trace.ExitManualSpan(es)
	trace.Message("dropped")
	trace.CounterInt("n", 1)
}

func TestShutdownIdempotentAndClears(t *testing.T) {
	r := tracetest.New()
	trace.Install(r)
	assert.True(t, trace.Enabled())

	trace.Shutdown()
	trace.Shutdown()
	trace.Shutdown()

	assert.False(t, trace.Enabled())
	assert.Equal(t, 1, r.Shutdowns(), "only the first Shutdown reaches the collector")
}

func TestInstallReplaces(t *testing.T) {
	r1 := tracetest.New()
	trace.Install(r1)
	r2 := tracetest.New()
	trace.Install(r2)
	t.Cleanup(trace.Shutdown)

	trace.Message("for r2")
	assert.Equal(t, 0, r1.Count(tracetest.MessageEvent))
	assert.Equal(t, 1, r2.Count(tracetest.MessageEvent))

	c, ok := trace.Current()
	require.True(t, ok)
	assert.Same(t, trace.Collector(r2), c)
}
