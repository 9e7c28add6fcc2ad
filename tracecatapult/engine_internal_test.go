package tracecatapult

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/clockz"
)

func newQuietEngine(t *testing.T, out *bytes.Buffer, report func(error)) *Engine {
	t.Helper()
	e, err := New(
		WithWriter(out),
		WithMockMode(),
		WithTicker(clockz.NewFakeClock(), 500*time.Millisecond),
		WithErrorReporter(report),
	)
	require.NoError(t, err)
	return e
}

func TestExitForUnknownSpanIsDroppedWithDiagnostic(t *testing.T) {
	var buf bytes.Buffer
	var reported []error
	e := newQuietEngine(t, &buf, func(err error) { reported = append(reported, err) })

	require.NoError(t, e.q.Push(event{kind: evExitSpan, span: 99, time: 5}))
	e.Shutdown()

	assert.Equal(t, "[]", buf.String(), "the bogus exit must not corrupt the document")
	require.Len(t, reported, 1)
	assert.Contains(t, reported[0].Error(), "unknown span 99")
}

func TestUnclosedSpansCountedAtShutdown(t *testing.T) {
	var buf bytes.Buffer
	var reported []error
	e := newQuietEngine(t, &buf, func(err error) { reported = append(reported, err) })

	require.NoError(t, e.q.Push(event{kind: evDefineSpan, span: 1, name: "left-open"}))
	require.NoError(t, e.q.Push(event{kind: evDefineSpan, span: 2, name: "also-open"}))
	e.Shutdown()

	assert.Equal(t, "[]", buf.String())
	require.Len(t, reported, 1)
	assert.Contains(t, reported[0].Error(), "2 span(s) not closed")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriteFailureReportedAndShutdownCompletes(t *testing.T) {
	var reported []error
	e, err := New(
		WithWriter(failingWriter{}),
		WithMockMode(),
		WithTicker(clockz.NewFakeClock(), 500*time.Millisecond),
		WithErrorReporter(func(err error) { reported = append(reported, err) }),
	)
	require.NoError(t, err)

	e.CounterInt("n", 1)
	e.Shutdown()

	require.Len(t, reported, 1)
	assert.Contains(t, reported[0].Error(), "write failed")
}

func TestPushAfterShutdownIsSwallowed(t *testing.T) {
	var buf bytes.Buffer
	e := newQuietEngine(t, &buf, func(error) {})
	e.Shutdown()

	// none of these may panic or block
	e.CounterInt("n", 1)
	e.Message(-1, nil, "late")
	e.NameProcess("late")
	assert.Equal(t, "[]", buf.String())
}

func TestFileSink(t *testing.T) {
	path := t.TempDir() + "/out.json"
	e, err := New(
		WithFile(path),
		WithMockMode(),
		WithTicker(clockz.NewFakeClock(), 500*time.Millisecond),
	)
	require.NoError(t, err)
	e.CounterInt("n", 7)
	e.Shutdown()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `[{"pid":2,"tid":3,"ts":0.00,"name":"c","ph":"C","args":{"n":7}}]`, string(raw))
}

func TestFileSinkBadPath(t *testing.T) {
	_, err := New(WithFile("/nonexistent-dir-for-sure/out.json"))
	assert.Error(t, err)
}
