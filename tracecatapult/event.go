package tracecatapult

import "github.com/tatchi/trace-go/tracebase"

type eventKind int8

const (
	evTick eventKind = iota
	evMessage
	evDefineSpan
	evExitSpan
	evEnterManual
	evExitManual
	evCounter
	evNameThread
	evNameProcess
)

// event is the tagged variant moved from emitters to the writer
// goroutine.  Which fields are meaningful depends on kind; events own
// their payloads (attrs included) so the writer never shares memory
// with emitters.
type event struct {
	kind   eventKind
	tid    int64
	time   float64 // microseconds
	span   tracebase.SpanID
	flavor tracebase.Flavor
	name   string // span/counter/thread name, or message text
	fun    string
	attrs  []tracebase.Attr
	value  tracebase.Datum // counter sample
}

// spanEntry is the registry record for an open scope-span.  The
// registry is owned by the writer goroutine; no locking.
type spanEntry struct {
	tid   int64
	name  string
	start float64
	attrs []tracebase.Attr
	fun   string
}
