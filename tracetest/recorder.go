/*
Package tracetest provides an introspective collector.  Everything
emitted is saved to memory and can be examined, which makes facade
and instrumentation tests independent of any serialization format.
*/
package tracetest

import (
	"sync"
	"sync/atomic"

	"github.com/tatchi/trace-go/traceat"
	"github.com/tatchi/trace-go/tracebase"

	"github.com/muir/list"
)

type EventType int

const (
	SpanStart EventType = iota
	SpanDone
	ManualEnter
	ManualExit
	MessageEvent
	CounterEvent
	ThreadNameEvent
	ProcessNameEvent
)

func (t EventType) String() string {
	switch t {
	case SpanStart:
		return "spanStart"
	case SpanDone:
		return "spanDone"
	case ManualEnter:
		return "manualEnter"
	case ManualExit:
		return "manualExit"
	case MessageEvent:
		return "message"
	case CounterEvent:
		return "counter"
	case ThreadNameEvent:
		return "threadName"
	case ProcessNameEvent:
		return "processName"
	default:
		return "unknown"
	}
}

// Event is one recorded collector call.
type Event struct {
	Type   EventType
	Span   tracebase.SpanID
	Name   string // span name, counter name, display name, or message
	Flavor tracebase.Flavor
	Attrs  []tracebase.Attr
	Value  tracebase.Datum // counter sample
	Fun    string
	File   string
	Line   int
}

// Recorder implements tracebase.Collector by remembering every call.
type Recorder struct {
	mu        sync.Mutex
	events    []Event
	spanIDs   int64
	shutdowns int
}

var _ tracebase.Collector = &Recorder{}

func New() *Recorder { return &Recorder{} }

func (r *Recorder) record(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *Recorder) nextSpanID() tracebase.SpanID {
	return tracebase.SpanID(atomic.AddInt64(&r.spanIDs, 1) - 1)
}

func (r *Recorder) WithSpan(fun, file string, line int, attrs []tracebase.Attr, name string, body func(tracebase.SpanID) error) error {
	id := r.nextSpanID()
	r.record(Event{Type: SpanStart, Span: id, Name: name, Attrs: list.Copy(attrs), Fun: fun, File: file, Line: line})
	defer r.record(Event{Type: SpanDone, Span: id, Name: name})
	return body(id)
}

func (r *Recorder) EnterManualSpan(parent *tracebase.ExplicitSpan, flavor tracebase.Flavor, fun, file string, line int, attrs []tracebase.Attr, name string) tracebase.ExplicitSpan {
	var id tracebase.SpanID
	if parent != nil {
		if inherited, ok := traceat.Find(parent.Meta, tracebase.AsyncID); ok {
			id = inherited
		} else {
			id = r.nextSpanID()
		}
	} else {
		id = r.nextSpanID()
	}
	r.record(Event{Type: ManualEnter, Span: id, Name: name, Flavor: flavor, Attrs: list.Copy(attrs), Fun: fun, File: file, Line: line})
	meta := traceat.Add(traceat.Map{}, tracebase.AsyncID, id)
	meta = traceat.Add(meta, tracebase.AsyncData, tracebase.SpanData{Name: name, Flavor: flavor})
	return tracebase.ExplicitSpan{ID: id, Meta: meta}
}

func (r *Recorder) ExitManualSpan(es tracebase.ExplicitSpan) {
	var data tracebase.SpanData
	if d, ok := traceat.Find(es.Meta, tracebase.AsyncData); ok {
		data = d
	}
	r.record(Event{Type: ManualExit, Span: es.ID, Name: data.Name, Flavor: data.Flavor})
}

func (r *Recorder) Message(span tracebase.SpanID, attrs []tracebase.Attr, msg string) {
	r.record(Event{Type: MessageEvent, Span: span, Name: msg, Attrs: list.Copy(attrs)})
}

func (r *Recorder) CounterInt(name string, value int64) {
	r.record(Event{Type: CounterEvent, Name: name, Value: tracebase.Int(value)})
}

func (r *Recorder) CounterFloat(name string, value float64) {
	r.record(Event{Type: CounterEvent, Name: name, Value: tracebase.Float(value)})
}

func (r *Recorder) NameThread(name string) {
	r.record(Event{Type: ThreadNameEvent, Name: name})
}

func (r *Recorder) NameProcess(name string) {
	r.record(Event{Type: ProcessNameEvent, Name: name})
}

func (r *Recorder) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shutdowns++
}

// Events returns a copy of everything recorded so far, in order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return list.Copy(r.events)
}

// Count returns how many events of the given type were recorded.
func (r *Recorder) Count(t EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

// Find returns the first event with the given type and name.
func (r *Recorder) Find(t EventType, name string) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range r.events {
		if ev.Type == t && ev.Name == name {
			return ev, true
		}
	}
	return Event{}, false
}

// Shutdowns reports how many times Shutdown was called.
func (r *Recorder) Shutdowns() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shutdowns
}
