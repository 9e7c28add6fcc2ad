package tracecatapult

import (
	"sync/atomic"
	"time"

	"github.com/tatchi/trace-go/traceat"
	"github.com/tatchi/trace-go/tracebase"
	"github.com/tatchi/trace-go/traceclock"
	"github.com/tatchi/trace-go/tracequeue"

	"github.com/google/uuid"
	"github.com/muir/list"
	"github.com/pkg/errors"
	"github.com/zoobzio/clockz"
)

const defaultTickInterval = 500 * time.Millisecond

// Engine implements tracebase.Collector.  Emitting methods construct
// one event each and push it on the queue; the writer goroutine does
// everything else.
type Engine struct {
	id        uuid.UUID
	clock     traceclock.Clock
	q         *tracequeue.Queue[event]
	w         *writer
	spanIDs   int64
	active    atomic.Bool
	done      chan struct{}
	report    func(error)
	tid       func() int64
	tickClock clockz.Clock
	tickEvery time.Duration
}

var _ tracebase.Collector = &Engine{}

func (e *Engine) ID() string { return e.id.String() }

func (e *Engine) nextSpanID() tracebase.SpanID {
	return tracebase.SpanID(atomic.AddInt64(&e.spanIDs, 1) - 1)
}

// push enqueues one event.  ErrClosed during a shutdown race is
// expected and swallowed; the event is lost, which is the documented
// behavior for emissions after shutdown.
func (e *Engine) push(ev event) {
	_ = e.q.Push(ev)
}

func (e *Engine) WithSpan(fun, file string, line int, attrs []tracebase.Attr, name string, body func(tracebase.SpanID) error) error {
	id := e.nextSpanID()
	e.push(event{
		kind:  evDefineSpan,
		span:  id,
		tid:   e.tid(),
		time:  e.clock.Now(),
		name:  name,
		fun:   fun,
		attrs: list.Copy(attrs),
	})
	defer func() {
		e.push(event{kind: evExitSpan, span: id, time: e.clock.Now()})
	}()
	return body(id)
}

func (e *Engine) EnterManualSpan(parent *tracebase.ExplicitSpan, flavor tracebase.Flavor, fun, file string, line int, attrs []tracebase.Attr, name string) tracebase.ExplicitSpan {
	var id tracebase.SpanID
	if parent != nil {
		if inherited, ok := traceat.Find(parent.Meta, tracebase.AsyncID); ok {
			id = inherited
		} else {
			id = e.nextSpanID()
		}
	} else {
		id = e.nextSpanID()
	}
	e.push(event{
		kind:   evEnterManual,
		span:   id,
		tid:    e.tid(),
		time:   e.clock.Now(),
		name:   name,
		flavor: flavor,
		fun:    fun,
		attrs:  list.Copy(attrs),
	})
	meta := traceat.Add(traceat.Map{}, tracebase.AsyncID, id)
	meta = traceat.Add(meta, tracebase.AsyncData, tracebase.SpanData{Name: name, Flavor: flavor})
	return tracebase.ExplicitSpan{ID: id, Meta: meta}
}

// ExitManualSpan reads everything it needs back out of the handle's
// metadata, so the engine holds no state for manual spans at all.
func (e *Engine) ExitManualSpan(es tracebase.ExplicitSpan) {
	id := es.ID
	if inherited, ok := traceat.Find(es.Meta, tracebase.AsyncID); ok {
		id = inherited
	}
	var data tracebase.SpanData
	if d, ok := traceat.Find(es.Meta, tracebase.AsyncData); ok {
		data = d
	}
	e.push(event{
		kind:   evExitManual,
		span:   id,
		tid:    e.tid(),
		time:   e.clock.Now(),
		name:   data.Name,
		flavor: data.Flavor,
	})
}

func (e *Engine) Message(span tracebase.SpanID, attrs []tracebase.Attr, msg string) {
	e.push(event{
		kind:  evMessage,
		span:  span,
		tid:   e.tid(),
		time:  e.clock.Now(),
		name:  msg,
		attrs: list.Copy(attrs),
	})
}

func (e *Engine) CounterInt(name string, value int64) {
	e.push(event{
		kind:  evCounter,
		tid:   e.tid(),
		time:  e.clock.Now(),
		name:  name,
		value: tracebase.Int(value),
	})
}

func (e *Engine) CounterFloat(name string, value float64) {
	e.push(event{
		kind:  evCounter,
		tid:   e.tid(),
		time:  e.clock.Now(),
		name:  name,
		value: tracebase.Float(value),
	})
}

func (e *Engine) NameThread(name string) {
	e.push(event{kind: evNameThread, tid: e.tid(), name: name})
}

func (e *Engine) NameProcess(name string) {
	e.push(event{kind: evNameProcess, name: name})
}

// Shutdown closes the queue exactly once and waits for the writer to
// drain it and finish the document.  Every caller waits; extra calls
// change nothing.
func (e *Engine) Shutdown() {
	if e.active.CompareAndSwap(true, false) {
		e.q.Close()
	}
	<-e.done
}

// writeLoop is the writer goroutine: handle the local batch, then
// block on Transfer for the next one.  Transfer failing with ErrClosed
// means the queue is closed and fully drained.
func (e *Engine) writeLoop() {
	defer close(e.done)
	local := make([]event, 0, 64)
	registry := make(map[tracebase.SpanID]spanEntry)
	for {
		for i := range local {
			e.handle(registry, &local[i])
		}
		local = local[:0]
		if err := e.q.Transfer(&local); err != nil {
			break
		}
	}
	e.w.close()
	if n := len(registry); n > 0 {
		e.report(errors.Errorf("tracecatapult: %d span(s) not closed at shutdown", n))
	}
}

func (e *Engine) handle(registry map[tracebase.SpanID]spanEntry, ev *event) {
	switch ev.kind {
	case evTick:
		e.w.flush()
	case evMessage:
		e.w.instant(ev.tid, ev.time, ev.name, ev.attrs)
	case evDefineSpan:
		registry[ev.span] = spanEntry{
			tid:   ev.tid,
			name:  ev.name,
			start: ev.time,
			attrs: ev.attrs,
			fun:   ev.fun,
		}
	case evExitSpan:
		entry, ok := registry[ev.span]
		if !ok {
			e.report(errors.Errorf("tracecatapult: exit for unknown span %d", ev.span))
			return
		}
		delete(registry, ev.span)
		e.w.duration(entry.tid, entry.start, ev.time-entry.start, entry.name, entry.attrs, entry.fun)
	case evEnterManual:
		e.w.beginManual(ev.tid, ev.time, ev.span, ev.name, ev.flavor, ev.attrs, ev.fun)
	case evExitManual:
		e.w.endManual(ev.tid, ev.time, ev.span, ev.name, ev.flavor)
	case evCounter:
		e.w.counter(ev.tid, ev.time, ev.name, ev.value)
	case evNameThread:
		e.w.threadName(ev.tid, ev.name)
	case evNameProcess:
		e.w.processName(ev.name)
	}
}

// tickLoop pushes a flush marker on a fixed cadence.  It learns about
// shutdown from the failed push and exits; nobody joins it.
func (e *Engine) tickLoop() {
	for {
		<-e.tickClock.After(e.tickEvery)
		if e.q.Push(event{kind: evTick}) != nil {
			return
		}
	}
}
