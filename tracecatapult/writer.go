package tracecatapult

import (
	"io"
	"os"

	"github.com/tatchi/trace-go/traceat"
	"github.com/tatchi/trace-go/tracebase"
	"github.com/tatchi/trace-go/traceutil"

	"github.com/pkg/errors"
)

// writer is the stateful Catapult document writer.  It is owned by
// the writer goroutine and appends one JSON object per event, never
// reading back or rewriting emitted bytes.  Output is buffered in the
// JBuilder and pushed to out on flush (tick events) and on close.
type writer struct {
	b       traceutil.JBuilder
	out     io.Writer
	file    *os.File // closed by close() when the writer opened it
	opener  []byte   // prebuilt `{"pid":N` event opener
	started bool
	failed  bool
	report  func(error)
}

func newWriter(out io.Writer, file *os.File, pid int, report func(error)) *writer {
	w := &writer{
		out:    out,
		file:   file,
		report: report,
	}
	var p traceutil.JBuilder
	p.AppendString(`{"pid":`)
	p.AddInt64(int64(pid))
	w.opener = p.B
	w.b.AppendByte('[')
	return w
}

// open starts the next event object: separator, then `{"pid":N`.
func (w *writer) open() {
	if w.started {
		w.b.AppendString(",\n")
	} else {
		w.started = true
	}
	w.b.AppendBytes(w.opener)
}

func (w *writer) datum(d tracebase.Datum) {
	switch d.Type {
	case tracebase.DatumInt:
		w.b.AddInt64(d.Int)
	case tracebase.DatumBool:
		w.b.AddBool(d.Bool)
	case tracebase.DatumString:
		w.b.AddString(d.Str)
	case tracebase.DatumFloat:
		w.b.AddFloat64(d.Float)
	default:
		w.b.AppendString("null")
	}
}

// args emits the trailing `,"args":{...}` object, or nothing at all
// when there is nothing to put in it.
func (w *writer) args(attrs []tracebase.Attr, fun string) {
	if len(attrs) == 0 && fun == "" {
		return
	}
	w.b.AppendString(`,"args":{`)
	for _, a := range attrs {
		w.b.Comma()
		w.b.AppendBytes(a.Key.JSON())
		w.b.AppendByte(':')
		w.datum(a.Value)
	}
	if fun != "" {
		w.b.Comma()
		w.b.AppendString(`"function":`)
		w.b.AddString(fun)
	}
	w.b.AppendByte('}')
}

// duration emits a complete event (ph "X") for a closed scope-span.
func (w *writer) duration(tid int64, ts, dur float64, name string, attrs []tracebase.Attr, fun string) {
	if w.failed {
		return
	}
	w.open()
	w.b.AppendString(`,"cat":"","tid":`)
	w.b.AddInt64(tid)
	w.b.AppendString(`,"dur":`)
	w.b.AddFixed2(dur)
	w.b.AppendString(`,"ts":`)
	w.b.AddFixed2(ts)
	w.b.AppendString(`,"name":`)
	w.b.AddString(name)
	w.b.AppendString(`,"ph":"X"`)
	w.args(attrs, fun)
	w.b.AppendByte('}')
}

// beginManual emits ph "B" for sync spans, "b" for everything else.
func (w *writer) beginManual(tid int64, ts float64, id tracebase.SpanID, name string, flavor tracebase.Flavor, attrs []tracebase.Attr, fun string) {
	if w.failed {
		return
	}
	w.open()
	w.b.AppendString(`,"cat":"trace","id":`)
	w.b.AddInt64(int64(id))
	w.b.AppendString(`,"tid":`)
	w.b.AddInt64(tid)
	w.b.AppendString(`,"ts":`)
	w.b.AddFixed2(ts)
	w.b.AppendString(`,"name":`)
	w.b.AddString(name)
	if flavor == tracebase.FlavorSync {
		w.b.AppendString(`,"ph":"B"`)
	} else {
		w.b.AppendString(`,"ph":"b"`)
	}
	w.args(attrs, fun)
	w.b.AppendByte('}')
}

func (w *writer) endManual(tid int64, ts float64, id tracebase.SpanID, name string, flavor tracebase.Flavor) {
	if w.failed {
		return
	}
	w.open()
	w.b.AppendString(`,"cat":"trace","id":`)
	w.b.AddInt64(int64(id))
	w.b.AppendString(`,"tid":`)
	w.b.AddInt64(tid)
	w.b.AppendString(`,"ts":`)
	w.b.AddFixed2(ts)
	w.b.AppendString(`,"name":`)
	w.b.AddString(name)
	if flavor == tracebase.FlavorSync {
		w.b.AppendString(`,"ph":"E"}`)
	} else {
		w.b.AppendString(`,"ph":"e"}`)
	}
}

func (w *writer) instant(tid int64, ts float64, msg string, attrs []tracebase.Attr) {
	if w.failed {
		return
	}
	w.open()
	w.b.AppendString(`,"cat":"","tid":`)
	w.b.AddInt64(tid)
	w.b.AppendString(`,"ts":`)
	w.b.AddFixed2(ts)
	w.b.AppendString(`,"name":`)
	w.b.AddString(msg)
	w.b.AppendString(`,"ph":"I"`)
	w.args(attrs, "")
	w.b.AppendByte('}')
}

// counter emits ph "C" with a single-entry args object: the counter's
// display name mapped to the sample.
func (w *writer) counter(tid int64, ts float64, name string, value tracebase.Datum) {
	if w.failed {
		return
	}
	w.open()
	w.b.AppendString(`,"tid":`)
	w.b.AddInt64(tid)
	w.b.AppendString(`,"ts":`)
	w.b.AddFixed2(ts)
	w.b.AppendString(`,"name":"c","ph":"C","args":{`)
	w.b.AppendBytes(traceat.K(name).JSON())
	w.b.AppendByte(':')
	w.datum(value)
	w.b.AppendString(`}}`)
}

func (w *writer) threadName(tid int64, name string) {
	if w.failed {
		return
	}
	w.open()
	w.b.AppendString(`,"tid":`)
	w.b.AddInt64(tid)
	w.b.AppendString(`,"name":"thread_name","ph":"M","args":{"name":`)
	w.b.AddString(name)
	w.b.AppendString(`}}`)
}

func (w *writer) processName(name string) {
	if w.failed {
		return
	}
	w.open()
	w.b.AppendString(`,"name":"process_name","ph":"M","args":{"name":`)
	w.b.AddString(name)
	w.b.AppendString(`}}`)
}

// flush pushes buffered bytes to the sink.  After the first write
// error the writer goes dark: events are still consumed (so shutdown
// completes) but nothing more reaches the sink.
func (w *writer) flush() {
	if w.failed || len(w.b.B) == 0 {
		return
	}
	_, err := w.out.Write(w.b.B)
	w.b.Reset()
	if err != nil {
		w.failed = true
		w.report(errors.Wrap(err, "tracecatapult: write failed"))
	}
}

// close terminates the document and releases the sink.
func (w *writer) close() {
	w.b.AppendByte(']')
	w.flush()
	if w.file != nil {
		if err := w.file.Close(); err != nil && !w.failed {
			w.report(errors.Wrap(err, "tracecatapult: close failed"))
		}
	}
}
