package tracebase

import "github.com/tatchi/trace-go/traceat"

// SpanData is the (name, flavor) record a manual span carries from
// enter to exit.
type SpanData struct {
	Name   string
	Flavor Flavor
}

// ExplicitSpan is the owned handle for a manual span.  The collector
// keeps no per-span state for manual spans: the handle is the state.
// It must be carried through the program's async machinery to the one
// ExitManualSpan call that consumes it.
type ExplicitSpan struct {
	ID   SpanID
	Meta traceat.Map
}

// AsyncID carries the asynchronous correlation id on an ExplicitSpan.
// Child manual spans inherit it from their parent, so a whole async
// request shares one id.
var AsyncID = traceat.NewKey[SpanID](traceat.Make{
	Key:       "async.id",
	Namespace: "trace-go-0.1.0",
})

// AsyncData carries the (name, flavor) record installed at enter and
// read back at exit.
var AsyncData = traceat.NewKey[SpanData](traceat.Make{
	Key:       "async.data",
	Namespace: "trace-go-0.1.0",
})
