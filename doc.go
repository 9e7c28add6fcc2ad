/*
Package trace is a tracing facade with a pluggable collector.

Instrumented code calls the package-level forwarders (WithSpan,
Message, CounterInt, ...).  They delegate to the one collector
installed with Install, or do nothing when none is.  The
tracecatapult subpackage provides the reference collector, which
writes Catapult / Chrome Trace Event JSON.

	_, _ = trace.InitFromEnv() // honors $TRACE
	defer trace.Shutdown()

	err := trace.WithSpan("load", nil, func(span trace.SpanID) error {
		trace.Message("loading", trace.A("path", trace.Str(path)))
		return load(path)
	})
*/
package trace
