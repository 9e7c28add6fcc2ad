/*
Package tracecatapult is a collector that writes Catapult / Chrome
Trace Event JSON: a single top-level array of event objects that
chrome://tracing, Perfetto, and speedscope can open directly.

Emissions are cheap: each collector call builds one event value and
pushes it on a blocking queue.  A dedicated writer goroutine drains
the queue in batches and appends to the output.  A ticker goroutine
pushes a flush marker every 500ms so output stays fresh under low
event rates.  Shutdown closes the queue, the writer drains what is
left, closes the JSON array, and exits.
*/
package tracecatapult
