// Package progress reports the advance of a batch to interested sinks: the
// terminal, an in-memory tracker served over HTTP, and a socket.io endpoint.
// The batch driver only ever sees the Sink interface, so whether any display
// is available never changes how a batch runs.
package progress
