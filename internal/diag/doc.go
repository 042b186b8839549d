// Package diag defines the diagnostic records the harness captures from
// the analysis front-end.
//
// Diagnostic is the central record: a severity, a primary message, and
// zero or more child notes attached by the front-end. Records are
// immutable once produced; the harness consumes each exactly once when
// matching it against a fragment's expectations.
//
// A Sink intercepts diagnostics before the front-end's default
// presentation. BagSink buffers intercepted records into a Bag, which is
// the per-case collection point; nothing in this package performs IO.
package diag
