// Package telemetry provides tracing and mutation event export for the
// resume manager.
//
// Tracing is built on OpenTelemetry. InitProvider wires an OTLP exporter
// (gRPC or HTTP) and installs a global Tracer; without it GetTracer returns
// a no-op tracer so callers never need a nil check.
//
// Mutation events (resume.created, resume.deleted, ...) go through an
// Exporter: noop, JSON lines to a file, or batched HTTP POSTs.
package telemetry
