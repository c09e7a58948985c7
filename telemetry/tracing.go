// OpenTelemetry tracing for record manager operations.
package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Tracer wraps OpenTelemetry tracing with record-specific helpers.
type Tracer struct {
	tracer trace.Tracer
	debug  bool // When true, include queries and personal data in span attributes
}

var (
	globalTracer *Tracer
	tracerMu     sync.RWMutex
)

// SetGlobalTracer sets the global tracer instance.
func SetGlobalTracer(t *Tracer) {
	tracerMu.Lock()
	defer tracerMu.Unlock()
	globalTracer = t
}

// GetTracer returns the global tracer, or a no-op tracer if not set.
func GetTracer() *Tracer {
	tracerMu.RLock()
	defer tracerMu.RUnlock()
	if globalTracer == nil {
		return NoopTracer()
	}
	return globalTracer
}

// NoopTracer returns a tracer that records nothing.
func NoopTracer() *Tracer {
	return &Tracer{tracer: noop.NewTracerProvider().Tracer("")}
}

// NewTracer creates a tracer from the global otel provider.
func NewTracer(name string, debug bool) *Tracer {
	return &Tracer{
		tracer: otel.Tracer(name),
		debug:  debug,
	}
}

// NewTracerFromProvider creates a tracer from a specific provider.
func NewTracerFromProvider(tp trace.TracerProvider, name string, debug bool) *Tracer {
	return &Tracer{
		tracer: tp.Tracer(name),
		debug:  debug,
	}
}

// SetDebug enables or disables debug mode.
func (t *Tracer) SetDebug(debug bool) {
	t.debug = debug
}

// Debug returns whether debug mode is enabled.
func (t *Tracer) Debug() bool {
	return t.debug
}

// StartSpan starts a new span with the given name.
func (t *Tracer) StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, opts...)
}

// --- Operation Spans ---

// OpSpanOptions contains the outcome of a manager operation.
type OpSpanOptions struct {
	// Found is false when the operation targeted an unknown id.
	Found bool

	// Results is the number of resumes returned by list/search/filter.
	// Negative means not applicable.
	Results int

	// Query is the search text. Only included if debug=true.
	Query string
}

// StartOpSpan starts a span for a manager operation.
func (t *Tracer) StartOpSpan(ctx context.Context, op, resumeID string) (context.Context, trace.Span) {
	ctx, span := t.tracer.Start(ctx, "resume."+op, trace.WithSpanKind(trace.SpanKindInternal))
	span.SetAttributes(attribute.String("resume.op", op))
	if resumeID != "" {
		span.SetAttributes(attribute.String("resume.id", resumeID))
	}
	return ctx, span
}

// EndOpSpan ends an operation span with attributes.
func (t *Tracer) EndOpSpan(span trace.Span, opts OpSpanOptions, err error) {
	span.SetAttributes(attribute.Bool("resume.found", opts.Found))
	if opts.Results >= 0 {
		span.SetAttributes(attribute.Int("resume.results", opts.Results))
	}
	if t.debug && opts.Query != "" {
		span.SetAttributes(attribute.String("resume.query", truncate(opts.Query, 500)))
	}
	endSpan(span, err)
}

// --- Store Spans ---

// StoreSpanOptions contains details of a backing store access.
type StoreSpanOptions struct {
	Location string
	Bytes    int
	Resumes  int
}

// StartStoreSpan starts a span for a backing store read or write.
func (t *Tracer) StartStoreSpan(ctx context.Context, action string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "store."+action, trace.WithSpanKind(trace.SpanKindClient))
}

// EndStoreSpan ends a store span with attributes.
func (t *Tracer) EndStoreSpan(span trace.Span, opts StoreSpanOptions, err error) {
	span.SetAttributes(
		attribute.String("store.location", opts.Location),
		attribute.Int("store.bytes", opts.Bytes),
		attribute.Int("store.resumes", opts.Resumes),
	)
	endSpan(span, err)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
