// Package tracing wraps kernel command dispatch and port broadcasts in
// OpenTelemetry spans. It is off by default (NewProvider(cfg) with
// cfg.TracingEnabled == false returns a no-op tracer at zero overhead) and
// activated only through internal/config, mirroring the teacher's
// orchestration/tracing package scoped down to the two hooks SPEC_FULL.md
// §10 calls out: ObjCommander.SendCmdObj and Port.Notify.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"nested/internal/config"
	"nested/internal/diagnostics"
	"nested/internal/edittree"
	"nested/internal/port"
	"nested/internal/reprtree"
)

// Provider owns the process-wide TracerProvider and the Tracer spans are
// started against.
type Provider struct {
	sdk     *sdktrace.TracerProvider
	tracer  trace.Tracer
	enabled bool
}

// NewProvider builds a Provider from cfg. When cfg.TracingEnabled is
// false, Tracer() returns a noop.Tracer so every Start call is a no-op --
// wrapping a commander or port with a disabled Provider costs nothing
// beyond one interface call.
func NewProvider(cfg config.Config) (*Provider, error) {
	if !cfg.TracingEnabled {
		return &Provider{tracer: noop.NewTracerProvider().Tracer("nested-noop"), enabled: false}, nil
	}

	var exporter sdktrace.SpanExporter
	var err error
	if cfg.TracingEndpoint != "" {
		exporter, err = otlptracegrpc.New(
			context.Background(),
			otlptracegrpc.WithEndpoint(cfg.TracingEndpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("tracing: create otlp exporter: %w", err)
		}
	} else {
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("tracing: create stdout exporter: %w", err)
		}
	}

	res := resource.NewSchemaless(attribute.String("service.name", "nested-kernel"))
	sdk := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(sdk)

	return &Provider{sdk: sdk, tracer: sdk.Tracer("nested-kernel"), enabled: true}, nil
}

// Tracer returns the tracer spans are started against.
func (p *Provider) Tracer() trace.Tracer { return p.tracer }

// Enabled reports whether this Provider exports real spans.
func (p *Provider) Enabled() bool { return p.enabled }

// Shutdown flushes and releases the underlying SDK provider, if any.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.sdk != nil {
		return p.sdk.Shutdown(ctx)
	}
	return nil
}

// tracedCommander wraps an edittree.ObjCommander so every SendCmdObj call
// opens a span named after the wrapper's label, recording the command
// ReprTree's head TypeID and whether the TreeNavResult is Exit as
// attributes. The span status is always set to Ok.
type tracedCommander struct {
	tracer trace.Tracer
	name   string
	next   edittree.ObjCommander
}

// WrapCommander returns next instrumented to trace each SendCmdObj call
// under label (typically the owning node's type name). Safe to call with
// a no-op tracer from a disabled Provider.
func WrapCommander(tracer trace.Tracer, label string, next edittree.ObjCommander) edittree.ObjCommander {
	return &tracedCommander{tracer: tracer, name: label, next: next}
}

func (c *tracedCommander) SendCmdObj(cmd *reprtree.ReprTree) edittree.TreeNavResult {
	_, span := c.tracer.Start(context.Background(), "SendCmdObj:"+c.name, trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	if tag, ok := cmd.Type().HeadTypeID(); ok {
		span.SetAttributes(attribute.String("nested.cmd_type_id", fmt.Sprintf("%+v", tag)))
	}

	result := c.next.SendCmdObj(cmd)

	span.SetAttributes(attribute.Bool("nested.result_exit", result == edittree.Exit))
	span.SetStatus(codes.Ok, "")
	return result
}

// TraceNotify subscribes to p and opens one span per notified message,
// attaching msg formatted with %v (for a sequence port, just the changed
// index) as a span event. Returns the subscription so the caller can
// unsubscribe.
func TraceNotify[M any](tracer trace.Tracer, label string, p port.Outer[M]) port.Subscription {
	return p.AddNotifyFn(func(msg M) {
		_, span := tracer.Start(context.Background(), "Notify:"+label, trace.WithSpanKind(trace.SpanKindInternal))
		span.AddEvent("notify", trace.WithAttributes(attribute.String("nested.msg", fmt.Sprintf("%v", msg))))
		span.End()
	})
}

// TraceDiagnostics subscribes to a diagnostics sequence port, opening one
// span per notified index and attaching a span event with the changed
// index and, when that index is in range of the port's
// SequenceView[diagnostics.Message], the Message's level and body.
func TraceDiagnostics(tracer trace.Tracer, label string, p port.Outer[port.SequenceMsg]) port.Subscription {
	return p.AddNotifyFn(func(idx int) {
		_, span := tracer.Start(context.Background(), "Diagnostics:"+label, trace.WithSpanKind(trace.SpanKindInternal))
		attrs := []attribute.KeyValue{attribute.Int("nested.changed_index", idx)}
		if view, ok := p.GetView().(port.SequenceView[diagnostics.Message]); ok && idx >= 0 && idx < view.Len() {
			msg := view.Get(idx)
			attrs = append(attrs,
				attribute.String("nested.level", msg.Level.String()),
				attribute.String("nested.body", msg.Body),
			)
		}
		span.AddEvent("diagnostic", trace.WithAttributes(attrs...))
		span.End()
	})
}
