package render

import (
	"context"
	"fmt"

	"github.com/vango-dev/shadow/pkg/dom"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for shadow render spans.
const defaultTracerName = "shadow"

// TracingConfig configures the OpenTelemetry backend decorator.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "shadow").
	TracerName string

	// Provider supplies the tracer.
	// Default: otel.GetTracerProvider()
	Provider trace.TracerProvider
}

// TracingOption configures the OpenTelemetry backend decorator.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(p trace.TracerProvider) TracingOption {
	return func(c *TracingConfig) {
		c.Provider = p
	}
}

// Tracing is a dom.Backend decorator that opens a "shadow.commit" span on
// the first operation of a batch, a child span per operation, and ends
// the commit span when Batch returns.
type Tracing struct {
	next   dom.Backend
	tracer trace.Tracer

	ctx    context.Context
	commit trace.Span
	ops    int
}

// NewTracing wraps next.
func NewTracing(next dom.Backend, opts ...TracingOption) *Tracing {
	config := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Provider == nil {
		config.Provider = otel.GetTracerProvider()
	}
	return &Tracing{
		next:   next,
		tracer: config.Provider.Tracer(config.TracerName),
	}
}

func (t *Tracing) begin() {
	if t.commit != nil {
		return
	}
	t.ctx, t.commit = t.tracer.Start(context.Background(), "shadow.commit")
}

func (t *Tracing) trace(kind dom.OpKind, nodes []*dom.Node, apply func([]*dom.Node)) {
	t.begin()
	t.ops++
	_, span := t.tracer.Start(t.ctx, "shadow.render."+kind.String(),
		trace.WithAttributes(
			attribute.String("shadow.op", kind.String()),
			attribute.Int("shadow.nodes", len(nodes)),
		))
	defer span.End()
	defer func() {
		if r := recover(); r != nil {
			span.SetStatus(codes.Error, fmt.Sprint(r))
			t.end(codes.Error, fmt.Sprint(r))
			panic(r)
		}
	}()
	apply(nodes)
}

func (t *Tracing) end(code codes.Code, desc string) {
	if t.commit == nil {
		return
	}
	t.commit.SetAttributes(attribute.Int("shadow.ops", t.ops))
	t.commit.SetStatus(code, desc)
	t.commit.End()
	t.commit, t.ctx, t.ops = nil, nil, 0
}

// CreateRenderNode implements dom.Backend.
func (t *Tracing) CreateRenderNode(nodes []*dom.Node) {
	t.trace(dom.OpCreate, nodes, t.next.CreateRenderNode)
}

// UpdateRenderNode implements dom.Backend.
func (t *Tracing) UpdateRenderNode(nodes []*dom.Node) {
	t.trace(dom.OpUpdate, nodes, t.next.UpdateRenderNode)
}

// DeleteRenderNode implements dom.Backend.
func (t *Tracing) DeleteRenderNode(nodes []*dom.Node) {
	t.trace(dom.OpDelete, nodes, t.next.DeleteRenderNode)
}

// UpdateLayout implements dom.Backend.
func (t *Tracing) UpdateLayout(nodes []*dom.Node) {
	t.trace(dom.OpUpdateLayout, nodes, t.next.UpdateLayout)
}

// Batch implements dom.Backend.
func (t *Tracing) Batch() {
	t.begin()
	t.next.Batch()
	t.end(codes.Ok, "")
}
