// Package trace 为客户端请求创建 OpenTelemetry span
package trace

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	vhttp "github.com/kochabx/vaxios/core/net/http"
	"github.com/kochabx/vaxios/errors"
)

const (
	tracerName = "github.com/kochabx/vaxios"
	spanPrefix = "vaxios."
)

type Option func(*tracer)

// WithTracerProvider sets the provider spans are created from.
// Defaults to otel.GetTracerProvider().
func WithTracerProvider(tp oteltrace.TracerProvider) Option {
	return func(t *tracer) {
		if tp != nil {
			t.provider = tp
		}
	}
}

type tracer struct {
	provider oteltrace.TracerProvider
}

// Middleware returns a client decorator that wraps each request in a span
func Middleware(opts ...Option) vhttp.Middleware {
	t := &tracer{provider: otel.GetTracerProvider()}
	for _, opt := range opts {
		opt(t)
	}

	return func(next vhttp.Clienter) vhttp.Clienter {
		return &client{next: next, tracer: t.provider.Tracer(tracerName)}
	}
}

type client struct {
	next   vhttp.Clienter
	tracer oteltrace.Tracer
}

func (c *client) start(ctx context.Context, method, url string) (context.Context, oteltrace.Span) {
	return c.tracer.Start(ctx, spanPrefix+method,
		oteltrace.WithSpanKind(oteltrace.SpanKindClient),
		oteltrace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("url", url),
		),
	)
}

func end(span oteltrace.Span, resp *vhttp.Response, err error) {
	defer span.End()

	if err != nil {
		var te *errors.TransportError
		if errors.As(err, &te) && te.Response != nil {
			span.SetAttributes(attribute.Int("http.status_code", te.Response.StatusCode))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}

	if resp != nil {
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	}
	span.SetStatus(codes.Ok, "")
}

func (c *client) Get(ctx context.Context, url string, params vhttp.Params) (resp *vhttp.Response, err error) {
	ctx, span := c.start(ctx, vhttp.MethodGet, url)
	defer func() { end(span, resp, err) }()
	return c.next.Get(ctx, url, params)
}

func (c *client) Post(ctx context.Context, url string, body any) (resp *vhttp.Response, err error) {
	ctx, span := c.start(ctx, vhttp.MethodPost, url)
	defer func() { end(span, resp, err) }()
	return c.next.Post(ctx, url, body)
}

func (c *client) Put(ctx context.Context, url string, body any) (resp *vhttp.Response, err error) {
	ctx, span := c.start(ctx, vhttp.MethodPut, url)
	defer func() { end(span, resp, err) }()
	return c.next.Put(ctx, url, body)
}

func (c *client) Patch(ctx context.Context, url string, body any) (resp *vhttp.Response, err error) {
	ctx, span := c.start(ctx, vhttp.MethodPatch, url)
	defer func() { end(span, resp, err) }()
	return c.next.Patch(ctx, url, body)
}

func (c *client) Delete(ctx context.Context, url string, data any) (resp *vhttp.Response, err error) {
	ctx, span := c.start(ctx, vhttp.MethodDelete, url)
	defer func() { end(span, resp, err) }()
	return c.next.Delete(ctx, url, data)
}
