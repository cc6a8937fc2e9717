package rate

import (
	"context"

	vhttp "github.com/kochabx/vaxios/core/net/http"
	"github.com/kochabx/vaxios/errors"
)

// Middleware rejects a call with a 429 error when limiter denies it, or a 500
// error when the limiter itself fails. Rejected calls never reach the wrapped
// client.
func Middleware(limiter Limiter) vhttp.Middleware {
	return func(next vhttp.Clienter) vhttp.Clienter {
		return &client{next: next, limiter: limiter}
	}
}

type client struct {
	next    vhttp.Clienter
	limiter Limiter
}

func (c *client) allow(ctx context.Context, method, url string) error {
	ok, err := c.limiter.Allow(ctx, 1)
	if err != nil {
		return errors.Internal("rate limiter unavailable: %s %s", method, url).WithCause(err)
	}
	if !ok {
		return errors.TooManyRequests("rate limit exceeded: %s %s", method, url)
	}
	return nil
}

func (c *client) Get(ctx context.Context, url string, params vhttp.Params) (*vhttp.Response, error) {
	if err := c.allow(ctx, vhttp.MethodGet, url); err != nil {
		return nil, err
	}
	return c.next.Get(ctx, url, params)
}

func (c *client) Post(ctx context.Context, url string, body any) (*vhttp.Response, error) {
	if err := c.allow(ctx, vhttp.MethodPost, url); err != nil {
		return nil, err
	}
	return c.next.Post(ctx, url, body)
}

func (c *client) Put(ctx context.Context, url string, body any) (*vhttp.Response, error) {
	if err := c.allow(ctx, vhttp.MethodPut, url); err != nil {
		return nil, err
	}
	return c.next.Put(ctx, url, body)
}

func (c *client) Patch(ctx context.Context, url string, body any) (*vhttp.Response, error) {
	if err := c.allow(ctx, vhttp.MethodPatch, url); err != nil {
		return nil, err
	}
	return c.next.Patch(ctx, url, body)
}

func (c *client) Delete(ctx context.Context, url string, data any) (*vhttp.Response, error) {
	if err := c.allow(ctx, vhttp.MethodDelete, url); err != nil {
		return nil, err
	}
	return c.next.Delete(ctx, url, data)
}
