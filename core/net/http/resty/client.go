// Package resty provides a request client backed by go-resty.
package resty

import (
	"context"
	"net/http"
	"net/url"
	"time"

	goresty "github.com/go-resty/resty/v2"

	vhttp "github.com/kochabx/vaxios/core/net/http"
	"github.com/kochabx/vaxios/errors"
)

// Client implements vhttp.Clienter on top of a resty client
type Client struct {
	client *goresty.Client
}

// Option configures the client
type Option func(*goresty.Client)

// WithTimeout sets the request timeout. Zero means no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *goresty.Client) {
		c.SetTimeout(timeout)
	}
}

// WithHeader sets headers sent with every request
func WithHeader(header map[string]string) Option {
	return func(c *goresty.Client) {
		c.SetHeaders(header)
	}
}

// New creates a resty-backed client for baseURL
func New(baseURL string, opts ...Option) *Client {
	c := goresty.New().
		SetBaseURL(baseURL).
		SetHeader(vhttp.HeaderAccept, vhttp.ContentTypeJSON+", "+vhttp.ContentTypeText+", */*")

	for _, opt := range opts {
		opt(c)
	}

	return &Client{client: c}
}

// NewFromClient wraps an existing resty client
func NewFromClient(c *goresty.Client) *Client {
	return &Client{client: c}
}

func (c *Client) Get(ctx context.Context, url string, params vhttp.Params) (*vhttp.Response, error) {
	return c.execute(ctx, vhttp.MethodGet, url, params, nil)
}

func (c *Client) Post(ctx context.Context, url string, body any) (*vhttp.Response, error) {
	return c.execute(ctx, vhttp.MethodPost, url, nil, body)
}

func (c *Client) Put(ctx context.Context, url string, body any) (*vhttp.Response, error) {
	return c.execute(ctx, vhttp.MethodPut, url, nil, body)
}

func (c *Client) Patch(ctx context.Context, url string, body any) (*vhttp.Response, error) {
	return c.execute(ctx, vhttp.MethodPatch, url, nil, body)
}

func (c *Client) Delete(ctx context.Context, url string, data any) (*vhttp.Response, error) {
	return c.execute(ctx, vhttp.MethodDelete, url, nil, data)
}

func (c *Client) execute(ctx context.Context, method, rawURL string, params vhttp.Params, body any) (*vhttp.Response, error) {
	req := c.client.R().SetContext(ctx)

	if len(params) > 0 {
		query := url.Values{}
		if err := vhttp.EncodeParams(query, params); err != nil {
			return nil, errors.NewTransportError(method, rawURL, nil, err)
		}
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetHeader(vhttp.HeaderContentType, vhttp.ContentTypeJSON).SetBody(body)
	}

	resp, err := req.Execute(method, rawURL)
	if err != nil {
		return nil, errors.NewTransportError(method, rawURL, nil, err)
	}

	data := vhttp.DecodeBody(resp.Body())
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return nil, errors.NewTransportError(method, resp.Request.URL, &errors.ErrorResponse{
			StatusCode: resp.StatusCode(),
			Header:     resp.Header(),
			Data:       data,
		}, nil)
	}

	return &vhttp.Response{
		Data:       data,
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
	}, nil
}
