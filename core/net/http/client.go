package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"maps"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kochabx/vaxios/errors"
)

const (
	// Buffer pool constants
	defaultBufferSize = 4096
	maxBufferSize     = 1024 * 1024 // 1MB
)

// Client is the default Clienter built on net/http. Response bodies are read
// into pooled buffers. Request bodies are not pooled since the transport may
// still read them after Do returns.
type Client struct {
	baseURL    *url.URL
	client     *http.Client
	header     map[string]string
	bufferPool sync.Pool
}

// Option configures the HTTP client
type Option func(*Client)

// WithHTTPClient sets a custom *http.Client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// WithTimeout sets the request timeout. Zero means no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = timeout
	}
}

// WithHeader sets headers sent with every request
func WithHeader(header map[string]string) Option {
	return func(c *Client) {
		maps.Copy(c.header, header)
	}
}

// New creates a client resolving relative URLs against baseURL
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.BadRequest("invalid base url %q", baseURL).WithCause(err)
	}

	c := &Client{
		baseURL: base,
		client:  &http.Client{},
		header: map[string]string{
			HeaderAccept: ContentTypeJSON + ", " + ContentTypeText + ", */*",
		},
		bufferPool: sync.Pool{
			New: func() any {
				return bytes.NewBuffer(make([]byte, 0, defaultBufferSize))
			},
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Get performs a GET request with params encoded in the query string
func (c *Client) Get(ctx context.Context, url string, params Params) (*Response, error) {
	return c.Request(ctx, MethodGet, url, params, nil)
}

// Post performs a POST request with a JSON body
func (c *Client) Post(ctx context.Context, url string, body any) (*Response, error) {
	return c.Request(ctx, MethodPost, url, nil, body)
}

// Put performs a PUT request with a JSON body
func (c *Client) Put(ctx context.Context, url string, body any) (*Response, error) {
	return c.Request(ctx, MethodPut, url, nil, body)
}

// Patch performs a PATCH request with a JSON body
func (c *Client) Patch(ctx context.Context, url string, body any) (*Response, error) {
	return c.Request(ctx, MethodPatch, url, nil, body)
}

// Delete performs a DELETE request, sending data as a JSON body
func (c *Client) Delete(ctx context.Context, url string, data any) (*Response, error) {
	return c.Request(ctx, MethodDelete, url, nil, data)
}

// Request sends a request and decodes the response body.
// A status outside 2xx or a failed round trip yields *errors.TransportError.
func (c *Client) Request(ctx context.Context, method, rawURL string, params Params, body any) (*Response, error) {
	target, err := resolveURL(c.baseURL, rawURL, params)
	if err != nil {
		return nil, errors.NewTransportError(method, rawURL, nil, err)
	}

	req, err := c.createRequest(ctx, method, target, body)
	if err != nil {
		return nil, errors.NewTransportError(method, target, nil, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.NewTransportError(method, target, nil, err)
	}
	defer resp.Body.Close()

	out := c.getBuffer()
	defer c.putBuffer(out)
	if _, err := out.ReadFrom(resp.Body); err != nil {
		return nil, errors.NewTransportError(method, target, nil, err)
	}
	data := DecodeBody(out.Bytes())

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, errors.NewTransportError(method, target, &errors.ErrorResponse{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Data:       data,
		}, nil)
	}

	return &Response{
		Data:       data,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
	}, nil
}

// createRequest builds the request, encoding body as JSON
func (c *Client) createRequest(ctx context.Context, method, target string, body any) (*http.Request, error) {
	var reader io.Reader
	switch v := body.(type) {
	case nil:
	case io.Reader:
		reader = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}

	for k, v := range c.header {
		req.Header.Set(k, v)
	}
	if reader != nil && req.Header.Get(HeaderContentType) == "" {
		req.Header.Set(HeaderContentType, ContentTypeJSON)
	}
	if req.Header.Get(HeaderRequestID) == "" {
		req.Header.Set(HeaderRequestID, uuid.NewString())
	}

	return req, nil
}

// getBuffer retrieves a buffer from the pool
func (c *Client) getBuffer() *bytes.Buffer {
	buf := c.bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// putBuffer returns a buffer to the pool, dropping oversized ones
func (c *Client) putBuffer(buf *bytes.Buffer) {
	if buf.Cap() <= maxBufferSize {
		c.bufferPool.Put(buf)
	}
}

// DecodeBody decodes a JSON body into any. Non-JSON bodies are returned as a
// string and an empty body as nil.
func DecodeBody(b []byte) any {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil
	}

	var data any
	if err := json.Unmarshal(b, &data); err != nil {
		return string(b)
	}
	return data
}
