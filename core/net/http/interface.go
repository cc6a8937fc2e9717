package http

import (
	"context"
	"net/http"
)

// Params is a query-string mapping (GET) or body mapping (DELETE)
type Params map[string]any

// Response is the successful result of a request. Data holds the decoded body.
type Response struct {
	Data       any
	StatusCode int
	Header     http.Header
}

// Clienter defines the HTTP operations the request facade delegates to.
// Implementations return *errors.TransportError for non-2xx responses and
// network failures.
type Clienter interface {
	Get(ctx context.Context, url string, params Params) (*Response, error)
	Post(ctx context.Context, url string, body any) (*Response, error)
	Put(ctx context.Context, url string, body any) (*Response, error)
	Patch(ctx context.Context, url string, body any) (*Response, error)
	// Delete sends data as the request body
	Delete(ctx context.Context, url string, data any) (*Response, error)
}

// Middleware decorates a Clienter, e.g. with metrics or tracing
type Middleware func(Clienter) Clienter
