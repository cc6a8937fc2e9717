// Package facade exposes GET/POST/PUT/PATCH/DELETE helpers that validate the
// payload, delegate to an HTTP client and return the decoded response body.
package facade

import (
	"context"

	vhttp "github.com/kochabx/vaxios/core/net/http"
	"github.com/kochabx/vaxios/core/validator"
	"github.com/kochabx/vaxios/errors"
	"github.com/kochabx/vaxios/log"
)

// Facade is safe for concurrent use. Its configuration and client never
// change after New returns.
type Facade struct {
	cfg    Config
	client vhttp.Clienter
	logger *log.Logger
}

// New applies opts over DefaultConfig and builds the facade. Without a custom
// client one is created from the connection settings.
func New(opts ...Option) (*Facade, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	client := cfg.Client
	if client == nil {
		if err := validator.Validate.Struct(cfg.Connection); err != nil {
			return nil, errors.BadRequest("invalid connection config: %v", err).WithCause(err)
		}
		c, err := vhttp.New(cfg.Connection.BaseURL, vhttp.WithTimeout(cfg.Connection.Timeout))
		if err != nil {
			return nil, err
		}
		client = c
	}
	for _, mw := range cfg.Middlewares {
		client = mw(client)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.G
	}

	return &Facade{
		cfg:    cfg,
		client: client,
		logger: logger,
	}, nil
}

// Config returns the configuration the facade was built with
func (f *Facade) Config() Config {
	return f.cfg
}

// Get sends payload as query parameters
func (f *Facade) Get(ctx context.Context, url string, payload any) (any, error) {
	params, err := paramsPayload(payload)
	if err != nil {
		return nil, err
	}

	return f.do(ctx, vhttp.MethodGet, url, f.cfg.Debug.Get, func(ctx context.Context) (*vhttp.Response, error) {
		return f.client.Get(ctx, url, params)
	})
}

// Post sends payload as the JSON body
func (f *Facade) Post(ctx context.Context, url string, payload any) (any, error) {
	body, err := bodyPayload(payload)
	if err != nil {
		return nil, err
	}

	return f.do(ctx, vhttp.MethodPost, url, f.cfg.Debug.Post, func(ctx context.Context) (*vhttp.Response, error) {
		return f.client.Post(ctx, url, body)
	})
}

// Put sends payload as the JSON body
func (f *Facade) Put(ctx context.Context, url string, payload any) (any, error) {
	body, err := bodyPayload(payload)
	if err != nil {
		return nil, err
	}

	return f.do(ctx, vhttp.MethodPut, url, f.cfg.Debug.Put, func(ctx context.Context) (*vhttp.Response, error) {
		return f.client.Put(ctx, url, body)
	})
}

// Patch sends payload as the JSON body
func (f *Facade) Patch(ctx context.Context, url string, payload any) (any, error) {
	body, err := bodyPayload(payload)
	if err != nil {
		return nil, err
	}

	return f.do(ctx, vhttp.MethodPatch, url, f.cfg.Debug.Patch, func(ctx context.Context) (*vhttp.Response, error) {
		return f.client.Patch(ctx, url, body)
	})
}

// Delete sends payload as the request body, never as query parameters
func (f *Facade) Delete(ctx context.Context, url string, payload any) (any, error) {
	params, err := paramsPayload(payload)
	if err != nil {
		return nil, err
	}

	// a nil Params must reach the client as an untyped nil
	var data any
	if params != nil {
		data = params
	}

	return f.do(ctx, vhttp.MethodDelete, url, f.cfg.Debug.Delete, func(ctx context.Context) (*vhttp.Response, error) {
		return f.client.Delete(ctx, url, data)
	})
}

func (f *Facade) do(ctx context.Context, method, url string, debug bool, call func(context.Context) (*vhttp.Response, error)) (any, error) {
	resp, err := call(ctx)
	if err != nil {
		return nil, f.fail(method, url, debug, err)
	}
	var data any
	if resp != nil {
		data = resp.Data
	}

	if debug {
		f.logger.Info().
			Str("method", method).
			Str("url", url).
			Interface("data", data).
			Msg("response")
	}

	return data, nil
}

// fail logs the error when debug is set and applies ThrowRawMessage
func (f *Facade) fail(method, url string, debug bool, err error) error {
	var te *errors.TransportError
	if !errors.As(err, &te) {
		return err
	}

	if debug {
		var data any
		if te.Response != nil {
			data = te.Response.Data
		}
		f.logger.Error().
			Err(err).
			Str("method", method).
			Str("url", url).
			Int("status", te.StatusCode()).
			Interface("data", data).
			Msg("response error")
	}

	if te.Response != nil && f.cfg.ThrowRawMessage {
		msg, _ := te.Message()
		return &errors.MessageError{Message: msg}
	}

	return err
}
