package facade

import (
	"bytes"
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vhttp "github.com/kochabx/vaxios/core/net/http"
	"github.com/kochabx/vaxios/errors"
	"github.com/kochabx/vaxios/log"
)

type call struct {
	method string
	url    string
	params vhttp.Params
	body   any
}

// mockClient records calls and answers with a fixed response or error
type mockClient struct {
	mu    sync.Mutex
	calls []call
	resp  *vhttp.Response
	err   error
}

func (m *mockClient) record(c call) (*vhttp.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
	return m.resp, m.err
}

func (m *mockClient) Get(_ context.Context, url string, params vhttp.Params) (*vhttp.Response, error) {
	return m.record(call{method: vhttp.MethodGet, url: url, params: params})
}

func (m *mockClient) Post(_ context.Context, url string, body any) (*vhttp.Response, error) {
	return m.record(call{method: vhttp.MethodPost, url: url, body: body})
}

func (m *mockClient) Put(_ context.Context, url string, body any) (*vhttp.Response, error) {
	return m.record(call{method: vhttp.MethodPut, url: url, body: body})
}

func (m *mockClient) Patch(_ context.Context, url string, body any) (*vhttp.Response, error) {
	return m.record(call{method: vhttp.MethodPatch, url: url, body: body})
}

func (m *mockClient) Delete(_ context.Context, url string, data any) (*vhttp.Response, error) {
	return m.record(call{method: vhttp.MethodDelete, url: url, body: data})
}

func (m *mockClient) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockClient) last() call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[len(m.calls)-1]
}

func newFacade(t *testing.T, client vhttp.Clienter, opts ...Option) *Facade {
	t.Helper()
	f, err := New(append([]Option{WithClient(client), WithLogger(log.Nop())}, opts...)...)
	require.NoError(t, err)
	return f
}

func notFound() *errors.TransportError {
	return errors.NewTransportError(vhttp.MethodGet, "/items/9", &errors.ErrorResponse{
		StatusCode: http.StatusNotFound,
		Header:     http.Header{"X-Trace": []string{"abc"}},
		Data:       map[string]any{"code": 404, "message": "not found"},
	}, nil)
}

func TestBodyValidation(t *testing.T) {
	ctx := context.Background()
	client := &mockClient{resp: &vhttp.Response{}}
	f := newFacade(t, client)

	var nilMap *map[string]any
	invalid := []any{nil, "text", 42, 3.14, true, nilMap}
	verbs := map[string]Method{"POST": f.Post, "PUT": f.Put, "PATCH": f.Patch}

	for name, verb := range verbs {
		for _, payload := range invalid {
			_, err := verb(ctx, "/items", payload)

			var ve *errors.ValidationError
			require.True(t, errors.As(err, &ve), "%s %#v", name, payload)
			assert.Equal(t, "payload must be Array or Object", ve.Error())
		}
	}
	assert.Zero(t, client.count())
}

func TestBodyAccepted(t *testing.T) {
	ctx := context.Background()
	client := &mockClient{resp: &vhttp.Response{Data: "ok"}}
	f := newFacade(t, client)

	type item struct {
		Name string `json:"name"`
	}
	valid := []any{
		map[string]any{"a": 1},
		[]any{1, 2},
		[2]int{1, 2},
		item{Name: "apple"},
		&item{Name: "pear"},
		map[string]any{},
	}

	for _, payload := range valid {
		_, err := f.Post(ctx, "/items", payload)
		require.NoError(t, err)
		assert.Equal(t, payload, client.last().body)
	}
	assert.Equal(t, len(valid), client.count())
}

func TestParamsValidation(t *testing.T) {
	ctx := context.Background()
	client := &mockClient{resp: &vhttp.Response{}}
	f := newFacade(t, client)

	invalid := []any{"text", 42, []any{1}, struct{ A int }{1}, map[int]string{1: "a"}}
	for _, verb := range []Method{f.Get, f.Delete} {
		for _, payload := range invalid {
			_, err := verb(ctx, "/items", payload)
			require.True(t, errors.IsValidation(err), "%#v", payload)
			assert.Equal(t, "payload must be Object", err.Error())
		}
	}
	assert.Zero(t, client.count())
}

func TestEmptyParams(t *testing.T) {
	ctx := context.Background()
	client := &mockClient{resp: &vhttp.Response{}}
	f := newFacade(t, client)

	var nilParams vhttp.Params
	for _, payload := range []any{nil, map[string]any{}, vhttp.Params{}, nilParams, "", []any{}} {
		_, err := f.Get(ctx, "/items", payload)
		require.NoError(t, err)
		assert.Nil(t, client.last().params)

		_, err = f.Delete(ctx, "/items", payload)
		require.NoError(t, err)
		assert.Nil(t, client.last().body, "delete body must be an untyped nil")
	}
}

func TestGetSanitizesParams(t *testing.T) {
	client := &mockClient{resp: &vhttp.Response{}}
	f := newFacade(t, client)

	var nilPtr *int
	payload := map[string]any{"a": 1, "b": "", "c": nil, "d": nilPtr, "e": "x", "f": 0, "g": false}
	_, err := f.Get(context.Background(), "/items", payload)
	require.NoError(t, err)

	assert.Equal(t, vhttp.Params{"a": 1, "e": "x", "f": 0, "g": false}, client.last().params)
	assert.Len(t, payload, 7, "caller's payload must not be modified")
}

func TestDeleteSendsBody(t *testing.T) {
	client := &mockClient{resp: &vhttp.Response{}}
	f := newFacade(t, client)

	_, err := f.Delete(context.Background(), "/items", map[string]string{"id": "7", "note": ""})
	require.NoError(t, err)

	last := client.last()
	assert.Equal(t, vhttp.MethodDelete, last.method)
	assert.Nil(t, last.params)
	assert.Equal(t, vhttp.Params{"id": "7"}, last.body)
}

func TestReturnsDataVerbatim(t *testing.T) {
	ctx := context.Background()
	client := &mockClient{resp: &vhttp.Response{Data: map[string]any{"id": 7}}}
	f := newFacade(t, client)

	data, err := f.Get(ctx, "/items/7", nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": 7}, data)

	client.resp = &vhttp.Response{Data: nil}
	data, err = f.Put(ctx, "/items/7", map[string]any{})
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestTransportErrorPropagates(t *testing.T) {
	orig := notFound()
	client := &mockClient{err: orig}
	f := newFacade(t, client)

	_, err := f.Get(context.Background(), "/items/9", nil)
	require.Error(t, err)
	assert.Same(t, orig, err)

	var te *errors.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusNotFound, te.StatusCode())
	assert.Equal(t, "abc", te.Response.Header.Get("X-Trace"))
}

func TestThrowRawMessage(t *testing.T) {
	client := &mockClient{err: notFound()}
	f := newFacade(t, client, WithThrowRawMessage(true))

	for _, verb := range []Method{f.Get, f.Post, f.Put, f.Patch, f.Delete} {
		_, err := verb(context.Background(), "/items/9", map[string]any{"a": 1})
		require.Error(t, err)
		assert.Equal(t, "not found", err.Error())

		var me *errors.MessageError
		assert.True(t, errors.As(err, &me))
		assert.False(t, errors.IsTransport(err))
	}
}

func TestThrowRawMessageWithoutResponse(t *testing.T) {
	orig := errors.NewTransportError(vhttp.MethodGet, "/items", nil, context.DeadlineExceeded)
	client := &mockClient{err: orig}
	f := newFacade(t, client, WithThrowRawMessage(true))

	_, err := f.Get(context.Background(), "/items", nil)
	assert.Same(t, orig, err)
}

func TestThrowRawMessageMissingMessage(t *testing.T) {
	client := &mockClient{err: errors.NewTransportError(vhttp.MethodGet, "/items", &errors.ErrorResponse{
		StatusCode: http.StatusBadGateway,
		Data:       "<html>bad gateway</html>",
	}, nil)}
	f := newFacade(t, client, WithThrowRawMessage(true))

	_, err := f.Get(context.Background(), "/items", nil)
	var me *errors.MessageError
	require.True(t, errors.As(err, &me))
	assert.Empty(t, me.Message)
}

func TestThrowRawMessageIgnoresValidation(t *testing.T) {
	f := newFacade(t, &mockClient{}, WithThrowRawMessage(true))

	_, err := f.Post(context.Background(), "/items", "nope")
	assert.True(t, errors.IsValidation(err))
}

func TestForeignErrorPropagates(t *testing.T) {
	orig := context.Canceled
	f := newFacade(t, &mockClient{err: orig}, WithThrowRawMessage(true))

	_, err := f.Patch(context.Background(), "/items/1", map[string]any{})
	assert.Same(t, orig, err)
}

func TestNilResponse(t *testing.T) {
	f := newFacade(t, &mockClient{})

	data, err := f.Get(context.Background(), "/items", nil)
	assert.NoError(t, err)
	assert.Nil(t, data)
}

func TestDebugNilResponseLogsNull(t *testing.T) {
	var buf bytes.Buffer
	f, err := New(
		WithClient(&mockClient{}),
		WithLogger(log.NewWriter(&buf)),
		WithDebug(DebugConfig{Put: true}),
	)
	require.NoError(t, err)

	data, err := f.Put(context.Background(), "/items/1", map[string]any{})
	require.NoError(t, err)
	assert.Nil(t, data)
	assert.Contains(t, buf.String(), `"method":"PUT"`)
	assert.Contains(t, buf.String(), `"data":null`)
}

func TestDebugFlagIsolation(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	client := &mockClient{resp: &vhttp.Response{Data: map[string]any{"id": 1}}}
	f, err := New(
		WithClient(client),
		WithLogger(log.NewWriter(&buf)),
		WithDebug(DebugConfig{Post: true}),
	)
	require.NoError(t, err)

	_, err = f.Get(ctx, "/items", nil)
	require.NoError(t, err)
	assert.Zero(t, buf.Len(), "GET must not log when only POST debug is on")

	_, err = f.Post(ctx, "/items", map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"method":"POST"`)
	assert.Contains(t, buf.String(), `"data":{"id":1}`)
}

func TestDebugPerVerb(t *testing.T) {
	verbs := []struct {
		debug DebugConfig
		call  func(f *Facade) error
	}{
		{DebugConfig{Get: true}, func(f *Facade) error { _, err := f.Get(context.Background(), "/x", nil); return err }},
		{DebugConfig{Post: true}, func(f *Facade) error { _, err := f.Post(context.Background(), "/x", []any{}); return err }},
		{DebugConfig{Put: true}, func(f *Facade) error { _, err := f.Put(context.Background(), "/x", []any{}); return err }},
		{DebugConfig{Patch: true}, func(f *Facade) error { _, err := f.Patch(context.Background(), "/x", []any{}); return err }},
		{DebugConfig{Delete: true}, func(f *Facade) error { _, err := f.Delete(context.Background(), "/x", nil); return err }},
	}

	for i, enabled := range verbs {
		for j, v := range verbs {
			var buf bytes.Buffer
			f, err := New(
				WithClient(&mockClient{resp: &vhttp.Response{Data: "ok"}}),
				WithLogger(log.NewWriter(&buf)),
				WithDebug(enabled.debug),
			)
			require.NoError(t, err)
			require.NoError(t, v.call(f))

			if i == j {
				assert.NotZero(t, buf.Len(), "verb %d should log", j)
			} else {
				assert.Zero(t, buf.Len(), "verb %d logged with flags %+v", j, enabled.debug)
			}
		}
	}
}

func TestDebugErrorPathGatedOnDelete(t *testing.T) {
	var buf bytes.Buffer
	f, err := New(
		WithClient(&mockClient{err: notFound()}),
		WithLogger(log.NewWriter(&buf)),
		WithDebug(DebugConfig{Patch: true}),
	)
	require.NoError(t, err)

	_, err = f.Delete(context.Background(), "/items/9", nil)
	require.Error(t, err)
	assert.Zero(t, buf.Len(), "DELETE errors must not use the PATCH flag")

	f, err = New(
		WithClient(&mockClient{err: notFound()}),
		WithLogger(log.NewWriter(&buf)),
		WithDebug(DebugConfig{Delete: true}),
	)
	require.NoError(t, err)

	_, err = f.Delete(context.Background(), "/items/9", nil)
	require.Error(t, err)
	assert.Contains(t, buf.String(), `"status":404`)
	assert.Contains(t, buf.String(), `"message":"not found"`)
}

func TestDebugErrorWithoutResponseLogsNull(t *testing.T) {
	var buf bytes.Buffer
	f, err := New(
		WithClient(&mockClient{err: errors.NewTransportError(vhttp.MethodGet, "/x", nil, context.DeadlineExceeded)}),
		WithLogger(log.NewWriter(&buf)),
		WithDebug(DebugConfig{Get: true}),
	)
	require.NoError(t, err)

	_, err = f.Get(context.Background(), "/x", nil)
	require.Error(t, err)
	assert.Contains(t, buf.String(), `"data":null`)
}

func TestDefaultConfig(t *testing.T) {
	f, err := New(WithThrowRawMessage(true))
	require.NoError(t, err)

	cfg := f.Config()
	assert.True(t, cfg.ThrowRawMessage)
	assert.Equal(t, "http://127.0.0.1:8080/api", cfg.Connection.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.Connection.Timeout)
	assert.Equal(t, DebugConfig{}, cfg.Debug)
	assert.Equal(t, "$", cfg.Prefix)
	assert.Nil(t, cfg.Client)

	f, err = New(WithDebug(DebugConfig{Get: true}))
	require.NoError(t, err)
	cfg = f.Config()
	assert.False(t, cfg.ThrowRawMessage)
	assert.Equal(t, DefaultBaseURL, cfg.Connection.BaseURL)
}

func TestNewInvalidConnection(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{name: "malformed url", opt: WithBaseURL("http://[::1")},
		{name: "not a url", opt: WithBaseURL("not a url")},
		{name: "empty url", opt: WithBaseURL("")},
		{name: "negative timeout", opt: WithTimeout(-time.Second)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.opt)
			require.Error(t, err)
			assert.Nil(t, f)
			assert.Equal(t, 400, errors.FromError(err).GetCode())
		})
	}
}

func TestNewCustomClientIgnoresConnection(t *testing.T) {
	_, err := New(WithClient(&mockClient{}), WithBaseURL("not a url"), WithTimeout(-time.Second))
	assert.NoError(t, err)
}

func TestMiddlewareOrder(t *testing.T) {
	var order []string
	mw := func(name string) vhttp.Middleware {
		return func(next vhttp.Clienter) vhttp.Clienter {
			order = append(order, name)
			return next
		}
	}

	_, err := New(WithClient(&mockClient{}), WithMiddleware(mw("inner"), mw("outer")))
	require.NoError(t, err)
	assert.Equal(t, []string{"inner", "outer"}, order)
}
