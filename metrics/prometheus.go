// Package metrics 记录出站请求的 prometheus 指标
package metrics

import (
	"context"
	"regexp"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	vhttp "github.com/kochabx/vaxios/core/net/http"
	"github.com/kochabx/vaxios/errors"
)

const (
	namespace = "vaxios"
	subsystem = "client"

	// StatusError labels requests that never got a response
	StatusError = "error"
)

// Metrics exposes the registry holding the client request metrics, for
// callers that serve or gather it themselves
type Metrics interface {
	Registry() *prometheus.Registry
}

var _ Metrics = (*Prometheus)(nil)

// Prometheus records client requests made through Middleware
type Prometheus struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New creates a registry holding the client request metrics
func New() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "Number of requests sent, by method and response status.",
		}, []string{"method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Request latency by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}

	p.registry.MustRegister(p.requests, p.duration)
	return p
}

func (p *Prometheus) WithGoCollectorRuntimeMetrics() {
	p.registry.MustRegister(collectors.NewGoCollector(
		collectors.WithGoCollectorRuntimeMetrics(collectors.GoRuntimeMetricsRule{Matcher: regexp.MustCompile("/.*")}),
	))
}

func (p *Prometheus) WithBuildInfoCollector() {
	p.registry.MustRegister(collectors.NewBuildInfoCollector())
}

func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Middleware returns a client decorator recording every request
func (p *Prometheus) Middleware() vhttp.Middleware {
	return func(next vhttp.Clienter) vhttp.Clienter {
		return &client{next: next, p: p}
	}
}

func (p *Prometheus) observe(method string, start time.Time, resp *vhttp.Response, err error) {
	p.duration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	p.requests.WithLabelValues(method, status(resp, err)).Inc()
}

func status(resp *vhttp.Response, err error) string {
	if err == nil {
		if resp == nil {
			return StatusError
		}
		return strconv.Itoa(resp.StatusCode)
	}

	var te *errors.TransportError
	if errors.As(err, &te) && te.Response != nil {
		return strconv.Itoa(te.Response.StatusCode)
	}
	return StatusError
}

type client struct {
	next vhttp.Clienter
	p    *Prometheus
}

func (c *client) Get(ctx context.Context, url string, params vhttp.Params) (resp *vhttp.Response, err error) {
	defer func(start time.Time) { c.p.observe(vhttp.MethodGet, start, resp, err) }(time.Now())
	return c.next.Get(ctx, url, params)
}

func (c *client) Post(ctx context.Context, url string, body any) (resp *vhttp.Response, err error) {
	defer func(start time.Time) { c.p.observe(vhttp.MethodPost, start, resp, err) }(time.Now())
	return c.next.Post(ctx, url, body)
}

func (c *client) Put(ctx context.Context, url string, body any) (resp *vhttp.Response, err error) {
	defer func(start time.Time) { c.p.observe(vhttp.MethodPut, start, resp, err) }(time.Now())
	return c.next.Put(ctx, url, body)
}

func (c *client) Patch(ctx context.Context, url string, body any) (resp *vhttp.Response, err error) {
	defer func(start time.Time) { c.p.observe(vhttp.MethodPatch, start, resp, err) }(time.Now())
	return c.next.Patch(ctx, url, body)
}

func (c *client) Delete(ctx context.Context, url string, data any) (resp *vhttp.Response, err error) {
	defer func(start time.Time) { c.p.observe(vhttp.MethodDelete, start, resp, err) }(time.Now())
	return c.next.Delete(ctx, url, data)
}
