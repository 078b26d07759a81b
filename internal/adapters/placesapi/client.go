// Package placesapi talks to the remote places backend over REST.
package placesapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/samirrijal/placemap/internal/core/apierror"
	"github.com/samirrijal/placemap/internal/pkg/metrics"
)

// Config configures a Client.
type Config struct {
	BaseURL        string
	Timeout        time.Duration // zero means no timeout
	RateLimitRPS   float64
	RateLimitBurst int
	HTTPClient     *http.Client
}

// Client implements ports.PlacesLookup, ports.SavedPlacesStore and
// ports.Authenticator against the backend. Every error it returns is an
// apierror failure.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	limiter *rate.Limiter
	tracer  trace.Tracer
}

// New creates a Client. Requests are throttled client side; nothing is retried.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}

	limit := rate.Inf
	if cfg.RateLimitRPS > 0 {
		limit = rate.Limit(cfg.RateLimitRPS)
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		baseURL: base,
		http:    hc,
		limiter: rate.NewLimiter(limit, burst),
		tracer:  otel.Tracer("github.com/samirrijal/placemap/internal/adapters/placesapi"),
	}, nil
}

// BaseURL returns the backend address.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Ping checks that the backend answers at all. Any HTTP response counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL.String(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	return nil
}

type call struct {
	op     string
	method string
	path   string
	query  url.Values
	token  string
	body   any
}

// do performs one request and decodes a 2xx body into out. Failures before
// the request leaves are ClientRequestFailure, a missing response is
// ConnectivityFailure, and an error status is classified from its body.
func (c *Client) do(ctx context.Context, cl call, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "placesapi."+cl.op, trace.WithSpanKind(trace.SpanKindClient))
	start := time.Now()
	defer func() {
		metrics.BackendRequestDuration.WithLabelValues(cl.op).Observe(time.Since(start).Seconds())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	// cl.path is already escaped.
	u := *c.baseURL
	u.RawPath = c.baseURL.EscapedPath() + cl.path
	u.Path, err = url.PathUnescape(u.RawPath)
	if err != nil {
		return &apierror.ClientRequestFailure{Op: cl.op, Err: err}
	}
	if len(cl.query) > 0 {
		u.RawQuery = cl.query.Encode()
	}
	span.SetAttributes(
		attribute.String("http.method", cl.method),
		attribute.String("http.url", u.String()),
	)

	var payload io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return &apierror.ClientRequestFailure{Op: cl.op, Err: fmt.Errorf("encode request: %w", err)}
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u.String(), payload)
	if err != nil {
		return &apierror.ClientRequestFailure{Op: cl.op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	if err := c.limiter.Wait(ctx); err != nil {
		return &apierror.ClientRequestFailure{Op: cl.op, Err: fmt.Errorf("rate limit: %w", err)}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &apierror.ConnectivityFailure{Op: cl.op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apierror.ConnectivityFailure{Op: cl.op, Err: fmt.Errorf("read response: %w", err)}
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode >= 400 {
		return apierror.Classify(resp.StatusCode, body)
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		// A response arrived but is unusable; the body is not echoed back.
		span.RecordError(err)
		return &apierror.ServerRejectionUnstructured{Status: resp.StatusCode}
	}
	return nil
}
