package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const (
	tokenPath = "/api/token/"
	todoPath  = "/todo/"

	tracerName   = "github.com/idilsaglam/todoclient/internal/api"
	maxBodyBytes = 4 << 20
)

// Client talks to the remote to-do service. Endpoint paths are fixed; only
// the base URL (scheme, host and an optional prefix) is configurable.
type Client struct {
	base    string
	http    *http.Client
	logger  *log.Logger
	limiter *rate.Limiter
	tp      trace.TracerProvider
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRateLimit throttles outgoing requests. A limit of zero or rate.Inf
// leaves the client unthrottled.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Client) {
		if limit <= 0 {
			limit = rate.Inf
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(limit, burst)
	}
}

// WithTracerProvider overrides the global otel provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) { c.tp = tp }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url %q: missing host", baseURL)
	}
	c := &Client{
		base:    strings.TrimRight(u.String(), "/"),
		http:    &http.Client{},
		logger:  log.StandardLogger(),
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL is the normalized base the client was built with.
func (c *Client) BaseURL() string { return c.base }

type call struct {
	op     string
	method string
	route  string
	path   string
	token  string
	auth   bool
	body   any
	out    any
}

func (c *Client) tracer() trace.Tracer {
	tp := c.tp
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer(tracerName)
}

func (c *Client) do(ctx context.Context, cl call) error {
	ctx, span := c.tracer().Start(ctx, "todo.api."+cl.op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", cl.method),
			attribute.String("http.route", cl.route),
		))
	defer span.End()

	start := time.Now()
	requestID := uuid.NewString()
	status, err := c.roundTrip(ctx, cl, requestID)
	if status != 0 {
		span.SetAttributes(attribute.Int("http.status_code", status))
	}

	fields := log.Fields{
		"op":          cl.op,
		"method":      cl.method,
		"route":       cl.route,
		"status":      status,
		"request_id":  requestID,
		"duration_ms": durationToMillis(time.Since(start)),
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		fields["error"] = err.Error()
		fields["error_kind"] = KindOf(err).String()
		c.logger.WithFields(fields).Warn("api.request")
		return err
	}
	span.SetStatus(codes.Ok, "")
	c.logger.WithFields(fields).Debug("api.request")
	return nil
}

func (c *Client) roundTrip(ctx context.Context, cl call, requestID string) (int, error) {
	if cl.auth && cl.token == "" {
		return 0, &Error{Op: cl.op, Kind: KindUnauthorized, Message: "not signed in"}
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, &Error{Op: cl.op, Kind: KindNetwork, Err: fmt.Errorf("rate limit: %w", err)}
	}

	var body io.Reader
	if cl.body != nil {
		b, err := sonic.ConfigStd.Marshal(cl.body)
		if err != nil {
			return 0, &Error{Op: cl.op, Kind: KindInvalid, Err: fmt.Errorf("encode body: %w", err)}
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, c.base+cl.path, body)
	if err != nil {
		return 0, &Error{Op: cl.op, Kind: KindInvalid, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.auth {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, &Error{Op: cl.op, Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, &Error{Op: cl.op, Kind: KindNetwork, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, statusError(cl.op, resp.StatusCode, raw)
	}
	if cl.out == nil {
		return resp.StatusCode, nil
	}
	if err := sonic.ConfigStd.Unmarshal(raw, cl.out); err != nil {
		return resp.StatusCode, &Error{Op: cl.op, Kind: KindDecode, Status: resp.StatusCode, Err: fmt.Errorf("decode body: %w", err)}
	}
	return resp.StatusCode, nil
}

func statusError(op string, status int, raw []byte) *Error {
	kind := KindServer
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		kind = KindUnauthorized
	}
	msg := serverMessage(raw)
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &Error{Op: op, Kind: kind, Status: status, Message: msg}
}

// serverMessage pulls a readable message out of a REST framework error body:
// either {"detail": "..."} or per-field lists like {"task": ["..."]}.
func serverMessage(raw []byte) string {
	var body map[string]any
	if err := sonic.ConfigStd.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if d, ok := body["detail"].(string); ok {
		return d
	}
	keys := make([]string, 0, len(body))
	for k := range body {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var parts []string
	for _, k := range keys {
		switch v := body[k].(type) {
		case string:
			parts = append(parts, k+": "+v)
		case []any:
			for _, e := range v {
				if s, ok := e.(string); ok {
					parts = append(parts, k+": "+s)
				}
			}
		}
	}
	return strings.Join(parts, "; ")
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}
