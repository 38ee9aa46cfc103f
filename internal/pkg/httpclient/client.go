// Package httpclient is the traced JSON HTTP client shared by the courier
// adapters. Every call runs in its own client span and propagates the trace
// context to the remote service.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const maxErrorBody = 512

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == code
}

// Request describes one JSON call. Body is encoded as JSON when non-nil; the
// response is decoded into Out when non-nil.
type Request struct {
	Method   string
	URL      string
	Header   http.Header
	Body     any
	Out      any
	SpanName string
}

type Client struct {
	tracer     trace.Tracer
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient creates a client whose calls are each bounded by timeout on top
// of the caller's context. A zero timeout leaves the bound to the context.
func NewClient(tracer trace.Tracer, timeout time.Duration) *Client {
	return &Client{
		tracer: tracer,
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 16,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		timeout: timeout,
	}
}

// Do executes req and decodes the response.
func (c *Client) Do(ctx context.Context, req Request) error {
	parsedURL, err := url.Parse(req.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	spanName := "call-" + parsedURL.Hostname()
	if req.SpanName != "" {
		spanName = req.SpanName
	}

	ctx, span := c.tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	err = c.do(ctx, span, parsedURL, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (c *Client) do(ctx context.Context, span trace.Span, target *url.URL, req Request) error {
	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return err
	}
	for key, values := range req.Header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.url", target.Redacted()),
	)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(snippet))}
	}

	if req.Out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err = json.NewDecoder(resp.Body).Decode(req.Out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
