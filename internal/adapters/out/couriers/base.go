// Package couriers holds what the courier tracking adapters share: provider
// identity, outbound rate limiting and failure classification. Each courier
// lives in its own subpackage and owns its handshake and status mapping.
package couriers

import (
	"context"
	"math"
	"strings"
	"time"

	"reconciler/internal/core/domain/model/order"
	"reconciler/internal/core/domain/model/tracking"
	"reconciler/internal/pkg/httpclient"

	"golang.org/x/time/rate"
)

// Request results reported to a RequestObserver.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// RequestObserver is notified of every outbound provider call.
type RequestObserver interface {
	ObserveProviderRequest(provider, result string)
}

type noopObserver struct{}

func (noopObserver) ObserveProviderRequest(string, string) {}

// Base provides the common part of a TrackingProvider. Concrete adapters embed
// it and route every HTTP call through Call.
type Base struct {
	name     string
	method   order.DeliveryMethod
	client   *httpclient.Client
	limiter  *rate.Limiter
	observer RequestObserver
}

// NewBase creates a Base allowing requestsPerSecond outbound calls. A value of
// zero or less disables the limit. observer may be nil.
func NewBase(
	name string,
	method order.DeliveryMethod,
	client *httpclient.Client,
	requestsPerSecond float64,
	observer RequestObserver,
) *Base {
	limit := rate.Inf
	burst := 1
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
		burst = int(math.Max(1, math.Ceil(requestsPerSecond)))
	}

	if observer == nil {
		observer = noopObserver{}
	}

	return &Base{
		name:     name,
		method:   method,
		client:   client,
		limiter:  rate.NewLimiter(limit, burst),
		observer: observer,
	}
}

func (b *Base) Name() string {
	return b.name
}

func (b *Base) DeliveryMethod() order.DeliveryMethod {
	return b.method
}

// Call waits for the rate limiter and executes req. Waiting fails when ctx
// ends first, for example when the run deadline passes.
func (b *Base) Call(ctx context.Context, req httpclient.Request) error {
	if err := b.limiter.Wait(ctx); err != nil {
		b.observer.ObserveProviderRequest(b.name, ResultError)
		return err
	}

	if req.SpanName == "" {
		req.SpanName = b.name
	}

	err := b.client.Do(ctx, req)
	if err != nil {
		b.observer.ObserveProviderRequest(b.name, ResultError)
		return err
	}

	b.observer.ObserveProviderRequest(b.name, ResultOK)
	return nil
}

// Unavailable classifies cause as a provider failure for trackingCode. Pass an
// empty trackingCode for settlement feed failures.
func (b *Base) Unavailable(trackingCode string, cause error) error {
	return tracking.NewUnavailableError(b.name, trackingCode, cause)
}

// ParseTime tries each layout in turn and returns nil for blank or
// unparseable values. Couriers report local wall-clock times without a zone;
// they are interpreted in time.Local.
func ParseTime(value string, layouts ...string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return &t
		}
	}
	return nil
}

// OptionalString returns nil for blank values.
func OptionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
