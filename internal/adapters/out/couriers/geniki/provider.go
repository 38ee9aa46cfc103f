// Package geniki is the tracking adapter for Geniki Taxydromiki.
//
// The API uses a token handshake: POST /auth exchanges the account
// credentials for a bearer token, which is cached until shortly before it
// expires. A 401 on a status call drops the token and retries once with a
// fresh one. Geniki offers no settlement feed.
package geniki

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"reconciler/internal/adapters/out/couriers"
	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/core/domain/model/order"
	"reconciler/internal/core/domain/model/tracking"
	"reconciler/internal/pkg/httpclient"
)

const (
	Name = "geniki"

	defaultTokenTTL = 30 * time.Minute
	tokenRefreshLag = 30 * time.Second
)

var (
	errEmptyToken  = errors.New("auth response carries no token")
	errEmptyStatus = errors.New("status response carries no status")

	dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", time.DateTime, time.DateOnly}
)

// statusOutcomes maps Geniki status literals to outcomes. Anything else is
// still in transit.
var statusOutcomes = map[string]tracking.Outcome{
	"DELIVERED":              tracking.Delivered,
	"DELIVERED_TO_CONSIGNEE": tracking.Delivered,
	"RETURNED":               tracking.Returned,
	"RETURNED_TO_SENDER":     tracking.Returned,
}

type Config struct {
	APIURL   string
	Username string
	Password string
	APIKey   string
	// RateLimit caps outbound requests per second; zero disables the cap.
	RateLimit float64
}

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	APIKey   string `json:"api_key"`
}

type authResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

type statusResponse struct {
	Status     string `json:"status"`
	StatusDate string `json:"status_date"`
	Consignee  string `json:"consignee"`
}

// Provider implements ports.TrackingProvider for Geniki. It is safe for
// concurrent use; concurrent callers share one token.
type Provider struct {
	*couriers.Base
	cfg Config
	now func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func NewProvider(cfg Config, client *httpclient.Client, observer couriers.RequestObserver) *Provider {
	return &Provider{
		Base: couriers.NewBase(Name, order.Geniki, client, cfg.RateLimit, observer),
		cfg:  cfg,
		now:  time.Now,
	}
}

func (p *Provider) FetchTrackingStatus(ctx context.Context, code kernel.TrackingCode) (tracking.DeliveryEvent, error) {
	var resp statusResponse
	token, err := p.fetchStatus(ctx, code, &resp)
	if httpclient.IsStatus(err, http.StatusUnauthorized) {
		p.invalidateToken(token)
		_, err = p.fetchStatus(ctx, code, &resp)
	}
	if err != nil {
		return tracking.DeliveryEvent{}, p.Unavailable(code.String(), err)
	}

	literal := strings.ToUpper(strings.TrimSpace(resp.Status))
	if literal == "" {
		return tracking.DeliveryEvent{}, p.Unavailable(code.String(), errEmptyStatus)
	}

	switch statusOutcomes[literal] {
	case tracking.Delivered:
		return tracking.NewDeliveredEvent(
			code,
			couriers.ParseTime(resp.StatusDate, dateLayouts...),
			couriers.OptionalString(resp.Consignee),
		), nil
	case tracking.Returned:
		return tracking.NewReturnedEvent(code), nil
	default:
		return tracking.NewPendingEvent(code), nil
	}
}

// FetchCODSettlements always returns an empty list.
func (p *Provider) FetchCODSettlements(context.Context, time.Time) ([]tracking.CODSettlement, error) {
	return []tracking.CODSettlement{}, nil
}

// fetchStatus returns the token it presented so a 401 can invalidate exactly
// that token.
func (p *Provider) fetchStatus(ctx context.Context, code kernel.TrackingCode, out *statusResponse) (string, error) {
	token, err := p.bearerToken(ctx)
	if err != nil {
		return "", fmt.Errorf("authentication failed: %w", err)
	}

	return token, p.Call(ctx, httpclient.Request{
		Method:   http.MethodGet,
		URL:      p.endpoint("shipments", code.String(), "status"),
		Header:   http.Header{"Authorization": []string{"Bearer " + token}},
		Out:      out,
		SpanName: "geniki status",
	})
}

func (p *Provider) bearerToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && p.now().Before(p.expiresAt) {
		return p.token, nil
	}

	var resp authResponse
	err := p.Call(ctx, httpclient.Request{
		Method: http.MethodPost,
		URL:    p.endpoint("auth"),
		Body: authRequest{
			Username: p.cfg.Username,
			Password: p.cfg.Password,
			APIKey:   p.cfg.APIKey,
		},
		Out:      &resp,
		SpanName: "geniki auth",
	})
	if err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", errEmptyToken
	}

	ttl := defaultTokenTTL
	if resp.ExpiresIn > 0 {
		ttl = time.Duration(resp.ExpiresIn) * time.Second
	}
	if ttl > tokenRefreshLag {
		ttl -= tokenRefreshLag
	}

	p.token = resp.Token
	p.expiresAt = p.now().Add(ttl)
	return p.token, nil
}

// invalidateToken drops the cached token unless another caller has already
// replaced it.
func (p *Provider) invalidateToken(rejected string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.token == rejected {
		p.token = ""
	}
}

func (p *Provider) endpoint(segments ...string) string {
	escaped := make([]string, 0, len(segments))
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}
	return strings.TrimRight(p.cfg.APIURL, "/") + "/" + strings.Join(escaped, "/")
}
