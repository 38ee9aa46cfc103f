// Package acs is the tracking adapter for ACS Courier.
//
// ACS exposes a single JSON RPC endpoint. The operation is selected by an
// alias in the request body, next to the account credentials; the API key
// travels in the AcsApiKey header.
package acs

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"reconciler/internal/adapters/out/couriers"
	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/core/domain/model/order"
	"reconciler/internal/core/domain/model/tracking"
	"reconciler/internal/pkg/httpclient"
)

const Name = "acs"

var (
	errNoTrackingData = errors.New("no tracking data for voucher")

	dateLayouts = []string{"2006-01-02T15:04:05", time.DateTime, time.DateOnly}
)

type Config struct {
	APIURL          string
	CompanyID       string
	CompanyPassword string
	UserID          string
	UserPassword    string
	APIKey          string
	// RateLimit caps outbound requests per second; zero disables the cap.
	RateLimit float64
}

// Provider implements ports.TrackingProvider for ACS.
type Provider struct {
	*couriers.Base
	cfg    Config
	logger *slog.Logger
}

func NewProvider(
	cfg Config,
	client *httpclient.Client,
	observer couriers.RequestObserver,
	logger *slog.Logger,
) *Provider {
	return &Provider{
		Base:   couriers.NewBase(Name, order.ACS, client, cfg.RateLimit, observer),
		cfg:    cfg,
		logger: logger.With("component", "acs_provider", "provider", Name),
	}
}

// FetchTrackingStatus queries the tracking summary of one voucher. A returned
// flag wins over a delivery flag when ACS reports both.
func (p *Provider) FetchTrackingStatus(ctx context.Context, code kernel.TrackingCode) (tracking.DeliveryEvent, error) {
	var resp response[trackingRow]
	if err := p.call(ctx, aliasTrackingSummary, inputParameters{VoucherNo: code.String()}, &resp); err != nil {
		return tracking.DeliveryEvent{}, p.Unavailable(code.String(), err)
	}

	rows, err := resp.rows()
	if err != nil {
		return tracking.DeliveryEvent{}, p.Unavailable(code.String(), err)
	}
	if len(rows) == 0 {
		return tracking.DeliveryEvent{}, p.Unavailable(code.String(), errNoTrackingData)
	}

	row := rows[0]
	if row.ErrorMessage != "" {
		return tracking.DeliveryEvent{}, p.Unavailable(code.String(), errors.New(row.ErrorMessage))
	}

	switch {
	case row.ReturnedFlag == 1:
		return tracking.NewReturnedEvent(code), nil
	case row.DeliveryFlag == 1:
		return tracking.NewDeliveredEvent(
			code,
			couriers.ParseTime(row.DeliveryDate, dateLayouts...),
			couriers.OptionalString(row.Consignee),
		), nil
	default:
		return tracking.NewPendingEvent(code), nil
	}
}

// FetchCODSettlements lists the vouchers ACS settled on the calendar date of
// asOf. An empty table means nothing was settled that day. Rows without a
// usable voucher number are logged and left out.
func (p *Provider) FetchCODSettlements(ctx context.Context, asOf time.Time) ([]tracking.CODSettlement, error) {
	var resp response[settlementRow]
	params := inputParameters{SettlementDate: asOf.Format(time.DateOnly)}
	if err := p.call(ctx, aliasCODSettlements, params, &resp); err != nil {
		return nil, p.Unavailable("", err)
	}

	rows, err := resp.rows()
	if err != nil {
		return nil, p.Unavailable("", err)
	}

	settlements := make([]tracking.CODSettlement, 0, len(rows))
	skipped := 0
	for i, row := range rows {
		if row.ErrorMessage != "" {
			return nil, p.Unavailable("", errors.New(row.ErrorMessage))
		}

		code, err := kernel.NewTrackingCode(string(row.VoucherNo))
		if err != nil {
			skipped++
			p.logger.WarnContext(ctx, "skipping settlement row with invalid voucher",
				"row", i, "cod_amount", row.CODAmount, "error", err)
			continue
		}

		settlements = append(settlements, tracking.CODSettlement{
			TrackingCode: code,
			Amount:       row.CODAmount,
			SettledAt:    couriers.ParseTime(row.SettlementDate, dateLayouts...),
		})
	}

	if skipped > 0 {
		p.logger.WarnContext(ctx, "settlement feed contained invalid rows",
			"settlement_date", params.SettlementDate, "skipped", skipped, "accepted", len(settlements))
	}
	return settlements, nil
}

func (p *Provider) call(ctx context.Context, alias string, params inputParameters, out any) error {
	params.CompanyID = p.cfg.CompanyID
	params.CompanyPassword = p.cfg.CompanyPassword
	params.UserID = p.cfg.UserID
	params.UserPassword = p.cfg.UserPassword

	return p.Call(ctx, httpclient.Request{
		Method:   http.MethodPost,
		URL:      p.cfg.APIURL,
		Header:   http.Header{"AcsApiKey": []string{p.cfg.APIKey}},
		Body:     request{Alias: alias, Parameters: params},
		Out:      out,
		SpanName: "acs " + alias,
	})
}
