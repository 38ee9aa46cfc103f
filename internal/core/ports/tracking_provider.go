package ports

import (
	"context"
	"time"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/core/domain/model/order"
	"reconciler/internal/core/domain/model/tracking"
)

// TrackingProvider wraps one courier's tracking API.
//
// Implementations fail soft: every failure, including transport errors, non
// success responses, rejected credentials, malformed payloads and empty result
// sets, is returned as an error matching tracking.ErrUnavailable. Callers skip
// the affected order and leave it for the next run.
type TrackingProvider interface {
	// Name identifies the provider in logs, metrics and reports.
	Name() string

	// DeliveryMethod is the order delivery method this provider tracks.
	DeliveryMethod() order.DeliveryMethod

	// FetchTrackingStatus returns the normalised delivery state of one parcel.
	FetchTrackingStatus(ctx context.Context, code kernel.TrackingCode) (tracking.DeliveryEvent, error)

	// FetchCODSettlements lists the vouchers the courier settled on the date
	// of asOf. Providers without a settlement feed return an empty slice.
	FetchCODSettlements(ctx context.Context, asOf time.Time) ([]tracking.CODSettlement, error)
}
