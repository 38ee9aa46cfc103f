// Package ports defines the contracts between the reconciliation use cases and
// the outside world: the order store and the courier tracking providers.
// Adapters implement them; command handlers depend only on these interfaces.
package ports

import (
	"context"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/core/domain/model/order"
)

// OrderRepository is the persistence contract for the orders table shared with
// the order-management subsystem. The reconciler never inserts or deletes rows.
//
// All updates are keyed by tracking code and touch a single row, so calls with
// distinct codes are safe to run concurrently. Repeating an update with the
// same arguments leaves the row unchanged.
type OrderRepository interface {
	// SelectEligibleOrders returns orders in Dispatched status, carried by the
	// given delivery method and still Unsettled. Ordering is unspecified and
	// the result may be empty.
	SelectEligibleOrders(ctx context.Context, method order.DeliveryMethod) ([]order.EligibleOrder, error)

	// MarkCODConfirmed sets the payment status of the matching order to
	// CODConfirmedPending. It reports false when no row matched the code.
	MarkCODConfirmed(ctx context.Context, code kernel.TrackingCode) (bool, error)

	// ApplyDeliveryOutcome writes payment status, delivery date and consignee of
	// the matching order. It reports false when no row matched the code.
	ApplyDeliveryOutcome(ctx context.Context, code kernel.TrackingCode, outcome order.DeliveryOutcome) (bool, error)

	// GetByTrackingCode restores a single order. It returns an
	// errs.ObjectNotFoundError when no row matches.
	GetByTrackingCode(ctx context.Context, code kernel.TrackingCode) (*order.Order, error)
}
