// Package queries contains read-only use cases. Aggregate counts are served
// straight from the database; single-order lookups go through the order store.
package queries

import (
	"errors"

	"reconciler/internal/core/domain/model/order"
	"reconciler/internal/pkg/guard"
)

var (
	ErrGetPendingOrdersQueryIsNotConstructed = errors.New(
		"GetPendingOrdersQuery must be created via NewGetPendingOrdersQuery constructor",
	)
)

// GetPendingOrdersQuery reports the reconciliation backlog: dispatched orders
// whose payment is still unsettled, counted per delivery method.
//
// Example:
//
//	query := NewGetPendingOrdersQuery()
//	handler := NewGetPendingOrdersQueryHandler(db, "app_orders")
//
//	backlog, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get pending orders: %w", err)
//	}
//	for _, row := range backlog {
//	    fmt.Printf("%s: %d orders awaiting reconciliation\n", row.DeliveryMethod, row.Count)
//	}
type GetPendingOrdersQuery struct {
	guard guard.ConstructorGuard
}

func NewGetPendingOrdersQuery() GetPendingOrdersQuery {
	return GetPendingOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetPendingOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetPendingOrdersQueryIsNotConstructed)
}

// GetPendingOrdersQueryResponse is the backlog of one delivery method.
// CashOnDelivery counts the subset paid by cash or cheque on delivery.
type GetPendingOrdersQueryResponse struct {
	DeliveryMethod order.DeliveryMethod
	Count          int64
	CashOnDelivery int64
}
