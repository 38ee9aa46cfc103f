package queries

import (
	"context"
	"fmt"

	"reconciler/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// GetPendingOrdersQueryHandler counts eligible orders in the orders table.
type GetPendingOrdersQueryHandler struct {
	db    *gorm.DB
	table string
}

// NewGetPendingOrdersQueryHandler creates a handler reading from table.
func NewGetPendingOrdersQueryHandler(db *gorm.DB, table string) GetPendingOrdersQueryHandler {
	return GetPendingOrdersQueryHandler{db: db, table: table}
}

// Handle returns one row per delivery method that has pending orders, sorted
// by delivery method code.
func (h GetPendingOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetPendingOrdersQuery,
) ([]GetPendingOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	type backlogRow struct {
		DeliveryMethod int
		Pending        int64
		COD            int64
	}

	var rows []backlogRow
	err := h.db.WithContext(ctx).
		Table(h.table).
		Select(
			"or_deliverymethod AS delivery_method, COUNT(*) AS pending, "+
				"SUM(CASE WHEN or_paymethod IN (?, ?) THEN 1 ELSE 0 END) AS cod",
			int(order.CashOnDelivery), int(order.ChequeOnDelivery),
		).
		Where("or_status = ? AND or_pay_status = ?", int(order.Dispatched), int(order.Unsettled)).
		Group("or_deliverymethod").
		Order("or_deliverymethod").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count pending orders: %w", err)
	}

	result := make([]GetPendingOrdersQueryResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, GetPendingOrdersQueryResponse{
			DeliveryMethod: order.DeliveryMethod(row.DeliveryMethod),
			Count:          row.Pending,
			CashOnDelivery: row.COD,
		})
	}

	return result, nil
}
