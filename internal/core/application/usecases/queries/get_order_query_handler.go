package queries

import (
	"context"

	"reconciler/internal/core/ports"
)

type GetOrderQueryHandler struct {
	store ports.OrderRepository
}

func NewGetOrderQueryHandler(store ports.OrderRepository) GetOrderQueryHandler {
	return GetOrderQueryHandler{store: store}
}

// Handle returns the order carrying the query's tracking code. A missing order
// is reported as errs.ObjectNotFoundError.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	o, err := h.store.GetByTrackingCode(ctx, query.TrackingCode())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	method := o.DeliveryMethod()
	return GetOrderQueryResponse{
		ID:             o.ID(),
		TrackingCode:   o.TrackingCode().String(),
		DeliveryMethod: method,
		PaymentMethod:  o.PaymentMethod(),
		Status:         o.Status(),
		PaymentStatus:  o.PaymentStatus(),
		DeliveryDate:   o.DeliveryDate(),
		Consignee:      o.Consignee(),
		Tracked:        method.IsTracked(),
		Eligible:       method.IsTracked() && o.IsEligibleFor(method),
		Resolved:       o.PaymentStatus().IsTerminal(),
	}, nil
}
