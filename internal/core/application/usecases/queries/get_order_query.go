package queries

import (
	"errors"
	"time"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/core/domain/model/order"
	"reconciler/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New("GetOrderQuery must be created via NewGetOrderQuery constructor")

// GetOrderQuery looks up the reconciliation state of one order by its
// courier voucher.
type GetOrderQuery struct {
	trackingCode kernel.TrackingCode

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(trackingCode kernel.TrackingCode) (GetOrderQuery, error) {
	if err := trackingCode.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		trackingCode: trackingCode,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrderQuery) TrackingCode() kernel.TrackingCode {
	return q.trackingCode
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// GetOrderQueryResponse describes where an order stands. Resolved is true
// once the payment status has left Unsettled; Tracked tells whether a
// courier API serves its delivery method.
type GetOrderQueryResponse struct {
	ID             int64
	TrackingCode   string
	DeliveryMethod order.DeliveryMethod
	PaymentMethod  order.PaymentMethod
	Status         order.Status
	PaymentStatus  order.PaymentStatus
	DeliveryDate   *time.Time
	Consignee      *string
	Tracked        bool
	Eligible       bool
	Resolved       bool
}
