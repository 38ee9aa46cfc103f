package order

import (
	"errors"
	"fmt"
	"time"

	"reconciler/internal/core/domain/model/kernel"
	"reconciler/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via RestoreOrder constructor")
)

// Order is the reconciler's read view of a row owned by the order-management
// subsystem. Rows are never created or deleted here; the store restores them
// to filter eligible orders and to answer lookups. Writes go through the store
// by tracking code.
type Order struct {
	id             int64
	trackingCode   kernel.TrackingCode
	deliveryMethod DeliveryMethod
	paymentMethod  PaymentMethod
	status         Status
	paymentStatus  PaymentStatus
	deliveryDate   *time.Time
	consignee      *string

	isConstructed bool
}

// RestoreOrder rebuilds an order from persisted values, validating each field.
// All validation failures are joined into a single error.
func RestoreOrder(
	id int64,
	trackingCode kernel.TrackingCode,
	deliveryMethod DeliveryMethod,
	paymentMethod PaymentMethod,
	status Status,
	paymentStatus PaymentStatus,
	deliveryDate *time.Time,
	consignee *string,
) (*Order, error) {
	var idErr error
	if id <= 0 {
		idErr = errs.NewValueIsInvalidErrorWithCause("order id is invalid", fmt.Errorf("%d is not greater than 0", id))
	}

	if err := errors.Join(
		idErr,
		trackingCode.Validate(),
		deliveryMethod.Validate(),
		status.Validate(),
		paymentStatus.Validate(),
	); err != nil {
		return nil, err
	}

	return &Order{
		id:             id,
		trackingCode:   trackingCode,
		deliveryMethod: deliveryMethod,
		paymentMethod:  paymentMethod,
		status:         status,
		paymentStatus:  paymentStatus,
		deliveryDate:   deliveryDate,
		consignee:      consignee,
		isConstructed:  true,
	}, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() int64 {
	return o.id
}

func (o *Order) TrackingCode() kernel.TrackingCode {
	return o.trackingCode
}

func (o *Order) DeliveryMethod() DeliveryMethod {
	return o.deliveryMethod
}

func (o *Order) PaymentMethod() PaymentMethod {
	return o.paymentMethod
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

func (o *Order) DeliveryDate() *time.Time {
	return o.deliveryDate
}

func (o *Order) Consignee() *string {
	return o.consignee
}

// IsEligibleFor reports whether the order must be reconciled against the
// courier serving method: dispatched, carried by that courier, and unsettled.
func (o *Order) IsEligibleFor(method DeliveryMethod) bool {
	return o.status == Dispatched && o.deliveryMethod == method && o.paymentStatus == Unsettled
}

// Eligible projects the fields the reconciler needs to query a courier.
func (o *Order) Eligible() EligibleOrder {
	return EligibleOrder{
		ID:            o.id,
		TrackingCode:  o.trackingCode,
		PaymentMethod: o.paymentMethod,
	}
}

// EligibleOrder is the projection returned by the eligible-order query.
type EligibleOrder struct {
	ID            int64
	TrackingCode  kernel.TrackingCode
	PaymentMethod PaymentMethod
}
