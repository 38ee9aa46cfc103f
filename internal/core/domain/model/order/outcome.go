package order

import (
	"errors"
	"fmt"
	"time"

	"reconciler/internal/pkg/errs"
	"reconciler/internal/pkg/guard"
)

// ErrDeliveryOutcomeIsNotConstructed is returned when a DeliveryOutcome was not
// built by NewReturnedOutcome or NewDeliveredOutcome.
var ErrDeliveryOutcomeIsNotConstructed = errors.New(
	"DeliveryOutcome must be created via NewReturnedOutcome or NewDeliveredOutcome",
)

// DeliveryOutcome is the field update the reconciler writes for one order:
// the new payment status plus the delivery date and consignee when the parcel
// was delivered.
type DeliveryOutcome struct {
	paymentStatus PaymentStatus
	deliveryDate  *time.Time
	consignee     *string

	guard guard.ConstructorGuard
}

// NewReturnedOutcome builds the update for a parcel that went back to the
// sender. Returned orders never carry a delivery date or consignee.
func NewReturnedOutcome() DeliveryOutcome {
	return DeliveryOutcome{
		paymentStatus: Returned,
		guard:         guard.NewConstructorGuard(),
	}
}

// NewDeliveredOutcome builds the update for a delivered parcel. status must be
// CODConfirmedPending or DeliveredSettled.
func NewDeliveredOutcome(status PaymentStatus, deliveryDate *time.Time, consignee *string) (DeliveryOutcome, error) {
	if status != CODConfirmedPending && status != DeliveredSettled {
		return DeliveryOutcome{}, errs.NewValueIsInvalidErrorWithCause(
			"payment status is invalid",
			fmt.Errorf("%s is not a delivered payment status", status),
		)
	}

	return DeliveryOutcome{
		paymentStatus: status,
		deliveryDate:  deliveryDate,
		consignee:     consignee,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (o DeliveryOutcome) Validate() error {
	return o.guard.Validate(ErrDeliveryOutcomeIsNotConstructed)
}

func (o DeliveryOutcome) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

// DeliveryDate is nil for returned parcels and when the courier did not report one.
func (o DeliveryOutcome) DeliveryDate() *time.Time {
	return o.deliveryDate
}

// Consignee is nil for returned parcels and when the courier did not report one.
func (o DeliveryOutcome) Consignee() *string {
	return o.consignee
}
