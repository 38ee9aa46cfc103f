package services

import (
	"reconciler/internal/core/domain/model/order"
	"reconciler/internal/core/domain/model/tracking"
)

// StatusDecider decides the order update for a courier report.
//
// Business rules, in priority order:
//   - Returned parcels become Returned, without delivery date or consignee
//   - Delivered parcels paid by cash or cheque on delivery become
//     CODConfirmedPending: delivery alone does not settle them, the courier's
//     settlement feed does
//   - Any other delivered parcel becomes DeliveredSettled
//   - Pending or unknown outcomes produce no update
//
// Delivered updates copy the delivery date and consignee from the event.
//
// Example usage:
//
//	outcome, ok := services.NewStatusDecider().Decide(event, eligible.PaymentMethod)
//	if !ok {
//	    // nothing to write yet, the order stays eligible
//	    return nil
//	}
//	_, err := store.ApplyDeliveryOutcome(ctx, eligible.TrackingCode, outcome)
type StatusDecider struct{}

func NewStatusDecider() StatusDecider {
	return StatusDecider{}
}

// Decide returns the update to apply and true, or false when the caller must
// not write anything.
func (StatusDecider) Decide(event tracking.DeliveryEvent, paymentMethod order.PaymentMethod) (order.DeliveryOutcome, bool) {
	switch event.Outcome {
	case tracking.Returned:
		return order.NewReturnedOutcome(), true

	case tracking.Delivered:
		status := order.DeliveredSettled
		if paymentMethod.RequiresSettlementFeed() {
			status = order.CODConfirmedPending
		}

		outcome, err := order.NewDeliveredOutcome(status, event.DeliveredAt, event.Consignee)
		if err != nil {
			// unreachable: status is always a delivered payment status here
			return order.DeliveryOutcome{}, false
		}
		return outcome, true

	default:
		return order.DeliveryOutcome{}, false
	}
}
