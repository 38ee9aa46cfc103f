package tracking

import (
	"time"

	"reconciler/internal/core/domain/model/kernel"
)

// Outcome is the normalised delivery state of a parcel.
type Outcome int

const (
	// Pending covers in-transit parcels and any courier state the adapter does
	// not map to a final outcome.
	Pending Outcome = iota
	Delivered
	Returned
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "Pending"
	case Delivered:
		return "Delivered"
	case Returned:
		return "Returned"
	default:
		return "Unknown"
	}
}

// AllOutcomes lists every outcome, including Pending.
func AllOutcomes() []Outcome {
	return []Outcome{Pending, Delivered, Returned}
}

// DeliveryEvent is produced per query and never persisted.
type DeliveryEvent struct {
	TrackingCode kernel.TrackingCode
	Outcome      Outcome
	DeliveredAt  *time.Time
	Consignee    *string
}

// NewPendingEvent reports a parcel without a final outcome yet.
func NewPendingEvent(code kernel.TrackingCode) DeliveryEvent {
	return DeliveryEvent{TrackingCode: code, Outcome: Pending}
}

// NewDeliveredEvent reports a delivered parcel. deliveredAt and consignee are
// optional; couriers do not always provide them.
func NewDeliveredEvent(code kernel.TrackingCode, deliveredAt *time.Time, consignee *string) DeliveryEvent {
	return DeliveryEvent{
		TrackingCode: code,
		Outcome:      Delivered,
		DeliveredAt:  deliveredAt,
		Consignee:    consignee,
	}
}

// NewReturnedEvent reports a parcel returned to the sender.
func NewReturnedEvent(code kernel.TrackingCode) DeliveryEvent {
	return DeliveryEvent{TrackingCode: code, Outcome: Returned}
}

// CODSettlement is one voucher listed in a courier's settlement feed, meaning
// the courier collected the cash or cheque and will remit it.
type CODSettlement struct {
	TrackingCode kernel.TrackingCode
	Amount       float64
	SettledAt    *time.Time
}
