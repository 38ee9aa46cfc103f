package order

import (
	"fmt"

	"reconciler/internal/pkg/errs"
)

// Status is the coarse lifecycle stage of an order as owned by the
// order-management subsystem. The reconciler never writes it; it only filters
// on Dispatched.
//
// The integer values are the persisted codes of the legacy order table.
type Status int

const (
	// StatusUnknown catches uninitialised values.
	StatusUnknown Status = iota
	Placed
	Confirmed
	Packed
	// Dispatched orders have been handed to a courier and are the only ones
	// considered for reconciliation.
	Dispatched
	Completed
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown: "Unknown",
		Placed:        "Placed",
		Confirmed:     "Confirmed",
		Packed:        "Packed",
		Dispatched:    "Dispatched",
		Completed:     "Completed",
		Cancelled:     "Cancelled",
	}
}

// Validate rejects StatusUnknown and codes outside the persisted range.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == StatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// PaymentStatus is the settlement state of an order and the only column the
// reconciler transitions.
//
// State transitions issued by the reconciler:
//
//	               ┌──> CODConfirmedPending
//	Unsettled ─────┼──> Returned
//	               └──> DeliveredSettled
//
// All three targets are terminal for the reconciler: once an order leaves
// Unsettled it is no longer eligible and is never queried again.
type PaymentStatus int

const (
	// Unsettled orders are awaiting a delivery or settlement outcome.
	Unsettled PaymentStatus = iota

	// CODConfirmedPending means the courier delivered a cash/cheque on delivery
	// parcel, or the settlement feed confirmed the collection.
	CODConfirmedPending

	// Returned means the parcel went back to the sender.
	Returned

	// DeliveredSettled means the parcel was delivered and payment was already
	// settled through another channel.
	DeliveredSettled
)

func getPaymentStatusStrings() map[PaymentStatus]string {
	return map[PaymentStatus]string{
		Unsettled:           "Unsettled",
		CODConfirmedPending: "CODConfirmedPending",
		Returned:            "Returned",
		DeliveredSettled:    "DeliveredSettled",
	}
}

func (s PaymentStatus) Validate() error {
	if _, ok := getPaymentStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"payment status is invalid",
			fmt.Errorf("%d is not a valid payment status", s),
		)
	}
	return nil
}

func (s PaymentStatus) String() string {
	if str, ok := getPaymentStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the reconciler has already resolved the order.
func (s PaymentStatus) IsTerminal() bool {
	return s == CODConfirmedPending || s == Returned || s == DeliveredSettled
}
