package order

import (
	"fmt"

	"reconciler/internal/pkg/errs"
)

// PaymentMethod is how the customer pays, stored as the legacy integer code.
//
// Codes the reconciler does not know are kept as-is: the only decision that
// depends on the payment method is whether it requires the separate
// settlement feed, and unknown codes never do.
type PaymentMethod int

const (
	PaymentMethodUnknown PaymentMethod = iota
	Card
	CashOnDelivery
	BankTransfer
	PayPal
	PayInStore
	ChequeOnDelivery
)

func getPaymentMethodStrings() map[PaymentMethod]string {
	return map[PaymentMethod]string{
		PaymentMethodUnknown: "Unknown",
		Card:                 "Card",
		CashOnDelivery:       "CashOnDelivery",
		BankTransfer:         "BankTransfer",
		PayPal:               "PayPal",
		PayInStore:           "PayInStore",
		ChequeOnDelivery:     "ChequeOnDelivery",
	}
}

// AllPaymentMethods lists every named payment method.
func AllPaymentMethods() []PaymentMethod {
	return []PaymentMethod{Card, CashOnDelivery, BankTransfer, PayPal, PayInStore, ChequeOnDelivery}
}

func (m PaymentMethod) String() string {
	if str, ok := getPaymentMethodStrings()[m]; ok {
		return str
	}
	return fmt.Sprintf("PaymentMethod(%d)", int(m))
}

// RequiresSettlementFeed reports whether delivery alone does not settle the
// payment: cash and cheque collected by the courier are only confirmed once
// the courier's settlement feed lists the voucher.
func (m PaymentMethod) RequiresSettlementFeed() bool {
	return m == CashOnDelivery || m == ChequeOnDelivery
}

// DeliveryMethod selects the courier that carries an order. Each tracked
// courier has exactly one provider adapter.
type DeliveryMethod int

const (
	DeliveryMethodUnknown DeliveryMethod = iota
	StorePickup
	ACS
	Geniki
	OtherCourier
)

func getDeliveryMethodStrings() map[DeliveryMethod]string {
	return map[DeliveryMethod]string{
		DeliveryMethodUnknown: "Unknown",
		StorePickup:           "StorePickup",
		ACS:                   "ACS",
		Geniki:                "Geniki",
		OtherCourier:          "OtherCourier",
	}
}

func (m DeliveryMethod) String() string {
	if str, ok := getDeliveryMethodStrings()[m]; ok {
		return str
	}
	return "Unknown"
}

// Validate rejects DeliveryMethodUnknown and codes outside the persisted range.
func (m DeliveryMethod) Validate() error {
	if _, ok := getDeliveryMethodStrings()[m]; !ok || m == DeliveryMethodUnknown {
		return errs.NewValueIsInvalidErrorWithCause(
			"delivery method is invalid",
			fmt.Errorf("%d is not a valid delivery method", m),
		)
	}
	return nil
}

// IsTracked reports whether a courier API can be queried for this method.
func (m DeliveryMethod) IsTracked() bool {
	return m == ACS || m == Geniki
}
