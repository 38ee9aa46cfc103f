// Package order models the slice of an order that the reconciler reads and
// updates.
//
// The package includes:
//   - Order: read model restored from the order store
//   - EligibleOrder: projection returned by the eligible-order query
//   - DeliveryOutcome: the payment/delivery field update written back
//   - Status, PaymentStatus, PaymentMethod, DeliveryMethod: named enumerations
//     whose integer values are the persisted codes of the legacy order table
//
// Key business rules:
//   - Only Dispatched orders with an Unsettled payment status are eligible
//   - Payment status only moves away from Unsettled; the targets are terminal
//   - Cash and cheque on delivery require the separate settlement feed
package order
