// Package services provides domain services of the reconciler.
//
// The package includes:
//   - StatusDecider: maps a normalised courier DeliveryEvent and the order's
//     payment method to the payment/delivery update to write, if any
//
// Domain services are pure: they perform no I/O and hold no state, so the
// orchestrator can call them from any number of workers.
package services
