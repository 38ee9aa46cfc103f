// Package tracking holds the courier-neutral model that provider adapters
// normalise their responses into.
//
// The package includes:
//   - DeliveryEvent: the current state of one parcel as reported by its courier
//   - Outcome: Pending, Delivered or Returned
//   - CODSettlement: a voucher listed in a courier's cash-on-delivery settlement feed
//   - UnavailableError: the single failure an adapter reports to its caller
//
// Provider specific status literals never leave the adapters; everything past
// the adapter boundary works on these types only.
package tracking
