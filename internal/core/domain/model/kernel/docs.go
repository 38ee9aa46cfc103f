// Package kernel provides the value objects shared by the order and tracking
// models of the reconciler.
//
// The package includes:
//   - TrackingCode: the courier voucher number, business key of every store update
//   - RunID: identifier of a single reconciliation pass, used for log correlation
//
// Both are immutable and their zero values fail Validate, so values that skipped
// their constructor are caught at the store and adapter boundaries.
package kernel
