// Package commands contains the reconciliation use cases that modify order
// state: confirming cash on delivery settlements and applying delivery
// outcomes reported by the couriers.
//
// Handlers never abort a run on a single failure. They return a Report with
// per-provider counters that the caller logs and exports as metrics.
package commands
