// Package errs provides the error types shared across the reconciler.
//
// Each error type follows the same pattern:
//   - a sentinel error variable (e.g. ErrValueIsRequired) usable with errors.Is
//   - a struct type carrying the offending parameter and an optional cause
//   - constructors with and without cause
//   - Unwrap returning the sentinel
//
// Configuration validation, domain constructors and the store adapters all
// report failures through these types so callers can classify them without
// string matching.
package errs
