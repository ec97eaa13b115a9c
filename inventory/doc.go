// Package inventory implements the availability and reservation-fulfilment
// engine for a library's physical book stock.
//
// The engine answers two questions for the surrounding circulation
// application:
//
//   - May a new time-bounded loan of a copy be issued without driving the
//     title's available stock negative on any day of the loan window?
//     See Engine.CheckAvailability.
//   - From which storage locations should a due reservation be collected?
//     See Engine.AllocateReservation.
//
// Both operations are read-then-decide: they query an injected Repository,
// compute a decision, and leave all state changes to the caller. Callers
// that commit the resulting state change must hold the per-title critical
// section (see Engine.LockTitle) across read, decision, and commit,
// otherwise two concurrent issuances can both observe a passing check for
// the last remaining copy.
//
// Business conflicts ("not enough stock", "shortfall of N copies") are
// normal result values, never errors. Errors are reserved for invalid
// input, unknown identifiers, and repository failures.
package inventory
