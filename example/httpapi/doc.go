// Package httpapi exposes the circulation engine over HTTP for the example
// service: availability checks, allocations, and the loan and reservation
// lifecycle commands.
//
// Business conflicts (a disallowed loan, an allocation shortfall) map to
// 409 responses carrying the decision details; invalid input maps to 400,
// unknown identifiers to 404, and repository failures to 500.
package httpapi
