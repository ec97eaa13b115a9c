// Package issueloan implements the issue-loan use case: decide via the
// inventory engine whether a new loan of a copy fits the title's stock over
// the loan window, and commit the loan when it does. The check and the
// commit run inside one per-title critical section so concurrent issuances
// cannot both claim the last remaining copy.
package issueloan
