package core

import (
	"errors"
)

// Instead of implementing full value objects, alias types and small records
// are used here ...

// LoanIDInt identifies a loan.
type LoanIDInt = int64

// StudentIDInt identifies a student borrower.
type StudentIDInt = int64

// StaffIDInt identifies the staff member who authorised an operation.
type StaffIDInt = int64

// ErrConcurrentModification is returned by circulation stores when a
// conditional update affected no rows because another writer changed the
// state between the decision and the commit. The conflict is retryable:
// re-entering the critical section re-reads current state.
var ErrConcurrentModification = errors.New("concurrent modification, no rows were affected")

// ErrReservationNotPending is returned when a commit targets a reservation
// that has already been fulfilled, cancelled, or expired. Not retryable.
var ErrReservationNotPending = errors.New("reservation is not pending")

// ErrLoanNotActive is returned when a return targets a loan that is unknown
// or already closed. Not retryable.
var ErrLoanNotActive = errors.New("loan is not active")
