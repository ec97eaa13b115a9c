package shell

import (
	"context"

	"github.com/shelfwise/circulation-engine-go/example/shared/core"
	"github.com/shelfwise/circulation-engine-go/inventory"
)

// LoanStore commits loan decisions. Implementations perform each method as
// one transaction with conditional updates: a commit whose precondition no
// longer holds (the copy is no longer available, the loan is no longer
// active) changes nothing and returns the matching sentinel error.
type LoanStore interface {
	// CreateLoan records a new loan and flips the copy to on-loan with no
	// current location. Returns core.ErrConcurrentModification when the
	// copy is not available anymore.
	CreateLoan(ctx context.Context, loan core.Loan) (core.LoanIDInt, error)

	// CloseLoan records the return date and restores the copy to available
	// at its home location. Returns core.ErrLoanNotActive when the loan is
	// unknown or already closed.
	CloseLoan(ctx context.Context, loanID core.LoanIDInt, returnedOn inventory.Date) (core.Loan, error)
}

// ReservationStore commits allocation decisions.
type ReservationStore interface {
	// CommitAllocation flips the picked copies to reserved and marks the
	// reservation fulfilled. Returns core.ErrReservationNotPending when the
	// reservation left the pending state, and
	// core.ErrConcurrentModification when the picked stock moved between
	// allocation and commit; the latter is retryable because re-allocating
	// re-reads current stock.
	CommitAllocation(ctx context.Context, reservationID inventory.ReservationIDInt, picks []inventory.Pick) error
}
