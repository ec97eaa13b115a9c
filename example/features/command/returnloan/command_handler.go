package returnloan

import (
	"context"

	"github.com/shelfwise/circulation-engine-go/example/shared/core"
	"github.com/shelfwise/circulation-engine-go/example/shared/shell"
	"github.com/shelfwise/circulation-engine-go/inventory"
)

// Result is the handler's outcome with the closed loan on commit.
type Result struct {
	shell.HandlerResult
	Loan core.Loan
}

// CommandHandler closes loans. Returns need no availability decision and no
// per-title lock: restoring a copy only ever adds stock.
type CommandHandler struct {
	loans shell.LoanStore
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(loans shell.LoanStore) CommandHandler {
	return CommandHandler{loans: loans}
}

// Handle records the return. An unknown or already-closed loan surfaces as
// core.ErrLoanNotActive.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, error) {
	if !command.ReturnedOn.IsValid() {
		return Result{}, inventory.ErrInvalidDateRange
	}

	loan, err := h.loans.CloseLoan(ctx, command.LoanID, command.ReturnedOn)
	if err != nil {
		return Result{HandlerResult: shell.NewErrorResult(shell.RetryMetrics{Attempts: 1, LastErrorType: "other"})}, err
	}

	return Result{
		HandlerResult: shell.NewCommittedResult(shell.RetryMetrics{Attempts: 1, LastErrorType: "none"}),
		Loan:          loan,
	}, nil
}
