package issueloan

import (
	"context"

	"github.com/shelfwise/circulation-engine-go/example/shared/core"
	"github.com/shelfwise/circulation-engine-go/example/shared/shell"
	"github.com/shelfwise/circulation-engine-go/inventory"
)

// RejectionReasonNotEnoughStock is reported when the availability check
// found a day in the loan window on which stock would go negative.
const RejectionReasonNotEnoughStock = "not enough stock in the loan window"

// AvailabilityEngine defines the interface needed by the CommandHandler for
// availability decisions.
type AvailabilityEngine interface {
	Repository() inventory.Repository
	LockTitle(titleID inventory.TitleIDInt) (release func())
	CheckAvailability(ctx context.Context, copyID inventory.CopyIDInt, loanDate, dueDate inventory.Date) (inventory.CheckResult, error)
}

// Result is the handler's outcome: the commit/rejection state plus the loan
// identifier on commit and the check details on rejection.
type Result struct {
	shell.HandlerResult
	LoanID core.LoanIDInt
	Check  inventory.CheckResult
}

// CommandHandler orchestrates the issue-loan workflow:
// resolve title -> lock title -> check availability -> commit loan.
// Commit conflicts from concurrent writers are retried with exponential
// backoff; each retry re-enters the critical section and re-reads stock.
type CommandHandler struct {
	engine       AvailabilityEngine
	loans        shell.LoanStore
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(engine AvailabilityEngine, loans shell.LoanStore, opts ...Option) CommandHandler {
	handler := CommandHandler{
		engine: engine,
		loans:  loans,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the issue-loan workflow. A failed availability check is a
// business rejection carried in the Result, not an error; errors are
// reserved for invalid input, unknown identifiers, and repository failures.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, error) {
	var loanID core.LoanIDInt
	var check inventory.CheckResult
	var rejected bool

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		id, chk, rej, execErr := h.executeCommand(retryCtx, command)
		loanID, check, rejected = id, chk, rej

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return Result{HandlerResult: shell.NewErrorResult(retryMetrics)}, err
	}

	if rejected {
		return Result{
			HandlerResult: shell.NewRejectedResult(RejectionReasonNotEnoughStock, retryMetrics),
			Check:         check,
		}, nil
	}

	return Result{
		HandlerResult: shell.NewCommittedResult(retryMetrics),
		LoanID:        loanID,
		Check:         check,
	}, nil
}

// executeCommand runs one attempt of the critical section:
// read stock state, decide, commit. It must hold the per-title lock for the
// whole attempt - checking without the lock is a check-then-act race.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (
	loanID core.LoanIDInt,
	check inventory.CheckResult,
	rejected bool,
	err error,
) {
	titleID, err := h.engine.Repository().TitleForCopy(ctx, command.CopyID)
	if err != nil {
		return 0, inventory.CheckResult{}, false, err
	}

	release := h.engine.LockTitle(titleID)
	defer release()

	check, err = h.engine.CheckAvailability(ctx, command.CopyID, command.LoanDate, command.DueDate)
	if err != nil {
		return 0, inventory.CheckResult{}, false, err
	}

	if !check.Allowed {
		return 0, check, true, nil
	}

	loanID, err = h.loans.CreateLoan(ctx, core.Loan{
		CopyID:    command.CopyID,
		StudentID: command.StudentID,
		StaffID:   command.StaffID,
		IssuedOn:  command.LoanDate,
		DueOn:     command.DueDate,
	})
	if err != nil {
		return 0, check, false, err
	}

	return loanID, check, false, nil
}
