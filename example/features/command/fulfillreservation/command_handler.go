package fulfillreservation

import (
	"context"
	"errors"

	"github.com/shelfwise/circulation-engine-go/example/shared/core"
	"github.com/shelfwise/circulation-engine-go/example/shared/shell"
	"github.com/shelfwise/circulation-engine-go/inventory"
)

const (
	// RejectionReasonShortfall is reported when available stock could not
	// cover the full requested quantity. Partial fulfillment is never
	// committed.
	RejectionReasonShortfall = "not enough available copies to cover the reservation"

	// RejectionReasonNotPending is reported when the reservation was
	// fulfilled, cancelled, or expired by another writer in the meantime.
	RejectionReasonNotPending = "reservation is no longer pending"
)

// AllocationEngine defines the interface needed by the CommandHandler for
// allocation decisions.
type AllocationEngine interface {
	Repository() inventory.Repository
	LockTitle(titleID inventory.TitleIDInt) (release func())
	AllocateReservation(ctx context.Context, reservationID inventory.ReservationIDInt) (inventory.Allocation, error)
}

// Result is the handler's outcome: the commit/rejection state plus the
// allocation plan that was committed or fell short.
type Result struct {
	shell.HandlerResult
	Allocation inventory.Allocation
}

// CommandHandler orchestrates the fulfill-reservation workflow:
// resolve reservation -> lock title -> allocate -> commit picks.
// Commit conflicts from concurrent writers are retried with exponential
// backoff; each retry re-allocates against current stock.
type CommandHandler struct {
	engine       AllocationEngine
	reservations shell.ReservationStore
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
func NewCommandHandler(engine AllocationEngine, reservations shell.ReservationStore, opts ...Option) CommandHandler {
	handler := CommandHandler{
		engine:       engine,
		reservations: reservations,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the fulfill-reservation workflow. A shortfall and a
// reservation that left the pending state are business rejections carried
// in the Result, not errors.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, error) {
	var allocation inventory.Allocation
	var notPending bool

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		alloc, pendingLost, execErr := h.executeCommand(retryCtx, command)
		allocation, notPending = alloc, pendingLost

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return Result{HandlerResult: shell.NewErrorResult(retryMetrics)}, err
	}

	if notPending {
		return Result{
			HandlerResult: shell.NewRejectedResult(RejectionReasonNotPending, retryMetrics),
		}, nil
	}

	if allocation.Shortfall > 0 {
		return Result{
			HandlerResult: shell.NewRejectedResult(RejectionReasonShortfall, retryMetrics),
			Allocation:    allocation,
		}, nil
	}

	return Result{
		HandlerResult: shell.NewCommittedResult(retryMetrics),
		Allocation:    allocation,
	}, nil
}

// executeCommand runs one attempt of the critical section: read stock
// state, allocate, commit. It must hold the per-title lock for the whole
// attempt so the picks cannot be invalidated by an in-process writer
// between allocation and commit.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (
	allocation inventory.Allocation,
	notPending bool,
	err error,
) {
	pending, err := h.engine.Repository().PendingReservation(ctx, command.ReservationID)
	if err != nil {
		if errors.Is(err, inventory.ErrReservationNotFound) {
			return inventory.Allocation{}, true, nil
		}

		return inventory.Allocation{}, false, err
	}

	release := h.engine.LockTitle(pending.TitleID)
	defer release()

	allocation, err = h.engine.AllocateReservation(ctx, command.ReservationID)
	if err != nil {
		if errors.Is(err, inventory.ErrReservationNotFound) {
			return inventory.Allocation{}, true, nil
		}

		return inventory.Allocation{}, false, err
	}

	if allocation.Shortfall > 0 {
		return allocation, false, nil
	}

	err = h.reservations.CommitAllocation(ctx, command.ReservationID, allocation.Picks)
	if err != nil {
		if errors.Is(err, core.ErrReservationNotPending) {
			return inventory.Allocation{}, true, nil
		}

		return allocation, false, err
	}

	return allocation, false, nil
}
