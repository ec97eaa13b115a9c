package inventory

import (
	"context"
	"strconv"
	"time"
)

// CheckResult is the outcome of an availability check. A disallowed loan is
// a business outcome, not an error: ConflictOn names the first day of the
// window on which available stock would go negative and Shortage how many
// copies short the title would be on that day.
type CheckResult struct {
	Allowed    bool
	ConflictOn Date
	Shortage   int
}

// CheckAvailability decides whether issuing a new loan of the given copy
// over the inclusive window [loanDate, dueDate] keeps the title's available
// stock non-negative on every day of the window.
//
// The decision models stock as a step function over time. Starting from the
// title's current supply minus the one copy the candidate loan consumes on
// loanDate, every due date of another active loan inside the window restores
// one copy, and every reservation inside the window holds its quantity on
// the reservation date and releases it the following day. A pure
// "count available copies now" check would miss a future day inside the
// window already oversubscribed by reservations; the sweep does not.
//
// The one-day hold duration is the modelled reservation lifetime: a
// reservation claims stock on its reservation date only.
//
// CheckAvailability makes no state change. Callers about to commit a loan
// must run the check inside the per-title critical section, see LockTitle.
func (e *Engine) CheckAvailability(ctx context.Context, copyID CopyIDInt, loanDate, dueDate Date) (CheckResult, error) {
	if !loanDate.IsValid() || !dueDate.IsValid() || loanDate > dueDate {
		return CheckResult{}, ErrInvalidDateRange
	}

	spanCtx, span := e.startTraceSpan(ctx, spanNameCheck, map[string]string{
		logAttrCopyID: strconv.FormatInt(copyID, 10),
	})
	start := time.Now()

	result, err := e.checkAvailability(spanCtx, copyID, loanDate, dueDate)
	duration := time.Since(start)

	if err != nil {
		e.logError(spanCtx, logMsgRepositoryError, err, logAttrCopyID, copyID)
		e.recordRepositoryError(spanCtx, operationCheck)
		e.recordDurationMetrics(spanCtx, metricCheckDuration, duration, operationCheck, statusError)
		e.finishTraceSpan(span, statusError, nil)

		return CheckResult{}, err
	}

	status := statusOK
	if !result.Allowed {
		status = statusConflict
		e.incrementCounterMetrics(spanCtx, metricCheckConflicts, operationCheck, statusConflict)
	}

	e.recordDurationMetrics(spanCtx, metricCheckDuration, duration, operationCheck, status)
	e.finishTraceSpan(span, status, map[string]string{logAttrAllowed: strconv.FormatBool(result.Allowed)})
	e.logOperation(spanCtx, logMsgCheckCompleted,
		logAttrCopyID, copyID,
		logAttrAllowed, result.Allowed,
		logAttrDurationMS, e.durationToMilliseconds(duration))

	return result, nil
}

// checkAvailability builds the window timeline and sweeps it.
func (e *Engine) checkAvailability(ctx context.Context, copyID CopyIDInt, loanDate, dueDate Date) (CheckResult, error) {
	titleID, err := e.repo.TitleForCopy(ctx, copyID)
	if err != nil {
		return CheckResult{}, err
	}

	startingStock, err := e.repo.StartingStock(ctx, titleID)
	if err != nil {
		return CheckResult{}, err
	}

	timeline, err := e.buildWindowTimeline(ctx, titleID, loanDate, dueDate)
	if err != nil {
		return CheckResult{}, err
	}

	// The candidate loan consumes one copy immediately on loanDate.
	openingBalance := startingStock - 1

	negativeOn, negativeBalance, wentNegative := timeline.Sweep(openingBalance, loanDate)
	if wentNegative {
		return CheckResult{Allowed: false, ConflictOn: negativeOn, Shortage: -negativeBalance}, nil
	}

	return CheckResult{Allowed: true}, nil
}

// buildWindowTimeline collects the stock deltas inside the inclusive window:
// +1 on each other active loan's due date, -quantity on each reservation
// date and +quantity the day after. Same-date deltas merge additively, so
// the aggregated timeline is independent of query result ordering.
func (e *Engine) buildWindowTimeline(ctx context.Context, titleID TitleIDInt, loanDate, dueDate Date) (*Timeline, error) {
	timeline := &Timeline{}

	dueDates, err := e.repo.ActiveLoanDueDates(ctx, titleID, loanDate, dueDate)
	if err != nil {
		return nil, err
	}
	for _, due := range dueDates {
		timeline.Insert(due, +1)
	}

	holds, err := e.repo.ReservationsInWindow(ctx, titleID, loanDate, dueDate)
	if err != nil {
		return nil, err
	}
	for _, hold := range holds {
		timeline.Insert(hold.On, -hold.Quantity)
		// The release may land one day past the window; the extra positive
		// event cannot change the sweep outcome.
		timeline.Insert(hold.On.Next(), +hold.Quantity)
	}

	return timeline, nil
}
