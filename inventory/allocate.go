package inventory

import (
	"context"
	"sort"
	"strconv"
	"time"
)

// Pick is one line of an allocation pick list: collect Count copies from
// the named location.
type Pick struct {
	LocationID   LocationIDInt
	LocationName string
	Count        int
}

// Allocation is the outcome of allocating a reservation. Picks satisfy the
// reservation location by location; Shortfall is the unmet remainder when
// available stock ran out. The sum of all pick counts plus Shortfall always
// equals Requested. A shortfall is a business outcome, not an error; the
// caller decides whether partial fulfilment is acceptable.
type Allocation struct {
	Requested int
	Picks     []Pick
	Shortfall int
}

// AllocateReservation produces a pick list satisfying the reservation's
// quantity from currently available stock. Locations are ranked by
// available count descending so picks concentrate in the fewest, largest
// locations and a staff member visits as few rooms as possible; ties rank
// by location ID ascending, making the pick list deterministic across runs
// and across reorderings of the underlying query result.
//
// AllocateReservation makes no state change. Callers about to commit the
// picks must run the allocation inside the per-title critical section, see
// LockTitle.
func (e *Engine) AllocateReservation(ctx context.Context, reservationID ReservationIDInt) (Allocation, error) {
	spanCtx, span := e.startTraceSpan(ctx, spanNameAllocation, map[string]string{
		logAttrReservationID: strconv.FormatInt(reservationID, 10),
	})
	start := time.Now()

	allocation, err := e.allocateReservation(spanCtx, reservationID)
	duration := time.Since(start)

	if err != nil {
		e.logError(spanCtx, logMsgRepositoryError, err, logAttrReservationID, reservationID)
		e.recordRepositoryError(spanCtx, operationAllocation)
		e.recordDurationMetrics(spanCtx, metricAllocationDuration, duration, operationAllocation, statusError)
		e.finishTraceSpan(span, statusError, nil)

		return Allocation{}, err
	}

	status := statusOK
	if allocation.Shortfall > 0 {
		status = statusConflict
		e.incrementCounterMetrics(spanCtx, metricAllocationShortfalls, operationAllocation, statusConflict)
	}

	e.recordDurationMetrics(spanCtx, metricAllocationDuration, duration, operationAllocation, status)
	e.finishTraceSpan(span, status, map[string]string{logAttrShortfall: strconv.Itoa(allocation.Shortfall)})
	e.logOperation(spanCtx, logMsgAllocationCompleted,
		logAttrReservationID, reservationID,
		logAttrShortfall, allocation.Shortfall,
		logAttrDurationMS, e.durationToMilliseconds(duration))

	return allocation, nil
}

// allocateReservation ranks the location buckets and fills greedily.
func (e *Engine) allocateReservation(ctx context.Context, reservationID ReservationIDInt) (Allocation, error) {
	reservation, err := e.repo.PendingReservation(ctx, reservationID)
	if err != nil {
		return Allocation{}, err
	}

	if reservation.Quantity <= 0 {
		return Allocation{}, ErrInvalidQuantity
	}

	stocks, err := e.repo.AvailableCopiesByLocation(ctx, reservation.TitleID, e.onLoanLocation)
	if err != nil {
		return Allocation{}, err
	}

	buckets := groupByLocation(stocks)
	rankBuckets(buckets)

	allocation := Allocation{Requested: reservation.Quantity}
	remaining := reservation.Quantity

	for _, bucket := range buckets {
		if remaining == 0 {
			break
		}
		if bucket.Count <= 0 {
			continue
		}

		take := bucket.Count
		if take > remaining {
			take = remaining
		}

		allocation.Picks = append(allocation.Picks, Pick{
			LocationID:   bucket.LocationID,
			LocationName: bucket.LocationName,
			Count:        take,
		})
		remaining -= take
	}

	allocation.Shortfall = remaining

	return allocation, nil
}

// groupByLocation merges rows for the same location, preserving first-seen
// order. Repository implementations usually aggregate already; merging here
// keeps the ranking correct even when they do not.
func groupByLocation(stocks []LocationStock) []LocationStock {
	buckets := make([]LocationStock, 0, len(stocks))
	indexByLocation := make(map[LocationIDInt]int, len(stocks))

	for _, stock := range stocks {
		if idx, seen := indexByLocation[stock.LocationID]; seen {
			buckets[idx].Count += stock.Count
			continue
		}
		indexByLocation[stock.LocationID] = len(buckets)
		buckets = append(buckets, stock)
	}

	return buckets
}

// rankBuckets orders buckets by available count descending, ties by
// location ID ascending. The sort is stable with respect to the grouping
// order, so equal keys cannot reorder between runs.
func rankBuckets(buckets []LocationStock) {
	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].LocationID < buckets[j].LocationID
	})
}
