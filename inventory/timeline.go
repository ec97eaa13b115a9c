package inventory

import (
	"sort"
)

// TimelineEvent is a dated, signed change in available stock. Events are
// ephemeral: a Timeline is built fresh for one availability check and
// discarded afterwards, nothing here is persisted.
type TimelineEvent struct {
	On    Date
	Delta int
}

// Timeline is a sequence of TimelineEvents ordered ascending by date with
// each date unique. Inserting at an existing date merges the deltas
// additively, so the final mapping from date to aggregated delta is the
// same for every insertion order of the same inputs.
//
// The zero value is an empty timeline ready for use.
type Timeline struct {
	events []TimelineEvent
}

// Insert adds delta at the given date, merging with an existing entry when
// the date is already present. Entries whose merged delta becomes zero are
// kept; the sweep treats them as no-ops.
func (t *Timeline) Insert(on Date, delta int) {
	idx := sort.Search(len(t.events), func(i int) bool {
		return t.events[i].On >= on
	})

	if idx < len(t.events) && t.events[idx].On == on {
		t.events[idx].Delta += delta
		return
	}

	t.events = append(t.events, TimelineEvent{})
	copy(t.events[idx+1:], t.events[idx:])
	t.events[idx] = TimelineEvent{On: on, Delta: delta}
}

// Len returns the number of distinct dates on the timeline.
func (t *Timeline) Len() int {
	return len(t.events)
}

// Events returns the events in ascending date order.
// The returned slice is owned by the Timeline and must not be mutated.
func (t *Timeline) Events() []TimelineEvent {
	return t.events
}

// Sweep walks the timeline in date order starting from the opening balance
// and reports the first point at which the running balance goes negative.
// The opening balance itself counts as the first point: if it is already
// negative the sweep fails at the given opening date.
func (t *Timeline) Sweep(openingBalance int, openingDate Date) (negativeOn Date, negativeBalance int, wentNegative bool) {
	balance := openingBalance
	if balance < 0 {
		return openingDate, balance, true
	}

	for _, event := range t.events {
		balance += event.Delta
		if balance < 0 {
			return event.On, balance, true
		}
	}

	return 0, balance, false
}
