package inventory_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/circulation-engine-go/inventory"
)

func Test_Timeline_Insert_KeepsEventsSortedByDate(t *testing.T) {
	// arrange
	timeline := &inventory.Timeline{}

	// act
	timeline.Insert(20260110, -2)
	timeline.Insert(20260105, +1)
	timeline.Insert(20260120, +2)
	timeline.Insert(20260108, +1)

	// assert
	events := timeline.Events()
	require.Len(t, events, 4)
	for i := 1; i < len(events); i++ {
		assert.True(t, events[i-1].On < events[i].On, "events must be strictly ascending by date")
	}
}

func Test_Timeline_Insert_MergesSameDateAdditively(t *testing.T) {
	// arrange
	timeline := &inventory.Timeline{}

	// act
	timeline.Insert(20260110, -2)
	timeline.Insert(20260110, +1)
	timeline.Insert(20260110, -1)

	// assert
	events := timeline.Events()
	require.Len(t, events, 1)
	assert.Equal(t, inventory.Date(20260110), events[0].On)
	assert.Equal(t, -2, events[0].Delta)
}

func Test_Timeline_Insert_KeepsZeroDeltaEntries(t *testing.T) {
	// arrange
	timeline := &inventory.Timeline{}

	// act
	timeline.Insert(20260110, -2)
	timeline.Insert(20260110, +2)

	// assert
	require.Equal(t, 1, timeline.Len())
	assert.Equal(t, 0, timeline.Events()[0].Delta)
}

func Test_Timeline_Insert_IsOrderIndependent(t *testing.T) {
	// arrange
	inputs := []inventory.TimelineEvent{
		{On: 20260105, Delta: +1},
		{On: 20260110, Delta: -2},
		{On: 20260110, Delta: +1},
		{On: 20260111, Delta: +2},
		{On: 20260105, Delta: -1},
		{On: 20260120, Delta: -3},
	}

	reference := &inventory.Timeline{}
	for _, input := range inputs {
		reference.Insert(input.On, input.Delta)
	}

	rng := rand.New(rand.NewSource(1))

	for run := 0; run < 50; run++ {
		shuffled := append([]inventory.TimelineEvent(nil), inputs...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		// act
		timeline := &inventory.Timeline{}
		for _, input := range shuffled {
			timeline.Insert(input.On, input.Delta)
		}

		// assert
		assert.Equal(t, reference.Events(), timeline.Events(), "aggregated timeline must not depend on insertion order")
	}
}

func Test_Timeline_Sweep_ReportsFirstNegativePoint(t *testing.T) {
	// arrange
	timeline := &inventory.Timeline{}
	timeline.Insert(20260108, +1)
	timeline.Insert(20260110, -3)
	timeline.Insert(20260111, +3)

	// act
	negativeOn, negativeBalance, wentNegative := timeline.Sweep(1, 20260105)

	// assert
	require.True(t, wentNegative)
	assert.Equal(t, inventory.Date(20260110), negativeOn)
	assert.Equal(t, -1, negativeBalance)
}

func Test_Timeline_Sweep_PassesWhenBalanceStaysNonNegative(t *testing.T) {
	// arrange
	timeline := &inventory.Timeline{}
	timeline.Insert(20260108, +1)
	timeline.Insert(20260110, -2)

	// act
	_, _, wentNegative := timeline.Sweep(1, 20260105)

	// assert
	assert.False(t, wentNegative)
}

func Test_Timeline_Sweep_NegativeOpeningBalanceFailsAtOpeningDate(t *testing.T) {
	// arrange
	timeline := &inventory.Timeline{}
	timeline.Insert(20260108, +5)

	// act
	negativeOn, negativeBalance, wentNegative := timeline.Sweep(-1, 20260105)

	// assert
	require.True(t, wentNegative)
	assert.Equal(t, inventory.Date(20260105), negativeOn)
	assert.Equal(t, -1, negativeBalance)
}

func Test_Timeline_Sweep_ZeroBalanceIsNotAConflict(t *testing.T) {
	// arrange
	timeline := &inventory.Timeline{}
	timeline.Insert(20260110, -2)

	// act
	_, _, wentNegative := timeline.Sweep(2, 20260105)

	// assert
	assert.False(t, wentNegative)
}

func Test_Timeline_Sweep_EmptyTimelineUsesOpeningBalanceOnly(t *testing.T) {
	timeline := &inventory.Timeline{}

	_, balance, wentNegative := timeline.Sweep(3, 20260105)

	assert.False(t, wentNegative)
	assert.Equal(t, 3, balance)
}
