package inventory_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/circulation-engine-go/example/shared/core"
	"github.com/shelfwise/circulation-engine-go/inventory"
	"github.com/shelfwise/circulation-engine-go/testutil/testdoubles"
)

func Test_NewEngine_NilRepositoryIsRejected(t *testing.T) {
	_, err := inventory.NewEngine(nil)

	assert.ErrorIs(t, err, inventory.ErrNilRepository)
}

func Test_Engine_LockTitle_ReleaseFunctionUnlocks(t *testing.T) {
	// arrange
	store := testdoubles.NewFakeCirculationStore()
	engine, err := inventory.NewEngine(store)
	require.NoError(t, err)

	// act
	release := engine.LockTitle(1)
	release()

	// assert: the title can be locked again without blocking
	release = engine.LockTitle(1)
	release()
}

func Test_Engine_RecordsConflictMetricsAndLogs(t *testing.T) {
	// arrange: zero available stock forces a conflict outcome
	store := testdoubles.NewFakeCirculationStore()
	store.AddLocation(1, "Main Room")
	store.AddAvailableCopies(1, 42, 1, 1)
	store.AddActiveLoan(1, 1, 20251220, 20260201)

	metricsSpy := testdoubles.NewMetricsCollectorSpy()
	logSpy := testdoubles.NewLogHandlerSpy()

	engine, err := inventory.NewEngine(store,
		inventory.WithLogger(slog.New(logSpy)),
		inventory.WithMetrics(metricsSpy),
	)
	require.NoError(t, err)

	// act
	check, checkErr := engine.CheckAvailability(context.Background(), 1, 20260105, 20260110)

	// assert
	require.NoError(t, checkErr)
	require.False(t, check.Allowed)

	conflictCounters := metricsSpy.CounterRecordsFor("availability_check_conflicts")
	require.Len(t, conflictCounters, 1)
	assert.Equal(t, "conflict", conflictCounters[0].Labels["status"])

	durations := metricsSpy.DurationRecords()
	require.Len(t, durations, 1)
	assert.Equal(t, "availability_check_duration", durations[0].Metric)

	assert.True(t, logSpy.HasMessage("availability check completed"))
}

func Test_Engine_RecordsRepositoryErrorMetric(t *testing.T) {
	// arrange
	store := testdoubles.NewFakeCirculationStore()
	store.AddReservation(core.Reservation{
		ID: 1, TitleID: 42, LocationID: 1,
		ReservedOn: 20260110, Quantity: 2, Status: core.ReservationStatusPending,
	})
	store.FailWith(assert.AnError)

	metricsSpy := testdoubles.NewMetricsCollectorSpy()

	engine, err := inventory.NewEngine(store, inventory.WithMetrics(metricsSpy))
	require.NoError(t, err)

	// act
	_, allocErr := engine.AllocateReservation(context.Background(), 1)

	// assert
	require.Error(t, allocErr)

	errorCounters := metricsSpy.CounterRecordsFor("inventory_repository_errors")
	require.Len(t, errorCounters, 1)
	assert.Equal(t, "repository", errorCounters[0].Labels["error_type"])
}
