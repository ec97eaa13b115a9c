package issueloan_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/circulation-engine-go/example/features/command/issueloan"
	"github.com/shelfwise/circulation-engine-go/example/shared/core"
	"github.com/shelfwise/circulation-engine-go/inventory"
	"github.com/shelfwise/circulation-engine-go/testutil/testdoubles"
)

const testTitle inventory.TitleIDInt = 9780134190440

func newHandler(t *testing.T, store *testdoubles.FakeCirculationStore) issueloan.CommandHandler {
	t.Helper()

	engine, err := inventory.NewEngine(store)
	require.NoError(t, err)

	return issueloan.NewCommandHandler(engine, store)
}

func Test_Handle_IssuesLoanWhenStockSuffices(t *testing.T) {
	// arrange
	store := testdoubles.NewFakeCirculationStore()
	store.AddLocation(1, "Main Room")
	store.AddAvailableCopies(1, testTitle, 1, 2)
	handler := newHandler(t, store)

	command := issueloan.BuildCommand(1, 100, 200, 20260105, 20260112)

	// act
	result, err := handler.Handle(context.Background(), command)

	// assert
	require.NoError(t, err)
	assert.True(t, result.Committed)
	assert.NotZero(t, result.LoanID)
	assert.Equal(t, core.CopyStatusOnLoan, store.CopyStatus(1))

	loan, found := store.Loan(result.LoanID)
	require.True(t, found)
	assert.Equal(t, inventory.CopyIDInt(1), loan.CopyID)
	assert.Equal(t, inventory.Date(20260105), loan.IssuedOn)
	assert.Equal(t, inventory.Date(20260112), loan.DueOn)
}

func Test_Handle_RejectsWhenWindowIsOversubscribed(t *testing.T) {
	// arrange: the only copy is claimed by a reservation inside the window
	store := testdoubles.NewFakeCirculationStore()
	store.AddLocation(1, "Main Room")
	store.AddAvailableCopies(1, testTitle, 1, 1)
	store.AddReservation(core.Reservation{
		ID: 1, TitleID: testTitle, LocationID: 1,
		ReservedOn: 20260110, Quantity: 1, Status: core.ReservationStatusPending,
	})
	handler := newHandler(t, store)

	command := issueloan.BuildCommand(1, 100, 200, 20260105, 20260112)

	// act
	result, err := handler.Handle(context.Background(), command)

	// assert: a rejection is a business outcome, not an error, and
	// nothing is committed
	require.NoError(t, err)
	assert.False(t, result.Committed)
	assert.Equal(t, issueloan.RejectionReasonNotEnoughStock, result.RejectionReason)
	assert.Equal(t, inventory.Date(20260110), result.Check.ConflictOn)
	assert.Equal(t, 1, result.Check.Shortage)
	assert.Equal(t, core.CopyStatusAvailable, store.CopyStatus(1))
}

func Test_Handle_UnknownCopyIsAnError(t *testing.T) {
	// arrange
	store := testdoubles.NewFakeCirculationStore()
	handler := newHandler(t, store)

	command := issueloan.BuildCommand(12345, 100, 200, 20260105, 20260112)

	// act
	result, err := handler.Handle(context.Background(), command)

	// assert
	assert.ErrorIs(t, err, inventory.ErrCopyNotFound)
	assert.False(t, result.Committed)
}

func Test_Handle_InvalidWindowIsAnError(t *testing.T) {
	// arrange
	store := testdoubles.NewFakeCirculationStore()
	store.AddLocation(1, "Main Room")
	store.AddAvailableCopies(1, testTitle, 1, 1)
	handler := newHandler(t, store)

	command := issueloan.BuildCommand(1, 100, 200, 20260112, 20260105)

	// act
	_, err := handler.Handle(context.Background(), command)

	// assert
	assert.ErrorIs(t, err, inventory.ErrInvalidDateRange)
}

func Test_Handle_ConcurrentRequestsForLastCopy_ExactlyOneCommits(t *testing.T) {
	// arrange: one available copy, two concurrent issue requests
	store := testdoubles.NewFakeCirculationStore()
	store.AddLocation(1, "Main Room")
	store.AddAvailableCopies(1, testTitle, 1, 1)

	engine, err := inventory.NewEngine(store)
	require.NoError(t, err)
	handler := issueloan.NewCommandHandler(engine, store)

	results := make([]issueloan.Result, 2)
	errs := make([]error, 2)

	var wg sync.WaitGroup
	wg.Add(2)

	// act
	for i := 0; i < 2; i++ {
		go func(i int) {
			defer wg.Done()

			command := issueloan.BuildCommand(1, core.StudentIDInt(100+i), 200, 20260105, 20260112)
			results[i], errs[i] = handler.Handle(context.Background(), command)
		}(i)
	}
	wg.Wait()

	// assert: the per-title critical section makes the outcome exact,
	// not probabilistic
	committed := 0
	for i := 0; i < 2; i++ {
		require.NoError(t, errs[i])
		if results[i].Committed {
			committed++
		} else {
			assert.Equal(t, issueloan.RejectionReasonNotEnoughStock, results[i].RejectionReason)
		}
	}

	assert.Equal(t, 1, committed)
	assert.Equal(t, core.CopyStatusOnLoan, store.CopyStatus(1))
}
