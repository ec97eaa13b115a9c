package returnloan_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/circulation-engine-go/example/features/command/returnloan"
	"github.com/shelfwise/circulation-engine-go/example/shared/core"
	"github.com/shelfwise/circulation-engine-go/inventory"
	"github.com/shelfwise/circulation-engine-go/testutil/testdoubles"
)

const testTitle inventory.TitleIDInt = 9780134190440

func Test_Handle_ClosesLoanAndRestoresCopy(t *testing.T) {
	// arrange
	store := testdoubles.NewFakeCirculationStore()
	store.AddLocation(1, "Main Room")
	store.AddAvailableCopies(1, testTitle, 1, 1)
	store.AddActiveLoan(7, 1, 20260105, 20260112)
	handler := returnloan.NewCommandHandler(store)

	command := returnloan.BuildCommand(7, 20260110)

	// act
	result, err := handler.Handle(context.Background(), command)

	// assert
	require.NoError(t, err)
	assert.True(t, result.Committed)
	assert.Equal(t, inventory.Date(20260110), result.Loan.ReturnedOn)
	assert.False(t, result.Loan.Active())
	assert.Equal(t, core.CopyStatusAvailable, store.CopyStatus(1))
}

func Test_Handle_UnknownLoanIsNotActive(t *testing.T) {
	// arrange
	store := testdoubles.NewFakeCirculationStore()
	handler := returnloan.NewCommandHandler(store)

	// act
	result, err := handler.Handle(context.Background(), returnloan.BuildCommand(12345, 20260110))

	// assert
	assert.ErrorIs(t, err, core.ErrLoanNotActive)
	assert.False(t, result.Committed)
}

func Test_Handle_SecondReturnIsNotActive(t *testing.T) {
	// arrange
	store := testdoubles.NewFakeCirculationStore()
	store.AddLocation(1, "Main Room")
	store.AddAvailableCopies(1, testTitle, 1, 1)
	store.AddActiveLoan(7, 1, 20260105, 20260112)
	handler := returnloan.NewCommandHandler(store)

	_, err := handler.Handle(context.Background(), returnloan.BuildCommand(7, 20260110))
	require.NoError(t, err)

	// act: loans are closed, never deleted, so the second return fails
	_, err = handler.Handle(context.Background(), returnloan.BuildCommand(7, 20260111))

	// assert
	assert.ErrorIs(t, err, core.ErrLoanNotActive)
}

func Test_Handle_InvalidReturnDate(t *testing.T) {
	store := testdoubles.NewFakeCirculationStore()
	handler := returnloan.NewCommandHandler(store)

	_, err := handler.Handle(context.Background(), returnloan.BuildCommand(7, 20261340))

	assert.ErrorIs(t, err, inventory.ErrInvalidDateRange)
}
