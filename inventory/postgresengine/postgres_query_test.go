package postgresengine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shelfwise/circulation-engine-go/inventory"
)

func queryTestRepository(t *testing.T, options ...Option) Repository {
	t.Helper()

	repo, err := buildRepository(nil, options...)
	assert.NoError(t, err)

	return repo
}

func Test_BuildTitleForCopyQuery_SelectsISBNByCopyID(t *testing.T) {
	// arrange
	repo := queryTestRepository(t)

	// act
	sqlQuery, err := repo.buildTitleForCopyQuery(42)

	// assert
	assert.NoError(t, err)
	assert.Contains(t, sqlQuery, `SELECT "isbn" FROM "copies"`)
	assert.Contains(t, sqlQuery, `"ucid" = 42`)
}

func Test_BuildStartingStockQuery_CountsAvailableAndReservedCopies(t *testing.T) {
	// arrange
	repo := queryTestRepository(t)

	// act
	sqlQuery, err := repo.buildStartingStockQuery(9780134190440)

	// assert
	assert.NoError(t, err)
	assert.Contains(t, sqlQuery, `COUNT(*)`)
	assert.Contains(t, sqlQuery, `"isbn" = 9780134190440`)
	assert.Contains(t, sqlQuery, `'Available'`)
	assert.Contains(t, sqlQuery, `'Reserved'`)
	assert.NotContains(t, sqlQuery, `'OnLoan'`)
}

func Test_BuildActiveLoanDueDatesQuery_FiltersOpenLoansInWindow(t *testing.T) {
	// arrange
	repo := queryTestRepository(t)

	// act
	sqlQuery, err := repo.buildActiveLoanDueDatesQuery(9780134190440, inventory.Date(20260105), inventory.Date(20260112))

	// assert
	assert.NoError(t, err)
	assert.Contains(t, sqlQuery, `"return_date" IS NULL`)
	assert.Contains(t, sqlQuery, `BETWEEN 20260105 AND 20260112`)
	assert.Contains(t, sqlQuery, `ORDER BY "loans"."due_date" ASC`)
}

func Test_BuildReservationsInWindowQuery_FiltersPendingOnly(t *testing.T) {
	// arrange
	repo := queryTestRepository(t)

	// act
	sqlQuery, err := repo.buildReservationsInWindowQuery(9780134190440, inventory.Date(20260101), inventory.Date(20260131))

	// assert
	assert.NoError(t, err)
	assert.Contains(t, sqlQuery, `"status" = 'Pending'`)
	assert.Contains(t, sqlQuery, `BETWEEN 20260101 AND 20260131`)
	assert.Contains(t, sqlQuery, `"res_date"`)
	assert.Contains(t, sqlQuery, `"quantity"`)
}

func Test_BuildPendingReservationQuery_SelectsByIDAndPendingStatus(t *testing.T) {
	// arrange
	repo := queryTestRepository(t)

	// act
	sqlQuery, err := repo.buildPendingReservationQuery(7)

	// assert
	assert.NoError(t, err)
	assert.Contains(t, sqlQuery, `"urid" = 7`)
	assert.Contains(t, sqlQuery, `"status" = 'Pending'`)
}

func Test_BuildAvailableCopiesByLocationQuery_GroupsAndExcludes(t *testing.T) {
	// arrange
	repo := queryTestRepository(t)

	// act
	sqlQuery, err := repo.buildAvailableCopiesByLocationQuery(9780134190440, 99)

	// assert
	assert.NoError(t, err)
	assert.Contains(t, sqlQuery, `"status" = 'Available'`)
	assert.Contains(t, sqlQuery, `"current_location_id" IS NOT NULL`)
	assert.Contains(t, sqlQuery, `"current_location_id" != 99`)
	assert.Contains(t, sqlQuery, `GROUP BY`)
	assert.Contains(t, sqlQuery, `"location_name"`)
}

func Test_BuildQueries_RespectCustomTableNames(t *testing.T) {
	// arrange
	repo := queryTestRepository(t,
		WithCopiesTableName("lib_copies"),
		WithLoansTableName("lib_loans"),
		WithReservationsTableName("lib_reservations"),
		WithLocationsTableName("lib_locations"),
	)

	// act
	stockQuery, stockErr := repo.buildStartingStockQuery(1)
	dueQuery, dueErr := repo.buildActiveLoanDueDatesQuery(1, inventory.Date(20260101), inventory.Date(20260102))
	locationQuery, locationErr := repo.buildAvailableCopiesByLocationQuery(1, 0)

	// assert
	assert.NoError(t, stockErr)
	assert.NoError(t, dueErr)
	assert.NoError(t, locationErr)
	assert.Contains(t, stockQuery, `"lib_copies"`)
	assert.Contains(t, dueQuery, `"lib_loans"`)
	assert.Contains(t, locationQuery, `"lib_locations"`)
}

func Test_BuildRepository_RejectsEmptyTableName(t *testing.T) {
	// act
	_, err := buildRepository(nil, WithCopiesTableName(""))

	// assert
	assert.ErrorIs(t, err, inventory.ErrEmptyTableNameSupplied)
}
