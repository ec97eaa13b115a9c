package postgresengine

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/shelfwise/circulation-engine-go/inventory"
	"github.com/shelfwise/circulation-engine-go/inventory/postgresengine/internal/adapters"
)

const (
	defaultCopiesTableName       = "copies"
	defaultLoansTableName        = "loans"
	defaultReservationsTableName = "reservations"
	defaultLocationsTableName    = "locations"

	logMsgBuildQueryFailed = "failed to build select query"
	logMsgDBQueryFailed    = "database query execution failed"
	logMsgCloseRowsFailed  = "failed to close database rows"
	logMsgScanRowFailed    = "failed to scan database row"
	logMsgSQLExecuted      = "executed sql for: "

	logAttrError      = "error"
	logAttrQuery      = "query"
	logAttrDurationMS = "duration_ms"

	colCopyID            = "ucid"
	colISBN              = "isbn"
	colStatus            = "status"
	colHomeLocationID    = "home_location_id"
	colCurrentLocationID = "current_location_id"
	colLoanID            = "uloan_id"
	colLoanDate          = "loan_date"
	colDueDate           = "due_date"
	colReturnDate        = "return_date"
	colReservationID     = "urid"
	colReservationDate   = "res_date"
	colQuantity          = "quantity"
	colLocationID        = "uloc_id"
	colLocationName      = "location_name"

	copyStatusAvailable = "Available"
	copyStatusReserved  = "Reserved"

	reservationStatusPending = "Pending"

	dialectPostgres = "postgres"
	aliasCount      = "copy_count"

	queryTitleForCopy              = "title for copy"
	queryStartingStock             = "starting stock"
	queryActiveLoanDueDates        = "active loan due dates"
	queryReservationsInWindow      = "reservations in window"
	queryPendingReservation        = "pending reservation"
	queryAvailableCopiesByLocation = "available copies by location"
)

type sqlQueryString = string

var _ inventory.Repository = Repository{}

// Repository implements inventory.Repository against the circulation
// schema: copies, loans, reservations, and locations tables with dates
// stored as YYYYMMDD integers.
type Repository struct {
	db                    adapters.DBAdapter
	copiesTableName       string
	loansTableName        string
	reservationsTableName string
	locationsTableName    string
	logger                inventory.Logger
	contextualLogger      inventory.ContextualLogger
}

// NewRepositoryFromPGXPool creates a new Repository using a pgx pool with optional configuration.
func NewRepositoryFromPGXPool(db *pgxpool.Pool, options ...Option) (Repository, error) {
	if db == nil {
		return Repository{}, inventory.ErrNilDatabaseConnection
	}

	return buildRepository(adapters.NewPGXAdapter(db), options...)
}

// NewRepositoryFromPGXPoolWithReplica creates a new Repository that routes
// queries to a read replica.
func NewRepositoryFromPGXPoolWithReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (Repository, error) {
	if db == nil || replica == nil {
		return Repository{}, inventory.ErrNilDatabaseConnection
	}

	return buildRepository(adapters.NewPGXAdapterWithReplica(db, replica), options...)
}

// NewRepositoryFromSQLDB creates a new Repository using a sql.DB with optional configuration.
func NewRepositoryFromSQLDB(db *sql.DB, options ...Option) (Repository, error) {
	if db == nil {
		return Repository{}, inventory.ErrNilDatabaseConnection
	}

	return buildRepository(adapters.NewSQLAdapter(db), options...)
}

// NewRepositoryFromSQLX creates a new Repository using a sqlx.DB with optional configuration.
func NewRepositoryFromSQLX(db *sqlx.DB, options ...Option) (Repository, error) {
	if db == nil {
		return Repository{}, inventory.ErrNilDatabaseConnection
	}

	return buildRepository(adapters.NewSQLXAdapter(db), options...)
}

func buildRepository(db adapters.DBAdapter, options ...Option) (Repository, error) {
	repo := Repository{
		db:                    db,
		copiesTableName:       defaultCopiesTableName,
		loansTableName:        defaultLoansTableName,
		reservationsTableName: defaultReservationsTableName,
		locationsTableName:    defaultLocationsTableName,
	}

	for _, option := range options {
		if err := option(&repo); err != nil {
			return Repository{}, err
		}
	}

	return repo, nil
}

// TitleForCopy resolves the title (ISBN) a physical copy belongs to.
func (r Repository) TitleForCopy(ctx context.Context, copyID inventory.CopyIDInt) (inventory.TitleIDInt, error) {
	sqlQuery, buildErr := r.buildTitleForCopyQuery(copyID)
	if buildErr != nil {
		return 0, buildErr
	}

	rows, err := r.executeQuery(ctx, sqlQuery, queryTitleForCopy)
	if err != nil {
		return 0, err
	}
	defer r.closeRows(ctx, rows)

	if !rows.Next() {
		return 0, inventory.ErrCopyNotFound
	}

	var titleID inventory.TitleIDInt
	if scanErr := rows.Scan(&titleID); scanErr != nil {
		return 0, r.scanFailure(ctx, scanErr)
	}

	return titleID, nil
}

// StartingStock counts the copies of a title not currently on loan.
func (r Repository) StartingStock(ctx context.Context, titleID inventory.TitleIDInt) (int, error) {
	sqlQuery, buildErr := r.buildStartingStockQuery(titleID)
	if buildErr != nil {
		return 0, buildErr
	}

	rows, err := r.executeQuery(ctx, sqlQuery, queryStartingStock)
	if err != nil {
		return 0, err
	}
	defer r.closeRows(ctx, rows)

	var stock int
	if rows.Next() {
		if scanErr := rows.Scan(&stock); scanErr != nil {
			return 0, r.scanFailure(ctx, scanErr)
		}
	}

	return stock, nil
}

// ActiveLoanDueDates returns the due dates of unreturned loans of the title
// within the inclusive range [from, until], in ascending order.
func (r Repository) ActiveLoanDueDates(ctx context.Context, titleID inventory.TitleIDInt, from, until inventory.Date) ([]inventory.Date, error) {
	sqlQuery, buildErr := r.buildActiveLoanDueDatesQuery(titleID, from, until)
	if buildErr != nil {
		return nil, buildErr
	}

	rows, err := r.executeQuery(ctx, sqlQuery, queryActiveLoanDueDates)
	if err != nil {
		return nil, err
	}
	defer r.closeRows(ctx, rows)

	var dueDates []inventory.Date

	for rows.Next() {
		var dueDate int64
		if scanErr := rows.Scan(&dueDate); scanErr != nil {
			return nil, r.scanFailure(ctx, scanErr)
		}

		dueDates = append(dueDates, inventory.Date(dueDate))
	}

	return dueDates, nil
}

// ReservationsInWindow returns the pending holds of the title whose
// reservation date falls within the inclusive range [from, until].
func (r Repository) ReservationsInWindow(ctx context.Context, titleID inventory.TitleIDInt, from, until inventory.Date) ([]inventory.ReservationHold, error) {
	sqlQuery, buildErr := r.buildReservationsInWindowQuery(titleID, from, until)
	if buildErr != nil {
		return nil, buildErr
	}

	rows, err := r.executeQuery(ctx, sqlQuery, queryReservationsInWindow)
	if err != nil {
		return nil, err
	}
	defer r.closeRows(ctx, rows)

	var holds []inventory.ReservationHold

	for rows.Next() {
		var resDate int64
		var quantity int

		if scanErr := rows.Scan(&resDate, &quantity); scanErr != nil {
			return nil, r.scanFailure(ctx, scanErr)
		}

		holds = append(holds, inventory.ReservationHold{On: inventory.Date(resDate), Quantity: quantity})
	}

	return holds, nil
}

// PendingReservation fetches a reservation still awaiting fulfilment.
func (r Repository) PendingReservation(ctx context.Context, reservationID inventory.ReservationIDInt) (inventory.PendingReservation, error) {
	var empty inventory.PendingReservation

	sqlQuery, buildErr := r.buildPendingReservationQuery(reservationID)
	if buildErr != nil {
		return empty, buildErr
	}

	rows, err := r.executeQuery(ctx, sqlQuery, queryPendingReservation)
	if err != nil {
		return empty, err
	}
	defer r.closeRows(ctx, rows)

	if !rows.Next() {
		return empty, inventory.ErrReservationNotFound
	}

	var pending inventory.PendingReservation
	var resDate int64

	if scanErr := rows.Scan(&pending.ID, &pending.TitleID, &pending.LocationID, &resDate, &pending.Quantity); scanErr != nil {
		return empty, r.scanFailure(ctx, scanErr)
	}

	pending.On = inventory.Date(resDate)

	return pending, nil
}

// AvailableCopiesByLocation counts the available copies of a title per
// current location, omitting copies without a current location and copies
// at the excluded pseudo-location.
func (r Repository) AvailableCopiesByLocation(ctx context.Context, titleID inventory.TitleIDInt, excluding inventory.LocationIDInt) ([]inventory.LocationStock, error) {
	sqlQuery, buildErr := r.buildAvailableCopiesByLocationQuery(titleID, excluding)
	if buildErr != nil {
		return nil, buildErr
	}

	rows, err := r.executeQuery(ctx, sqlQuery, queryAvailableCopiesByLocation)
	if err != nil {
		return nil, err
	}
	defer r.closeRows(ctx, rows)

	var stocks []inventory.LocationStock

	for rows.Next() {
		var stock inventory.LocationStock
		if scanErr := rows.Scan(&stock.LocationID, &stock.LocationName, &stock.Count); scanErr != nil {
			return nil, r.scanFailure(ctx, scanErr)
		}

		stocks = append(stocks, stock)
	}

	return stocks, nil
}

func (r Repository) buildTitleForCopyQuery(copyID inventory.CopyIDInt) (sqlQueryString, error) {
	stmt := goqu.Dialect(dialectPostgres).
		From(r.copiesTableName).
		Select(colISBN).
		Where(goqu.C(colCopyID).Eq(copyID))

	return r.renderQuery(stmt)
}

func (r Repository) buildStartingStockQuery(titleID inventory.TitleIDInt) (sqlQueryString, error) {
	stmt := goqu.Dialect(dialectPostgres).
		From(r.copiesTableName).
		Select(goqu.COUNT(goqu.Star()).As(aliasCount)).
		Where(
			goqu.C(colISBN).Eq(titleID),
			goqu.C(colStatus).In(copyStatusAvailable, copyStatusReserved),
		)

	return r.renderQuery(stmt)
}

func (r Repository) buildActiveLoanDueDatesQuery(titleID inventory.TitleIDInt, from, until inventory.Date) (sqlQueryString, error) {
	loans := goqu.T(r.loansTableName)
	copies := goqu.T(r.copiesTableName)

	stmt := goqu.Dialect(dialectPostgres).
		From(loans).
		Join(copies, goqu.On(copies.Col(colCopyID).Eq(loans.Col(colCopyID)))).
		Select(loans.Col(colDueDate)).
		Where(
			copies.Col(colISBN).Eq(titleID),
			loans.Col(colReturnDate).IsNull(),
			loans.Col(colDueDate).Between(goqu.Range(int64(from), int64(until))),
		).
		Order(loans.Col(colDueDate).Asc())

	return r.renderQuery(stmt)
}

func (r Repository) buildReservationsInWindowQuery(titleID inventory.TitleIDInt, from, until inventory.Date) (sqlQueryString, error) {
	stmt := goqu.Dialect(dialectPostgres).
		From(r.reservationsTableName).
		Select(colReservationDate, colQuantity).
		Where(
			goqu.C(colISBN).Eq(titleID),
			goqu.C(colStatus).Eq(reservationStatusPending),
			goqu.C(colReservationDate).Between(goqu.Range(int64(from), int64(until))),
		).
		Order(goqu.C(colReservationDate).Asc())

	return r.renderQuery(stmt)
}

func (r Repository) buildPendingReservationQuery(reservationID inventory.ReservationIDInt) (sqlQueryString, error) {
	stmt := goqu.Dialect(dialectPostgres).
		From(r.reservationsTableName).
		Select(colReservationID, colISBN, colLocationID, colReservationDate, colQuantity).
		Where(
			goqu.C(colReservationID).Eq(reservationID),
			goqu.C(colStatus).Eq(reservationStatusPending),
		)

	return r.renderQuery(stmt)
}

func (r Repository) buildAvailableCopiesByLocationQuery(titleID inventory.TitleIDInt, excluding inventory.LocationIDInt) (sqlQueryString, error) {
	copies := goqu.T(r.copiesTableName)
	locations := goqu.T(r.locationsTableName)

	stmt := goqu.Dialect(dialectPostgres).
		From(copies).
		Join(locations, goqu.On(locations.Col(colLocationID).Eq(copies.Col(colCurrentLocationID)))).
		Select(
			copies.Col(colCurrentLocationID),
			locations.Col(colLocationName),
			goqu.COUNT(goqu.Star()).As(aliasCount),
		).
		Where(
			copies.Col(colISBN).Eq(titleID),
			copies.Col(colStatus).Eq(copyStatusAvailable),
			copies.Col(colCurrentLocationID).IsNotNull(),
			copies.Col(colCurrentLocationID).Neq(excluding),
		).
		GroupBy(copies.Col(colCurrentLocationID), locations.Col(colLocationName)).
		Order(copies.Col(colCurrentLocationID).Asc())

	return r.renderQuery(stmt)
}

func (r Repository) renderQuery(stmt *goqu.SelectDataset) (sqlQueryString, error) {
	sqlQuery, _, toSQLErr := stmt.ToSQL()
	if toSQLErr != nil {
		r.logError(context.Background(), logMsgBuildQueryFailed, toSQLErr)
		return "", joinRepositoryFailure(toSQLErr)
	}

	return sqlQuery, nil
}

// executeQuery executes the SQL query and logs it with timing information.
func (r Repository) executeQuery(ctx context.Context, sqlQuery string, action string) (adapters.DBRows, error) {
	start := time.Now()
	rows, queryErr := r.db.Query(ctx, sqlQuery)
	duration := time.Since(start)

	r.logQueryWithDuration(ctx, sqlQuery, action, duration)

	if queryErr != nil {
		r.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		return nil, joinRepositoryFailure(queryErr)
	}

	return rows, nil
}

// closeRows safely closes database rows and logs any errors.
func (r Repository) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if r.contextualLogger != nil {
			r.contextualLogger.WarnContext(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
			return
		}

		if r.logger != nil {
			r.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}

func (r Repository) scanFailure(ctx context.Context, scanErr error) error {
	r.logError(ctx, logMsgScanRowFailed, scanErr)
	return joinRepositoryFailure(scanErr)
}
