package shell

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shelfwise/circulation-engine-go/example/shared/core"
	"github.com/shelfwise/circulation-engine-go/inventory"
)

// PGXCirculationStore commits loan and reservation decisions against the
// circulation schema using a pgx pool. Every commit is one transaction
// whose first statement is a conditional update; zero affected rows means
// another writer got there first and nothing is committed.
type PGXCirculationStore struct {
	pool *pgxpool.Pool
}

// NewPGXCirculationStore creates a store on top of the given pgx pool.
func NewPGXCirculationStore(pool *pgxpool.Pool) (*PGXCirculationStore, error) {
	if pool == nil {
		return nil, inventory.ErrNilRepository
	}

	return &PGXCirculationStore{pool: pool}, nil
}

// CreateLoan flips the copy to on-loan and records the loan row in one
// transaction. The copy update is conditional on the copy still being
// available; losing that race returns core.ErrConcurrentModification with
// nothing committed.
func (s *PGXCirculationStore) CreateLoan(ctx context.Context, loan core.Loan) (core.LoanIDInt, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE copies SET status = 'OnLoan', current_location_id = NULL
		WHERE ucid = $1 AND status = 'Available'`, loan.CopyID)
	if err != nil {
		return 0, err
	}
	if tag.RowsAffected() != 1 {
		return 0, core.ErrConcurrentModification
	}

	var loanID core.LoanIDInt
	err = tx.QueryRow(ctx, `
		INSERT INTO loans (ustu_id, usta_id, ucid, loan_date, due_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING uloan_id`,
		loan.StudentID, loan.StaffID, loan.CopyID, int64(loan.IssuedOn), int64(loan.DueOn),
	).Scan(&loanID)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return loanID, nil
}

// CloseLoan records the return date and restores the copy to available at
// its home location. Loans are closed, never deleted.
func (s *PGXCirculationStore) CloseLoan(ctx context.Context, loanID core.LoanIDInt, returnedOn inventory.Date) (core.Loan, error) {
	var empty core.Loan

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return empty, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	loan := core.Loan{ID: loanID, ReturnedOn: returnedOn}
	var issuedOn, dueOn int64

	err = tx.QueryRow(ctx, `
		SELECT ustu_id, usta_id, ucid, loan_date, due_date
		FROM loans
		WHERE uloan_id = $1 AND return_date IS NULL
		FOR UPDATE`, loanID,
	).Scan(&loan.StudentID, &loan.StaffID, &loan.CopyID, &issuedOn, &dueOn)
	if errors.Is(err, pgx.ErrNoRows) {
		return empty, core.ErrLoanNotActive
	}
	if err != nil {
		return empty, err
	}
	loan.IssuedOn = inventory.Date(issuedOn)
	loan.DueOn = inventory.Date(dueOn)

	if _, err := tx.Exec(ctx, `
		UPDATE loans SET return_date = $2 WHERE uloan_id = $1`,
		loanID, int64(returnedOn)); err != nil {
		return empty, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE copies SET status = 'Available', current_location_id = home_location_id
		WHERE ucid = $1`, loan.CopyID); err != nil {
		return empty, err
	}

	if err := tx.Commit(ctx); err != nil {
		return empty, err
	}

	return loan, nil
}

// CommitAllocation marks the reservation fulfilled and flips the picked
// copies to reserved, location by location. If any location no longer has
// the picked number of available copies, the whole transaction rolls back
// with core.ErrConcurrentModification so the caller can re-allocate from
// fresh stock.
func (s *PGXCirculationStore) CommitAllocation(ctx context.Context, reservationID inventory.ReservationIDInt, picks []inventory.Pick) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var titleID inventory.TitleIDInt
	err = tx.QueryRow(ctx, `
		SELECT isbn FROM reservations
		WHERE urid = $1 AND status = 'Pending'
		FOR UPDATE`, reservationID,
	).Scan(&titleID)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.ErrReservationNotPending
	}
	if err != nil {
		return err
	}

	for _, pick := range picks {
		tag, execErr := tx.Exec(ctx, `
			UPDATE copies SET status = 'Reserved'
			WHERE ucid IN (
				SELECT ucid FROM copies
				WHERE isbn = $1 AND current_location_id = $2 AND status = 'Available'
				LIMIT $3
				FOR UPDATE
			)`, titleID, pick.LocationID, pick.Count)
		if execErr != nil {
			return execErr
		}
		if tag.RowsAffected() != int64(pick.Count) {
			return core.ErrConcurrentModification // rollback via defer
		}
	}

	if _, err := tx.Exec(ctx, `
		UPDATE reservations SET status = 'Fulfilled' WHERE urid = $1`,
		reservationID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Interface guards.
var _ LoanStore = (*PGXCirculationStore)(nil)
var _ ReservationStore = (*PGXCirculationStore)(nil)
