package testdoubles

import (
	"context"
	"sort"
	"sync"

	"github.com/shelfwise/circulation-engine-go/example/shared/core"
	"github.com/shelfwise/circulation-engine-go/example/shared/shell"
	"github.com/shelfwise/circulation-engine-go/inventory"
)

var _ inventory.Repository = (*FakeCirculationStore)(nil)
var _ shell.LoanStore = (*FakeCirculationStore)(nil)
var _ shell.ReservationStore = (*FakeCirculationStore)(nil)

// FakeCirculationStore is an in-memory implementation of
// inventory.Repository plus the circulation store interfaces from the
// example shell. It mirrors the behavior of the PostgreSQL implementations:
// reads answer for the moment of the call, commits are conditional and
// return core.ErrConcurrentModification when their precondition no longer
// holds.
type FakeCirculationStore struct {
	mu            sync.Mutex
	copies        map[inventory.CopyIDInt]core.Copy
	loans         map[core.LoanIDInt]core.Loan
	reservations  map[inventory.ReservationIDInt]core.Reservation
	locationNames map[inventory.LocationIDInt]string
	nextLoanID    core.LoanIDInt
	failWith      error
}

// NewFakeCirculationStore creates an empty store.
func NewFakeCirculationStore() *FakeCirculationStore {
	return &FakeCirculationStore{
		copies:        make(map[inventory.CopyIDInt]core.Copy),
		loans:         make(map[core.LoanIDInt]core.Loan),
		reservations:  make(map[inventory.ReservationIDInt]core.Reservation),
		locationNames: make(map[inventory.LocationIDInt]string),
		nextLoanID:    1,
	}
}

// FailWith makes every subsequent call return the given error, for testing
// repository failure propagation. Pass nil to restore normal behavior.
func (f *FakeCirculationStore) FailWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWith = err
}

// AddLocation registers a storage location.
func (f *FakeCirculationStore) AddLocation(locationID inventory.LocationIDInt, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locationNames[locationID] = name
}

// AddCopy registers a physical copy.
func (f *FakeCirculationStore) AddCopy(copy core.Copy) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.copies[copy.ID] = copy
}

// AddAvailableCopies registers count available copies of a title at a
// location, assigning copy IDs from firstCopyID upwards.
func (f *FakeCirculationStore) AddAvailableCopies(firstCopyID inventory.CopyIDInt, titleID inventory.TitleIDInt, locationID inventory.LocationIDInt, count int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := 0; i < count; i++ {
		copyID := firstCopyID + inventory.CopyIDInt(i)
		f.copies[copyID] = core.Copy{
			ID:                copyID,
			TitleID:           titleID,
			HomeLocationID:    locationID,
			CurrentLocationID: locationID,
			Status:            core.CopyStatusAvailable,
		}
	}
}

// AddActiveLoan registers an open loan and flips the copy to on-loan.
func (f *FakeCirculationStore) AddActiveLoan(loanID core.LoanIDInt, copyID inventory.CopyIDInt, issuedOn, dueOn inventory.Date) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.loans[loanID] = core.Loan{
		ID:       loanID,
		CopyID:   copyID,
		IssuedOn: issuedOn,
		DueOn:    dueOn,
	}

	if copy, ok := f.copies[copyID]; ok {
		copy.Status = core.CopyStatusOnLoan
		copy.CurrentLocationID = core.NoLocation
		f.copies[copyID] = copy
	}

	if loanID >= f.nextLoanID {
		f.nextLoanID = loanID + 1
	}
}

// AddReservation registers a reservation.
func (f *FakeCirculationStore) AddReservation(reservation core.Reservation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reservations[reservation.ID] = reservation
}

// CopyStatus reports the current status of a copy, for test assertions.
func (f *FakeCirculationStore) CopyStatus(copyID inventory.CopyIDInt) core.CopyStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.copies[copyID].Status
}

// Loan returns a loan by ID, for test assertions.
func (f *FakeCirculationStore) Loan(loanID core.LoanIDInt) (core.Loan, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	loan, ok := f.loans[loanID]
	return loan, ok
}

// ReservationStatus reports the current status of a reservation, for test
// assertions.
func (f *FakeCirculationStore) ReservationStatus(reservationID inventory.ReservationIDInt) core.ReservationStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reservations[reservationID].Status
}

// TitleForCopy implements inventory.Repository.
func (f *FakeCirculationStore) TitleForCopy(_ context.Context, copyID inventory.CopyIDInt) (inventory.TitleIDInt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return 0, f.failWith
	}

	copy, ok := f.copies[copyID]
	if !ok {
		return 0, inventory.ErrCopyNotFound
	}

	return copy.TitleID, nil
}

// StartingStock implements inventory.Repository.
func (f *FakeCirculationStore) StartingStock(_ context.Context, titleID inventory.TitleIDInt) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return 0, f.failWith
	}

	stock := 0
	for _, copy := range f.copies {
		if copy.TitleID == titleID && !copy.OnLoan() {
			stock++
		}
	}

	return stock, nil
}

// ActiveLoanDueDates implements inventory.Repository.
func (f *FakeCirculationStore) ActiveLoanDueDates(_ context.Context, titleID inventory.TitleIDInt, from, until inventory.Date) ([]inventory.Date, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return nil, f.failWith
	}

	var dueDates []inventory.Date

	for _, loan := range f.loans {
		if !loan.Active() {
			continue
		}

		copy, ok := f.copies[loan.CopyID]
		if !ok || copy.TitleID != titleID {
			continue
		}

		if loan.DueOn >= from && loan.DueOn <= until {
			dueDates = append(dueDates, loan.DueOn)
		}
	}

	sort.Slice(dueDates, func(i, j int) bool { return dueDates[i] < dueDates[j] })

	return dueDates, nil
}

// ReservationsInWindow implements inventory.Repository.
func (f *FakeCirculationStore) ReservationsInWindow(_ context.Context, titleID inventory.TitleIDInt, from, until inventory.Date) ([]inventory.ReservationHold, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return nil, f.failWith
	}

	var holds []inventory.ReservationHold

	for _, reservation := range f.reservations {
		if reservation.TitleID != titleID || !reservation.Pending() {
			continue
		}

		if reservation.ReservedOn >= from && reservation.ReservedOn <= until {
			holds = append(holds, inventory.ReservationHold{On: reservation.ReservedOn, Quantity: reservation.Quantity})
		}
	}

	sort.Slice(holds, func(i, j int) bool { return holds[i].On < holds[j].On })

	return holds, nil
}

// PendingReservation implements inventory.Repository.
func (f *FakeCirculationStore) PendingReservation(_ context.Context, reservationID inventory.ReservationIDInt) (inventory.PendingReservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return inventory.PendingReservation{}, f.failWith
	}

	reservation, ok := f.reservations[reservationID]
	if !ok || !reservation.Pending() {
		return inventory.PendingReservation{}, inventory.ErrReservationNotFound
	}

	return inventory.PendingReservation{
		ID:         reservation.ID,
		TitleID:    reservation.TitleID,
		LocationID: reservation.LocationID,
		On:         reservation.ReservedOn,
		Quantity:   reservation.Quantity,
	}, nil
}

// AvailableCopiesByLocation implements inventory.Repository.
func (f *FakeCirculationStore) AvailableCopiesByLocation(_ context.Context, titleID inventory.TitleIDInt, excluding inventory.LocationIDInt) ([]inventory.LocationStock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return nil, f.failWith
	}

	counts := make(map[inventory.LocationIDInt]int)

	for _, copy := range f.copies {
		if copy.TitleID != titleID || copy.Status != core.CopyStatusAvailable {
			continue
		}

		if copy.CurrentLocationID == core.NoLocation || copy.CurrentLocationID == excluding {
			continue
		}

		counts[copy.CurrentLocationID]++
	}

	locationIDs := make([]inventory.LocationIDInt, 0, len(counts))
	for locationID := range counts {
		locationIDs = append(locationIDs, locationID)
	}
	sort.Slice(locationIDs, func(i, j int) bool { return locationIDs[i] < locationIDs[j] })

	stocks := make([]inventory.LocationStock, 0, len(locationIDs))
	for _, locationID := range locationIDs {
		stocks = append(stocks, inventory.LocationStock{
			LocationID:   locationID,
			LocationName: f.locationNames[locationID],
			Count:        counts[locationID],
		})
	}

	return stocks, nil
}

// CreateLoan implements the shell.LoanStore interface with the same
// conditional semantics as the PostgreSQL store.
func (f *FakeCirculationStore) CreateLoan(_ context.Context, loan core.Loan) (core.LoanIDInt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return 0, f.failWith
	}

	copy, ok := f.copies[loan.CopyID]
	if !ok || copy.Status != core.CopyStatusAvailable {
		return 0, core.ErrConcurrentModification
	}

	copy.Status = core.CopyStatusOnLoan
	copy.CurrentLocationID = core.NoLocation
	f.copies[loan.CopyID] = copy

	loan.ID = f.nextLoanID
	f.nextLoanID++
	f.loans[loan.ID] = loan

	return loan.ID, nil
}

// CloseLoan implements the shell.LoanStore interface.
func (f *FakeCirculationStore) CloseLoan(_ context.Context, loanID core.LoanIDInt, returnedOn inventory.Date) (core.Loan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return core.Loan{}, f.failWith
	}

	loan, ok := f.loans[loanID]
	if !ok || !loan.Active() {
		return core.Loan{}, core.ErrLoanNotActive
	}

	loan.ReturnedOn = returnedOn
	f.loans[loanID] = loan

	if copy, found := f.copies[loan.CopyID]; found {
		copy.Status = core.CopyStatusAvailable
		copy.CurrentLocationID = copy.HomeLocationID
		f.copies[loan.CopyID] = copy
	}

	return loan, nil
}

// CommitAllocation implements the shell.ReservationStore interface.
func (f *FakeCirculationStore) CommitAllocation(_ context.Context, reservationID inventory.ReservationIDInt, picks []inventory.Pick) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return f.failWith
	}

	reservation, ok := f.reservations[reservationID]
	if !ok || !reservation.Pending() {
		return core.ErrReservationNotPending
	}

	for _, pick := range picks {
		flipped := 0

		for copyID, copy := range f.copies {
			if flipped == pick.Count {
				break
			}

			if copy.TitleID != reservation.TitleID || copy.Status != core.CopyStatusAvailable || copy.CurrentLocationID != pick.LocationID {
				continue
			}

			copy.Status = core.CopyStatusReserved
			f.copies[copyID] = copy
			flipped++
		}

		if flipped != pick.Count {
			return core.ErrConcurrentModification
		}
	}

	reservation.Status = core.ReservationStatusFulfilled
	f.reservations[reservationID] = reservation

	return nil
}
