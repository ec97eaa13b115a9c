package inventory

import (
	"context"
)

// ReservationHold is a reservation's claim on stock as seen by the conflict
// check: Quantity copies held on the reservation date.
type ReservationHold struct {
	On       Date
	Quantity int
}

// LocationStock is the number of available copies of one title at one
// storage location.
type LocationStock struct {
	LocationID   LocationIDInt
	LocationName string
	Count        int
}

// PendingReservation is the subset of a reservation the allocator needs:
// which title, how many copies are still wanted, and where and when they
// were reserved for.
type PendingReservation struct {
	ID         ReservationIDInt
	TitleID    TitleIDInt
	LocationID LocationIDInt
	On         Date
	Quantity   int
}

// Repository supplies the point-in-time inventory queries the engine
// decides on. Implementations answer for the moment of the call; the engine
// never caches across calls.
//
// Lookup methods return ErrCopyNotFound / ErrReservationNotFound for
// unknown identifiers. All methods join ErrRepositoryFailure onto storage
// errors so callers can tell a system fault from a business outcome.
type Repository interface {
	// TitleForCopy resolves the title a physical copy belongs to.
	TitleForCopy(ctx context.Context, copyID CopyIDInt) (TitleIDInt, error)

	// StartingStock counts the copies of a title not currently on loan,
	// i.e. in status Available or Reserved.
	StartingStock(ctx context.Context, titleID TitleIDInt) (int, error)

	// ActiveLoanDueDates returns the due dates of unreturned loans of the
	// title whose due date falls within the inclusive range [from, until].
	ActiveLoanDueDates(ctx context.Context, titleID TitleIDInt, from, until Date) ([]Date, error)

	// ReservationsInWindow returns the holds of the title whose reservation
	// date falls within the inclusive range [from, until].
	ReservationsInWindow(ctx context.Context, titleID TitleIDInt, from, until Date) ([]ReservationHold, error)

	// PendingReservation fetches a reservation still awaiting fulfilment.
	PendingReservation(ctx context.Context, reservationID ReservationIDInt) (PendingReservation, error)

	// AvailableCopiesByLocation counts the available copies of a title per
	// current location, omitting copies without a current location and
	// copies at the excluded pseudo-location.
	AvailableCopiesByLocation(ctx context.Context, titleID TitleIDInt, excluding LocationIDInt) ([]LocationStock, error)
}
