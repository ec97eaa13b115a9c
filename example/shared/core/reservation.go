package core

import (
	"github.com/shelfwise/circulation-engine-go/inventory"
)

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "Pending"
	ReservationStatusFulfilled ReservationStatus = "Fulfilled"
	ReservationStatusCancelled ReservationStatus = "Cancelled"
	ReservationStatusExpired   ReservationStatus = "Expired"
)

// Reservation is a soft hold on a quantity of copies of a title for a
// location and date. Quantity never exceeds the title's total stock; the
// surrounding application enforces that on creation.
type Reservation struct {
	ID         inventory.ReservationIDInt
	TitleID    inventory.TitleIDInt
	LocationID inventory.LocationIDInt
	StaffID    StaffIDInt
	CreatedOn  inventory.Date
	ReservedOn inventory.Date
	Quantity   int
	Status     ReservationStatus
}

// Pending reports whether the reservation still awaits fulfilment.
func (r Reservation) Pending() bool {
	return r.Status == ReservationStatusPending
}
