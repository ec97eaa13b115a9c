package core

import (
	"github.com/shelfwise/circulation-engine-go/inventory"
)

// CopyStatus is the lifecycle state of one physical copy.
type CopyStatus string

const (
	CopyStatusAvailable CopyStatus = "Available"
	CopyStatusOnLoan    CopyStatus = "OnLoan"
	CopyStatusReserved  CopyStatus = "Reserved"
)

// NoLocation marks a copy without a current location, which is the case
// exactly while it is on loan.
const NoLocation inventory.LocationIDInt = 0

// Copy is one physical instance of a title. CurrentLocationID and Status
// stay mutually consistent: an on-loan copy has NoLocation, every other
// status has a real current location.
type Copy struct {
	ID                inventory.CopyIDInt
	TitleID           inventory.TitleIDInt
	HomeLocationID    inventory.LocationIDInt
	CurrentLocationID inventory.LocationIDInt
	Status            CopyStatus
}

// OnLoan reports whether the copy is currently lent out.
func (c Copy) OnLoan() bool {
	return c.Status == CopyStatusOnLoan
}

// LocationConsistent reports whether status and current location agree.
func (c Copy) LocationConsistent() bool {
	if c.Status == CopyStatusOnLoan {
		return c.CurrentLocationID == NoLocation
	}

	return c.CurrentLocationID != NoLocation
}
