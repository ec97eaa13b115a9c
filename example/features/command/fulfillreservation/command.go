package fulfillreservation

import (
	"github.com/google/uuid"

	"github.com/shelfwise/circulation-engine-go/inventory"
)

const (
	commandType = "FulfillReservation"
)

// Command represents the intent to fulfill a pending reservation.
type Command struct {
	CommandID     uuid.UUID
	ReservationID inventory.ReservationIDInt
}

// CommandType returns the type identifier for this command.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with a fresh command identifier.
func BuildCommand(reservationID inventory.ReservationIDInt) Command {
	return Command{
		CommandID:     uuid.New(),
		ReservationID: reservationID,
	}
}
