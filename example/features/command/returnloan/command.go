package returnloan

import (
	"github.com/google/uuid"

	"github.com/shelfwise/circulation-engine-go/example/shared/core"
	"github.com/shelfwise/circulation-engine-go/inventory"
)

const (
	commandType = "ReturnLoan"
)

// Command represents the intent to close an active loan.
type Command struct {
	CommandID  uuid.UUID
	LoanID     core.LoanIDInt
	ReturnedOn inventory.Date
}

// CommandType returns the type identifier for this command.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with a fresh command identifier.
func BuildCommand(loanID core.LoanIDInt, returnedOn inventory.Date) Command {
	return Command{
		CommandID:  uuid.New(),
		LoanID:     loanID,
		ReturnedOn: returnedOn,
	}
}
