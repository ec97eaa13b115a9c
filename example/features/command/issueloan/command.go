package issueloan

import (
	"github.com/google/uuid"

	"github.com/shelfwise/circulation-engine-go/example/shared/core"
	"github.com/shelfwise/circulation-engine-go/inventory"
)

const (
	commandType = "IssueLoan"
)

// Command represents the intent to issue a loan of a physical copy to a
// student over an inclusive date window.
type Command struct {
	CommandID uuid.UUID
	CopyID    inventory.CopyIDInt
	StudentID core.StudentIDInt
	StaffID   core.StaffIDInt
	LoanDate  inventory.Date
	DueDate   inventory.Date
}

// CommandType returns the type identifier for this command, used for
// logging and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with a fresh command identifier.
func BuildCommand(
	copyID inventory.CopyIDInt,
	studentID core.StudentIDInt,
	staffID core.StaffIDInt,
	loanDate inventory.Date,
	dueDate inventory.Date,
) Command {
	return Command{
		CommandID: uuid.New(),
		CopyID:    copyID,
		StudentID: studentID,
		StaffID:   staffID,
		LoanDate:  loanDate,
		DueDate:   dueDate,
	}
}
