package core

import (
	"github.com/shelfwise/circulation-engine-go/inventory"
)

// Loan binds one copy to one borrower over a date range. A loan is active
// while ReturnedOn is zero; recording a return date closes it. Loans are
// never deleted, only closed.
type Loan struct {
	ID         LoanIDInt
	CopyID     inventory.CopyIDInt
	StudentID  StudentIDInt
	StaffID    StaffIDInt
	IssuedOn   inventory.Date
	DueOn      inventory.Date
	ReturnedOn inventory.Date
}

// Active reports whether the loan is still open.
func (l Loan) Active() bool {
	return l.ReturnedOn == 0
}
