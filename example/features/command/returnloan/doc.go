// Package returnloan implements the return-loan use case: close an active
// loan by recording its return date and restore the copy to available at
// its home location. Loans are closed, never deleted.
package returnloan
