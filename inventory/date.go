package inventory

import (
	"fmt"
	"time"
)

// Date is a whole calendar day encoded as an ISO 8601 basic integer, YYYYMMDD.
// The encoding is the same one the circulation schema persists: integer
// comparison of two Dates is chronological comparison, so Dates sort and
// compare with the ordinary < and == operators. There is no time-of-day
// component and no timezone.
type Date int

// DateOf builds a Date from year, month and day.
func DateOf(year int, month time.Month, day int) Date {
	return Date(year*10000 + int(month)*100 + day)
}

// DateFromTime truncates a time.Time to its calendar day.
func DateFromTime(t time.Time) Date {
	return DateOf(t.Year(), t.Month(), t.Day())
}

// Time converts the Date to a time.Time at midnight UTC.
func (d Date) Time() time.Time {
	return time.Date(d.year(), d.month(), d.day(), 0, 0, 0, 0, time.UTC)
}

// Next returns the following calendar day, carrying over month and year
// boundaries.
func (d Date) Next() Date {
	return DateFromTime(d.Time().AddDate(0, 0, 1))
}

// IsValid reports whether the Date denotes a real calendar day.
// The round trip through time.Date normalizes invalid components
// (month 13, day 32, ...), so a mismatch means the encoding was not a
// real day.
func (d Date) IsValid() bool {
	if d <= 0 {
		return false
	}

	return DateFromTime(d.Time()) == d
}

// String renders the Date in ISO 8601 extended form, e.g. "2026-09-01".
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year(), int(d.month()), d.day())
}

func (d Date) year() int {
	return int(d) / 10000
}

func (d Date) month() time.Month {
	return time.Month(int(d) / 100 % 100)
}

func (d Date) day() int {
	return int(d) % 100
}
