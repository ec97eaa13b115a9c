package inventory

import (
	"errors"
)

var ErrNilRepository = errors.New("repository must not be nil")
var ErrNilDatabaseConnection = errors.New("database connection must not be nil")
var ErrEmptyTableNameSupplied = errors.New("empty table name supplied")
var ErrCopyNotFound = errors.New("copy not found")
var ErrReservationNotFound = errors.New("reservation not found")
var ErrInvalidDateRange = errors.New("loan date must not be after due date")
var ErrInvalidQuantity = errors.New("quantity must be positive")

// ErrRepositoryFailure marks errors caused by the data-access collaborator
// (connectivity, corruption) as opposed to business outcomes or unknown
// identifiers. Repository implementations join it onto the underlying error
// so callers can discriminate with errors.Is.
var ErrRepositoryFailure = errors.New("inventory repository failure")

// CopyIDInt identifies one physical copy of a title.
type CopyIDInt = int64

// TitleIDInt identifies a catalogued work independent of its copies (the ISBN in the schema).
type TitleIDInt = int64

// LocationIDInt identifies a storage location.
type LocationIDInt = int64

// ReservationIDInt identifies a reservation.
type ReservationIDInt = int64
