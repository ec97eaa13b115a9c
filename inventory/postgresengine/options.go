package postgresengine

import (
	"github.com/shelfwise/circulation-engine-go/inventory"
)

// Option defines a functional option for configuring the Repository.
type Option func(*Repository) error

// WithCopiesTableName sets the copies table name for the Repository.
func WithCopiesTableName(tableName string) Option {
	return func(r *Repository) error {
		if tableName == "" {
			return inventory.ErrEmptyTableNameSupplied
		}

		r.copiesTableName = tableName

		return nil
	}
}

// WithLoansTableName sets the loans table name for the Repository.
func WithLoansTableName(tableName string) Option {
	return func(r *Repository) error {
		if tableName == "" {
			return inventory.ErrEmptyTableNameSupplied
		}

		r.loansTableName = tableName

		return nil
	}
}

// WithReservationsTableName sets the reservations table name for the Repository.
func WithReservationsTableName(tableName string) Option {
	return func(r *Repository) error {
		if tableName == "" {
			return inventory.ErrEmptyTableNameSupplied
		}

		r.reservationsTableName = tableName

		return nil
	}
}

// WithLocationsTableName sets the locations table name for the Repository.
func WithLocationsTableName(tableName string) Option {
	return func(r *Repository) error {
		if tableName == "" {
			return inventory.ErrEmptyTableNameSupplied
		}

		r.locationsTableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the Repository.
//
// Debug level: SQL queries with execution timing (development use)
// Warn level: non-critical issues like cleanup failures
// Error level: critical failures that cause operation failures.
func WithLogger(logger inventory.Logger) Option {
	return func(r *Repository) error {
		r.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Repository.
// The contextual logger receives log messages with context information,
// enabling automatic trace/span correlation when tracing is enabled.
func WithContextualLogger(logger inventory.ContextualLogger) Option {
	return func(r *Repository) error {
		r.contextualLogger = logger
		return nil
	}
}
