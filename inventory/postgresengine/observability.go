package postgresengine

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/shelfwise/circulation-engine-go/inventory"
)

// joinRepositoryFailure marks a storage error so callers can tell a system
// fault from a business outcome with errors.Is.
func joinRepositoryFailure(err error) error {
	return errors.Join(inventory.ErrRepositoryFailure, err)
}

// logQueryWithDuration logs the executed SQL with timing at debug level,
// preferring the contextual logger when both are configured.
func (r Repository) logQueryWithDuration(ctx context.Context, sqlQuery string, action string, duration time.Duration) {
	if r.contextualLogger != nil {
		r.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action,
			logAttrQuery, sqlQuery,
			logAttrDurationMS, durationToMilliseconds(duration))

		return
	}

	if r.logger != nil {
		r.logger.Debug(logMsgSQLExecuted+action,
			logAttrQuery, sqlQuery,
			logAttrDurationMS, durationToMilliseconds(duration))
	}
}

// logError logs critical failures, preferring the contextual logger.
func (r Repository) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := append([]any{logAttrError, err.Error()}, args...)

	if r.contextualLogger != nil {
		r.contextualLogger.ErrorContext(ctx, message, allArgs...)
		return
	}

	if r.logger != nil {
		r.logger.Error(message, allArgs...)
	}
}

// durationToMilliseconds converts a duration to milliseconds with microsecond precision.
func durationToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
