package shell

import "time"

// HandlerResult represents the outcome of a command handler execution.
// It captures the business outcome (committed or rejected, and why)
// together with retry metadata, without coupling the handler to a specific
// observability implementation.
type HandlerResult struct {
	// Committed indicates whether the command changed persisted state.
	Committed bool

	// RejectionReason names the business outcome when the command was
	// rejected without error: not enough stock, allocation shortfall.
	// Empty for committed results.
	RejectionReason string

	// RetryAttempts is the total number of attempts made (1 for no retries).
	RetryAttempts int

	// TotalRetryDelay is the cumulative time spent in retry backoff delays.
	TotalRetryDelay time.Duration

	// LastErrorType describes the final error across retries: "none",
	// "concurrent_modification", "context_canceled",
	// "context_deadline_exceeded", or "other".
	LastErrorType string

	// RetriesExhausted is true when all attempts ended in a retryable error.
	RetriesExhausted bool
}

// NewCommittedResult creates a HandlerResult for a command that changed state.
func NewCommittedResult(retryMetrics RetryMetrics) HandlerResult {
	return HandlerResult{
		Committed:        true,
		RetryAttempts:    retryMetrics.Attempts,
		TotalRetryDelay:  retryMetrics.TotalDelay,
		LastErrorType:    retryMetrics.LastErrorType,
		RetriesExhausted: retryMetrics.RetriesExhausted,
	}
}

// NewRejectedResult creates a HandlerResult for a command rejected by a
// business outcome. Rejections are not errors.
func NewRejectedResult(reason string, retryMetrics RetryMetrics) HandlerResult {
	return HandlerResult{
		Committed:        false,
		RejectionReason:  reason,
		RetryAttempts:    retryMetrics.Attempts,
		TotalRetryDelay:  retryMetrics.TotalDelay,
		LastErrorType:    retryMetrics.LastErrorType,
		RetriesExhausted: retryMetrics.RetriesExhausted,
	}
}

// NewErrorResult creates a HandlerResult for a failed command that still
// reports its retry metadata.
func NewErrorResult(retryMetrics RetryMetrics) HandlerResult {
	return HandlerResult{
		Committed:        false,
		RetryAttempts:    retryMetrics.Attempts,
		TotalRetryDelay:  retryMetrics.TotalDelay,
		LastErrorType:    retryMetrics.LastErrorType,
		RetriesExhausted: retryMetrics.RetriesExhausted,
	}
}
