package inventory

import (
	"context"
	"math"
	"time"
)

const (
	logMsgOperation           = "inventory operation: "
	logMsgCheckCompleted      = "availability check completed"
	logMsgAllocationCompleted = "reservation allocation completed"
	logMsgRepositoryError     = "inventory repository query failed"

	logAttrError         = "error"
	logAttrCopyID        = "copy_id"
	logAttrTitleID       = "title_id"
	logAttrReservationID = "reservation_id"
	logAttrAllowed       = "allowed"
	logAttrShortfall     = "shortfall"
	logAttrDurationMS    = "duration_ms"

	metricCheckDuration        = "availability_check_duration"
	metricAllocationDuration   = "reservation_allocation_duration"
	metricCheckConflicts       = "availability_check_conflicts"
	metricAllocationShortfalls = "reservation_allocation_shortfalls"
	metricRepositoryErrors     = "inventory_repository_errors"

	spanNameCheck      = "inventory.check_availability"
	spanNameAllocation = "inventory.allocate_reservation"
	spanAttrOperation  = "operation"
	spanAttrErrorType  = "error_type"

	operationCheck      = "check_availability"
	operationAllocation = "allocate_reservation"

	statusOK       = "ok"
	statusError    = "error"
	statusConflict = "conflict"
)

// Engine computes availability and allocation decisions against an injected
// Repository. It holds no inventory state of its own; per-title critical
// sections are the only mutable state, and they exist only while callers
// hold them.
type Engine struct {
	repo             Repository
	titleMutex       *TitleMutex
	onLoanLocation   LocationIDInt
	logger           Logger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
	contextualLogger ContextualLogger
}

// Option defines a functional option for configuring an Engine.
type Option func(*Engine) error

// WithLogger sets the logger for the Engine.
//
// Debug level: per-decision inputs and outcomes (development use)
// Info level: decision counts and durations (production-safe)
// Error level: repository failures.
func WithLogger(logger Logger) Option {
	return func(e *Engine) error {
		e.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Engine. The collector
// receives decision durations, conflict counts, allocation shortfalls, and
// repository error counts.
func WithMetrics(collector MetricsCollector) Option {
	return func(e *Engine) error {
		e.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Engine. The collector
// receives one span per decision operation with outcome attributes.
func WithTracing(collector TracingCollector) Option {
	return func(e *Engine) error {
		e.tracingCollector = collector
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Engine, enabling
// automatic trace correlation when tracing is configured as well.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(e *Engine) error {
		e.contextualLogger = logger
		return nil
	}
}

// WithOnLoanLocation designates a pseudo-location that holds copies in
// transit while on loan. Copies currently at that location are never
// offered by the allocator. Schemas that park on-loan copies at a NULL
// current location instead do not need this option.
func WithOnLoanLocation(locationID LocationIDInt) Option {
	return func(e *Engine) error {
		e.onLoanLocation = locationID
		return nil
	}
}

// NewEngine creates an Engine on top of the given Repository with optional
// configuration.
func NewEngine(repo Repository, options ...Option) (*Engine, error) {
	if repo == nil {
		return nil, ErrNilRepository
	}

	engine := &Engine{
		repo:       repo,
		titleMutex: NewTitleMutex(),
	}

	for _, option := range options {
		if err := option(engine); err != nil {
			return nil, err
		}
	}

	return engine, nil
}

// Repository returns the data-access collaborator the Engine decides on,
// for callers that need to resolve identifiers before entering a critical
// section.
func (e *Engine) Repository() Repository {
	return e.repo
}

// LockTitle enters the exclusive per-title critical section and returns the
// release function. Callers that commit a decision must span
// read-decide-commit inside one critical section:
//
//	release := engine.LockTitle(titleID)
//	defer release()
func (e *Engine) LockTitle(titleID TitleIDInt) (release func()) {
	e.titleMutex.Lock(titleID)
	return func() { e.titleMutex.Unlock(titleID) }
}

// logOperation logs operational information at info level if a logger is configured.
func (e *Engine) logOperation(ctx context.Context, action string, args ...any) {
	if e.contextualLogger != nil {
		e.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
		return
	}
	if e.logger != nil {
		e.logger.Info(logMsgOperation+action, args...)
	}
}

// logError logs error information at error level if a logger is configured.
func (e *Engine) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if e.contextualLogger != nil {
		e.contextualLogger.ErrorContext(ctx, message, allArgs...)
		return
	}
	if e.logger != nil {
		e.logger.Error(message, allArgs...)
	}
}

// recordDurationMetrics records a decision duration if a collector is configured.
func (e *Engine) recordDurationMetrics(ctx context.Context, metricName string, duration time.Duration, operation, status string) {
	if e.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		"status":          status,
	}

	if contextual, ok := e.metricsCollector.(ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metricName, duration, labels)
	} else {
		e.metricsCollector.RecordDuration(metricName, duration, labels)
	}
}

// incrementCounterMetrics increments an outcome counter if a collector is configured.
func (e *Engine) incrementCounterMetrics(ctx context.Context, metricName, operation, status string) {
	if e.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		"status":          status,
	}

	if contextual, ok := e.metricsCollector.(ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metricName, labels)
	} else {
		e.metricsCollector.IncrementCounter(metricName, labels)
	}
}

// recordRepositoryError counts a repository failure if a collector is configured.
func (e *Engine) recordRepositoryError(ctx context.Context, operation string) {
	if e.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		spanAttrErrorType: "repository",
	}

	if contextual, ok := e.metricsCollector.(ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metricRepositoryErrors, labels)
	} else {
		e.metricsCollector.IncrementCounter(metricRepositoryErrors, labels)
	}
}

// startTraceSpan starts a tracing span if a tracing collector is configured.
func (e *Engine) startTraceSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, SpanContext) {
	if e.tracingCollector != nil {
		return e.tracingCollector.StartSpan(ctx, name, attrs)
	}
	return ctx, nil
}

// finishTraceSpan finishes a tracing span if one was started.
func (e *Engine) finishTraceSpan(spanCtx SpanContext, status string, attrs map[string]string) {
	if e.tracingCollector != nil && spanCtx != nil {
		e.tracingCollector.FinishSpan(spanCtx, status, attrs)
	}
}

// durationToMilliseconds converts a time.Duration to float64 milliseconds
// with 3 decimal places for logging.
func (e *Engine) durationToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
