package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// postgresBase carries the shared resilience plumbing for the SQL
// repositories: a circuit breaker per table family plus bounded retry.
// An outage on one hot table does not trip reads on the others.
type postgresBase struct {
	db         *sql.DB
	cb         *gobreaker.CircuitBreaker
	maxRetries int
	retryDelay time.Duration
}

func newPostgresBase(db *sql.DB, breakerName string) postgresBase {
	settings := gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	}
	return postgresBase{
		db:         db,
		cb:         gobreaker.NewCircuitBreaker(settings),
		maxRetries: 3,
		retryDelay: 1 * time.Second,
	}
}

// executeWithRetry executes a database operation with retry logic
func (b *postgresBase) executeWithRetry(ctx context.Context, operation func() error) error {
	var lastErr error
	for i := 0; i < b.maxRetries; i++ {
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err
		// Don't retry on sql.ErrNoRows - it's not a transient error
		if errors.Is(err, sql.ErrNoRows) ||
			strings.Contains(strings.ToLower(err.Error()), "no rows") {
			return err
		}
		if i < b.maxRetries-1 {
			time.Sleep(b.retryDelay)
		}
	}
	return fmt.Errorf("operation failed after %d retries: %w", b.maxRetries, lastErr)
}

// isNoRows reports whether err is sql.ErrNoRows, possibly wrapped by
// the retry layer or the circuit breaker.
func isNoRows(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, sql.ErrNoRows) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no rows")
}

// Null-to-pointer scan helpers

func nullStringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func nullFloatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullBoolPtr(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	b := v.Bool
	return &b
}
