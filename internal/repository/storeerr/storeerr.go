// Package storeerr translates storage failures into domain errors.
package storeerr

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/searchapi/internal/db"
	"github.com/kailas-cloud/searchapi/internal/domain"
	"github.com/kailas-cloud/searchapi/internal/metrics"
	"github.com/kailas-cloud/searchapi/internal/resilience"
)

// Translate wraps err with ErrStoreRejected when the store refused the request
// and ErrStoreUnavailable otherwise (timeouts, transport, open circuit).
func Translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if rejected(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreRejected, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}

// RecordFailure tells the breaker which errors indicate an unhealthy store.
func RecordFailure(err error) bool {
	if rejected(err) || errors.Is(err, context.Canceled) {
		return false
	}
	return !resilience.IsCircuitOpen(err)
}

func rejected(err error) bool {
	return errors.Is(err, db.ErrRejected) || errors.Is(err, db.ErrInvalidPlan)
}

// Observe records the outcome and latency of one store round trip.
func Observe(index, op string, start time.Time, err error) {
	status := metrics.StatusOK
	switch {
	case err == nil:
	case rejected(err):
		status = metrics.StatusRejected
	default:
		status = metrics.StatusUnavailable
	}
	metrics.StoreRequestsTotal.WithLabelValues(index, op, status).Inc()
	metrics.StoreRequestDuration.WithLabelValues(index, op).Observe(time.Since(start).Seconds())
}
