package sheets

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ErrCircuitOpen is returned while the Sheets API is considered unavailable.
var ErrCircuitOpen = errors.New("sheets circuit breaker is open")

// BreakerRepository guards another Repository with a circuit breaker so a failing
// Google API is not hammered by every page load. It never retries.
type BreakerRepository struct {
	next Repository
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerRepository wraps next. The breaker opens after five consecutive failures
// and lets one call through again after timeout.
func NewBreakerRepository(name string, next Repository, timeout time.Duration, logger *zap.Logger) *BreakerRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// Caller cancellations say nothing about the API's health.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &BreakerRepository{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

// ReadRange implements Repository.
func (b *BreakerRepository) ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.ReadRange(ctx, sheetRange)
	})
	if err != nil {
		return nil, translateBreakerErr(err)
	}
	rows, _ := out.([][]interface{})
	return rows, nil
}

// UpdateRange implements Repository.
func (b *BreakerRepository) UpdateRange(ctx context.Context, sheetRange string, values []interface{}) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.UpdateRange(ctx, sheetRange, values)
	})
	return translateBreakerErr(err)
}

func translateBreakerErr(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrCircuitOpen
	}
	return err
}
