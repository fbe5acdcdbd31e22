// Package retry re-runs operations that fail with transient errors.
package retry

import (
	"context"
	"fmt"
	"math"
	"time"

	log "github.com/cloudposse/artifactor/pkg/logger"
)

// Func represents a function that can be retried.
type Func func() error

// Config controls attempts and exponential backoff.
type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

const (
	defaultMaxAttempts  = 5
	defaultInitialDelay = 3 * time.Second
	defaultMaxDelay     = 30 * time.Second
	defaultMultiplier   = 1.5
)

// DefaultConfig returns the backoff used for results service calls.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  defaultMaxAttempts,
		InitialDelay: defaultInitialDelay,
		MaxDelay:     defaultMaxDelay,
		Multiplier:   defaultMultiplier,
	}
}

// RetryOnAnyError retries on any error.
func RetryOnAnyError(error) bool { return true }

// Do runs fn until it succeeds, shouldRetry rejects its error, the attempts
// are exhausted or ctx is done.
func Do(ctx context.Context, config Config, shouldRetry func(error) bool, fn Func) error {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	if shouldRetry == nil {
		shouldRetry = RetryOnAnyError
	}

	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !shouldRetry(err) {
			return err
		}
		if attempt == config.MaxAttempts {
			return fmt.Errorf("max attempts (%d) exceeded, last error: %w", config.MaxAttempts, err)
		}

		delay := config.delay(attempt)
		log.Debug("Retrying after error", "attempt", attempt, "delay", delay, "error", err)

		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during retry: %w", ctx.Err())
		case <-time.After(delay):
		}
	}
}

// delay returns the wait before attempt+1.
func (c Config) delay(attempt int) time.Duration {
	multiplier := c.Multiplier
	if multiplier <= 0 {
		multiplier = 1
	}

	delay := time.Duration(float64(c.InitialDelay) * math.Pow(multiplier, float64(attempt-1)))
	if c.MaxDelay > 0 && delay > c.MaxDelay {
		delay = c.MaxDelay
	}
	return delay
}
