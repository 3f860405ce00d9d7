package query

import (
	"context"
	"errors"
	"time"

	"github.com/niksmo/storefront/pkg/retry"
)

const (
	DefaultStaleTime     = 5 * time.Minute
	DefaultGCTime        = 10 * time.Minute
	DefaultRetry         = 3
	DefaultMutationRetry = 1

	defaultRetryDelay    = time.Second
	defaultMaxRetryDelay = 30 * time.Second
)

// A Policy configures one query or mutation.
type Policy struct {
	// StaleTime is the freshness window. Older data is served and refreshed
	// in the background.
	StaleTime time.Duration

	// GCTime is how long an entry without observers stays cached.
	GCTime time.Duration

	// Retry is the number of attempts after the first one.
	Retry int

	RetryDelay  retry.Backoff
	ShouldRetry retry.ShouldRetry

	// Disabled queries never run, usually because a required parameter
	// is missing.
	Disabled bool
}

func DefaultPolicy() Policy {
	return Policy{
		StaleTime:  DefaultStaleTime,
		GCTime:     DefaultGCTime,
		Retry:      DefaultRetry,
		RetryDelay: retry.CappedExponentialBackoff(defaultRetryDelay, defaultMaxRetryDelay),
	}
}

func DefaultMutationPolicy() Policy {
	p := DefaultPolicy()
	p.Retry = DefaultMutationRetry
	return p
}

func (p Policy) normalize() Policy {
	if p.Retry < 0 {
		p.Retry = 0
	}
	if p.RetryDelay == nil {
		p.RetryDelay = retry.CappedExponentialBackoff(defaultRetryDelay, defaultMaxRetryDelay)
	}
	if p.ShouldRetry == nil {
		p.ShouldRetry = retryUnlessCanceled
	}
	return p
}

func (p Policy) retryConfig() retry.RetryConfig {
	return retry.RetryConfig{
		MaxAttempts: p.Retry + 1,
		Backoff:     p.RetryDelay,
		ShouldRetry: p.ShouldRetry,
	}
}

func retryUnlessCanceled(err error) bool {
	return !errors.Is(err, context.Canceled)
}
