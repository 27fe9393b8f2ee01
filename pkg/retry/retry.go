package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// PermanentError marks an error that must not be retried.
type PermanentError interface {
	error
	IsPermanent() bool
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string {
	return e.err.Error()
}

func (e *permanentError) IsPermanent() bool {
	return true
}

func (e *permanentError) Unwrap() error {
	return e.err
}

func NewPermanentError(err error) PermanentError {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

type Policy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2.0,
	}
}

// Retry runs fn with exponential backoff until it succeeds, the policy is
// exhausted, or the context is cancelled. Errors implementing PermanentError
// stop the retry loop immediately.
func Retry(ctx context.Context, policy Policy, fn func() error) error {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 3
	}

	exp := backoff.NewExponentialBackOff()
	if policy.InitialInterval > 0 {
		exp.InitialInterval = policy.InitialInterval
	}
	if policy.MaxInterval > 0 {
		exp.MaxInterval = policy.MaxInterval
	}
	if policy.Multiplier > 0 {
		exp.Multiplier = policy.Multiplier
	}
	exp.MaxElapsedTime = 0

	var b backoff.BackOff = exp
	b = backoff.WithContext(b, ctx)
	b = backoff.WithMaxRetries(b, uint64(policy.MaxAttempts-1))

	operation := func() error {
		err := fn()
		if err == nil {
			return nil
		}

		var permErr PermanentError
		if errors.As(err, &permErr) {
			return backoff.Permanent(err)
		}

		return err
	}

	return backoff.Retry(operation, b)
}
