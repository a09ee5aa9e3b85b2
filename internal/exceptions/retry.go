package exceptions

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	DEFAULT_RETRY_ATTEMPTS   = 3
	DEFAULT_RETRY_BASE_DELAY = time.Second
)

type RetryOptions struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Notify      func(err error, wait time.Duration)
}

type RetryOption func(*RetryOptions)

func WithMaxAttempts(attempts int) RetryOption {
	return func(ro *RetryOptions) {
		ro.MaxAttempts = attempts
	}
}

func WithBaseDelay(delay time.Duration) RetryOption {
	return func(ro *RetryOptions) {
		ro.BaseDelay = delay
	}
}

func WithNotify(notify func(err error, wait time.Duration)) RetryOption {
	return func(ro *RetryOptions) {
		ro.Notify = notify
	}
}

// LinearBackOff waits Base*n after the n-th failed attempt.
type LinearBackOff struct {
	Base    time.Duration
	attempt int
}

func (lb *LinearBackOff) NextBackOff() time.Duration {
	lb.attempt++
	return lb.Base * time.Duration(lb.attempt)
}

func (lb *LinearBackOff) Reset() {
	lb.attempt = 0
}

// Retry invokes action until it succeeds, fails with anything other than a
// network failure, or runs out of attempts. The last error is returned as is.
func Retry[T interface{}](ctx context.Context, action func(context.Context) (T, error), opts ...RetryOption) (T, error) {
	options := RetryOptions{
		MaxAttempts: DEFAULT_RETRY_ATTEMPTS,
		BaseDelay:   DEFAULT_RETRY_BASE_DELAY,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.MaxAttempts < 1 {
		options.MaxAttempts = 1
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(&LinearBackOff{Base: options.BaseDelay}, uint64(options.MaxAttempts-1)),
		ctx,
	)
	operation := func() (T, error) {
		result, err := action(ctx)
		if err != nil && Classify(err) != KindNetworkUnavailable {
			return result, backoff.Permanent(err)
		}
		return result, err
	}
	return backoff.RetryNotifyWithData(operation, policy, options.Notify)
}
