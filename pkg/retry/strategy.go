package retry

import (
	"errors"
	"math/rand"
	"time"

	"github.com/code-payments/spl-token-go/pkg/retry/backoff"
)

// Strategy decides whether an action that failed with err after the given
// number of attempts should run again. Strategies may sleep.
type Strategy func(attempts uint, err error) bool

// Limit caps the total number of attempts, including the first.
func Limit(maxAttempts uint) Strategy {
	return func(attempts uint, _ error) bool {
		return attempts < maxAttempts
	}
}

// RetriableErrors only permits retries for errors matching one of the targets.
func RetriableErrors(retriable ...error) Strategy {
	return func(_ uint, err error) bool {
		for _, e := range retriable {
			if errors.Is(err, e) {
				return true
			}
		}
		return false
	}
}

// NonRetriableErrors stops retrying on errors matching one of the targets.
func NonRetriableErrors(nonRetriable ...error) Strategy {
	return func(_ uint, err error) bool {
		for _, e := range nonRetriable {
			if errors.Is(err, e) {
				return false
			}
		}
		return true
	}
}

// Backoff sleeps for the strategy's delay, capped at maxBackoff, before the
// next attempt.
func Backoff(strategy backoff.Strategy, maxBackoff time.Duration) Strategy {
	return func(attempts uint, _ error) bool {
		sleeperImpl.Sleep(capDelay(strategy(attempts), maxBackoff))
		return true
	}
}

// BackoffWithJitter is Backoff with the capped delay randomly shifted by up to
// +/- jitter (a fraction of the delay).
func BackoffWithJitter(strategy backoff.Strategy, maxBackoff time.Duration, jitter float64) Strategy {
	return func(attempts uint, _ error) bool {
		delay := capDelay(strategy(attempts), maxBackoff)
		factor := 1 + (rand.Float64()*2-1)*jitter
		sleeperImpl.Sleep(time.Duration(float64(delay) * factor))
		return true
	}
}

func capDelay(delay, max time.Duration) time.Duration {
	if delay > max {
		return max
	}
	return delay
}

type sleeper interface {
	Sleep(time.Duration)
}

type realSleeper struct{}

func (realSleeper) Sleep(d time.Duration) { time.Sleep(d) }

var sleeperImpl sleeper = realSleeper{}
