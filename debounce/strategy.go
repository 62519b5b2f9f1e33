package debounce

import (
	"time"

	"github.com/xmidt-org/debounce/clock"
)

// Strategy is the deferred execution primitive used by a Debounced function.  Schedule must arrange
// for f to run on another goroutine after roughly d has elapsed, and must never run f before returning.
// Stopping the returned handle prevents f from running if it has not started.
type Strategy interface {
	Schedule(d time.Duration, f func()) clock.Stopper
}

// StrategyFunc is a function type that implements Strategy
type StrategyFunc func(time.Duration, func()) clock.Stopper

func (sf StrategyFunc) Schedule(d time.Duration, f func()) clock.Stopper {
	return sf(d, f)
}

type timerStrategy struct {
	c clock.Interface
}

func (ts timerStrategy) Schedule(d time.Duration, f func()) clock.Stopper {
	return ts.c.AfterFunc(d, f)
}

// TimerStrategy returns the fixed-delay Strategy backed by the given clock's AfterFunc.
// If c is nil, the system clock is used.
func TimerStrategy(c clock.Interface) Strategy {
	if c == nil {
		c = clock.System()
	}

	return timerStrategy{c: c}
}
