package debounce

import (
	"context"
	"sync"
	"time"

	"github.com/xmidt-org/debounce/clock"
)

var epoch = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// manualStrategy holds deferred calls until the test fires them.  This models a caller that
// keeps calling faster than any timer goroutine gets scheduled.
type manualStrategy struct {
	lock   sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	s       *manualStrategy
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

var _ Strategy = (*manualStrategy)(nil)

func (ms *manualStrategy) Schedule(d time.Duration, f func()) clock.Stopper {
	ms.lock.Lock()
	defer ms.lock.Unlock()

	t := &manualTimer{s: ms, d: d, f: f}
	ms.timers = append(ms.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.s.lock.Lock()
	defer t.s.lock.Unlock()

	if t.stopped || t.fired {
		return false
	}

	t.stopped = true
	return true
}

// live returns the timers that have neither fired nor been stopped
func (ms *manualStrategy) live() []*manualTimer {
	ms.lock.Lock()
	defer ms.lock.Unlock()

	var live []*manualTimer
	for _, t := range ms.timers {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}

	return live
}

// fire runs every live timer, returning how many ran
func (ms *manualStrategy) fire() int {
	live := ms.live()
	for _, t := range live {
		ms.lock.Lock()
		t.fired = true
		ms.lock.Unlock()

		t.f()
	}

	return len(live)
}

// last returns the most recently scheduled timer
func (ms *manualStrategy) last() *manualTimer {
	ms.lock.Lock()
	defer ms.lock.Unlock()

	if len(ms.timers) == 0 {
		return nil
	}

	return ms.timers[len(ms.timers)-1]
}

// counter wraps an identity function and counts invocations
type counter struct {
	lock  sync.Mutex
	count int
	args  []string
	ctxs  []context.Context
}

func (c *counter) identity(ctx context.Context, v string) (string, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.count++
	c.args = append(c.args, v)
	c.ctxs = append(c.ctxs, ctx)
	return v, nil
}

func (c *counter) Count() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.count
}
