package clocktest

import (
	"sort"
	"sync"
	"time"

	"github.com/xmidt-org/debounce/clock"
)

// Fake is a manually driven clock.Interface.  Time only moves when Add, Set, or Sleep is called.
//
// Functions registered with AfterFunc run synchronously, in deadline order, on the goroutine that
// advances the clock.  Timers and tickers deliver on their channels without blocking, dropping
// a tick if the previous one was never received, exactly as the time package does.
type Fake struct {
	lock    sync.Mutex
	now     time.Time
	seq     uint64
	waiters []*fakeTimer
}

var _ clock.Interface = (*Fake)(nil)

// NewFake creates a Fake clock whose current time is start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (f *Fake) Now() time.Time {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.now
}

func (f *Fake) Since(t time.Time) time.Duration {
	return f.Now().Sub(t)
}

// Sleep advances this clock by d.  It does not block.
func (f *Fake) Sleep(d time.Duration) {
	f.Add(d)
}

func (f *Fake) NewTimer(d time.Duration) clock.Timer {
	t := &fakeTimer{fake: f, c: make(chan time.Time, 1)}
	f.schedule(t, d)
	return t
}

func (f *Fake) AfterFunc(d time.Duration, fn func()) clock.Timer {
	t := &fakeTimer{fake: f, fn: fn}
	f.schedule(t, d)
	return t
}

func (f *Fake) NewTicker(d time.Duration) clock.Ticker {
	if d <= 0 {
		panic("non-positive interval for NewTicker")
	}

	t := &fakeTimer{fake: f, c: make(chan time.Time, 1), period: d}
	f.schedule(t, d)
	return fakeTicker{t}
}

// Pending returns the number of timers, tickers, and deferred functions waiting to fire.
func (f *Fake) Pending() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return len(f.waiters)
}

// Add moves this clock forward by d, firing everything that comes due along the way.
// Deferred functions may schedule further work, which also fires if it falls within d.
func (f *Fake) Add(d time.Duration) {
	f.lock.Lock()
	target := f.now.Add(d)
	f.lock.Unlock()

	f.advanceTo(target)
}

// Set moves this clock to t.  If t is in the past, the clock moves backward and nothing fires.
func (f *Fake) Set(t time.Time) {
	f.lock.Lock()
	if t.Before(f.now) {
		f.now = t
		f.lock.Unlock()
		return
	}

	f.lock.Unlock()
	f.advanceTo(t)
}

func (f *Fake) advanceTo(target time.Time) {
	for {
		f.lock.Lock()
		next := f.nextDue(target)
		if next == nil {
			f.now = target
			f.lock.Unlock()
			return
		}

		if next.when.After(f.now) {
			f.now = next.when
		}

		fired := f.now
		if next.period > 0 {
			next.when = next.when.Add(next.period)
			f.sortWaiters()
		} else {
			f.remove(next)
		}

		fn, c := next.fn, next.c
		f.lock.Unlock()

		if fn != nil {
			fn()
		} else {
			select {
			case c <- fired:
			default:
			}
		}
	}
}

// nextDue returns the earliest waiter due at or before target.  The lock must be held.
func (f *Fake) nextDue(target time.Time) *fakeTimer {
	if len(f.waiters) > 0 && !f.waiters[0].when.After(target) {
		return f.waiters[0]
	}

	return nil
}

func (f *Fake) schedule(t *fakeTimer, d time.Duration) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.scheduleLocked(t, d)
}

func (f *Fake) scheduleLocked(t *fakeTimer, d time.Duration) {
	if d < 0 {
		d = 0
	}

	f.seq++
	t.seq = f.seq
	t.when = f.now.Add(d)
	f.waiters = append(f.waiters, t)
	f.sortWaiters()
}

func (f *Fake) sortWaiters() {
	sort.SliceStable(f.waiters, func(i, j int) bool {
		if f.waiters[i].when.Equal(f.waiters[j].when) {
			return f.waiters[i].seq < f.waiters[j].seq
		}

		return f.waiters[i].when.Before(f.waiters[j].when)
	})
}

// remove drops t from the waiters, returning true if it was present.  The lock must be held.
func (f *Fake) remove(t *fakeTimer) bool {
	for i, w := range f.waiters {
		if w == t {
			f.waiters = append(f.waiters[:i], f.waiters[i+1:]...)
			return true
		}
	}

	return false
}

type fakeTimer struct {
	fake   *Fake
	seq    uint64
	when   time.Time
	period time.Duration
	fn     func()
	c      chan time.Time
}

func (t *fakeTimer) C() <-chan time.Time {
	return t.c
}

func (t *fakeTimer) Stop() bool {
	t.fake.lock.Lock()
	defer t.fake.lock.Unlock()
	return t.fake.remove(t)
}

func (t *fakeTimer) Reset(d time.Duration) bool {
	t.fake.lock.Lock()
	defer t.fake.lock.Unlock()
	active := t.fake.remove(t)
	t.fake.scheduleLocked(t, d)
	return active
}

type fakeTicker struct {
	t *fakeTimer
}

func (ft fakeTicker) C() <-chan time.Time {
	return ft.t.c
}

func (ft fakeTicker) Reset(d time.Duration) {
	if d <= 0 {
		panic("non-positive interval for Ticker.Reset")
	}

	ft.t.fake.lock.Lock()
	defer ft.t.fake.lock.Unlock()
	ft.t.fake.remove(ft.t)
	ft.t.period = d
	ft.t.fake.scheduleLocked(ft.t, d)
}

func (ft fakeTicker) Stop() {
	ft.t.Stop()
}
