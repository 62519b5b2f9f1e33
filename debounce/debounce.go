package debounce

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xmidt-org/debounce/clock"
	"go.uber.org/zap"
)

// Func is the target of a Debounced function.  The context carries whatever the caller bound
// to the call that is eventually serviced.
type Func[A, R any] func(ctx context.Context, args A) (R, error)

// Stats is a point-in-time snapshot of a Debounced function's bookkeeping
type Stats struct {
	// Invocations is the number of real invocations since construction or the last Cancel
	Invocations int

	// Pending indicates whether a timer is outstanding
	Pending bool

	// LastCall is the time of the most recent call attempt, or the zero time if there is none
	LastCall time.Time

	// LastInvoke is the time of the most recent invocation, or the zero time if there is none
	LastInvoke time.Time
}

// Debounced is a rate-limited wrapper around a Func.  All methods are safe for concurrent use.
//
// The wrapped Func runs while the Debounced function's lock is held, so it must not call back
// into the same Debounced function.
type Debounced[A, R any] struct {
	lock sync.Mutex

	fn         Func[A, R]
	wait       time.Duration
	maxWait    time.Duration
	hasMaxWait bool
	leading    bool
	trailing   bool
	maxCalls   int
	clock      clock.Interface
	strategy   Strategy
	logger     *zap.Logger
	measures   Measures

	pendingArgs A
	pendingCtx  context.Context
	hasPending  bool

	lastResult     R
	lastCallTime   time.Time
	called         bool
	lastInvokeTime time.Time
	invokeCount    int

	timer      clock.Stopper
	generation uint64
}

// New wraps fn so that bursts of calls closer together than wait collapse into one invocation.
// A negative wait is treated as zero.  A nil fn yields an error wrapping ErrInvalidArgument.
//
// If WithCallImmediately is set, fn is invoked before New returns and any error it produces
// is returned instead of a Debounced function.
func New[A, R any](fn Func[A, R], wait time.Duration, o ...Option) (*Debounced[A, R], error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: a function is required", ErrInvalidArgument)
	}

	if wait < 0 {
		wait = 0
	}

	s := newSettings(o)
	d := &Debounced[A, R]{
		fn:         fn,
		wait:       wait,
		maxWait:    s.maxWait,
		hasMaxWait: s.hasMaxWait,
		leading:    s.leading,
		trailing:   s.trailing,
		maxCalls:   s.maxCalls,
		clock:      s.clock,
		strategy:   s.strategyFor(wait),
		logger:     s.namedLogger(),
		measures:   s.measures,
	}

	if d.hasMaxWait && d.maxWait < wait {
		d.maxWait = wait
	}

	if s.callImmediately {
		d.lock.Lock()
		_, err := d.invoke(d.clock.Now(), false)
		d.lock.Unlock()

		if err != nil {
			return nil, err
		}
	}

	return d, nil
}

// NewFunc is a convenience for debouncing a function that takes no arguments and returns nothing.
func NewFunc(fn func(), wait time.Duration, o ...Option) (*Debounced[struct{}, struct{}], error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: a function is required", ErrInvalidArgument)
	}

	return New(
		func(context.Context, struct{}) (struct{}, error) {
			fn()
			return struct{}{}, nil
		},
		wait,
		o...,
	)
}

// Call attempts to invoke the wrapped function with args.  It is equivalent to CallContext
// with context.Background().
func (d *Debounced[A, R]) Call(args A) (R, error) {
	return d.CallContext(context.Background(), args)
}

// CallContext attempts to invoke the wrapped function with args, binding ctx to the attempt.
// If this attempt triggers a real invocation, its result and error are returned.  Otherwise,
// the result of the most recent invocation is returned with a nil error.
//
// When the attempt is serviced later, on a trailing edge, ctx is passed without its
// cancellation so that values survive the caller's return.
func (d *Debounced[A, R]) CallContext(ctx context.Context, args A) (R, error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.measures.Calls.Add(1.0)
	if d.maxCalls > 0 && d.invokeCount >= d.maxCalls {
		d.measures.Rejected.Add(1.0)
		return d.lastResult, nil
	}

	if ctx == nil {
		ctx = context.Background()
	}

	now := d.clock.Now()
	invoking := d.shouldInvoke(now)

	d.pendingArgs = args
	d.pendingCtx = ctx
	d.hasPending = true
	d.lastCallTime = now
	d.called = true

	if invoking {
		if d.timer == nil {
			return d.leadingEdge(now)
		}

		if d.hasMaxWait {
			d.startTimer(d.wait)
			return d.invoke(now, false)
		}
	}

	if d.timer == nil {
		d.startTimer(d.wait)
	}

	return d.lastResult, nil
}

// Cancel stops any outstanding timer and discards the pending call.  Invocation bookkeeping,
// including the count used by WithMaxCalls, starts over.  The last result is retained.
func (d *Debounced[A, R]) Cancel() {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.stopTimer()
	d.clearPending()
	d.lastCallTime = time.Time{}
	d.called = false
	d.lastInvokeTime = time.Time{}
	d.invokeCount = 0
}

// Flush immediately services the pending call, if any, as though the timer had fired.
// When no timer is outstanding, the last result is returned and nothing happens.
func (d *Debounced[A, R]) Flush() (R, error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.timer == nil {
		return d.lastResult, nil
	}

	d.timer.Stop()
	return d.trailingEdge(d.clock.Now())
}

// Pending tests if a timer is outstanding
func (d *Debounced[A, R]) Pending() bool {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.timer != nil
}

// Stats returns a snapshot of this function's bookkeeping
func (d *Debounced[A, R]) Stats() Stats {
	d.lock.Lock()
	defer d.lock.Unlock()

	return Stats{
		Invocations: d.invokeCount,
		Pending:     d.timer != nil,
		LastCall:    d.lastCallTime,
		LastInvoke:  d.lastInvokeTime,
	}
}

func (d *Debounced[A, R]) shouldInvoke(now time.Time) bool {
	if !d.called {
		return true
	}

	var (
		sinceCall   = now.Sub(d.lastCallTime)
		sinceInvoke = now.Sub(d.lastInvokeTime)
	)

	// a negative interval means the clock moved backward
	return sinceCall >= d.wait || sinceCall < 0 || (d.hasMaxWait && sinceInvoke >= d.maxWait)
}

func (d *Debounced[A, R]) remainingWait(now time.Time) time.Duration {
	if !d.called {
		return 0
	}

	var (
		sinceCall   = now.Sub(d.lastCallTime)
		sinceInvoke = now.Sub(d.lastInvokeTime)
		remaining   = d.wait - sinceCall
	)

	if d.hasMaxWait {
		if untilMax := d.maxWait - sinceInvoke; untilMax < remaining {
			return untilMax
		}
	}

	return remaining
}

func (d *Debounced[A, R]) leadingEdge(now time.Time) (R, error) {
	d.lastInvokeTime = now
	d.startTimer(d.wait)
	if d.leading {
		return d.invoke(now, false)
	}

	return d.lastResult, nil
}

func (d *Debounced[A, R]) trailingEdge(now time.Time) (R, error) {
	d.clearTimer()
	if d.trailing && d.hasPending {
		return d.invoke(now, true)
	}

	d.clearPending()
	return d.lastResult, nil
}

// invoke is the single place where the wrapped function runs.  Bookkeeping happens before the call
// so that a failing or panicking function leaves this instance consistent.
func (d *Debounced[A, R]) invoke(now time.Time, detach bool) (R, error) {
	args, ctx := d.pendingArgs, d.pendingCtx
	d.clearPending()

	if ctx == nil {
		ctx = context.Background()
	} else if detach {
		ctx = context.WithoutCancel(ctx)
	}

	d.lastInvokeTime = now
	d.invokeCount++
	d.measures.Invocations.Add(1.0)

	result, err := d.fn(ctx, args)
	if err != nil {
		d.measures.Errors.Add(1.0)
		return result, err
	}

	d.lastResult = result
	return result, nil
}

func (d *Debounced[A, R]) timerExpired(generation uint64) {
	d.lock.Lock()
	defer d.lock.Unlock()

	// a Cancel, Flush, or rearm got here first
	if d.timer == nil || generation != d.generation {
		return
	}

	now := d.clock.Now()
	if d.shouldInvoke(now) {
		d.fire(now)
		return
	}

	d.startTimer(d.remainingWait(now))
}

// fire runs a trailing edge on the strategy's goroutine, where there is no caller to report to
func (d *Debounced[A, R]) fire(now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			d.measures.Errors.Add(1.0)
			d.logger.Error("debounced function panicked", zap.Any("panic", r))
		}
	}()

	if _, err := d.trailingEdge(now); err != nil {
		d.logger.Error("trailing invocation failed", zap.Error(err))
	}
}

func (d *Debounced[A, R]) startTimer(wait time.Duration) {
	if d.timer != nil {
		d.timer.Stop()
	} else {
		d.measures.Armed.Add(1.0)
	}

	d.generation++
	generation := d.generation
	d.timer = d.strategy.Schedule(wait, func() {
		d.timerExpired(generation)
	})
}

func (d *Debounced[A, R]) stopTimer() {
	if d.timer != nil {
		d.timer.Stop()
		d.clearTimer()
	}
}

func (d *Debounced[A, R]) clearTimer() {
	if d.timer != nil {
		d.timer = nil
		d.measures.Armed.Add(-1.0)
	}
}

func (d *Debounced[A, R]) clearPending() {
	var zero A
	d.pendingArgs = zero
	d.pendingCtx = nil
	d.hasPending = false
}
