package capacitor

import (
	"context"
	"time"

	"github.com/xmidt-org/debounce/clock"
	"github.com/xmidt-org/debounce/debounce"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

// DefaultDelay is the delay used when none is configured
const DefaultDelay = time.Second

type Interface interface {
	// Submit replaces the pending function with v and restarts the delay
	Submit(v func())

	// Discharge runs the pending function now, if there is one
	Discharge()

	// Cancel discards the pending function
	Cancel()

	// Pending tests if a function is waiting to be discharged
	Pending() bool
}

// Option represents a configurable option for a capacitor
type Option func(*capacitor)

// WithDelay sets the quiet period after the last Submit before discharging.  Nonpositive
// values select DefaultDelay.
func WithDelay(d time.Duration) Option {
	return func(c *capacitor) {
		if d > 0 {
			c.delay = d
		} else {
			c.delay = DefaultDelay
		}
	}
}

// WithMaxDelay sets the longest a discharge can be postponed by repeated submissions.
// Nonpositive values remove the bound.
func WithMaxDelay(d time.Duration) Option {
	return func(c *capacitor) {
		if d > 0 {
			c.maxDelay = d
		} else {
			c.maxDelay = 0
		}
	}
}

// WithClock sets the clock.  If nil, the system clock is used.
func WithClock(cl clock.Interface) Option {
	return func(c *capacitor) {
		if cl != nil {
			c.c = cl
		} else {
			c.c = clock.System()
		}
	}
}

// WithLogger sets the zap logger used to report panics from discharged functions.
// If nil, sallust.Default() is used.
func WithLogger(l *zap.Logger) Option {
	return func(c *capacitor) {
		if l != nil {
			c.logger = l
		} else {
			c.logger = sallust.Default()
		}
	}
}

// New creates a capacitor from a set of options
func New(o ...Option) Interface {
	c := &capacitor{
		delay:  DefaultDelay,
		c:      clock.System(),
		logger: sallust.Default(),
	}

	for _, f := range o {
		f(c)
	}

	options := []debounce.Option{
		debounce.WithClock(c.c),
		debounce.WithLogger(c.logger),
		debounce.WithName("capacitor"),
	}

	if c.maxDelay > 0 {
		options = append(options, debounce.WithMaxWait(c.maxDelay))
	}

	// discharge is never nil, so construction cannot fail
	c.d, _ = debounce.New(discharge, c.delay, options...)
	return c
}

// discharge is the debounced target.  The argument is the most recently submitted function.
func discharge(_ context.Context, f func()) (struct{}, error) {
	if f != nil {
		f()
	}

	return struct{}{}, nil
}

type capacitor struct {
	delay    time.Duration
	maxDelay time.Duration
	c        clock.Interface
	logger   *zap.Logger
	d        *debounce.Debounced[func(), struct{}]
}

func (c *capacitor) Submit(v func()) {
	c.d.Call(v)
}

func (c *capacitor) Discharge() {
	c.d.Flush()
}

func (c *capacitor) Cancel() {
	c.d.Cancel()
}

func (c *capacitor) Pending() bool {
	return c.d.Pending()
}
