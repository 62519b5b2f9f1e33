package debounce

import (
	"time"

	"github.com/segmentio/ksuid"
	"github.com/xmidt-org/debounce/clock"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

// Option represents a configurable option for a Debounced function
type Option func(*settings)

// settings is the non-generic configuration shared by all Debounced instantiations
type settings struct {
	maxWait         time.Duration
	hasMaxWait      bool
	leading         bool
	trailing        bool
	callImmediately bool
	maxCalls        int
	name            string
	clock           clock.Interface
	strategy        Strategy
	frames          Strategy
	logger          *zap.Logger
	measures        Measures
}

func newSettings(o []Option) *settings {
	s := &settings{
		trailing: true,
		clock:    clock.System(),
		measures: discardMeasures(),
	}

	for _, f := range o {
		f(s)
	}

	return s
}

// strategyFor selects the deferred execution strategy.  Frames only replace fixed delays when
// no wait was given.
func (s *settings) strategyFor(wait time.Duration) Strategy {
	switch {
	case s.frames != nil && wait == 0:
		return s.frames

	case s.strategy != nil:
		return s.strategy

	default:
		return TimerStrategy(s.clock)
	}
}

func (s *settings) namedLogger() *zap.Logger {
	name := s.name
	if len(name) == 0 {
		name = ksuid.New().String()
	}

	logger := s.logger
	if logger == nil {
		logger = sallust.Default()
	}

	return logger.With(zap.String(NameKey, name))
}

// NameKey is the logging key under which a Debounced function's name is recorded
const NameKey = "debouncer"

// WithLeading controls invocation on the leading edge of a burst.  The default is false.
func WithLeading(v bool) Option {
	return func(s *settings) {
		s.leading = v
	}
}

// WithTrailing controls invocation on the trailing edge of a burst.  The default is true.
func WithTrailing(v bool) Option {
	return func(s *settings) {
		s.trailing = v
	}
}

// WithMaxWait sets the longest a burst may postpone an invocation.  Values below the wait
// are raised to the wait, and a negative value is treated as zero.
func WithMaxWait(d time.Duration) Option {
	return func(s *settings) {
		if d < 0 {
			d = 0
		}

		s.maxWait = d
		s.hasMaxWait = true
	}
}

// WithCallImmediately requests one invocation, with zero-valued arguments, while the Debounced
// function is being constructed.
func WithCallImmediately(v bool) Option {
	return func(s *settings) {
		s.callImmediately = v
	}
}

// WithMaxCalls caps the number of real invocations until the next Cancel.  Calls past the cap
// return the last result without doing anything else.  A nonpositive value removes the cap.
func WithMaxCalls(n int) Option {
	return func(s *settings) {
		if n < 0 {
			n = 0
		}

		s.maxCalls = n
	}
}

// WithName sets the name used in log output.  By default, a random ksuid is used.
func WithName(n string) Option {
	return func(s *settings) {
		s.name = n
	}
}

// WithClock sets the clock used to read the current time.  If nil, the system clock is used.
// Unless WithStrategy is also supplied, deferred calls are scheduled on this clock as well.
func WithClock(c clock.Interface) Option {
	return func(s *settings) {
		if c != nil {
			s.clock = c
		} else {
			s.clock = clock.System()
		}
	}
}

// WithStrategy sets the deferred execution strategy.  If nil, the clock's AfterFunc is used.
func WithStrategy(st Strategy) Option {
	return func(s *settings) {
		s.strategy = st
	}
}

// WithFrames sets a frame-aligned strategy, such as a frame.Scheduler, that is used instead of
// fixed delays when the wait is zero.
func WithFrames(st Strategy) Option {
	return func(s *settings) {
		s.frames = st
	}
}

// WithLogger sets the zap logger.  If nil, sallust.Default() is used.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// WithMeasures sets the metrics.  Any nil metric in m is discarded.
func WithMeasures(m Measures) Option {
	return func(s *settings) {
		s.measures = m.withDefaults()
	}
}
