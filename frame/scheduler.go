package frame

import (
	"errors"
	"sync"
	"time"

	"github.com/xmidt-org/debounce/clock"
	"github.com/xmidt-org/debounce/concurrent"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

// DefaultInterval approximates a 60Hz refresh
const DefaultInterval = 16 * time.Millisecond

// ErrRunning is returned by Run when the Scheduler already has a frame goroutine
var ErrRunning = errors.New("the frame scheduler is already running")

// Option represents a configurable option for a Scheduler
type Option func(*Scheduler)

// WithInterval sets the frame interval.  Nonpositive values select DefaultInterval.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		} else {
			s.interval = DefaultInterval
		}
	}
}

// WithClock sets the clock that drives frames.  If nil, the system clock is used.
func WithClock(c clock.Interface) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		} else {
			s.clock = clock.System()
		}
	}
}

// WithLogger sets the zap logger.  If nil, sallust.Default() is used.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		} else {
			s.logger = sallust.Default()
		}
	}
}

// Scheduler batches callbacks and runs them once per frame
type Scheduler struct {
	lock     sync.Mutex
	interval time.Duration
	clock    clock.Interface
	logger   *zap.Logger
	queue    []*request
	running  bool
}

var _ concurrent.Runnable = (*Scheduler)(nil)

// New creates a stopped Scheduler
func New(o ...Option) *Scheduler {
	s := &Scheduler{
		interval: DefaultInterval,
		clock:    clock.System(),
		logger:   sallust.Default(),
	}

	for _, f := range o {
		f(s)
	}

	return s
}

// request is a single callback waiting for a frame.  It is its own Stopper.
type request struct {
	s      *Scheduler
	f      func()
	queued bool
}

func (r *request) Stop() bool {
	r.s.lock.Lock()
	defer r.s.lock.Unlock()

	if !r.queued {
		return false
	}

	r.queued = false
	for i, q := range r.s.queue {
		if q == r {
			r.s.queue = append(r.s.queue[:i], r.s.queue[i+1:]...)
			break
		}
	}

	return true
}

// Schedule queues f for the next frame.  The delay is ignored, since frames replace fixed delays.
// This method satisfies debounce.Strategy.
func (s *Scheduler) Schedule(_ time.Duration, f func()) clock.Stopper {
	r := &request{s: s, f: f, queued: true}

	s.lock.Lock()
	s.queue = append(s.queue, r)
	s.lock.Unlock()

	return r
}

// Len returns the number of callbacks waiting for a frame
func (s *Scheduler) Len() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.queue)
}

// Frame runs every callback queued before this method was called.  Callbacks queued by those
// callbacks wait for the next frame.  This method returns the number of callbacks run.
func (s *Scheduler) Frame() int {
	s.lock.Lock()
	batch := s.queue
	s.queue = nil
	for _, r := range batch {
		r.queued = false
	}

	s.lock.Unlock()

	for _, r := range batch {
		s.run(r)
	}

	return len(batch)
}

func (s *Scheduler) run(r *request) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("frame callback panicked", zap.Any("panic", p))
		}
	}()

	r.f()
}

// Run starts the frame goroutine, which exits when shutdown is closed.
func (s *Scheduler) Run(waitGroup *sync.WaitGroup, shutdown <-chan struct{}) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.running {
		return ErrRunning
	}

	s.running = true
	ticker := s.clock.NewTicker(s.interval)
	waitGroup.Add(1)
	go s.loop(waitGroup, shutdown, ticker)

	s.logger.Debug("frame scheduler started", zap.Duration("interval", s.interval))
	return nil
}

func (s *Scheduler) loop(waitGroup *sync.WaitGroup, shutdown <-chan struct{}, ticker clock.Ticker) {
	defer waitGroup.Done()
	defer ticker.Stop()
	defer func() {
		s.lock.Lock()
		s.running = false
		s.lock.Unlock()
		s.logger.Debug("frame scheduler stopped")
	}()

	for {
		select {
		case <-shutdown:
			return

		case <-ticker.C():
			s.Frame()
		}
	}
}
