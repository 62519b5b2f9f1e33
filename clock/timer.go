package clock

import "time"

// Stopper is the minimal handle to something scheduled for later, such as a deferred function call.
// Stop returns true if the call stopped the scheduled work, false if it had already run or been stopped.
type Stopper interface {
	Stop() bool
}

// Timer represents an event source triggered at a particular time.  It is the analog of time.Timer.
type Timer interface {
	Stopper
	C() <-chan time.Time
	Reset(time.Duration) bool
}

type systemTimer struct {
	*time.Timer
}

func (st systemTimer) C() <-chan time.Time {
	return st.Timer.C
}

// WrapTimer wraps a time.Timer in a clock.Timer.  A typical usage would be
// WrapTimer(time.NewTimer(time.Second)).
func WrapTimer(t *time.Timer) Timer {
	return systemTimer{t}
}

// StopperFunc adapts a plain function to the Stopper interface.
type StopperFunc func() bool

func (sf StopperFunc) Stop() bool {
	return sf()
}
