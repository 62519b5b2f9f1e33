package concurrent

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xmidt-org/debounce/clock/clocktest"
)

func TestWaitTimeoutSuccess(t *testing.T) {
	var (
		assert    = assert.New(t)
		waitGroup = &sync.WaitGroup{}
	)

	waitGroup.Add(1)
	go func() {
		time.Sleep(10 * time.Millisecond)
		waitGroup.Done()
	}()

	assert.True(WaitTimeout(nil, waitGroup, 5*time.Second))
}

func TestWaitTimeoutFail(t *testing.T) {
	var (
		assert    = assert.New(t)
		waitGroup = &sync.WaitGroup{}
		timerC    = make(chan time.Time, 1)
		timer     = new(clocktest.MockTimer)
		c         = new(clocktest.Mock)
	)

	waitGroup.Add(1)
	defer waitGroup.Done()

	c.OnNewTimer(time.Minute, timer).Once()
	timer.OnC(timerC).Once()
	timer.OnStop(true).Once()

	// the timeout has already elapsed
	timerC <- time.Now()
	assert.False(WaitTimeout(c, waitGroup, time.Minute))

	c.AssertExpectations(t)
	timer.AssertExpectations(t)
}
