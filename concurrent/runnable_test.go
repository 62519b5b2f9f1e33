// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package concurrent

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// success returns a closure that simulates a successfully started task
func success(runCount *uint32) Runnable {
	return RunnableFunc(func(waitGroup *sync.WaitGroup, shutdown <-chan struct{}) error {
		atomic.AddUint32(runCount, 1)
		waitGroup.Add(1)

		// simulates some longrunning task ...
		go func() {
			defer waitGroup.Done()
			<-shutdown
		}()

		return nil
	})
}

// fail returns a closure that simulates a task that failed to start
func fail(runCount *uint32) Runnable {
	return RunnableFunc(func(waitGroup *sync.WaitGroup, shutdown <-chan struct{}) error {
		atomic.AddUint32(runCount, 1)
		return errors.New("expected error")
	})
}

func TestRunnableSetRun(t *testing.T) {
	var actualRunCount uint32
	success := success(&actualRunCount)
	fail := fail(&actualRunCount)

	var testData = []struct {
		runnable         RunnableSet
		expectedRunCount uint32
		expectErr        bool
	}{
		{nil, 0, false},
		{RunnableSet{}, 0, false},
		{RunnableSet{success}, 1, false},
		{RunnableSet{fail}, 1, true},
		{RunnableSet{success, success}, 2, false},
		{RunnableSet{success, fail, success}, 2, true},
		{RunnableSet{success, success, fail, success, success, fail}, 3, true},
		{RunnableSet{success, success, success, success, success}, 5, false},
	}

	for _, record := range testData {
		assert := assert.New(t)
		actualRunCount = 0
		waitGroup := &sync.WaitGroup{}
		shutdown := make(chan struct{})
		err := record.runnable.Run(waitGroup, shutdown)
		close(shutdown)

		assert.True(WaitTimeout(nil, waitGroup, 2*time.Second), "blocked on WaitGroup longer than the timeout")
		assert.Equal(record.expectedRunCount, atomic.LoadUint32(&actualRunCount))
		assert.Equal(record.expectErr, err != nil)
	}
}

func TestExecuteSuccess(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		actualRunCount uint32
	)

	waitGroup, shutdown, err := Execute(success(&actualRunCount))
	require.NoError(err)
	require.NotNil(waitGroup)
	require.NotNil(shutdown)
	assert.Equal(uint32(1), actualRunCount)

	close(shutdown)
	assert.True(WaitTimeout(nil, waitGroup, 2*time.Second))
}

func TestExecuteFail(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		actualRunCount uint32
	)

	waitGroup, shutdown, err := Execute(RunnableSet{success(&actualRunCount), fail(&actualRunCount)})
	assert.Error(err)
	require.NotNil(waitGroup)
	require.NotNil(shutdown)
	assert.Equal(uint32(2), actualRunCount)

	// a failed Execute has already signaled shutdown
	select {
	case <-shutdown:
	default:
		assert.Fail("shutdown should have been closed")
	}

	assert.True(WaitTimeout(nil, waitGroup, 2*time.Second))
}

func TestAwaitSuccess(t *testing.T) {
	var (
		assert = assert.New(t)

		testWaitGroup = &sync.WaitGroup{}
		ctx, cancel   = context.WithCancel(context.Background())
		result        = make(chan error, 1)
	)

	testWaitGroup.Add(1)
	runnable := RunnableFunc(func(waitGroup *sync.WaitGroup, shutdown <-chan struct{}) error {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			defer testWaitGroup.Done()
			<-shutdown
		}()

		return nil
	})

	go func() {
		result <- Await(ctx, runnable)
	}()

	// simulate a ctrl+c
	cancel()

	assert.True(WaitTimeout(nil, testWaitGroup, 2*time.Second))
	assert.NoError(<-result)
}

func TestAwaitFail(t *testing.T) {
	var (
		assert = assert.New(t)

		actualRunCount uint32
	)

	// a runnable that fails to start returns without waiting on the context
	err := Await(context.Background(), fail(&actualRunCount))
	assert.Error(err)
	assert.Equal(uint32(1), actualRunCount)
}
