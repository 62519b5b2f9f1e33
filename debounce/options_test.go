package debounce

import (
	"testing"
	"time"

	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/generic"
	"github.com/stretchr/testify/assert"
	"github.com/xmidt-org/debounce/clock"
	"github.com/xmidt-org/debounce/clock/clocktest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func testSettingsDefault(t *testing.T) {
	var (
		assert = assert.New(t)
		s      = newSettings(nil)
	)

	assert.False(s.leading)
	assert.True(s.trailing)
	assert.False(s.hasMaxWait)
	assert.False(s.callImmediately)
	assert.Zero(s.maxCalls)
	assert.Equal(clock.System(), s.clock)
	assert.Nil(s.strategy)
	assert.Nil(s.frames)
	assert.Nil(s.logger)
	assert.Equal(discard.NewCounter(), s.measures.Calls)
	assert.Equal(discard.NewGauge(), s.measures.Armed)
	assert.NotNil(s.namedLogger())
}

func testSettingsCustom(t *testing.T) {
	var (
		assert = assert.New(t)
		fake   = clocktest.NewFake(epoch)
		logger = zaptest.NewLogger(t)
		calls  = generic.NewCounter("calls")

		s = newSettings([]Option{
			WithLeading(true),
			WithTrailing(false),
			WithMaxWait(time.Minute),
			WithCallImmediately(true),
			WithMaxCalls(5),
			WithName("test"),
			WithClock(fake),
			WithLogger(logger),
			WithMeasures(Measures{Calls: calls}),
		})
	)

	assert.True(s.leading)
	assert.False(s.trailing)
	assert.True(s.hasMaxWait)
	assert.Equal(time.Minute, s.maxWait)
	assert.True(s.callImmediately)
	assert.Equal(5, s.maxCalls)
	assert.Equal("test", s.name)
	assert.Equal(fake, s.clock)
	assert.Equal(logger, s.logger)
	assert.Equal(calls, s.measures.Calls)
	assert.Equal(discard.NewCounter(), s.measures.Invocations)
}

func testSettingsNormalized(t *testing.T) {
	var (
		assert = assert.New(t)
		s      = newSettings([]Option{
			WithMaxWait(-time.Second),
			WithMaxCalls(-3),
			WithClock(nil),
		})
	)

	assert.True(s.hasMaxWait)
	assert.Zero(s.maxWait)
	assert.Zero(s.maxCalls)
	assert.Equal(clock.System(), s.clock)
}

func TestSettings(t *testing.T) {
	t.Run("Default", testSettingsDefault)
	t.Run("Custom", testSettingsCustom)
	t.Run("Normalized", testSettingsNormalized)
}

func TestStrategyFor(t *testing.T) {
	var (
		fake     = clocktest.NewFake(epoch)
		explicit = new(manualStrategy)
		frames   = &manualStrategy{timers: []*manualTimer{{d: time.Second}}}
	)

	testData := []struct {
		name     string
		options  []Option
		wait     time.Duration
		expected Strategy
	}{
		{
			name:     "Default",
			expected: TimerStrategy(nil),
		},
		{
			name:     "Clock",
			options:  []Option{WithClock(fake)},
			wait:     time.Second,
			expected: TimerStrategy(fake),
		},
		{
			name:     "Explicit",
			options:  []Option{WithClock(fake), WithStrategy(explicit)},
			wait:     time.Second,
			expected: explicit,
		},
		{
			name:     "FramesWithZeroWait",
			options:  []Option{WithStrategy(explicit), WithFrames(frames)},
			expected: frames,
		},
		{
			name:     "FramesWithWait",
			options:  []Option{WithStrategy(explicit), WithFrames(frames)},
			wait:     time.Millisecond,
			expected: explicit,
		},
	}

	for _, record := range testData {
		t.Run(record.name, func(t *testing.T) {
			s := newSettings(record.options)
			assert.Equal(t, record.expected, s.strategyFor(record.wait))
		})
	}
}

func TestNamedLogger(t *testing.T) {
	var (
		assert = assert.New(t)
		logger = zap.NewExample()
	)

	named := newSettings([]Option{WithName("test"), WithLogger(logger)}).namedLogger()
	assert.NotNil(named)
	assert.NotEqual(logger, named)

	assert.NotNil(newSettings([]Option{WithLogger(nil)}).namedLogger())
}
