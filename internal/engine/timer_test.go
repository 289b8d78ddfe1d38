package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimer_RejectsNonPositiveDuration(t *testing.T) {
	for _, seconds := range []int{0, -1, -60} {
		_, err := NewTimer(seconds)
		assert.ErrorIs(t, err, ErrTimerInvalidDuration, "seconds=%d", seconds)
	}
}

func TestTimer_CountsDownMonotonically(t *testing.T) {
	timer, err := NewTimer(10)
	require.NoError(t, err)

	prev := timer.Remaining()
	for i := 0; i < 5; i++ {
		timer.Tick()
		assert.Equal(t, prev-1, timer.Remaining())
		prev = timer.Remaining()
	}
}

func TestTimer_PauseHoldsRemaining(t *testing.T) {
	timer, err := NewTimer(10)
	require.NoError(t, err)

	timer.Tick()
	timer.Pause()

	for i := 0; i < 5; i++ {
		assert.False(t, timer.Tick())
	}
	assert.Equal(t, 9, timer.Remaining())

	timer.Resume()
	timer.Tick()
	assert.Equal(t, 8, timer.Remaining())
}

func TestTimer_ExpiresExactlyOnce(t *testing.T) {
	timer, err := NewTimer(3)
	require.NoError(t, err)

	expiries := 0
	for i := 0; i < 10; i++ {
		if timer.Tick() {
			expiries++
		}
	}

	assert.Equal(t, 1, expiries)
	assert.Equal(t, 0, timer.Remaining())
	assert.True(t, timer.Stopped())
}

func TestTimer_StopSuppressesExpiry(t *testing.T) {
	timer, err := NewTimer(2)
	require.NoError(t, err)

	timer.Tick()
	timer.Stop()

	for i := 0; i < 5; i++ {
		assert.False(t, timer.Tick())
	}
	assert.Equal(t, 1, timer.Remaining())
}

func TestTimer_NeverGoesNegative(t *testing.T) {
	timer, err := NewTimer(1)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		timer.Tick()
	}
	assert.Equal(t, 0, timer.Remaining())
}

func TestTimer_Warning(t *testing.T) {
	timer, err := NewTimer(62)
	require.NoError(t, err)

	assert.False(t, timer.Warning())
	timer.Tick()
	assert.False(t, timer.Warning())
	timer.Tick() // 60 remaining
	assert.True(t, timer.Warning())
}
