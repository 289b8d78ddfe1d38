package engine

// Timer is a cooperative countdown. It holds no goroutines and never reads
// the wall clock: the owner delivers ticks at its own cadence (one per
// second in production, manually in tests) and the timer only counts.
//
// Expiry is reported exactly once. After it fires, or after Stop, the timer
// is terminal and further ticks are no-ops.
type Timer struct {
	remaining int
	paused    bool
	stopped   bool
}

// timeWarningSeconds is the threshold below which the remaining time is
// flagged for the rendering layer.
const timeWarningSeconds = 60

func NewTimer(totalSeconds int) (*Timer, error) {
	if totalSeconds <= 0 {
		return nil, ErrTimerInvalidDuration
	}
	return &Timer{remaining: totalSeconds}, nil
}

// Tick decrements the countdown by one second. It returns true exactly once,
// on the tick that reaches zero. Paused or stopped timers ignore ticks.
func (t *Timer) Tick() (expired bool) {
	if t.paused || t.stopped {
		return false
	}

	t.remaining--
	if t.remaining <= 0 {
		t.remaining = 0
		t.stopped = true
		return true
	}
	return false
}

func (t *Timer) Pause() {
	if !t.stopped {
		t.paused = true
	}
}

// Resume re-arms the countdown without resetting the remaining time.
func (t *Timer) Resume() {
	t.paused = false
}

// Stop cancels the countdown unconditionally. A stopped timer never reports
// expiry; manual submission uses this to suppress the timeout path.
func (t *Timer) Stop() {
	t.stopped = true
}

func (t *Timer) Remaining() int {
	return t.remaining
}

func (t *Timer) Paused() bool {
	return t.paused
}

func (t *Timer) Stopped() bool {
	return t.stopped
}

// Warning reports whether the remaining time is at or below the visual
// warning threshold.
func (t *Timer) Warning() bool {
	return t.remaining <= timeWarningSeconds
}
