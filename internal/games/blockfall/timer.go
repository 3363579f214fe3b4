package blockfall

import "time"

// dropTimer converts the platform frame rate into engine ticks.
// It fires once every `every` frames while running; a stopped timer never fires.
type dropTimer struct {
	every     int
	remaining int
	stopped   bool
}

// newDropTimer creates a running timer that fires once per interval at the given frame rate.
func newDropTimer(interval time.Duration, tickRate int) dropTimer {
	t := dropTimer{every: framesPer(interval, tickRate)}
	t.Restart()
	return t
}

// framesPer returns how many frames make up one interval, at least one.
func framesPer(interval time.Duration, tickRate int) int {
	if tickRate <= 0 || interval <= 0 {
		return 1
	}
	frames := (interval*time.Duration(tickRate) + time.Second/2) / time.Second
	return max(int(frames), 1)
}

// Advance counts one frame and reports whether the engine should tick.
func (t *dropTimer) Advance() bool {
	if t.stopped {
		return false
	}
	t.remaining--
	if t.remaining > 0 {
		return false
	}
	t.remaining = t.every
	return true
}

// Stop prevents any further firing until Restart.
func (t *dropTimer) Stop() {
	t.stopped = true
}

// Restart installs a fresh countdown and resumes firing.
func (t *dropTimer) Restart() {
	t.remaining = t.every
	t.stopped = false
}

// Running reports whether the timer will fire.
func (t *dropTimer) Running() bool {
	return !t.stopped
}
