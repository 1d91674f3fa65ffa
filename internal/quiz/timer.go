package quiz

import (
	"fmt"
	"sync"
	"time"
)

type TimerState string

const (
	TimerNotStarted TimerState = "not_started"
	TimerInProgress TimerState = "in_progress"
	TimerFinished   TimerState = "finished"
	TimerExpired    TimerState = "expired"
)

// Timer is the quiz countdown: not_started -> in_progress -> finished or
// expired. Reaching zero stops the countdown and fires the expiry callback
// exactly once; finishing the quiz early stops it without firing. The timer
// knows nothing about questions — it only exposes state and remaining time,
// and the hosting layer rejects answers once Expired reports true.
type Timer struct {
	mu        sync.Mutex
	limit     int
	remaining int
	state     TimerState
	onExpire  func()

	stop chan struct{}
}

func NewTimer(limitSeconds int, onExpire func()) *Timer {
	return &Timer{
		limit:     limitSeconds,
		remaining: limitSeconds,
		state:     TimerNotStarted,
		onExpire:  onExpire,
	}
}

// Start begins the 1-second countdown from not_started or finished. Starting
// an already running or expired timer is a no-op.
func (t *Timer) Start() {
	t.mu.Lock()
	if t.state != TimerNotStarted && t.state != TimerFinished {
		t.mu.Unlock()
		return
	}
	t.state = TimerInProgress
	t.stop = make(chan struct{})
	stop := t.stop
	t.mu.Unlock()

	go t.run(stop)
}

func (t *Timer) run(stop chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if t.Tick() {
				return
			}
		}
	}
}

// Tick advances the countdown by one second and reports whether it stopped.
// The running goroutine calls it once per second; tests drive it directly.
func (t *Timer) Tick() bool {
	t.mu.Lock()
	if t.state != TimerInProgress {
		t.mu.Unlock()
		return true
	}
	t.remaining--
	if t.remaining > 0 {
		t.mu.Unlock()
		return false
	}
	t.remaining = 0
	t.state = TimerExpired
	t.stopLocked()
	expire := t.onExpire
	t.mu.Unlock()

	if expire != nil {
		expire()
	}
	return true
}

// stopLocked closes the countdown goroutine's stop channel. Callers hold the
// mutex.
func (t *Timer) stopLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

// Pause suspends a running countdown, returning the timer to not_started
// without restoring the remaining time.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TimerInProgress {
		return
	}
	t.state = TimerNotStarted
	t.stopLocked()
}

// Finish marks the quiz completed before expiry and stops the countdown.
func (t *Timer) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TimerInProgress {
		return
	}
	t.state = TimerFinished
	t.stopLocked()
}

// Reset returns the timer to not_started with the full time limit, stopping
// any running countdown.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	t.remaining = t.limit
	t.state = TimerNotStarted
}

func (t *Timer) State() TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

func (t *Timer) Expired() bool {
	return t.State() == TimerExpired
}

// FormattedTime renders the remaining time as mm:ss.
func (t *Timer) FormattedTime() string {
	remaining := t.Remaining()
	return fmt.Sprintf("%02d:%02d", remaining/60, remaining%60)
}
