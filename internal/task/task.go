package task

import (
	"sync"
	"time"
)

// Task is a handle to a scheduled callback. Cancel is idempotent and safe to
// call from any goroutine, including from inside the callback itself.
type Task struct {
	clock     Clock
	interval  time.Duration
	recurring bool
	fn        func()

	mu        sync.Mutex
	timer     Timer
	cancelled bool
	finished  bool
	runs      int
}

// After runs fn once after d unless cancelled first.
func After(clock Clock, d time.Duration, fn func()) *Task {
	t := &Task{clock: clock, interval: d, fn: fn}
	t.arm()
	return t
}

// Every runs fn every d until cancelled. The first run happens after d.
// Runs are fixed-rate: the next one is scheduled before fn starts, so a
// callback slower than d overlaps the next run.
func Every(clock Clock, d time.Duration, fn func()) *Task {
	t := &Task{clock: clock, interval: d, recurring: true, fn: fn}
	t.arm()
	return t
}

func (t *Task) arm() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelled {
		return
	}
	t.timer = t.clock.AfterFunc(t.interval, t.fire)
}

func (t *Task) fire() {
	t.mu.Lock()
	if t.cancelled {
		t.mu.Unlock()
		return
	}
	t.runs++
	if t.recurring {
		// Re-arm before running so a slow callback does not stretch the period.
		t.timer = t.clock.AfterFunc(t.interval, t.fire)
	} else {
		t.finished = true
	}
	t.mu.Unlock()

	t.fn()
}

// Cancel stops the task. Callbacks that have not started will never run.
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelled {
		return
	}
	t.cancelled = true
	if t.timer != nil {
		t.timer.Stop()
	}
}

// Active reports whether the task may still run its callback.
func (t *Task) Active() bool {
	if t == nil {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.cancelled && !t.finished
}

// Runs returns how many times the callback has started.
func (t *Task) Runs() int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.runs
}
