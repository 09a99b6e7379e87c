package tracker

import (
	"sync"
	"time"
)

// Observer receives the cumulative elapsed seconds after every increment.
type Observer func(elapsedSeconds int)

// Timer is the local study clock: it accumulates wall-clock time while
// active and reports whole elapsed seconds to its observer. Toggling
// active off and on neither drops nor double-counts time: the partial
// second in progress is carried over, and only one ticker goroutine ever
// runs per timer.
type Timer struct {
	interval time.Duration
	observer Observer

	mu          sync.Mutex
	base        time.Duration // accumulated from completed active stretches
	activeSince time.Time
	reported    int
	stop        chan struct{} // nil when inactive
}

func NewTimer(interval time.Duration, observer Observer) *Timer {
	if interval <= 0 {
		interval = time.Second
	}
	return &Timer{interval: interval, observer: observer}
}

// SetActive starts or pauses the clock. Both directions are idempotent.
func (t *Timer) SetActive(active bool) {
	t.mu.Lock()

	if active {
		if t.stop != nil {
			t.mu.Unlock()
			return
		}
		t.activeSince = time.Now()
		t.stop = make(chan struct{})
		stopCh := t.stop
		t.mu.Unlock()

		go t.loop(stopCh)
		return
	}

	if t.stop == nil {
		t.mu.Unlock()
		return
	}
	t.base += time.Since(t.activeSince)
	close(t.stop)
	t.stop = nil
	t.mu.Unlock()
}

// Stop pauses the clock unconditionally. Called on teardown.
func (t *Timer) Stop() {
	t.SetActive(false)
}

// Elapsed returns the whole seconds reported so far.
func (t *Timer) Elapsed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reported
}

// Reset zeroes the clock for a new session. The active state is kept.
func (t *Timer) Reset() {
	t.mu.Lock()
	t.base = 0
	t.reported = 0
	if t.stop != nil {
		t.activeSince = time.Now()
	}
	t.mu.Unlock()
}

func (t *Timer) loop(stopCh chan struct{}) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			t.advance()
		}
	}
}

// advance reports every whole second the accumulated active time has
// crossed since the last tick, one observer call per increment.
func (t *Timer) advance() {
	t.mu.Lock()
	total := t.base
	if t.stop != nil {
		total += time.Since(t.activeSince)
	}
	whole := int(total / t.interval)
	from := t.reported
	if whole > t.reported {
		t.reported = whole
	}
	observer := t.observer
	t.mu.Unlock()

	if observer == nil {
		return
	}
	for n := from + 1; n <= whole; n++ {
		observer(n)
	}
}
