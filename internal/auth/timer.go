package auth

import (
	"sync"
	"time"
)

// ExpiryTimer schedules the session-expiry callback. At most one
// callback is pending at any time: Arm replaces whatever was scheduled
// before, and a canceled callback never fires.
type ExpiryTimer struct {
	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

func NewExpiryTimer() *ExpiryTimer {
	return &ExpiryTimer{}
}

// Arm cancels any pending callback and schedules onExpire to run once
// after d. A non-positive d fires as soon as possible; an expired
// session must not sit around un-expired.
func (t *ExpiryTimer) Arm(d time.Duration, onExpire func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}

	// the generation counter keeps a stopped-but-already-fired timer
	// from running its callback
	t.gen++
	gen := t.gen

	if d < 0 {
		d = 0
	}

	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		live := t.gen == gen
		if live {
			t.timer = nil
		}
		t.mu.Unlock()

		if live {
			onExpire()
		}
	})
}

// Cancel drops the pending callback, if any.
func (t *ExpiryTimer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
}
