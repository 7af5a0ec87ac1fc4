package auth

import (
	"testing"
	"time"
)

func TestExpiryTimer_ArmReplacesPending(t *testing.T) {
	timer := NewExpiryTimer()

	first := make(chan struct{}, 1)
	second := make(chan struct{}, 1)

	timer.Arm(50*time.Millisecond, func() { first <- struct{}{} })
	timer.Arm(10*time.Millisecond, func() { second <- struct{}{} })

	select {
	case <-second:
	case <-time.After(time.Second):
		t.Fatal("second callback never fired")
	}

	select {
	case <-first:
		t.Fatal("replaced callback fired")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestExpiryTimer_CancelPreventsFire(t *testing.T) {
	timer := NewExpiryTimer()

	fired := make(chan struct{}, 1)
	timer.Arm(20*time.Millisecond, func() { fired <- struct{}{} })
	timer.Cancel()

	select {
	case <-fired:
		t.Fatal("canceled callback fired")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestExpiryTimer_CancelWhenIdle(t *testing.T) {
	timer := NewExpiryTimer()

	// must be safe with nothing pending
	timer.Cancel()
	timer.Cancel()
}

func TestExpiryTimer_NonPositiveDurationFires(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
	}{
		{"zero", 0},
		{"negative", -5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timer := NewExpiryTimer()

			fired := make(chan struct{}, 1)
			timer.Arm(tt.d, func() { fired <- struct{}{} })

			select {
			case <-fired:
			case <-time.After(time.Second):
				t.Fatal("callback never fired")
			}
		})
	}
}

func TestExpiryTimer_RearmAfterFire(t *testing.T) {
	timer := NewExpiryTimer()

	fired := make(chan struct{}, 2)
	timer.Arm(5*time.Millisecond, func() { fired <- struct{}{} })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("first arm never fired")
	}

	timer.Arm(5*time.Millisecond, func() { fired <- struct{}{} })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("re-arm never fired")
	}
}
