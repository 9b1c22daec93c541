package autosave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeClock_FiresAtDeadline(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	fired := 0
	clock.AfterFunc(time.Second, func() { fired++ })

	clock.Advance(999 * time.Millisecond)
	assert.Equal(t, 0, fired)
	clock.Advance(time.Millisecond)
	assert.Equal(t, 1, fired)
	clock.Advance(time.Hour)
	assert.Equal(t, 1, fired, "one-shot")
}

func TestFakeClock_ResetAndCancel(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	fired := 0
	timer := clock.AfterFunc(time.Second, func() { fired++ })

	clock.Advance(500 * time.Millisecond)
	timer.Reset(time.Second)
	clock.Advance(900 * time.Millisecond)
	assert.Equal(t, 0, fired)
	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, 1, fired)

	timer.Reset(time.Second)
	assert.Equal(t, 1, clock.Pending())
	timer.Cancel()
	assert.Equal(t, 0, clock.Pending())
	clock.Advance(2 * time.Second)
	assert.Equal(t, 1, fired)
}

func TestFakeClock_FiresInDeadlineOrder(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	var order []string
	clock.AfterFunc(2*time.Second, func() { order = append(order, "late") })
	clock.AfterFunc(time.Second, func() { order = append(order, "early") })

	clock.Advance(3 * time.Second)
	assert.Equal(t, []string{"early", "late"}, order)
	assert.Equal(t, time.Unix(3, 0), clock.Now())
}

func TestRealClock_Fires(t *testing.T) {
	done := make(chan struct{})
	RealClock{}.AfterFunc(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}
