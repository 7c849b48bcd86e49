package form

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncer_CoalescesRapidSchedules(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)

	var calls int32
	var mu sync.Mutex
	var last string
	for _, v := range []string{"a", "ab", "abc"} {
		v := v
		d.Schedule("k", func(uint64) {
			atomic.AddInt32(&calls, 1)
			mu.Lock()
			last = v
			mu.Unlock()
		})
	}

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "abc", last)
}

func TestDebouncer_KeysAreIndependent(t *testing.T) {
	d := newDebouncer(10 * time.Millisecond)

	var calls int32
	d.Schedule("a", func(uint64) { atomic.AddInt32(&calls, 1) })
	d.Schedule("b", func(uint64) { atomic.AddInt32(&calls, 1) })

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 2 }, time.Second, 5*time.Millisecond)
}

func TestDebouncer_Cancel(t *testing.T) {
	d := newDebouncer(10 * time.Millisecond)

	var calls int32
	d.Schedule("k", func(uint64) { atomic.AddInt32(&calls, 1) })
	d.Cancel("k")

	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestDebouncer_GenerationInvalidatedBySchedule(t *testing.T) {
	d := newDebouncer(5 * time.Millisecond)

	tokens := make(chan uint64, 1)
	d.Schedule("k", func(g uint64) { tokens <- g })

	var first uint64
	select {
	case first = <-tokens:
	case <-time.After(time.Second):
		t.Fatal("callback did not fire")
	}
	assert.True(t, d.Current("k", first))

	// work started by the first callback is stale once a newer one is scheduled
	d.Schedule("k", func(uint64) {})
	assert.False(t, d.Current("k", first))
}

func TestDebouncer_Stop(t *testing.T) {
	d := newDebouncer(10 * time.Millisecond)

	var calls int32
	d.Schedule("a", func(uint64) { atomic.AddInt32(&calls, 1) })
	d.Schedule("b", func(uint64) { atomic.AddInt32(&calls, 1) })
	d.Stop()

	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, atomic.LoadInt32(&calls))
}
