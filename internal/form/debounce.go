package form

import (
	"sync"
	"time"
)

// debouncer runs at most one pending callback per key. Scheduling or
// cancelling a key bumps its generation, so a callback (or the result of the
// work it started) can tell whether it has been superseded.
type debouncer struct {
	mu          sync.Mutex
	delay       time.Duration
	timers      map[string]*time.Timer
	generations map[string]uint64
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:       delay,
		timers:      make(map[string]*time.Timer),
		generations: make(map[string]uint64),
	}
}

// Schedule cancels any pending callback for key and runs fn after the delay.
func (d *debouncer) Schedule(key string, fn func(generation uint64)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.generations[key]++
	generation := d.generations[key]

	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	d.timers[key] = time.AfterFunc(d.delay, func() {
		d.fire(key, generation, fn)
	})
}

func (d *debouncer) fire(key string, generation uint64, fn func(uint64)) {
	d.mu.Lock()
	if d.generations[key] != generation {
		d.mu.Unlock()
		return
	}
	delete(d.timers, key)
	d.mu.Unlock()

	fn(generation)
}

// Cancel drops the pending callback for key and invalidates in-flight work.
func (d *debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.generations[key]++
	if t, ok := d.timers[key]; ok {
		t.Stop()
		delete(d.timers, key)
	}
}

// Current reports whether generation is still the latest for key.
func (d *debouncer) Current(key string, generation uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.generations[key] == generation
}

// Stop cancels every pending callback and invalidates all in-flight work.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, t := range d.timers {
		t.Stop()
	}
	for key := range d.generations {
		d.generations[key]++
	}
	d.timers = make(map[string]*time.Timer)
}
