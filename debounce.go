package entangle

import (
	"sync"
	"time"

	"github.com/zoobzio/clockz"
)

type debouncer struct {
	clock clockz.Clock
	delay time.Duration
	fn    func()

	mu      sync.Mutex
	timer   clockz.Timer
	gen     uint64
	done    chan struct{}
	stopped bool
}

func newDebouncer(clock clockz.Clock, delay time.Duration, fn func()) *debouncer {
	return &debouncer{
		clock: clock,
		delay: delay,
		fn:    fn,
		done:  make(chan struct{}),
	}
}

// trigger restarts the pending timer, or arms a new one if none is pending.
func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.triggerLocked()
}

// triggerLocked expects d.mu to be held. A timer that already fired but whose
// await has not run yet is superseded: only the newest generation runs fn.
func (d *debouncer) triggerLocked() {
	if d.stopped {
		return
	}
	if d.timer != nil && d.timer.Stop() {
		d.timer.Reset(d.delay)
		return
	}
	d.gen++
	t := d.clock.NewTimer(d.delay)
	d.timer = t
	go d.await(t, d.gen)
}

func (d *debouncer) await(t clockz.Timer, gen uint64) {
	select {
	case <-d.done:
		return
	case <-t.C():
	}

	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.fn()
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	close(d.done)
}
