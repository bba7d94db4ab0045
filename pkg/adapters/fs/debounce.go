package fs

import (
	"sync"
	"time"

	"github.com/quillworks/quill/pkg/core"
)

// pendingEvent tracks a not-yet-emitted event and its timer.
type pendingEvent struct {
	timer *time.Timer
	event core.Event
	emit  func(core.Event)
}

// debouncer coalesces bursts of filesystem events per post. Editors often
// produce several write events for a single save; only the last one within
// the delay window is emitted.
type debouncer struct {
	delay   time.Duration
	mu      sync.Mutex
	pending map[string]*pendingEvent
	wg      sync.WaitGroup
	stopped bool
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		pending: make(map[string]*pendingEvent),
	}
}

// add schedules an event for emission. A newer event for the same post and
// type resets the timer and replaces the payload.
func (d *debouncer) add(e core.Event, emit func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	key := e.ID + "/" + string(e.Type)
	if p, ok := d.pending[key]; ok {
		p.event = e
		p.emit = emit
		p.timer.Reset(d.delay)
		return
	}

	p := &pendingEvent{event: e, emit: emit}
	d.wg.Add(1)
	p.timer = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()

		d.mu.Lock()
		if d.stopped {
			d.mu.Unlock()
			return
		}
		delete(d.pending, key)
		ev, fn := p.event, p.emit
		d.mu.Unlock()

		fn(ev)
	})
	d.pending[key] = p
}

// stopAndWait stops accepting new events, cancels pending timers, and waits
// for in-flight emissions to finish (bounded by timeout).
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for key, p := range d.pending {
		if p.timer.Stop() {
			d.wg.Done()
		}
		delete(d.pending, key)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
	}
}
