// Package progress carries progress out of long-running scans and deletions
// without coupling the engine to whatever renders it.
package progress

import "sync"

// Phase labels what kind of work an update belongs to.
type Phase string

const (
	PhaseScanning  Phase = "scanning"
	PhaseDetecting Phase = "detecting"
	PhaseCleaning  Phase = "cleaning"
	PhaseComplete  Phase = "complete"
	PhaseError     Phase = "error"
)

// Func is the callback signature scans report progress on. Within one
// operation the fraction is monotonically non-decreasing and the final call
// carries exactly 1.0.
type Func func(fraction float64, label string)

// Update is one progress event as published to listeners.
type Update struct {
	Phase    Phase
	Tool     string
	Fraction float64
	Label    string
	Err      error
}

// Reporter fans progress updates out to subscribers. The engine publishes
// from whatever goroutine is doing the work; each subscriber drains its own
// channel on a single consumer goroutine, which keeps rendering off the
// scanning path and on one well-defined context.
type Reporter struct {
	mu        sync.RWMutex
	last      *Update
	listeners []chan Update
}

func NewReporter() *Reporter {
	return &Reporter{}
}

// Subscribe returns a channel that receives every subsequent update.
func (r *Reporter) Subscribe() <-chan Update {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch := make(chan Update, 16)
	r.listeners = append(r.listeners, ch)
	return ch
}

// Unsubscribe closes and removes a listener channel.
func (r *Reporter) Unsubscribe(ch <-chan Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, listener := range r.listeners {
		if listener == ch {
			close(listener)
			r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
			return
		}
	}
}

// Publish records the update and notifies all listeners without blocking; a
// listener that has fallen behind misses intermediate updates rather than
// stalling the scan.
func (r *Reporter) Publish(u Update) {
	r.mu.Lock()
	r.last = &u
	listeners := make([]chan Update, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	for _, listener := range listeners {
		select {
		case listener <- u:
		default:
		}
	}
}

// Last returns the most recently published update.
func (r *Reporter) Last() *Update {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

// Sink adapts the reporter to the Func signature for one phase and tool.
func (r *Reporter) Sink(phase Phase, tool string) Func {
	return func(fraction float64, label string) {
		r.Publish(Update{Phase: phase, Tool: tool, Fraction: fraction, Label: label})
	}
}
