// Package notify carries advisory UI notifications (offline alerts and
// loading indicator changes) from the request layer to whatever owns the
// user interface.
package notify

import "sync"

// Notifier receives one-way UI notifications.
type Notifier interface {
	NotifyOffline()
	NotifyIndicator(show bool)
}

// Nop discards every notification.
type Nop struct{}

func (Nop) NotifyOffline()       {}
func (Nop) NotifyIndicator(bool) {}

// Event is one recorded notification.
type Event struct {
	Offline bool
	Show    bool
}

// Indicator returns the event for an indicator change.
func Indicator(show bool) Event { return Event{Show: show} }

// OfflineEvent is the event recorded for NotifyOffline.
var OfflineEvent = Event{Offline: true}

// Recorder keeps every notification in arrival order.
// Recorder is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) NotifyOffline() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, OfflineEvent)
}

func (r *Recorder) NotifyIndicator(show bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Indicator(show))
}

// Events returns a copy of the recorded notifications.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
