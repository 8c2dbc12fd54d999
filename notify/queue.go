package notify

import "sync"

// Queue forwards notifications to a target Notifier from a single
// goroutine, so the target sees them one at a time and in the order they
// were sent. Sending never waits for the target.
type Queue struct {
	target Notifier

	mu      sync.Mutex
	pending []Event
	closed  bool
	wake    chan struct{}
	done    chan struct{}
}

// NewQueue starts the delivery goroutine for target.
func NewQueue(target Notifier) *Queue {
	q := &Queue{
		target: target,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go q.run()
	return q
}

// NotifyOffline enqueues an offline notification.
func (q *Queue) NotifyOffline() { q.push(OfflineEvent) }

// NotifyIndicator enqueues an indicator change.
func (q *Queue) NotifyIndicator(show bool) { q.push(Indicator(show)) }

// Close delivers everything already queued and stops the goroutine.
// Later notifications are dropped. Close is idempotent.
func (q *Queue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		q.signal()
	}
	q.mu.Unlock()
	<-q.done
}

func (q *Queue) push(e Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.pending = append(q.pending, e)
	q.signal()
}

// signal must be called with mu held.
func (q *Queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue) run() {
	defer close(q.done)
	for range q.wake {
		q.mu.Lock()
		batch := q.pending
		q.pending = nil
		closed := q.closed
		q.mu.Unlock()

		for _, e := range batch {
			q.deliver(e)
		}
		if closed {
			return
		}
	}
}

func (q *Queue) deliver(e Event) {
	if e.Offline {
		q.target.NotifyOffline()
		return
	}
	q.target.NotifyIndicator(e.Show)
}
