// Package mainloop provides the single logical thread the page runs on: a
// serial task queue plus timers that only ever post work onto it.
package mainloop

import (
	"context"
	"sync"
)

// Loop is a serial task queue. Tasks run one at a time, in posting order,
// on whichever goroutine drives Run or RunPending.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	closed bool

	wake     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

func NewLoop() *Loop {
	return &Loop{
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
}

// Post queues fn. It never blocks, so tasks may post further tasks.
// Returns false once the loop is closed.
func (l *Loop) Post(fn func()) bool {
	if fn == nil {
		return false
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// RunPending runs queued tasks until the queue is empty, including tasks
// posted while draining. Returns the number of tasks run.
func (l *Loop) RunPending() int {
	ran := 0
	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		if len(batch) == 0 {
			return ran
		}
		for _, fn := range batch {
			fn()
			ran++
		}
	}
}

// Run drives the loop until ctx is done or Close is called.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.RunPending()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.stopped:
			l.RunPending()
			return nil
		case <-l.wake:
		}
	}
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Close stops accepting tasks. Tasks already queued still run on the next
// RunPending, or before Run returns.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	l.stopOnce.Do(func() { close(l.stopped) })
}
