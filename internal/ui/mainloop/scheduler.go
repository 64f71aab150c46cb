package mainloop

import (
	"sync"
	"time"
)

// Scheduler turns timer callbacks into main-loop tasks.
//
// Debounce keeps one pending timer per key: each call cancels the previous
// one, so only the last call of a burst runs, wait after that call.
// Coalesce merges same-key posts into a single task that runs the latest fn.
type Scheduler struct {
	mu    sync.Mutex
	clock Clock
	post  func(func())

	timers    map[string]Timer
	gen       map[string]uint64
	debounced map[string]func()

	pending   map[string]bool
	coalesced map[string]func()

	after     map[uint64]Timer
	afterSeq  uint64
	destroyed bool
}

func NewScheduler(clock Clock, post func(func())) *Scheduler {
	if post == nil {
		panic("mainloop.NewScheduler: post function cannot be nil")
	}
	if clock == nil {
		clock = SystemClock{}
	}

	return &Scheduler{
		clock:     clock,
		post:      post,
		timers:    make(map[string]Timer),
		gen:       make(map[string]uint64),
		debounced: make(map[string]func()),
		pending:   make(map[string]bool),
		coalesced: make(map[string]func()),
		after:     make(map[uint64]Timer),
	}
}

func (s *Scheduler) Debounce(key string, wait time.Duration, fn func()) {
	if fn == nil || key == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return
	}

	if t, ok := s.timers[key]; ok {
		t.Stop()
	}
	s.gen[key]++
	gen := s.gen[key]
	s.debounced[key] = fn
	s.timers[key] = s.clock.AfterFunc(wait, func() { s.fire(key, gen) })
}

// fire runs on the timer goroutine. A timer that raced with a newer Debounce
// call sees a stale generation and does nothing.
func (s *Scheduler) fire(key string, gen uint64) {
	s.mu.Lock()
	if s.destroyed || s.gen[key] != gen {
		s.mu.Unlock()
		return
	}
	fn := s.debounced[key]
	delete(s.debounced, key)
	delete(s.timers, key)
	post := s.post
	s.mu.Unlock()

	if fn != nil {
		post(fn)
	}
}

// Cancel drops a pending debounced call.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.timers[key]
	if !ok {
		return false
	}
	t.Stop()
	s.gen[key]++
	delete(s.timers, key)
	delete(s.debounced, key)
	return true
}

// Pending reports whether a debounced call is waiting for key.
func (s *Scheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[key]
	return ok
}

func (s *Scheduler) Coalesce(key string, fn func()) {
	if fn == nil || key == "" {
		return
	}

	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return
	}
	s.coalesced[key] = fn
	if s.pending[key] {
		s.mu.Unlock()
		return
	}
	s.pending[key] = true
	post := s.post
	s.mu.Unlock()

	post(func() {
		s.mu.Lock()
		if s.destroyed {
			s.mu.Unlock()
			return
		}
		fn := s.coalesced[key]
		delete(s.pending, key)
		delete(s.coalesced, key)
		s.mu.Unlock()

		if fn != nil {
			fn()
		}
	})
}

// After posts fn once wait has elapsed. Fire and forget; the returned Timer
// may be stopped to drop it.
func (s *Scheduler) After(wait time.Duration, fn func()) Timer {
	if fn == nil {
		return stoppedTimer{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return stoppedTimer{}
	}

	s.afterSeq++
	id := s.afterSeq
	t := s.clock.AfterFunc(wait, func() {
		s.mu.Lock()
		_, live := s.after[id]
		delete(s.after, id)
		dead := s.destroyed
		post := s.post
		s.mu.Unlock()

		if live && !dead {
			post(fn)
		}
	})
	s.after[id] = t
	return t
}

// Destroy stops every timer and drops queued work.
func (s *Scheduler) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.timers {
		t.Stop()
	}
	for _, t := range s.after {
		t.Stop()
	}
	s.destroyed = true
	s.timers = map[string]Timer{}
	s.debounced = map[string]func(){}
	s.pending = map[string]bool{}
	s.coalesced = map[string]func(){}
	s.after = map[uint64]Timer{}
}

type stoppedTimer struct{}

func (stoppedTimer) Stop() bool { return false }
