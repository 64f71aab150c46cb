package bootstrap

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bnema/folio/internal/logging"
)

// StartupTimer records how long each startup phase took.
// Safe for use from the parallel init goroutines.
type StartupTimer struct {
	mu     sync.Mutex
	start  time.Time
	last   time.Time
	phases map[string]time.Duration
	order  []string
	now    func() time.Time
}

func NewStartupTimer() *StartupTimer {
	return newStartupTimer(time.Now)
}

func newStartupTimer(now func() time.Time) *StartupTimer {
	t := now()
	return &StartupTimer{
		start:  t,
		last:   t,
		phases: make(map[string]time.Duration),
		now:    now,
	}
}

// Mark closes the phase that started at the previous mark.
func (t *StartupTimer) Mark(phase string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.record(phase, now.Sub(t.last))
	t.last = now
}

// MarkDuration records a phase timed elsewhere, typically in a goroutine.
func (t *StartupTimer) MarkDuration(phase string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.record(phase, d)
}

func (t *StartupTimer) record(phase string, d time.Duration) {
	if _, seen := t.phases[phase]; !seen {
		t.order = append(t.order, phase)
	}
	t.phases[phase] = d
}

// Phase returns the recorded duration of phase.
func (t *StartupTimer) Phase(phase string) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	d, ok := t.phases[phase]
	return d, ok
}

func (t *StartupTimer) Total() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.now().Sub(t.start)
}

// Log writes every phase, in recording order, as one event at level.
func (t *StartupTimer) Log(ctx context.Context, level zerolog.Level) {
	t.mu.Lock()
	defer t.mu.Unlock()

	event := logging.FromContext(ctx).WithLevel(level).Dur("total", t.now().Sub(t.start))
	for _, phase := range t.order {
		event = event.Dur(phase, t.phases[phase])
	}
	event.Msg("startup timing")
}
