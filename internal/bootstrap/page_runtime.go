// Package bootstrap assembles the page runtime: storage, page adapters and
// the use cases wired around a single main loop.
package bootstrap

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bnema/folio/internal/application/port"
	"github.com/bnema/folio/internal/application/usecase"
	"github.com/bnema/folio/internal/domain/entity"
	"github.com/bnema/folio/internal/domain/repository"
	"github.com/bnema/folio/internal/domain/validation"
	"github.com/bnema/folio/internal/infrastructure/config"
	"github.com/bnema/folio/internal/logging"
	"github.com/bnema/folio/internal/ui/mainloop"
)

const intersectionKey = "intersections"

// Click is a pointer activation on the page.
type Click struct {
	// TargetID is the id of the activated element, empty for anonymous ones.
	TargetID string
	// Ancestors holds the ids of the enclosing elements, innermost first.
	Ancestors []string
	// ExpandButton marks activation of an expandable section's toggle.
	ExpandButton bool
}

func (c Click) within(id string) bool {
	if id == "" {
		return false
	}
	return c.TargetID == id || slices.Contains(c.Ancestors, id)
}

// Option customizes NewPageRuntime.
type Option func(*runtimeOptions)

type runtimeOptions struct {
	clock mainloop.Clock
	ids   *usecase.ElementIDs
}

// WithClock replaces the system clock driving debounce and delayed work.
func WithClock(clock mainloop.Clock) Option {
	return func(o *runtimeOptions) { o.clock = clock }
}

// WithElementIDs binds to custom element ids instead of the stock markup's.
func WithElementIDs(ids usecase.ElementIDs) Option {
	return func(o *runtimeOptions) { o.ids = &ids }
}

// PageRuntime owns every component of one page. Events enter through the
// Handle methods, which queue them on Loop; nothing runs until the loop is
// driven with Run or RunPending.
type PageRuntime struct {
	Loop        *mainloop.Loop
	Scheduler   *mainloop.Scheduler
	Bindings    *usecase.Bindings
	Preferences *usecase.PreferenceController
	Panel       *usecase.SettingsPanelUseCase
	Viewport    *usecase.ViewportWatcher
	Scroll      *usecase.ScrollWatcher

	ctx    context.Context
	page   port.Page
	timer  *StartupTimer
	settle time.Duration

	imu           sync.Mutex
	intersections []entity.IntersectionEntry
}

// NewPageRuntime binds page and wires the use cases together.
// env may be nil when no client environment is known.
func NewPageRuntime(
	ctx context.Context,
	cfg *config.Config,
	page port.Page,
	store repository.PreferenceStore,
	env port.Environment,
	opts ...Option,
) *PageRuntime {
	o := runtimeOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	ids := usecase.DefaultElementIDs()
	if o.ids != nil {
		ids = *o.ids
	}

	ctx = logging.WithComponent(ctx, "page")
	timer := NewStartupTimer()

	loop := mainloop.NewLoop()
	scheduler := mainloop.NewScheduler(o.clock, func(fn func()) { loop.Post(fn) })

	bindings := usecase.BindControls(ctx, page, ids)
	timer.Mark("bind")

	panel := usecase.NewSettingsPanelUseCase(bindings)
	rt := &PageRuntime{
		Loop:      loop,
		Scheduler: scheduler,
		Bindings:  bindings,
		Preferences: usecase.NewPreferenceController(store, bindings, page, usecase.PreferenceOptions{
			Rules: validation.NewPreferenceRules(cfg.PageWidths()),
		}),
		Panel: panel,
		Viewport: usecase.NewViewportWatcher(page, env, scheduler, panel, usecase.ViewportOptions{
			ResizeDebounce:   cfg.Timing.ResizeDebounce(),
			OrientationDelay: cfg.Timing.OrientationDelay(),
			KeyboardRatio:    cfg.Timing.KeyboardHeightRatio,
			MobileMaxWidth:   cfg.Timing.MobileMaxWidth,
		}),
		Scroll: usecase.NewScrollWatcher(page, usecase.ScrollOptions{
			RevealThreshold: cfg.Observer.RevealThreshold,
			NavThreshold:    cfg.Observer.NavThreshold,
		}),
		ctx:    ctx,
		page:   page,
		timer:  timer,
		settle: max(cfg.Timing.ResizeDebounce(), cfg.Timing.OrientationDelay()),
	}
	return rt
}

// SettleDelay is the longest a queued environment event waits before its
// page work runs: after it, resize and orientation handling has come due.
func (r *PageRuntime) SettleDelay() time.Duration {
	return r.settle
}

// Start loads the stored preferences, applies them to the page and runs the
// one-time device setup. It runs synchronously, before any queued event.
func (r *PageRuntime) Start(ctx context.Context) entity.PreferenceSet {
	ctx = logging.WithComponent(ctx, "page")

	prefs := r.Preferences.Load(ctx)
	r.timer.Mark("load")

	r.Preferences.ApplyAll(ctx, prefs)
	r.timer.Mark("apply")

	r.Viewport.Setup(ctx, prefs)
	r.timer.Mark("setup")

	r.timer.Log(ctx, zerolog.DebugLevel)
	return prefs
}

// Page returns the page the runtime is bound to.
func (r *PageRuntime) Page() port.Page {
	return r.page
}

// Run drives the loop until ctx is done or Close is called.
func (r *PageRuntime) Run(ctx context.Context) error {
	return r.Loop.Run(ctx)
}

// Close drops pending timers and stops the loop. Queued events still run.
func (r *PageRuntime) Close() {
	r.Scheduler.Destroy()
	r.Loop.Close()
}

// post queues fn on the loop. Returns false once the runtime is closed.
func (r *PageRuntime) post(event string, fn func(ctx context.Context)) bool {
	ctx := r.ctx
	ok := r.Loop.Post(func() { fn(ctx) })
	if !ok {
		logging.FromContext(ctx).Debug().Str("event", event).Msg("event dropped, runtime closed")
	}
	return ok
}

// HandleClick queues a pointer activation.
func (r *PageRuntime) HandleClick(c Click) bool {
	return r.post("click", func(ctx context.Context) { r.click(ctx, c) })
}

func (r *PageRuntime) click(ctx context.Context, c Click) {
	ids := r.Bindings.IDs()

	switch {
	case c.within(ids.SettingsButton):
		r.Panel.Open(ctx)
		return
	case c.TargetID != "" && c.TargetID == ids.CloseButton:
		r.Panel.Close(ctx)
		return
	case c.TargetID != "" && c.TargetID == ids.FontIncrease:
		r.Preferences.IncreaseFontSize(ctx)
		return
	case c.TargetID != "" && c.TargetID == ids.FontDecrease:
		r.Preferences.DecreaseFontSize(ctx)
		return
	case c.ExpandButton:
		if key := r.sectionOf(c); key != "" {
			r.Panel.ToggleSection(ctx, key)
			return
		}
	}

	r.Panel.PointerDown(ctx, c.within(ids.SettingsPanel), false)
}

// sectionOf finds the expandable section enclosing the click.
func (r *PageRuntime) sectionOf(c Click) string {
	for _, key := range r.Bindings.ExpandableKeys() {
		if c.within(key) {
			return key
		}
	}
	return ""
}

// HandleKey queues a key press.
func (r *PageRuntime) HandleKey(key string) bool {
	return r.post("key", func(ctx context.Context) { r.Panel.KeyPressed(ctx, key) })
}

// HandleControlChange queues a change event from the form control id. The
// new value is read from the control, as a change listener would.
func (r *PageRuntime) HandleControlChange(id string) bool {
	return r.post("change", func(ctx context.Context) { r.controlChanged(ctx, id) })
}

func (r *PageRuntime) controlChanged(ctx context.Context, id string) {
	log := logging.FromContext(ctx)

	field, ok := r.Bindings.FieldForControl(id)
	if !ok {
		log.Debug().Str("control", id).Msg("change on unbound control ignored")
		return
	}
	control := r.Bindings.Control(field)
	if control == nil {
		return
	}

	if err := r.Preferences.SetField(ctx, field, controlValue(field, control)); err != nil {
		log.Warn().Err(err).Str("control", id).Msg("rejected control value")
		// put the control back in line with the preference it edits
		r.Preferences.ApplyAll(ctx, r.Preferences.Preferences())
	}
}

func controlValue(field entity.Field, control port.Element) string {
	switch field {
	case entity.FieldTheme:
		if control.Checked() {
			return string(entity.ThemeLight)
		}
		return string(entity.ThemeDark)
	case entity.FieldLanguage, entity.FieldPageWidth:
		return control.Value()
	}
	if control.Checked() {
		return "true"
	}
	return "false"
}

// HandleResize queues a window resize. The layout work itself is debounced.
func (r *PageRuntime) HandleResize() bool {
	return r.post("resize", r.Viewport.HandleResize)
}

// HandleOrientation queues an orientation change to angle degrees.
func (r *PageRuntime) HandleOrientation(angle int) bool {
	return r.post("orientation", func(ctx context.Context) {
		r.Viewport.HandleOrientationChange(ctx, angle)
	})
}

// HandleIntersections queues a batch of observer entries. Batches arriving
// before the loop drains are merged into the latest one per section.
func (r *PageRuntime) HandleIntersections(entries []entity.IntersectionEntry) {
	if len(entries) == 0 {
		return
	}
	r.mergeIntersections(entries)
	r.Scheduler.Coalesce(intersectionKey, func() {
		r.Scroll.HandleIntersections(r.ctx, r.takeIntersections())
	})
}

func (r *PageRuntime) mergeIntersections(entries []entity.IntersectionEntry) {
	r.imu.Lock()
	defer r.imu.Unlock()
	for _, e := range entries {
		i := slices.IndexFunc(r.intersections, func(p entity.IntersectionEntry) bool {
			return p.TargetID == e.TargetID
		})
		if i >= 0 {
			r.intersections[i] = e
			continue
		}
		r.intersections = append(r.intersections, e)
	}
}

func (r *PageRuntime) takeIntersections() []entity.IntersectionEntry {
	r.imu.Lock()
	defer r.imu.Unlock()
	out := r.intersections
	r.intersections = nil
	return out
}
