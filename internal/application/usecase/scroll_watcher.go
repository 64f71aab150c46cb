package usecase

import (
	"context"
	"strings"
	"sync"

	"github.com/bnema/folio/internal/application/port"
	"github.com/bnema/folio/internal/domain/entity"
	"github.com/bnema/folio/internal/logging"
)

const (
	contentSectionClass = "content-section"
	visibleClass        = "visible"
	sectionSelector     = "main section"
	navLinkSelector     = ".nav-link"
)

// ScrollOptions holds the intersection ratios the watcher reacts to.
type ScrollOptions struct {
	RevealThreshold float64
	NavThreshold    float64
}

func DefaultScrollOptions() ScrollOptions {
	return ScrollOptions{RevealThreshold: 0.1, NavThreshold: 0.5}
}

// ScrollWatcher reveals content sections as they scroll into view and marks
// the navigation link of the most visible section.
type ScrollWatcher struct {
	page port.Page
	opts ScrollOptions

	mu       sync.Mutex
	revealed map[string]bool
	active   string
}

func NewScrollWatcher(page port.Page, opts ScrollOptions) *ScrollWatcher {
	defaults := DefaultScrollOptions()
	if opts.RevealThreshold <= 0 || opts.RevealThreshold > 1 {
		opts.RevealThreshold = defaults.RevealThreshold
	}
	if opts.NavThreshold <= 0 || opts.NavThreshold > 1 {
		opts.NavThreshold = defaults.NavThreshold
	}
	return &ScrollWatcher{
		page:     page,
		opts:     opts,
		revealed: make(map[string]bool),
	}
}

// HandleIntersections processes one batch of observer entries.
func (w *ScrollWatcher) HandleIntersections(ctx context.Context, entries []entity.IntersectionEntry) {
	if w.page == nil || len(entries) == 0 {
		return
	}
	log := logging.FromContext(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()

	for _, e := range entries {
		if !e.Intersecting || e.Ratio < w.opts.RevealThreshold || w.revealed[e.TargetID] {
			continue
		}
		el, ok := w.page.ElementByID(e.TargetID)
		if !ok || !el.HasClass(contentSectionClass) {
			continue
		}
		el.SetClass(visibleClass, true)
		w.revealed[e.TargetID] = true
		log.Debug().Str("section", e.TargetID).Msg("section revealed")
	}

	sections := make(map[string]bool)
	for _, el := range w.page.QueryAll(sectionSelector) {
		if id := el.ID(); id != "" {
			sections[id] = true
		}
	}

	best := ""
	bestRatio := 0.0
	for _, e := range entries {
		if !e.Intersecting || e.Ratio < w.opts.NavThreshold || !sections[e.TargetID] {
			continue
		}
		if best == "" || e.Ratio > bestRatio {
			best, bestRatio = e.TargetID, e.Ratio
		}
	}
	if best == "" || best == w.active {
		return
	}
	w.active = best
	w.markNavigation(best)
	log.Debug().Str("section", best).Float64("ratio", bestRatio).Msg("active section changed")
}

func (w *ScrollWatcher) markNavigation(activeID string) {
	for _, link := range w.page.QueryAll(navLinkSelector) {
		href, _ := link.Attribute("href")
		if strings.TrimPrefix(href, "#") == activeID {
			link.SetStyle("opacity", "0.5")
			link.SetStyle("pointer-events", "none")
		} else {
			link.SetStyle("opacity", "1")
			link.SetStyle("pointer-events", "auto")
		}
	}
}

// Active returns the id of the section whose nav link is marked current.
func (w *ScrollWatcher) Active() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// Revealed reports whether a section has been revealed.
func (w *ScrollWatcher) Revealed(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.revealed[id]
}
