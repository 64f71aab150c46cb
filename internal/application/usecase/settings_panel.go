package usecase

import (
	"context"
	"sync"

	"github.com/bnema/folio/internal/domain/entity"
	"github.com/bnema/folio/internal/logging"
)

// SettingsPanelUseCase drives the settings panel visibility and its
// expandable sections.
type SettingsPanelUseCase struct {
	mu       sync.Mutex
	panel    entity.SettingsPanel
	sections *entity.ExpandableGroup
	bindings *Bindings
}

// NewSettingsPanelUseCase creates a closed panel over the bound elements.
func NewSettingsPanelUseCase(bindings *Bindings) *SettingsPanelUseCase {
	return &SettingsPanelUseCase{
		sections: entity.NewExpandableGroup(bindings.ExpandableKeys()...),
		bindings: bindings,
	}
}

func (uc *SettingsPanelUseCase) State() entity.PanelState {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.panel.State()
}

func (uc *SettingsPanelUseCase) IsOpen() bool {
	return uc.State() == entity.PanelOpen
}

// Open handles activation of the settings button.
func (uc *SettingsPanelUseCase) Open(ctx context.Context) bool {
	return uc.transition(ctx, "open", func(p *entity.SettingsPanel) bool { return p.Open() })
}

// Close handles the close button.
func (uc *SettingsPanelUseCase) Close(ctx context.Context) bool {
	return uc.transition(ctx, "close", func(p *entity.SettingsPanel) bool { return p.Close() })
}

// PointerDown closes an open panel when the pointer lands outside both the
// panel and the settings button.
func (uc *SettingsPanelUseCase) PointerDown(ctx context.Context, insidePanel, onSettingsButton bool) bool {
	return uc.transition(ctx, "outside_click", func(p *entity.SettingsPanel) bool {
		return p.PointerDown(insidePanel, onSettingsButton)
	})
}

// KeyPressed closes the panel on Escape.
func (uc *SettingsPanelUseCase) KeyPressed(ctx context.Context, key string) bool {
	return uc.transition(ctx, "key:"+key, func(p *entity.SettingsPanel) bool { return p.KeyPressed(key) })
}

// OrientationChanged forces the panel closed.
func (uc *SettingsPanelUseCase) OrientationChanged(ctx context.Context) bool {
	return uc.transition(ctx, "orientation", func(p *entity.SettingsPanel) bool { return p.OrientationChanged() })
}

func (uc *SettingsPanelUseCase) transition(ctx context.Context, event string, fn func(*entity.SettingsPanel) bool) bool {
	uc.mu.Lock()
	changed := fn(&uc.panel)
	state := uc.panel.State()
	if changed && uc.bindings != nil && uc.bindings.SettingsPanel != nil {
		uc.bindings.SettingsPanel.SetClass(activeClass, state == entity.PanelOpen)
	}
	uc.mu.Unlock()

	if changed {
		logging.FromContext(ctx).Debug().Str("event", event).Str("state", state.String()).Msg("settings panel")
	}
	return changed
}

// ToggleSection opens the section under key and collapses every other one;
// toggling the open section collapses it. Returns the open section key.
func (uc *SettingsPanelUseCase) ToggleSection(ctx context.Context, key string) string {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if !uc.sections.Has(key) {
		logging.FromContext(ctx).Debug().Str("section", key).Msg("unknown expandable section")
		return uc.sections.Expanded()
	}
	expanded := uc.sections.Toggle(key)
	for _, k := range uc.sections.Keys() {
		if el := uc.bindings.Expandable(k); el != nil {
			el.SetClass(expandedClass, k == expanded)
		}
	}
	return expanded
}

// ExpandedSection returns the open section key, or "".
func (uc *SettingsPanelUseCase) ExpandedSection() string {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.sections.Expanded()
}

// Sections returns the section keys in document order.
func (uc *SettingsPanelUseCase) Sections() []string {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.sections.Keys()
}
