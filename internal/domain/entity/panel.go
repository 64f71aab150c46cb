package entity

// PanelState is the visibility of the settings panel.
type PanelState int

const (
	PanelClosed PanelState = iota
	PanelOpen
)

func (s PanelState) String() string {
	if s == PanelOpen {
		return "open"
	}
	return "closed"
}

// KeyEscape is the key name that dismisses the settings panel.
const KeyEscape = "Escape"

// SettingsPanel is the open/closed state machine of the settings panel.
// The zero value is a closed panel. Every transition reports whether the
// state changed.
type SettingsPanel struct {
	state PanelState
}

// State returns the current state.
func (p *SettingsPanel) State() PanelState {
	return p.state
}

// IsOpen reports whether the panel is open.
func (p *SettingsPanel) IsOpen() bool {
	return p.state == PanelOpen
}

// Open handles activation of the settings button.
func (p *SettingsPanel) Open() bool {
	return p.set(PanelOpen)
}

// Close handles the explicit close action.
func (p *SettingsPanel) Close() bool {
	return p.set(PanelClosed)
}

// PointerDown handles a pointer activation anywhere on the page.
// Activations inside the panel or on the settings button never close it.
func (p *SettingsPanel) PointerDown(insidePanel, onSettingsButton bool) bool {
	if !p.IsOpen() || insidePanel || onSettingsButton {
		return false
	}
	return p.set(PanelClosed)
}

// KeyPressed handles a key press; only Escape closes the panel.
func (p *SettingsPanel) KeyPressed(key string) bool {
	if key != KeyEscape {
		return false
	}
	return p.set(PanelClosed)
}

// OrientationChanged forces the panel closed.
func (p *SettingsPanel) OrientationChanged() bool {
	return p.set(PanelClosed)
}

func (p *SettingsPanel) set(state PanelState) bool {
	if p.state == state {
		return false
	}
	p.state = state
	return true
}
