package port

import "github.com/bnema/folio/internal/domain/entity"

// Environment exposes the read-only properties of the client hosting the page.
type Environment interface {
	// UserAgent returns the navigator user agent string.
	UserAgent() string

	// Viewport returns the current window geometry.
	Viewport() entity.Viewport

	// TouchCapable reports whether touch events are supported.
	TouchCapable() bool
}

// StaticEnvironment is an Environment with fixed values, used by the CLI
// when rendering outside of any browser.
type StaticEnvironment struct {
	Agent    string
	Geometry entity.Viewport
	Touch    bool
}

// UserAgent implements Environment.
func (e StaticEnvironment) UserAgent() string { return e.Agent }

// Viewport implements Environment.
func (e StaticEnvironment) Viewport() entity.Viewport { return e.Geometry }

// TouchCapable implements Environment.
func (e StaticEnvironment) TouchCapable() bool { return e.Touch }
