package usecase

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/bnema/folio/internal/application/port"
	"github.com/bnema/folio/internal/domain/entity"
	"github.com/bnema/folio/internal/logging"
	"github.com/bnema/folio/internal/ui/mainloop"
)

const (
	classAndroidDevice   = "android-device"
	classAndroidChrome   = "android-chrome"
	classKeyboardVisible = "keyboard-visible"

	styleViewportUnit     = "--vh"
	styleTouchAction      = "touch-action"
	styleOverscrollAction = "overscroll-behavior"

	resizeDebounceKey = "viewport-resize"
)

// ViewportOptions tunes the viewport watcher.
type ViewportOptions struct {
	ResizeDebounce   time.Duration
	OrientationDelay time.Duration
	// KeyboardRatio is the fraction of the screen height below which an
	// Android viewport is considered shrunk by the soft keyboard.
	KeyboardRatio  float64
	MobileMaxWidth int
}

func DefaultViewportOptions() ViewportOptions {
	return ViewportOptions{
		ResizeDebounce:   250 * time.Millisecond,
		OrientationDelay: 100 * time.Millisecond,
		KeyboardRatio:    0.75,
		MobileMaxWidth:   768,
	}
}

// ViewportWatcher adapts page layout to the client viewport. It never
// touches the PreferenceSet.
type ViewportWatcher struct {
	page      port.Page
	env       port.Environment
	scheduler *mainloop.Scheduler
	panel     *SettingsPanelUseCase
	opts      ViewportOptions

	mu          sync.Mutex
	device      entity.DeviceProfile
	orientation entity.Orientation
}

func NewViewportWatcher(
	page port.Page,
	env port.Environment,
	scheduler *mainloop.Scheduler,
	panel *SettingsPanelUseCase,
	opts ViewportOptions,
) *ViewportWatcher {
	defaults := DefaultViewportOptions()
	if opts.ResizeDebounce <= 0 {
		opts.ResizeDebounce = defaults.ResizeDebounce
	}
	if opts.OrientationDelay < 0 {
		opts.OrientationDelay = defaults.OrientationDelay
	}
	if opts.KeyboardRatio <= 0 || opts.KeyboardRatio > 1 {
		opts.KeyboardRatio = defaults.KeyboardRatio
	}
	if opts.MobileMaxWidth <= 0 {
		opts.MobileMaxWidth = defaults.MobileMaxWidth
	}
	return &ViewportWatcher{
		page:      page,
		env:       env,
		scheduler: scheduler,
		panel:     panel,
		opts:      opts,
	}
}

// Setup detects the device and applies the one-time mobile and Android
// adjustments. prefs is read, never modified.
func (w *ViewportWatcher) Setup(ctx context.Context, prefs entity.PreferenceSet) entity.DeviceProfile {
	log := logging.FromContext(ctx)

	var device entity.DeviceProfile
	if w.env != nil {
		device = entity.DetectDevice(w.env.UserAgent(), w.env.Viewport(), w.env.TouchCapable(), w.opts.MobileMaxWidth)
	}
	w.mu.Lock()
	w.device = device
	w.mu.Unlock()

	body := w.body()
	if body != nil {
		if device.Mobile {
			body.SetStyle(styleTouchAction, "manipulation")
			if !prefs.EnableAnimations {
				body.SetClass(classReducedMotion, true)
			}
		}
		if device.Android {
			body.SetClass(classAndroidDevice, true)
			body.SetStyle(styleOverscrollAction, "contain")
			if device.Chrome {
				body.SetClass(classAndroidChrome, true)
			}
		}
	}
	w.updateViewportUnit()

	log.Info().Bool("mobile", device.Mobile).Bool("android", device.Android).Msg("device detected")
	return device
}

// Device returns the profile detected by Setup.
func (w *ViewportWatcher) Device() entity.DeviceProfile {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.device
}

// Orientation returns the last orientation applied, or "" before any change.
func (w *ViewportWatcher) Orientation() entity.Orientation {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.orientation
}

// HandleResize schedules a viewport update. Bursts collapse into one update
// that runs ResizeDebounce after the last event.
func (w *ViewportWatcher) HandleResize(ctx context.Context) {
	w.scheduler.Debounce(resizeDebounceKey, w.opts.ResizeDebounce, func() {
		w.ViewportChanged(ctx)
	})
}

// ViewportChanged recomputes the viewport unit and, on Android, the soft
// keyboard state.
func (w *ViewportWatcher) ViewportChanged(ctx context.Context) {
	w.updateViewportUnit()

	if !w.Device().Android || w.env == nil {
		return
	}
	visible := w.env.Viewport().KeyboardVisible(w.opts.KeyboardRatio)
	if body := w.body(); body != nil {
		body.SetClass(classKeyboardVisible, visible)
	}
	logging.FromContext(ctx).Debug().Bool("keyboard_visible", visible).Msg("viewport changed")
}

// HandleOrientationChange defers the orientation update by OrientationDelay,
// leaving the browser time to report the rotated geometry.
func (w *ViewportWatcher) HandleOrientationChange(ctx context.Context, angle int) {
	w.scheduler.After(w.opts.OrientationDelay, func() {
		w.OrientationChanged(ctx, angle)
	})
}

// OrientationChanged swaps the portrait/landscape classes, forces the
// settings panel closed and recomputes the viewport unit.
func (w *ViewportWatcher) OrientationChanged(ctx context.Context, angle int) {
	orientation := entity.OrientationFromAngle(angle)
	w.mu.Lock()
	w.orientation = orientation
	w.mu.Unlock()

	if body := w.body(); body != nil {
		body.SetClass(string(entity.OrientationPortrait), orientation == entity.OrientationPortrait)
		body.SetClass(string(entity.OrientationLandscape), orientation == entity.OrientationLandscape)
	}
	if w.panel != nil {
		w.panel.OrientationChanged(ctx)
	}
	w.updateViewportUnit()

	logging.FromContext(ctx).Debug().Int("angle", angle).Str("orientation", string(orientation)).Msg("orientation changed")
}

func (w *ViewportWatcher) updateViewportUnit() {
	if w.page == nil || w.env == nil {
		return
	}
	root := w.page.Root()
	if root == nil {
		return
	}
	unit := w.env.Viewport().Unit()
	root.SetStyle(styleViewportUnit, strconv.FormatFloat(unit, 'f', -1, 64)+"px")
}

func (w *ViewportWatcher) body() port.Element {
	if w.page == nil {
		return nil
	}
	return w.page.Body()
}
