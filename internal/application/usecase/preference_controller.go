// Package usecase implements the page behaviors: preferences, the settings
// panel and the viewport and scroll watchers.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/bnema/folio/internal/application/port"
	"github.com/bnema/folio/internal/domain/entity"
	"github.com/bnema/folio/internal/domain/repository"
	"github.com/bnema/folio/internal/domain/validation"
	"github.com/bnema/folio/internal/logging"
)

// Page state driven by preferences.
const (
	classLightMode     = "light-mode"
	classReducedMotion = "reduced-motion"
	classHighContrast  = "high-contrast"
	classScreenReader  = "screen-reader-optimized"
	widthClassPrefix   = "width-"

	styleFontSize       = "font-size"
	styleAnimationSpeed = "--animation-speed"
	styleDisplay        = "display"
	styleAnimation      = "animation"

	badgePulse = "pulse 0.5s ease"
)

// ChangeListener is notified after a preference change has been applied and
// persisted. field is empty when the whole set changed (Reset).
type ChangeListener func(field entity.Field, prefs entity.PreferenceSet)

// PreferenceOptions configures a PreferenceController.
type PreferenceOptions struct {
	// Rules validates language and page width. Nil uses the default widths.
	Rules *validation.PreferenceRules
}

// PreferenceController owns the PreferenceSet and keeps storage, bound
// controls and page state in sync with it.
type PreferenceController struct {
	mu sync.Mutex

	store    repository.PreferenceStore
	bindings *Bindings
	page     port.Page
	rules    *validation.PreferenceRules

	prefs      entity.PreferenceSet
	badges     map[entity.BadgeCategory]int
	listeners  []ChangeListener
	persistErr error
}

// NewPreferenceController creates a controller holding the default set.
// page and bindings may be nil, in which case nothing is applied.
func NewPreferenceController(
	store repository.PreferenceStore,
	bindings *Bindings,
	page port.Page,
	opts PreferenceOptions,
) *PreferenceController {
	rules := opts.Rules
	if rules == nil {
		rules = validation.NewPreferenceRules(nil)
	}
	return &PreferenceController{
		store:    store,
		bindings: bindings,
		page:     page,
		rules:    rules,
		prefs:    entity.DefaultPreferences(),
		badges:   make(map[entity.BadgeCategory]int, 3),
	}
}

// Load reads every field from the store. A missing key, a read error or a
// malformed value yields the field's default. The loaded set becomes the
// controller's current set.
func (c *PreferenceController) Load(ctx context.Context) entity.PreferenceSet {
	log := logging.FromContext(ctx)
	prefs := entity.DefaultPreferences()

	for _, field := range entity.AllFields() {
		raw, ok := c.read(ctx, field)
		if !ok {
			continue
		}
		if err := c.assign(&prefs, field, raw, false); err != nil {
			log.Debug().Err(err).Str("field", field.Key()).Msg("stored preference invalid, using default")
		}
	}

	c.mu.Lock()
	c.prefs = prefs
	c.mu.Unlock()

	log.Debug().Interface("preferences", prefs.Values()).Msg("preferences loaded")
	return prefs
}

func (c *PreferenceController) read(ctx context.Context, field entity.Field) (string, bool) {
	if c.store == nil {
		return "", false
	}
	raw, found, err := c.store.Get(ctx, field.Key())
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("field", field.Key()).Msg("failed to read preference")
		return "", false
	}
	return raw, found
}

// ApplyAll makes set the current set and pushes every field onto the page,
// syncs every bound control and refreshes the three badges. Invalid fields
// are replaced by their defaults first.
func (c *PreferenceController) ApplyAll(ctx context.Context, set entity.PreferenceSet) {
	log := logging.FromContext(ctx)

	normalized, replaced := c.rules.Normalize(set)
	for _, field := range replaced {
		log.Debug().Str("field", field.Key()).Str("value", set.Value(field)).Msg("preference out of domain, using default")
	}

	c.mu.Lock()
	c.prefs = normalized
	for _, field := range entity.AllFields() {
		c.applyFieldLocked(ctx, field)
		c.syncControlLocked(field)
	}
	for _, category := range entity.AllBadgeCategories() {
		c.updateBadgeLocked(category)
	}
	c.mu.Unlock()

	log.Debug().Msg("preferences applied")
}

// SetField validates raw for field, stores it, applies the field's effect,
// refreshes its badge and persists the whole set. FontSize values outside
// the allowed range are clamped. Storage failures are logged, not returned;
// PersistError reports them.
func (c *PreferenceController) SetField(ctx context.Context, field entity.Field, raw string) error {
	c.mu.Lock()
	next := c.prefs
	if err := c.assign(&next, field, raw, true); err != nil {
		c.mu.Unlock()
		return err
	}
	c.commitLocked(ctx, field, next)
	snapshot := c.prefs
	c.mu.Unlock()

	logging.FromContext(ctx).Debug().
		Str("field", field.Key()).
		Str("value", snapshot.Value(field)).
		Msg("preference changed")
	c.notify(field, snapshot)
	return nil
}

// Toggle flips a boolean field, or the theme.
func (c *PreferenceController) Toggle(ctx context.Context, field entity.Field) error {
	current := c.Preferences()
	if field == entity.FieldTheme {
		next := entity.ThemeLight
		if current.Theme == entity.ThemeLight {
			next = entity.ThemeDark
		}
		return c.SetField(ctx, field, string(next))
	}
	if !field.IsBool() {
		return entity.NewValidationError(field, "", errors.New("not a toggle"))
	}
	value, _ := current.Bool(field)
	return c.SetField(ctx, field, strconv.FormatBool(!value))
}

// IncreaseFontSize steps the font size up. It is a no-op at the maximum.
func (c *PreferenceController) IncreaseFontSize(ctx context.Context) bool {
	return c.stepFontSize(ctx, entity.FontSizeStep)
}

// DecreaseFontSize steps the font size down. It is a no-op at the minimum.
func (c *PreferenceController) DecreaseFontSize(ctx context.Context) bool {
	return c.stepFontSize(ctx, -entity.FontSizeStep)
}

func (c *PreferenceController) stepFontSize(ctx context.Context, delta int) bool {
	c.mu.Lock()
	current := c.prefs.FontSize
	size := current + delta
	if size < entity.FontSizeMin || size > entity.FontSizeMax {
		c.mu.Unlock()
		logging.FromContext(ctx).Debug().Int("font_size", current).Msg("font size at bound")
		return false
	}
	next := c.prefs
	next.FontSize = size
	c.commitLocked(ctx, entity.FieldFontSize, next)
	snapshot := c.prefs
	c.mu.Unlock()

	c.notify(entity.FieldFontSize, snapshot)
	return true
}

func (c *PreferenceController) commitLocked(ctx context.Context, field entity.Field, next entity.PreferenceSet) {
	c.prefs = next
	c.applyFieldLocked(ctx, field)
	c.syncControlLocked(field)
	if category, ok := entity.BadgeFor(field); ok {
		c.updateBadgeLocked(category)
	}
	c.persistErr = c.persist(ctx, c.prefs)
}

// PersistError returns the storage failures of the last applied change, or
// nil when it was saved. The page state is applied either way.
func (c *PreferenceController) PersistError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.persistErr
}

// Persist writes every field of set to the store in serialized form.
// A set outside the preference domain is rejected before anything is
// written. Every failing key is logged; the joined failures are returned.
func (c *PreferenceController) Persist(ctx context.Context, set entity.PreferenceSet) error {
	if err := c.rules.Validate(set); err != nil {
		return fmt.Errorf("invalid preferences: %w", err)
	}
	return c.persist(ctx, set)
}

func (c *PreferenceController) persist(ctx context.Context, set entity.PreferenceSet) error {
	if c.store == nil {
		return nil
	}
	log := logging.FromContext(ctx)

	var errs []error
	for _, field := range entity.AllFields() {
		if err := c.store.Set(ctx, field.Key(), set.Value(field)); err != nil {
			log.Warn().Err(err).Str("field", field.Key()).Msg("failed to persist preference")
			errs = append(errs, fmt.Errorf("failed to persist %s: %w", field.Key(), err))
		}
	}
	return errors.Join(errs...)
}

// Reset removes every stored key and applies the defaults.
func (c *PreferenceController) Reset(ctx context.Context) error {
	log := logging.FromContext(ctx)

	var errs []error
	if c.store != nil {
		for _, field := range entity.AllFields() {
			if err := c.store.Delete(ctx, field.Key()); err != nil {
				log.Warn().Err(err).Str("field", field.Key()).Msg("failed to delete preference")
				errs = append(errs, fmt.Errorf("failed to delete %s: %w", field.Key(), err))
			}
		}
	}

	c.ApplyAll(ctx, entity.DefaultPreferences())
	log.Info().Msg("preferences reset to defaults")
	c.notify("", c.Preferences())
	return errors.Join(errs...)
}

// Preferences returns a copy of the current set.
func (c *PreferenceController) Preferences() entity.PreferenceSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prefs
}

// Badge returns the indicator state of a badge category.
func (c *PreferenceController) Badge(category entity.BadgeCategory) entity.BadgeState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return entity.NewBadgeState(category, c.prefs.BadgeCount(category))
}

// OnChange registers a listener called after every applied change.
func (c *PreferenceController) OnChange(fn ChangeListener) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

func (c *PreferenceController) notify(field entity.Field, prefs entity.PreferenceSet) {
	c.mu.Lock()
	listeners := make([]ChangeListener, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(field, prefs)
	}
}

// assign parses raw into field of prefs. With clamp set, out-of-range font
// sizes are clamped; otherwise they are rejected.
func (c *PreferenceController) assign(prefs *entity.PreferenceSet, field entity.Field, raw string, clamp bool) error {
	if !field.Valid() {
		return entity.NewValidationError(field, raw, entity.ErrUnknownField)
	}

	switch field {
	case entity.FieldTheme:
		theme, err := entity.ParseTheme(raw)
		if err != nil {
			return entity.NewValidationError(field, raw, err)
		}
		prefs.Theme = theme
	case entity.FieldFontSize:
		size, err := entity.ParseFontSize(raw)
		if err != nil {
			return entity.NewValidationError(field, raw, err)
		}
		if clamp {
			size = entity.ClampFontSize(size)
		} else if !entity.ValidFontSize(size) {
			return entity.NewValidationError(field, raw, fmt.Errorf("font size must be between %d and %d in steps of %d",
				entity.FontSizeMin, entity.FontSizeMax, entity.FontSizeStep))
		}
		prefs.FontSize = size
	case entity.FieldLanguage:
		lang, err := validation.CanonicalLanguage(raw)
		if err != nil {
			return entity.NewValidationError(field, raw, err)
		}
		prefs.Language = lang
	case entity.FieldPageWidth:
		width, err := c.rules.PageWidth(raw)
		if err != nil {
			return entity.NewValidationError(field, raw, err)
		}
		prefs.PageWidth = width
	default:
		value, err := entity.ParseBool(raw)
		if err != nil {
			return entity.NewValidationError(field, raw, err)
		}
		prefs.SetBool(field, value)
	}
	return nil
}

func (c *PreferenceController) applyFieldLocked(ctx context.Context, field entity.Field) {
	if c.page == nil {
		return
	}
	body := c.page.Body()
	p := c.prefs

	switch field {
	case entity.FieldTheme:
		if body != nil {
			body.SetClass(classLightMode, p.Theme == entity.ThemeLight)
		}
	case entity.FieldFontSize:
		size := fmt.Sprintf("%dpx", p.FontSize)
		if root := c.page.Root(); root != nil {
			root.SetStyle(styleFontSize, size)
		}
		if label := c.bindings.fontSizeLabel(); label != nil {
			label.SetText(size)
		}
	case entity.FieldEnableAnimations:
		if body != nil {
			speed := "0"
			if p.EnableAnimations {
				speed = "1"
			}
			body.SetStyle(styleAnimationSpeed, speed)
		}
	case entity.FieldReducedMotion:
		if body != nil {
			body.SetClass(classReducedMotion, p.ReducedMotion)
		}
	case entity.FieldHighContrast:
		if body != nil {
			body.SetClass(classHighContrast, p.HighContrast)
		}
	case entity.FieldScreenReader:
		if body != nil {
			body.SetClass(classScreenReader, p.ScreenReader)
		}
	case entity.FieldPageWidth:
		if body != nil {
			applyPageWidth(body, p.PageWidth)
		}
	default:
		logging.FromContext(ctx).Debug().Str("field", field.Key()).Msg("preference has no page effect")
	}
}

func applyPageWidth(body port.Element, width entity.PageWidth) {
	target := widthClassPrefix + string(width)
	for _, class := range body.Classes() {
		if strings.HasPrefix(class, widthClassPrefix) && class != target {
			body.SetClass(class, false)
		}
	}
	body.SetClass(target, true)
}

func (c *PreferenceController) syncControlLocked(field entity.Field) {
	el := c.bindings.Control(field)
	if el == nil {
		return
	}
	p := c.prefs

	switch field {
	case entity.FieldTheme:
		el.SetChecked(p.Theme == entity.ThemeLight)
	case entity.FieldLanguage:
		el.SetValue(p.Language)
	case entity.FieldPageWidth:
		el.SetValue(string(p.PageWidth))
	default:
		if value, ok := p.Bool(field); ok {
			el.SetChecked(value)
		}
	}
}

func (c *PreferenceController) updateBadgeLocked(category entity.BadgeCategory) {
	count := c.prefs.BadgeCount(category)
	previous, seen := c.badges[category]
	c.badges[category] = count

	badge := c.bindings.Badge(category)
	if badge == nil {
		return
	}
	state := entity.NewBadgeState(category, count)
	badge.SetText(strconv.Itoa(state.Count))
	if !state.Visible {
		badge.SetStyle(styleDisplay, "none")
		badge.SetStyle(styleAnimation, "")
		return
	}
	badge.SetStyle(styleDisplay, "block")
	if !seen || previous != count {
		// a pulse still set from the last change would not replay
		badge.SetStyle(styleAnimation, "none")
		badge.SetStyle(styleAnimation, badgePulse)
	}
}

func (b *Bindings) fontSizeLabel() port.Element {
	if b == nil {
		return nil
	}
	return b.FontSizeLabel
}
