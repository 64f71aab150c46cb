package usecase

import (
	"context"
	"fmt"

	"github.com/bnema/folio/internal/application/port"
	"github.com/bnema/folio/internal/domain/entity"
	"github.com/bnema/folio/internal/logging"
)

// Class and selector names shared with the page stylesheet.
const (
	expandableSelector = ".settings-item.expandable"
	expandButtonClass  = "expand-btn"
	expandedClass      = "expanded"
	activeClass        = "active"
)

// ElementIDs names the page elements the controller binds to.
type ElementIDs struct {
	SettingsButton string
	SettingsPanel  string
	CloseButton    string
	FontDecrease   string
	FontIncrease   string
	FontSizeLabel  string

	// Controls maps a field to the form control editing it.
	// FontSize has no control of its own; it is driven by the step buttons.
	Controls map[entity.Field]string
	Badges   map[entity.BadgeCategory]string
}

// DefaultElementIDs returns the ids used by the stock portfolio markup.
func DefaultElementIDs() ElementIDs {
	return ElementIDs{
		SettingsButton: "settingsBtn",
		SettingsPanel:  "settingsPanel",
		CloseButton:    "closeSettings",
		FontDecrease:   "decreaseFont",
		FontIncrease:   "increaseFont",
		FontSizeLabel:  "currentSize",
		Controls: map[entity.Field]string{
			entity.FieldTheme:            "checkbox",
			entity.FieldEnableAnimations: "enableAnimations",
			entity.FieldReducedMotion:    "reducedMotion",
			entity.FieldHighContrast:     "highContrast",
			entity.FieldScreenReader:     "screenReader",
			entity.FieldAnalytics:        "analytics",
			entity.FieldCookies:          "cookies",
			entity.FieldLanguage:         "languageSelect",
			entity.FieldPageWidth:        "pageWidth",
		},
		Badges: map[entity.BadgeCategory]string{
			entity.BadgeAnimation:     "animationBadge",
			entity.BadgeAccessibility: "accessibilityBadge",
			entity.BadgePrivacy:       "privacyBadge",
		},
	}
}

// Bindings is the lookup table from logical names to page elements, built
// once at startup. A nil handle means the element is absent from the page;
// every consumer skips the behavior it would have driven.
type Bindings struct {
	ids ElementIDs

	SettingsButton port.Element
	SettingsPanel  port.Element
	CloseButton    port.Element
	FontDecrease   port.Element
	FontIncrease   port.Element
	FontSizeLabel  port.Element

	controls       map[entity.Field]port.Element
	controlFields  map[string]entity.Field
	badges         map[entity.BadgeCategory]port.Element
	expandables    map[string]port.Element
	expandableKeys []string
}

// BindControls resolves every id against the page. Missing elements are
// logged at debug level and left unbound.
func BindControls(ctx context.Context, page port.Page, ids ElementIDs) *Bindings {
	log := logging.FromContext(ctx)

	b := &Bindings{
		ids:           ids,
		controls:      make(map[entity.Field]port.Element, len(ids.Controls)),
		controlFields: make(map[string]entity.Field, len(ids.Controls)),
		badges:        make(map[entity.BadgeCategory]port.Element, len(ids.Badges)),
		expandables:   make(map[string]port.Element),
	}
	if page == nil {
		log.Debug().Msg("no page to bind, all controls unbound")
		return b
	}

	lookup := func(role, id string) port.Element {
		if id == "" {
			return nil
		}
		el, ok := page.ElementByID(id)
		if !ok || el == nil {
			log.Debug().Str("role", role).Str("id", id).Msg("element not found, skipping")
			return nil
		}
		return el
	}

	b.SettingsButton = lookup("settings_button", ids.SettingsButton)
	b.SettingsPanel = lookup("settings_panel", ids.SettingsPanel)
	b.CloseButton = lookup("close_button", ids.CloseButton)
	b.FontDecrease = lookup("font_decrease", ids.FontDecrease)
	b.FontIncrease = lookup("font_increase", ids.FontIncrease)
	b.FontSizeLabel = lookup("font_size_label", ids.FontSizeLabel)

	for _, field := range entity.AllFields() {
		id, ok := ids.Controls[field]
		if !ok {
			continue
		}
		b.controlFields[id] = field
		if el := lookup("control:"+field.Key(), id); el != nil {
			b.controls[field] = el
		}
	}

	for _, category := range entity.AllBadgeCategories() {
		if el := lookup("badge:"+string(category), ids.Badges[category]); el != nil {
			b.badges[category] = el
		}
	}

	for i, el := range page.QueryAll(expandableSelector) {
		key := ExpandableKey(el, i)
		if _, dup := b.expandables[key]; dup {
			continue
		}
		b.expandables[key] = el
		b.expandableKeys = append(b.expandableKeys, key)
	}

	log.Debug().
		Int("controls", len(b.controls)).
		Int("badges", len(b.badges)).
		Int("expandables", len(b.expandableKeys)).
		Msg("page controls bound")
	return b
}

// ExpandableKey identifies an expandable settings section: its id, then its
// data-section attribute, then its position among the sections.
func ExpandableKey(el port.Element, index int) string {
	if id := el.ID(); id != "" {
		return id
	}
	if section, ok := el.Attribute("data-section"); ok && section != "" {
		return section
	}
	return fmt.Sprintf("expandable-%d", index)
}

// IDs returns the ids the table was built from.
func (b *Bindings) IDs() ElementIDs {
	return b.ids
}

// Control returns the control bound to field, or nil.
func (b *Bindings) Control(field entity.Field) port.Element {
	if b == nil {
		return nil
	}
	return b.controls[field]
}

// FieldForControl maps a control id back to the field it edits.
func (b *Bindings) FieldForControl(id string) (entity.Field, bool) {
	if b == nil {
		return "", false
	}
	field, ok := b.controlFields[id]
	return field, ok
}

// Badge returns the badge element of category, or nil.
func (b *Bindings) Badge(category entity.BadgeCategory) port.Element {
	if b == nil {
		return nil
	}
	return b.badges[category]
}

// Expandable returns the expandable section registered under key, or nil.
func (b *Bindings) Expandable(key string) port.Element {
	if b == nil {
		return nil
	}
	return b.expandables[key]
}

// ExpandableKeys returns the section keys in document order.
func (b *Bindings) ExpandableKeys() []string {
	if b == nil {
		return nil
	}
	out := make([]string, len(b.expandableKeys))
	copy(out, b.expandableKeys)
	return out
}
