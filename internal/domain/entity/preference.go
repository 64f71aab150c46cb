// Package entity defines the preference, settings panel and viewport domain types.
package entity

import (
	"strconv"
)

// Theme is the page color scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// PageWidth names one of the site-defined layout widths.
// The page exposes it as a width-<value> class on the body.
type PageWidth string

// PageWidthContainer is the default centered layout.
const PageWidthContainer PageWidth = "container"

// Preference defaults and font size bounds.
const (
	FontSizeDefault = 16
	FontSizeMin     = 12
	FontSizeMax     = 24
	FontSizeStep    = 2

	LanguageDefault = "en"
)

// PreferenceSet is the complete set of user display preferences.
// Every field always holds a valid value; a zero PreferenceSet is not valid,
// use DefaultPreferences.
type PreferenceSet struct {
	Theme            Theme     `json:"theme"`
	FontSize         int       `json:"fontSize"`
	EnableAnimations bool      `json:"enableAnimations"`
	ReducedMotion    bool      `json:"reducedMotion"`
	HighContrast     bool      `json:"highContrast"`
	ScreenReader     bool      `json:"screenReader"`
	Analytics        bool      `json:"analytics"`
	Cookies          bool      `json:"cookies"`
	Language         string    `json:"language"`
	PageWidth        PageWidth `json:"pageWidth"`
}

// DefaultPreferences returns the preferences of a first visit.
func DefaultPreferences() PreferenceSet {
	return PreferenceSet{
		Theme:            ThemeDark,
		FontSize:         FontSizeDefault,
		EnableAnimations: true,
		ReducedMotion:    false,
		HighContrast:     false,
		ScreenReader:     false,
		Analytics:        true,
		Cookies:          true,
		Language:         LanguageDefault,
		PageWidth:        PageWidthContainer,
	}
}

// Bool returns the value of a boolean field.
// ok is false when field is not a boolean field.
func (p PreferenceSet) Bool(field Field) (value, ok bool) {
	switch field {
	case FieldEnableAnimations:
		return p.EnableAnimations, true
	case FieldReducedMotion:
		return p.ReducedMotion, true
	case FieldHighContrast:
		return p.HighContrast, true
	case FieldScreenReader:
		return p.ScreenReader, true
	case FieldAnalytics:
		return p.Analytics, true
	case FieldCookies:
		return p.Cookies, true
	default:
		return false, false
	}
}

// SetBool assigns a boolean field. It reports false for non-boolean fields.
func (p *PreferenceSet) SetBool(field Field, value bool) bool {
	switch field {
	case FieldEnableAnimations:
		p.EnableAnimations = value
	case FieldReducedMotion:
		p.ReducedMotion = value
	case FieldHighContrast:
		p.HighContrast = value
	case FieldScreenReader:
		p.ScreenReader = value
	case FieldAnalytics:
		p.Analytics = value
	case FieldCookies:
		p.Cookies = value
	default:
		return false
	}
	return true
}

// Value returns the serialized storage form of a field:
// booleans as "true"/"false", integers in decimal, strings as-is.
func (p PreferenceSet) Value(field Field) string {
	if b, ok := p.Bool(field); ok {
		return strconv.FormatBool(b)
	}
	switch field {
	case FieldTheme:
		return string(p.Theme)
	case FieldFontSize:
		return strconv.Itoa(p.FontSize)
	case FieldLanguage:
		return p.Language
	case FieldPageWidth:
		return string(p.PageWidth)
	default:
		return ""
	}
}

// Values returns every field in its serialized form, keyed by storage key.
func (p PreferenceSet) Values() map[Field]string {
	values := make(map[Field]string, len(allFields))
	for _, f := range allFields {
		values[f] = p.Value(f)
	}
	return values
}

// BadgeCount returns how many of the category's fields are enabled.
func (p PreferenceSet) BadgeCount(category BadgeCategory) int {
	count := 0
	for _, f := range category.Fields() {
		if v, _ := p.Bool(f); v {
			count++
		}
	}
	return count
}

// ClampFontSize constrains a size to [FontSizeMin, FontSizeMax] and snaps it
// down onto the FontSizeStep grid.
func ClampFontSize(size int) int {
	if size < FontSizeMin {
		return FontSizeMin
	}
	if size > FontSizeMax {
		return FontSizeMax
	}
	return FontSizeMin + ((size-FontSizeMin)/FontSizeStep)*FontSizeStep
}

// ValidFontSize reports whether size satisfies the font size invariant.
func ValidFontSize(size int) bool {
	return size >= FontSizeMin && size <= FontSizeMax && (size-FontSizeMin)%FontSizeStep == 0
}
