package entity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Field names one preference. Its string form is the storage key.
type Field string

const (
	FieldTheme            Field = "theme"
	FieldFontSize         Field = "fontSize"
	FieldEnableAnimations Field = "enableAnimations"
	FieldReducedMotion    Field = "reducedMotion"
	FieldHighContrast     Field = "highContrast"
	FieldScreenReader     Field = "screenReader"
	FieldAnalytics        Field = "analytics"
	FieldCookies          Field = "cookies"
	FieldLanguage         Field = "language"
	FieldPageWidth        Field = "pageWidth"
)

var allFields = []Field{
	FieldTheme,
	FieldFontSize,
	FieldEnableAnimations,
	FieldReducedMotion,
	FieldHighContrast,
	FieldScreenReader,
	FieldAnalytics,
	FieldCookies,
	FieldLanguage,
	FieldPageWidth,
}

// ErrUnknownField is returned when a field name is not one of the ten preferences.
var ErrUnknownField = errors.New("unknown preference field")

// AllFields returns every preference field in canonical order.
func AllFields() []Field {
	out := make([]Field, len(allFields))
	copy(out, allFields)
	return out
}

// Key returns the storage key of the field.
func (f Field) Key() string {
	return string(f)
}

// Valid reports whether f is a known field.
func (f Field) Valid() bool {
	for _, known := range allFields {
		if f == known {
			return true
		}
	}
	return false
}

// IsBool reports whether the field holds a boolean.
func (f Field) IsBool() bool {
	_, ok := PreferenceSet{}.Bool(f)
	return ok
}

// ParseField resolves a field by storage key, case-insensitively.
func ParseField(name string) (Field, error) {
	name = strings.TrimSpace(name)
	for _, f := range allFields {
		if strings.EqualFold(string(f), name) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// ParseBool accepts exactly "true" or "false".
func ParseBool(raw string) (bool, error) {
	switch raw {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("expected \"true\" or \"false\", got %q", raw)
	}
}

// ParseTheme accepts "dark" or "light".
func ParseTheme(raw string) (Theme, error) {
	switch Theme(raw) {
	case ThemeDark, ThemeLight:
		return Theme(raw), nil
	default:
		return "", fmt.Errorf("expected %q or %q, got %q", ThemeDark, ThemeLight, raw)
	}
}

// ParseFontSize accepts a plain decimal integer. It does not clamp.
func ParseFontSize(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("expected a decimal integer, got %q", raw)
	}
	return n, nil
}
