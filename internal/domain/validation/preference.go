// Package validation holds the domain rules for user-supplied preference values.
package validation

import (
	"errors"
	"fmt"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/text/language"

	"github.com/bnema/folio/internal/domain/entity"
)

// DefaultPageWidths are the layout widths the stock portfolio stylesheet defines.
var DefaultPageWidths = []entity.PageWidth{
	entity.PageWidthContainer,
	"wide",
	"full",
	"narrow",
}

// PreferenceRules validates preference values against the widths a site defines.
type PreferenceRules struct {
	widths []entity.PageWidth
}

// NewPreferenceRules creates rules for the given page widths.
// An empty list falls back to DefaultPageWidths.
func NewPreferenceRules(widths []entity.PageWidth) *PreferenceRules {
	if len(widths) == 0 {
		widths = DefaultPageWidths
	}
	cleaned := make([]entity.PageWidth, 0, len(widths))
	for _, w := range widths {
		w = entity.PageWidth(strings.TrimSpace(string(w)))
		if w != "" {
			cleaned = append(cleaned, w)
		}
	}
	if len(cleaned) == 0 {
		cleaned = append(cleaned, DefaultPageWidths...)
	}
	return &PreferenceRules{widths: cleaned}
}

// PageWidths returns the allowed widths.
func (r *PreferenceRules) PageWidths() []entity.PageWidth {
	out := make([]entity.PageWidth, len(r.widths))
	copy(out, r.widths)
	return out
}

// Validate checks every field of a preference set.
func (r *PreferenceRules) Validate(set entity.PreferenceSet) error {
	return ozzo.ValidateStruct(&set,
		ozzo.Field(&set.Theme, ozzo.Required, ozzo.In(entity.ThemeDark, entity.ThemeLight)),
		ozzo.Field(&set.FontSize, fontSizeRules()...),
		ozzo.Field(&set.Language, ozzo.Required, ozzo.By(languageRule)),
		ozzo.Field(&set.PageWidth, ozzo.Required, ozzo.In(r.widthValues()...)),
	)
}

// Normalize replaces every invalid field with its default and reports the
// fields it replaced.
func (r *PreferenceRules) Normalize(set entity.PreferenceSet) (entity.PreferenceSet, []entity.Field) {
	defaults := entity.DefaultPreferences()
	var replaced []entity.Field

	if _, err := entity.ParseTheme(string(set.Theme)); err != nil {
		set.Theme = defaults.Theme
		replaced = append(replaced, entity.FieldTheme)
	}
	if ozzo.Validate(set.FontSize, fontSizeRules()...) != nil {
		set.FontSize = defaults.FontSize
		replaced = append(replaced, entity.FieldFontSize)
	}
	if lang, err := CanonicalLanguage(set.Language); err != nil {
		set.Language = defaults.Language
		replaced = append(replaced, entity.FieldLanguage)
	} else {
		set.Language = lang
	}
	if _, err := r.PageWidth(string(set.PageWidth)); err != nil {
		set.PageWidth = defaults.PageWidth
		replaced = append(replaced, entity.FieldPageWidth)
	}
	return set, replaced
}

// PageWidth validates a raw page width value.
func (r *PreferenceRules) PageWidth(raw string) (entity.PageWidth, error) {
	w := entity.PageWidth(strings.TrimSpace(raw))
	if err := ozzo.Validate(w, ozzo.Required, ozzo.In(r.widthValues()...)); err != nil {
		return "", fmt.Errorf("page width must be one of %s", r.widthList())
	}
	return w, nil
}

// CanonicalLanguage parses a BCP 47 language tag and returns its canonical form.
func CanonicalLanguage(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("language cannot be empty")
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("not a BCP 47 language tag: %w", err)
	}
	if tag == language.Und {
		return "", errors.New("language is undetermined")
	}
	return tag.String(), nil
}

func languageRule(value interface{}) error {
	s, _ := value.(string)
	_, err := CanonicalLanguage(s)
	return err
}

func fontSizeRules() []ozzo.Rule {
	return []ozzo.Rule{
		ozzo.Required,
		ozzo.Min(entity.FontSizeMin),
		ozzo.Max(entity.FontSizeMax),
		ozzo.By(func(value interface{}) error {
			n, _ := value.(int)
			if !entity.ValidFontSize(n) {
				return fmt.Errorf("must be a multiple of %d", entity.FontSizeStep)
			}
			return nil
		}),
	}
}

func (r *PreferenceRules) widthValues() []interface{} {
	values := make([]interface{}, len(r.widths))
	for i, w := range r.widths {
		values[i] = w
	}
	return values
}

func (r *PreferenceRules) widthList() string {
	names := make([]string, len(r.widths))
	for i, w := range r.widths {
		names[i] = string(w)
	}
	return strings.Join(names, ", ")
}
