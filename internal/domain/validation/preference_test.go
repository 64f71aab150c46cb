package validation

import (
	"testing"

	"github.com/bnema/folio/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferenceRules_ValidateDefaults(t *testing.T) {
	rules := NewPreferenceRules(nil)
	require.NoError(t, rules.Validate(entity.DefaultPreferences()))
}

func TestPreferenceRules_ValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*entity.PreferenceSet)
		field  string
	}{
		{"theme", func(p *entity.PreferenceSet) { p.Theme = "sepia" }, "theme"},
		{"font too small", func(p *entity.PreferenceSet) { p.FontSize = 10 }, "fontSize"},
		{"font odd", func(p *entity.PreferenceSet) { p.FontSize = 15 }, "fontSize"},
		{"language", func(p *entity.PreferenceSet) { p.Language = "not a tag!" }, "language"},
		{"page width", func(p *entity.PreferenceSet) { p.PageWidth = "huge" }, "pageWidth"},
	}

	rules := NewPreferenceRules(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := entity.DefaultPreferences()
			tt.mutate(&set)
			err := rules.Validate(set)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestPreferenceRules_Normalize(t *testing.T) {
	rules := NewPreferenceRules([]entity.PageWidth{"container", "full"})
	set := entity.DefaultPreferences()
	set.Theme = "sepia"
	set.FontSize = 30
	set.Language = "pt-br"
	set.PageWidth = "narrow"
	set.HighContrast = true

	got, replaced := rules.Normalize(set)

	assert.Equal(t, entity.ThemeDark, got.Theme)
	assert.Equal(t, 16, got.FontSize)
	assert.Equal(t, "pt-BR", got.Language)
	assert.Equal(t, entity.PageWidthContainer, got.PageWidth)
	assert.True(t, got.HighContrast)
	assert.ElementsMatch(t, []entity.Field{entity.FieldTheme, entity.FieldFontSize, entity.FieldPageWidth}, replaced)
}

func TestCanonicalLanguage(t *testing.T) {
	got, err := CanonicalLanguage("EN-us")
	require.NoError(t, err)
	assert.Equal(t, "en-US", got)

	got, err = CanonicalLanguage(" fr ")
	require.NoError(t, err)
	assert.Equal(t, "fr", got)

	_, err = CanonicalLanguage("")
	assert.Error(t, err)
	_, err = CanonicalLanguage("und")
	assert.Error(t, err)
	_, err = CanonicalLanguage("en_US!!")
	assert.Error(t, err)
}

func TestPageWidth(t *testing.T) {
	rules := NewPreferenceRules(nil)

	w, err := rules.PageWidth("wide")
	require.NoError(t, err)
	assert.Equal(t, entity.PageWidth("wide"), w)

	_, err = rules.PageWidth("gigantic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "container")
}
