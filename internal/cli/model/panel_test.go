package model

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/folio/assets"
	"github.com/bnema/folio/internal/bootstrap"
	"github.com/bnema/folio/internal/domain/entity"
	"github.com/bnema/folio/internal/domain/repository"
	"github.com/bnema/folio/internal/infrastructure/config"
	"github.com/bnema/folio/internal/infrastructure/document"
	"github.com/bnema/folio/internal/infrastructure/persistence/memory"
	"github.com/bnema/folio/internal/logging"
	"github.com/bnema/folio/internal/ui/mainloop"
)

// readOnlyStore reads through to the embedded store and refuses writes.
type readOnlyStore struct {
	*memory.Store
	err error
}

func (s readOnlyStore) Set(context.Context, string, string) error { return s.err }

func newTestPanel(t *testing.T) (PanelModel, *bootstrap.PageRuntime, *memory.Store) {
	t.Helper()
	store := memory.NewStore(nil)
	m, rt, _ := newTestPanelOver(t, store)
	return m, rt, store
}

func newTestPanelOver(t *testing.T, store repository.PreferenceStore) (PanelModel, *bootstrap.PageRuntime, *mainloop.ManualClock) {
	t.Helper()
	ctx := logging.WithContext(context.Background(), logging.NewFromConfigValues("warn", "console"))
	doc, err := document.ParseString(assets.PortfolioHTML)
	require.NoError(t, err)

	clock := mainloop.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	rt := bootstrap.NewPageRuntime(ctx, config.DefaultConfig(), doc, store, nil, bootstrap.WithClock(clock))
	t.Cleanup(rt.Close)
	rt.Start(ctx)

	return NewPanelModel(ctx, rt), rt, clock
}

// deliverChange feeds the pending change notification to the model, as the
// command returned by Init would.
func deliverChange(t *testing.T, m PanelModel) PanelModel {
	t.Helper()
	var field entity.Field
	select {
	case field = <-m.changes:
	default:
		t.Fatal("no change notification pending")
	}
	next, cmd := m.Update(preferencesChangedMsg{field: field})
	require.NotNil(t, cmd, "the model keeps listening")
	return next.(PanelModel)
}

func press(t *testing.T, m PanelModel, msgs ...tea.KeyMsg) PanelModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(PanelModel)
		require.True(t, ok)
	}
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func moveTo(t *testing.T, m PanelModel, match func(panelRow) bool) PanelModel {
	t.Helper()
	for i, row := range m.rows {
		if match(row) {
			for m.selectedIdx < i {
				m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
			}
			return m
		}
	}
	t.Fatal("row not found")
	return m
}

func fieldRow(f entity.Field) func(panelRow) bool {
	return func(r panelRow) bool { return r.field == f }
}

func TestNewPanelModel_OpensPanel(t *testing.T) {
	m, rt, _ := newTestPanel(t)

	assert.True(t, rt.Panel.IsOpen())
	assert.Len(t, m.rows, len(entity.AllFields())+len(rt.Panel.Sections()))

	view := m.View()
	assert.Contains(t, view, "Settings")
	assert.Contains(t, view, "privacy 2")
	assert.Contains(t, view, "highContrast")
}

func TestPanelModel_ToggleTheme(t *testing.T) {
	m, rt, store := newTestPanel(t)
	dark := m.theme.Accent

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, entity.ThemeLight, rt.Preferences.Preferences().Theme)
	assert.True(t, rt.Page().Body().HasClass("light-mode"))
	assert.Equal(t, dark, m.theme.Accent, "the palette follows the change notification")

	m = deliverChange(t, m)
	assert.NotEqual(t, dark, m.theme.Accent)

	stored, ok, err := store.Get(context.Background(), "theme")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "light", stored)
}

func TestPanelModel_ToggleCheckbox(t *testing.T) {
	m, rt, _ := newTestPanel(t)

	m = moveTo(t, m, fieldRow(entity.FieldHighContrast))
	m = press(t, m, keyRunes(" "))

	assert.True(t, rt.Preferences.Preferences().HighContrast)
	assert.True(t, rt.Page().Body().HasClass("high-contrast"))
	assert.Contains(t, m.View(), "accessibility 1")
}

func TestPanelModel_FontKeys(t *testing.T) {
	m, rt, _ := newTestPanel(t)

	m = press(t, m, keyRunes("+"), keyRunes("+"))
	assert.Equal(t, 20, rt.Preferences.Preferences().FontSize)

	m = press(t, m, keyRunes("-"))
	assert.Equal(t, 18, rt.Preferences.Preferences().FontSize)
	assert.Empty(t, m.statusMessage)

	m = press(t, m, keyRunes("+"), keyRunes("+"), keyRunes("+"), keyRunes("+"))
	assert.Equal(t, entity.FontSizeMax, rt.Preferences.Preferences().FontSize)
	assert.Contains(t, m.statusMessage, "24px")
}

func TestPanelModel_CycleSelects(t *testing.T) {
	m, rt, _ := newTestPanel(t)

	m = moveTo(t, m, fieldRow(entity.FieldLanguage))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, "fr", rt.Preferences.Preferences().Language)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, "pt-BR", rt.Preferences.Preferences().Language)

	m = moveTo(t, m, fieldRow(entity.FieldPageWidth))
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, entity.PageWidth("wide"), rt.Preferences.Preferences().PageWidth)
	assert.True(t, rt.Page().Body().HasClass("width-wide"))
}

func TestPanelModel_SectionsAreMutuallyExclusive(t *testing.T) {
	m, rt, _ := newTestPanel(t)
	sections := rt.Panel.Sections()
	require.GreaterOrEqual(t, len(sections), 2)

	m = moveTo(t, m, func(r panelRow) bool { return r.section == sections[0] })
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, sections[0], rt.Panel.ExpandedSection())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, sections[1], rt.Panel.ExpandedSection())

	el, ok := rt.Page().ElementByID(sections[0])
	require.True(t, ok)
	assert.False(t, el.HasClass("expanded"))

	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, rt.Panel.ExpandedSection())
}

func TestPanelModel_ResetRestoresDefaults(t *testing.T) {
	m, rt, store := newTestPanel(t)

	m = press(t, m, keyRunes("+"), tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, 18, rt.Preferences.Preferences().FontSize)

	press(t, m, keyRunes("R"))
	assert.Equal(t, entity.DefaultPreferences(), rt.Preferences.Preferences())
	assert.Empty(t, store.Snapshot())
}

func TestPanelModel_EscapeClosesAndQuits(t *testing.T) {
	m, rt, _ := newTestPanel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.False(t, rt.Panel.IsOpen())
}

func TestPanelModel_InitWaitsForChanges(t *testing.T) {
	m, rt, _ := newTestPanel(t)
	cmd := m.Init()
	require.NotNil(t, cmd)

	rt.Loop.Post(func() {
		require.NoError(t, rt.Preferences.SetField(context.Background(), entity.FieldCookies, "false"))
	})
	rt.Loop.RunPending()

	msg := cmd()
	assert.Equal(t, preferencesChangedMsg{field: entity.FieldCookies}, msg)
}

func TestPanelModel_ReportsUnsavedChange(t *testing.T) {
	m, _, _ := newTestPanelOver(t, readOnlyStore{Store: memory.NewStore(nil), err: errors.New("read-only storage")})

	m = moveTo(t, m, fieldRow(entity.FieldScreenReader))
	m = press(t, m, keyRunes(" "))
	m = deliverChange(t, m)

	assert.Contains(t, m.statusMessage, "screenReader applied but not saved")
	assert.Contains(t, m.statusMessage, "read-only storage")
}

func TestPanelModel_RotateClosesPanelAfterDelay(t *testing.T) {
	m, rt, clock := newTestPanelOver(t, memory.NewStore(nil))
	require.True(t, rt.Panel.IsOpen())

	next, cmd := m.Update(keyRunes("o"))
	m = next.(PanelModel)
	require.NotNil(t, cmd)
	assert.Contains(t, m.statusMessage, "landscape")
	assert.True(t, rt.Panel.IsOpen(), "orientation is handled after a delay")

	clock.Advance(rt.SettleDelay())
	next, _ = m.Update(pageSettledMsg{})
	m = next.(PanelModel)

	assert.False(t, rt.Panel.IsOpen())
	assert.True(t, rt.Page().Body().HasClass("landscape"))
	assert.Equal(t, entity.OrientationLandscape, rt.Viewport.Orientation())
	assert.Contains(t, m.statusMessage, "closed the panel")

	m = press(t, m, keyRunes("s"))
	assert.True(t, rt.Panel.IsOpen())
	assert.Empty(t, m.statusMessage)
}
