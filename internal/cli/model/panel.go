// Package model provides Bubble Tea models for CLI commands.
package model

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/folio/internal/bootstrap"
	"github.com/bnema/folio/internal/cli/styles"
	"github.com/bnema/folio/internal/domain/entity"
	"github.com/bnema/folio/internal/logging"
)

// preferencesChangedMsg is delivered after the page applied a preference
// change. field is empty when the whole set changed.
type preferencesChangedMsg struct {
	field entity.Field
}

// pageSettledMsg is delivered once deferred page work (debounced resize,
// orientation) has had time to come due.
type pageSettledMsg struct{}

// panelRow is either a preference field or an expandable section.
type panelRow struct {
	field   entity.Field
	section string
}

// PanelModel is the Bubble Tea model for the interactive settings panel.
// Every action is delivered to the page runtime as the page event a visitor
// would cause, then the runtime loop is drained before redrawing.
type PanelModel struct {
	// UI components
	help help.Model
	keys styles.PanelKeyMap

	// State
	rows          []panelRow
	selectedIdx   int
	width         int
	height        int
	statusMessage string

	// Dependencies
	ctx     context.Context
	rt      *bootstrap.PageRuntime
	theme   *styles.Theme
	changes chan entity.Field
}

// NewPanelModel creates a panel model over rt and opens the settings panel.
// rt must already be started.
func NewPanelModel(ctx context.Context, rt *bootstrap.PageRuntime) PanelModel {
	rows := make([]panelRow, 0, len(entity.AllFields())+3)
	for _, f := range entity.AllFields() {
		rows = append(rows, panelRow{field: f})
	}
	for _, s := range rt.Panel.Sections() {
		rows = append(rows, panelRow{section: s})
	}

	theme := styles.NewTheme(rt.Preferences.Preferences().Theme)
	m := PanelModel{
		help:    styles.NewStyledHelp(theme),
		keys:    styles.DefaultPanelKeyMap(),
		rows:    rows,
		width:   80,
		height:  24,
		ctx:     ctx,
		rt:      rt,
		theme:   theme,
		changes: make(chan entity.Field, 1),
	}

	// Listeners run on the page loop, so never block it: one pending
	// notification is enough since the model re-reads the current set.
	changes := m.changes
	rt.Preferences.OnChange(func(field entity.Field, _ entity.PreferenceSet) {
		select {
		case changes <- field:
		default:
		}
	})

	rt.HandleClick(bootstrap.Click{TargetID: rt.Bindings.IDs().SettingsButton})
	m.drain()
	return m
}

// Init implements tea.Model.
func (m PanelModel) Init() tea.Cmd {
	return waitForChange(m.changes)
}

func waitForChange(changes <-chan entity.Field) tea.Cmd {
	return func() tea.Msg {
		return preferencesChangedMsg{field: <-changes}
	}
}

// Update implements tea.Model.
func (m PanelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case preferencesChangedMsg:
		m.preferencesChanged(msg.field)
		return m, waitForChange(m.changes)

	case pageSettledMsg:
		m.drain()
		if !m.rt.Panel.IsOpen() {
			m.statusMessage = fmt.Sprintf("Rotated to %s, the page closed the panel (s reopens it)", m.rt.Viewport.Orientation())
		}
		return m, nil
	}
	return m, nil
}

// preferencesChanged follows the page theme and reports changes the store
// did not keep.
func (m *PanelModel) preferencesChanged(field entity.Field) {
	if theme := styles.NewTheme(m.rt.Preferences.Preferences().Theme); theme.Accent != m.theme.Accent {
		m.theme = theme
		m.help = styles.NewStyledHelp(theme)
		m.help.Width = m.width
	}
	if err := m.rt.Preferences.PersistError(); err != nil {
		name := "preferences"
		if field != "" {
			name = field.Key()
		}
		m.statusMessage = fmt.Sprintf("%s applied but not saved: %v", name, err)
	}
}

func (m PanelModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Close):
		m.rt.HandleKey(entity.KeyEscape)
		m.drain()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.selectedIdx > 0 {
			m.selectedIdx--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.selectedIdx < len(m.rows)-1 {
			m.selectedIdx++
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		m.toggle()

	case key.Matches(msg, m.keys.Next):
		m.cycle(1)

	case key.Matches(msg, m.keys.Prev):
		m.cycle(-1)

	case key.Matches(msg, m.keys.FontUp):
		m.clickFont(m.rt.Bindings.IDs().FontIncrease)

	case key.Matches(msg, m.keys.FontDown):
		m.clickFont(m.rt.Bindings.IDs().FontDecrease)

	case key.Matches(msg, m.keys.Reset):
		m.rt.Loop.Post(func() {
			if err := m.rt.Preferences.Reset(m.ctx); err != nil {
				logging.FromContext(m.ctx).Warn().Err(err).Msg("reset incomplete")
			}
		})
		m.statusMessage = "Preferences restored to defaults"

	case key.Matches(msg, m.keys.Rotate):
		return m.rotate()

	case key.Matches(msg, m.keys.Open):
		m.rt.HandleClick(bootstrap.Click{TargetID: m.rt.Bindings.IDs().SettingsButton})
		m.statusMessage = ""

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	default:
		return m, nil
	}

	m.drain()
	return m, nil
}

// drain runs the queued page events.
func (m *PanelModel) drain() {
	m.rt.Loop.RunPending()
}

func (m *PanelModel) selected() panelRow {
	return m.rows[m.selectedIdx]
}

// toggle flips the selected checkbox, or expands the selected section.
func (m *PanelModel) toggle() {
	row := m.selected()
	if row.section != "" {
		m.rt.HandleClick(bootstrap.Click{Ancestors: []string{row.section}, ExpandButton: true})
		m.statusMessage = ""
		return
	}

	switch row.field {
	case entity.FieldFontSize:
		m.statusMessage = "Use + and - to change the text size"
		return
	case entity.FieldLanguage, entity.FieldPageWidth:
		m.cycle(1)
		return
	}

	control := m.rt.Bindings.Control(row.field)
	if control == nil {
		m.statusMessage = fmt.Sprintf("%s has no control on this page", row.field.Key())
		return
	}
	control.SetChecked(!control.Checked())
	m.rt.HandleControlChange(control.ID())
	m.statusMessage = ""
}

// cycle selects the next or previous option of the selected select control.
func (m *PanelModel) cycle(step int) {
	row := m.selected()
	if row.field != entity.FieldLanguage && row.field != entity.FieldPageWidth {
		return
	}
	control := m.rt.Bindings.Control(row.field)
	if control == nil {
		return
	}
	options := m.options(control.ID())
	if len(options) == 0 {
		return
	}

	i := slices.Index(options, control.Value())
	i = (i + step + len(options)) % len(options)
	control.SetValue(options[i])
	m.rt.HandleControlChange(control.ID())
	m.statusMessage = ""
}

func (m *PanelModel) options(controlID string) []string {
	elements := m.rt.Page().QueryAll("#" + controlID + " option")
	out := make([]string, 0, len(elements))
	for _, el := range elements {
		if v, ok := el.Attribute("value"); ok {
			out = append(out, v)
			continue
		}
		out = append(out, strings.TrimSpace(el.Text()))
	}
	return out
}

func (m *PanelModel) clickFont(id string) {
	before := m.rt.Preferences.Preferences().FontSize
	m.rt.HandleClick(bootstrap.Click{TargetID: id})
	m.rt.Loop.RunPending()
	if m.rt.Preferences.Preferences().FontSize == before {
		m.statusMessage = fmt.Sprintf("Text size stays at %dpx", before)
		return
	}
	m.statusMessage = ""
}

// rotate turns the simulated device a quarter turn. The page handles the
// orientation change after a delay, so the redraw waits for pageSettledMsg.
func (m PanelModel) rotate() (tea.Model, tea.Cmd) {
	angle := 90
	next := entity.OrientationLandscape
	if m.rt.Viewport.Orientation() == entity.OrientationLandscape {
		angle, next = 0, entity.OrientationPortrait
	}
	m.rt.HandleOrientation(angle)
	m.rt.HandleResize()
	m.drain()
	m.statusMessage = fmt.Sprintf("Rotating to %s", next)

	return m, tea.Tick(m.rt.SettleDelay(), func(time.Time) tea.Msg {
		return pageSettledMsg{}
	})
}

// View implements tea.Model.
func (m PanelModel) View() string {
	t := m.theme
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.statusMessage != "" {
		b.WriteString(t.Subtle.Render("  " + m.statusMessage))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderRows())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m PanelModel) renderHeader() string {
	t := m.theme

	iconStyle := lipgloss.NewStyle().Foreground(t.Accent)
	icon := iconStyle.Render(styles.IconSliders)
	title := t.Title.MarginLeft(1).Render("Settings")

	prefs := m.rt.Preferences.Preferences()
	badges := make([]string, 0, 3)
	for _, category := range entity.AllBadgeCategories() {
		style := t.Badge
		count := prefs.BadgeCount(category)
		if count == 0 {
			style = t.BadgeMuted
		}
		badges = append(badges, style.Render(fmt.Sprintf("%s %d", category, count)))
	}

	state := t.Subtle.Render("  " + m.rt.Panel.State().String())
	return icon + title + state + "  " + strings.Join(badges, " ")
}

func (m PanelModel) renderRows() string {
	t := m.theme
	prefs := m.rt.Preferences.Preferences()
	expanded := m.rt.Panel.ExpandedSection()

	var b strings.Builder
	for i, row := range m.rows {
		if i > 0 && row.section != "" && m.rows[i-1].section == "" {
			b.WriteString("\n")
		}

		cursor := "  "
		style := t.ListItem
		if i == m.selectedIdx {
			cursor = t.Highlight.Render(styles.IconCursor) + " "
			style = t.ListItemSelected
		}

		var line string
		if row.section != "" {
			icon := styles.IconCollapse
			if row.section == expanded {
				icon = styles.IconExpand
			}
			line = fmt.Sprintf("%s %s", icon, row.section)
		} else {
			line = m.renderField(prefs, row.field)
		}
		b.WriteString(cursor + style.Render(line) + "\n")
	}
	return b.String()
}

func (m PanelModel) renderField(prefs entity.PreferenceSet, field entity.Field) string {
	label := fmt.Sprintf("%-17s", field.Key())

	if value, ok := prefs.Bool(field); ok {
		return fmt.Sprintf("%s %s", checkbox(value), label)
	}
	switch field {
	case entity.FieldTheme:
		return fmt.Sprintf("%s %s %s", checkbox(prefs.Theme == entity.ThemeLight), label, prefs.Theme)
	case entity.FieldFontSize:
		return fmt.Sprintf("  %s %dpx", label, prefs.FontSize)
	default:
		return fmt.Sprintf("  %s < %s >", label, prefs.Value(field))
	}
}

func checkbox(on bool) string {
	if on {
		return styles.IconCheckboxChecked
	}
	return styles.IconCheckboxEmpty
}
