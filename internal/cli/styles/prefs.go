package styles

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bnema/folio/internal/domain/entity"
)

// PreferenceChange is one row of a preference history listing.
type PreferenceChange struct {
	Value     string
	Deleted   bool
	ChangedAt time.Time
}

// PrefsRenderer renders preference listings and command results.
type PrefsRenderer struct {
	theme *Theme
	now   func() time.Time
}

// NewPrefsRenderer creates a new preferences renderer with the given theme.
func NewPrefsRenderer(theme *Theme) *PrefsRenderer {
	return &PrefsRenderer{theme: theme, now: time.Now}
}

func (r *PrefsRenderer) table() *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(r.theme.Border)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.theme.Highlight.Padding(0, 1)
			}
			return r.theme.Normal.Padding(0, 1)
		})
}

// RenderList renders every field with its value and the badge count of the
// section it belongs to.
func (r *PrefsRenderer) RenderList(set entity.PreferenceSet) string {
	t := r.table().Headers("Field", "Value", "Section")

	for _, field := range entity.AllFields() {
		section := ""
		if category, ok := entity.BadgeFor(field); ok {
			section = fmt.Sprintf("%s (%d)", category, set.BadgeCount(category))
		}
		t.Row(field.Key(), set.Value(field), section)
	}
	return t.Render()
}

// RenderValue renders a single field value, unstyled so it can be piped.
func (*PrefsRenderer) RenderValue(set entity.PreferenceSet, field entity.Field) string {
	return set.Value(field)
}

// RenderChanged renders the confirmation of a stored change.
func (r *PrefsRenderer) RenderChanged(field entity.Field, value string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Success)
	return fmt.Sprintf(
		"\n  %s %s set to %s\n",
		iconStyle.Render(IconCheck),
		r.theme.Subtle.Render(field.Key()),
		r.theme.Highlight.Render(value),
	)
}

// RenderUnchanged renders a step that hit a bound.
func (r *PrefsRenderer) RenderUnchanged(field entity.Field, value, reason string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Warning)
	return fmt.Sprintf(
		"\n  %s %s stays at %s (%s)\n",
		iconStyle.Render(IconWarning),
		r.theme.Subtle.Render(field.Key()),
		r.theme.Highlight.Render(value),
		reason,
	)
}

// RenderReset renders the confirmation of a reset.
func (r *PrefsRenderer) RenderReset() string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Success)
	return fmt.Sprintf("\n  %s Preferences restored to defaults\n", iconStyle.Render(IconCheck))
}

// RenderHistory renders the change log of a field, newest first.
func (r *PrefsRenderer) RenderHistory(field entity.Field, changes []PreferenceChange) string {
	if len(changes) == 0 {
		return fmt.Sprintf("\n  %s\n", r.theme.Subtle.Render("No changes recorded for "+field.Key()+"."))
	}

	t := r.table().Headers("Value", "When")
	for _, c := range changes {
		value := c.Value
		if c.Deleted {
			value = "(deleted)"
		}
		t.Row(value, r.relativeTime(c.ChangedAt))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n  %s %s\n", lipgloss.NewStyle().Foreground(r.theme.Accent).Render(IconClock), r.theme.Title.Render(field.Key())))
	sb.WriteString(t.Render())
	sb.WriteString("\n")
	return sb.String()
}

// RenderError renders an error message.
func (r *PrefsRenderer) RenderError(err error) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Error)
	return fmt.Sprintf("\n  %s %v\n", iconStyle.Render(IconX), err)
}

func (r *PrefsRenderer) relativeTime(tm time.Time) string {
	return RelativeTime(tm, r.now())
}

// RelativeTime formats tm relative to now.
func RelativeTime(tm, now time.Time) string {
	diff := now.Sub(tm)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 min ago"
		}
		return fmt.Sprintf("%d mins ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 48*time.Hour:
		return "yesterday"
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(diff.Hours()/24))
	default:
		return tm.Format("Jan 2, 2006")
	}
}
