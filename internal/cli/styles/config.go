package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// ConfigPaths lists the files folio reads and writes.
type ConfigPaths struct {
	ConfigFile string
	Schema     string
	DataDir    string
	Storage    string
	Driver     string
	// StorageStatus describes the store contents when it could be read.
	StorageStatus string
}

// ConfigRenderer renders config status messages with styled output.
type ConfigRenderer struct {
	theme *Theme
}

// NewConfigRenderer creates a new config renderer with the given theme.
func NewConfigRenderer(theme *Theme) *ConfigRenderer {
	return &ConfigRenderer{theme: theme}
}

// RenderPaths renders the location of every file folio uses.
func (r *ConfigRenderer) RenderPaths(p ConfigPaths) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)
	keyStyle := r.theme.Subtle
	valStyle := r.theme.Normal

	line := func(icon, label, value string) string {
		if value == "" {
			value = "-"
		}
		return fmt.Sprintf("  %s %s %s\n", iconStyle.Render(icon), keyStyle.Render(fmt.Sprintf("%-8s", label)), valStyle.Render(value))
	}

	return "\n" +
		line(IconConfig, "Config", p.ConfigFile) +
		line(IconFile, "Schema", p.Schema) +
		line(IconFolder, "Data", p.DataDir) +
		line(IconDatabase, "Storage", storageLine(p))
}

func storageLine(p ConfigPaths) string {
	s := fmt.Sprintf("%s %s", p.Driver, p.Storage)
	if p.StorageStatus != "" {
		s += " (" + p.StorageStatus + ")"
	}
	return s
}

// RenderSchemaWritten renders the confirmation of a schema file write.
func (r *ConfigRenderer) RenderSchemaWritten(path string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Success)
	return fmt.Sprintf("\n  %s Schema written to %s\n", iconStyle.Render(IconCheck), r.theme.Subtle.Render(path))
}

// RenderError renders an error message.
func (r *ConfigRenderer) RenderError(err error) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Error)

	return fmt.Sprintf(
		"\n  %s Config error: %v\n",
		iconStyle.Render(IconX),
		err,
	)
}
