package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/folio/internal/application/usecase"
	"github.com/bnema/folio/internal/cli"
	"github.com/bnema/folio/internal/cli/styles"
	"github.com/bnema/folio/internal/domain/entity"
	"github.com/bnema/folio/internal/infrastructure/persistence/sqlite"
)

var (
	prefsJSON    bool
	historyLimit int
)

const defaultHistoryLimit = 20

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Inspect and edit stored preferences",
	Long: `Read and write the preferences kept in the configured store.

Every change is validated, applied and persisted exactly as it would be from
the settings panel of the page.`,
}

var prefsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every preference",
	Args:  cobra.NoArgs,
	RunE:  runPrefsList,
}

var prefsGetCmd = &cobra.Command{
	Use:   "get <field>",
	Short: "Print one preference value",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrefsGet,
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <field> <value>",
	Short: "Change one preference",
	Long: `Change one preference.

Examples:
  folio prefs set theme light
  folio prefs set fontSize 20
  folio prefs set language fr`,
	Args: cobra.ExactArgs(2),
	RunE: runPrefsSet,
}

var prefsToggleCmd = &cobra.Command{
	Use:   "toggle <field>",
	Short: "Flip a boolean preference or the theme",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrefsToggle,
}

var prefsFontCmd = &cobra.Command{
	Use:       "font <up|down>",
	Short:     "Step the font size",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"up", "down"},
	RunE:      runPrefsFont,
}

var prefsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore every preference to its default",
	Args:  cobra.NoArgs,
	RunE:  runPrefsReset,
}

var prefsHistoryCmd = &cobra.Command{
	Use:   "history <field>",
	Short: "Show the change log of a preference (sqlite store only)",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrefsHistory,
}

func init() {
	rootCmd.AddCommand(prefsCmd)
	prefsCmd.AddCommand(prefsListCmd, prefsGetCmd, prefsSetCmd, prefsToggleCmd, prefsFontCmd, prefsResetCmd, prefsHistoryCmd)

	prefsListCmd.Flags().BoolVar(&prefsJSON, "json", false, "output as JSON")
	prefsHistoryCmd.Flags().IntVar(&historyLimit, "limit", defaultHistoryLimit, "maximum entries to show")

	fieldCompletion := func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		keys := make([]string, 0, len(entity.AllFields()))
		for _, f := range entity.AllFields() {
			keys = append(keys, f.Key())
		}
		return keys, cobra.ShellCompDirectiveNoFileComp
	}
	prefsGetCmd.ValidArgsFunction = fieldCompletion
	prefsSetCmd.ValidArgsFunction = fieldCompletion
	prefsToggleCmd.ValidArgsFunction = func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return toggleFields(), cobra.ShellCompDirectiveNoFileComp
	}
	prefsHistoryCmd.ValidArgsFunction = fieldCompletion
}

// toggleFields lists the fields prefs toggle accepts: the booleans and the theme.
func toggleFields() []string {
	keys := []string{entity.FieldTheme.Key()}
	for _, f := range entity.AllFields() {
		if f.IsBool() {
			keys = append(keys, f.Key())
		}
	}
	return keys
}

// loadPreferences opens the store, loads the stored set and switches the
// CLI palette to the stored theme.
func loadPreferences() (*cli.App, *usecase.PreferenceController, error) {
	a, err := requireApp()
	if err != nil {
		return nil, nil, err
	}
	prefs, err := a.Preferences()
	if err != nil {
		return nil, nil, err
	}
	set := prefs.Load(a.Ctx())
	a.Theme = styles.NewTheme(set.Theme)
	return a, prefs, nil
}

func runPrefsList(_ *cobra.Command, _ []string) error {
	a, prefs, err := loadPreferences()
	if err != nil {
		return err
	}

	if prefsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(prefs.Preferences())
	}

	fmt.Println(styles.NewPrefsRenderer(a.Theme).RenderList(prefs.Preferences()))
	return nil
}

func runPrefsGet(_ *cobra.Command, args []string) error {
	a, prefs, err := loadPreferences()
	if err != nil {
		return err
	}
	field, err := entity.ParseField(args[0])
	if err != nil {
		return err
	}

	fmt.Println(styles.NewPrefsRenderer(a.Theme).RenderValue(prefs.Preferences(), field))
	return nil
}

func runPrefsSet(_ *cobra.Command, args []string) error {
	a, prefs, err := loadPreferences()
	if err != nil {
		return err
	}
	field, err := entity.ParseField(args[0])
	if err != nil {
		return err
	}

	return applyChange(a, prefs, field, func(ctx context.Context) error {
		return prefs.SetField(ctx, field, args[1])
	})
}

func runPrefsToggle(_ *cobra.Command, args []string) error {
	a, prefs, err := loadPreferences()
	if err != nil {
		return err
	}
	field, err := entity.ParseField(args[0])
	if err != nil {
		return err
	}

	return applyChange(a, prefs, field, func(ctx context.Context) error {
		return prefs.Toggle(ctx, field)
	})
}

func runPrefsFont(_ *cobra.Command, args []string) error {
	a, prefs, err := loadPreferences()
	if err != nil {
		return err
	}
	renderer := styles.NewPrefsRenderer(a.Theme)

	var (
		changed bool
		bound   string
	)
	switch strings.ToLower(args[0]) {
	case "up", "+":
		changed, bound = prefs.IncreaseFontSize(a.Ctx()), "maximum"
	case "down", "-":
		changed, bound = prefs.DecreaseFontSize(a.Ctx()), "minimum"
	default:
		return fmt.Errorf("expected up or down, got %q", args[0])
	}

	value := prefs.Preferences().Value(entity.FieldFontSize)
	if !changed {
		fmt.Println(renderer.RenderUnchanged(entity.FieldFontSize, value, bound))
		return nil
	}
	if err := unsaved(prefs, entity.FieldFontSize); err != nil {
		fmt.Println(renderer.RenderError(err))
		return err
	}
	fmt.Println(renderer.RenderChanged(entity.FieldFontSize, value))
	return nil
}

func runPrefsReset(_ *cobra.Command, _ []string) error {
	a, prefs, err := loadPreferences()
	if err != nil {
		return err
	}
	renderer := styles.NewPrefsRenderer(a.Theme)

	if err := prefs.Reset(a.Ctx()); err != nil {
		fmt.Println(renderer.RenderError(err))
		return err
	}
	fmt.Println(renderer.RenderReset())
	return nil
}

// changeLog is implemented by stores that keep a per-key history.
type changeLog interface {
	Changes(ctx context.Context, key string, limit int) ([]sqlite.PreferenceChange, error)
}

func runPrefsHistory(_ *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	field, err := entity.ParseField(args[0])
	if err != nil {
		return err
	}
	store, err := a.Store()
	if err != nil {
		return fmt.Errorf("failed to open preference store: %w", err)
	}
	log, ok := store.(changeLog)
	if !ok {
		return fmt.Errorf("history requires the sqlite driver, configured driver is %s", a.Config.Storage.Driver)
	}

	changes, err := log.Changes(a.Ctx(), field.Key(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	rows := make([]styles.PreferenceChange, 0, len(changes))
	for _, c := range changes {
		rows = append(rows, styles.PreferenceChange{Value: c.Value, Deleted: c.Deleted, ChangedAt: c.ChangedAt})
	}
	fmt.Println(styles.NewPrefsRenderer(a.Theme).RenderHistory(field, rows))
	return nil
}

func applyChange(a *cli.App, prefs *usecase.PreferenceController, field entity.Field, change func(ctx context.Context) error) error {
	renderer := styles.NewPrefsRenderer(a.Theme)
	if err := change(a.Ctx()); err != nil {
		fmt.Println(renderer.RenderError(err))
		return err
	}
	if err := unsaved(prefs, field); err != nil {
		fmt.Println(renderer.RenderError(err))
		return err
	}
	fmt.Println(renderer.RenderChanged(field, prefs.Preferences().Value(field)))
	return nil
}

// unsaved reports a change the store did not keep. The controller only logs
// it, but a command that changed nothing durable must fail.
func unsaved(prefs *usecase.PreferenceController, field entity.Field) error {
	if err := prefs.PersistError(); err != nil {
		return fmt.Errorf("%s was not saved: %w", field.Key(), err)
	}
	return nil
}
