package cmd

import (
	"bytes"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/folio/internal/bootstrap"
	"github.com/bnema/folio/internal/cli/model"
	"github.com/bnema/folio/internal/logging"
)

var panelFlags struct {
	html string
	out  string
}

var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Open the settings panel in the terminal",
	Long: `Interactive settings panel over the portfolio page.

Every change goes through the page exactly as a click in the browser would:
it is validated, applied to the page, reflected in the badges and persisted.
With --out the page is written with the final preferences on exit.`,
	Args: cobra.NoArgs,
	RunE: runPanel,
}

func init() {
	rootCmd.AddCommand(panelCmd)
	panelCmd.Flags().StringVar(&panelFlags.html, "html", "", "page markup (default page.html from config, or the embedded page)")
	panelCmd.Flags().StringVarP(&panelFlags.out, "out", "o", "", "write the page here on exit")
}

func runPanel(_ *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	ctx := logging.WithPage(logging.WithComponent(a.Ctx(), "panel"), pageName(panelFlags.html, a.Config))

	res, err := bootstrap.RunParallelInit(ctx, bootstrap.ParallelInitInput{
		Config:   a.Config,
		Engine:   bootstrap.EngineHTML,
		HTMLPath: panelFlags.html,
	})
	if err != nil {
		return err
	}
	defer res.Cleanup()

	rt := bootstrap.NewPageRuntime(ctx, a.Config, res.Page, res.Store, nil)
	defer rt.Close()
	rt.Start(ctx)

	p := tea.NewProgram(model.NewPanelModel(ctx, rt), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run panel: %w", err)
	}

	if panelFlags.out == "" {
		return nil
	}
	var buf bytes.Buffer
	if err := res.Document.Write(ctx, &buf); err != nil {
		return err
	}
	return writeOutput(panelFlags.out, buf.Bytes())
}
