// Package cmd provides Cobra CLI commands for folio.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/folio/internal/cli"
	"github.com/bnema/folio/internal/domain/build"
)

var (
	app        *cli.App
	buildInfo  build.Info
	configFile string
	rootCmd    = &cobra.Command{
		Use:   "folio",
		Short: "Preference controller for a single-page portfolio",
		Long: `Folio drives the visitor preferences of a single-page portfolio.

It owns the ten page preferences (theme, font size, motion, contrast,
screen reader, analytics, cookies, language and page width), keeps them
in a persistent store and applies them to the page markup.

Features:
  - Stores preferences in memory, SQLite, Redis or a localStorage snapshot
  - Renders the portfolio page with the stored preferences applied
  - Hosts the page in a JavaScript runtime for client-side behavior
  - Interactive settings panel in the terminal

Use 'folio render' to produce the page, 'folio prefs' to inspect and edit
preferences, or 'folio panel' for the interactive settings panel.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion", "version":
				return nil
			}

			var err error
			app, err = cli.NewApp(cli.Options{ConfigFile: configFile})
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			// Set build info from main.go
			app.BuildInfo = buildInfo
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default $XDG_CONFIG_HOME/folio/config.toml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}

func requireApp() (*cli.App, error) {
	a := GetApp()
	if a == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	return a, nil
}
