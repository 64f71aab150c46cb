package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/folio/internal/cli/styles"
	"github.com/bnema/folio/internal/domain/entity"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"about"},
	Short:   "Show version and build information",
	Long:    `Display version, build info and repository URL.`,
	Args:    cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		renderer := styles.NewAboutRenderer(styles.NewTheme(entity.ThemeDark))
		fmt.Println(renderer.Render(buildInfo.Resolve()))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
