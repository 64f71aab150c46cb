package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bnema/folio/internal/cli"
	"github.com/bnema/folio/internal/cli/styles"
	"github.com/bnema/folio/internal/infrastructure/config"
	"github.com/bnema/folio/internal/logging"
)

var schemaWrite bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Show where folio keeps its files and print the configuration schema.`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config, schema and storage locations",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the config file",
	Long: `Print the JSON schema of the config file.

With --write the schema is saved as config.schema.json next to the config
file, where editors with TOML schema support pick it up.`,
	Args: cobra.NoArgs,
	RunE: runConfigSchema,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd, configSchemaCmd)
	configSchemaCmd.Flags().BoolVar(&schemaWrite, "write", false, "write config.schema.json to the config directory")
}

func runConfigPath(_ *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	renderer := styles.NewConfigRenderer(a.Theme)
	if a.ConfigErr != nil {
		fmt.Println(renderer.RenderError(a.ConfigErr))
	}

	paths := styles.ConfigPaths{
		Driver:  string(a.Config.Storage.Driver),
		Storage: a.Config.Storage.Path,
	}
	if a.Manager != nil {
		paths.ConfigFile = a.Manager.GetConfigFile()
	}
	if paths.ConfigFile == "" {
		paths.ConfigFile, _ = config.GetConfigFile()
	}
	if paths.ConfigFile != "" {
		paths.Schema = filepath.Join(filepath.Dir(paths.ConfigFile), "config.schema.json")
	}
	paths.DataDir, _ = config.GetDataDir()
	paths.StorageStatus = storageStatus(a)

	fmt.Println(renderer.RenderPaths(paths))
	return nil
}

// storeInspector is implemented by stores that can describe their contents.
type storeInspector interface {
	SchemaVersion(ctx context.Context) (int64, error)
	All(ctx context.Context) (map[string]string, error)
}

// storageStatus summarizes an existing sqlite database. It never creates one.
func storageStatus(a *cli.App) string {
	if a.Config.Storage.Driver != config.StorageSQLite {
		return ""
	}
	if _, err := os.Stat(a.Config.Storage.Path); err != nil {
		return "not created yet"
	}
	store, err := a.Store()
	if err != nil {
		return "unreadable"
	}
	inspector, ok := store.(storeInspector)
	if !ok {
		return ""
	}

	ctx := a.Ctx()
	version, err := inspector.SchemaVersion(ctx)
	if err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("failed to read schema version")
		return "unreadable"
	}
	stored, err := inspector.All(ctx)
	if err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("failed to list preferences")
		return fmt.Sprintf("schema v%d", version)
	}
	return fmt.Sprintf("schema v%d, %d stored", version, len(stored))
}

func runConfigSchema(_ *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	renderer := styles.NewConfigRenderer(a.Theme)

	if schemaWrite {
		if err := config.GenerateSchemaFile(); err != nil {
			fmt.Println(renderer.RenderError(err))
			return err
		}
		dir, _ := config.GetConfigDir()
		fmt.Println(renderer.RenderSchemaWritten(filepath.Join(dir, "config.schema.json")))
		return nil
	}

	data, err := config.Schema()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(data))
	return err
}
