package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/folio/internal/bootstrap"
	"github.com/bnema/folio/internal/domain/repository"
	"github.com/bnema/folio/internal/infrastructure/config"
)

// setupCLI isolates the XDG dirs and writes a config using driver.
func setupCLI(t *testing.T, driver config.StorageDriver) (cfgPath, dbPath string) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("FOLIO_LOG_LEVEL", "error")

	dbPath = filepath.Join(root, "prefs.sqlite")
	cfgPath = filepath.Join(root, "folio.toml")
	body := fmt.Sprintf("[storage]\ndriver = %q\npath = %q\n", driver, dbPath)
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o644))
	return cfgPath, dbPath
}

func runCLI(t *testing.T, cfgPath string, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := rootCmd.Execute()
	if app != nil {
		_ = app.Close()
		app = nil
	}
	return err
}

func openStore(t *testing.T, dbPath string) repository.PreferenceStore {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Storage.Driver = config.StorageSQLite
	cfg.Storage.Path = dbPath

	store, cleanup, err := bootstrap.OpenStore(testContext(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return store
}

func TestPrefs_SetToggleReset(t *testing.T) {
	cfgPath, dbPath := setupCLI(t, config.StorageSQLite)

	require.NoError(t, runCLI(t, cfgPath, "prefs", "set", "fontSize", "30"))
	require.NoError(t, runCLI(t, cfgPath, "prefs", "toggle", "highcontrast"))
	require.NoError(t, runCLI(t, cfgPath, "prefs", "font", "down"))
	require.NoError(t, runCLI(t, cfgPath, "prefs", "history", "fontSize"))

	store := openStore(t, dbPath)
	ctx := testContext()

	size, ok, err := store.Get(ctx, "fontSize")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "22", size, "30 clamps to 24, then one step down")

	contrast, _, err := store.Get(ctx, "highContrast")
	require.NoError(t, err)
	assert.Equal(t, "true", contrast)

	require.NoError(t, runCLI(t, cfgPath, "prefs", "reset"))
	_, ok, err = store.Get(ctx, "fontSize")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPrefs_FailsWhenChangeIsNotSaved(t *testing.T) {
	cfgPath, _ := setupCLI(t, config.StorageSQLite)

	// the database directory is a regular file, so the store cannot open
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	dbPath := filepath.Join(blocker, "prefs.sqlite")
	body := fmt.Sprintf("[storage]\ndriver = %q\npath = %q\n", config.StorageSQLite, dbPath)
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o644))

	err := runCLI(t, cfgPath, "prefs", "set", "theme", "light")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "theme was not saved")

	err = runCLI(t, cfgPath, "prefs", "toggle", "cookies")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cookies was not saved")

	err = runCLI(t, cfgPath, "prefs", "font", "up")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fontSize was not saved")

	_, statErr := os.Stat(dbPath)
	assert.Error(t, statErr)
}

func TestToggleFields(t *testing.T) {
	fields := toggleFields()
	assert.Contains(t, fields, "theme")
	assert.Contains(t, fields, "highContrast")
	assert.NotContains(t, fields, "fontSize")
	assert.NotContains(t, fields, "language")
	assert.NotContains(t, fields, "pageWidth")
}

func TestPrefs_RejectsBadInput(t *testing.T) {
	cfgPath, dbPath := setupCLI(t, config.StorageSQLite)

	assert.Error(t, runCLI(t, cfgPath, "prefs", "set", "fontSize", "big"))
	assert.Error(t, runCLI(t, cfgPath, "prefs", "set", "colour", "red"))
	assert.Error(t, runCLI(t, cfgPath, "prefs", "toggle", "language"))
	assert.Error(t, runCLI(t, cfgPath, "prefs", "font", "sideways"))

	_, ok, err := openStore(t, dbPath).Get(testContext(), "fontSize")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPrefs_HistoryNeedsSQLite(t *testing.T) {
	cfgPath, _ := setupCLI(t, config.StorageMemory)

	err := runCLI(t, cfgPath, "prefs", "history", "theme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite")
}

func TestRoot_MissingConfigFile(t *testing.T) {
	setupCLI(t, config.StorageMemory)

	err := runCLI(t, filepath.Join(t.TempDir(), "absent.toml"), "prefs", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initialize app")
}
