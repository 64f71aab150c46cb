package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateXDG points the XDG dirs at a temp directory for the duration of a test.
func isolateXDG(t *testing.T) (configDir, dataDir string) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("ENV", "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	return filepath.Join(root, "config", appName), filepath.Join(root, "data", appName)
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, dirPerm))
	path := filepath.Join(dir, configFileName)
	require.NoError(t, os.WriteFile(path, []byte(body), filePerm))
	return path
}

func TestSetDefaults(t *testing.T) {
	mgr := &Manager{viper: viper.New()}
	mgr.setDefaults()

	assert.Equal(t, "sqlite", mgr.viper.GetString("storage.driver"))
	assert.Equal(t, 250, mgr.viper.GetInt("timing.resize_debounce_ms"))
	assert.Equal(t, 100, mgr.viper.GetInt("timing.orientation_delay_ms"))
	assert.InDelta(t, 0.75, mgr.viper.GetFloat64("timing.keyboard_height_ratio"), 1e-9)
	assert.Equal(t, []string{"container", "wide", "full", "narrow"}, mgr.viper.GetStringSlice("page.widths"))
}

func TestLoad_CreatesDefaultConfig(t *testing.T) {
	configDir, dataDir := isolateXDG(t)

	mgr, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	assert.FileExists(t, filepath.Join(configDir, configFileName))
	assert.FileExists(t, filepath.Join(configDir, schemaFileName))

	cfg := mgr.Get()
	assert.Equal(t, StorageSQLite, cfg.Storage.Driver)
	assert.Equal(t, filepath.Join(dataDir, databaseName), cfg.Storage.Path)
	assert.Equal(t, 250*time.Millisecond, cfg.Timing.ResizeDebounce())
	assert.Equal(t, 100*time.Millisecond, cfg.Timing.OrientationDelay())
	assert.InDelta(t, 0.1, cfg.Observer.RevealThreshold, 1e-9)
	assert.InDelta(t, 0.5, cfg.Observer.NavThreshold, 1e-9)
}

func TestLoad_FileOverrides(t *testing.T) {
	configDir, dataDir := isolateXDG(t)
	writeConfig(t, configDir, `
[storage]
driver = "LocalStorage"

[page]
widths = ["container", " wide ", "wide", ""]

[timing]
resize_debounce_ms = 300
`)

	mgr, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	assert.Equal(t, StorageLocalStorage, cfg.Storage.Driver)
	assert.Equal(t, filepath.Join(dataDir, localStorageName), cfg.Storage.Path)
	assert.Equal(t, []string{"container", "wide"}, cfg.Page.Widths)
	assert.Equal(t, 300, cfg.Timing.ResizeDebounceMs)
	// untouched keys keep their defaults
	assert.Equal(t, 100, cfg.Timing.OrientationDelayMs)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolateXDG(t)
	t.Setenv("FOLIO_STORAGE_DRIVER", "memory")
	t.Setenv("FOLIO_LOG_LEVEL", "debug")

	mgr, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Empty(t, cfg.Storage.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_InvalidConfigReportsEveryProblem(t *testing.T) {
	configDir, _ := isolateXDG(t)
	writeConfig(t, configDir, `
[storage]
driver = "postgres"

[observer]
nav_threshold = 1.5
`)

	mgr, err := NewManager()
	require.NoError(t, err)
	err = mgr.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.driver must be one of")
	assert.Contains(t, err.Error(), "observer.nav_threshold")
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	isolateXDG(t)

	mgr, err := NewManager()
	require.NoError(t, err)
	mgr.SetConfigFile(filepath.Join(t.TempDir(), "nope.toml"))

	require.Error(t, mgr.Load())
}

func TestGet_ReturnsCopy(t *testing.T) {
	isolateXDG(t)

	mgr, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	cfg.Page.Widths[0] = "mutated"
	cfg.Storage.Driver = StorageRedis

	again := mgr.Get()
	assert.Equal(t, "container", again.Page.Widths[0])
	assert.Equal(t, StorageSQLite, again.Storage.Driver)
}

func TestGet_BeforeLoadReturnsDefaults(t *testing.T) {
	mgr := &Manager{viper: viper.New()}
	assert.Equal(t, DefaultConfig(), mgr.Get())
}

func TestWatch_ReloadsAndNotifies(t *testing.T) {
	configDir, _ := isolateXDG(t)
	path := writeConfig(t, configDir, "[timing]\nresize_debounce_ms = 250\n")

	mgr, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	changed := make(chan *Config, 4)
	mgr.OnConfigChange(func(cfg *Config) { changed <- cfg })
	require.NoError(t, mgr.Watch())
	require.NoError(t, mgr.Watch(), "second Watch is a no-op")

	require.NoError(t, os.WriteFile(path, []byte("[timing]\nresize_debounce_ms = 400\n"), filePerm))

	// A truncating write can surface as more than one event.
	deadline := time.After(5 * time.Second)
	for observed := false; !observed; {
		select {
		case cfg := <-changed:
			observed = cfg.Timing.ResizeDebounceMs == 400
		case <-deadline:
			t.Fatal("config change not observed")
		}
	}
	assert.Equal(t, 400, mgr.Get().Timing.ResizeDebounceMs)
}
