// Package cli provides the folio command line application.
package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/bnema/folio/internal/application/usecase"
	"github.com/bnema/folio/internal/bootstrap"
	"github.com/bnema/folio/internal/cli/styles"
	"github.com/bnema/folio/internal/domain/build"
	"github.com/bnema/folio/internal/domain/entity"
	"github.com/bnema/folio/internal/domain/repository"
	"github.com/bnema/folio/internal/domain/validation"
	"github.com/bnema/folio/internal/infrastructure/config"
	"github.com/bnema/folio/internal/logging"
)

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	Manager   *config.Manager
	Theme     *styles.Theme
	BuildInfo build.Info

	// ConfigErr is set when the config file could not be loaded and
	// defaults are in use.
	ConfigErr error

	storeOnce    sync.Once
	store        repository.PreferenceStore
	storeCleanup func()
	storeErr     error

	ctx context.Context
}

// Options tunes NewApp.
type Options struct {
	// ConfigFile replaces the XDG config file lookup.
	ConfigFile string
}

// NewApp loads the configuration and sets up logging. The preference store
// is opened on first use.
func NewApp(opts Options) (*App, error) {
	mgr, cfg, cfgErr := loadConfig(opts.ConfigFile)
	if cfgErr != nil && opts.ConfigFile != "" {
		return nil, cfgErr
	}

	// Command output owns the terminal; info logs stay quiet unless asked for.
	logLevel := cfg.Logging.Level
	if logLevel == "" || logLevel == "info" {
		logLevel = "warn"
	}
	logger := logging.NewFromConfigValues(logLevel, cfg.Logging.Format)
	ctx := logging.WithContext(context.Background(), logger)

	if cfgErr != nil {
		logger.Warn().Err(cfgErr).Msg("using default configuration")
	}

	return &App{
		Config:    cfg,
		Manager:   mgr,
		Theme:     styles.NewTheme(entity.ThemeDark),
		ConfigErr: cfgErr,
		ctx:       ctx,
	}, nil
}

// Store opens the configured preference store once and returns it.
func (a *App) Store() (repository.PreferenceStore, error) {
	a.storeOnce.Do(func() {
		a.store, a.storeCleanup, a.storeErr = bootstrap.OpenStore(a.ctx, a.Config, nil)
	})
	return a.store, a.storeErr
}

// Preferences returns a controller over the store with no page attached.
func (a *App) Preferences() (*usecase.PreferenceController, error) {
	store, err := a.Store()
	if err != nil {
		return nil, fmt.Errorf("failed to open preference store: %w", err)
	}
	return usecase.NewPreferenceController(store, nil, nil, usecase.PreferenceOptions{
		Rules: validation.NewPreferenceRules(a.Config.PageWidths()),
	}), nil
}

// Close releases all resources.
func (a *App) Close() error {
	if a.storeCleanup != nil {
		a.storeCleanup()
		a.storeCleanup = nil
	}
	return nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// loadConfig loads configuration from path, or from the standard locations.
// On failure the defaults are returned along with the error.
func loadConfig(path string) (*config.Manager, *config.Config, error) {
	mgr, err := config.NewManager()
	if err != nil {
		return nil, defaultConfig(), err
	}
	if path != "" {
		mgr.SetConfigFile(path)
	}

	if err := mgr.Load(); err != nil {
		return mgr, defaultConfig(), err
	}

	return mgr, mgr.Get(), nil
}

// defaultConfig is the default configuration with the database placed in
// the XDG data directory.
func defaultConfig() *config.Config {
	cfg := config.DefaultConfig()
	if path, err := config.GetDatabaseFile(); err == nil {
		cfg.Storage.Path = path
	}
	return cfg
}
