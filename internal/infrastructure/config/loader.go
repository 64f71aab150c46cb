package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
	explicit  bool
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
	}
	v.AddConfigPath(configDir)
	v.AddConfigPath(".") // Current directory for development

	// FOLIO_STORAGE_DRIVER, FOLIO_TIMING_RESIZE_DEBOUNCE_MS, ...
	v.SetEnvPrefix("FOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Shorter names shared with logging.NewFromEnv
	if err := v.BindEnv("logging.level", "FOLIO_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind FOLIO_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "FOLIO_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind FOLIO_LOG_FORMAT: %w", err)
	}

	return &Manager{
		viper:     v,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// SetConfigFile pins the manager to an explicit file instead of the XDG search path.
// A missing explicit file is an error rather than being created.
func (m *Manager) SetConfigFile(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.viper.SetConfigFile(path)
	m.explicit = true
}

// Load loads the configuration from file and environment variables.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}

	config, err := m.unmarshalConfig()
	if err != nil {
		return err
	}
	if err := resolveStoragePath(config); err != nil {
		return err
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.config = config
	return nil
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var configFileNotFoundError viper.ConfigFileNotFoundError
	if m.explicit || !errors.As(err, &configFileNotFoundError) {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if createErr := m.createDefaultConfig(); createErr != nil {
		configDir, _ := GetConfigDir()
		return fmt.Errorf(
			"failed to create default config at %s: %w\nTry creating the directory manually or check permissions",
			configDir,
			createErr,
		)
	}
	if rereadErr := m.viper.ReadInConfig(); rereadErr != nil {
		return fmt.Errorf(
			"failed to read newly created config file: %w\nThe config file was created but couldn't be read. Please check the file format",
			rereadErr,
		)
	}
	return nil
}

func (m *Manager) unmarshalConfig() (*Config, error) {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w\nPlease check your config file syntax (TOML format)", err)
	}
	return config, nil
}

// resolveStoragePath fills the file-backed store path when none is configured.
func resolveStoragePath(config *Config) error {
	if config.Storage.Path != "" {
		return nil
	}

	var (
		path string
		err  error
	)
	switch StorageDriver(strings.ToLower(strings.TrimSpace(string(config.Storage.Driver)))) {
	case StorageSQLite:
		path, err = GetDatabaseFile()
	case StorageLocalStorage:
		path, err = GetLocalStorageFile()
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get storage path: %w", err)
	}
	config.Storage.Path = path
	return nil
}

func normalizeConfig(config *Config) {
	config.Storage.Driver = StorageDriver(strings.ToLower(strings.TrimSpace(string(config.Storage.Driver))))
	if config.Storage.Driver == "" {
		config.Storage.Driver = StorageSQLite
	}
	config.Storage.RedisAddr = strings.TrimSpace(config.Storage.RedisAddr)

	widths := make([]string, 0, len(config.Page.Widths))
	seen := make(map[string]bool, len(config.Page.Widths))
	for _, w := range config.Page.Widths {
		w = strings.TrimSpace(w)
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		widths = append(widths, w)
	}
	if len(widths) == 0 {
		widths = DefaultConfig().Page.Widths
	}
	config.Page.Widths = widths

	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	config.Logging.Format = strings.ToLower(strings.TrimSpace(config.Logging.Format))
	if config.Logging.Format == "text" {
		config.Logging.Format = "console"
	}
}

// Get returns the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}

	// Return a copy to prevent external modification
	configCopy := *m.config
	configCopy.Page.Widths = append([]string(nil), m.config.Page.Widths...)
	return &configCopy
}

// GetConfigFile returns the path to the configuration file being used.
func (m *Manager) GetConfigFile() string {
	return m.viper.ConfigFileUsed()
}

// createDefaultConfig creates a default configuration file.
func (m *Manager) createDefaultConfig() error {
	configFile, err := GetConfigFile()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configFile), dirPerm); err != nil {
		return err
	}

	m.viper.SetConfigType("toml")
	if err := m.viper.SafeWriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if err := GenerateSchemaFile(); err != nil {
		return err
	}

	return nil
}
