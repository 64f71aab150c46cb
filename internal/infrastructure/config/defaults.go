package config

import (
	"github.com/bnema/folio/internal/domain/validation"
	redisstore "github.com/bnema/folio/internal/infrastructure/persistence/redis"
)

const (
	defaultResizeDebounceMs   = 250
	defaultOrientationDelayMs = 100
	defaultKeyboardRatio      = 0.75
	defaultMobileMaxWidth     = 768
	defaultRevealThreshold    = 0.1
	defaultNavThreshold       = 0.5
	defaultRedisAddr          = "localhost:6379"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	widths := make([]string, 0, len(validation.DefaultPageWidths))
	for _, w := range validation.DefaultPageWidths {
		widths = append(widths, string(w))
	}

	return &Config{
		Storage: StorageConfig{
			Driver:    StorageSQLite,
			RedisAddr: defaultRedisAddr,
			KeyPrefix: redisstore.DefaultKeyPrefix,
		},
		Page: PageConfig{
			Widths: widths,
		},
		Timing: TimingConfig{
			ResizeDebounceMs:    defaultResizeDebounceMs,
			OrientationDelayMs:  defaultOrientationDelayMs,
			KeyboardHeightRatio: defaultKeyboardRatio,
			MobileMaxWidth:      defaultMobileMaxWidth,
		},
		Observer: ObserverConfig{
			RevealThreshold: defaultRevealThreshold,
			NavThreshold:    defaultNavThreshold,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// setDefaults sets default configuration values in Viper.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	// Note: Storage.Path is resolved in Load(), no default needed

	m.setStorageDefaults(defaults)
	m.setPageDefaults(defaults)
	m.setTimingDefaults(defaults)
	m.setObserverDefaults(defaults)
	m.setLoggingDefaults(defaults)
}

func (m *Manager) setStorageDefaults(defaults *Config) {
	m.viper.SetDefault("storage.driver", string(defaults.Storage.Driver))
	m.viper.SetDefault("storage.redis_addr", defaults.Storage.RedisAddr)
	m.viper.SetDefault("storage.redis_db", defaults.Storage.RedisDB)
	m.viper.SetDefault("storage.key_prefix", defaults.Storage.KeyPrefix)
}

func (m *Manager) setPageDefaults(defaults *Config) {
	m.viper.SetDefault("page.widths", defaults.Page.Widths)
}

func (m *Manager) setTimingDefaults(defaults *Config) {
	m.viper.SetDefault("timing.resize_debounce_ms", defaults.Timing.ResizeDebounceMs)
	m.viper.SetDefault("timing.orientation_delay_ms", defaults.Timing.OrientationDelayMs)
	m.viper.SetDefault("timing.keyboard_height_ratio", defaults.Timing.KeyboardHeightRatio)
	m.viper.SetDefault("timing.mobile_max_width", defaults.Timing.MobileMaxWidth)
}

func (m *Manager) setObserverDefaults(defaults *Config) {
	m.viper.SetDefault("observer.reveal_threshold", defaults.Observer.RevealThreshold)
	m.viper.SetDefault("observer.nav_threshold", defaults.Observer.NavThreshold)
}

func (m *Manager) setLoggingDefaults(defaults *Config) {
	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
}
