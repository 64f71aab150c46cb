// Package config loads folio configuration from TOML files and FOLIO_* environment variables.
package config

import (
	"time"

	"github.com/bnema/folio/internal/domain/entity"
)

const (
	dirPerm  = 0755 // Standard directory permissions (rwxr-xr-x)
	filePerm = 0644 // Standard file permissions (rw-r--r--)
)

// StorageDriver selects the preference store backend.
type StorageDriver string

const (
	StorageMemory       StorageDriver = "memory"
	StorageSQLite       StorageDriver = "sqlite"
	StorageRedis        StorageDriver = "redis"
	StorageLocalStorage StorageDriver = "localstorage"
)

// StorageDrivers lists every supported driver.
func StorageDrivers() []StorageDriver {
	return []StorageDriver{StorageMemory, StorageSQLite, StorageRedis, StorageLocalStorage}
}

// Config is the root folio configuration.
type Config struct {
	Storage  StorageConfig  `mapstructure:"storage" yaml:"storage" toml:"storage" json:"storage"`
	Page     PageConfig     `mapstructure:"page" yaml:"page" toml:"page" json:"page"`
	Timing   TimingConfig   `mapstructure:"timing" yaml:"timing" toml:"timing" json:"timing"`
	Observer ObserverConfig `mapstructure:"observer" yaml:"observer" toml:"observer" json:"observer"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging" toml:"logging" json:"logging"`
}

// StorageConfig holds preference store settings.
type StorageConfig struct {
	// Driver is one of memory, sqlite, redis, localstorage.
	Driver StorageDriver `mapstructure:"driver" yaml:"driver" toml:"driver" json:"driver" jsonschema:"enum=memory,enum=sqlite,enum=redis,enum=localstorage"`
	// Path is the sqlite database file or the localstorage snapshot file.
	// Empty means the default file under the XDG data directory.
	Path          string `mapstructure:"path" yaml:"path" toml:"path" json:"path,omitempty"`
	RedisAddr     string `mapstructure:"redis_addr" yaml:"redis_addr" toml:"redis_addr" json:"redis_addr,omitempty"`
	RedisDB       int    `mapstructure:"redis_db" yaml:"redis_db" toml:"redis_db" json:"redis_db,omitempty"`
	RedisPassword string `mapstructure:"redis_password" yaml:"redis_password" toml:"redis_password" json:"redis_password,omitempty"`
	KeyPrefix     string `mapstructure:"key_prefix" yaml:"key_prefix" toml:"key_prefix" json:"key_prefix,omitempty"`
}

// PageConfig describes the page the controller drives.
type PageConfig struct {
	// HTML is a path to the portfolio markup. Empty uses the embedded page.
	HTML   string   `mapstructure:"html" yaml:"html" toml:"html" json:"html,omitempty"`
	Widths []string `mapstructure:"widths" yaml:"widths" toml:"widths" json:"widths"`
}

// TimingConfig holds the viewport watcher timings.
type TimingConfig struct {
	ResizeDebounceMs    int     `mapstructure:"resize_debounce_ms" yaml:"resize_debounce_ms" toml:"resize_debounce_ms" json:"resize_debounce_ms" jsonschema:"minimum=0"`
	OrientationDelayMs  int     `mapstructure:"orientation_delay_ms" yaml:"orientation_delay_ms" toml:"orientation_delay_ms" json:"orientation_delay_ms" jsonschema:"minimum=0"`
	KeyboardHeightRatio float64 `mapstructure:"keyboard_height_ratio" yaml:"keyboard_height_ratio" toml:"keyboard_height_ratio" json:"keyboard_height_ratio" jsonschema:"exclusiveMinimum=0,maximum=1"`
	MobileMaxWidth      int     `mapstructure:"mobile_max_width" yaml:"mobile_max_width" toml:"mobile_max_width" json:"mobile_max_width" jsonschema:"minimum=1"`
}

// ResizeDebounce returns the resize quiet interval.
func (t TimingConfig) ResizeDebounce() time.Duration {
	return time.Duration(t.ResizeDebounceMs) * time.Millisecond
}

// OrientationDelay returns the delay before orientation changes are handled.
func (t TimingConfig) OrientationDelay() time.Duration {
	return time.Duration(t.OrientationDelayMs) * time.Millisecond
}

// ObserverConfig holds the scroll intersection thresholds.
type ObserverConfig struct {
	RevealThreshold float64 `mapstructure:"reveal_threshold" yaml:"reveal_threshold" toml:"reveal_threshold" json:"reveal_threshold" jsonschema:"minimum=0,maximum=1"`
	NavThreshold    float64 `mapstructure:"nav_threshold" yaml:"nav_threshold" toml:"nav_threshold" json:"nav_threshold" jsonschema:"minimum=0,maximum=1"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error"`
	Format string `mapstructure:"format" yaml:"format" toml:"format" json:"format" jsonschema:"enum=console,enum=json"`
}

// PageWidths converts the configured widths to domain values.
func (c *Config) PageWidths() []entity.PageWidth {
	out := make([]entity.PageWidth, 0, len(c.Page.Widths))
	for _, w := range c.Page.Widths {
		out = append(out, entity.PageWidth(w))
	}
	return out
}
