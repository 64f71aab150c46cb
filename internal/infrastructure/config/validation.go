package config

import (
	"fmt"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// validateConfig performs comprehensive validation of configuration values
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateStorage(config)...)
	validationErrors = append(validationErrors, validatePage(config)...)
	validationErrors = append(validationErrors, validateTiming(config)...)
	validationErrors = append(validationErrors, validateObserver(config)...)
	validationErrors = append(validationErrors, validateLogging(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}

	return nil
}

func validateStorage(config *Config) []string {
	var validationErrors []string

	drivers := make([]interface{}, 0, len(StorageDrivers()))
	names := make([]string, 0, len(StorageDrivers()))
	for _, d := range StorageDrivers() {
		drivers = append(drivers, d)
		names = append(names, string(d))
	}
	if err := ozzo.Validate(config.Storage.Driver, ozzo.Required, ozzo.In(drivers...)); err != nil {
		validationErrors = append(validationErrors, fmt.Sprintf(
			"storage.driver must be one of: %s (got: %s)",
			strings.Join(names, ", "),
			config.Storage.Driver,
		))
	}

	if config.Storage.Driver == StorageRedis {
		if err := ozzo.Validate(config.Storage.RedisAddr, ozzo.Required, is.DialString); err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf(
				"storage.redis_addr must be host:port (got: %q)",
				config.Storage.RedisAddr,
			))
		}
		if config.Storage.RedisDB < 0 {
			validationErrors = append(validationErrors, "storage.redis_db must be non-negative")
		}
	}

	return validationErrors
}

func validatePage(config *Config) []string {
	var validationErrors []string
	for _, w := range config.Page.Widths {
		// Widths become class names: width-<value>
		if strings.ContainsAny(w, " \t.#") {
			validationErrors = append(validationErrors, fmt.Sprintf(
				"page.widths entries must be plain class suffixes (got: %q)", w,
			))
		}
	}
	return validationErrors
}

func validateTiming(config *Config) []string {
	var validationErrors []string
	t := config.Timing
	if t.ResizeDebounceMs < 0 {
		validationErrors = append(validationErrors, "timing.resize_debounce_ms must be non-negative")
	}
	if t.OrientationDelayMs < 0 {
		validationErrors = append(validationErrors, "timing.orientation_delay_ms must be non-negative")
	}
	if t.KeyboardHeightRatio <= 0 || t.KeyboardHeightRatio > 1 {
		validationErrors = append(validationErrors, fmt.Sprintf(
			"timing.keyboard_height_ratio must be in (0, 1] (got: %g)", t.KeyboardHeightRatio,
		))
	}
	if t.MobileMaxWidth <= 0 {
		validationErrors = append(validationErrors, "timing.mobile_max_width must be positive")
	}
	return validationErrors
}

func validateObserver(config *Config) []string {
	var validationErrors []string
	if err := ozzo.Validate(config.Observer.RevealThreshold, ozzo.Min(0.0), ozzo.Max(1.0)); err != nil {
		validationErrors = append(validationErrors, fmt.Sprintf(
			"observer.reveal_threshold must be between 0 and 1 (got: %g)", config.Observer.RevealThreshold,
		))
	}
	if err := ozzo.Validate(config.Observer.NavThreshold, ozzo.Min(0.0), ozzo.Max(1.0)); err != nil {
		validationErrors = append(validationErrors, fmt.Sprintf(
			"observer.nav_threshold must be between 0 and 1 (got: %g)", config.Observer.NavThreshold,
		))
	}
	return validationErrors
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	switch config.Logging.Level {
	case "trace", "debug", "info", "warn", "error", "":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf(
			"logging.level must be one of: trace, debug, info, warn, error (got: %s)",
			config.Logging.Level,
		))
	}
	switch config.Logging.Format {
	case "json", "console", "":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf(
			"logging.format must be one of: json, console (got: %s)",
			config.Logging.Format,
		))
	}
	return validationErrors
}
