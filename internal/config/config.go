// Package config provides configuration management for SplatView.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/ini.v1"

	"github.com/splatview/splatview/internal/constants"
	"github.com/splatview/splatview/internal/logging"
	"github.com/splatview/splatview/internal/notify"
	"github.com/splatview/splatview/internal/transfer"
)

// Config is the splatview.conf file.
//
// Config file location:
//   - Windows: %APPDATA%\SplatView\splatview.conf
//   - Unix: ~/.config/splatview/splatview.conf
//
// INI format:
//
//	[upload]
//	tick_interval_ms = 200
//	start_delay_ms = 500
//	completion_delay_ms = 500
//	fault_rate = 0
//
//	[notifications]
//	enabled = true
//	desktop = false
//
//	[logging]
//	level = info
//	file =
//
//	[events]
//	buffer_size = 256
//
// The batch cap and accepted extensions are fixed and not configurable.
type Config struct {
	Upload        UploadConfig
	Notifications NotificationConfig
	Logging       LoggingConfig
	Events        EventsConfig
}

// UploadConfig controls the pace of the simulated transfer.
type UploadConfig struct {
	// TickIntervalMs is the delay between progress ticks.
	// Minimum: 1, Maximum: 10000, Default: 200
	TickIntervalMs int `ini:"tick_interval_ms"`

	// StartDelayMs is the delay between starting a batch and the first tick.
	// Minimum: 0, Maximum: 60000, Default: 500
	StartDelayMs int `ini:"start_delay_ms"`

	// CompletionDelayMs is the delay between the last tick and completion.
	// Minimum: 0, Maximum: 60000, Default: 500
	CompletionDelayMs int `ini:"completion_delay_ms"`

	// FaultRate is the per-tick probability that a transferring entry fails.
	// Minimum: 0, Maximum: 1, Default: 0 (never)
	FaultRate float64 `ini:"fault_rate"`
}

// NotificationConfig contains notification settings.
type NotificationConfig struct {
	// Enabled turns all notifications on or off.
	Enabled bool `ini:"enabled"`

	// Desktop also sends notifications to the OS notification center.
	Desktop bool `ini:"desktop"`
}

// LoggingConfig contains log output settings.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error. Default: info
	Level string `ini:"level"`

	// File enables rotating JSON log output at this path. Empty disables it.
	File string `ini:"file"`
}

// EventsConfig sizes the event bus.
type EventsConfig struct {
	// BufferSize is the per-subscriber channel buffer.
	// Minimum: 1, Maximum: 10000, Default: 256
	BufferSize int `ini:"buffer_size"`
}

// Config validation errors
var (
	ErrInvalidTickInterval    = errors.New("tick_interval_ms must be between 1 and 10000")
	ErrInvalidStartDelay      = errors.New("start_delay_ms must be between 0 and 60000")
	ErrInvalidCompletionDelay = errors.New("completion_delay_ms must be between 0 and 60000")
	ErrInvalidFaultRate       = errors.New("fault_rate must be between 0 and 1")
	ErrInvalidLogLevel        = errors.New("level must be one of trace, debug, info, warn, error")
	ErrInvalidBufferSize      = errors.New("buffer_size must be between 1 and 10000")
)

// DefaultConfigPath returns the default path for the splatview.conf file.
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDirectory()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "splatview.conf"), nil
}

// ConfigDirectory returns the per-user configuration directory.
//   - Windows: %APPDATA%\SplatView
//   - Unix: ~/.config/splatview
func ConfigDirectory() (string, error) {
	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", errors.New("neither APPDATA nor USERPROFILE environment variable set")
			}
			appData = filepath.Join(userProfile, "AppData", "Roaming")
		}
		return filepath.Join(appData, constants.AppName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "splatview"), nil
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Upload: UploadConfig{
			TickIntervalMs:    int(constants.DefaultTickInterval / time.Millisecond),
			StartDelayMs:      int(constants.DefaultStartDelay / time.Millisecond),
			CompletionDelayMs: int(constants.DefaultCompletionDelay / time.Millisecond),
			FaultRate:         0,
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Desktop: false,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
		Events: EventsConfig{
			BufferSize: constants.EventBusDefaultBuffer,
		},
	}
}

// Load reads configuration from path. An empty path uses the default path.
// A missing file yields defaults and no error; a malformed one is an error.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return cfg, nil // Return defaults if we can't determine path
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	iniFile, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filepath.Base(path), err)
	}

	upload := iniFile.Section("upload")
	cfg.Upload.TickIntervalMs = upload.Key("tick_interval_ms").MustInt(cfg.Upload.TickIntervalMs)
	cfg.Upload.StartDelayMs = upload.Key("start_delay_ms").MustInt(cfg.Upload.StartDelayMs)
	cfg.Upload.CompletionDelayMs = upload.Key("completion_delay_ms").MustInt(cfg.Upload.CompletionDelayMs)
	cfg.Upload.FaultRate = upload.Key("fault_rate").MustFloat64(0)

	notifySection := iniFile.Section("notifications")
	cfg.Notifications.Enabled = notifySection.Key("enabled").MustBool(true)
	cfg.Notifications.Desktop = notifySection.Key("desktop").MustBool(false)

	logSection := iniFile.Section("logging")
	cfg.Logging.Level = logSection.Key("level").MustString("info")
	cfg.Logging.File = strings.TrimSpace(logSection.Key("file").String())

	eventsSection := iniFile.Section("events")
	cfg.Events.BufferSize = eventsSection.Key("buffer_size").MustInt(constants.EventBusDefaultBuffer)

	return cfg, nil
}

// Save writes the configuration to path. An empty path uses the default path.
// Creates parent directories if they don't exist.
func Save(cfg *Config, path string) error {
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to determine config path: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	iniFile := ini.Empty()

	upload, err := iniFile.NewSection("upload")
	if err != nil {
		return fmt.Errorf("failed to create upload section: %w", err)
	}
	upload.Key("tick_interval_ms").SetValue(fmt.Sprintf("%d", cfg.Upload.TickIntervalMs))
	upload.Key("start_delay_ms").SetValue(fmt.Sprintf("%d", cfg.Upload.StartDelayMs))
	upload.Key("completion_delay_ms").SetValue(fmt.Sprintf("%d", cfg.Upload.CompletionDelayMs))
	upload.Key("fault_rate").SetValue(fmt.Sprintf("%g", cfg.Upload.FaultRate))

	notifySection, err := iniFile.NewSection("notifications")
	if err != nil {
		return fmt.Errorf("failed to create notifications section: %w", err)
	}
	notifySection.Key("enabled").SetValue(fmt.Sprintf("%t", cfg.Notifications.Enabled))
	notifySection.Key("desktop").SetValue(fmt.Sprintf("%t", cfg.Notifications.Desktop))

	logSection, err := iniFile.NewSection("logging")
	if err != nil {
		return fmt.Errorf("failed to create logging section: %w", err)
	}
	logSection.Key("level").SetValue(cfg.Logging.Level)
	logSection.Key("file").SetValue(cfg.Logging.File)

	eventsSection, err := iniFile.NewSection("events")
	if err != nil {
		return fmt.Errorf("failed to create events section: %w", err)
	}
	eventsSection.Key("buffer_size").SetValue(fmt.Sprintf("%d", cfg.Events.BufferSize))

	// Use temporary file + rename for atomicity
	tmpPath := path + ".tmp"
	if err := iniFile.SaveTo(tmpPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if runtime.GOOS != "windows" {
		if err := os.Chmod(tmpPath, 0600); err != nil {
			os.Remove(tmpPath)
			return fmt.Errorf("failed to set config permissions: %w", err)
		}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
// Returns nil if valid, or the first problem found.
func (cfg *Config) Validate() error {
	if cfg.Upload.TickIntervalMs < 1 || cfg.Upload.TickIntervalMs > 10000 {
		return ErrInvalidTickInterval
	}
	if cfg.Upload.StartDelayMs < 0 || cfg.Upload.StartDelayMs > 60000 {
		return ErrInvalidStartDelay
	}
	if cfg.Upload.CompletionDelayMs < 0 || cfg.Upload.CompletionDelayMs > 60000 {
		return ErrInvalidCompletionDelay
	}
	if cfg.Upload.FaultRate < 0 || cfg.Upload.FaultRate > 1 {
		return ErrInvalidFaultRate
	}
	if _, err := cfg.LogLevel(); err != nil {
		return err
	}
	if cfg.Events.BufferSize < 1 || cfg.Events.BufferSize > constants.EventBusMaxBuffer {
		return ErrInvalidBufferSize
	}
	return nil
}

// Timings converts the [upload] section to simulator pacing.
func (cfg *Config) Timings() transfer.Timings {
	return transfer.Timings{
		StartDelay:      time.Duration(cfg.Upload.StartDelayMs) * time.Millisecond,
		TickInterval:    time.Duration(cfg.Upload.TickIntervalMs) * time.Millisecond,
		CompletionDelay: time.Duration(cfg.Upload.CompletionDelayMs) * time.Millisecond,
	}
}

// NotifyConfig converts the [notifications] section.
func (cfg *Config) NotifyConfig() *notify.Config {
	return &notify.Config{
		Enabled: cfg.Notifications.Enabled,
		Desktop: cfg.Notifications.Desktop,
	}
}

// LogLevel parses the [logging] level.
func (cfg *Config) LogLevel() (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Level)) {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		return zerolog.InfoLevel, ErrInvalidLogLevel
	}
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return zerolog.InfoLevel, ErrInvalidLogLevel
	}
	return level, nil
}
