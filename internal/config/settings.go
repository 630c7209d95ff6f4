package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "mietradar"
	configFile = "config.yaml"
)

var (
	// Global settings instance (loaded lazily)
	globalSettings     *Settings
	globalSettingsOnce sync.Once
	globalSettingsErr  error

	// Mutex for thread-safe file operations
	fileMutex sync.Mutex
)

// GetConfigDir returns the OS-appropriate configuration directory for the application.
// This follows platform conventions:
//   - Linux: $XDG_CONFIG_HOME/mietradar or $HOME/.config/mietradar
//   - macOS: $HOME/.config/mietradar (following XDG convention on macOS)
//   - Windows: %LOCALAPPDATA%\mietradar
func GetConfigDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		// Windows: Use LOCALAPPDATA
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			// Fallback to USERPROFILE\AppData\Local if LOCALAPPDATA not set
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	case "darwin":
		// macOS: Use $HOME/.config/mietradar (following modern XDG convention)
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, ".config", appName)

	default:
		// Linux and other Unix-like systems: Use XDG_CONFIG_HOME or $HOME/.config
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = filepath.Join(xdgConfigHome, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return baseDir, nil
}

// GetConfigPath returns the full path to the configuration file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// ensureConfigDir ensures the configuration directory exists.
// Creates the directory with appropriate permissions if it doesn't exist.
func ensureConfigDir() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	// Create directory with user-only permissions (0700)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// LoadSettings loads the settings from disk.
// If the file doesn't exist, returns new default settings.
// Thread-safe - multiple calls will return the same instance.
func LoadSettings() (*Settings, error) {
	globalSettingsOnce.Do(func() {
		globalSettings, globalSettingsErr = loadSettingsFromDisk()
	})
	return globalSettings, globalSettingsErr
}

// loadSettingsFromDisk performs the actual file loading.
func loadSettingsFromDisk() (*Settings, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Config doesn't exist - return new default settings
		return NewSettings(), nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Validate version
	if settings.Version != 1 {
		return nil, fmt.Errorf("unsupported config version: %d (expected 1)", settings.Version)
	}

	// Ensure nested structs are initialized
	if settings.Endpoints == nil {
		settings.Endpoints = &Endpoints{}
	}
	if settings.Preferences == nil {
		settings.Preferences = &Preferences{
			RequestTimeout: DefaultRequestTimeout,
		}
	}
	if settings.Preferences.RequestTimeout <= 0 {
		settings.Preferences.RequestTimeout = DefaultRequestTimeout
	}

	return &settings, nil
}

// Save saves the settings to disk.
// Performs an atomic write to prevent corruption on crash.
func (s *Settings) Save() error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	// Ensure config directory exists
	if err := ensureConfigDir(); err != nil {
		return fmt.Errorf("failed to ensure config directory exists: %w", err)
	}

	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	// Marshal to YAML
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Add header comment
	header := []byte(`# Mietradar Configuration File
# Stores endpoint URLs for the rent prediction service and the
# city-request automation webhook, plus application preferences.
#
# Values can be overridden via MIETRADAR_API_URL, MIETRADAR_HOOK_URL,
# MIETRADAR_HOOK_KEY and MIETRADAR_PLZ_FILE environment variables.
#
# Location: ` + configPath + `

`)
	data = append(header, data...)

	// Write to temporary file first (atomic write)
	tmpPath := configPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}

	// Atomic rename (this is atomic on all platforms)
	if err := os.Rename(tmpPath, configPath); err != nil {
		// Clean up temp file on error
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}

	return nil
}

// PredictionBaseURL returns the configured prediction service base URL,
// preferring the MIETRADAR_API_URL environment variable when set.
func (s *Settings) PredictionBaseURL() string {
	if v := os.Getenv(EnvPredictionBaseURL); v != "" {
		return v
	}
	if s.Endpoints != nil {
		return s.Endpoints.PredictionBaseURL
	}
	return ""
}

// WebhookURL returns the configured automation webhook URL, preferring
// the MIETRADAR_HOOK_URL environment variable when set.
func (s *Settings) WebhookURL() string {
	if v := os.Getenv(EnvWebhookURL); v != "" {
		return v
	}
	if s.Endpoints != nil {
		return s.Endpoints.WebhookURL
	}
	return ""
}

// WebhookAPIKey returns the automation webhook API key, preferring the
// MIETRADAR_HOOK_KEY environment variable when set.
func (s *Settings) WebhookAPIKey() string {
	if v := os.Getenv(EnvWebhookAPIKey); v != "" {
		return v
	}
	if s.Endpoints != nil {
		return s.Endpoints.WebhookAPIKey
	}
	return ""
}

// ReferenceCSVPath returns the path of the postal-code reference table
// snapshot, preferring the MIETRADAR_PLZ_FILE environment variable when set.
// An empty return value means no reference table is available.
func (s *Settings) ReferenceCSVPath() string {
	if v := os.Getenv(EnvReferenceCSVPath); v != "" {
		return v
	}
	if s.Preferences != nil {
		return s.Preferences.ReferenceCSVPath
	}
	return ""
}

// RequestTimeout returns the configured HTTP request timeout.
func (s *Settings) RequestTimeout() time.Duration {
	if s.Preferences != nil && s.Preferences.RequestTimeout > 0 {
		return time.Duration(s.Preferences.RequestTimeout) * time.Second
	}
	return DefaultRequestTimeout * time.Second
}

// ReloadSettings reloads the settings from disk, discarding any in-memory changes.
// This is useful for reading changes made by another process.
func ReloadSettings() (*Settings, error) {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	// Reset the global settings
	globalSettingsOnce = sync.Once{}
	return LoadSettings()
}
