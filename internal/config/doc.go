// Package config provides user configuration management for the Mietradar client.
//
// This package manages a YAML-based settings file that stores the endpoint
// URLs of the rent prediction service and the city-request automation
// webhook, plus application preferences. The file follows OS-specific
// conventions for its storage location.
//
// # Configuration File Location
//
// The settings file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/mietradar/config.yaml or $HOME/.config/mietradar/config.yaml
//   - macOS: $HOME/.config/mietradar/config.yaml
//   - Windows: %LOCALAPPDATA%\mietradar\config.yaml
//
// # Environment Overrides
//
// Every endpoint-related value can be overridden without touching the file:
//   - MIETRADAR_API_URL: base URL of the prediction service
//   - MIETRADAR_HOOK_URL: automation webhook URL
//   - MIETRADAR_HOOK_KEY: automation webhook API key
//   - MIETRADAR_PLZ_FILE: path to the postal-code reference table (CSV)
//
// The API key is consumed as an opaque string. It is kept out of "detailed"
// command output and only ever sent as the x-make-apikey request header.
//
// # Thread Safety
//
// The global settings instance uses sync.Once for safe initialization
// across goroutines. File operations are protected by a mutex to ensure
// atomic writes.
package config
