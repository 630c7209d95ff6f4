package config

// Settings represents the entire user configuration file.
type Settings struct {
	Version     int          `yaml:"version"`
	Endpoints   *Endpoints   `yaml:"endpoints,omitempty"`
	Preferences *Preferences `yaml:"preferences,omitempty"`
}

// Endpoints holds the remote service locations the client talks to.
// All values are consumed as opaque strings; no URL parsing happens here.
type Endpoints struct {
	PredictionBaseURL string `yaml:"prediction_base_url,omitempty"` // e.g. "https://api.example.com"
	WebhookURL        string `yaml:"webhook_url,omitempty"`         // city-request automation webhook
	WebhookAPIKey     string `yaml:"webhook_api_key,omitempty"`     // sent as x-make-apikey header
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	AdvancedMode     bool   `yaml:"advanced_mode"`           // Start the TUI with amenity fields visible
	RequestTimeout   int    `yaml:"request_timeout"`         // HTTP request timeout in seconds
	ReferenceCSVPath string `yaml:"reference_csv,omitempty"` // Postal-code reference table snapshot
}

// Environment variable names for endpoint overrides.
const (
	EnvPredictionBaseURL = "MIETRADAR_API_URL"
	EnvWebhookURL        = "MIETRADAR_HOOK_URL"
	EnvWebhookAPIKey     = "MIETRADAR_HOOK_KEY"
	EnvReferenceCSVPath  = "MIETRADAR_PLZ_FILE"
)

// DefaultRequestTimeout is the HTTP timeout applied when the settings file
// does not specify one.
const DefaultRequestTimeout = 15

// NewSettings creates a new Settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version:   1,
		Endpoints: &Endpoints{},
		Preferences: &Preferences{
			AdvancedMode:   false,
			RequestTimeout: DefaultRequestTimeout,
		},
	}
}
