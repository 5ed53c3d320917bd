package config

const (
	defaultRelayListen   = ":5000"
	defaultRelayUpstream = "https://openrouter.ai/api/v1"
	defaultRelayTimeout  = "60s"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Relay: RelayConfig{
			Listen:   defaultRelayListen,
			Upstream: defaultRelayUpstream,
			Timeout:  defaultRelayTimeout,
		},
	}
}
