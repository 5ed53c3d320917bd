package relay

import "time"

// DefaultTimeout bounds an upstream call when Config.Timeout is zero.
const DefaultTimeout = 60 * time.Second

// Config is the relay server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":5000")
	ListenAddr string

	// UpstreamURL is the base URL of the chat completion API
	// (e.g., "https://openrouter.ai/api/v1"). Requests go to
	// UpstreamURL + "/chat/completions".
	UpstreamURL string

	// Credential is the bearer token sent to the upstream on every call.
	Credential string

	// Timeout bounds each upstream call.
	Timeout time.Duration
}
