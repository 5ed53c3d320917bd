package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// CredentialEnv is the environment variable holding the upstream API key.
const CredentialEnv = "OPENROUTER_API_KEY"

// ErrMissingCredential is returned when no upstream API key is configured.
var ErrMissingCredential = errors.New(CredentialEnv + " is not set")

// Settings is the resolved configuration the relay is started with.
type Settings struct {
	Listen     string
	Upstream   string
	Timeout    time.Duration
	Credential string
	LogFile    string
	LogJSON    bool
}

// LoadDotEnv loads variables from a dotenv file into the process
// environment. Variables that are already set win over the file, and a
// missing file is not an error.
func LoadDotEnv(path string) error {
	if err := gotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Resolve reads the relay settings out of v and the credential from
// CredentialEnv. The credential is never taken from config.toml or a
// CHATRELAY_ variable. It fails with ErrMissingCredential when the
// credential is absent, and on an unparsable or non-positive timeout.
func Resolve(v *viper.Viper) (*Settings, error) {
	credential := os.Getenv(CredentialEnv)
	if credential == "" {
		return nil, ErrMissingCredential
	}

	timeout, err := time.ParseDuration(v.GetString("relay.timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid relay.timeout: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("invalid relay.timeout: must be positive, got %s", timeout)
	}

	return &Settings{
		Listen:     v.GetString("relay.listen"),
		Upstream:   v.GetString("relay.upstream"),
		Timeout:    timeout,
		Credential: credential,
		LogFile:    v.GetString("log.file"),
		LogJSON:    v.GetBool("log.json"),
	}, nil
}
