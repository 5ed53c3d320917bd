// Package configcmder provides the config command for managing persistent
// chatrelay configuration stored in the .chatrelay/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent chatrelay configuration.

Configuration is stored as config.toml in the .chatrelay/ directory and
provides default values for the serve command's flags. CLI flags and
CHATRELAY_* environment variables always take precedence over config file
values.

Keys use dotted notation matching the TOML section structure:
  relay.listen, relay.upstream, relay.timeout,
  log.file, log.json

The OpenRouter API key is never stored here. Set OPENROUTER_API_KEY in the
environment or in a .env file instead.

Use subcommands to get, set, or list configuration values:
  chatrelay config set <key> <value>    Set a configuration value
  chatrelay config get <key>            Get a configuration value
  chatrelay config list                 List all configuration values

Examples:
  chatrelay config set relay.listen :8080
  chatrelay config set relay.timeout 30s
  chatrelay config get relay.upstream
  chatrelay config list`

const configShortDesc string = "Manage persistent chatrelay configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

// configDirFlag reads --config-dir, which the root command registers as a
// persistent flag. It is empty when the subcommand runs on its own.
func configDirFlag(cmd *cobra.Command) string {
	configDir, _ := cmd.Flags().GetString("config-dir")
	return configDir
}
