package configcmder

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/chatrelay/pkg/cliui"
	"github.com/papercomputeco/chatrelay/pkg/config"
)

const listLongDesc string = `List every configuration key with its effective value.

Values come from config.toml in the .chatrelay/ directory, with defaults
filled in for keys the file leaves out. Environment variables and flags are
not shown since they only apply to a single serve run.

Examples:
  chatrelay config list
  chatrelay config list --config-dir /etc/chatrelay`

const listShortDesc string = "List all configuration values"

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: listShortDesc,
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd.OutOrStdout(), configDirFlag(cmd))
		},
	}
}

func runList(w io.Writer, configDir string) error {
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	printTarget(w, cfger.GetTarget())

	keys := config.ValidConfigKeys()
	width := 0
	for _, k := range keys {
		width = max(width, len(k))
	}
	keyStyle := cliui.KeyStyle.Width(width)

	for _, key := range keys {
		value, err := cfger.GetConfigValue(key)
		if err != nil {
			return err
		}

		shown := cliui.DimStyle.Render("<not set>")
		if value != "" {
			shown = cliui.ValueStyle.Render(strconv.Quote(value))
		}
		fmt.Fprintf(w, "  %s  %s\n", keyStyle.Render(key), shown)
	}
	fmt.Fprintln(w)

	return nil
}
