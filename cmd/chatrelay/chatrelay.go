// Package chatrelaycmder
package chatrelaycmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/papercomputeco/chatrelay/cmd/chatrelay/config"
	servecmder "github.com/papercomputeco/chatrelay/cmd/chatrelay/serve"
	versioncmder "github.com/papercomputeco/chatrelay/cmd/version"
)

const chatrelayLongDesc string = `chatrelay forwards browser chat conversations to OpenRouter.

The relay keeps the OpenRouter API key on the server, repairs message roles
the upstream would reject and returns the completion to the caller.

Run the relay using:
  chatrelay serve      Run the relay server

The OPENROUTER_API_KEY environment variable must be set. It may also be
provided through a .env file in the working directory.`

const chatrelayShortDesc string = "chatrelay - chat completion relay"

func NewChatrelayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "chatrelay",
		Short:         chatrelayShortDesc,
		Long:          chatrelayLongDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to the .chatrelay/ config directory")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
