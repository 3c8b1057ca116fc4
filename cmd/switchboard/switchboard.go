// Package switchboardcmder
package switchboardcmder

import (
	chatcmder "github.com/switchboardco/switchboard/cmd/switchboard/chat"
	configcmder "github.com/switchboardco/switchboard/cmd/switchboard/config"
	initcmder "github.com/switchboardco/switchboard/cmd/switchboard/init"
	servecmder "github.com/switchboardco/switchboard/cmd/switchboard/serve"
	versioncmder "github.com/switchboardco/switchboard/cmd/version"
	"github.com/spf13/cobra"
)

const switchboardLongDesc string = `Switchboard routes chat queries to the right handler.

Arithmetic queries are solved locally by the calculator; everything else
goes to the configured model provider. Every exchange is recorded in the
session store.

Run services using:
  switchboard serve    Run the API server
  switchboard chat     Interactive chat against a running server`

const switchboardShortDesc string = "Switchboard - Query Routing Chatbot"

func NewSwitchboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "switchboard",
		Short: switchboardShortDesc,
		Long:  switchboardLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .switchboard/ config directory")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
