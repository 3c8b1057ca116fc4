// Package configcmder provides the config command for managing persistent
// switchboard configuration stored in the .switchboard/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent switchboard configuration.

Configuration is stored as config.toml in the .switchboard/ directory and
provides default values for command flags. CLI flags always take precedence
over config file values.

Keys use dotted notation matching the TOML section structure:
  storage.driver, storage.sqlite_path, storage.postgres_url,
  api.listen,
  provider.base_url, provider.model, provider.api_key,
  provider.temperature, provider.max_tokens,
  provider.call_timeout_seconds, provider.system_prompt,
  engine.context_window, engine.recent_sessions,
  events.provider, events.topic,
  client.api_target

Use subcommands to get, set, or list configuration values:
  switchboard config set <key> <value>    Set a configuration value
  switchboard config get <key>            Get a configuration value
  switchboard config list                 List all configuration values

Examples:
  switchboard config set storage.driver sqlite
  switchboard config set provider.model gpt-4o
  switchboard config get api.listen
  switchboard config list`

const configShortDesc string = "Manage persistent switchboard configuration"

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
