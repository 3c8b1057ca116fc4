// Package initcmder provides the init command for initializing a local
// .switchboard directory in the current working directory.
package initcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/switchboardco/switchboard/pkg/dotdir"
)

const initLongDesc string = `Initialize a new .switchboard/ directory in the current working directory.

Creates a local .switchboard/ directory that takes precedence over the
default ~/.switchboard/ directory for configuration and SQLite storage.

This is useful for maintaining separate switchboard state per project
or directory.

Examples:
  switchboard init`

const initShortDesc string = "Initialize a local .switchboard/ directory"

func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit()
		},
	}

	return cmd
}

func runInit() error {
	dir, err := dotdir.NewManager().InitLocal()
	if err != nil {
		return fmt.Errorf("creating .switchboard directory: %w", err)
	}

	fmt.Printf("Initialized .switchboard directory: %s\n", dir)
	return nil
}
