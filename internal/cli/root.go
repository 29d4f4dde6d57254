// Package cli wires the contracts-panel commands.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command with the serve, browse and token
// subcommands.
func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "contracts-panel",
		Short:         "Paginated financial contracts table",
		Long:          "contracts-panel serves the contracts table over HTTP and browses it from a terminal.",
		Version:       version,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newServeCmd(), newBrowseCmd(), newTokenCmd())
	return cmd
}

const rootCmdExample = `  # Run the HTTP service (reads app.env and the environment)
  contracts-panel serve

  # Issue a token for the JSON API
  contracts-panel token --role ANALYST

  # Browse the table from a terminal
  contracts-panel browse --api http://localhost:7090 --token "$API_TOKEN"`
