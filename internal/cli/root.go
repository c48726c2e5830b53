// Package cli implements the tinyhttp command line: one-shot GET and PUT
// requests driven by the httpclient package.
package cli

import (
	"github.com/spf13/cobra"
)

var version = "dev"

// NewRootCmd builds the tinyhttp command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "tinyhttp",
		Short:   "Send a single GET or PUT request",
		Version: version,
		Long: `tinyhttp sends one HTTP request and prints the response body.

Client defaults can be loaded from a YAML file with --defaults; call-site
flags are merged over them the same way the httpclient package does.`,
		SilenceUsage: true,
	}

	root.AddCommand(newRequestCmd("get"))
	root.AddCommand(newRequestCmd("put"))

	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		return 1
	}
	return 0
}
