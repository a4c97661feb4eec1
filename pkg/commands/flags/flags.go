// Package flags provides reusable flag helpers for CLI commands.
//
// This package should only contain common flags that can be used by multiple commands
// to ensure unified naming and consistent behavior across the CLI.
// Command-specific flags should be defined locally in the command file.
package flags

import (
	"github.com/spf13/cobra"
)

// MustString returns the string value, ignoring the error.
// Safe to use with registered flags where GetString cannot fail.
func MustString(s string, _ error) string { return s }

// MustBool returns the bool value, ignoring the error.
// Safe to use with registered flags where GetBool cannot fail.
func MustBool(b bool, _ error) bool { return b }

// Address adds the --address/-a flag for the account to act on. When required is false the
// multisig address from the configuration is used.
func Address(cmd *cobra.Command, required bool) {
	cmd.Flags().StringP("address", "a", "", "Account address")
	if required {
		_ = cmd.MarkFlagRequired("address")
	}
}

// Network adds the --network/-n flag for selecting a ring by name.
func Network(cmd *cobra.Command, usage string) {
	cmd.Flags().StringP("network", "n", "", usage)
}

// JSON adds the --json flag for machine readable output.
func JSON(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Print output as JSON")
}
