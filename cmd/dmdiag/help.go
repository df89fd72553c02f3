package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// helpRequested prints usage when the first positional argument asks for
// help, so "dmdiag query help" does not send a DM command named "help".
func helpRequested(cmd *cobra.Command, args []string) bool {
	if len(args) == 0 {
		return false
	}
	switch strings.ToLower(args[0]) {
	case "help", "?":
		_ = cmd.Help()
		return true
	}
	return false
}

// missingInputError prints usage and names the missing input. Positional
// names are written <like-this>; a missing DM command points at the list.
func missingInputError(cmd *cobra.Command, name string) error {
	_ = cmd.Help()
	switch {
	case name == "<command>":
		return fmt.Errorf("required argument %s not set (run 'dmdiag commands' for DM command names)", name)
	case strings.HasPrefix(name, "<"):
		return fmt.Errorf("required argument %s not set", name)
	default:
		return fmt.Errorf("required flag %s not set", name)
	}
}
