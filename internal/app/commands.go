package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/tonylturner/dmdiag/internal/dm"
)

// ListCommands prints every DM command with its parameters.
func ListCommands(w io.Writer) {
	w = outWriter(w)
	for _, name := range dm.CommandNames() {
		cmd, _ := dm.LookupCommand(name)
		params := "-"
		if len(cmd.Params) > 0 {
			params = strings.Join(cmd.Params, ",")
		}
		fmt.Fprintf(w, "  %-20s %-14s %s\n", cmd.Name, params, cmd.Description)
	}
}
