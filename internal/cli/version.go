package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version information, overridable at build time via -ldflags.
var (
	Version   = "0.1.0-dev"
	GitCommit = ""
)

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the docstubs version",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			v := color.New(color.FgGreen, color.Bold).Sprint(Version)
			if GitCommit != "" {
				v += " (" + GitCommit + ")"
			}
			fmt.Fprintln(a.out, "docstubs", v)
		},
	}
}
