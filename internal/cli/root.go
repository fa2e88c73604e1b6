// Package cli provides the docstubs command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// app carries what every command shares. Tests swap fs and the writers.
type app struct {
	fs     afero.Fs
	out    io.Writer
	errOut io.Writer
}

// Execute creates and runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree on the OS file system.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{fs: afero.NewOsFs(), out: os.Stdout, errOut: os.Stderr})
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "docstubs",
		Short: "Generate documentation stub pages from Crystal API docs",
		Long: `docstubs reads the JSON produced by "crystal doc --format=json" and writes
one markdown stub page per documented type. Each page holds "::: <identifier>"
directives that the site generator expands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(a.out)
	rootCmd.SetErr(a.errOut)

	rootCmd.PersistentFlags().String("config", "", "Path to docstubs.yml config file")
	rootCmd.PersistentFlags().String("log-level", defaultLogLevel, "Log level: debug, info, warn or error")

	rootCmd.AddCommand(
		newGenerateCommand(a),
		newCheckCommand(a),
		newRenderCommand(a),
		newVersionCommand(a),
	)
	return rootCmd
}

func (a *app) newLogger(level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return log.NewWithOptions(a.errOut, log.Options{
		Level:  lvl,
		Prefix: "docstubs",
	}), nil
}
