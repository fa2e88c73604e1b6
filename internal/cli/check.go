package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/docstubs/internal/vfs"
)

// ErrDrift is returned by check when the output directory does not match
// what generate would write.
var ErrDrift = errors.New("stub pages are out of date")

var (
	addedColor    = color.New(color.FgGreen)
	removedColor  = color.New(color.FgRed)
	modifiedColor = color.New(color.FgYellow)
	hunkColor     = color.New(color.FgCyan)
	headerColor   = color.New(color.Bold)
)

func newCheckCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report pages that differ from what generate would write",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			return a.runCheck(cfg)
		},
	}
	addLayoutFlags(cmd)
	return cmd
}

func (a *app) runCheck(cfg *Config) error {
	logger, err := a.newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	_, files, _, err := a.build(cfg, logger)
	if err != nil {
		return err
	}

	diffs, err := files.Diff(a.fs, cfg.Output)
	if err != nil {
		return err
	}
	if len(diffs) == 0 {
		fmt.Fprintf(a.out, "%d pages in %s are up to date\n", files.Len(), cfg.Output)
		return nil
	}

	for _, d := range diffs {
		a.printDiff(d)
	}
	return fmt.Errorf("%d of %d pages differ: %w", len(diffs), files.Len(), ErrDrift)
}

func (a *app) printDiff(d vfs.FileDiff) {
	var c *color.Color
	switch d.Change {
	case vfs.Added:
		c = addedColor
	case vfs.Removed:
		c = removedColor
	default:
		c = modifiedColor
	}
	c.Fprintf(a.out, "%s %s\n", d.Change, d.Path)

	for _, line := range strings.SplitAfter(d.Unified, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			headerColor.Fprint(a.out, line)
		case strings.HasPrefix(line, "@@"):
			hunkColor.Fprint(a.out, line)
		case strings.HasPrefix(line, "+"):
			addedColor.Fprint(a.out, line)
		case strings.HasPrefix(line, "-"):
			removedColor.Fprint(a.out, line)
		default:
			fmt.Fprint(a.out, line)
		}
	}
}
