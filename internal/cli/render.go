package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/example/docstubs/internal/render"
	"github.com/example/docstubs/internal/vfs"
)

func newRenderCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write pages with every directive expanded to markdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			return a.runRender(cfg)
		},
	}
	addLayoutFlags(cmd)
	cmd.Flags().String("template", "", "text/template file used for each directive (default: built-in)")
	return cmd
}

func (a *app) runRender(cfg *Config) error {
	logger, err := a.newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	tree, stubs, _, err := a.build(cfg, logger)
	if err != nil {
		return err
	}

	var text string
	if cfg.Template != "" {
		data, err := afero.ReadFile(a.fs, cfg.Template)
		if err != nil {
			return fmt.Errorf("read template: %w", err)
		}
		text = string(data)
	}

	r, err := render.New(tree, text, render.DefaultFilters())
	if err != nil {
		return err
	}

	pages := vfs.New()
	if err := r.RenderFiles(stubs, pages); err != nil {
		return err
	}
	if err := pages.Sync(a.fs, cfg.Output); err != nil {
		return err
	}

	logger.Debug("rendered pages", "count", pages.Len())
	fmt.Fprintf(a.out, "Rendered %d pages in %s\n", pages.Len(), cfg.Output)
	return nil
}
