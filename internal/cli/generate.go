package cli

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/example/docstubs/internal/collector"
	"github.com/example/docstubs/internal/generator"
	"github.com/example/docstubs/internal/vfs"
)

func newGenerateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write stub pages for every documented type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			return a.runGenerate(cfg)
		},
	}

	addLayoutFlags(cmd)
	cmd.Flags().String("edit-manifest", "", "Write page edit URLs as YAML to this path")
	cmd.Flags().Bool("clean", false, "Remove stub pages the input no longer produces")
	cmd.Flags().Bool("dry-run", false, "Print the page paths without writing them")

	return cmd
}

// addLayoutFlags registers the flags every command that generates pages
// shares.
func addLayoutFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "", "Crystal doc JSON (crystal doc --format=json)")
	cmd.Flags().StringP("output", "o", defaultOutput, "Output directory for pages")
	cmd.Flags().String("root", generator.DefaultRoot, "Library root namespace")
	cmd.Flags().String("root-page", generator.DefaultRootPage, "Page documenting the root namespace")
}

// build loads the input and generates every page in memory.
func (a *app) build(cfg *Config, logger *log.Logger) (*collector.Tree, *vfs.Files, generator.Summary, error) {
	data, err := a.readInput(cfg)
	if err != nil {
		return nil, nil, generator.Summary{}, err
	}
	tree, err := collector.Load(bytes.NewReader(data))
	if err != nil {
		return nil, nil, generator.Summary{}, fmt.Errorf("load %s: %w", cfg.Input, err)
	}
	logger.Debug("loaded type tree", "input", cfg.Input, "records", tree.Len())

	gen, err := generator.New(cfg.Options, logger)
	if err != nil {
		return nil, nil, generator.Summary{}, err
	}

	files := vfs.New()
	sum, err := gen.Generate(tree, files)
	if err != nil {
		return nil, nil, generator.Summary{}, err
	}
	return tree, files, sum, nil
}

func (a *app) runGenerate(cfg *Config) error {
	logger, err := a.newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	_, files, sum, err := a.build(cfg, logger)
	if err != nil {
		return err
	}

	if cfg.DryRun {
		for _, p := range files.Paths() {
			fmt.Fprintln(a.out, filepath.Join(cfg.Output, filepath.FromSlash(p)))
		}
		return nil
	}

	if err := files.Sync(a.fs, cfg.Output); err != nil {
		return err
	}
	if cfg.Clean {
		removed, err := files.Prune(a.fs, cfg.Output)
		if err != nil {
			return fmt.Errorf("clean %s: %w", cfg.Output, err)
		}
		for _, p := range removed {
			logger.Info("removed stale page", "path", p)
		}
	}
	if err := a.writeEditManifest(files, cfg.EditManifest); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Generated %d pages in %s (%d alias cross-references, %d alias listing entries, %d skipped)\n",
		files.Len(), cfg.Output, sum.CrossReferences, sum.Aliases, sum.Skipped)
	return nil
}

func (a *app) writeEditManifest(files *vfs.Files, path string) error {
	if path == "" {
		return nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := a.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	f, err := a.fs.Create(path)
	if err != nil {
		return fmt.Errorf("create edit manifest: %w", err)
	}
	if err := files.WriteEditManifest(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write edit manifest: %w", err)
	}
	return f.Close()
}
