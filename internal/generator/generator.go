package generator

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/example/docstubs/internal/collector"
	"github.com/example/docstubs/internal/ident"
	"github.com/example/docstubs/internal/validator"
	"github.com/example/docstubs/internal/vfs"
)

// ErrRootNotFound is returned when the root namespace is missing from the
// type tree or is an alias.
var ErrRootNotFound = errors.New("root namespace not found")

// Source is the documented type tree the generator reads.
type Source interface {
	Lookup(id ident.ID) (collector.Record, bool)
	WalkTypes(from collector.Record) []collector.Record
	Types() []collector.Record
	Aliases() []*collector.Alias
}

// Sink receives generated pages.
type Sink interface {
	Open(path string, mode vfs.Mode) (io.WriteCloser, error)
	SetEditURL(path, url string)
}

// Generator writes one stub page per documented type.
type Generator struct {
	root     ident.ID
	rootPage string
	special  map[string]ident.ID
	logger   *log.Logger
}

// Summary counts what one Generate call produced.
type Summary struct {
	Pages           int // type pages, root page included
	CrossReferences int // alias lines written on target pages
	Aliases         int // lines appended to alias listings
	Skipped         int // top-level aliases without a listing page
	EditLinks       int
}

// New validates opts and builds a generator. A nil logger discards output.
func New(opts Options, logger *log.Logger) (*Generator, error) {
	if err := validator.Struct(&opts); err != nil {
		return nil, fmt.Errorf("generator options: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	root, err := ident.Parse(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("root namespace: %w", err)
	}

	special := make(map[string]ident.ID, len(opts.SpecialCases))
	for _, sc := range opts.SpecialCases {
		id, err := ident.Parse(sc.ID)
		if err != nil {
			return nil, fmt.Errorf("special case %q: %w", sc.ID, err)
		}
		directive, err := ident.Parse(sc.Directive)
		if err != nil {
			return nil, fmt.Errorf("special case %q directive: %w", sc.ID, err)
		}
		special[id.String()] = directive
	}

	return &Generator{
		root:     root,
		rootPage: opts.RootPage,
		special:  special,
		logger:   logger,
	}, nil
}

// Generate makes a single pass over src and writes every page to sink:
// one page per non-alias type under the root namespace, one line per
// top-level alias and per unresolved nested alias in its namespace's alias
// listing, and the root page.
func (g *Generator) Generate(src Source, sink Sink) (Summary, error) {
	var sum Summary

	root, ok := src.Lookup(g.root)
	if !ok || root.Kind() != collector.KindConcrete {
		return sum, fmt.Errorf("%s: %w", g.root, ErrRootNotFound)
	}

	xrefs := crossReferences(src.Aliases())

	for _, rec := range src.WalkTypes(root) {
		if rec.Kind() == collector.KindAlias {
			continue
		}
		n, err := g.emitPage(sink, rec, xrefs[rec.ID().String()])
		if err != nil {
			return sum, err
		}
		sum.Pages++
		sum.CrossReferences += n
		if url := collector.FirstURL(rec); url != "" {
			sink.SetEditURL(rec.ID().PagePath(), url)
			sum.EditLinks++
		}
	}

	topLevel := make(map[*collector.Alias]bool)
	for _, rec := range src.Types() {
		if alias, ok := rec.(*collector.Alias); ok {
			topLevel[alias] = true
			if err := g.listAlias(sink, alias, &sum); err != nil {
				return sum, err
			}
		}
	}

	// Nested aliases whose target has no page are listed too.
	for _, alias := range src.Aliases() {
		if topLevel[alias] || resolves(src, alias) {
			continue
		}
		if err := g.listAlias(sink, alias, &sum); err != nil {
			return sum, err
		}
	}

	if err := writePage(sink, g.rootPage, vfs.Truncate, g.root); err != nil {
		return sum, err
	}
	sum.Pages++
	g.logger.Debug("wrote root page", "path", g.rootPage, "id", g.root)

	return sum, nil
}

// emitPage writes the page of rec: alias cross references first, then the
// special-case line, then the primary directive. It returns the number of
// cross references written.
func (g *Generator) emitPage(sink Sink, rec collector.Record, aliases []ident.ID) (int, error) {
	id := rec.ID()
	lines := make([]ident.ID, 0, len(aliases)+2)
	lines = append(lines, aliases...)
	if extra, ok := g.special[id.String()]; ok {
		lines = append(lines, extra)
	}
	lines = append(lines, id)

	path := id.PagePath()
	if err := writePage(sink, path, vfs.Truncate, lines...); err != nil {
		return 0, err
	}
	g.logger.Debug("wrote page", "path", path, "id", id, "aliases", len(aliases))
	return len(aliases), nil
}

func (g *Generator) listAlias(sink Sink, alias *collector.Alias, sum *Summary) error {
	listed, err := g.indexAlias(sink, alias)
	if err != nil {
		return err
	}
	if listed {
		sum.Aliases++
	} else {
		sum.Skipped++
	}
	return nil
}

// resolves reports whether the target of alias is a type in src.
func resolves(src Source, alias *collector.Alias) bool {
	target, err := alias.TargetID()
	if err != nil {
		return false
	}
	_, ok := src.Lookup(target)
	return ok
}

// indexAlias appends alias to the listing of the namespace its target lives
// in. Targets that do not name a namespace member are skipped.
func (g *Generator) indexAlias(sink Sink, alias *collector.Alias) (bool, error) {
	target, err := alias.TargetID()
	if err != nil {
		g.logger.Warn("alias target is not an identifier", "alias", alias.ID(), "target", alias.Target)
		return false, nil
	}
	path, err := target.AliasesPath()
	if err != nil {
		g.logger.Warn("alias target has no namespace", "alias", alias.ID(), "target", alias.Target)
		return false, nil
	}
	if err := writePage(sink, path, vfs.Append, alias.ID()); err != nil {
		return false, err
	}
	g.logger.Debug("listed alias", "path", path, "alias", alias.ID())
	return true, nil
}

// crossReferences groups aliases by the identifier they resolve to, keeping
// document order within each group.
func crossReferences(aliases []*collector.Alias) map[string][]ident.ID {
	out := make(map[string][]ident.ID)
	for _, a := range aliases {
		target, err := a.TargetID()
		if err != nil {
			continue
		}
		key := target.String()
		out[key] = append(out[key], a.ID())
	}
	return out
}

func writePage(sink Sink, path string, mode vfs.Mode, ids ...ident.ID) error {
	w, err := sink.Open(path, mode)
	if err != nil {
		return fmt.Errorf("open page %s: %w", path, err)
	}
	for _, id := range ids {
		if _, err := io.WriteString(w, Directive(id)); err != nil {
			_ = w.Close()
			return fmt.Errorf("write page %s: %w", path, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close page %s: %w", path, err)
	}
	return nil
}
