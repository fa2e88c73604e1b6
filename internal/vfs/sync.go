package vfs

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/afero"

	"github.com/example/docstubs/internal/ident"
)

// Sync writes every file under dir on dst, replacing existing content.
// Files on dst that are not part of the tree are left alone.
func (f *Files) Sync(dst afero.Fs, dir string) error {
	for _, p := range f.Paths() {
		data, err := afero.ReadFile(f.fs, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}

		target := filepath.Join(dir, filepath.FromSlash(p))
		if err := dst.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("create directory for %s: %w", target, err)
		}
		if err := afero.WriteFile(dst, target, data, filePerm); err != nil {
			return fmt.Errorf("write %s: %w", target, err)
		}
	}
	return nil
}

// Change classifies a FileDiff.
type Change int

const (
	// Added is a generated file missing on disk.
	Added Change = iota
	// Modified is a file whose content on disk differs.
	Modified
	// Removed is a stub page on disk that the tree no longer contains.
	Removed
)

func (c Change) String() string {
	switch c {
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// FileDiff is the difference between one generated file and its copy on disk.
type FileDiff struct {
	Path   string
	Change Change
	// Unified is a unified diff from the on-disk content to the generated one.
	Unified string
}

// Diff compares the tree against the files under dir on dst. Stub pages
// under dir (see IsStubPath) that the tree does not contain are reported as
// Removed; other files are never looked at. The result is sorted by path.
func (f *Files) Diff(dst afero.Fs, dir string) ([]FileDiff, error) {
	var diffs []FileDiff

	for _, p := range f.Paths() {
		want, err := afero.ReadFile(f.fs, p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}

		change := Modified
		got, err := afero.ReadFile(dst, filepath.Join(dir, filepath.FromSlash(p)))
		switch {
		case errors.Is(err, os.ErrNotExist):
			change = Added
		case err != nil:
			return nil, fmt.Errorf("read %s: %w", p, err)
		case bytes.Equal(got, want):
			continue
		}

		unified, err := unifiedDiff(p, got, want)
		if err != nil {
			return nil, err
		}
		diffs = append(diffs, FileDiff{Path: p, Change: change, Unified: unified})
	}

	stale, err := f.stale(dst, dir)
	if err != nil {
		return nil, err
	}
	for _, p := range stale {
		got, err := afero.ReadFile(dst, filepath.Join(dir, filepath.FromSlash(p)))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		unified, err := unifiedDiff(p, got, nil)
		if err != nil {
			return nil, err
		}
		diffs = append(diffs, FileDiff{Path: p, Change: Removed, Unified: unified})
	}

	sort.Slice(diffs, func(i, j int) bool { return diffs[i].Path < diffs[j].Path })
	return diffs, nil
}

// Prune deletes the stub pages under dir on dst that the tree does not
// contain and returns their relative paths. Hand-written pages are kept.
func (f *Files) Prune(dst afero.Fs, dir string) ([]string, error) {
	stale, err := f.stale(dst, dir)
	if err != nil {
		return nil, err
	}
	for _, p := range stale {
		if err := dst.Remove(filepath.Join(dir, filepath.FromSlash(p))); err != nil {
			return nil, fmt.Errorf("remove %s: %w", p, err)
		}
	}
	return stale, nil
}

// IsStubPath reports whether rel has the shape of a generated page: an
// index.md or aliases.md inside at least one directory.
func IsStubPath(rel string) bool {
	dir, name := path.Split(rel)
	return dir != "" && (name == ident.IndexPage || name == ident.AliasesPage)
}

// stale lists stub pages under dir that the tree does not contain.
func (f *Files) stale(dst afero.Fs, dir string) ([]string, error) {
	exists, err := afero.DirExists(dst, dir)
	if err != nil || !exists {
		return nil, err
	}

	var out []string
	err = afero.Walk(dst, dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !IsStubPath(rel) {
			return nil
		}
		if _, ok := f.paths[rel]; !ok {
			out = append(out, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	return out, nil
}

func unifiedDiff(name string, from, to []byte) (string, error) {
	out, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(from),
		B:        splitLines(to),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  3,
	})
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", name, err)
	}
	return out, nil
}

func splitLines(b []byte) []string {
	if len(b) == 0 {
		return nil
	}
	return difflib.SplitLines(string(b))
}
