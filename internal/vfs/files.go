// Package vfs holds generated pages in memory until they are synced to disk
// or compared against an existing output tree.
package vfs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Mode selects how Open treats existing content.
type Mode int

const (
	// Truncate replaces whatever was written to the path before.
	Truncate Mode = iota
	// Append adds to the end of the file, creating it when missing.
	Append
)

// ErrInvalidPath is returned for absolute paths and paths leaving the root.
var ErrInvalidPath = errors.New("invalid virtual path")

const filePerm = 0o644

// Files is an in-memory file tree keyed by slash-separated relative paths,
// with an optional edit URL per path.
type Files struct {
	fs    afero.Fs
	paths map[string]struct{}
	edit  map[string]string
}

// New returns an empty file tree.
func New() *Files {
	return &Files{
		fs:    afero.NewMemMapFs(),
		paths: make(map[string]struct{}),
		edit:  make(map[string]string),
	}
}

// Open returns a writer for name. Parent directories are implied.
func (f *Files) Open(name string, mode Mode) (io.WriteCloser, error) {
	clean, err := cleanPath(name)
	if err != nil {
		return nil, err
	}
	if dir := path.Dir(clean); dir != "." {
		if err := f.fs.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	flag := os.O_CREATE | os.O_WRONLY
	switch mode {
	case Append:
		flag |= os.O_APPEND
	default:
		flag |= os.O_TRUNC
	}

	file, err := f.fs.OpenFile(clean, flag, filePerm)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", clean, err)
	}
	f.paths[clean] = struct{}{}
	return file, nil
}

// WriteFile replaces the content of name.
func (f *Files) WriteFile(name string, data []byte) error {
	w, err := f.Open(name, Truncate)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	return w.Close()
}

// ReadFile returns the content written to name.
func (f *Files) ReadFile(name string) ([]byte, error) {
	clean, err := cleanPath(name)
	if err != nil {
		return nil, err
	}
	if _, ok := f.paths[clean]; !ok {
		return nil, fmt.Errorf("%s: %w", clean, os.ErrNotExist)
	}
	return afero.ReadFile(f.fs, clean)
}

// Paths returns every written path, sorted.
func (f *Files) Paths() []string {
	out := make([]string, 0, len(f.paths))
	for p := range f.paths {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of files.
func (f *Files) Len() int {
	return len(f.paths)
}

// SetEditURL records the "edit this page" link of name.
func (f *Files) SetEditURL(name, url string) {
	clean, err := cleanPath(name)
	if err != nil {
		return
	}
	f.edit[clean] = url
}

// EditURL returns the edit link recorded for name.
func (f *Files) EditURL(name string) (string, bool) {
	clean, err := cleanPath(name)
	if err != nil {
		return "", false
	}
	u, ok := f.edit[clean]
	return u, ok
}

// EditURLs returns a copy of every recorded edit link.
func (f *Files) EditURLs() map[string]string {
	out := make(map[string]string, len(f.edit))
	for k, v := range f.edit {
		out[k] = v
	}
	return out
}

// WriteEditManifest writes the path -> edit URL map as YAML with sorted keys.
func (f *Files) WriteEditManifest(w io.Writer) error {
	keys := make([]string, 0, len(f.edit))
	for k := range f.edit {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: k},
			&yaml.Node{Kind: yaml.ScalarNode, Value: f.edit[k]},
		)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return fmt.Errorf("encode edit manifest: %w", err)
	}
	return enc.Close()
}

func cleanPath(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	if name == "" || path.IsAbs(name) {
		return "", fmt.Errorf("%q: %w", name, ErrInvalidPath)
	}
	clean := path.Clean(name)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%q: %w", name, ErrInvalidPath)
	}
	return clean, nil
}
