package vfs

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func write(t *testing.T, f *Files, name string, mode Mode, content string) {
	t.Helper()
	w, err := f.Open(name, mode)
	require.NoError(t, err)
	_, err = fmt.Fprint(w, content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestOpenTruncateAndAppend(t *testing.T) {
	f := New()

	write(t, f, "Validator/index.md", Truncate, "first\n")
	write(t, f, "Validator/index.md", Truncate, "second\n")
	got, err := f.ReadFile("Validator/index.md")
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(got))

	write(t, f, "Validator/aliases.md", Append, "::: AVD\n\n")
	write(t, f, "Validator/aliases.md", Append, "::: AVA\n\n")
	got, err = f.ReadFile("Validator/aliases.md")
	require.NoError(t, err)
	assert.Equal(t, "::: AVD\n\n::: AVA\n\n", string(got))

	assert.Equal(t, []string{"Validator/aliases.md", "Validator/index.md"}, f.Paths())
	assert.Equal(t, 2, f.Len())
}

func TestOpenCleansPaths(t *testing.T) {
	f := New()
	require.NoError(t, f.WriteFile("./Config//environment.md", []byte("::: Athena\n\n")))
	assert.Equal(t, []string{"Config/environment.md"}, f.Paths())

	got, err := f.ReadFile("Config/environment.md")
	require.NoError(t, err)
	assert.Equal(t, "::: Athena\n\n", string(got))
}

func TestOpenRejectsEscapingPaths(t *testing.T) {
	f := New()
	for _, name := range []string{"", "/etc/passwd", "../outside.md", "a/../../b.md", "."} {
		_, err := f.Open(name, Truncate)
		assert.ErrorIs(t, err, ErrInvalidPath, name)
	}
	assert.Zero(t, f.Len())
}

func TestReadFileMissing(t *testing.T) {
	_, err := New().ReadFile("nope.md")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEditURLs(t *testing.T) {
	f := New()
	f.SetEditURL("Validator/index.md", "https://example.com/validator.cr#L10")
	f.SetEditURL("Config/index.md", "https://example.com/config.cr#L3")
	f.SetEditURL("../bad.md", "ignored")

	u, ok := f.EditURL("Validator/index.md")
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/validator.cr#L10", u)

	_, ok = f.EditURL("Console/index.md")
	assert.False(t, ok)
	assert.Len(t, f.EditURLs(), 2)

	var buf bytes.Buffer
	require.NoError(t, f.WriteEditManifest(&buf))
	var manifest map[string]string
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &manifest))
	assert.Equal(t, map[string]string{
		"Config/index.md":    "https://example.com/config.cr#L3",
		"Validator/index.md": "https://example.com/validator.cr#L10",
	}, manifest)
	assert.Less(t, strings.Index(buf.String(), "Config/"), strings.Index(buf.String(), "Validator/"))
}

func TestSyncOverwrites(t *testing.T) {
	dst := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(dst, "docs/Config/index.md", []byte("stale"), 0o644))
	require.NoError(t, afero.WriteFile(dst, "docs/extra.md", []byte("kept"), 0o644))

	f := New()
	require.NoError(t, f.WriteFile("Config/index.md", []byte("::: Athena::Config\n\n")))
	require.NoError(t, f.WriteFile("Console/Command/index.md", []byte("::: Athena::Console::Command\n\n")))
	require.NoError(t, f.Sync(dst, "docs"))

	got, err := afero.ReadFile(dst, "docs/Config/index.md")
	require.NoError(t, err)
	assert.Equal(t, "::: Athena::Config\n\n", string(got))

	got, err = afero.ReadFile(dst, "docs/Console/Command/index.md")
	require.NoError(t, err)
	assert.Equal(t, "::: Athena::Console::Command\n\n", string(got))

	got, err = afero.ReadFile(dst, "docs/extra.md")
	require.NoError(t, err)
	assert.Equal(t, "kept", string(got))
}

func TestDiff(t *testing.T) {
	dst := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(dst, "docs/Config/index.md", []byte("::: Athena::Config\n\n"), 0o644))
	require.NoError(t, afero.WriteFile(dst, "docs/Console/index.md", []byte("::: Athena::Console\n\n"), 0o644))
	require.NoError(t, afero.WriteFile(dst, "docs/Old/index.md", []byte("::: Athena::Old\n\n"), 0o644))
	require.NoError(t, afero.WriteFile(dst, "docs/edit_urls.yml", []byte("x: y\n"), 0o644))
	require.NoError(t, afero.WriteFile(dst, "docs/getting_started.md", []byte("# Getting started\n"), 0o644))
	require.NoError(t, afero.WriteFile(dst, "docs/index.md", []byte("# Home\n"), 0o644))

	f := New()
	require.NoError(t, f.WriteFile("Config/index.md", []byte("::: Athena::Config\n\n")))
	require.NoError(t, f.WriteFile("Console/index.md", []byte("::: ACON\n\n::: Athena::Console\n\n")))
	require.NoError(t, f.WriteFile("Validator/index.md", []byte("::: Athena::Validator\n\n")))

	diffs, err := f.Diff(dst, "docs")
	require.NoError(t, err)
	require.Len(t, diffs, 3)

	assert.Equal(t, "Console/index.md", diffs[0].Path)
	assert.Equal(t, Modified, diffs[0].Change)
	assert.Contains(t, diffs[0].Unified, "+::: ACON")
	assert.Contains(t, diffs[0].Unified, "--- a/Console/index.md")

	assert.Equal(t, "Old/index.md", diffs[1].Path)
	assert.Equal(t, Removed, diffs[1].Change)
	assert.Contains(t, diffs[1].Unified, "-::: Athena::Old")

	assert.Equal(t, "Validator/index.md", diffs[2].Path)
	assert.Equal(t, Added, diffs[2].Change)
	assert.Contains(t, diffs[2].Unified, "+::: Athena::Validator")
}

func TestDiffMissingOutputDir(t *testing.T) {
	f := New()
	require.NoError(t, f.WriteFile("index.md", []byte("::: Athena\n\n")))

	diffs, err := f.Diff(afero.NewMemMapFs(), "docs")
	require.NoError(t, err)
	require.Len(t, diffs, 1)
	assert.Equal(t, Added, diffs[0].Change)
}

func TestDiffAfterSyncIsEmpty(t *testing.T) {
	dst := afero.NewMemMapFs()
	f := New()
	require.NoError(t, f.WriteFile("Validator/aliases.md", []byte("::: AVD\n\n")))
	require.NoError(t, f.Sync(dst, "docs"))

	diffs, err := f.Diff(dst, "docs")
	require.NoError(t, err)
	assert.Empty(t, diffs)
}

func TestChangeString(t *testing.T) {
	assert.Equal(t, "added", Added.String())
	assert.Equal(t, "modified", Modified.String())
	assert.Equal(t, "removed", Removed.String())
	assert.Equal(t, "unknown", Change(42).String())
}

func TestIsStubPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"Config/index.md", true},
		{"Validator/Violation/Builder/index.md", true},
		{"Validator/aliases.md", true},
		{"index.md", false},
		{"aliases.md", false},
		{"getting_started.md", false},
		{"Config/environment.md", false},
		{"Config/index.markdown", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStubPath(tt.path))
		})
	}
}

func TestPruneKeepsHandWrittenPages(t *testing.T) {
	dst := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(dst, "docs/Old/index.md", []byte("::: Athena::Old\n\n"), 0o644))
	require.NoError(t, afero.WriteFile(dst, "docs/Old/aliases.md", []byte("::: AOLD\n\n"), 0o644))
	require.NoError(t, afero.WriteFile(dst, "docs/getting_started.md", []byte("# Getting started\n"), 0o644))
	require.NoError(t, afero.WriteFile(dst, "docs/Config/index.md", []byte("old"), 0o644))

	f := New()
	require.NoError(t, f.WriteFile("Config/index.md", []byte("::: Athena::Config\n\n")))

	removed, err := f.Prune(dst, "docs")
	require.NoError(t, err)
	assert.Equal(t, []string{"Old/aliases.md", "Old/index.md"}, removed)

	for path, want := range map[string]bool{
		"docs/Old/index.md":       false,
		"docs/Old/aliases.md":     false,
		"docs/getting_started.md": true,
		"docs/Config/index.md":    true,
	} {
		ok, err := afero.Exists(dst, path)
		require.NoError(t, err)
		assert.Equal(t, want, ok, path)
	}

	removed, err = f.Prune(afero.NewMemMapFs(), "docs")
	require.NoError(t, err)
	assert.Empty(t, removed)
}
