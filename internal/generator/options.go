package generator

import (
	"fmt"

	"github.com/example/docstubs/internal/ident"
)

// DirectivePrefix starts every line the renderer expands.
const DirectivePrefix = ":::"

// Directive formats the stub line referencing id, followed by a blank line.
func Directive(id ident.ID) string {
	return fmt.Sprintf("%s %s\n\n", DirectivePrefix, id)
}

// Default layout of the Athena documentation site.
const (
	DefaultRoot     = "Athena"
	DefaultRootPage = "Config/environment.md"
)

// SpecialCase adds one extra directive to the page of one identifier.
type SpecialCase struct {
	ID        string `mapstructure:"id" json:"id" yaml:"id" validate:"required"`
	Directive string `mapstructure:"directive" json:"directive" yaml:"directive" validate:"required"`
}

// Options controls page layout.
type Options struct {
	// Root is the library namespace whose descendants get pages.
	Root string `mapstructure:"root" json:"root" yaml:"root" validate:"required"`
	// RootPage is the page documenting Root itself.
	RootPage string `mapstructure:"root_page" json:"root_page" yaml:"root_page" validate:"required,endswith=.md"`
	// SpecialCases lists identifiers whose page also documents another
	// namespace.
	SpecialCases []SpecialCase `mapstructure:"special_cases" json:"special_cases" yaml:"special_cases" validate:"dive"`
}

// DefaultSpecialCases returns the two pages that document a second
// namespace: the config component documents the root namespace, and the
// validator component documents the top-level Assert annotations.
func DefaultSpecialCases() []SpecialCase {
	return []SpecialCase{
		{ID: "Athena::Config", Directive: "Athena"},
		{ID: "Athena::Validator", Directive: "Assert"},
	}
}

// DefaultOptions returns the Athena layout.
func DefaultOptions() Options {
	return Options{
		Root:         DefaultRoot,
		RootPage:     DefaultRootPage,
		SpecialCases: DefaultSpecialCases(),
	}
}
