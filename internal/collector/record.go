// Package collector models the documented type tree produced by the Crystal
// documentation generator (`crystal doc --format=json`) and exposes the
// lookups the stub generator needs.
package collector

import (
	"github.com/example/docstubs/internal/ident"
)

// Kind distinguishes the two record variants.
type Kind int

const (
	// KindConcrete is any documented type that gets its own page: module,
	// class, struct, enum, annotation or lib.
	KindConcrete Kind = iota
	// KindAlias is a named reference to another type.
	KindAlias
)

func (k Kind) String() string {
	switch k {
	case KindConcrete:
		return "type"
	case KindAlias:
		return "alias"
	default:
		return "unknown"
	}
}

// Location is a source position of a type definition.
type Location struct {
	Filename string `json:"filename" yaml:"filename"`
	Line     int    `json:"line_number" yaml:"line_number"`
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Record is one documented type. It is either *Concrete or *Alias.
type Record interface {
	// ID returns the absolute identifier.
	ID() ident.ID
	// Kind reports the variant.
	Kind() Kind
	// Locations returns the source positions, possibly none.
	Locations() []Location
	// Doc returns the documentation comment.
	Doc() string

	sealed()
}

// Concrete is a type documented on its own page.
type Concrete struct {
	Name          ident.ID
	Category      string // module, class, struct, enum, annotation, lib
	Locs          []Location
	Documentation string
	Types         []Record // nested types in document order
}

func (c *Concrete) ID() ident.ID          { return c.Name }
func (c *Concrete) Kind() Kind            { return KindConcrete }
func (c *Concrete) Locations() []Location { return c.Locs }
func (c *Concrete) Doc() string           { return c.Documentation }
func (*Concrete) sealed()                 {}

// Alias is documented alongside the type it resolves to.
type Alias struct {
	Name          ident.ID
	Target        string // raw aliased type, e.g. Athena::Validator::Annotations or (String | Nil)
	Locs          []Location
	Documentation string
}

func (a *Alias) ID() ident.ID          { return a.Name }
func (a *Alias) Kind() Kind            { return KindAlias }
func (a *Alias) Locations() []Location { return a.Locs }
func (a *Alias) Doc() string           { return a.Documentation }
func (*Alias) sealed()                 {}

// TargetID parses the aliased type as an identifier. Union or generic
// targets such as `(String | Nil)` do not parse.
func (a *Alias) TargetID() (ident.ID, error) {
	return ident.Parse(a.Target)
}

// FirstURL returns the URL of the first location, or "".
func FirstURL(r Record) string {
	locs := r.Locations()
	if len(locs) == 0 {
		return ""
	}
	return locs[0].URL
}
