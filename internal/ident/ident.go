// Package ident parses and formats `::`-delimited type identifiers such as
// `Athena::Validator::Violation` and derives the page paths they map to.
package ident

import (
	"errors"
	"fmt"
	"strings"
)

// Separator delimits namespace segments.
const Separator = "::"

// IndexPage is the file name every type page ends in.
const IndexPage = "index.md"

// AliasesPage is the file name of a namespace's alias listing.
const AliasesPage = "aliases.md"

var (
	// ErrEmptySegment is returned for empty identifiers or identifiers with an
	// empty namespace segment (`A::::B`, `::A`, `A::`).
	ErrEmptySegment = errors.New("identifier has an empty segment")
	// ErrTooShort is returned when an operation needs more segments than the
	// identifier has.
	ErrTooShort = errors.New("identifier has too few segments")
)

// ID is an absolute identifier. The zero value is invalid; build one with
// Parse, MustParse or New.
type ID struct {
	segments []string
}

// Parse splits s on the namespace separator. Surrounding whitespace is
// ignored; whitespace inside a segment is kept.
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ID{}, ErrEmptySegment
	}
	parts := strings.Split(s, Separator)
	for _, p := range parts {
		if p == "" {
			return ID{}, fmt.Errorf("%q: %w", s, ErrEmptySegment)
		}
	}
	return ID{segments: parts}, nil
}

// MustParse is Parse for identifiers known at compile time.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// New builds an identifier from its segments.
func New(segments ...string) (ID, error) {
	if len(segments) == 0 {
		return ID{}, ErrEmptySegment
	}
	for _, s := range segments {
		if s == "" || strings.Contains(s, Separator) {
			return ID{}, fmt.Errorf("segment %q: %w", s, ErrEmptySegment)
		}
	}
	return ID{segments: append([]string(nil), segments...)}, nil
}

// String joins the segments with the separator. Parse(id.String()) yields an
// equal ID.
func (id ID) String() string {
	return strings.Join(id.segments, Separator)
}

// IsZero reports whether id was never parsed.
func (id ID) IsZero() bool {
	return len(id.segments) == 0
}

// Len returns the number of segments.
func (id ID) Len() int {
	return len(id.segments)
}

// Segments returns a copy of the segments.
func (id ID) Segments() []string {
	return append([]string(nil), id.segments...)
}

// Segment returns the i-th segment, or "" when out of range.
func (id ID) Segment(i int) string {
	if i < 0 || i >= len(id.segments) {
		return ""
	}
	return id.segments[i]
}

// Root returns the first segment, the library root name.
func (id ID) Root() string {
	return id.Segment(0)
}

// Name returns the last segment.
func (id ID) Name() string {
	return id.Segment(len(id.segments) - 1)
}

// Child returns the identifier of a type nested directly under id.
func (id ID) Child(name string) (ID, error) {
	return New(append(id.Segments(), name)...)
}

// Equal reports whether both identifiers have the same segments.
func (id ID) Equal(other ID) bool {
	if len(id.segments) != len(other.segments) {
		return false
	}
	for i := range id.segments {
		if id.segments[i] != other.segments[i] {
			return false
		}
	}
	return true
}

// PagePath maps the identifier to its stub page: the root segment is
// dropped, the rest joined with "/" and "index.md" appended.
//
//	Athena::Validator::Violation -> Validator/Violation/index.md
//	Athena                       -> index.md
func (id ID) PagePath() string {
	parts := make([]string, 0, len(id.segments))
	if len(id.segments) > 1 {
		parts = append(parts, id.segments[1:]...)
	}
	return strings.Join(append(parts, IndexPage), "/")
}

// AliasesPath returns the alias listing page of the namespace named by the
// second segment.
//
//	Athena::Validator::Annotations -> Validator/aliases.md
func (id ID) AliasesPath() (string, error) {
	if len(id.segments) < 2 {
		return "", fmt.Errorf("%q: %w", id.String(), ErrTooShort)
	}
	return id.segments[1] + "/" + AliasesPage, nil
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
