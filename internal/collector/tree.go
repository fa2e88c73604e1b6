package collector

import (
	"fmt"

	"github.com/example/docstubs/internal/ident"
)

// Tree is the whole documented program: the top-level types in document
// order plus an index by absolute identifier.
type Tree struct {
	repository string
	types      []Record
	index      map[string]Record
}

// NewTree indexes the given top-level records. Duplicate identifiers are an
// error.
func NewTree(repository string, types ...Record) (*Tree, error) {
	t := &Tree{
		repository: repository,
		types:      types,
		index:      make(map[string]Record),
	}
	var err error
	walk(types, func(r Record) bool {
		key := r.ID().String()
		if _, dup := t.index[key]; dup {
			err = fmt.Errorf("duplicate type %s", key)
			return false
		}
		t.index[key] = r
		return true
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Repository returns the repository name recorded by the doc generator.
func (t *Tree) Repository() string {
	return t.repository
}

// Types returns the top-level listing in document order.
func (t *Tree) Types() []Record {
	return t.types
}

// Len returns the number of records in the whole tree.
func (t *Tree) Len() int {
	return len(t.index)
}

// Lookup finds a record anywhere in the tree by absolute identifier.
func (t *Tree) Lookup(id ident.ID) (Record, bool) {
	r, ok := t.index[id.String()]
	return r, ok
}

// WalkTypes returns every descendant of from, depth-first in pre-order.
// from itself is not included. Aliases are leaves.
func (t *Tree) WalkTypes(from Record) []Record {
	c, ok := from.(*Concrete)
	if !ok {
		return nil
	}
	var out []Record
	walk(c.Types, func(r Record) bool {
		out = append(out, r)
		return true
	})
	return out
}

// Aliases returns every alias in the tree in document order.
func (t *Tree) Aliases() []*Alias {
	var out []*Alias
	walk(t.types, func(r Record) bool {
		if a, ok := r.(*Alias); ok {
			out = append(out, a)
		}
		return true
	})
	return out
}

// walk visits records depth-first in pre-order until fn returns false.
func walk(records []Record, fn func(Record) bool) bool {
	for _, r := range records {
		if !fn(r) {
			return false
		}
		if c, ok := r.(*Concrete); ok {
			if !walk(c.Types, fn) {
				return false
			}
		}
	}
	return true
}
