package render

import (
	"strings"

	"github.com/example/docstubs/internal/ident"
)

// Directive is one parsed `::: <identifier> [options]` line.
type Directive struct {
	ID      ident.ID
	Options map[string]string
}

// ParseDirective parses a line like `::: Athena::Console heading=3,toc=false`.
// Options are comma-separated key=value pairs; an item without '=' is a
// boolean flag set to "true". ok is false for lines that are not directives.
func ParseDirective(line string) (d Directive, ok bool, err error) {
	rest, found := strings.CutPrefix(strings.TrimSpace(line), prefix)
	if !found || (rest != "" && rest[0] != ' ' && rest[0] != '\t') {
		return Directive{}, false, nil
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return Directive{}, true, ident.ErrEmptySegment
	}

	id, err := ident.Parse(fields[0])
	if err != nil {
		return Directive{}, true, err
	}

	d = Directive{ID: id, Options: map[string]string{}}
	for _, field := range fields[1:] {
		for _, p := range strings.Split(field, ",") {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if kv := strings.SplitN(p, "=", 2); len(kv) == 2 {
				d.Options[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
			} else {
				d.Options[p] = "true"
			}
		}
	}
	return d, true, nil
}
