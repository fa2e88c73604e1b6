// Package render expands `::: <identifier>` directive lines of stub pages
// into markdown using a text/template and an injected filter table.
package render

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/example/docstubs/internal/collector"
	"github.com/example/docstubs/internal/generator"
	"github.com/example/docstubs/internal/ident"
	"github.com/example/docstubs/internal/vfs"
)

const prefix = generator.DirectivePrefix

// ErrUnknownIdentifier is returned for directives naming a type the source
// does not contain.
var ErrUnknownIdentifier = errors.New("unknown identifier")

// Source resolves directive identifiers.
type Source interface {
	Lookup(id ident.ID) (collector.Record, bool)
}

// DefaultTemplate renders a heading, the identifier, the documentation and
// links to every source location.
const DefaultTemplate = `{{ repeat "#" .Level }} {{ .Name }}

` + "`{{ .Kind }}` `{{ .ID }}`{{ with .Target }} = `{{ . }}`{{ end }}" + `
{{ with .Doc }}
{{ . }}
{{ end }}
{{- range .Locations }}{{ if .URL }}
[{{ .Filename }}:{{ .Line }}]({{ .URL }})
{{ end }}{{ end }}
`

// View is the data a directive is rendered with.
type View struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Kind      string               `json:"kind"` // doc generator kind: module, class, alias...
	Target    string               `json:"target,omitempty"`
	Doc       string               `json:"doc,omitempty"`
	Locations []collector.Location `json:"locations,omitempty"`
	Options   map[string]string    `json:"options,omitempty"`
	Level     int                  `json:"level"`
	// JSON is the view itself encoded as JSON, for templates that pass it
	// through from_json.
	JSON string `json:"-"`
}

// Renderer expands directives. It is safe for sequential use only.
type Renderer struct {
	src  Source
	tmpl *template.Template
}

// New parses text with the given filters available as template functions.
// An empty text selects DefaultTemplate.
func New(src Source, text string, filters FilterMap) (*Renderer, error) {
	if text == "" {
		text = DefaultTemplate
	}
	funcs := make(template.FuncMap, len(filters))
	for name, fn := range filters {
		funcs[name] = fn
	}

	tmpl, err := template.New("directive").Funcs(funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return &Renderer{src: src, tmpl: tmpl}, nil
}

// Render expands every directive line of page. Other lines are copied
// unchanged.
func (r *Renderer) Render(page []byte) ([]byte, error) {
	var out bytes.Buffer
	sc := bufio.NewScanner(bytes.NewReader(page))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for lineNo := 1; sc.Scan(); lineNo++ {
		line := sc.Text()
		d, ok, err := ParseDirective(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if !ok {
			out.WriteString(line)
			out.WriteByte('\n')
			continue
		}
		if err := r.expand(&out, d); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan page: %w", err)
	}
	return out.Bytes(), nil
}

// RenderFiles renders every page of in into out, keeping edit links.
func (r *Renderer) RenderFiles(in, out *vfs.Files) error {
	for _, p := range in.Paths() {
		page, err := in.ReadFile(p)
		if err != nil {
			return err
		}
		rendered, err := r.Render(page)
		if err != nil {
			return fmt.Errorf("render %s: %w", p, err)
		}
		if err := out.WriteFile(p, rendered); err != nil {
			return err
		}
		if u, ok := in.EditURL(p); ok {
			out.SetEditURL(p, u)
		}
	}
	return nil
}

func (r *Renderer) expand(out *bytes.Buffer, d Directive) error {
	rec, ok := r.src.Lookup(d.ID)
	if !ok {
		return fmt.Errorf("%s: %w", d.ID, ErrUnknownIdentifier)
	}
	view, err := newView(rec, d.Options)
	if err != nil {
		return err
	}
	if err := r.tmpl.Execute(out, view); err != nil {
		return fmt.Errorf("render %s: %w", d.ID, err)
	}
	return nil
}

func newView(rec collector.Record, opts map[string]string) (View, error) {
	v := View{
		ID:        rec.ID().String(),
		Name:      rec.ID().Name(),
		Doc:       strings.TrimSpace(rec.Doc()),
		Locations: rec.Locations(),
		Options:   opts,
		Level:     2,
	}
	switch r := rec.(type) {
	case *collector.Concrete:
		v.Kind = r.Category
	case *collector.Alias:
		v.Kind = collector.KindAlias.String()
		v.Target = r.Target
	}

	if lvl, ok := opts["heading_level"]; ok {
		n, err := strconv.Atoi(lvl)
		if err != nil || n < 1 || n > 6 {
			return View{}, fmt.Errorf("heading_level %q: must be 1-6", lvl)
		}
		v.Level = n
	}

	data, err := json.Marshal(v)
	if err != nil {
		return View{}, fmt.Errorf("encode view: %w", err)
	}
	v.JSON = string(data)
	return v, nil
}
