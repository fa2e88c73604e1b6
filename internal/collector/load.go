package collector

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/docstubs/internal/ident"
	"github.com/example/docstubs/internal/validator"
)

// ErrNoTypes is returned for documents without any top-level type.
var ErrNoTypes = errors.New("document has no types")

// kindAlias is the doc generator's kind string for aliases.
const kindAlias = "alias"

// document mirrors the top level of `crystal doc --format=json` output.
// Only the fields the generator reads are decoded.
type document struct {
	RepositoryName string      `json:"repository_name" yaml:"repository_name"`
	Program        *docProgram `json:"program" yaml:"program"`
}

type docProgram struct {
	Types []docType `json:"types" yaml:"types" validate:"dive"`
}

type docType struct {
	FullName  string        `json:"full_name" yaml:"full_name" validate:"required"`
	Kind      string        `json:"kind" yaml:"kind" validate:"required"`
	Aliased   string        `json:"aliased" yaml:"aliased" validate:"required_if=Kind alias"`
	Doc       string        `json:"doc" yaml:"doc"`
	Locations []docLocation `json:"locations" yaml:"locations" validate:"dive"`
	Types     []docType     `json:"types" yaml:"types" validate:"dive"`
}

type docLocation struct {
	Filename string `json:"filename" yaml:"filename"`
	Line     int    `json:"line_number" yaml:"line_number" validate:"gte=0"`
	URL      string `json:"url" yaml:"url" validate:"omitempty,url"`
}

// LoadFile reads a type tree from a JSON or YAML file.
func LoadFile(path string) (*Tree, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open type tree: %w", err)
	}
	defer func() { _ = f.Close() }()

	tree, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tree, nil
}

// Load decodes a type tree. JSON is tried first, YAML second. Both the full
// document (`{"program": {...}}`) and a bare program object are accepted.
func Load(r io.Reader) (*Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read type tree: %w", err)
	}

	doc, err := decode(data)
	if err != nil {
		return nil, err
	}
	if len(doc.Program.Types) == 0 {
		return nil, ErrNoTypes
	}
	if err := validator.Struct(doc.Program); err != nil {
		return nil, err
	}

	types := make([]Record, 0, len(doc.Program.Types))
	for i := range doc.Program.Types {
		rec, err := convert(&doc.Program.Types[i])
		if err != nil {
			return nil, err
		}
		types = append(types, rec)
	}
	return NewTree(doc.RepositoryName, types...)
}

func decode(data []byte) (*document, error) {
	var doc document
	if jsonErr := decodeJSON(data, &doc); jsonErr != nil {
		if yamlErr := decodeYAML(data, &doc); yamlErr != nil {
			return nil, fmt.Errorf("parse type tree as JSON (%v) or YAML: %w", jsonErr, yamlErr)
		}
	}
	return &doc, nil
}

func decodeJSON(data []byte, doc *document) error {
	if err := json.Unmarshal(data, doc); err != nil {
		return err
	}
	if doc.Program != nil {
		return nil
	}
	var bare docProgram
	if err := json.Unmarshal(data, &bare); err != nil {
		return err
	}
	doc.Program = &bare
	return nil
}

func decodeYAML(data []byte, doc *document) error {
	*doc = document{}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return err
	}
	if doc.Program != nil {
		return nil
	}
	var bare docProgram
	if err := yaml.Unmarshal(data, &bare); err != nil {
		return err
	}
	doc.Program = &bare
	return nil
}

func convert(t *docType) (Record, error) {
	id, err := ident.Parse(t.FullName)
	if err != nil {
		return nil, fmt.Errorf("type %q: %w", t.FullName, err)
	}

	locs := make([]Location, 0, len(t.Locations))
	for _, l := range t.Locations {
		locs = append(locs, Location{Filename: l.Filename, Line: l.Line, URL: l.URL})
	}

	if t.Kind == kindAlias {
		return &Alias{
			Name:          id,
			Target:        strings.TrimSpace(t.Aliased),
			Locs:          locs,
			Documentation: t.Doc,
		}, nil
	}

	c := &Concrete{
		Name:          id,
		Category:      t.Kind,
		Locs:          locs,
		Documentation: t.Doc,
		Types:         make([]Record, 0, len(t.Types)),
	}
	for i := range t.Types {
		child, err := convert(&t.Types[i])
		if err != nil {
			return nil, err
		}
		c.Types = append(c.Types, child)
	}
	return c, nil
}
