package render

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/example/docstubs/internal/ident"
)

// nilSuffix is appended by the doc generator to nullable values that are
// otherwise valid JSON. It is never valid trailing JSON, so removing it is
// safe.
const nilSuffix = "of Nil"

// FilterMap is the table of named text filters a Renderer exposes to its
// template. Each Renderer gets its own copy.
type FilterMap = template.FuncMap

// FromJSON strips a trailing "of Nil" and decodes the remainder as JSON.
func FromJSON(data string) (any, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(data), nilSuffix)

	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		return nil, fmt.Errorf("from_json: %w", err)
	}
	return v, nil
}

// DefaultFilters returns a fresh filter table.
func DefaultFilters() FilterMap {
	return FilterMap{
		"from_json": FromJSON,
		"page_path": pagePath,
		"join":      strings.Join,
		"repeat":    strings.Repeat,
	}
}

func pagePath(id string) (string, error) {
	parsed, err := ident.Parse(id)
	if err != nil {
		return "", err
	}
	return parsed.PagePath(), nil
}
