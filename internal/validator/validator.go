// Package validator checks decoded input documents and configuration
// structs against their `validate` struct tags.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared by every caller. It reports field names the way they
// appear in the input document rather than Go field names.
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"mapstructure", "json", "yaml"} {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
}

// FieldError describes one failed constraint.
type FieldError struct {
	Field string // namespaced path, e.g. program.types[2].full_name
	Tag   string // failed constraint, e.g. required
	Param string // constraint parameter, if any
	Value any
}

func (f FieldError) String() string {
	if f.Param != "" {
		return fmt.Sprintf("%s: failed %s=%s (got %v)", f.Field, f.Tag, f.Param, f.Value)
	}
	return fmt.Sprintf("%s: failed %s (got %v)", f.Field, f.Tag, f.Value)
}

// ValidationError collects every failed constraint of one Struct call.
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Struct validates v, which must be a struct or a pointer to one.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field: trimRootNamespace(fe.Namespace()),
			Tag:   fe.Tag(),
			Param: fe.Param(),
			Value: fe.Value(),
		})
	}
	return out
}

// trimRootNamespace drops the leading struct type name validator puts in
// front of every namespace.
func trimRootNamespace(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
