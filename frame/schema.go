/*
schema.go - Required-column validation

PURPOSE:
  Components declare the columns they depend on as an explicit Schema and
  validate it once at their boundary, instead of discovering a missing
  column halfway through a computation. A failed validation is a hard
  stop: the resulting SchemaError names every missing or mismatched
  column, not just the first.

USAGE:
  var payInputs = frame.Schema{
      {Name: "duration", Kind: frame.KindFloat},
      {Name: "job_position", Kind: frame.Any},
  }
  if err := payInputs.Validate(joined); err != nil {
      return frame.Frame{}, err // *frame.SchemaError
  }
*/
package frame

import (
	"fmt"
	"sort"
	"strings"
)

// Column is one schema requirement. Kind Any accepts any column kind.
type Column struct {
	Name string
	Kind Kind
}

// Schema is the set of columns a component requires on its input frame.
type Schema []Column

// Validate checks f against the schema. It returns nil when every required
// column is present with a compatible kind, and a *SchemaError describing
// all violations otherwise.
func (s Schema) Validate(f Frame) error {
	seen := make(map[string]bool, len(s))
	serr := &SchemaError{}
	for _, want := range s {
		if seen[want.Name] {
			continue
		}
		seen[want.Name] = true
		got, ok := f.Column(want.Name)
		if !ok {
			serr.Missing = append(serr.Missing, want.Name)
			continue
		}
		if want.Kind != Any && got.Kind() != want.Kind {
			serr.Mismatched = append(serr.Mismatched,
				fmt.Sprintf("%s (want %s, got %s)", want.Name, want.Kind, got.Kind()))
		}
	}
	if len(serr.Missing) == 0 && len(serr.Mismatched) == 0 {
		return nil
	}
	sort.Strings(serr.Missing)
	sort.Strings(serr.Mismatched)
	return serr
}

// SchemaError reports every required column that is absent or of the wrong
// kind. Each column appears at most once.
type SchemaError struct {
	Missing    []string
	Mismatched []string
}

func (e *SchemaError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing columns: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Mismatched) > 0 {
		parts = append(parts, "mismatched columns: "+strings.Join(e.Mismatched, ", "))
	}
	return "schema validation failed: " + strings.Join(parts, "; ")
}
