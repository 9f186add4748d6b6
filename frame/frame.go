/*
Package frame provides the columnar table engine used by the reconciliation
pipeline.

PURPOSE:
  Every stage of the pipeline consumes and produces rectangular tables:
  named, typed columns with per-cell null tracking. This package keeps that
  machinery in one domain-agnostic place so the recon/ and paysheet/ packages
  only express business rules.

KEY CONCEPTS IN THIS FILE (frame.go):
  - Kind:   the semantic type of a column (String, Category, Float, Time)
  - Series: one named column plus its validity mask
  - Frame:  an immutable set of equal-length series

DESIGN PRINCIPLES:
  1. Immutability: every operation returns a new Frame; inputs are never
     mutated. Series constructors copy their input slices.
  2. Soft nulls: a cell is either valid or null. Float cells may also hold
     NaN; callers that treat NaN as missing use the accessors' (value, ok)
     form together with math.IsNaN.
  3. No reflection: columns are stored in typed slices per kind.

SEE ALSO:
  - ops.go:    select / filter / join / group-by / concat
  - schema.go: required-column validation at component boundaries
*/
package frame

import (
	"fmt"
	"time"
)

// =============================================================================
// KIND - Semantic column type
// =============================================================================

type Kind int

const (
	// Any matches every kind in a Schema. Never used for storage.
	Any Kind = iota
	KindString
	KindCategory
	KindFloat
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindCategory:
		return "category"
	case KindFloat:
		return "float"
	case KindTime:
		return "time"
	default:
		return "any"
	}
}

// isText reports whether the kind stores string data.
func (k Kind) isText() bool { return k == KindString || k == KindCategory }

// =============================================================================
// SERIES - One named column
// =============================================================================

type Series struct {
	name   string
	kind   Kind
	strs   []string
	floats []float64
	times  []time.Time
	valid  []bool
}

func (s Series) Name() string { return s.name }
func (s Series) Kind() Kind   { return s.kind }
func (s Series) Len() int     { return len(s.valid) }

// IsNull reports whether cell i is null. NaN floats are NOT null; they are
// valid cells holding NaN.
func (s Series) IsNull(i int) bool { return !s.valid[i] }

// Str returns the string value at i. ok is false for null cells or
// non-text kinds.
func (s Series) Str(i int) (string, bool) {
	if !s.kind.isText() || !s.valid[i] {
		return "", false
	}
	return s.strs[i], true
}

// Float returns the float value at i. ok is false for null cells or
// non-float kinds.
func (s Series) Float(i int) (float64, bool) {
	if s.kind != KindFloat || !s.valid[i] {
		return 0, false
	}
	return s.floats[i], true
}

// Time returns the time value at i. ok is false for null cells or
// non-time kinds.
func (s Series) Time(i int) (time.Time, bool) {
	if s.kind != KindTime || !s.valid[i] {
		return time.Time{}, false
	}
	return s.times[i], true
}

// Renamed returns a copy of the series under a new name.
func (s Series) Renamed(name string) Series {
	out := s
	out.name = name
	return out
}

// take builds a new series from the given row indices.
func (s Series) take(idx []int) Series {
	out := Series{name: s.name, kind: s.kind, valid: make([]bool, len(idx))}
	switch {
	case s.kind.isText():
		out.strs = make([]string, len(idx))
		for n, i := range idx {
			out.strs[n] = s.strs[i]
			out.valid[n] = s.valid[i]
		}
	case s.kind == KindFloat:
		out.floats = make([]float64, len(idx))
		for n, i := range idx {
			out.floats[n] = s.floats[i]
			out.valid[n] = s.valid[i]
		}
	case s.kind == KindTime:
		out.times = make([]time.Time, len(idx))
		for n, i := range idx {
			out.times[n] = s.times[i]
			out.valid[n] = s.valid[i]
		}
	}
	return out
}

// =============================================================================
// SERIES CONSTRUCTORS
// =============================================================================

func allValid(n int) []bool {
	v := make([]bool, n)
	for i := range v {
		v[i] = true
	}
	return v
}

func copyValid(valid []bool, n int) []bool {
	if valid == nil {
		return allValid(n)
	}
	return append([]bool(nil), valid...)
}

// Strings builds a fully valid string series. An empty string is a value,
// not a null; use NullableStrings when the distinction matters.
func Strings(name string, vals []string) Series {
	return NullableStrings(name, vals, nil)
}

// NullableStrings builds a string series with an explicit validity mask.
// A nil mask means all cells are valid.
func NullableStrings(name string, vals []string, valid []bool) Series {
	return Series{
		name:  name,
		kind:  KindString,
		strs:  append([]string(nil), vals...),
		valid: copyValid(valid, len(vals)),
	}
}

// Categories builds a categorical series: string storage with enumerated
// semantics. Null handling matches NullableStrings.
func Categories(name string, vals []string, valid []bool) Series {
	s := NullableStrings(name, vals, valid)
	s.kind = KindCategory
	return s
}

// Floats builds a fully valid float series.
func Floats(name string, vals []float64) Series {
	return NullableFloats(name, vals, nil)
}

// NullableFloats builds a float series with an explicit validity mask.
func NullableFloats(name string, vals []float64, valid []bool) Series {
	return Series{
		name:   name,
		kind:   KindFloat,
		floats: append([]float64(nil), vals...),
		valid:  copyValid(valid, len(vals)),
	}
}

// Times builds a time series with an explicit validity mask.
func Times(name string, vals []time.Time, valid []bool) Series {
	return Series{
		name:  name,
		kind:  KindTime,
		times: append([]time.Time(nil), vals...),
		valid: copyValid(valid, len(vals)),
	}
}

// =============================================================================
// FRAME - Equal-length series under unique names
// =============================================================================

type Frame struct {
	cols   []Series
	index  map[string]int
	length int
}

// New builds a frame from the given series. All series must share one
// length and names must be unique.
func New(cols ...Series) (Frame, error) {
	f := Frame{index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if i == 0 {
			f.length = c.Len()
		} else if c.Len() != f.length {
			return Frame{}, fmt.Errorf("column %q has %d rows, want %d", c.Name(), c.Len(), f.length)
		}
		if _, dup := f.index[c.Name()]; dup {
			return Frame{}, fmt.Errorf("duplicate column %q", c.Name())
		}
		f.index[c.Name()] = i
		f.cols = append(f.cols, c)
	}
	return f, nil
}

func (f Frame) Len() int { return f.length }

// Columns returns the column names in declaration order.
func (f Frame) Columns() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name()
	}
	return names
}

func (f Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

func (f Frame) Column(name string) (Series, bool) {
	i, ok := f.index[name]
	if !ok {
		return Series{}, false
	}
	return f.cols[i], true
}

// Str is shorthand for Column(name).Str(i).
func (f Frame) Str(name string, i int) (string, bool) {
	c, ok := f.Column(name)
	if !ok {
		return "", false
	}
	return c.Str(i)
}

// Float is shorthand for Column(name).Float(i).
func (f Frame) Float(name string, i int) (float64, bool) {
	c, ok := f.Column(name)
	if !ok {
		return 0, false
	}
	return c.Float(i)
}

// Time is shorthand for Column(name).Time(i).
func (f Frame) Time(name string, i int) (time.Time, bool) {
	c, ok := f.Column(name)
	if !ok {
		return time.Time{}, false
	}
	return c.Time(i)
}
