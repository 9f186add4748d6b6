/*
ops.go - Relational operations over frames

All operations return new frames; inputs are never mutated. The set is
deliberately small: the pipeline only needs projection, row filtering, an
inner hash join on a text key, group-by-sum, and a schema-compatible
concatenation.
*/
package frame

import (
	"fmt"
	"math"
	"sort"
)

// Select projects the named columns, in the given order.
func (f Frame) Select(names ...string) (Frame, error) {
	cols := make([]Series, 0, len(names))
	for _, name := range names {
		c, ok := f.Column(name)
		if !ok {
			return Frame{}, fmt.Errorf("select: unknown column %q", name)
		}
		cols = append(cols, c)
	}
	return New(cols...)
}

// WithColumn returns a frame with s appended, or replacing an existing
// column of the same name.
func (f Frame) WithColumn(s Series) (Frame, error) {
	if f.length != s.Len() && len(f.cols) > 0 {
		return Frame{}, fmt.Errorf("with column %q: %d rows, want %d", s.Name(), s.Len(), f.length)
	}
	cols := make([]Series, 0, len(f.cols)+1)
	replaced := false
	for _, c := range f.cols {
		if c.Name() == s.Name() {
			cols = append(cols, s)
			replaced = true
			continue
		}
		cols = append(cols, c)
	}
	if !replaced {
		cols = append(cols, s)
	}
	return New(cols...)
}

// Filter keeps the rows for which keep returns true.
func (f Frame) Filter(keep func(i int) bool) Frame {
	var idx []int
	for i := 0; i < f.length; i++ {
		if keep(i) {
			idx = append(idx, i)
		}
	}
	return f.takeRows(idx)
}

func (f Frame) takeRows(idx []int) Frame {
	cols := make([]Series, len(f.cols))
	for i, c := range f.cols {
		cols[i] = c.take(idx)
	}
	out, _ := New(cols...)
	return out
}

// InnerJoin joins f with right on a shared text key column. Rows whose key
// is null on either side are dropped, as are keys absent from the other
// side. The key column appears once, from the left frame. A non-key column
// name present on both sides is an error; rename before joining.
func (f Frame) InnerJoin(right Frame, on string) (Frame, error) {
	leftKey, ok := f.Column(on)
	if !ok {
		return Frame{}, fmt.Errorf("join: left frame has no column %q", on)
	}
	rightKey, ok := right.Column(on)
	if !ok {
		return Frame{}, fmt.Errorf("join: right frame has no column %q", on)
	}
	if !leftKey.Kind().isText() || !rightKey.Kind().isText() {
		return Frame{}, fmt.Errorf("join: key %q must be a text column", on)
	}
	for _, c := range right.cols {
		if c.Name() != on && f.Has(c.Name()) {
			return Frame{}, fmt.Errorf("join: column %q exists on both sides", c.Name())
		}
	}

	byKey := make(map[string][]int, right.Len())
	for i := 0; i < right.Len(); i++ {
		if k, ok := rightKey.Str(i); ok {
			byKey[k] = append(byKey[k], i)
		}
	}

	var leftIdx, rightIdx []int
	for i := 0; i < f.Len(); i++ {
		k, ok := leftKey.Str(i)
		if !ok {
			continue
		}
		for _, j := range byKey[k] {
			leftIdx = append(leftIdx, i)
			rightIdx = append(rightIdx, j)
		}
	}

	cols := make([]Series, 0, len(f.cols)+len(right.cols)-1)
	for _, c := range f.cols {
		cols = append(cols, c.take(leftIdx))
	}
	for _, c := range right.cols {
		if c.Name() == on {
			continue
		}
		cols = append(cols, c.take(rightIdx))
	}
	return New(cols...)
}

// GroupSum groups by a text key column and sums a float column, emitting a
// two-column frame (key, out) with one row per distinct key, sorted by key
// for deterministic output. Null and NaN cells contribute 0; null keys are
// dropped.
func (f Frame) GroupSum(key, val, out string) (Frame, error) {
	keyCol, ok := f.Column(key)
	if !ok {
		return Frame{}, fmt.Errorf("group: unknown column %q", key)
	}
	if !keyCol.Kind().isText() {
		return Frame{}, fmt.Errorf("group: key %q must be a text column", key)
	}
	valCol, ok := f.Column(val)
	if !ok {
		return Frame{}, fmt.Errorf("group: unknown column %q", val)
	}
	if valCol.Kind() != KindFloat {
		return Frame{}, fmt.Errorf("group: value %q must be a float column", val)
	}

	sums := make(map[string]float64)
	for i := 0; i < f.Len(); i++ {
		k, ok := keyCol.Str(i)
		if !ok {
			continue
		}
		v, ok := valCol.Float(i)
		if !ok || math.IsNaN(v) {
			v = 0
		}
		sums[k] += v
	}

	keys := make([]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	totals := make([]float64, len(keys))
	for i, k := range keys {
		totals[i] = sums[k]
	}
	return New(Strings(key, keys), Floats(out, totals))
}

// Concat appends frames with identical column names and kinds, in order.
// This is a schema-compatible union: duplicate rows are preserved.
func Concat(frames ...Frame) (Frame, error) {
	if len(frames) == 0 {
		return Frame{}, nil
	}
	first := frames[0]
	for _, f := range frames[1:] {
		if err := sameShape(first, f); err != nil {
			return Frame{}, err
		}
	}
	cols := make([]Series, len(first.cols))
	for i, c := range first.cols {
		merged := Series{name: c.name, kind: c.kind}
		for _, f := range frames {
			src := f.cols[f.index[c.name]]
			merged.strs = append(merged.strs, src.strs...)
			merged.floats = append(merged.floats, src.floats...)
			merged.times = append(merged.times, src.times...)
			merged.valid = append(merged.valid, src.valid...)
		}
		cols[i] = merged
	}
	return New(cols...)
}

func sameShape(a, b Frame) error {
	if len(a.cols) != len(b.cols) {
		return fmt.Errorf("concat: %d columns vs %d", len(a.cols), len(b.cols))
	}
	for i, c := range a.cols {
		o := b.cols[i]
		if c.Name() != o.Name() || c.Kind() != o.Kind() {
			return fmt.Errorf("concat: column %d is %s %q vs %s %q",
				i, c.Kind(), c.Name(), o.Kind(), o.Name())
		}
	}
	return nil
}
