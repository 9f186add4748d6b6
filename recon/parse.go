/*
parse.go - Soft value parsers shared by the normalizers

Every parser here degrades to (zero, false) instead of returning an error:
one bad cell must never block the whole reconciliation. Callers log the
miss at info level and store a null.
*/
package recon

import (
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/allstake/payrecon/frame"
)

// clockLayouts accepts the staging export's 12-hour clock strings, with or
// without a leading zero or a space before the meridiem.
var clockLayouts = []string{
	"3:04 PM",
	"3:04PM",
	"3:04:05 PM",
}

// parseClock parses a 12-hour time-of-day string ("9:30 PM"). The returned
// time carries the zero date; only the clock component is meaningful.
func parseClock(s string) (time.Time, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// dateLayouts accepts the job-date formats seen in the staging exports.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// floatColumn coerces a column to float kind. Float columns pass through
// unchanged; text columns are parsed cell by cell with empty-after-trim and
// unparsable content becoming null. A missing column is a structural
// failure: soft-failing applies to cells, never to whole columns.
func floatColumn(f frame.Frame, name string, log *zap.Logger) (frame.Series, error) {
	col, ok := f.Column(name)
	if !ok {
		return frame.Series{}, &frame.SchemaError{Missing: []string{name}}
	}
	if col.Kind() == frame.KindFloat {
		return col, nil
	}

	vals := make([]float64, f.Len())
	valid := make([]bool, f.Len())
	for i := 0; i < f.Len(); i++ {
		s, ok := col.Str(i)
		if !ok {
			continue
		}
		if strings.TrimSpace(s) == "" {
			continue
		}
		v, ok := parseFloat(s)
		if !ok {
			log.Info("value failed numeric parse, substituting null",
				zap.String("column", name),
				zap.Int("row", i),
				zap.String("value", s))
			continue
		}
		vals[i] = v
		valid[i] = true
	}
	return frame.NullableFloats(name, vals, valid), nil
}

// clockColumn parses a text column of 12-hour clock strings into a time
// column. Non-conforming strings become null; a missing column is a
// structural failure.
func clockColumn(f frame.Frame, name string, log *zap.Logger) (frame.Series, error) {
	col, ok := f.Column(name)
	if !ok {
		return frame.Series{}, &frame.SchemaError{Missing: []string{name}}
	}
	if col.Kind() == frame.KindTime {
		return col, nil
	}

	vals := make([]time.Time, f.Len())
	valid := make([]bool, f.Len())
	for i := 0; i < f.Len(); i++ {
		s, ok := col.Str(i)
		if !ok || strings.TrimSpace(s) == "" {
			continue
		}
		t, ok := parseClock(s)
		if !ok {
			log.Info("value failed time parse, substituting null",
				zap.String("column", name),
				zap.Int("row", i),
				zap.String("value", s))
			continue
		}
		vals[i] = t
		valid[i] = true
	}
	return frame.Times(name, vals, valid), nil
}

// nz collapses null and NaN to 0 so arithmetic never propagates either.
func nz(v float64, ok bool) float64 {
	if !ok || math.IsNaN(v) {
		return 0
	}
	return v
}
