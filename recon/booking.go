/*
booking.go - Booking table repair

The booking export is the messiest input: clock fields are 12-hour
strings, numeric fields arrive as text with blanks and garbage, and the
reported shift duration is frequently absent. Normalization runs four
ordered steps; later steps depend on earlier ones:

  1. Parse arrival/finish/departure clock strings (soft-fail to null).
  2. Cast amount_paid, duration, hours_worked, bonuses, deductions to
     float (soft-fail to null).
  3. Derive a time-based duration from finish - arrival, adding 24h when
     the raw difference is negative (overnight shift).
  4. Coalesce the final duration: reported duration, else hours worked,
     else the time-based value. NaN counts as absent at every step.
*/
package recon

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/allstake/payrecon/frame"
)

// bookingInputs is validated once at the normalizer boundary. Numeric and
// clock fields arrive as text or float depending on the staging driver, so
// only presence is required here; kinds are repaired by normalization.
var bookingInputs = frame.Schema{
	{Name: ColStudentID, Kind: frame.Any},
	{Name: ColJobID, Kind: frame.Any},
	{Name: ColPosition, Kind: frame.Any},
	{Name: ColArrivalTime, Kind: frame.Any},
	{Name: ColFinishTime, Kind: frame.Any},
	{Name: ColDepartureTime, Kind: frame.Any},
	{Name: ColDuration, Kind: frame.Any},
	{Name: ColHoursWorked, Kind: frame.Any},
	{Name: ColBonuses, Kind: frame.Any},
	{Name: ColDeductions, Kind: frame.Any},
	{Name: ColAmountPaid, Kind: frame.Any},
}

// BookingNormalizer repairs and types booking rows.
type BookingNormalizer struct {
	Log *zap.Logger
}

// Normalize returns a new frame with typed clock columns, float numeric
// columns, and a duration column that is never null when hours_worked or
// both shift times are present.
func (n BookingNormalizer) Normalize(f frame.Frame) (frame.Frame, error) {
	if err := bookingInputs.Validate(f); err != nil {
		return frame.Frame{}, err
	}

	out := f
	var err error

	// Step 1: clock fields.
	for _, name := range []string{ColArrivalTime, ColFinishTime, ColDepartureTime} {
		col, err := clockColumn(out, name, n.Log)
		if err != nil {
			return frame.Frame{}, err
		}
		if out, err = out.WithColumn(col); err != nil {
			return frame.Frame{}, err
		}
	}

	// Step 2: numeric fields.
	for _, name := range []string{ColAmountPaid, ColDuration, ColHoursWorked, ColBonuses, ColDeductions} {
		col, err := floatColumn(out, name, n.Log)
		if err != nil {
			return frame.Frame{}, err
		}
		if out, err = out.WithColumn(col); err != nil {
			return frame.Frame{}, err
		}
	}

	// Steps 3 and 4: derive and coalesce the duration.
	if out, err = out.WithColumn(n.coalesceDuration(out)); err != nil {
		return frame.Frame{}, err
	}
	return out, nil
}

// coalesceDuration builds the final duration column. Priority: reported
// duration, then hours_worked, then the time-derived duration. A null or
// NaN cell is absent; the next source is consulted.
func (n BookingNormalizer) coalesceDuration(f frame.Frame) frame.Series {
	vals := make([]float64, f.Len())
	valid := make([]bool, f.Len())
	for i := 0; i < f.Len(); i++ {
		if d, ok := f.Float(ColDuration, i); ok && !math.IsNaN(d) {
			vals[i], valid[i] = d, true
			continue
		}
		if hw, ok := f.Float(ColHoursWorked, i); ok && !math.IsNaN(hw) {
			vals[i], valid[i] = hw, true
			continue
		}
		if td, ok := timeDuration(f, i); ok {
			vals[i], valid[i] = td, true
		}
	}
	return frame.NullableFloats(ColDuration, vals, valid)
}

// timeDuration computes finish - arrival in hours. A negative raw
// difference means the shift crossed midnight, so a full day is added to
// the finish time first. Null when either clock field is null.
func timeDuration(f frame.Frame, i int) (float64, bool) {
	arrival, ok := f.Time(ColArrivalTime, i)
	if !ok {
		return 0, false
	}
	finish, ok := f.Time(ColFinishTime, i)
	if !ok {
		return 0, false
	}
	if finish.Before(arrival) {
		finish = finish.Add(24 * time.Hour)
	}
	return finish.Sub(arrival).Hours(), true
}
