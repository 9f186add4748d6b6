package recon_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/allstake/payrecon/frame"
	"github.com/allstake/payrecon/recon"
)

// bookingFrame builds a one-row raw booking frame the way the staging
// reader delivers it: everything text.
func bookingFrame(t *testing.T, arrival, finish, duration, hoursWorked string) frame.Frame {
	t.Helper()
	f, err := frame.New(
		frame.Strings(recon.ColStudentID, []string{"S1"}),
		frame.Strings(recon.ColJobID, []string{"J1"}),
		frame.Strings(recon.ColPosition, []string{"COUNTER"}),
		frame.Strings(recon.ColArrivalTime, []string{arrival}),
		frame.Strings(recon.ColFinishTime, []string{finish}),
		frame.Strings(recon.ColDepartureTime, []string{finish}),
		frame.Strings(recon.ColDuration, []string{duration}),
		frame.Strings(recon.ColHoursWorked, []string{hoursWorked}),
		frame.Strings(recon.ColBonuses, []string{"0"}),
		frame.Strings(recon.ColDeductions, []string{"0"}),
		frame.Strings(recon.ColAmountPaid, []string{""}),
	)
	require.NoError(t, err)
	return f
}

func normalizeBooking(t *testing.T, f frame.Frame) frame.Frame {
	t.Helper()
	out, err := recon.BookingNormalizer{Log: zap.NewNop()}.Normalize(f)
	require.NoError(t, err)
	return out
}

func TestBooking_ReportedDurationWins(t *testing.T) {
	// GIVEN a row with a numeric reported duration and conflicting sources
	out := normalizeBooking(t, bookingFrame(t, "9:00 AM", "5:00 PM", "6.5", "8"))

	// THEN the reported value is kept untouched
	d, ok := out.Float(recon.ColDuration, 0)
	require.True(t, ok)
	assert.Equal(t, 6.5, d)
}

func TestBooking_HoursWorkedFillsMissingDuration(t *testing.T) {
	out := normalizeBooking(t, bookingFrame(t, "9:00 AM", "5:00 PM", "", "7.25"))

	d, ok := out.Float(recon.ColDuration, 0)
	require.True(t, ok)
	assert.Equal(t, 7.25, d)
}

func TestBooking_TimeDerivedDurationIsLastResort(t *testing.T) {
	out := normalizeBooking(t, bookingFrame(t, "9:00 AM", "5:30 PM", "", ""))

	d, ok := out.Float(recon.ColDuration, 0)
	require.True(t, ok)
	assert.Equal(t, 8.5, d)
}

func TestBooking_OvernightShiftAddsOneDay(t *testing.T) {
	// GIVEN a shift arriving 10 PM and finishing 1 AM the next day
	out := normalizeBooking(t, bookingFrame(t, "10:00 PM", "1:00 AM", "", ""))

	// THEN the duration is 3 hours, not -21
	d, ok := out.Float(recon.ColDuration, 0)
	require.True(t, ok)
	assert.Equal(t, 3.0, d)
}

func TestBooking_NaNDurationTreatedAsMissing(t *testing.T) {
	f, err := frame.New(
		frame.Strings(recon.ColStudentID, []string{"S1"}),
		frame.Strings(recon.ColJobID, []string{"J1"}),
		frame.Strings(recon.ColPosition, []string{"COUNTER"}),
		frame.Strings(recon.ColArrivalTime, []string{"9:00 AM"}),
		frame.Strings(recon.ColFinishTime, []string{"5:00 PM"}),
		frame.Strings(recon.ColDepartureTime, []string{"5:00 PM"}),
		frame.Floats(recon.ColDuration, []float64{math.NaN()}),
		frame.Floats(recon.ColHoursWorked, []float64{7}),
		frame.Floats(recon.ColBonuses, []float64{0}),
		frame.Floats(recon.ColDeductions, []float64{0}),
		frame.Floats(recon.ColAmountPaid, []float64{0}),
	)
	require.NoError(t, err)

	out := normalizeBooking(t, f)
	d, ok := out.Float(recon.ColDuration, 0)
	require.True(t, ok)
	assert.Equal(t, 7.0, d, "NaN must defer to hours_worked exactly like null")
}

func TestBooking_GarbageBecomesNullNotError(t *testing.T) {
	out := normalizeBooking(t, bookingFrame(t, "whenever", "late", "soon", "n/a"))

	// Clock and numeric garbage all soft-fail.
	if _, ok := out.Time(recon.ColArrivalTime, 0); ok {
		t.Fatal("unparsable arrival_time should be null")
	}
	if _, ok := out.Float(recon.ColDuration, 0); ok {
		t.Fatal("no usable duration source, duration should be null")
	}
}

func TestBooking_MissingColumnsAbort(t *testing.T) {
	f, err := frame.New(frame.Strings(recon.ColStudentID, []string{"S1"}))
	require.NoError(t, err)

	_, err = recon.BookingNormalizer{Log: zap.NewNop()}.Normalize(f)
	require.Error(t, err)
	var serr *frame.SchemaError
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, serr.Missing, recon.ColJobID)
	assert.Contains(t, serr.Missing, recon.ColArrivalTime)
}

func TestBooking_MissingNumericColumnsAbort(t *testing.T) {
	// GIVEN a table that has every identity and clock column but no pay
	// inputs at all
	f, err := frame.New(
		frame.Strings(recon.ColStudentID, []string{"S1"}),
		frame.Strings(recon.ColJobID, []string{"J1"}),
		frame.Strings(recon.ColPosition, []string{"SCANNER"}),
		frame.Strings(recon.ColArrivalTime, []string{"9:00 AM"}),
		frame.Strings(recon.ColFinishTime, []string{"5:00 PM"}),
		frame.Strings(recon.ColDepartureTime, []string{"5:00 PM"}),
		frame.Strings(recon.ColDuration, []string{"8"}),
		frame.Strings(recon.ColHoursWorked, []string{""}),
		frame.Strings(recon.ColAmountPaid, []string{""}),
	)
	require.NoError(t, err)

	// THEN normalization aborts naming both absent columns; they must not
	// degrade into all-null series that compute as zero adjustments.
	_, err = recon.BookingNormalizer{Log: zap.NewNop()}.Normalize(f)
	var serr *frame.SchemaError
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, serr.Missing, recon.ColBonuses)
	assert.Contains(t, serr.Missing, recon.ColDeductions)
}
