/*
pay.go - Rate resolution and the per-booking pay computation

The calculator joins normalized bookings with the per-job rate projection
(inner join: bookings whose job has no financials row are dropped), then
computes per row

    amount_paid = rate(role) * duration + bonuses - deductions

with null and NaN operands collapsed to 0, so the result is always a
finite number. The role-to-rate-column mapping is the static table in
types.go; an unrecognized or empty role pays rate 0.

The joined frame is validated against calculatorInputs before any row is
computed. A miss is a hard stop and the error names every missing column.
*/
package recon

import (
	"math"
	"strings"

	"github.com/allstake/payrecon/frame"
)

// calculatorInputs is the precondition schema for the pay computation.
var calculatorInputs = frame.Schema{
	{Name: ColPosition, Kind: frame.Any},
	{Name: ColDuration, Kind: frame.KindFloat},
	{Name: ColBonuses, Kind: frame.KindFloat},
	{Name: ColDeductions, Kind: frame.KindFloat},
	{Name: ColCounterRate, Kind: frame.KindFloat},
	{Name: ColScannerRate, Kind: frame.KindFloat},
	{Name: ColAuditorControllerRate, Kind: frame.KindFloat},
	{Name: ColAssCoordRate, Kind: frame.KindFloat},
	{Name: ColCoordRate, Kind: frame.KindFloat},
}

// AmountCalculator computes the amount_paid column for booking rows.
type AmountCalculator struct{}

// Compute inner-joins bookings with the rate projection on job identifier
// and returns the joined frame with a recomputed amount_paid column. Any
// stored amount_paid value is replaced; the field is derived, never input.
func (AmountCalculator) Compute(bookings, rates frame.Frame) (frame.Frame, error) {
	joined, err := bookings.InnerJoin(rates, ColJobID)
	if err != nil {
		return frame.Frame{}, err
	}
	if err := calculatorInputs.Validate(joined); err != nil {
		return frame.Frame{}, err
	}

	amounts := make([]float64, joined.Len())
	for i := 0; i < joined.Len(); i++ {
		rate := resolveRate(joined, i)
		duration := nz(joined.Float(ColDuration, i))
		bonuses := nz(joined.Float(ColBonuses, i))
		deductions := nz(joined.Float(ColDeductions, i))
		amounts[i] = rate*duration + bonuses - deductions
	}
	return joined.WithColumn(frame.Floats(ColAmountPaid, amounts))
}

// resolveRate looks up the row's hourly rate from its role. Unknown or
// empty roles, and null or NaN rate cells, resolve to 0.
func resolveRate(f frame.Frame, i int) float64 {
	role, _ := f.Str(ColPosition, i)
	col, ok := rateColumnByRole[Role(strings.TrimSpace(role))]
	if !ok {
		return 0
	}
	rate, ok := f.Float(col, i)
	if !ok || math.IsNaN(rate) {
		return 0
	}
	return rate
}
