/*
financials.go - Financials table repair

The financials export writes blank strings where it means "no value", and
the numeric columns are text. Normalization trims, treats empty as null,
and casts the fixed list of money columns to float; anything unparsable
becomes null and is logged.
*/
package recon

import (
	"go.uber.org/zap"

	"github.com/allstake/payrecon/frame"
)

// financialsNumericColumns is the fixed list of money columns cleaned by
// the normalizer: every per-role rate plus the two reference totals.
var financialsNumericColumns = append(append([]string{}, RateColumns...),
	ColUpdatesAmount,
	ColPaysheetAmount,
)

// financialsInputs requires every column the normalizer touches. An export
// missing one of the rate columns aborts here; it must not flow through as
// a role that silently pays zero.
var financialsInputs = func() frame.Schema {
	s := frame.Schema{
		{Name: ColJobID, Kind: frame.Any},
		{Name: ColInvoiceNumber, Kind: frame.Any},
	}
	for _, name := range financialsNumericColumns {
		s = append(s, frame.Column{Name: name, Kind: frame.Any})
	}
	return s
}()

// FinancialsNormalizer cleans the numeric cost and amount columns.
type FinancialsNormalizer struct {
	Log *zap.Logger
}

func (n FinancialsNormalizer) Normalize(f frame.Frame) (frame.Frame, error) {
	if err := financialsInputs.Validate(f); err != nil {
		return frame.Frame{}, err
	}
	out := f
	for _, name := range financialsNumericColumns {
		col, err := floatColumn(out, name, n.Log)
		if err != nil {
			return frame.Frame{}, err
		}
		if out, err = out.WithColumn(col); err != nil {
			return frame.Frame{}, err
		}
	}
	return out, nil
}

// RateProjection projects the per-job rate lookup table: job identifier
// plus one column per role rate. The amount calculator joins bookings
// against this.
func RateProjection(financials frame.Frame) (frame.Frame, error) {
	cols := append([]string{ColJobID}, RateColumns...)
	return financials.Select(cols...)
}
