// jobs.go - Jobs table repair: the only dirty field is date_of_job.
package recon

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/allstake/payrecon/frame"
)

var jobsInputs = frame.Schema{
	{Name: ColJobID, Kind: frame.Any},
	{Name: ColJobName, Kind: frame.Any},
	{Name: ColDateOfJob, Kind: frame.Any},
}

// JobsNormalizer coerces date_of_job to a calendar date. Unparsable values
// become null and are logged at info level.
type JobsNormalizer struct {
	Log *zap.Logger
}

func (n JobsNormalizer) Normalize(f frame.Frame) (frame.Frame, error) {
	if err := jobsInputs.Validate(f); err != nil {
		return frame.Frame{}, err
	}

	col, _ := f.Column(ColDateOfJob)
	if col.Kind() == frame.KindTime {
		return f, nil
	}

	vals := make([]time.Time, f.Len())
	valid := make([]bool, f.Len())
	for i := 0; i < f.Len(); i++ {
		s, ok := col.Str(i)
		if !ok || strings.TrimSpace(s) == "" {
			continue
		}
		d, ok := parseDate(s)
		if !ok {
			n.Log.Info("value failed date parse, substituting null",
				zap.String("column", ColDateOfJob),
				zap.Int("row", i),
				zap.String("value", s))
			continue
		}
		vals[i] = d
		valid[i] = true
	}
	return f.WithColumn(frame.Times(ColDateOfJob, vals, valid))
}
