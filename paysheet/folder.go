/*
folder.go - Directory-level paysheet aggregation

Parses every CSV in the paysheet folder independently and concatenates the
per-file results. This is a schema-compatible union, not a join: an
invoice split across two export files appears as two rows here, and the
pipeline re-aggregates by invoice before joining.
*/
package paysheet

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/allstake/payrecon/frame"
	"github.com/allstake/payrecon/recon"
)

// Aggregator merges all paysheet files in a directory.
type Aggregator struct {
	Parser Parser
}

func NewAggregator(log *zap.Logger) Aggregator {
	return Aggregator{Parser: Parser{Log: log}}
}

// AggregateDir parses every *.csv file (case-insensitive) in dir and
// concatenates the results. Any unreadable file aborts the aggregation; a
// directory with no paysheet files yields an empty frame.
func (a Aggregator) AggregateDir(dir string) (frame.Frame, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return frame.Frame{}, &recon.ReadError{Source: "paysheet folder " + dir, Err: err}
	}

	var frames []frame.Frame
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		f, err := a.Parser.ParseFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return frame.Frame{}, err
		}
		frames = append(frames, f)
	}

	if len(frames) == 0 {
		a.Parser.Log.Info("no paysheet files found", zap.String("dir", dir))
		return frame.New(
			frame.Strings(recon.ColInvoiceNumber, nil),
			frame.Floats(recon.ColPaysheetTotal, nil),
		)
	}
	return frame.Concat(frames...)
}
