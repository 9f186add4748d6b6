/*
Package paysheet ingests the exported paysheet CSV files.

PURPOSE:
  Each export starts with three report header lines (title, export
  timestamp, blank), then a CSV table whose columns include the invoice
  number and a currency-formatted amount. The formatting is inconsistent
  across exports: currency symbols, thousands separators, stray spaces,
  and the literal "*" marking a not-yet-settled row. The parser tolerates
  all of it and emits one summed row per invoice.

FILTERING RULES:
  - amount == "*"            row excluded entirely (unsettled)
  - blank invoice number     row excluded entirely
  - unparsable amount        row kept with a 0 contribution, logged

SEE ALSO:
  - folder.go: directory-level aggregation
*/
package paysheet

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/allstake/payrecon/frame"
	"github.com/allstake/payrecon/recon"
)

const (
	// reportHeaderLines is the fixed count of non-data lines preceding
	// the CSV header in every export.
	reportHeaderLines = 3

	// sentinelUnsettled marks an amount that has not been paid out yet.
	sentinelUnsettled = "*"

	colInvoiceNumber = "Invoice Number"
	colAmountPaid    = "Amount Paid"
)

// Parser parses a single paysheet export.
type Parser struct {
	Log *zap.Logger
}

// ParseFile opens and parses one export file. The handle is scoped to
// this call.
func (p Parser) ParseFile(path string) (frame.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return frame.Frame{}, &recon.ReadError{Source: "paysheet " + path, Err: err}
	}
	defer f.Close()
	return p.Parse(path, f)
}

// Parse reads one export from r and returns a frame with one row per
// distinct invoice number: invoice_number, paysheet_total.
func (p Parser) Parse(name string, r io.Reader) (frame.Frame, error) {
	br := bufio.NewReader(r)
	for i := 0; i < reportHeaderLines; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			return frame.Frame{}, &recon.ReadError{
				Source: "paysheet " + name,
				Err:    errors.New("file shorter than report header"),
			}
		}
	}

	cr := csv.NewReader(br)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return frame.Frame{}, &recon.ReadError{Source: "paysheet " + name, Err: err}
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	var missing []string
	for _, required := range []string{colInvoiceNumber, colAmountPaid} {
		if _, ok := col[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return frame.Frame{}, &frame.SchemaError{Missing: missing}
	}

	var (
		invoices []string
		amounts  []float64
		valid    []bool
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return frame.Frame{}, &recon.ReadError{Source: "paysheet " + name, Err: err}
		}

		invoice := strings.TrimSpace(field(rec, col[colInvoiceNumber]))
		rawAmount := strings.TrimSpace(field(rec, col[colAmountPaid]))
		if invoice == "" || rawAmount == sentinelUnsettled {
			continue
		}

		amount, ok := cleanAmount(rawAmount)
		if !ok {
			// Kept with a 0 contribution: the invoice is real even
			// when its amount cell is garbage.
			p.Log.Info("paysheet amount failed to parse, substituting null",
				zap.String("file", name),
				zap.String("invoice", invoice),
				zap.String("value", rawAmount))
		}
		invoices = append(invoices, invoice)
		amounts = append(amounts, amount)
		valid = append(valid, ok)
	}

	raw, err := frame.New(
		frame.Strings(recon.ColInvoiceNumber, invoices),
		frame.NullableFloats(recon.ColPaysheetTotal, amounts, valid),
	)
	if err != nil {
		return frame.Frame{}, err
	}
	return raw.GroupSum(recon.ColInvoiceNumber, recon.ColPaysheetTotal, recon.ColPaysheetTotal)
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

// cleanAmount strips currency formatting: every rune that is not a digit,
// a decimal point, or a minus sign is removed before parsing. Parsing goes
// through decimal so "1,234.56" and "$ -12.00" survive exactly.
func cleanAmount(s string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			return r
		default:
			return -1
		}
	}, s)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, false
	}
	return d.InexactFloat64(), true
}
