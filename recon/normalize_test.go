package recon_test

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/allstake/payrecon/frame"
	"github.com/allstake/payrecon/recon"
)

func TestFinancials_BlankStringsBecomeNull(t *testing.T) {
	f, err := frame.New(
		frame.Strings(recon.ColJobID, []string{"J1", "J2", "J3"}),
		frame.Strings(recon.ColInvoiceNumber, []string{"INV-1", "INV-2", "INV-3"}),
		frame.Strings(recon.ColCounterRate, []string{"12.5", "  ", "twelve"}),
		frame.Strings(recon.ColScannerRate, []string{"15", "", "15"}),
		frame.Strings(recon.ColAuditorControllerRate, []string{"18", "18", "18"}),
		frame.Strings(recon.ColAssCoordRate, []string{"20", "20", "20"}),
		frame.Strings(recon.ColCoordRate, []string{"25", "25", "25"}),
		frame.Strings(recon.ColUpdatesAmount, []string{"160", " ", "90"}),
		frame.Strings(recon.ColPaysheetAmount, []string{"160", "80", ""}),
	)
	if err != nil {
		t.Fatalf("frame: %v", err)
	}

	out, err := recon.FinancialsNormalizer{Log: zap.NewNop()}.Normalize(f)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if v, ok := out.Float(recon.ColCounterRate, 0); !ok || v != 12.5 {
		t.Fatalf("counter rate row 0 = %v, %v", v, ok)
	}
	// Whitespace-only and garbage both soft-fail to null, never an error.
	if _, ok := out.Float(recon.ColCounterRate, 1); ok {
		t.Fatal("blank counter rate should be null")
	}
	if _, ok := out.Float(recon.ColCounterRate, 2); ok {
		t.Fatal("non-numeric counter rate should be null")
	}
	if _, ok := out.Float(recon.ColUpdatesAmount, 1); ok {
		t.Fatal("blank updates amount should be null")
	}
}

func TestFinancials_MissingRateColumnAborts(t *testing.T) {
	// A financials export without scanner_cost_hr must stop the run here.
	// Were it allowed through, the rate lookup would resolve every scanner
	// to a null rate and the report would pay the whole role zero.
	f, err := frame.New(
		frame.Strings(recon.ColJobID, []string{"J1"}),
		frame.Strings(recon.ColInvoiceNumber, []string{"INV-1"}),
		frame.Strings(recon.ColCounterRate, []string{"12"}),
		frame.Strings(recon.ColAuditorControllerRate, []string{"18"}),
		frame.Strings(recon.ColAssCoordRate, []string{"20"}),
		frame.Strings(recon.ColCoordRate, []string{"25"}),
		frame.Strings(recon.ColUpdatesAmount, []string{"160"}),
		frame.Strings(recon.ColPaysheetAmount, []string{"160"}),
	)
	if err != nil {
		t.Fatalf("frame: %v", err)
	}

	_, err = recon.FinancialsNormalizer{Log: zap.NewNop()}.Normalize(f)
	var serr *frame.SchemaError
	if !errors.As(err, &serr) {
		t.Fatalf("Normalize = %v, want schema error", err)
	}
	found := false
	for _, name := range serr.Missing {
		if name == recon.ColScannerRate {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing columns = %v, want %s named", serr.Missing, recon.ColScannerRate)
	}
}

func TestFinancials_RateProjectionColumns(t *testing.T) {
	f, err := frame.New(
		frame.Strings(recon.ColJobID, []string{"J1"}),
		frame.Strings(recon.ColInvoiceNumber, []string{"INV-1"}),
		frame.Floats(recon.ColCounterRate, []float64{12}),
		frame.Floats(recon.ColScannerRate, []float64{15}),
		frame.Floats(recon.ColAuditorControllerRate, []float64{18}),
		frame.Floats(recon.ColAssCoordRate, []float64{20}),
		frame.Floats(recon.ColCoordRate, []float64{25}),
		frame.Floats(recon.ColUpdatesAmount, []float64{160}),
		frame.Floats(recon.ColPaysheetAmount, []float64{160}),
	)
	if err != nil {
		t.Fatalf("frame: %v", err)
	}

	rates, err := recon.RateProjection(f)
	if err != nil {
		t.Fatalf("RateProjection: %v", err)
	}
	want := append([]string{recon.ColJobID}, recon.RateColumns...)
	got := rates.Columns()
	if len(got) != len(want) {
		t.Fatalf("columns = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("columns = %v, want %v", got, want)
		}
	}
}

func TestJobs_DateCoercion(t *testing.T) {
	f, err := frame.New(
		frame.Strings(recon.ColJobID, []string{"J1", "J2", "J3"}),
		frame.Strings(recon.ColJobName, []string{"Store A", "Store B", "Store C"}),
		frame.Strings(recon.ColDateOfJob, []string{"2025-03-01", "01/04/2025", "someday"}),
	)
	if err != nil {
		t.Fatalf("frame: %v", err)
	}

	out, err := recon.JobsNormalizer{Log: zap.NewNop()}.Normalize(f)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	d, ok := out.Time(recon.ColDateOfJob, 0)
	if !ok || !d.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("row 0 date = %v, %v", d, ok)
	}
	d, ok = out.Time(recon.ColDateOfJob, 1)
	if !ok || !d.Equal(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("row 1 date = %v, %v (day/month order)", d, ok)
	}
	if _, ok := out.Time(recon.ColDateOfJob, 2); ok {
		t.Fatal("unparsable date should be null")
	}
}
