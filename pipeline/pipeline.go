/*
Package pipeline orchestrates a reconciliation run.

PURPOSE:
  One run is a fixed linear sequence; every stage consumes the immutable
  outputs of earlier stages and any stage error aborts the rest:

    1. Ingest + normalize financials; project the per-job rate table.
    2. Ingest + normalize bookings; join rates; compute amount_paid.
    3. Drop rows with an empty job identifier (the source's missing
       sentinel is "" rather than NULL).
    4. Sum amount_paid per job.
    5. Join the financials reference columns (updates, paysheet, invoice).
    6. Ingest + normalize jobs; join name and date.
    7. Keep jobs inside the inclusive inspection date window.
    8. Aggregate the paysheet folder, re-sum per invoice, join on
       invoice number.
    9. Emit the report and write the three snapshot artifacts.

  Jobs missing from any source fall out of the inner joins silently;
  that is the contract, not a defect to report.

FAILURE POLICY:
  Hard errors (connection, read, schema) propagate to the caller's
  top-level boundary. Artifacts are only written after stage 9 succeeds,
  so a failed run never leaves a fresh partial snapshot behind.
*/
package pipeline

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/allstake/payrecon/frame"
	"github.com/allstake/payrecon/paysheet"
	"github.com/allstake/payrecon/recon"
	"github.com/allstake/payrecon/snapshot"
)

// Staging table names.
const (
	TableFinancials = "financials"
	TableBooking    = "booking"
	TableJobs       = "jobs"
)

// TableReader is the read surface the pipeline needs from the staging
// database.
type TableReader interface {
	ReadTable(ctx context.Context, table string, hints map[string]frame.Kind) (frame.Frame, error)
}

// Options are the per-run knobs, mapped from config by the caller.
type Options struct {
	PaysheetDir string
	SnapshotDir string

	// Inclusive bounds on date_of_job.
	From time.Time
	To   time.Time
}

// Result carries the three output tables of a successful run, in the same
// row types the snapshot artifacts use.
type Result struct {
	FilteredBookings []snapshot.FilteredBooking
	JobTotals        []snapshot.JobTotal
	Reconciliation   []snapshot.Reconciliation
}

type Pipeline struct {
	staging TableReader
	sheets  paysheet.Aggregator
	log     *zap.Logger
	opts    Options
}

func New(staging TableReader, sheets paysheet.Aggregator, log *zap.Logger, opts Options) *Pipeline {
	return &Pipeline{staging: staging, sheets: sheets, log: log, opts: opts}
}

var (
	financialsHints = map[string]frame.Kind{
		recon.ColJobStatus: frame.KindCategory,
	}
	bookingHints = map[string]frame.Kind{
		recon.ColPosition:      frame.KindCategory,
		recon.ColBookingStatus: frame.KindCategory,
	}
)

// Run executes the nine stages and writes the snapshot artifacts.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	// Stage 1: financials and the rate lookup.
	rawFin, err := p.staging.ReadTable(ctx, TableFinancials, financialsHints)
	if err != nil {
		return nil, err
	}
	fin, err := recon.FinancialsNormalizer{Log: p.log}.Normalize(rawFin)
	if err != nil {
		return nil, err
	}
	rates, err := recon.RateProjection(fin)
	if err != nil {
		return nil, err
	}
	p.log.Info("financials normalized", zap.Int("rows", fin.Len()))

	// Stage 2: bookings with computed pay.
	rawBook, err := p.staging.ReadTable(ctx, TableBooking, bookingHints)
	if err != nil {
		return nil, err
	}
	book, err := recon.BookingNormalizer{Log: p.log}.Normalize(rawBook)
	if err != nil {
		return nil, err
	}
	paid, err := recon.AmountCalculator{}.Compute(book, rates)
	if err != nil {
		return nil, err
	}
	p.log.Info("booking amounts computed",
		zap.Int("bookings", book.Len()),
		zap.Int("matched", paid.Len()))

	// Stage 3: the source writes "" where it means no job.
	filtered := paid.Filter(func(i int) bool {
		id, ok := paid.Str(recon.ColJobID, i)
		return ok && strings.TrimSpace(id) != ""
	})

	// Stage 4: per-job computed totals.
	totals, err := filtered.GroupSum(recon.ColJobID, recon.ColAmountPaid, recon.ColBookingTotal)
	if err != nil {
		return nil, err
	}

	// Stage 5: join the reference amounts.
	references, err := fin.Select(recon.ColJobID, recon.ColUpdatesAmount, recon.ColPaysheetAmount, recon.ColInvoiceNumber)
	if err != nil {
		return nil, err
	}
	cmp, err := totals.InnerJoin(references, recon.ColJobID)
	if err != nil {
		return nil, err
	}

	// Stage 6: job metadata.
	rawJobs, err := p.staging.ReadTable(ctx, TableJobs, nil)
	if err != nil {
		return nil, err
	}
	jobs, err := recon.JobsNormalizer{Log: p.log}.Normalize(rawJobs)
	if err != nil {
		return nil, err
	}
	meta, err := jobs.Select(recon.ColJobID, recon.ColJobName, recon.ColDateOfJob)
	if err != nil {
		return nil, err
	}
	if cmp, err = cmp.InnerJoin(meta, recon.ColJobID); err != nil {
		return nil, err
	}

	// Stage 7: inclusive inspection window; jobs without a date drop out.
	windowed := cmp.Filter(func(i int) bool {
		d, ok := cmp.Time(recon.ColDateOfJob, i)
		return ok && !d.Before(p.opts.From) && !d.After(p.opts.To)
	})
	p.log.Info("comparison table built",
		zap.Int("jobs", cmp.Len()),
		zap.Int("in_window", windowed.Len()))

	// Stage 8: paysheet files, re-summed per invoice across files.
	sheets, err := p.sheets.AggregateDir(p.opts.PaysheetDir)
	if err != nil {
		return nil, err
	}
	invoiceTotals, err := sheets.GroupSum(recon.ColInvoiceNumber, recon.ColPaysheetTotal, recon.ColPaysheetTotal)
	if err != nil {
		return nil, err
	}
	final, err := windowed.InnerJoin(invoiceTotals, recon.ColInvoiceNumber)
	if err != nil {
		return nil, err
	}

	// Stage 9: emit and persist.
	result := &Result{
		FilteredBookings: filteredBookingRows(filtered),
		JobTotals:        jobTotalRows(windowed),
		Reconciliation:   reconciliationRows(final),
	}
	p.log.Info("reconciliation complete", zap.Int("jobs", len(result.Reconciliation)))

	if p.opts.SnapshotDir != "" {
		if err := p.writeSnapshots(result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (p *Pipeline) writeSnapshots(r *Result) error {
	if err := os.MkdirAll(p.opts.SnapshotDir, 0o755); err != nil {
		return fmt.Errorf("snapshot dir: %w", err)
	}
	if err := snapshot.Write(filepath.Join(p.opts.SnapshotDir, snapshot.FilteredBookingsFile), r.FilteredBookings); err != nil {
		return err
	}
	if err := snapshot.Write(filepath.Join(p.opts.SnapshotDir, snapshot.JobTotalsFile), r.JobTotals); err != nil {
		return err
	}
	if err := snapshot.Write(filepath.Join(p.opts.SnapshotDir, snapshot.ReconciliationFile), r.Reconciliation); err != nil {
		return err
	}
	p.log.Info("snapshots written", zap.String("dir", p.opts.SnapshotDir))
	return nil
}

// =============================================================================
// FRAME TO SNAPSHOT ROWS
// =============================================================================

func str(f frame.Frame, col string, i int) string {
	s, _ := f.Str(col, i)
	return s
}

func num(f frame.Frame, col string, i int) float64 {
	v, ok := f.Float(col, i)
	if !ok || math.IsNaN(v) {
		return 0
	}
	return v
}

func day(f frame.Frame, col string, i int) time.Time {
	d, _ := f.Time(col, i)
	return d
}

func filteredBookingRows(f frame.Frame) []snapshot.FilteredBooking {
	rows := make([]snapshot.FilteredBooking, f.Len())
	for i := range rows {
		rows[i] = snapshot.FilteredBooking{
			StudentID:  str(f, recon.ColStudentID, i),
			JobID:      str(f, recon.ColJobID, i),
			Position:   str(f, recon.ColPosition, i),
			Duration:   num(f, recon.ColDuration, i),
			Bonuses:    num(f, recon.ColBonuses, i),
			Deductions: num(f, recon.ColDeductions, i),
			AmountPaid: num(f, recon.ColAmountPaid, i),
		}
	}
	return rows
}

func jobTotalRows(f frame.Frame) []snapshot.JobTotal {
	rows := make([]snapshot.JobTotal, f.Len())
	for i := range rows {
		rows[i] = snapshot.JobTotal{
			JobID:          str(f, recon.ColJobID, i),
			JobName:        str(f, recon.ColJobName, i),
			DateOfJob:      day(f, recon.ColDateOfJob, i),
			BookingTotal:   num(f, recon.ColBookingTotal, i),
			UpdatesAmount:  num(f, recon.ColUpdatesAmount, i),
			PaysheetAmount: num(f, recon.ColPaysheetAmount, i),
			InvoiceNumber:  str(f, recon.ColInvoiceNumber, i),
		}
	}
	return rows
}

func reconciliationRows(f frame.Frame) []snapshot.Reconciliation {
	rows := make([]snapshot.Reconciliation, f.Len())
	for i := range rows {
		booking := num(f, recon.ColBookingTotal, i)
		updates := num(f, recon.ColUpdatesAmount, i)
		sheet := num(f, recon.ColPaysheetTotal, i)
		rows[i] = snapshot.Reconciliation{
			JobID:          str(f, recon.ColJobID, i),
			JobName:        str(f, recon.ColJobName, i),
			DateOfJob:      day(f, recon.ColDateOfJob, i),
			BookingTotal:   booking,
			UpdatesAmount:  updates,
			PaysheetAmount: num(f, recon.ColPaysheetAmount, i),
			PaysheetTotal:  sheet,
			InvoiceNumber:  str(f, recon.ColInvoiceNumber, i),
			UpdatesDelta:   booking - updates,
			PaysheetDelta:  booking - sheet,
		}
	}
	return rows
}
