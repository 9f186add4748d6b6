/*
Package snapshot persists the pipeline's inspection artifacts.

PURPOSE:
  Three tables are written once per run, for inspection and downstream
  consumption: the filtered bookings with their computed pay, the
  date-filtered per-job totals comparison, and the final invoice-joined
  reconciliation. Artifacts are parquet files (columnar, typed, snappy
  compressed) and are overwritten on every run; there is no versioning.

  Each artifact has a fixed row type below, so readers get typed rows
  back without knowing the frame machinery.
*/
package snapshot

import (
	"fmt"
	"time"

	"github.com/parquet-go/parquet-go"
)

// Artifact file names inside the snapshot directory.
const (
	FilteredBookingsFile = "filtered_bookings.parquet"
	JobTotalsFile        = "job_totals.parquet"
	ReconciliationFile   = "reconciliation.parquet"
)

// FilteredBooking is one booking row that survived normalization, the
// rate join, and the empty-job-id filter.
type FilteredBooking struct {
	StudentID  string  `parquet:"student_id,dict,snappy"`
	JobID      string  `parquet:"job_id,dict,snappy"`
	Position   string  `parquet:"job_position,dict,snappy"`
	Duration   float64 `parquet:"duration,snappy"`
	Bonuses    float64 `parquet:"bonuses,snappy"`
	Deductions float64 `parquet:"deductions,snappy"`
	AmountPaid float64 `parquet:"amount_paid,snappy"`
}

// JobTotal is one row of the date-filtered comparison table, before the
// paysheet join.
type JobTotal struct {
	JobID          string    `parquet:"job_id,dict,snappy"`
	JobName        string    `parquet:"job_name,snappy"`
	DateOfJob      time.Time `parquet:"date_of_job,timestamp,snappy"`
	BookingTotal   float64   `parquet:"booking_total,snappy"`
	UpdatesAmount  float64   `parquet:"updates_amount,snappy"`
	PaysheetAmount float64   `parquet:"paysheet_amount,snappy"`
	InvoiceNumber  string    `parquet:"invoice_number,dict,snappy"`
}

// Reconciliation is one row of the final report: the three-way comparison
// plus the discrepancy deltas.
type Reconciliation struct {
	JobID          string    `parquet:"job_id,dict,snappy"`
	JobName        string    `parquet:"job_name,snappy"`
	DateOfJob      time.Time `parquet:"date_of_job,timestamp,snappy"`
	BookingTotal   float64   `parquet:"booking_total,snappy"`
	UpdatesAmount  float64   `parquet:"updates_amount,snappy"`
	PaysheetAmount float64   `parquet:"paysheet_amount,snappy"`
	PaysheetTotal  float64   `parquet:"paysheet_total,snappy"`
	InvoiceNumber  string    `parquet:"invoice_number,dict,snappy"`
	UpdatesDelta   float64   `parquet:"updates_delta,snappy"`
	PaysheetDelta  float64   `parquet:"paysheet_delta,snappy"`
}

// Write writes rows to path, replacing any previous artifact.
func Write[T any](path string, rows []T) error {
	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return nil
}

// Read reads an artifact back into typed rows. A snapshot written by
// Write reads back equal, row for row.
func Read[T any](path string) ([]T, error) {
	rows, err := parquet.ReadFile[T](path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	return rows, nil
}
