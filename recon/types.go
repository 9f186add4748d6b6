/*
Package recon contains the payroll reconciliation domain logic: booking,
financials and jobs normalization, role-rate resolution, and the
per-booking pay computation.

PURPOSE:
  The staging database stores everything as loosely typed text. This
  package repairs those tables into well-typed frames and computes what
  each worker should have been paid, so the pipeline can cross-check the
  per-job totals against the ledger and the exported paysheets.

KEY CONCEPTS IN THIS FILE (types.go):
  - Role:          the enumerated job positions and their rate columns
  - BookingStatus: lifecycle of a booking
  - JobStatus:     lifecycle of a job's financials
  - Column names:  the staging schema, as package constants

DESIGN PRINCIPLES:
  1. Soft vs hard failures: a single unparsable value becomes a null and
     is logged; a missing column or unreadable table aborts the run.
  2. Static lookups: role-to-rate resolution is a data table, not a
     conditional chain, so it can be tested exhaustively.
  3. Explicit dependencies: normalizers receive their logger; nothing in
     this package reads ambient globals.

SEE ALSO:
  - booking.go, financials.go, jobs.go: the normalizers
  - pay.go:    rate resolution and the pay formula
  - errors.go: connection/read error kinds
*/
package recon

// =============================================================================
// ROLES - Enumerated job positions
// =============================================================================

// Role is a worker's position on a job. The empty role is valid input and
// resolves to a zero hourly rate.
type Role string

const (
	RoleCounter    Role = "COUNTER"
	RoleScanner    Role = "SCANNER"
	RoleAuditor    Role = "AUDITOR"
	RoleController Role = "CONTROLLER"
	RoleAssCoord   Role = "ASS COORD"
	RoleCoord      Role = "COORD"
)

// rateColumnByRole maps a role to the financials column holding its hourly
// rate. Auditors and controllers share one rate. Roles absent from this
// table (including the empty role) pay rate 0.
var rateColumnByRole = map[Role]string{
	RoleCounter:    ColCounterRate,
	RoleScanner:    ColScannerRate,
	RoleAuditor:    ColAuditorControllerRate,
	RoleController: ColAuditorControllerRate,
	RoleAssCoord:   ColAssCoordRate,
	RoleCoord:      ColCoordRate,
}

// =============================================================================
// STATUSES
// =============================================================================

type BookingStatus string

const (
	BookingToBeBooked BookingStatus = "To Be Booked"
	BookingReplaced   BookingStatus = "Replaced"
	BookingBooked     BookingStatus = "Booked"
	BookingDP         BookingStatus = "DP"
	BookingReplacing  BookingStatus = "Replacing"
)

type JobStatus string

const (
	JobPlanning        JobStatus = "Planning"
	JobCancelled       JobStatus = "Cancelled"
	JobPaymentReceived JobStatus = "Payment Received"
	JobInvoiced        JobStatus = "Invoiced"
)

// =============================================================================
// STAGING COLUMNS
// =============================================================================

// Booking table.
const (
	ColStudentID     = "student_id"
	ColJobID         = "job_id"
	ColPosition      = "job_position"
	ColBookingStatus = "booking_status"
	ColArrivalTime   = "arrival_time"
	ColFinishTime    = "finish_time"
	ColDepartureTime = "departure_time"
	ColDuration      = "duration"
	ColHoursWorked   = "hours_worked"
	ColBonuses       = "bonuses"
	ColDeductions    = "deductions"
	ColAmountPaid    = "amount_paid"
)

// Financials table.
const (
	ColJobStatus              = "job_status"
	ColCounterRate            = "counter_cost_hr"
	ColScannerRate            = "scanner_cost_hr"
	ColAuditorControllerRate  = "auditor_controller_cost_hr"
	ColAssCoordRate           = "assistant_co_ordinator_co_hr"
	ColCoordRate              = "co_ordinator_cost_hr"
	ColUpdatesAmount          = "updates_amount"
	ColPaysheetAmount         = "paysheet_amount"
	ColInvoiceNumber          = "invoice_number"
)

// Jobs table.
const (
	ColJobName   = "job_name"
	ColDateOfJob = "date_of_job"
)

// Derived columns produced by the pipeline.
const (
	ColBookingTotal  = "booking_total"
	ColPaysheetTotal = "paysheet_total"
)

// RateColumns lists every per-role rate column in the financials table.
var RateColumns = []string{
	ColCounterRate,
	ColScannerRate,
	ColAuditorControllerRate,
	ColAssCoordRate,
	ColCoordRate,
}
