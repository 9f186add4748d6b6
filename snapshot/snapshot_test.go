package snapshot_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allstake/payrecon/snapshot"
)

func TestWriteRead_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), snapshot.ReconciliationFile)
	want := []snapshot.Reconciliation{
		{
			JobID:          "J1",
			JobName:        "Store A",
			DateOfJob:      time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			BookingTotal:   160,
			UpdatesAmount:  160,
			PaysheetAmount: 160,
			PaysheetTotal:  160,
			InvoiceNumber:  "INV-1",
		},
		{
			JobID:          "J2",
			JobName:        "Store B",
			DateOfJob:      time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
			BookingTotal:   90.5,
			UpdatesAmount:  100,
			PaysheetAmount: 90.5,
			PaysheetTotal:  90.5,
			InvoiceNumber:  "INV-2",
			UpdatesDelta:   -9.5,
		},
	}

	require.NoError(t, snapshot.Write(path, want))

	got, err := snapshot.Read[snapshot.Reconciliation](path)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].JobID, got[i].JobID)
		assert.Equal(t, want[i].BookingTotal, got[i].BookingTotal)
		assert.Equal(t, want[i].UpdatesDelta, got[i].UpdatesDelta)
		assert.Equal(t, want[i].InvoiceNumber, got[i].InvoiceNumber)
		assert.True(t, want[i].DateOfJob.Equal(got[i].DateOfJob),
			"date round-trip: want %v got %v", want[i].DateOfJob, got[i].DateOfJob)
	}
}

func TestWrite_OverwritesPreviousRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), snapshot.JobTotalsFile)

	require.NoError(t, snapshot.Write(path, []snapshot.JobTotal{{JobID: "OLD"}}))
	require.NoError(t, snapshot.Write(path, []snapshot.JobTotal{{JobID: "NEW"}}))

	got, err := snapshot.Read[snapshot.JobTotal](path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "NEW", got[0].JobID)
}

func TestRead_MissingFileFails(t *testing.T) {
	_, err := snapshot.Read[snapshot.FilteredBooking](filepath.Join(t.TempDir(), "absent.parquet"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.parquet")
}
