package api

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/allstake/payrecon/snapshot"
)

// Handler serves the artifacts from the snapshot directory. Files are
// read per request so a new batch run is visible immediately.
type Handler struct {
	SnapshotDir string
	Log         *zap.Logger
}

func NewHandler(snapshotDir string, log *zap.Logger) *Handler {
	return &Handler{SnapshotDir: snapshotDir, Log: log}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) FilteredBookings(w http.ResponseWriter, r *http.Request) {
	serveSnapshot[snapshot.FilteredBooking](h, w, snapshot.FilteredBookingsFile)
}

func (h *Handler) JobTotals(w http.ResponseWriter, r *http.Request) {
	serveSnapshot[snapshot.JobTotal](h, w, snapshot.JobTotalsFile)
}

func (h *Handler) Reconciliation(w http.ResponseWriter, r *http.Request) {
	serveSnapshot[snapshot.Reconciliation](h, w, snapshot.ReconciliationFile)
}

func serveSnapshot[T any](h *Handler, w http.ResponseWriter, file string) {
	path := filepath.Join(h.SnapshotDir, file)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "no snapshot available; run the reconciliation first",
		})
		return
	}
	rows, err := snapshot.Read[T](path)
	if err != nil {
		h.Log.Error("snapshot read failed", zap.String("file", file), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "snapshot read failed"})
		return
	}
	if rows == nil {
		rows = []T{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
