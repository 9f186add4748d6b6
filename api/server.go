/*
Package api serves the latest reconciliation snapshots over HTTP.

PURPOSE:
  The snapshot artifacts exist for inspection and downstream consumption.
  This package gives the finance side a read-only JSON view of the most
  recent run without teaching them parquet: three report endpoints plus a
  health check. There is no write surface; the batch run is the only
  writer.

ROUTES:
  GET /healthz                          liveness
  GET /api/reports/filtered-bookings    per-booking computed pay
  GET /api/reports/job-totals           date-filtered comparison table
  GET /api/reports/reconciliation       final invoice-joined report

SECURITY NOTE:
  No authentication; deploy behind the internal proxy only.
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter configures the router and middleware stack.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", h.Health)
	r.Route("/api/reports", func(r chi.Router) {
		r.Get("/filtered-bookings", h.FilteredBookings)
		r.Get("/job-totals", h.JobTotals)
		r.Get("/reconciliation", h.Reconciliation)
	})
	return r
}
