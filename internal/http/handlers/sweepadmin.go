package handlers

import (
	"net/http"
)

// SweepTrigger runs one expiry sweep on demand. It shares the scheduler's
// non-overlap guard: a request during a running sweep reports 409 instead of
// starting a second scan.
func (a *App) SweepTrigger(w http.ResponseWriter, r *http.Request) {
	if !a.requireAdmin(w, r) {
		return
	}
	report, ran := a.Sweeper.Run(r.Context())
	if !ran {
		a.error(w, http.StatusConflict, "sweep_in_progress", "a sweep is already executing")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"holders":  report.Holders,
		"notified": report.Notified,
		"errors":   report.Errors,
	})
}
