package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"medicab/internal/domain"
	"medicab/internal/infra"
	"medicab/internal/middleware"
	"medicab/internal/service"
	"medicab/internal/sweep"
)

// App bundles the dependencies the HTTP handlers need.
type App struct {
	Logger        infra.Logger
	Directory     domain.UserDirectory
	Donations     *service.DonationService
	Inventory     domain.InventoryRepository
	Medicines     domain.MedicineRepository
	Notifications domain.NotificationRepository
	Sweeper       *sweep.Sweeper
	Clock         domain.Clock
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, codeStr, message string) {
	a.json(w, code, map[string]any{"error": map[string]string{"code": codeStr, "message": message}})
}

// domainError maps typed domain errors onto the HTTP error envelope.
func (a *App) domainError(w http.ResponseWriter, err error) {
	var (
		validation *domain.ValidationError
		transition *domain.InvalidTransitionError
	)
	switch {
	case errors.As(err, &validation):
		a.error(w, http.StatusBadRequest, "validation_failed", validation.Error())
	case errors.As(err, &transition):
		a.error(w, http.StatusUnprocessableEntity, "invalid_transition", transition.Error())
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrConcurrencyConflict):
		a.error(w, http.StatusConflict, "conflict", "donation was modified concurrently, re-fetch and retry")
	case errors.Is(err, domain.ErrDependencyUnavailable):
		a.error(w, http.StatusServiceUnavailable, "unavailable", "a dependency is unavailable")
	default:
		a.Logger.Error().Err(err).Msg("unhandled error")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

// currentActor resolves the authenticated actor through the directory.
func (a *App) currentActor(r *http.Request) (*domain.Actor, error) {
	id := middleware.ActorIDFromContext(r.Context())
	if id == "" {
		return nil, domain.ErrNotFound
	}
	return a.Directory.Resolve(r.Context(), id)
}

// requireActor writes the 401 itself when resolution fails.
func (a *App) requireActor(w http.ResponseWriter, r *http.Request) (*domain.Actor, bool) {
	actor, err := a.currentActor(r)
	if err != nil {
		a.error(w, http.StatusUnauthorized, "unauthorized", "unknown actor")
		return nil, false
	}
	return actor, true
}
