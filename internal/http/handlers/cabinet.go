package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"medicab/internal/domain"
)

type addCabinetEntryRequest struct {
	MedicineID string    `json:"medicine_id"`
	Quantity   int       `json:"quantity"`
	ExpiryDate time.Time `json:"expiry_date"`
}

type cabinetEntryDTO struct {
	ID           string    `json:"id"`
	MedicineID   string    `json:"medicine_id"`
	MedicineName string    `json:"medicine_name"`
	Quantity     int       `json:"quantity"`
	ExpiryDate   time.Time `json:"expiry_date"`
	AddedAt      time.Time `json:"added_at"`
}

func (a *App) CabinetAdd(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.requireActor(w, r)
	if !ok {
		return
	}

	var req addCabinetEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Quantity <= 0 {
		a.error(w, http.StatusBadRequest, "validation_failed", "quantity must be positive")
		return
	}

	med, err := a.Medicines.GetByID(r.Context(), req.MedicineID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "medicine not found")
			return
		}
		a.domainError(w, err)
		return
	}

	entry := &domain.CabinetEntry{
		ID:           uuid.NewString(),
		HolderID:     actor.ID,
		MedicineID:   med.ID,
		MedicineName: med.Name,
		Quantity:     req.Quantity,
		ExpiryDate:   req.ExpiryDate,
		AddedAt:      a.Clock.Now(),
	}
	if err := a.Inventory.AddEntry(r.Context(), entry); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, toCabinetEntryDTO(entry))
}

func (a *App) CabinetList(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.requireActor(w, r)
	if !ok {
		return
	}
	entries, err := a.Inventory.ListByHolder(r.Context(), actor.ID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	items := make([]cabinetEntryDTO, 0, len(entries))
	for i := range entries {
		items = append(items, toCabinetEntryDTO(&entries[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"entries": items})
}

func (a *App) CabinetRemove(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.requireActor(w, r)
	if !ok {
		return
	}
	if err := a.Inventory.RemoveEntry(r.Context(), actor.ID, chi.URLParam(r, "id")); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"message": "entry removed"})
}

func toCabinetEntryDTO(e *domain.CabinetEntry) cabinetEntryDTO {
	return cabinetEntryDTO{
		ID:           e.ID,
		MedicineID:   e.MedicineID,
		MedicineName: e.MedicineName,
		Quantity:     e.Quantity,
		ExpiryDate:   e.ExpiryDate,
		AddedAt:      e.AddedAt,
	}
}
