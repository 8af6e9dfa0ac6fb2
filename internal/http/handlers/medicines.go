package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"medicab/internal/domain"
)

type medicineRequest struct {
	Name              string    `json:"name"`
	Manufacturer      string    `json:"manufacturer"`
	BatchNumber       string    `json:"batch_number"`
	Barcode           string    `json:"barcode"`
	Category          string    `json:"category"`
	ManufacturingDate time.Time `json:"manufacturing_date"`
	ExpiryDate        time.Time `json:"expiry_date"`
	Verified          bool      `json:"verified"`
}

func (r medicineRequest) validate() (domain.MedicineCategory, string) {
	if r.Name == "" {
		return "", "name is required"
	}
	if r.Manufacturer == "" {
		return "", "manufacturer is required"
	}
	if r.Barcode == "" {
		return "", "barcode is required"
	}
	category, valid := domain.ParseMedicineCategory(r.Category)
	if !valid {
		return "", "unknown category"
	}
	return category, ""
}

func (a *App) MedicinesList(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireActor(w, r); !ok {
		return
	}
	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := queryInt(r, "limit", 10)
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	var category domain.MedicineCategory
	if raw := r.URL.Query().Get("category"); raw != "" {
		parsed, valid := domain.ParseMedicineCategory(raw)
		if !valid {
			a.error(w, http.StatusBadRequest, "bad_request", "unknown category")
			return
		}
		category = parsed
	}

	medicines, total, err := a.Medicines.List(r.Context(), domain.MedicineQuery{
		Search:   r.URL.Query().Get("search"),
		Category: category,
		Offset:   (page - 1) * limit,
		Limit:    limit,
	})
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"medicines":    medicines,
		"total":        total,
		"total_pages":  (total + limit - 1) / limit,
		"current_page": page,
	})
}

func (a *App) MedicinesGetByBarcode(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireActor(w, r); !ok {
		return
	}
	med, err := a.Medicines.GetByBarcode(r.Context(), chi.URLParam(r, "barcode"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, med)
}

func (a *App) MedicinesCreate(w http.ResponseWriter, r *http.Request) {
	if !a.requireAdmin(w, r) {
		return
	}
	var req medicineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	category, problem := req.validate()
	if problem != "" {
		a.error(w, http.StatusBadRequest, "validation_failed", problem)
		return
	}

	now := a.Clock.Now()
	med := &domain.Medicine{
		ID:                uuid.NewString(),
		Name:              req.Name,
		Manufacturer:      req.Manufacturer,
		BatchNumber:       req.BatchNumber,
		Barcode:           req.Barcode,
		Category:          category,
		ManufacturingDate: req.ManufacturingDate,
		ExpiryDate:        req.ExpiryDate,
		Verified:          req.Verified,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := a.Medicines.Create(r.Context(), med); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, med)
}

func (a *App) MedicinesUpdate(w http.ResponseWriter, r *http.Request) {
	if !a.requireAdmin(w, r) {
		return
	}
	var req medicineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	category, problem := req.validate()
	if problem != "" {
		a.error(w, http.StatusBadRequest, "validation_failed", problem)
		return
	}

	med := &domain.Medicine{
		ID:                chi.URLParam(r, "id"),
		Name:              req.Name,
		Manufacturer:      req.Manufacturer,
		BatchNumber:       req.BatchNumber,
		Barcode:           req.Barcode,
		Category:          category,
		ManufacturingDate: req.ManufacturingDate,
		ExpiryDate:        req.ExpiryDate,
		Verified:          req.Verified,
		UpdatedAt:         a.Clock.Now(),
	}
	if err := a.Medicines.Update(r.Context(), med); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, med)
}

func (a *App) MedicinesDelete(w http.ResponseWriter, r *http.Request) {
	if !a.requireAdmin(w, r) {
		return
	}
	if err := a.Medicines.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"message": "medicine deleted"})
}

func (a *App) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	actor, ok := a.requireActor(w, r)
	if !ok {
		return false
	}
	if actor.Role != domain.RoleAdmin {
		a.error(w, http.StatusForbidden, "forbidden", "administrator role required")
		return false
	}
	return true
}
