package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"medicab/internal/domain"
	"medicab/internal/service"
)

type donationItemRequest struct {
	MedicineID string    `json:"medicine_id"`
	Quantity   int       `json:"quantity"`
	ExpiryDate time.Time `json:"expiry_date"`
}

type createDonationRequest struct {
	ReceiverID    string                `json:"receiver_id"`
	Items         []donationItemRequest `json:"items"`
	PickupAddress *domain.PickupAddress `json:"pickup_address"`
	Notes         string                `json:"notes"`
}

type transitionRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

type donationDTO struct {
	ID            string                `json:"id"`
	DonorID       string                `json:"donor_id"`
	ReceiverID    string                `json:"receiver_id"`
	Items         []domain.DonationItem `json:"items"`
	Status        string                `json:"status"`
	PickupAddress *domain.PickupAddress `json:"pickup_address,omitempty"`
	PickupDate    *time.Time            `json:"pickup_date,omitempty"`
	Notes         string                `json:"notes,omitempty"`
	StatusHistory []domain.StatusChange `json:"status_history"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

func toDonationDTO(d *domain.Donation) donationDTO {
	return donationDTO{
		ID:            d.ID,
		DonorID:       d.DonorID,
		ReceiverID:    d.ReceiverID,
		Items:         d.Items,
		Status:        string(d.Status),
		PickupAddress: d.PickupAddress,
		PickupDate:    d.PickupDate,
		Notes:         d.Notes,
		StatusHistory: d.StatusHistory,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func (a *App) DonationsCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.requireActor(w, r)
	if !ok {
		return
	}

	var req createDonationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	in := service.CreateInput{
		ReceiverID:    req.ReceiverID,
		PickupAddress: req.PickupAddress,
		Notes:         req.Notes,
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, service.ItemInput{
			MedicineID: item.MedicineID,
			Quantity:   item.Quantity,
			ExpiryDate: item.ExpiryDate,
		})
	}

	d, err := a.Donations.Create(r.Context(), *actor, in)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, toDonationDTO(d))
}

func (a *App) DonationsList(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.requireActor(w, r)
	if !ok {
		return
	}

	var statusFilter domain.DonationStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, valid := domain.ParseDonationStatus(raw)
		if !valid {
			a.error(w, http.StatusBadRequest, "bad_request", "unknown status filter")
			return
		}
		statusFilter = status
	}
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "limit", 10)

	result, err := a.Donations.List(r.Context(), *actor, statusFilter, page, pageSize)
	if err != nil {
		a.domainError(w, err)
		return
	}

	items := make([]donationDTO, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, toDonationDTO(&result.Items[i]))
	}
	a.json(w, http.StatusOK, map[string]any{
		"donations":    items,
		"total":        result.Total,
		"total_pages":  result.TotalPages,
		"current_page": result.Page,
	})
}

func (a *App) DonationsGet(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.requireActor(w, r)
	if !ok {
		return
	}
	d, err := a.Donations.Get(r.Context(), chi.URLParam(r, "id"), *actor)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toDonationDTO(d))
}

func (a *App) DonationsTransition(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.requireActor(w, r)
	if !ok {
		return
	}

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	status, valid := domain.ParseDonationStatus(req.Status)
	if !valid {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown status")
		return
	}

	d, err := a.Donations.Transition(r.Context(), chi.URLParam(r, "id"), status, *actor, req.Note)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toDonationDTO(d))
}

// DonationsCancel is the donor-facing shorthand for the cancelled transition.
func (a *App) DonationsCancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.requireActor(w, r)
	if !ok {
		return
	}
	d, err := a.Donations.Transition(r.Context(), chi.URLParam(r, "id"), domain.StatusCancelled, *actor, "Cancelled by donor")
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toDonationDTO(d))
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
