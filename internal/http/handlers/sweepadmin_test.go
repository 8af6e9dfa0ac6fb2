package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"medicab/internal/domain"
	"medicab/internal/sweep"
)

type sweepTestInventory struct {
	domain.InventoryRepository
	entries map[string][]domain.CabinetEntry
}

func (i *sweepTestInventory) ListHoldersWithEntries(context.Context) ([]string, error) {
	holders := make([]string, 0, len(i.entries))
	for id := range i.entries {
		holders = append(holders, id)
	}
	return holders, nil
}

func (i *sweepTestInventory) ListExpiringEntries(_ context.Context, holderID string, asOf time.Time, lookahead time.Duration) ([]domain.CabinetEntry, error) {
	var out []domain.CabinetEntry
	for _, e := range i.entries[holderID] {
		if e.ExpiryDate.Before(asOf.Add(lookahead)) {
			out = append(out, e)
		}
	}
	return out, nil
}

func newSweepTestApp(inventory domain.InventoryRepository) *App {
	directory := &testDirectory{actors: map[string]domain.Actor{
		"admin-1": {ID: "admin-1", Name: "Root", Role: domain.RoleAdmin},
		"donor-1": {ID: "donor-1", Name: "Dana", Role: domain.RoleUser},
	}}
	sweeper := sweep.NewSweeper(
		inventory, silentSink{}, frozenClock{t: testNow},
		30*24*time.Hour, time.Second, zerolog.Nop(),
	)
	return &App{
		Logger:    zerolog.Nop(),
		Directory: directory,
		Sweeper:   sweeper,
		Clock:     frozenClock{t: testNow},
	}
}

func TestSweepTriggerRequiresAdmin(t *testing.T) {
	app := newSweepTestApp(&sweepTestInventory{})

	req := asActor(httptest.NewRequest("POST", "/v1/admin/sweep", nil), "donor-1")
	rr := httptest.NewRecorder()

	app.SweepTrigger(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: got %d, want 403", rr.Code)
	}
}

func TestSweepTriggerReportsCounts(t *testing.T) {
	inventory := &sweepTestInventory{entries: map[string][]domain.CabinetEntry{
		"donor-1": {{ID: "e-1", HolderID: "donor-1", MedicineName: "Amoxicillin", ExpiryDate: testNow.Add(5 * 24 * time.Hour)}},
		"donor-2": {{ID: "e-2", HolderID: "donor-2", MedicineName: "Ibuprofen", ExpiryDate: testNow.Add(120 * 24 * time.Hour)}},
	}}
	app := newSweepTestApp(inventory)

	req := asActor(httptest.NewRequest("POST", "/v1/admin/sweep", nil), "admin-1")
	rr := httptest.NewRecorder()

	app.SweepTrigger(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d, want 200, body %s", rr.Code, rr.Body.String())
	}
	var payload struct {
		Holders  int `json:"holders"`
		Notified int `json:"notified"`
		Errors   int `json:"errors"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Holders != 2 {
		t.Fatalf("expected 2 holders scanned, got %d", payload.Holders)
	}
	if payload.Notified != 1 {
		t.Fatalf("only the holder with an expiring entry should be notified, got %d", payload.Notified)
	}
	if payload.Errors != 0 {
		t.Fatalf("expected no holder errors, got %d", payload.Errors)
	}
}
