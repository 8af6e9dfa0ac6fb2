package repo

import (
	"context"
	"time"

	"medicab/internal/domain"
	"medicab/internal/infra"
	"medicab/internal/sqlinline"
)

// InventoryRepositoryPG stores cabinet entries and serves the sweep's
// expiring-entries read model.
type InventoryRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewInventoryRepository(sql infra.SQLExecutor) *InventoryRepositoryPG {
	return &InventoryRepositoryPG{sql: sql}
}

// AddEntry inserts a cabinet entry for a holder.
func (r *InventoryRepositoryPG) AddEntry(ctx context.Context, e *domain.CabinetEntry) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertCabinetEntry,
		e.ID, e.HolderID, e.MedicineID, e.Quantity, e.ExpiryDate, e.AddedAt)
	return err
}

// ListByHolder returns all entries for a holder, soonest expiry first.
func (r *InventoryRepositoryPG) ListByHolder(ctx context.Context, holderID string) ([]domain.CabinetEntry, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListCabinetByHolder, holderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCabinetEntries(rows)
}

// RemoveEntry deletes an entry, scoped to its holder.
func (r *InventoryRepositoryPG) RemoveEntry(ctx context.Context, holderID, entryID string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QDeleteCabinetEntry, entryID, holderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListHoldersWithEntries returns every holder id with at least one entry.
func (r *InventoryRepositoryPG) ListHoldersWithEntries(ctx context.Context) ([]string, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListHoldersWithEntries)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holders []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		holders = append(holders, id)
	}
	return holders, rows.Err()
}

// ListExpiringEntries returns a holder's entries expiring within the
// lookahead window measured from asOf.
func (r *InventoryRepositoryPG) ListExpiringEntries(ctx context.Context, holderID string, asOf time.Time, lookahead time.Duration) ([]domain.CabinetEntry, error) {
	threshold := asOf.Add(lookahead)
	rows, err := r.sql.Query(ctx, sqlinline.QListExpiringEntries, holderID, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCabinetEntries(rows)
}

type pgxRows interface {
	rowScanner
	Next() bool
	Err() error
}

func scanCabinetEntries(rows pgxRows) ([]domain.CabinetEntry, error) {
	var entries []domain.CabinetEntry
	for rows.Next() {
		var e domain.CabinetEntry
		if err := rows.Scan(&e.ID, &e.HolderID, &e.MedicineID, &e.MedicineName, &e.Quantity, &e.ExpiryDate, &e.AddedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

var _ domain.InventoryRepository = (*InventoryRepositoryPG)(nil)
