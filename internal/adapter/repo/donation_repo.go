package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"medicab/internal/domain"
	"medicab/internal/infra"
	"medicab/internal/sqlinline"
)

// DonationRepositoryPG implements domain.DonationRepository using PostgreSQL.
// Items and history live as JSONB on the donation row so the append-and-
// status-update is a single-row write guarded by the version column.
type DonationRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewDonationRepository creates a new donation repo.
func NewDonationRepository(sql infra.SQLExecutor) *DonationRepositoryPG {
	return &DonationRepositoryPG{sql: sql}
}

// Create inserts a new donation record with its initial history entry.
func (r *DonationRepositoryPG) Create(ctx context.Context, d *domain.Donation) error {
	items, err := json.Marshal(d.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	history, err := json.Marshal(d.StatusHistory)
	if err != nil {
		return fmt.Errorf("marshal status history: %w", err)
	}
	var address any
	if d.PickupAddress != nil {
		address, err = json.Marshal(d.PickupAddress)
		if err != nil {
			return fmt.Errorf("marshal pickup address: %w", err)
		}
	}
	_, err = r.sql.Exec(ctx, sqlinline.QInsertDonation,
		d.ID, d.DonorID, d.ReceiverID, items, string(d.Status), address, d.Notes, history, d.CreatedAt)
	return err
}

// GetByID loads one donation, domain.ErrNotFound when absent.
func (r *DonationRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Donation, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QGetDonation, id)
	d, err := scanDonation(row)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

// Update writes status, pickup date and history under an optimistic version
// check. A stale version surfaces domain.ErrConcurrencyConflict.
func (r *DonationRepositoryPG) Update(ctx context.Context, d *domain.Donation) error {
	history, err := json.Marshal(d.StatusHistory)
	if err != nil {
		return fmt.Errorf("marshal status history: %w", err)
	}
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdateDonation,
		d.ID, string(d.Status), d.PickupDate, history, d.UpdatedAt, d.Version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConcurrencyConflict
	}
	d.Version++
	return nil
}

// List returns a page of donations plus the unpaged total.
func (r *DonationRepositoryPG) List(ctx context.Context, q domain.DonationQuery) ([]domain.Donation, int, error) {
	donor := nullable(q.DonorID)
	receiver := nullable(q.ReceiverID)
	status := nullable(string(q.Status))

	rows, err := r.sql.Query(ctx, sqlinline.QListDonations, donor, receiver, status, q.Offset, q.Limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []domain.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.sql.QueryRow(ctx, sqlinline.QCountDonations, donor, receiver, status).Scan(&total); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDonation(row rowScanner) (*domain.Donation, error) {
	var (
		d          domain.Donation
		status     string
		items      []byte
		history    []byte
		address    []byte
		pickupDate *time.Time
	)
	if err := row.Scan(&d.ID, &d.DonorID, &d.ReceiverID, &items, &status, &address, &pickupDate,
		&d.Notes, &history, &d.Version, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.Status = domain.DonationStatus(status)
	d.PickupDate = pickupDate
	if err := json.Unmarshal(items, &d.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	if err := json.Unmarshal(history, &d.StatusHistory); err != nil {
		return nil, fmt.Errorf("unmarshal status history: %w", err)
	}
	if len(address) > 0 {
		d.PickupAddress = &domain.PickupAddress{}
		if err := json.Unmarshal(address, d.PickupAddress); err != nil {
			return nil, fmt.Errorf("unmarshal pickup address: %w", err)
		}
	}
	return &d, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ domain.DonationRepository = (*DonationRepositoryPG)(nil)
