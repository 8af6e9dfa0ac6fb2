package domain

import (
	"context"
	"time"
)

// UserDirectory resolves actor identity and role.
type UserDirectory interface {
	Resolve(ctx context.Context, id string) (*Actor, error)
}

// DonationQuery filters and pages a donation listing.
type DonationQuery struct {
	DonorID    string
	ReceiverID string
	Status     DonationStatus
	Offset     int
	Limit      int
}

// DonationRepository persists donations. Update must apply the whole record
// (status, pickup date, history) atomically and only when the stored version
// matches the version the donation was read at; a mismatch yields
// ErrConcurrencyConflict.
type DonationRepository interface {
	Create(ctx context.Context, d *Donation) error
	GetByID(ctx context.Context, id string) (*Donation, error)
	Update(ctx context.Context, d *Donation) error
	List(ctx context.Context, q DonationQuery) ([]Donation, int, error)
}

// InventoryRepository stores per-holder cabinet entries and serves the
// sweep's read model.
type InventoryRepository interface {
	AddEntry(ctx context.Context, e *CabinetEntry) error
	ListByHolder(ctx context.Context, holderID string) ([]CabinetEntry, error)
	RemoveEntry(ctx context.Context, holderID, entryID string) error
	ListHoldersWithEntries(ctx context.Context) ([]string, error)
	ListExpiringEntries(ctx context.Context, holderID string, asOf time.Time, lookahead time.Duration) ([]CabinetEntry, error)
}

// MedicineQuery filters and pages the catalog listing.
type MedicineQuery struct {
	Search   string
	Category MedicineCategory
	Offset   int
	Limit    int
}

// MedicineRepository manages the medicine catalog.
type MedicineRepository interface {
	Create(ctx context.Context, m *Medicine) error
	GetByID(ctx context.Context, id string) (*Medicine, error)
	GetByBarcode(ctx context.Context, barcode string) (*Medicine, error)
	Update(ctx context.Context, m *Medicine) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q MedicineQuery) ([]Medicine, int, error)
}

// NotificationRepository stores the in-app inbox.
type NotificationRepository interface {
	Insert(ctx context.Context, n *NotificationEvent) error
	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]NotificationEvent, error)
	MarkRead(ctx context.Context, recipientID, id string) error
}
