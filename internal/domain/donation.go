package domain

import (
	"time"
)

// DonationStatus enumerates the donation lifecycle states.
type DonationStatus string

const (
	StatusPending   DonationStatus = "pending"
	StatusAccepted  DonationStatus = "accepted"
	StatusCollected DonationStatus = "collected"
	StatusCompleted DonationStatus = "completed"
	StatusCancelled DonationStatus = "cancelled"
)

// ParseDonationStatus validates a raw status string.
func ParseDonationStatus(s string) (DonationStatus, bool) {
	switch DonationStatus(s) {
	case StatusPending, StatusAccepted, StatusCollected, StatusCompleted, StatusCancelled:
		return DonationStatus(s), true
	}
	return "", false
}

// DonationItem is one line of a donation payload. Items are fixed at
// creation; amendments require cancellation and recreation.
type DonationItem struct {
	MedicineID   string    `json:"medicine_id"`
	MedicineName string    `json:"medicine_name"`
	Quantity     int       `json:"quantity"`
	ExpiryDate   time.Time `json:"expiry_date"`
}

// StatusChange is one append-only history record.
type StatusChange struct {
	Status  DonationStatus `json:"status"`
	At      time.Time      `json:"at"`
	ActorID string         `json:"actor_id"`
	Note    string         `json:"note"`
}

// PickupAddress carries optional structured postal fields.
type PickupAddress struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Donation is one proposed transfer of medicines from a donor to a
// receiving organization. It is mutated only by appending to StatusHistory
// and updating Status/PickupDate; cancellation is a terminal status, not a
// removal.
type Donation struct {
	ID            string
	DonorID       string
	ReceiverID    string
	Items         []DonationItem
	Status        DonationStatus
	PickupAddress *PickupAddress
	PickupDate    *time.Time
	Notes         string
	StatusHistory []StatusChange
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type statusPair struct {
	from DonationStatus
	to   DonationStatus
}

// transitionRoles is the closed permission table: which roles may request a
// given (current, requested) pair. Pairs absent from the table are rejected
// for everyone.
var transitionRoles = map[statusPair][]Role{
	{StatusPending, StatusAccepted}:    {RoleNGO},
	{StatusPending, StatusCancelled}:   {RoleUser},
	{StatusAccepted, StatusCollected}:  {RoleNGO},
	{StatusCollected, StatusCompleted}: {RoleNGO, RoleAdmin},
}

// CanTransition checks the (current, requested, role) triple against the
// permission table. It returns nil when the transition is allowed.
func CanTransition(current, requested DonationStatus, role Role) error {
	roles, ok := transitionRoles[statusPair{current, requested}]
	if !ok {
		return &InvalidTransitionError{
			Current:   current,
			Requested: requested,
			Role:      role,
			Reason:    "no such transition from current status",
		}
	}
	for _, r := range roles {
		if r == role {
			return nil
		}
	}
	return &InvalidTransitionError{
		Current:   current,
		Requested: requested,
		Role:      role,
		Reason:    "role not permitted for this transition",
	}
}

// ApplyTransition validates and applies a status change in place. PickupDate
// is set when the donation becomes accepted. The caller persists the result
// under a version check.
func (d *Donation) ApplyTransition(requested DonationStatus, actor Actor, note string, now time.Time, pickupLead time.Duration) error {
	if err := CanTransition(d.Status, requested, actor.Role); err != nil {
		return err
	}
	d.Status = requested
	d.StatusHistory = append(d.StatusHistory, StatusChange{
		Status:  requested,
		At:      now,
		ActorID: actor.ID,
		Note:    note,
	})
	if requested == StatusAccepted {
		pickup := now.Add(pickupLead)
		d.PickupDate = &pickup
	}
	d.UpdatedAt = now
	return nil
}

// VisibleTo reports whether the actor may see this donation at all.
func (d *Donation) VisibleTo(actor Actor) bool {
	switch actor.Role {
	case RoleAdmin:
		return true
	case RoleNGO:
		return d.ReceiverID == actor.ID
	default:
		return d.DonorID == actor.ID
	}
}

// Terminal reports whether the donation can never change status again.
func (s DonationStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}
