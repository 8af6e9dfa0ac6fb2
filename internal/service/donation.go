package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"medicab/internal/domain"
	"medicab/internal/metrics"
)

const maxPageSize = 100

// DonationService owns the donation lifecycle: creation, status transitions
// validated against the state machine, and role-scoped listing. Notification
// emission is requested only after the persistence write succeeds and never
// fails the caller's operation.
type DonationService struct {
	donations  domain.DonationRepository
	directory  domain.UserDirectory
	medicines  domain.MedicineRepository
	sink       domain.NotificationSink
	clock      domain.Clock
	pickupLead time.Duration
	logger     zerolog.Logger
}

func NewDonationService(
	donations domain.DonationRepository,
	directory domain.UserDirectory,
	medicines domain.MedicineRepository,
	sink domain.NotificationSink,
	clock domain.Clock,
	pickupLead time.Duration,
	logger zerolog.Logger,
) *DonationService {
	return &DonationService{
		donations:  donations,
		directory:  directory,
		medicines:  medicines,
		sink:       sink,
		clock:      clock,
		pickupLead: pickupLead,
		logger:     logger,
	}
}

// ItemInput is one requested donation line.
type ItemInput struct {
	MedicineID string
	Quantity   int
	ExpiryDate time.Time
}

// CreateInput carries a donation creation request.
type CreateInput struct {
	ReceiverID    string
	Items         []ItemInput
	PickupAddress *domain.PickupAddress
	Notes         string
}

// Create validates and persists a new pending donation. The donor sees the
// result synchronously; the receiving organization gets an in-app heads-up.
func (s *DonationService) Create(ctx context.Context, donor domain.Actor, in CreateInput) (*domain.Donation, error) {
	if len(in.Items) == 0 {
		return nil, &domain.ValidationError{Field: "items", Reason: "must not be empty"}
	}
	for i, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, &domain.ValidationError{Field: fmt.Sprintf("items[%d].quantity", i), Reason: "must be positive"}
		}
		if item.MedicineID == "" {
			return nil, &domain.ValidationError{Field: fmt.Sprintf("items[%d].medicine_id", i), Reason: "required"}
		}
	}

	receiver, err := s.directory.Resolve(ctx, in.ReceiverID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.ValidationError{Field: "receiver_id", Reason: "unknown receiving organization"}
		}
		return nil, err
	}
	if receiver.Role != domain.RoleNGO {
		return nil, &domain.ValidationError{Field: "receiver_id", Reason: "not a receiving organization"}
	}

	items := make([]domain.DonationItem, 0, len(in.Items))
	for _, item := range in.Items {
		med, err := s.medicines.GetByID(ctx, item.MedicineID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, &domain.ValidationError{Field: "items", Reason: fmt.Sprintf("unknown medicine %s", item.MedicineID)}
			}
			return nil, err
		}
		items = append(items, domain.DonationItem{
			MedicineID:   med.ID,
			MedicineName: med.Name,
			Quantity:     item.Quantity,
			ExpiryDate:   item.ExpiryDate,
		})
	}

	now := s.clock.Now()
	d := &domain.Donation{
		ID:            uuid.NewString(),
		DonorID:       donor.ID,
		ReceiverID:    receiver.ID,
		Items:         items,
		Status:        domain.StatusPending,
		PickupAddress: in.PickupAddress,
		Notes:         in.Notes,
		StatusHistory: []domain.StatusChange{{
			Status:  domain.StatusPending,
			At:      now,
			ActorID: donor.ID,
		}},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.donations.Create(ctx, d); err != nil {
		return nil, err
	}

	s.sink.Notify(ctx, receiver.ID,
		fmt.Sprintf("New donation request from %s with %d item(s)", donor.Name, len(items)),
		domain.NotifyDonation)
	return d, nil
}

// Transition applies one status change on behalf of an actor. The read,
// validation and write are made atomic by the repository's version check; a
// racing writer surfaces domain.ErrConcurrencyConflict.
func (s *DonationService) Transition(ctx context.Context, donationID string, requested domain.DonationStatus, actor domain.Actor, note string) (*domain.Donation, error) {
	d, err := s.donations.GetByID(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if !d.VisibleTo(actor) {
		// Hidden donations are indistinguishable from absent ones.
		return nil, domain.ErrNotFound
	}

	if err := d.ApplyTransition(requested, actor, note, s.clock.Now(), s.pickupLead); err != nil {
		metrics.DonationTransitionsRejectedTotal.Inc()
		return nil, err
	}
	if err := s.donations.Update(ctx, d); err != nil {
		return nil, err
	}
	metrics.DonationTransitionsTotal.WithLabelValues(string(requested)).Inc()

	s.notifyTransition(ctx, d)
	return d, nil
}

// notifyTransition emits the per-transition notifications from the table in
// the design: receiver actions notify the donor, donor cancellation notifies
// the receiver.
func (s *DonationService) notifyTransition(ctx context.Context, d *domain.Donation) {
	switch d.Status {
	case domain.StatusAccepted:
		msg := "Your donation request has been accepted"
		if d.PickupDate != nil {
			msg = fmt.Sprintf("Your donation request has been accepted. Pickup scheduled for %s", d.PickupDate.Format("2006-01-02"))
		}
		s.sink.Notify(ctx, d.DonorID, msg, domain.NotifyDonation)
	case domain.StatusCollected:
		s.sink.Notify(ctx, d.DonorID, "Your medicines have been collected", domain.NotifyDonation)
	case domain.StatusCompleted:
		s.sink.Notify(ctx, d.DonorID, "Your donation has been completed. Thank you!", domain.NotifyDonation)
	case domain.StatusCancelled:
		s.sink.Notify(ctx, d.ReceiverID, fmt.Sprintf("Donation request %s was cancelled by the donor", d.ID), domain.NotifyDonation)
	default:
		s.logger.Warn().Str("donation_id", d.ID).Str("status", string(d.Status)).Msg("donation: no notification defined for status")
	}
}

// Get loads one donation with the actor's visibility applied.
func (s *DonationService) Get(ctx context.Context, donationID string, actor domain.Actor) (*domain.Donation, error) {
	d, err := s.donations.GetByID(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if !d.VisibleTo(actor) {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

// DonationPage is one page of a role-scoped listing.
type DonationPage struct {
	Items      []domain.Donation
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// List returns donations visible to the actor, newest first.
func (s *DonationService) List(ctx context.Context, actor domain.Actor, statusFilter domain.DonationStatus, page, pageSize int) (*DonationPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	q := domain.DonationQuery{
		Status: statusFilter,
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	}
	switch actor.Role {
	case domain.RoleAdmin:
	case domain.RoleNGO:
		q.ReceiverID = actor.ID
	default:
		q.DonorID = actor.ID
	}

	items, total, err := s.donations.List(ctx, q)
	if err != nil {
		return nil, err
	}
	totalPages := (total + pageSize - 1) / pageSize
	return &DonationPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}
