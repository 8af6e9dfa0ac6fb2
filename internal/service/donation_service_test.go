package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medicab/internal/domain"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type memDonations struct {
	mu    sync.Mutex
	byID  map[string]domain.Donation
	order []string
}

func newMemDonations() *memDonations {
	return &memDonations{byID: make(map[string]domain.Donation)}
}

func (m *memDonations) Create(_ context.Context, d *domain.Donation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[d.ID] = clone(d)
	m.order = append(m.order, d.ID)
	return nil
}

func (m *memDonations) GetByID(_ context.Context, id string) (*domain.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := clone(&d)
	return &out, nil
}

func (m *memDonations) Update(_ context.Context, d *domain.Donation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.byID[d.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Version != d.Version {
		return domain.ErrConcurrencyConflict
	}
	updated := clone(d)
	updated.Version++
	m.byID[d.ID] = updated
	d.Version++
	return nil
}

func (m *memDonations) List(_ context.Context, q domain.DonationQuery) ([]domain.Donation, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []domain.Donation
	// Newest first.
	for i := len(m.order) - 1; i >= 0; i-- {
		d := m.byID[m.order[i]]
		if q.DonorID != "" && d.DonorID != q.DonorID {
			continue
		}
		if q.ReceiverID != "" && d.ReceiverID != q.ReceiverID {
			continue
		}
		if q.Status != "" && d.Status != q.Status {
			continue
		}
		matched = append(matched, clone(&d))
	}
	total := len(matched)
	if q.Offset >= total {
		return nil, total, nil
	}
	end := q.Offset + q.Limit
	if end > total {
		end = total
	}
	return matched[q.Offset:end], total, nil
}

func clone(d *domain.Donation) domain.Donation {
	out := *d
	out.Items = append([]domain.DonationItem(nil), d.Items...)
	out.StatusHistory = append([]domain.StatusChange(nil), d.StatusHistory...)
	return out
}

type fakeDirectory struct {
	actors map[string]domain.Actor
}

func (f *fakeDirectory) Resolve(_ context.Context, id string) (*domain.Actor, error) {
	a, ok := f.actors[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

type fakeMedicines struct {
	domain.MedicineRepository
	byID map[string]domain.Medicine
}

func (f *fakeMedicines) GetByID(_ context.Context, id string) (*domain.Medicine, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

type sinkEvent struct {
	recipientID string
	message     string
	category    domain.NotificationCategory
}

type recordingSink struct {
	mu     sync.Mutex
	events []sinkEvent
}

func (s *recordingSink) Notify(_ context.Context, recipientID, message string, category domain.NotificationCategory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, sinkEvent{recipientID: recipientID, message: message, category: category})
}

func (s *recordingSink) all() []sinkEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sinkEvent(nil), s.events...)
}

var (
	donor    = domain.Actor{ID: "donor-1", Name: "Dana", Email: "dana@example.com", Role: domain.RoleUser}
	receiver = domain.Actor{ID: "ngo-1", Name: "Helping Hands", Email: "contact@hh.org", Role: domain.RoleNGO}
	admin    = domain.Actor{ID: "admin-1", Name: "Root", Email: "root@example.com", Role: domain.RoleAdmin}
	stranger = domain.Actor{ID: "user-2", Name: "Sam", Email: "sam@example.com", Role: domain.RoleUser}
)

func newTestService(t *testing.T) (*DonationService, *memDonations, *recordingSink, fixedClock) {
	t.Helper()
	clock := fixedClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	donations := newMemDonations()
	sink := &recordingSink{}
	directory := &fakeDirectory{actors: map[string]domain.Actor{
		donor.ID:    donor,
		receiver.ID: receiver,
		admin.ID:    admin,
		stranger.ID: stranger,
	}}
	medicines := &fakeMedicines{byID: map[string]domain.Medicine{
		"med-1": {ID: "med-1", Name: "Paracetamol"},
		"med-2": {ID: "med-2", Name: "Ibuprofen"},
	}}
	svc := NewDonationService(donations, directory, medicines, sink, clock, 24*time.Hour, zerolog.Nop())
	return svc, donations, sink, clock
}

func validInput() CreateInput {
	return CreateInput{
		ReceiverID: receiver.ID,
		Items: []ItemInput{
			{MedicineID: "med-1", Quantity: 2, ExpiryDate: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreateInput
	}{
		{"empty items", CreateInput{ReceiverID: receiver.ID}},
		{"non-positive quantity", CreateInput{ReceiverID: receiver.ID, Items: []ItemInput{{MedicineID: "med-1", Quantity: 0}}}},
		{"receiver is a plain user", CreateInput{ReceiverID: stranger.ID, Items: []ItemInput{{MedicineID: "med-1", Quantity: 1}}}},
		{"receiver unknown", CreateInput{ReceiverID: "ghost", Items: []ItemInput{{MedicineID: "med-1", Quantity: 1}}}},
		{"unknown medicine", CreateInput{ReceiverID: receiver.ID, Items: []ItemInput{{MedicineID: "ghost-med", Quantity: 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, donor, tt.input)
			var validation *domain.ValidationError
			require.ErrorAs(t, err, &validation)
		})
	}
}

func TestCreateThenListRoundTrip(t *testing.T) {
	svc, _, sink, clock := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, donor, validInput())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, created.Status)
	require.Len(t, created.StatusHistory, 1)
	assert.Equal(t, domain.StatusPending, created.StatusHistory[0].Status)
	assert.Equal(t, clock.Now(), created.StatusHistory[0].At)
	assert.Equal(t, donor.ID, created.StatusHistory[0].ActorID)
	assert.Equal(t, "Paracetamol", created.Items[0].MedicineName)

	page, err := svc.List(ctx, donor, "", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, created.ID, page.Items[0].ID)
	assert.Equal(t, 1, page.Total)

	// Creation pings the receiving organization, never the donor.
	events := sink.all()
	require.Len(t, events, 1)
	assert.Equal(t, receiver.ID, events[0].recipientID)
	assert.Equal(t, domain.NotifyDonation, events[0].category)
}

func TestTransitionAcceptSetsPickupAndNotifiesDonor(t *testing.T) {
	svc, _, sink, clock := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, donor, validInput())
	require.NoError(t, err)

	accepted, err := svc.Transition(ctx, created.ID, domain.StatusAccepted, receiver, "picking up tomorrow")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, accepted.Status)
	require.NotNil(t, accepted.PickupDate)
	assert.Equal(t, clock.Now().Add(24*time.Hour), *accepted.PickupDate)
	require.Len(t, accepted.StatusHistory, 2)
	assert.Equal(t, accepted.Status, accepted.StatusHistory[1].Status)

	events := sink.all()
	require.Len(t, events, 2)
	assert.Equal(t, donor.ID, events[1].recipientID)
}

func TestTransitionDonorCannotCollect(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, donor, validInput())
	require.NoError(t, err)

	_, err = svc.Transition(ctx, created.ID, domain.StatusCollected, donor, "")
	var invalid *domain.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, domain.StatusPending, invalid.Current)
	assert.Equal(t, domain.RoleUser, invalid.Role)
}

func TestTransitionCancelOnlyWhilePending(t *testing.T) {
	svc, _, sink, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, donor, validInput())
	require.NoError(t, err)

	_, err = svc.Transition(ctx, created.ID, domain.StatusAccepted, receiver, "")
	require.NoError(t, err)

	_, err = svc.Transition(ctx, created.ID, domain.StatusCancelled, donor, "changed my mind")
	var invalid *domain.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)

	// Cancellation while pending notifies the receiver.
	other, err := svc.Create(ctx, donor, validInput())
	require.NoError(t, err)
	cancelled, err := svc.Transition(ctx, other.ID, domain.StatusCancelled, donor, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	events := sink.all()
	assert.Equal(t, receiver.ID, events[len(events)-1].recipientID)
}

func TestTransitionHiddenDonationLooksAbsent(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, donor, validInput())
	require.NoError(t, err)

	_, err = svc.Transition(ctx, created.ID, domain.StatusCancelled, stranger, "")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Get(ctx, created.ID, stranger)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransitionAdminCompletesCollected(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, donor, validInput())
	require.NoError(t, err)
	_, err = svc.Transition(ctx, created.ID, domain.StatusAccepted, receiver, "")
	require.NoError(t, err)
	_, err = svc.Transition(ctx, created.ID, domain.StatusCollected, receiver, "")
	require.NoError(t, err)

	completed, err := svc.Transition(ctx, created.ID, domain.StatusCompleted, admin, "verified delivery")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, completed.Status)
}

func TestConcurrentTransitionsExactlyOneWins(t *testing.T) {
	svc, donations, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, donor, validInput())
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, results[0] = svc.Transition(ctx, created.ID, domain.StatusAccepted, receiver, "")
	}()
	go func() {
		defer wg.Done()
		_, results[1] = svc.Transition(ctx, created.ID, domain.StatusCancelled, donor, "")
	}()
	wg.Wait()

	var succeeded, rejected int
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		var invalid *domain.InvalidTransitionError
		if errors.As(err, &invalid) || errors.Is(err, domain.ErrConcurrencyConflict) {
			rejected++
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one racing transition must win")
	assert.Equal(t, 1, rejected, "the loser must observe a typed rejection")

	final, err := donations.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Contains(t, []domain.DonationStatus{domain.StatusAccepted, domain.StatusCancelled}, final.Status)
	assert.Equal(t, final.Status, final.StatusHistory[len(final.StatusHistory)-1].Status)
	assert.Len(t, final.StatusHistory, 2, "no hybrid history")
}

func TestListScopingAndPagination(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, donor, validInput())
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, stranger, validInput())
	require.NoError(t, err)

	page, err := svc.List(ctx, donor, "", 1, 2)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 3, page.TotalPages)

	// The receiving organization sees everything addressed to it.
	page, err = svc.List(ctx, receiver, "", 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 6, page.Total)

	// Page size is clamped.
	page, err = svc.List(ctx, admin, "", 1, 1000)
	require.NoError(t, err)
	assert.Equal(t, 100, page.PageSize)

	// Status filtering.
	page, err = svc.List(ctx, donor, domain.StatusCancelled, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}
