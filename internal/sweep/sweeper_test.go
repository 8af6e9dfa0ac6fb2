package sweep

import (
	"context"
	"errors"
	"strings"
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

type fakeInventory struct {
	domain.InventoryRepository
	mu         sync.Mutex
	entries    map[string][]domain.CabinetEntry
	failFor    map[string]error
	listDelay  time.Duration
	holdersErr error
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{
		entries: make(map[string][]domain.CabinetEntry),
		failFor: make(map[string]error),
	}
}

func (f *fakeInventory) ListHoldersWithEntries(context.Context) ([]string, error) {
	if f.holdersErr != nil {
		return nil, f.holdersErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var holders []string
	for h := range f.entries {
		holders = append(holders, h)
	}
	return holders, nil
}

func (f *fakeInventory) ListExpiringEntries(ctx context.Context, holderID string, asOf time.Time, lookahead time.Duration) ([]domain.CabinetEntry, error) {
	if f.listDelay > 0 {
		select {
		case <-time.After(f.listDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := f.failFor[holderID]; err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	threshold := asOf.Add(lookahead)
	var matched []domain.CabinetEntry
	for _, e := range f.entries[holderID] {
		if !e.ExpiryDate.After(threshold) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

type sinkEvent struct {
	recipientID string
	message     string
	category    domain.NotificationCategory
}

type recordingSink struct {
	mu      sync.Mutex
	events  []sinkEvent
	blockCh chan struct{}
	entered chan struct{}
}

func (s *recordingSink) Notify(_ context.Context, recipientID, message string, category domain.NotificationCategory) {
	if s.entered != nil {
		select {
		case s.entered <- struct{}{}:
		default:
		}
	}
	if s.blockCh != nil {
		<-s.blockCh
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, sinkEvent{recipientID: recipientID, message: message, category: category})
}

func (s *recordingSink) all() []sinkEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sinkEvent(nil), s.events...)
}

func testClock() fixedClock {
	return fixedClock{now: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
}

func TestSweepFlagsOnlyEntriesInsideLookahead(t *testing.T) {
	clock := testClock()
	inventory := newFakeInventory()
	inventory.entries["holder-1"] = []domain.CabinetEntry{
		{ID: "e1", HolderID: "holder-1", MedicineName: "Amoxicillin", ExpiryDate: clock.now.AddDate(0, 0, 10)},
		{ID: "e2", HolderID: "holder-1", MedicineName: "Cetirizine", ExpiryDate: clock.now.AddDate(0, 0, 40)},
	}
	sink := &recordingSink{}
	sweeper := NewSweeper(inventory, sink, clock, 30*24*time.Hour, time.Second, zerolog.Nop())

	report, ran := sweeper.Run(context.Background())
	require.True(t, ran)
	assert.Equal(t, 1, report.Notified)
	assert.Zero(t, report.Errors)

	events := sink.all()
	require.Len(t, events, 1)
	assert.Equal(t, "holder-1", events[0].recipientID)
	assert.Equal(t, domain.NotifyExpiry, events[0].category)
	assert.Contains(t, events[0].message, "1 medicine(s) expiring soon")
	assert.Contains(t, events[0].message, "Amoxicillin")
	assert.NotContains(t, events[0].message, "Cetirizine")
}

func TestSweepSkipsHoldersWithNothingExpiring(t *testing.T) {
	clock := testClock()
	inventory := newFakeInventory()
	inventory.entries["holder-1"] = []domain.CabinetEntry{
		{ID: "e1", HolderID: "holder-1", MedicineName: "Amoxicillin", ExpiryDate: clock.now.AddDate(0, 0, 5)},
	}
	inventory.entries["holder-2"] = []domain.CabinetEntry{
		{ID: "e2", HolderID: "holder-2", MedicineName: "Vitamin D", ExpiryDate: clock.now.AddDate(1, 0, 0)},
	}
	sink := &recordingSink{}
	sweeper := NewSweeper(inventory, sink, clock, 30*24*time.Hour, time.Second, zerolog.Nop())

	report, ran := sweeper.Run(context.Background())
	require.True(t, ran)
	assert.Equal(t, 2, report.Holders)
	assert.Equal(t, 1, report.Notified)

	events := sink.all()
	require.Len(t, events, 1)
	assert.Equal(t, "holder-1", events[0].recipientID)
}

func TestSweepAggregatesPerHolder(t *testing.T) {
	clock := testClock()
	inventory := newFakeInventory()
	inventory.entries["holder-1"] = []domain.CabinetEntry{
		{ID: "e1", HolderID: "holder-1", MedicineName: "Amoxicillin", ExpiryDate: clock.now.AddDate(0, 0, 3)},
		{ID: "e2", HolderID: "holder-1", MedicineName: "Insulin", ExpiryDate: clock.now.AddDate(0, 0, 12)},
	}
	sink := &recordingSink{}
	sweeper := NewSweeper(inventory, sink, clock, 30*24*time.Hour, time.Second, zerolog.Nop())

	_, ran := sweeper.Run(context.Background())
	require.True(t, ran)

	events := sink.all()
	require.Len(t, events, 1, "one aggregated notification per holder per run")
	assert.Contains(t, events[0].message, "2 medicine(s) expiring soon")
	assert.Equal(t, 2, strings.Count(events[0].message, "expires on"))
}

func TestSweepContinuesPastFailingHolder(t *testing.T) {
	clock := testClock()
	inventory := newFakeInventory()
	inventory.entries["holder-bad"] = []domain.CabinetEntry{
		{ID: "e1", HolderID: "holder-bad", MedicineName: "Broken", ExpiryDate: clock.now},
	}
	inventory.entries["holder-good"] = []domain.CabinetEntry{
		{ID: "e2", HolderID: "holder-good", MedicineName: "Aspirin", ExpiryDate: clock.now.AddDate(0, 0, 7)},
	}
	inventory.failFor["holder-bad"] = errors.New("missing item reference")
	sink := &recordingSink{}
	sweeper := NewSweeper(inventory, sink, clock, 30*24*time.Hour, time.Second, zerolog.Nop())

	report, ran := sweeper.Run(context.Background())
	require.True(t, ran)
	assert.Equal(t, 1, report.Errors)
	assert.Equal(t, 1, report.Notified)

	events := sink.all()
	require.Len(t, events, 1)
	assert.Equal(t, "holder-good", events[0].recipientID)
}

func TestSweepTriggersNeverOverlap(t *testing.T) {
	clock := testClock()
	inventory := newFakeInventory()
	inventory.entries["holder-1"] = []domain.CabinetEntry{
		{ID: "e1", HolderID: "holder-1", MedicineName: "Amoxicillin", ExpiryDate: clock.now},
	}
	sink := &recordingSink{blockCh: make(chan struct{}), entered: make(chan struct{}, 1)}
	sweeper := NewSweeper(inventory, sink, clock, 30*24*time.Hour, time.Minute, zerolog.Nop())

	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		_, ran := sweeper.Run(context.Background())
		assert.True(t, ran)
	}()

	// Wait until the first run is parked inside the sink, then probe.
	<-sink.entered
	_, ran := sweeper.Run(context.Background())
	require.False(t, ran, "second trigger must be skipped while the first executes")

	close(sink.blockCh)
	<-firstDone

	// With the first run finished the guard is released again.
	_, ran = sweeper.Run(context.Background())
	assert.True(t, ran)
}

func TestSweepHolderTimeoutSkipsSlowHolder(t *testing.T) {
	clock := testClock()
	inventory := newFakeInventory()
	inventory.entries["holder-slow"] = []domain.CabinetEntry{
		{ID: "e1", HolderID: "holder-slow", MedicineName: "Slowpoke", ExpiryDate: clock.now},
	}
	inventory.listDelay = 200 * time.Millisecond
	sink := &recordingSink{}
	sweeper := NewSweeper(inventory, sink, clock, 30*24*time.Hour, 10*time.Millisecond, zerolog.Nop())

	report, ran := sweeper.Run(context.Background())
	require.True(t, ran)
	assert.Equal(t, 1, report.Errors)
	assert.Empty(t, sink.all())
}
