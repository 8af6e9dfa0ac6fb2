package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"medicab/internal/domain"
	"medicab/internal/metrics"
)

const (
	queueDepth      = 256
	deliveryTimeout = 30 * time.Second
)

type envelope struct {
	recipientID string
	message     string
	category    domain.NotificationCategory
}

// Dispatcher is the notification sink. Emission is fire-and-forget relative
// to the caller's operation: Notify enqueues and returns, a background
// worker performs two independent at-least-once deliveries (in-app insert
// and email). The two channels are not atomic with each other or with the
// state change that triggered them.
type Dispatcher struct {
	inbox     domain.NotificationRepository
	directory domain.UserDirectory
	email     EmailSender
	clock     domain.Clock
	logger    zerolog.Logger
	retries   int
	backoff   time.Duration

	queue chan envelope
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// Options configures a Dispatcher. Email may be nil to disable that channel.
type Options struct {
	Inbox     domain.NotificationRepository
	Directory domain.UserDirectory
	Email     EmailSender
	Clock     domain.Clock
	Logger    zerolog.Logger
	Retries   int
	Backoff   time.Duration
}

func NewDispatcher(opts Options) *Dispatcher {
	if opts.Clock == nil {
		opts.Clock = domain.SystemClock{}
	}
	if opts.Retries <= 0 {
		opts.Retries = 3
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 500 * time.Millisecond
	}
	return &Dispatcher{
		inbox:     opts.Inbox,
		directory: opts.Directory,
		email:     opts.Email,
		clock:     opts.Clock,
		logger:    opts.Logger,
		retries:   opts.Retries,
		backoff:   opts.Backoff,
		queue:     make(chan envelope, queueDepth),
	}
}

// Start launches the delivery worker. It drains until Close is called.
// Deliveries run under their own per-envelope timeout, not the caller's
// context, so a shutdown drain still flushes queued notifications.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for env := range d.queue {
			ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
			d.deliver(ctx, env)
			cancel()
		}
	}()
}

// Close stops accepting notifications and waits for in-flight deliveries.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// Notify enqueues a notification. A full queue drops the event with a log
// line rather than blocking the caller's primary operation.
func (d *Dispatcher) Notify(_ context.Context, recipientID, message string, category domain.NotificationCategory) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		d.logger.Warn().Str("recipient", recipientID).Msg("notify: dispatcher closed, dropping notification")
		return
	}
	select {
	case d.queue <- envelope{recipientID: recipientID, message: message, category: category}:
	default:
		metrics.NotificationsEmittedTotal.WithLabelValues("queue", "dropped").Inc()
		d.logger.Warn().Str("recipient", recipientID).Msg("notify: queue full, dropping notification")
	}
}

func (d *Dispatcher) deliver(ctx context.Context, env envelope) {
	d.deliverInApp(ctx, env)
	d.deliverEmail(ctx, env)
}

func (d *Dispatcher) deliverInApp(ctx context.Context, env envelope) {
	err := d.withRetry(ctx, func() error {
		return d.inbox.Insert(ctx, &domain.NotificationEvent{
			ID:          uuid.NewString(),
			RecipientID: env.recipientID,
			Message:     env.message,
			Category:    env.category,
			CreatedAt:   d.clock.Now(),
		})
	})
	if err != nil {
		metrics.NotificationsEmittedTotal.WithLabelValues("inapp", "failed").Inc()
		d.logger.Error().Err(err).Str("recipient", env.recipientID).Msg("notify: in-app delivery failed")
		return
	}
	metrics.NotificationsEmittedTotal.WithLabelValues("inapp", "ok").Inc()
}

func (d *Dispatcher) deliverEmail(ctx context.Context, env envelope) {
	if d.email == nil {
		return
	}
	actor, err := d.directory.Resolve(ctx, env.recipientID)
	if err != nil {
		metrics.NotificationsEmittedTotal.WithLabelValues("email", "failed").Inc()
		d.logger.Error().Err(err).Str("recipient", env.recipientID).Msg("notify: recipient lookup failed")
		return
	}
	err = d.withRetry(ctx, func() error {
		return d.email.Send(ctx, actor.Email, subjectFor(env.category), env.message)
	})
	if err != nil {
		metrics.NotificationsEmittedTotal.WithLabelValues("email", "failed").Inc()
		d.logger.Error().Err(err).Str("recipient", env.recipientID).Msg("notify: email delivery failed")
		return
	}
	metrics.NotificationsEmittedTotal.WithLabelValues("email", "ok").Inc()
}

func (d *Dispatcher) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < d.retries; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d.backoff):
		}
	}
	return err
}

var _ domain.NotificationSink = (*Dispatcher)(nil)
