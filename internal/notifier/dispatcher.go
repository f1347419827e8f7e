package notifier

import (
	"context"
	"log/slog"
	"time"

	"github.com/skoushik/storefront-orders/internal/config"
	"github.com/skoushik/storefront-orders/internal/entities"
	"github.com/skoushik/storefront-orders/pkg/utils"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	publishTimeout = 10 * time.Second
	// drainTimeout caps delivery of already-queued events during shutdown so
	// Close stays inside the app's graceful window.
	drainTimeout = 3 * time.Second
)

type Publisher interface {
	Publish(ctx context.Context, ev OrderCreatedEvent) error
}

// Dispatcher queues notifications and delivers them on background workers
// with retry and backoff. Delivery failures are logged and counted, never
// surfaced to the request that created the order.
type Dispatcher struct {
	logger      *slog.Logger
	pub         Publisher
	adminEmail  string
	maxAttempts int

	queue chan OrderCreatedEvent
	g     *errgroup.Group
	stop  context.CancelFunc
}

func NewDispatcher(logger *slog.Logger, pub Publisher, adminEmail string, cfg config.Notify) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}

	d := &Dispatcher{
		logger:      logger.With(slog.String("component", "notifier")),
		pub:         pub,
		adminEmail:  adminEmail,
		maxAttempts: cfg.MaxAttempts,
		queue:       make(chan OrderCreatedEvent, cfg.QueueSize),
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.stop = cancel
	d.g, ctx = errgroup.WithContext(ctx)
	for i := 0; i < cfg.Workers; i++ {
		d.g.Go(func() error {
			d.run(ctx)
			return nil
		})
	}

	return d
}

// NotifyOrderCreated enqueues a notification without blocking the caller.
// When the queue is full the event is dropped and counted.
func (d *Dispatcher) NotifyOrderCreated(order entities.Order) {
	ev := OrderCreatedEvent{
		EventID:       uuid.NewString(),
		OrderID:       order.OrderID,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		AdminEmail:    d.adminEmail,
		Message:       order.WhatsappMessage,
		TotalAmount:   order.TotalAmount,
		OccurredAt:    time.Now().UTC(),
	}

	select {
	case d.queue <- ev:
	default:
		notificationsDropped.Inc()
		d.logger.Warn("notification queue full, dropping event",
			slog.String("order_id", ev.OrderID), slog.String("event_id", ev.EventID))
	}
}

func (d *Dispatcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			// drain what is already queued before exiting, on a fresh
			// context since the worker one is already cancelled
			drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
			defer cancel()
			for {
				select {
				case ev := <-d.queue:
					d.deliver(drainCtx, ev)
				default:
					return
				}
			}
		case ev := <-d.queue:
			d.deliver(ctx, ev)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, ev OrderCreatedEvent) {
	cfg := utils.RetryConfig{
		MaxAttempts:  d.maxAttempts,
		InitialDelay: 100 * time.Millisecond,
		Multiplier:   2,
	}

	err := utils.Retry(ctx, cfg, func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()
		return d.pub.Publish(attemptCtx, ev)
	})

	if err != nil {
		notificationsFailed.Inc()
		d.logger.Error("failed to deliver notification",
			slog.String("order_id", ev.OrderID),
			slog.String("event_id", ev.EventID),
			slog.Any("error", err))
		return
	}

	notificationsSent.Inc()
	d.logger.Debug("notification dispatched", slog.String("order_id", ev.OrderID))
}

// Close stops the workers after draining the queue.
func (d *Dispatcher) Close() error {
	d.stop()
	return d.g.Wait()
}
