package watchdog

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/metinatakli/cinex-booking/internal/domain"
	"github.com/metinatakli/cinex-booking/internal/gateway"
)

const (
	DefaultInterval  = 5 * time.Second
	DefaultBatchSize = 50
)

var errNotSubmitted = errors.New("checkout is not waiting for this booking")

type Config struct {
	Interval  time.Duration
	BatchSize int
	// ServiceToken authorizes cancellations made outside of a user request.
	ServiceToken string
}

// Watchdog cancels bookings whose payment deadline passed.
type Watchdog struct {
	deadlines domain.PaymentDeadlineRepository
	cinema    domain.CinemaAPI
	checkouts domain.CheckoutStore
	events    domain.BookingEventPublisher
	logger    *slog.Logger
	cfg       Config
	now       func() time.Time

	done chan struct{}
	wg   sync.WaitGroup
}

func New(
	deadlines domain.PaymentDeadlineRepository,
	cinema domain.CinemaAPI,
	checkouts domain.CheckoutStore,
	events domain.BookingEventPublisher,
	logger *slog.Logger,
	cfg Config) *Watchdog {

	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}

	return &Watchdog{
		deadlines: deadlines,
		cinema:    cinema,
		checkouts: checkouts,
		events:    events,
		logger:    logger.With("component", "payment_watchdog"),
		cfg:       cfg,
		now:       time.Now,
		done:      make(chan struct{}),
	}
}

func (w *Watchdog) Start(ctx context.Context) {
	w.wg.Add(1)

	go func() {
		defer w.wg.Done()

		ticker := time.NewTicker(w.cfg.Interval)
		defer ticker.Stop()

		w.logger.Info("started payment watchdog", "interval", w.cfg.Interval, "batch_size", w.cfg.BatchSize)

		for {
			select {
			case <-ticker.C:
				w.RunOnce(ctx)
			case <-w.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends the loop and waits for an in-flight sweep to finish.
func (w *Watchdog) Stop() {
	close(w.done)
	w.wg.Wait()
	w.logger.Info("stopped payment watchdog")
}

// RunOnce sweeps one batch of overdue deadlines and returns how many bookings were cancelled.
func (w *Watchdog) RunOnce(ctx context.Context) int {
	expired, err := w.deadlines.ClaimExpired(ctx, w.now(), w.cfg.BatchSize)
	if err != nil {
		w.logger.Error("failed to claim expired payment deadlines", "error", err)
		return 0
	}

	cancelled := 0
	for _, d := range expired {
		if w.expire(ctx, d) {
			cancelled++
		}
	}

	if len(expired) > 0 {
		w.logger.Info("processed expired payment deadlines", "claimed", len(expired), "cancelled", cancelled)
	}

	return cancelled
}

func (w *Watchdog) expire(ctx context.Context, d domain.PaymentDeadline) bool {
	logger := w.logger.With("booking_id", d.BookingID)
	upstreamCtx := gateway.WithToken(ctx, w.cfg.ServiceToken)

	err := w.cinema.CancelBooking(upstreamCtx, d.BookingID, domain.PaymentTimeoutReason)
	switch {
	case err == nil:
	case errors.Is(err, gateway.ErrNotFound):
		logger.Warn("expired booking no longer exists upstream")
	case errors.Is(err, gateway.ErrConflict):
		// The booking left pending upstream, most likely because it was paid at the last moment.
		return w.reconcile(upstreamCtx, logger, d)
	default:
		logger.Error("failed to cancel expired booking, will retry", "error", err)
		if err := w.deadlines.UpdateStatus(ctx, d.BookingID, domain.DeadlineStatusPending, domain.DeadlineStatusExpired); err != nil {
			logger.Error("failed to re-arm payment deadline", "error", err)
		}
		return false
	}

	w.resetCheckout(ctx, logger, d)

	event := domain.BookingEvent{
		Type:        domain.BookingEventCancelled,
		BookingID:   d.BookingID,
		UserID:      d.UserID,
		TotalAmount: d.Amount,
		Reason:      domain.PaymentTimeoutReason,
		OccurredAt:  w.now().UTC(),
	}
	if err := w.events.Publish(ctx, event); err != nil {
		logger.Error("failed to publish booking cancelled event", "error", err)
	}

	logger.Info("cancelled booking after payment timeout")

	return true
}

func (w *Watchdog) reconcile(ctx context.Context, logger *slog.Logger, d domain.PaymentDeadline) bool {
	booking, err := w.cinema.GetBooking(ctx, d.BookingID)
	if err != nil {
		logger.Error("failed to reconcile expired booking", "error", err)
		return false
	}

	if booking.Status == domain.BookingStatusConfirmed {
		if err := w.deadlines.UpdateStatus(ctx, d.BookingID, domain.DeadlineStatusConfirmed, domain.DeadlineStatusExpired); err != nil {
			logger.Error("failed to mark payment deadline confirmed", "error", err)
		}
		logger.Info("booking was paid before it could be cancelled")
		return false
	}

	w.resetCheckout(ctx, logger, d)
	return false
}

// resetCheckout clears the session's checkout if it still points at the expired booking.
func (w *Watchdog) resetCheckout(ctx context.Context, logger *slog.Logger, d domain.PaymentDeadline) {
	if d.SessionID == "" {
		return
	}

	_, err := w.checkouts.Update(ctx, d.SessionID, func(c *domain.Checkout) error {
		if c.Step != domain.StepSubmitted || c.LastBookingID != d.BookingID {
			return errNotSubmitted
		}

		c.Reset()
		return nil
	})

	if err != nil && !errors.Is(err, errNotSubmitted) {
		logger.Warn("failed to reset checkout of expired booking", "error", err)
	}
}
