package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/metinatakli/cinex-booking/api"
	"github.com/metinatakli/cinex-booking/internal/domain"
)

const submissionFailedReason = "Checkout failed"

// errCheckoutChanged aborts a checkout update when the session moved on to another booking.
var errCheckoutChanged = errors.New("checkout changed since the booking was submitted")

// SubmitBooking sends the cart to the cinema API and arms the payment deadline. The cart is
// left untouched when the submission fails.
func (app *Application) SubmitBooking(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	identity := app.contextGetIdentity(r)
	sessionID := app.sessionManager.Token(r.Context())

	checkout, err := app.checkouts.Get(r.Context(), sessionID)
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	req, err := checkout.BookingRequest()
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	keys := checkout.Cart.SeatKeys()

	// re-holding refreshes the hold TTL and catches holds that expired while paying
	for _, key := range keys {
		err = app.seats.Hold(r.Context(), req.ShowtimeID, key, sessionID)
		if err != nil {
			if errors.Is(err, domain.ErrSeatAlreadyHeld) {
				logger.Warn("submission conflict: seat hold was lost", "seat", key.String())
				app.metrics.recordSeatConflict(r.Context(), req.ShowtimeID)
			}
			app.handleError(w, r, err)
			return
		}
	}

	upstream := app.upstreamContext(r)

	// the checkout id makes retried submissions of the same cart idempotent upstream
	booking, err := app.cinema.CreateBooking(upstream, req, checkout.ID.String())
	if err != nil {
		logger.Error("booking submission failed", "error", err)
		app.handleError(w, r, err)
		return
	}

	logger = logger.With("booking_id", booking.ID)
	now := time.Now().UTC()

	deadline := &domain.PaymentDeadline{
		BookingID: booking.ID,
		SessionID: sessionID,
		UserID:    identity.UserID,
		Amount:    booking.TotalAmount,
		Status:    domain.DeadlineStatusPending,
		ExpiresAt: now.Add(app.config.Payment.Timeout),
	}

	err = app.deadlines.Create(r.Context(), deadline)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrDuplicateDeadline):
		deadline, err = app.deadlines.GetByBookingID(r.Context(), booking.ID)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}
	default:
		if cancelErr := app.cinema.CancelBooking(upstream, booking.ID, submissionFailedReason); cancelErr != nil {
			logger.Error("failed to cancel booking without payment deadline", "error", cancelErr)
		}
		app.serverErrorResponse(w, r, err)
		return
	}

	_, err = app.checkouts.Update(r.Context(), sessionID, func(c *domain.Checkout) error {
		if c.ID != checkout.ID {
			return errCheckoutChanged
		}

		c.MarkSubmitted(booking.ID)
		return nil
	})
	if err != nil {
		logger.Warn("failed to mark checkout as submitted", "error", err)
	}

	app.releaseSeats(r.Context(), req.ShowtimeID, keys, sessionID)

	app.publish(r.Context(), logger, domain.BookingEvent{
		Type:        domain.BookingEventSubmitted,
		BookingID:   booking.ID,
		ShowtimeID:  req.ShowtimeID,
		UserID:      identity.UserID,
		TotalAmount: booking.TotalAmount,
	})

	app.metrics.recordSubmitted(r.Context(), booking.TotalAmount)
	logger.Info("booking submitted", "total_amount", booking.TotalAmount, "expires_at", deadline.ExpiresAt)

	resp := api.BookingResponse{Booking: toApiBooking(booking, deadline, now)}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// resetSubmittedCheckout returns the session's checkout to the empty step once the booking it
// submitted is settled. Checkouts that already moved on are left alone.
func (app *Application) resetSubmittedCheckout(ctx context.Context, sessionID, bookingID string) error {
	_, err := app.checkouts.Update(ctx, sessionID, func(c *domain.Checkout) error {
		if c.Step != domain.StepSubmitted || c.LastBookingID != bookingID {
			return errCheckoutChanged
		}

		c.Reset()
		return nil
	})

	if errors.Is(err, errCheckoutChanged) {
		return nil
	}

	return err
}
