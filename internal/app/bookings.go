package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/metinatakli/cinex-booking/api"
	"github.com/metinatakli/cinex-booking/internal/domain"
	"github.com/metinatakli/cinex-booking/internal/gateway"
)

const (
	customerCancelReason = "Cancelled by customer"

	bookingConfirmedTemplate = "booking_confirmed.tmpl"
)

type bookingConfirmedEmail struct {
	FullName    string
	BookingCode string
	MovieTitle  string
	CinemaName  string
	Seats       []string
	TotalAmount int64
}

// paymentDeadline returns nil for bookings that were not submitted through this service.
func (app *Application) paymentDeadline(ctx context.Context, bookingID string) (*domain.PaymentDeadline, error) {
	deadline, err := app.deadlines.GetByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return deadline, nil
}

func (app *Application) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")

	booking, err := app.cinema.GetBooking(app.upstreamContext(r), bookingID)
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	deadline, err := app.paymentDeadline(r.Context(), bookingID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.BookingResponse{Booking: toApiBooking(booking, deadline, time.Now())}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// PayBooking creates a payment intent for the booking and confirms it while the payment
// window is still open.
func (app *Application) PayBooking(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	identity := app.contextGetIdentity(r)
	bookingID := chi.URLParam(r, "bookingId")
	logger = logger.With("booking_id", bookingID)

	var input api.PaymentRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	deadline, err := app.deadlines.GetByBookingID(r.Context(), bookingID)
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	if deadline.UserID != identity.UserID {
		logger.Warn("payment attempt for a booking of another user")
		app.notFoundResponse(w, r)
		return
	}

	switch {
	case deadline.Status == domain.DeadlineStatusConfirmed, deadline.Status == domain.DeadlineStatusCancelled:
		app.handleError(w, r, domain.ErrBookingNotPending)
		return
	case deadline.Status != domain.DeadlineStatusPending, deadline.Expired(time.Now()):
		logger.Warn("payment attempt after the payment window closed", "status", deadline.Status)
		app.handleError(w, r, domain.ErrPaymentExpired)
		return
	}

	upstream := app.upstreamContext(r)

	intent, err := app.cinema.CreatePaymentIntent(upstream, bookingID, deadline.Amount, domain.PaymentMethod(input.Method))
	if err != nil {
		logger.Error("failed to create payment intent", "error", err)
		app.handleError(w, r, err)
		return
	}

	booking, err := app.cinema.ConfirmPayment(upstream, bookingID, intent.ID)
	if err != nil {
		logger.Error("failed to confirm payment", "payment_intent_id", intent.ID, "error", err)
		app.handleError(w, r, err)
		return
	}

	if booking.Status != domain.BookingStatusConfirmed {
		logger.Warn("payment was not confirmed by the cinema API", "status", booking.Status)
		app.errorResponse(w, r, http.StatusPaymentRequired, "The payment could not be confirmed")
		return
	}

	err = app.deadlines.UpdateStatus(r.Context(), bookingID, domain.DeadlineStatusConfirmed, domain.DeadlineStatusPending)
	if err != nil {
		// the booking is paid upstream, the deadline row only loses its final status
		logger.Error("failed to mark payment deadline confirmed", "error", err)
	}

	err = app.resetSubmittedCheckout(r.Context(), deadline.SessionID, bookingID)
	if err != nil {
		logger.Warn("failed to reset checkout after payment", "error", err)
	}

	app.publish(r.Context(), logger, domain.BookingEvent{
		Type:        domain.BookingEventConfirmed,
		BookingID:   booking.ID,
		ShowtimeID:  booking.ShowtimeID,
		UserID:      identity.UserID,
		TotalAmount: booking.TotalAmount,
	})

	app.sendConfirmation(r, identity, *booking)

	app.metrics.recordPaid(r.Context(), string(input.Method))
	logger.Info("booking paid", "method", input.Method, "payment_intent_id", intent.ID)

	resp := api.PaymentResponse{
		Booking:         toApiBooking(booking, nil, time.Now()),
		PaymentIntentId: intent.ID,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) sendConfirmation(r *http.Request, identity domain.Identity, booking domain.Booking) {
	if identity.Email == "" {
		return
	}

	app.background(r, "booking_confirmation_email", func(ctx context.Context, logger *slog.Logger) {
		data := bookingConfirmedEmail{
			FullName:    identity.FullName,
			BookingCode: booking.BookingCode,
			TotalAmount: booking.TotalAmount,
			Seats:       make([]string, len(booking.Seats)),
		}

		for i, s := range booking.Seats {
			data.Seats[i] = s.String()
		}

		if booking.ShowtimeID != "" {
			showtime, err := app.cinema.GetShowtime(gateway.WithToken(ctx, identity.Token), booking.ShowtimeID)
			if err != nil {
				logger.Warn("sending confirmation without showtime details", "error", err)
			} else {
				data.MovieTitle = showtime.MovieTitle
				data.CinemaName = showtime.CinemaName
			}
		}

		err := app.mailer.Send(identity.Email, bookingConfirmedTemplate, data)
		if err != nil {
			logger.Error("failed to send booking confirmation email", "error", err)
		} else {
			logger.Info("booking confirmation email sent successfully")
		}
	})
}

func (app *Application) CancelBooking(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	identity := app.contextGetIdentity(r)
	bookingID := chi.URLParam(r, "bookingId")

	input := api.CancelBookingRequest{Reason: customerCancelReason}

	if r.ContentLength != 0 {
		err := app.readJSON(w, r, &input)
		if err != nil {
			app.badRequestResponse(w, r, err)
			return
		}

		err = app.validator.Struct(input)
		if err != nil {
			app.failedValidationResponse(w, r, err)
			return
		}

		if input.Reason == "" {
			input.Reason = customerCancelReason
		}
	}

	deadline, err := app.paymentDeadline(r.Context(), bookingID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if deadline != nil && deadline.UserID != identity.UserID {
		logger.Warn("cancel attempt for a booking of another user", "booking_id", bookingID)
		app.notFoundResponse(w, r)
		return
	}

	if deadline != nil && deadline.Status != domain.DeadlineStatusPending {
		app.handleError(w, r, domain.ErrBookingNotPending)
		return
	}

	upstream := app.upstreamContext(r)

	err = app.cinema.CancelBooking(upstream, bookingID, input.Reason)
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	if deadline != nil {
		err = app.deadlines.UpdateStatus(r.Context(), bookingID, domain.DeadlineStatusCancelled, domain.DeadlineStatusPending)
		if err != nil {
			logger.Error("failed to mark payment deadline cancelled", "booking_id", bookingID, "error", err)
		}

		err = app.resetSubmittedCheckout(r.Context(), deadline.SessionID, bookingID)
		if err != nil {
			logger.Warn("failed to reset checkout after cancellation", "error", err)
		}
	}

	booking, err := app.cinema.GetBooking(upstream, bookingID)
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	app.metrics.recordCancelled(r.Context())

	app.publish(r.Context(), logger, domain.BookingEvent{
		Type:        domain.BookingEventCancelled,
		BookingID:   bookingID,
		ShowtimeID:  booking.ShowtimeID,
		UserID:      identity.UserID,
		TotalAmount: booking.TotalAmount,
		Reason:      input.Reason,
	})

	resp := api.BookingResponse{Booking: toApiBooking(booking, nil, time.Now())}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetTicket(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")

	booking, err := app.cinema.GetBooking(app.upstreamContext(r), bookingID)
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	png, err := app.tickets.PNG(*booking)
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (app *Application) publish(ctx context.Context, logger *slog.Logger, event domain.BookingEvent) {
	event.OccurredAt = time.Now().UTC()

	err := app.events.Publish(ctx, event)
	if err != nil {
		logger.Error("failed to publish booking event", "event_type", event.Type, "error", err)
	}
}
