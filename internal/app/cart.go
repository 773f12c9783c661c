package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/metinatakli/cinex-booking/api"
	"github.com/metinatakli/cinex-booking/internal/domain"
)

func (app *Application) writeCheckout(w http.ResponseWriter, r *http.Request, checkout *domain.Checkout, dropped []domain.Seat) {
	resp := api.CheckoutResponse{
		Checkout:     app.toApiCheckout(checkout),
		DroppedSeats: toSeatRefs(dropped),
	}

	err := app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetCart(w http.ResponseWriter, r *http.Request) {
	checkout, err := app.checkouts.Get(r.Context(), app.sessionManager.Token(r.Context()))
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	app.writeCheckout(w, r, checkout, nil)
}

func (app *Application) ClearCart(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	sessionID := app.sessionManager.Token(r.Context())

	var showtimeID string
	var released []domain.SeatKey

	_, err := app.checkouts.Update(r.Context(), sessionID, func(c *domain.Checkout) error {
		showtimeID, released = "", c.Cart.SeatKeys()
		if c.Cart.Showtime != nil {
			showtimeID = c.Cart.Showtime.ID
		}

		c.Reset()
		return nil
	})
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	app.releaseSeats(r.Context(), showtimeID, released, sessionID)
	logger.Info("cart cleared", "released_seats", len(released))

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) SetShowtime(w http.ResponseWriter, r *http.Request) {
	sessionID := app.sessionManager.Token(r.Context())

	var input api.SetShowtimeRequest

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

	showtime, err := app.cinema.GetShowtime(app.upstreamContext(r), input.ShowtimeId)
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	var previous string
	var dropped []domain.Seat

	checkout, err := app.checkouts.Update(r.Context(), sessionID, func(c *domain.Checkout) error {
		previous = ""
		if c.Cart.Showtime != nil {
			previous = c.Cart.Showtime.ID
		}

		dropped = c.SelectShowtime(*showtime)
		return nil
	})
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	if len(dropped) > 0 {
		keys := make([]domain.SeatKey, len(dropped))
		for i, s := range dropped {
			keys[i] = s.Key()
		}
		app.releaseSeats(r.Context(), previous, keys, sessionID)
	}

	app.writeCheckout(w, r, checkout, dropped)
}

// AddSeat holds the seat for the session before adding it, so two sessions can never
// select the same seat. The hold is dropped again when the cart rejects the seat.
func (app *Application) AddSeat(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	sessionID := app.sessionManager.Token(r.Context())

	var input api.AddSeatRequest

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

	key := domain.SeatKey{Row: input.Row, Number: input.Number}

	current, err := app.checkouts.Get(r.Context(), sessionID)
	if err != nil && !errors.Is(err, domain.ErrCartNotFound) {
		app.serverErrorResponse(w, r, err)
		return
	}

	if current == nil || current.Cart.Showtime == nil {
		app.handleError(w, r, domain.ErrNoShowtime)
		return
	}

	if current.Step != domain.StepSeatSelection {
		app.handleError(w, r, fmt.Errorf("%w: seats can only be changed during seat selection", domain.ErrInvalidStep))
		return
	}

	showtimeID := current.Cart.Showtime.ID

	showtime, err := app.cinema.GetShowtime(app.upstreamContext(r), showtimeID)
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	seat, ok := showtime.SeatAt(key)
	if !ok {
		app.handleError(w, r, fmt.Errorf("%w: %s", domain.ErrSeatNotFound, key))
		return
	}

	if showtime.IsBooked(key) {
		app.handleError(w, r, fmt.Errorf("%w: %s", domain.ErrSeatAlreadyBooked, key))
		return
	}

	err = app.seats.Hold(r.Context(), showtimeID, key, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSeatAlreadyHeld) {
			logger.Warn("seat selection conflict: seat is held by another session", "seat", key.String())
			app.metrics.recordSeatConflict(r.Context(), showtimeID)
		}
		app.handleError(w, r, err)
		return
	}

	var alreadySelected bool

	checkout, err := app.checkouts.Update(r.Context(), sessionID, func(c *domain.Checkout) error {
		if c.Cart.Showtime == nil || c.Cart.Showtime.ID != showtimeID {
			return domain.ErrEditConflict
		}

		alreadySelected = c.Cart.IsSeatSelected(key)

		return c.AddSeat(seat).Err()
	})
	if err != nil {
		if !alreadySelected {
			app.releaseSeats(r.Context(), showtimeID, []domain.SeatKey{key}, sessionID)
		}

		app.handleError(w, r, err)
		return
	}

	app.writeCheckout(w, r, checkout, nil)
}

func (app *Application) RemoveSeat(w http.ResponseWriter, r *http.Request) {
	sessionID := app.sessionManager.Token(r.Context())

	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || number < 1 {
		app.badRequestResponse(w, r, errors.New("seat number must be a positive integer"))
		return
	}

	key := domain.SeatKey{Row: chi.URLParam(r, "row"), Number: number}

	var showtimeID string
	var removed bool

	checkout, err := app.checkouts.Update(r.Context(), sessionID, func(c *domain.Checkout) error {
		var err error

		removed, err = c.RemoveSeat(key)
		if err != nil {
			return err
		}

		if c.Cart.Showtime != nil {
			showtimeID = c.Cart.Showtime.ID
		}

		return nil
	})
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	if removed {
		app.releaseSeats(r.Context(), showtimeID, []domain.SeatKey{key}, sessionID)
	}

	app.writeCheckout(w, r, checkout, nil)
}

func (app *Application) AddCombo(w http.ResponseWriter, r *http.Request) {
	sessionID := app.sessionManager.Token(r.Context())

	var input api.AddComboRequest

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

	combo, err := app.findCombo(app.upstreamContext(r), input.ComboId)
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	checkout, err := app.checkouts.Update(r.Context(), sessionID, func(c *domain.Checkout) error {
		return c.AddCombo(*combo).Err()
	})
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	app.writeCheckout(w, r, checkout, nil)
}

func (app *Application) SetComboQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID := app.sessionManager.Token(r.Context())
	comboID := chi.URLParam(r, "comboId")

	var input api.SetComboQuantityRequest

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

	combo := &domain.Combo{ID: comboID}

	// removal does not need the catalog
	if input.Quantity > 0 {
		combo, err = app.findCombo(app.upstreamContext(r), comboID)
		if err != nil {
			app.handleError(w, r, err)
			return
		}
	}

	checkout, err := app.checkouts.Update(r.Context(), sessionID, func(c *domain.Checkout) error {
		return c.SetComboQuantity(*combo, input.Quantity).Err()
	})
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	app.writeCheckout(w, r, checkout, nil)
}

func (app *Application) RemoveCombo(w http.ResponseWriter, r *http.Request) {
	sessionID := app.sessionManager.Token(r.Context())
	comboID := chi.URLParam(r, "comboId")

	checkout, err := app.checkouts.Update(r.Context(), sessionID, func(c *domain.Checkout) error {
		_, err := c.RemoveCombo(comboID)
		return err
	})
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	app.writeCheckout(w, r, checkout, nil)
}

func (app *Application) NextStep(w http.ResponseWriter, r *http.Request) {
	app.changeStep(w, r, (*domain.Checkout).Next)
}

func (app *Application) PreviousStep(w http.ResponseWriter, r *http.Request) {
	app.changeStep(w, r, (*domain.Checkout).Back)
}

func (app *Application) changeStep(w http.ResponseWriter, r *http.Request, transition func(*domain.Checkout) error) {
	sessionID := app.sessionManager.Token(r.Context())

	checkout, err := app.checkouts.Update(r.Context(), sessionID, transition)
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	app.writeCheckout(w, r, checkout, nil)
}

func (app *Application) findCombo(ctx context.Context, comboID string) (*domain.Combo, error) {
	combos, err := app.cinema.ListCombos(ctx)
	if err != nil {
		return nil, err
	}

	for _, c := range combos {
		if c.ID != comboID {
			continue
		}

		if !c.Available {
			return nil, fmt.Errorf("%w: %s", domain.ErrComboUnavailable, c.Name)
		}

		return &c, nil
	}

	return nil, fmt.Errorf("%w: %s", domain.ErrComboNotFound, comboID)
}

// releaseSeats drops the session's holds. Errors are only logged, holds expire with the cart.
func (app *Application) releaseSeats(ctx context.Context, showtimeID string, seats []domain.SeatKey, sessionID string) {
	if showtimeID == "" || len(seats) == 0 {
		return
	}

	err := app.seats.Release(ctx, showtimeID, seats, sessionID)
	if err != nil {
		app.logger.Error("failed to release seat holds", "showtime_id", showtimeID, "error", err)
	}
}
