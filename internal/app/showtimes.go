package app

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/metinatakli/cinex-booking/api"
	"github.com/metinatakli/cinex-booking/internal/domain"
)

func (app *Application) GetSeatMap(w http.ResponseWriter, r *http.Request) {
	showtimeID := chi.URLParam(r, "showtimeId")
	sessionID := app.sessionManager.Token(r.Context())

	showtime, err := app.cinema.GetShowtime(app.upstreamContext(r), showtimeID)
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	held, err := app.seats.Held(r.Context(), showtimeID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	selected := make(map[domain.SeatKey]bool)

	checkout, err := app.checkouts.Get(r.Context(), sessionID)
	switch {
	case err == nil:
		if checkout.Cart.Showtime != nil && checkout.Cart.Showtime.ID == showtimeID {
			for _, key := range checkout.Cart.SeatKeys() {
				selected[key] = true
			}
		}
	case errors.Is(err, domain.ErrCartNotFound):
	default:
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.SeatMapResponse{
		Showtime: toApiShowtime(showtime),
		Rows:     toSeatRows(showtime, held, selected, sessionID),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// toSeatRows merges the room layout with booked seats, holds of other sessions and the
// session's own selection.
func toSeatRows(
	showtime *domain.Showtime,
	held map[domain.SeatKey]string,
	selected map[domain.SeatKey]bool,
	sessionID string) []api.SeatRow {

	layout := showtime.Layout()
	rows := make([]api.SeatRow, len(layout))

	for i, row := range layout {
		seats := make([]api.SeatMapSeat, len(row))

		for j, seat := range row {
			key := seat.Key()
			status := api.SeatAvailable

			switch owner, isHeld := held[key]; {
			case showtime.IsBooked(key):
				status = api.SeatBooked
			case selected[key]:
				status = api.SeatSelected
			case isHeld && owner != sessionID:
				status = api.SeatHeld
			}

			seats[j] = api.SeatMapSeat{
				Row:    seat.Row,
				Number: seat.Number,
				Type:   api.SeatType(seat.Type),
				Price:  seat.Price,
				Status: status,
			}
		}

		rows[i] = api.SeatRow{Row: row[0].Row, Seats: seats}
	}

	return rows
}

func (app *Application) GetCrowdLevel(w http.ResponseWriter, r *http.Request) {
	showtimeID := chi.URLParam(r, "showtimeId")

	prediction, err := app.cinema.GetCrowdPrediction(app.upstreamContext(r), showtimeID)
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	level := prediction.Level
	if !level.Valid() {
		level = domain.CrowdLevelFor(prediction.OccupancyPercentage)
	}

	resp := api.CrowdResponse{
		ShowtimeId:          showtimeID,
		OccupancyPercentage: prediction.OccupancyPercentage,
		Level:               string(level),
		Color:               level.Color(),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ListCombos(w http.ResponseWriter, r *http.Request) {
	combos, err := app.cinema.ListCombos(app.upstreamContext(r))
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	resp := api.CombosResponse{Combos: toApiCombos(combos)}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
