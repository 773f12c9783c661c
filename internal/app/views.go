package app

import (
	"time"

	"github.com/metinatakli/cinex-booking/api"
	"github.com/metinatakli/cinex-booking/internal/domain"
)

func toApiShowtime(showtime *domain.Showtime) api.ShowtimeSummary {
	return api.ShowtimeSummary{
		Id:         showtime.ID,
		MovieTitle: showtime.MovieTitle,
		CinemaName: showtime.CinemaName,
		RoomName:   showtime.RoomName,
		StartTime:  showtime.StartTime,
		Prices: api.PriceTable{
			Standard: showtime.Prices.Standard,
			Vip:      showtime.Prices.VIP,
			Couple:   showtime.Prices.Couple,
		},
	}
}

func (app *Application) toApiCheckout(checkout *domain.Checkout) api.Checkout {
	cart := checkout.Cart

	resp := api.Checkout{
		Id:            checkout.ID.String(),
		Step:          string(checkout.Step),
		Seats:         make([]api.CartSeat, len(cart.Seats)),
		Combos:        make([]api.CartCombo, len(cart.Combos)),
		SeatsAmount:   cart.SeatsAmount(),
		CombosAmount:  cart.CombosAmount(),
		TotalAmount:   cart.TotalAmount(),
		MaxSeats:      domain.MaxSeatsPerCart,
		HoldTime:      int(app.config.Cart.TTL.Seconds()),
		LastBookingId: checkout.LastBookingID,
	}

	if cart.Showtime != nil {
		showtime := toApiShowtime(cart.Showtime)
		resp.Showtime = &showtime
	}

	for i, s := range cart.Seats {
		resp.Seats[i] = api.CartSeat{
			Row:    s.Row,
			Number: s.Number,
			Type:   api.SeatType(s.Type),
			Price:  s.Price,
		}
	}

	for i, l := range cart.Combos {
		resp.Combos[i] = api.CartCombo{
			ComboId:  l.ComboID,
			Name:     l.Name,
			Price:    l.Price,
			Quantity: l.Quantity,
			Subtotal: l.Subtotal(),
		}
	}

	return resp
}

func toSeatRefs(seats []domain.Seat) []api.SeatRef {
	if len(seats) == 0 {
		return nil
	}

	refs := make([]api.SeatRef, len(seats))
	for i, s := range seats {
		refs[i] = api.SeatRef{Row: s.Row, Number: s.Number}
	}

	return refs
}

func toApiCombos(combos []domain.Combo) []api.Combo {
	resp := make([]api.Combo, len(combos))
	for i, c := range combos {
		items := c.Items
		if items == nil {
			items = []string{}
		}

		resp[i] = api.Combo{
			Id:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Price:       c.Price,
			Items:       items,
			Available:   c.Available,
		}
	}

	return resp
}

// toApiBooking adds the payment countdown when the booking has a deadline.
func toApiBooking(booking *domain.Booking, deadline *domain.PaymentDeadline, now time.Time) api.Booking {
	resp := api.Booking{
		Id:          booking.ID,
		BookingCode: booking.BookingCode,
		ShowtimeId:  booking.ShowtimeID,
		Status:      string(booking.Status),
		TotalAmount: booking.TotalAmount,
	}

	if deadline != nil && booking.IsPending() {
		expiresAt := deadline.ExpiresAt
		resp.PaymentDeadline = &expiresAt
		resp.RemainingSeconds = int(deadline.Remaining(now).Seconds())
	}

	return resp
}
