package domain

import "time"

type Showtime struct {
	ID          string     `json:"id"`
	MovieID     string     `json:"movieId"`
	MovieTitle  string     `json:"movieTitle"`
	CinemaID    string     `json:"cinemaId"`
	CinemaName  string     `json:"cinemaName"`
	RoomID      string     `json:"roomId"`
	RoomName    string     `json:"roomName"`
	StartTime   time.Time  `json:"startTime"`
	Prices      PriceTable `json:"prices"`
	Rows        int        `json:"rows"`
	SeatsPerRow int        `json:"seatsPerRow"`
	BookedSeats []SeatKey  `json:"bookedSeats,omitempty"`
}

// Layout returns the seat grid of the showtime's room, falling back to the default grid.
func (s Showtime) Layout() [][]Seat {
	return GenerateSeatLayout(s.Rows, s.SeatsPerRow, s.Prices)
}

// SeatAt looks a seat up in the layout, priced by its type.
func (s Showtime) SeatAt(key SeatKey) (Seat, bool) {
	for _, row := range s.Layout() {
		if len(row) == 0 || row[0].Row != key.Row {
			continue
		}

		if key.Number < 1 || key.Number > len(row) {
			return Seat{}, false
		}

		return row[key.Number-1], true
	}

	return Seat{}, false
}

func (s Showtime) IsBooked(key SeatKey) bool {
	for _, booked := range s.BookedSeats {
		if booked == key {
			return true
		}
	}

	return false
}

// Summary drops the volatile booked seat list before the showtime is stored in a cart.
func (s Showtime) Summary() Showtime {
	s.BookedSeats = nil
	return s
}
