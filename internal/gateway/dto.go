package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/metinatakli/cinex-booking/internal/domain"
	"github.com/shopspring/decimal"
)

// toMinorUnits converts an upstream price to whole currency units. Fractional, negative and
// out of range amounts are rejected.
func toMinorUnits(d decimal.Decimal) (int64, error) {
	if !d.Equal(d.Truncate(0)) || d.IsNegative() || !d.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidMoney, d.String())
	}

	return d.IntPart(), nil
}

type errorEnvelope struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

type ref struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
	Name  string `json:"name"`
}

type roomDTO struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Rows        int    `json:"rows"`
	SeatsPerRow int    `json:"seatsPerRow"`
}

type priceDTO struct {
	Standard decimal.Decimal `json:"standard"`
	VIP      decimal.Decimal `json:"vip"`
	Couple   decimal.Decimal `json:"couple"`
}

type seatRefDTO struct {
	Row    string `json:"row"`
	Number int    `json:"number"`
}

type showtimeDTO struct {
	ID          string       `json:"_id"`
	Movie       ref          `json:"movie"`
	Cinema      ref          `json:"cinema"`
	Room        roomDTO      `json:"room"`
	StartTime   time.Time    `json:"startTime"`
	Price       priceDTO     `json:"price"`
	BookedSeats []seatRefDTO `json:"bookedSeats"`
}

type showtimeResponse struct {
	Showtime showtimeDTO `json:"showtime"`
}

func (s showtimeDTO) toDomain() (*domain.Showtime, error) {
	var prices domain.PriceTable
	var err error

	if prices.Standard, err = toMinorUnits(s.Price.Standard); err != nil {
		return nil, err
	}
	if prices.VIP, err = toMinorUnits(s.Price.VIP); err != nil {
		return nil, err
	}
	if prices.Couple, err = toMinorUnits(s.Price.Couple); err != nil {
		return nil, err
	}

	booked := make([]domain.SeatKey, 0, len(s.BookedSeats))
	for _, b := range s.BookedSeats {
		booked = append(booked, domain.SeatKey{Row: b.Row, Number: b.Number})
	}

	return &domain.Showtime{
		ID:          s.ID,
		MovieID:     s.Movie.ID,
		MovieTitle:  s.Movie.Title,
		CinemaID:    s.Cinema.ID,
		CinemaName:  s.Cinema.Name,
		RoomID:      s.Room.ID,
		RoomName:    s.Room.Name,
		StartTime:   s.StartTime,
		Prices:      prices.WithDefaults(),
		Rows:        s.Room.Rows,
		SeatsPerRow: s.Room.SeatsPerRow,
		BookedSeats: booked,
	}, nil
}

type comboDTO struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Items       []comboItemDTO  `json:"items"`
	Available   *bool           `json:"available"`
}

type comboItemDTO struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type combosResponse struct {
	Combos []comboDTO `json:"combos"`
}

func (c comboDTO) toDomain() (domain.Combo, error) {
	price, err := toMinorUnits(c.Price)
	if err != nil {
		return domain.Combo{}, err
	}

	items := make([]string, 0, len(c.Items))
	for _, it := range c.Items {
		if it.Quantity > 1 {
			items = append(items, fmt.Sprintf("%dx %s", it.Quantity, it.Name))
			continue
		}
		items = append(items, it.Name)
	}

	return domain.Combo{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Price:       price,
		Items:       items,
		Available:   c.Available == nil || *c.Available,
	}, nil
}

type bookingSeatDTO struct {
	Row    string `json:"row"`
	Number int    `json:"number"`
	Type   string `json:"type"`
	Price  int64  `json:"price"`
}

type bookingComboDTO struct {
	ComboID  string `json:"comboId"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

type createBookingRequest struct {
	ShowtimeID  string            `json:"showtimeId"`
	Seats       []bookingSeatDTO  `json:"seats"`
	Combos      []bookingComboDTO `json:"combos"`
	TotalAmount int64             `json:"totalAmount"`
}

func newCreateBookingRequest(req domain.BookingRequest) createBookingRequest {
	out := createBookingRequest{
		ShowtimeID:  req.ShowtimeID,
		Seats:       make([]bookingSeatDTO, len(req.Seats)),
		Combos:      make([]bookingComboDTO, len(req.Combos)),
		TotalAmount: req.TotalAmount,
	}

	for i, s := range req.Seats {
		out.Seats[i] = bookingSeatDTO{Row: s.Row, Number: s.Number, Type: string(s.Type), Price: s.Price}
	}

	for i, c := range req.Combos {
		out.Combos[i] = bookingComboDTO{ComboID: c.ComboID, Quantity: c.Quantity, Price: c.Price}
	}

	return out
}

// bookingDTO accepts the showtime either as an id or as a populated object.
type bookingDTO struct {
	ID          string          `json:"_id"`
	BookingCode string          `json:"bookingCode"`
	Showtime    json.RawMessage `json:"showtime"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Seats       []seatRefDTO    `json:"seats"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type bookingResponse struct {
	Booking bookingDTO `json:"booking"`
}

func (b bookingDTO) toDomain() (*domain.Booking, error) {
	total, err := toMinorUnits(b.TotalAmount)
	if err != nil {
		return nil, err
	}

	seats := make([]domain.SeatKey, 0, len(b.Seats))
	for _, s := range b.Seats {
		seats = append(seats, domain.SeatKey{Row: s.Row, Number: s.Number})
	}

	return &domain.Booking{
		ID:          b.ID,
		BookingCode: b.BookingCode,
		ShowtimeID:  b.showtimeID(),
		Status:      domain.BookingStatus(b.Status),
		TotalAmount: total,
		Seats:       seats,
		CreatedAt:   b.CreatedAt,
	}, nil
}

func (b bookingDTO) showtimeID() string {
	if len(b.Showtime) == 0 {
		return ""
	}

	var id string
	if err := json.Unmarshal(b.Showtime, &id); err == nil {
		return id
	}

	var populated ref
	if err := json.Unmarshal(b.Showtime, &populated); err == nil {
		return populated.ID
	}

	return ""
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

type createIntentRequest struct {
	BookingID string `json:"bookingId"`
	Amount    int64  `json:"amount"`
	Method    string `json:"method"`
}

type createIntentResponse struct {
	PaymentIntentID string `json:"paymentIntentId"`
}

type confirmPaymentRequest struct {
	BookingID       string `json:"bookingId"`
	PaymentIntentID string `json:"paymentIntentId"`
}

type crowdResponse struct {
	OccupancyPercentage decimal.Decimal `json:"occupancyPercentage"`
	OccupancyLevel      string          `json:"occupancyLevel"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userDTO struct {
	ID       string `json:"_id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

type loginResponse struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}
