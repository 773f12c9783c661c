package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

type SeatType string

const (
	Standard SeatType = "standard"
	VIP      SeatType = "vip"
	Couple   SeatType = "couple"
)

type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatBooked    SeatStatus = "booked"
	SeatHeld      SeatStatus = "held"
	SeatSelected  SeatStatus = "selected"
)

type PaymentMethod string

const (
	Card    PaymentMethod = "card"
	Momo    PaymentMethod = "momo"
	ZaloPay PaymentMethod = "zalopay"
	VNPay   PaymentMethod = "vnpay"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"requestId"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type LoginRequest struct {
	Email    openapi_types.Email `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

type User struct {
	Id       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

type UserResponse struct {
	User User `json:"user"`
}

type PriceTable struct {
	Standard int64 `json:"standard"`
	Vip      int64 `json:"vip"`
	Couple   int64 `json:"couple"`
}

type ShowtimeSummary struct {
	Id         string     `json:"id"`
	MovieTitle string     `json:"movieTitle"`
	CinemaName string     `json:"cinemaName"`
	RoomName   string     `json:"roomName"`
	StartTime  time.Time  `json:"startTime"`
	Prices     PriceTable `json:"prices"`
}

type SeatMapSeat struct {
	Row    string     `json:"row"`
	Number int        `json:"number"`
	Type   SeatType   `json:"type"`
	Price  int64      `json:"price"`
	Status SeatStatus `json:"status"`
}

type SeatRow struct {
	Row   string        `json:"row"`
	Seats []SeatMapSeat `json:"seats"`
}

type SeatMapResponse struct {
	Showtime ShowtimeSummary `json:"showtime"`
	Rows     []SeatRow       `json:"rows"`
}

type CrowdResponse struct {
	ShowtimeId          string  `json:"showtimeId"`
	OccupancyPercentage float64 `json:"occupancyPercentage"`
	Level               string  `json:"level"`
	Color               string  `json:"color"`
}

type Combo struct {
	Id          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       int64    `json:"price"`
	Items       []string `json:"items"`
	Available   bool     `json:"available"`
}

type CombosResponse struct {
	Combos []Combo `json:"combos"`
}

type SetShowtimeRequest struct {
	ShowtimeId string `json:"showtimeId" validate:"required,max=64"`
}

type AddSeatRequest struct {
	Row    string `json:"row" validate:"required,seat_row"`
	Number int    `json:"number" validate:"required,min=1,max=50"`
}

type AddComboRequest struct {
	ComboId string `json:"comboId" validate:"required,max=64"`
}

type SetComboQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0,max=10"`
}

type CartSeat struct {
	Row    string   `json:"row"`
	Number int      `json:"number"`
	Type   SeatType `json:"type"`
	Price  int64    `json:"price"`
}

type CartCombo struct {
	ComboId  string `json:"comboId"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Subtotal int64  `json:"subtotal"`
}

type SeatRef struct {
	Row    string `json:"row"`
	Number int    `json:"number"`
}

type Checkout struct {
	Id            string           `json:"id"`
	Step          string           `json:"step"`
	Showtime      *ShowtimeSummary `json:"showtime"`
	Seats         []CartSeat       `json:"seats"`
	Combos        []CartCombo      `json:"combos"`
	SeatsAmount   int64            `json:"seatsAmount"`
	CombosAmount  int64            `json:"combosAmount"`
	TotalAmount   int64            `json:"totalAmount"`
	MaxSeats      int              `json:"maxSeats"`
	HoldTime      int              `json:"holdTime"`
	LastBookingId string           `json:"lastBookingId,omitempty"`
}

type CheckoutResponse struct {
	Checkout     Checkout  `json:"checkout"`
	DroppedSeats []SeatRef `json:"droppedSeats,omitempty"`
}

type Booking struct {
	Id               string     `json:"id"`
	BookingCode      string     `json:"bookingCode"`
	ShowtimeId       string     `json:"showtimeId,omitempty"`
	Status           string     `json:"status"`
	TotalAmount      int64      `json:"totalAmount"`
	PaymentDeadline  *time.Time `json:"paymentDeadline,omitempty"`
	RemainingSeconds int        `json:"remainingSeconds"`
}

type BookingResponse struct {
	Booking Booking `json:"booking"`
}

type PaymentRequest struct {
	Method PaymentMethod `json:"method" validate:"required,payment_method"`
}

type PaymentResponse struct {
	Booking         Booking `json:"booking"`
	PaymentIntentId string  `json:"paymentIntentId"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"max=200"`
}
