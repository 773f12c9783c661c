package domain

import (
	"context"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentMethodCard    PaymentMethod = "card"
	PaymentMethodMomo    PaymentMethod = "momo"
	PaymentMethodZaloPay PaymentMethod = "zalopay"
	PaymentMethodVNPay   PaymentMethod = "vnpay"
)

// PaymentTimeoutReason is sent upstream when a booking is cancelled by the payment watchdog.
const PaymentTimeoutReason = "Payment timeout"

// BookingRequest is the serialized cart submitted to the cinema API.
type BookingRequest struct {
	ShowtimeID  string      `json:"showtimeId"`
	Seats       []Seat      `json:"seats"`
	Combos      []ComboLine `json:"combos"`
	TotalAmount int64       `json:"totalAmount"`
}

type Booking struct {
	ID          string        `json:"id"`
	BookingCode string        `json:"bookingCode"`
	ShowtimeID  string        `json:"showtimeId,omitempty"`
	Status      BookingStatus `json:"status"`
	TotalAmount int64         `json:"totalAmount"`
	Seats       []SeatKey     `json:"seats,omitempty"`
	CreatedAt   time.Time     `json:"createdAt,omitempty"`
}

func (b Booking) IsPending() bool {
	return b.Status == BookingStatusPending
}

type PaymentIntent struct {
	ID        string        `json:"paymentIntentId"`
	BookingID string        `json:"bookingId"`
	Amount    int64         `json:"amount"`
	Method    PaymentMethod `json:"method"`
}

// Identity is the signed in user as reported by the cinema API.
type Identity struct {
	Token    string `json:"-"`
	UserID   string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// CinemaAPI is the remote cinema backend. Calls made on behalf of a user expect the
// bearer token to be carried by the context.
type CinemaAPI interface {
	Login(ctx context.Context, email, password string) (*Identity, error)
	Logout(ctx context.Context) error
	GetShowtime(ctx context.Context, id string) (*Showtime, error)
	ListCombos(ctx context.Context) ([]Combo, error)
	CreateBooking(ctx context.Context, req BookingRequest, idempotencyKey string) (*Booking, error)
	GetBooking(ctx context.Context, id string) (*Booking, error)
	CancelBooking(ctx context.Context, id, reason string) error
	CreatePaymentIntent(ctx context.Context, bookingID string, amount int64, method PaymentMethod) (*PaymentIntent, error)
	ConfirmPayment(ctx context.Context, bookingID, paymentIntentID string) (*Booking, error)
	GetCrowdPrediction(ctx context.Context, showtimeID string) (*CrowdPrediction, error)
}

// CheckoutStore persists the checkout of each browser session.
type CheckoutStore interface {
	// Get returns ErrCartNotFound when the session has no checkout.
	Get(ctx context.Context, sessionID string) (*Checkout, error)
	// Update loads the checkout, creating an empty one if needed, applies fn and saves the
	// result atomically. Nothing is written when fn returns an error.
	Update(ctx context.Context, sessionID string, fn func(*Checkout) error) (*Checkout, error)
	Delete(ctx context.Context, sessionID string) error
	// Migrate moves a checkout to a new session id after the session token was renewed.
	Migrate(ctx context.Context, oldSessionID, newSessionID string) error
}

// SeatHolder keeps short lived holds on seats so that two sessions can not select the same one.
type SeatHolder interface {
	Hold(ctx context.Context, showtimeID string, seat SeatKey, sessionID string) error
	Release(ctx context.Context, showtimeID string, seats []SeatKey, sessionID string) error
	Transfer(ctx context.Context, showtimeID string, seats []SeatKey, fromSessionID, toSessionID string) error
	// Held returns the live holds of a showtime keyed by seat, valued by session id.
	Held(ctx context.Context, showtimeID string) (map[SeatKey]string, error)
}
