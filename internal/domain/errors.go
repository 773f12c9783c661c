package domain

import "errors"

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrEditConflict      = errors.New("edit conflict")
	ErrDuplicateDeadline = errors.New("payment deadline already exists for booking")
	ErrCartNotFound      = errors.New("cart not found or has expired")
	ErrSeatAlreadyHeld   = errors.New("seat is held by another customer")
	ErrSeatAlreadyBooked = errors.New("seat is already booked")
	ErrSeatNotFound      = errors.New("seat does not exist for the showtime")
	ErrComboNotFound     = errors.New("combo not found")
	ErrComboUnavailable  = errors.New("combo is not available")
	ErrPaymentExpired    = errors.New("payment time for this booking has expired")
	ErrBookingNotPending = errors.New("booking is no longer awaiting payment")
)

// Reasons a cart or checkout mutation is rejected.
var (
	ErrNoShowtime          = errors.New("no showtime selected")
	ErrInvalidSeat         = errors.New("invalid seat")
	ErrSeatAlreadySelected = errors.New("seat is already selected")
	ErrSeatLimitReached    = errors.New("seat selection limit reached")
	ErrInvalidCombo        = errors.New("invalid combo")
	ErrInvalidQuantity     = errors.New("invalid combo quantity")
	ErrNoSeatsSelected     = errors.New("at least one seat must be selected")
	ErrInvalidStep         = errors.New("operation is not allowed at the current checkout step")
	ErrInvalidTransition   = errors.New("invalid checkout step transition")
)
