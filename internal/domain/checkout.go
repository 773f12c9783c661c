package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Step string

const (
	StepEmpty           Step = "empty"
	StepSeatSelection   Step = "seat_selection"
	StepComboSelection  Step = "combo_selection"
	StepReadyForPayment Step = "ready_for_payment"
	StepSubmitted       Step = "submitted"
)

// Checkout is the booking flow of one browser session. It owns the cart and decides which
// mutations are legal at the current step.
type Checkout struct {
	ID            uuid.UUID `json:"id"`
	Step          Step      `json:"step"`
	Cart          Cart      `json:"cart"`
	LastBookingID string    `json:"lastBookingId,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func NewCheckout() *Checkout {
	return &Checkout{
		ID:        uuid.New(),
		Step:      StepEmpty,
		UpdatedAt: time.Now().UTC(),
	}
}

// SelectShowtime binds the cart to a showtime and restarts the flow at seat selection.
// Seats dropped because the showtime changed are returned so their holds can be released.
// Selecting a showtime after a submission starts a new booking.
func (c *Checkout) SelectShowtime(showtime Showtime) []Seat {
	if c.Step == StepSubmitted {
		c.Cart.Clear()
	}

	dropped := c.Cart.SetShowtime(showtime)
	c.Step = StepSeatSelection
	c.touch()

	return dropped
}

func (c *Checkout) AddSeat(seat Seat) Result {
	if c.Step != StepSeatSelection {
		return rejected(fmt.Errorf("%w: seats can only be changed during seat selection", ErrInvalidStep))
	}

	res := c.Cart.AddSeat(seat)
	if res.Added() {
		c.touch()
	}

	return res
}

func (c *Checkout) RemoveSeat(key SeatKey) (bool, error) {
	if c.Step != StepSeatSelection {
		return false, fmt.Errorf("%w: seats can only be changed during seat selection", ErrInvalidStep)
	}

	removed := c.Cart.RemoveSeat(key)
	if removed {
		c.touch()
	}

	return removed, nil
}

func (c *Checkout) AddCombo(combo Combo) Result {
	if !c.combosEditable() {
		return rejected(fmt.Errorf("%w: combos can not be changed at step %s", ErrInvalidStep, c.Step))
	}

	res := c.Cart.AddCombo(combo)
	if res.Added() {
		c.touch()
	}

	return res
}

func (c *Checkout) SetComboQuantity(combo Combo, quantity int) Result {
	if !c.combosEditable() {
		return rejected(fmt.Errorf("%w: combos can not be changed at step %s", ErrInvalidStep, c.Step))
	}

	res := c.Cart.SetComboQuantity(combo, quantity)
	if res.Added() {
		c.touch()
	}

	return res
}

func (c *Checkout) RemoveCombo(comboID string) (bool, error) {
	if !c.combosEditable() {
		return false, fmt.Errorf("%w: combos can not be changed at step %s", ErrInvalidStep, c.Step)
	}

	removed := c.Cart.RemoveCombo(comboID)
	if removed {
		c.touch()
	}

	return removed, nil
}

func (c *Checkout) combosEditable() bool {
	return c.Step == StepSeatSelection || c.Step == StepComboSelection
}

// Next advances the flow one step.
func (c *Checkout) Next() error {
	switch c.Step {
	case StepSeatSelection:
		if len(c.Cart.Seats) == 0 {
			return ErrNoSeatsSelected
		}
		c.Step = StepComboSelection
	case StepComboSelection:
		c.Step = StepReadyForPayment
	default:
		return fmt.Errorf("%w: can not advance from %s", ErrInvalidTransition, c.Step)
	}

	c.touch()
	return nil
}

// Back returns to the previous step.
func (c *Checkout) Back() error {
	switch c.Step {
	case StepComboSelection:
		c.Step = StepSeatSelection
	case StepReadyForPayment:
		c.Step = StepComboSelection
	default:
		return fmt.Errorf("%w: can not go back from %s", ErrInvalidTransition, c.Step)
	}

	c.touch()
	return nil
}

// BookingRequest serializes the cart for submission to the cinema API.
func (c *Checkout) BookingRequest() (BookingRequest, error) {
	if c.Step != StepReadyForPayment {
		return BookingRequest{}, fmt.Errorf("%w: booking can only be submitted when ready for payment", ErrInvalidStep)
	}

	if c.Cart.Showtime == nil {
		return BookingRequest{}, ErrNoShowtime
	}

	if len(c.Cart.Seats) == 0 {
		return BookingRequest{}, ErrNoSeatsSelected
	}

	req := BookingRequest{
		ShowtimeID:  c.Cart.Showtime.ID,
		Seats:       make([]Seat, len(c.Cart.Seats)),
		Combos:      make([]ComboLine, len(c.Cart.Combos)),
		TotalAmount: c.Cart.TotalAmount(),
	}
	copy(req.Seats, c.Cart.Seats)
	copy(req.Combos, c.Cart.Combos)

	return req, nil
}

// MarkSubmitted records the booking created upstream and empties the cart. The checkout
// stays submitted until a new showtime is selected or it is reset. The id is rotated so the
// next booking of the session gets a fresh idempotency key.
func (c *Checkout) MarkSubmitted(bookingID string) {
	c.ID = uuid.New()
	c.LastBookingID = bookingID
	c.Cart.Clear()
	c.Step = StepSubmitted
	c.touch()
}

// Reset clears the cart and returns to the empty step. The last booking id is kept.
func (c *Checkout) Reset() {
	c.Cart.Clear()
	c.Step = StepEmpty
	c.touch()
}

func (c *Checkout) TotalAmount() int64 {
	return c.Cart.TotalAmount()
}

func (c *Checkout) touch() {
	c.UpdatedAt = time.Now().UTC()
}
