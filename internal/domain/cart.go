package domain

import "fmt"

const (
	MaxSeatsPerCart  = 10
	MaxComboQuantity = 10
)

// Result reports whether a cart mutation was applied. A rejected result carries the reason
// and leaves the cart unchanged.
type Result struct {
	reason error
}

func added() Result {
	return Result{}
}

func rejected(reason error) Result {
	return Result{reason: reason}
}

func (r Result) Added() bool {
	return r.reason == nil
}

func (r Result) Rejected() bool {
	return r.reason != nil
}

// Err returns the rejection reason, nil when the mutation was applied.
func (r Result) Err() error {
	return r.reason
}

// Cart holds the ticket selection of one checkout session.
type Cart struct {
	Showtime *Showtime   `json:"showtime"`
	Seats    []Seat      `json:"seats"`
	Combos   []ComboLine `json:"combos"`
}

// SetShowtime binds the cart to a showtime. Seats picked for a different showtime are
// dropped and returned; combos are kept since they do not depend on the screening.
func (c *Cart) SetShowtime(showtime Showtime) []Seat {
	var dropped []Seat

	if c.Showtime != nil && c.Showtime.ID != showtime.ID {
		dropped = c.Seats
		c.Seats = nil
	}

	summary := showtime.Summary()
	c.Showtime = &summary

	return dropped
}

func (c *Cart) AddSeat(seat Seat) Result {
	if c.Showtime == nil {
		return rejected(ErrNoShowtime)
	}

	if err := seat.validate(); err != nil {
		return rejected(err)
	}

	if c.IsSeatSelected(seat.Key()) {
		return rejected(fmt.Errorf("%w: %s", ErrSeatAlreadySelected, seat.Key()))
	}

	if len(c.Seats) >= MaxSeatsPerCart {
		return rejected(fmt.Errorf("%w: at most %d seats per booking", ErrSeatLimitReached, MaxSeatsPerCart))
	}

	c.Seats = append(c.Seats, seat)

	return added()
}

// RemoveSeat drops the seat matching key and reports whether one was removed.
func (c *Cart) RemoveSeat(key SeatKey) bool {
	for i, s := range c.Seats {
		if s.Key() == key {
			c.Seats = append(c.Seats[:i], c.Seats[i+1:]...)
			return true
		}
	}

	return false
}

func (c *Cart) IsSeatSelected(key SeatKey) bool {
	for _, s := range c.Seats {
		if s.Key() == key {
			return true
		}
	}

	return false
}

func (c *Cart) SeatKeys() []SeatKey {
	keys := make([]SeatKey, len(c.Seats))
	for i, s := range c.Seats {
		keys[i] = s.Key()
	}

	return keys
}

// AddCombo increments the quantity of an existing line or inserts a new one with quantity 1.
// MaxComboQuantity only bounds SetComboQuantity.
func (c *Cart) AddCombo(combo Combo) Result {
	if err := combo.validate(); err != nil {
		return rejected(err)
	}

	if i := c.comboIndex(combo.ID); i >= 0 {
		c.Combos[i].Quantity++
		return added()
	}

	c.Combos = append(c.Combos, ComboLine{
		ComboID:  combo.ID,
		Name:     combo.Name,
		Price:    combo.Price,
		Quantity: 1,
	})

	return added()
}

// SetComboQuantity sets the quantity of a combo line directly; zero removes the line.
func (c *Cart) SetComboQuantity(combo Combo, quantity int) Result {
	if quantity < 0 || quantity > MaxComboQuantity {
		return rejected(fmt.Errorf("%w: quantity must be between 0 and %d", ErrInvalidQuantity, MaxComboQuantity))
	}

	if quantity == 0 {
		c.RemoveCombo(combo.ID)
		return added()
	}

	if err := combo.validate(); err != nil {
		return rejected(err)
	}

	if i := c.comboIndex(combo.ID); i >= 0 {
		c.Combos[i].Quantity = quantity
		return added()
	}

	c.Combos = append(c.Combos, ComboLine{
		ComboID:  combo.ID,
		Name:     combo.Name,
		Price:    combo.Price,
		Quantity: quantity,
	})

	return added()
}

// RemoveCombo deletes the whole line regardless of its quantity.
func (c *Cart) RemoveCombo(comboID string) bool {
	if i := c.comboIndex(comboID); i >= 0 {
		c.Combos = append(c.Combos[:i], c.Combos[i+1:]...)
		return true
	}

	return false
}

func (c *Cart) comboIndex(comboID string) int {
	for i, l := range c.Combos {
		if l.ComboID == comboID {
			return i
		}
	}

	return -1
}

func (c *Cart) SeatsAmount() int64 {
	var total int64
	for _, s := range c.Seats {
		total += s.Price
	}

	return total
}

func (c *Cart) CombosAmount() int64 {
	var total int64
	for _, l := range c.Combos {
		total += l.Subtotal()
	}

	return total
}

func (c *Cart) TotalAmount() int64 {
	return c.SeatsAmount() + c.CombosAmount()
}

// Clear resets the cart to its empty state.
func (c *Cart) Clear() {
	c.Showtime = nil
	c.Seats = nil
	c.Combos = nil
}

func (c *Cart) IsEmpty() bool {
	return c.Showtime == nil && len(c.Seats) == 0 && len(c.Combos) == 0
}
