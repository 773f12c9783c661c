package domain

import "fmt"

// Combo is a concession product from the upstream catalog.
type Combo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       int64    `json:"price"`
	Items       []string `json:"items,omitempty"`
	Available   bool     `json:"available"`
}

func (c Combo) validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: combo id is required", ErrInvalidCombo)
	}

	if c.Price <= 0 {
		return fmt.Errorf("%w: combo price must be positive", ErrInvalidCombo)
	}

	return nil
}

// ComboLine is a combo entry of a cart. Quantity is always at least one.
type ComboLine struct {
	ComboID  string `json:"comboId"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

func (l ComboLine) Subtotal() int64 {
	return l.Price * int64(l.Quantity)
}
