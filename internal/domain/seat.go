package domain

import (
	"fmt"
	"strconv"
	"strings"
)

type SeatType string

const (
	SeatTypeStandard SeatType = "standard"
	SeatTypeVIP      SeatType = "vip"
	SeatTypeCouple   SeatType = "couple"
)

func (t SeatType) Valid() bool {
	switch t {
	case SeatTypeStandard, SeatTypeVIP, SeatTypeCouple:
		return true
	default:
		return false
	}
}

const (
	DefaultLayoutRows = 10
	DefaultLayoutCols = 12

	vipRows    = 3
	coupleRows = 2

	rowLabels = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// SeatKey identifies a seat within a showtime.
type SeatKey struct {
	Row    string `json:"row"`
	Number int    `json:"number"`
}

func (k SeatKey) String() string {
	return fmt.Sprintf("%s%d", k.Row, k.Number)
}

// ParseSeatKey parses the "A:12" member form used by seat holds.
func ParseSeatKey(s string) (SeatKey, error) {
	row, num, ok := strings.Cut(s, ":")
	if !ok || row == "" {
		return SeatKey{}, fmt.Errorf("malformed seat key %q", s)
	}

	number, err := strconv.Atoi(num)
	if err != nil || number < 1 {
		return SeatKey{}, fmt.Errorf("malformed seat number in %q", s)
	}

	return SeatKey{Row: row, Number: number}, nil
}

// Member is the encoding stored in redis sets.
func (k SeatKey) Member() string {
	return fmt.Sprintf("%s:%d", k.Row, k.Number)
}

type Seat struct {
	Row    string   `json:"row"`
	Number int      `json:"number"`
	Type   SeatType `json:"type"`
	Price  int64    `json:"price"`
}

func (s Seat) Key() SeatKey {
	return SeatKey{Row: s.Row, Number: s.Number}
}

func (s Seat) validate() error {
	if s.Row == "" || s.Number < 1 {
		return fmt.Errorf("%w: seat must have a row and a positive number", ErrInvalidSeat)
	}

	if !s.Type.Valid() {
		return fmt.Errorf("%w: unknown seat type %q", ErrInvalidSeat, s.Type)
	}

	if s.Price <= 0 {
		return fmt.Errorf("%w: seat price must be positive", ErrInvalidSeat)
	}

	return nil
}

// PriceTable holds the per seat type price of a showtime in minor currency units.
type PriceTable struct {
	Standard int64 `json:"standard"`
	VIP      int64 `json:"vip"`
	Couple   int64 `json:"couple"`
}

func DefaultPriceTable() PriceTable {
	return PriceTable{
		Standard: 100000,
		VIP:      150000,
		Couple:   200000,
	}
}

// WithDefaults fills unset prices from DefaultPriceTable.
func (p PriceTable) WithDefaults() PriceTable {
	d := DefaultPriceTable()

	if p.Standard <= 0 {
		p.Standard = d.Standard
	}
	if p.VIP <= 0 {
		p.VIP = d.VIP
	}
	if p.Couple <= 0 {
		p.Couple = d.Couple
	}

	return p
}

func (p PriceTable) PriceOf(t SeatType) int64 {
	switch t {
	case SeatTypeVIP:
		return p.VIP
	case SeatTypeCouple:
		return p.Couple
	default:
		return p.Standard
	}
}

// SeatTypeForRow assigns VIP to the front rows and couple to the back rows.
func SeatTypeForRow(rowIndex, rows int) SeatType {
	switch {
	case rowIndex < vipRows:
		return SeatTypeVIP
	case rows > vipRows+coupleRows && rowIndex >= rows-coupleRows:
		return SeatTypeCouple
	default:
		return SeatTypeStandard
	}
}

// GenerateSeatLayout builds a rows x cols grid labelled A.. with prices taken from the price table.
func GenerateSeatLayout(rows, cols int, prices PriceTable) [][]Seat {
	if rows <= 0 || rows > len(rowLabels) {
		rows = DefaultLayoutRows
	}
	if cols <= 0 {
		cols = DefaultLayoutCols
	}

	prices = prices.WithDefaults()
	layout := make([][]Seat, rows)

	for i := 0; i < rows; i++ {
		seatType := SeatTypeForRow(i, rows)
		row := make([]Seat, cols)

		for j := 0; j < cols; j++ {
			row[j] = Seat{
				Row:    string(rowLabels[i]),
				Number: j + 1,
				Type:   seatType,
				Price:  prices.PriceOf(seatType),
			}
		}

		layout[i] = row
	}

	return layout
}
