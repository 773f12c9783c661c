package ticket

import (
	"errors"

	"github.com/metinatakli/cinex-booking/internal/domain"
	"github.com/skip2/go-qrcode"
)

const DefaultSize = 200

var ErrNotConfirmed = errors.New("ticket is only available for confirmed bookings")

type QRGenerator struct {
	size int
}

func NewQRGenerator(size int) *QRGenerator {
	if size <= 0 {
		size = DefaultSize
	}

	return &QRGenerator{size: size}
}

// PNG renders the booking code, falling back to the booking id, as a QR code image.
func (q *QRGenerator) PNG(booking domain.Booking) ([]byte, error) {
	if booking.Status != domain.BookingStatusConfirmed {
		return nil, ErrNotConfirmed
	}

	return qrcode.Encode(Payload(booking), qrcode.Medium, q.size)
}

func Payload(booking domain.Booking) string {
	if booking.BookingCode != "" {
		return booking.BookingCode
	}

	return booking.ID
}
