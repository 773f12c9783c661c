package store

import (
	"fmt"

	"github.com/metinatakli/cinex-booking/internal/domain"
)

func checkoutKey(sessionID string) string {
	return fmt.Sprintf("checkout:%s", sessionID)
}

// Seat hold keys of one showtime share the {showtimeID} hash tag so the hold scripts touch a
// single cluster slot.
func seatHoldKey(showtimeID string, seat domain.SeatKey) string {
	return seatHoldMemberKey(showtimeID, seat.Member())
}

func seatHoldMemberKey(showtimeID, member string) string {
	return fmt.Sprintf("seat_hold:{%s}:%s", showtimeID, member)
}

func seatHoldSetKey(showtimeID string) string {
	return fmt.Sprintf("seat_holds:{%s}", showtimeID)
}
