package domain

import (
	"context"
	"time"
)

// DefaultPaymentTimeout is how long a submitted booking waits for payment before it is cancelled.
const DefaultPaymentTimeout = 600 * time.Second

type DeadlineStatus string

const (
	DeadlineStatusPending   DeadlineStatus = "pending"
	DeadlineStatusConfirmed DeadlineStatus = "confirmed"
	DeadlineStatusCancelled DeadlineStatus = "cancelled"
	DeadlineStatusExpired   DeadlineStatus = "expired"
)

// PaymentDeadline tracks the payment window of a submitted booking.
type PaymentDeadline struct {
	BookingID string
	SessionID string
	UserID    string
	Amount    int64
	Status    DeadlineStatus
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Remaining returns the time left to pay, never negative.
func (d PaymentDeadline) Remaining(now time.Time) time.Duration {
	if d.Status != DeadlineStatusPending {
		return 0
	}

	left := d.ExpiresAt.Sub(now)
	if left < 0 {
		return 0
	}

	return left
}

func (d PaymentDeadline) Expired(now time.Time) bool {
	return !now.Before(d.ExpiresAt)
}

type PaymentDeadlineRepository interface {
	Create(ctx context.Context, deadline *PaymentDeadline) error
	GetByBookingID(ctx context.Context, bookingID string) (*PaymentDeadline, error)
	// UpdateStatus only moves deadlines that are currently in one of the from statuses.
	UpdateStatus(ctx context.Context, bookingID string, status DeadlineStatus, from ...DeadlineStatus) error
	// ClaimExpired marks up to limit overdue pending deadlines as expired and returns them.
	ClaimExpired(ctx context.Context, now time.Time, limit int) ([]PaymentDeadline, error)
}
