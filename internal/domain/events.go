package domain

import (
	"context"
	"time"
)

type BookingEventType string

const (
	BookingEventSubmitted BookingEventType = "booking.submitted"
	BookingEventConfirmed BookingEventType = "booking.confirmed"
	BookingEventCancelled BookingEventType = "booking.cancelled"
)

type BookingEvent struct {
	Type        BookingEventType `json:"type"`
	BookingID   string           `json:"bookingId"`
	ShowtimeID  string           `json:"showtimeId,omitempty"`
	UserID      string           `json:"userId,omitempty"`
	TotalAmount int64            `json:"totalAmount"`
	Reason      string           `json:"reason,omitempty"`
	OccurredAt  time.Time        `json:"occurredAt"`
}

type BookingEventPublisher interface {
	Publish(ctx context.Context, event BookingEvent) error
	Close() error
}
