package mocks

import (
	"context"
	"time"

	"github.com/metinatakli/cinex-booking/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockDeadlineRepo struct {
	mock.Mock
	domain.PaymentDeadlineRepository
}

func (m *MockDeadlineRepo) Create(ctx context.Context, deadline *domain.PaymentDeadline) error {
	args := m.Called(ctx, deadline)
	return args.Error(0)
}

func (m *MockDeadlineRepo) GetByBookingID(ctx context.Context, bookingID string) (*domain.PaymentDeadline, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentDeadline), args.Error(1)
}

func (m *MockDeadlineRepo) UpdateStatus(
	ctx context.Context,
	bookingID string,
	status domain.DeadlineStatus,
	from ...domain.DeadlineStatus) error {

	args := m.Called(ctx, bookingID, status, from)
	return args.Error(0)
}

func (m *MockDeadlineRepo) ClaimExpired(ctx context.Context, now time.Time, limit int) ([]domain.PaymentDeadline, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentDeadline), args.Error(1)
}
