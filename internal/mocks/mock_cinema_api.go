package mocks

import (
	"context"

	"github.com/metinatakli/cinex-booking/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockCinemaAPI struct {
	mock.Mock
	domain.CinemaAPI
}

func (m *MockCinemaAPI) Login(ctx context.Context, email, password string) (*domain.Identity, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

func (m *MockCinemaAPI) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCinemaAPI) GetShowtime(ctx context.Context, id string) (*domain.Showtime, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Showtime), args.Error(1)
}

func (m *MockCinemaAPI) ListCombos(ctx context.Context) ([]domain.Combo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Combo), args.Error(1)
}

func (m *MockCinemaAPI) CreateBooking(ctx context.Context, req domain.BookingRequest, idempotencyKey string) (*domain.Booking, error) {
	args := m.Called(ctx, req, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockCinemaAPI) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockCinemaAPI) CancelBooking(ctx context.Context, id, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *MockCinemaAPI) CreatePaymentIntent(
	ctx context.Context,
	bookingID string,
	amount int64,
	method domain.PaymentMethod) (*domain.PaymentIntent, error) {

	args := m.Called(ctx, bookingID, amount, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentIntent), args.Error(1)
}

func (m *MockCinemaAPI) ConfirmPayment(ctx context.Context, bookingID, intentID string) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockCinemaAPI) GetCrowdPrediction(ctx context.Context, showtimeID string) (*domain.CrowdPrediction, error) {
	args := m.Called(ctx, showtimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CrowdPrediction), args.Error(1)
}
