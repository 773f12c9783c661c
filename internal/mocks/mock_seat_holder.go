package mocks

import (
	"context"

	"github.com/metinatakli/cinex-booking/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockSeatHolder struct {
	mock.Mock
	domain.SeatHolder
}

func (m *MockSeatHolder) Hold(ctx context.Context, showtimeID string, seat domain.SeatKey, sessionID string) error {
	args := m.Called(ctx, showtimeID, seat, sessionID)
	return args.Error(0)
}

func (m *MockSeatHolder) Release(ctx context.Context, showtimeID string, seats []domain.SeatKey, sessionID string) error {
	args := m.Called(ctx, showtimeID, seats, sessionID)
	return args.Error(0)
}

func (m *MockSeatHolder) Transfer(ctx context.Context, showtimeID string, seats []domain.SeatKey, from, to string) error {
	args := m.Called(ctx, showtimeID, seats, from, to)
	return args.Error(0)
}

func (m *MockSeatHolder) Held(ctx context.Context, showtimeID string) (map[domain.SeatKey]string, error) {
	args := m.Called(ctx, showtimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.SeatKey]string), args.Error(1)
}
