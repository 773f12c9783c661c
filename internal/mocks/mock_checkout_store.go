package mocks

import (
	"context"

	"github.com/metinatakli/cinex-booking/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockCheckoutStore struct {
	mock.Mock
	domain.CheckoutStore
}

func (m *MockCheckoutStore) Get(ctx context.Context, sessionID string) (*domain.Checkout, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Checkout), args.Error(1)
}

// Update applies fn to the checkout given in Return, or to a new checkout when none is given.
func (m *MockCheckoutStore) Update(
	ctx context.Context,
	sessionID string,
	fn func(*domain.Checkout) error) (*domain.Checkout, error) {

	args := m.Called(ctx, sessionID, fn)
	if err := args.Error(1); err != nil {
		return nil, err
	}

	checkout, _ := args.Get(0).(*domain.Checkout)
	if checkout == nil {
		checkout = domain.NewCheckout()
	}

	if err := fn(checkout); err != nil {
		return nil, err
	}

	return checkout, nil
}

func (m *MockCheckoutStore) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockCheckoutStore) Migrate(ctx context.Context, oldSessionID, newSessionID string) error {
	args := m.Called(ctx, oldSessionID, newSessionID)
	return args.Error(0)
}
