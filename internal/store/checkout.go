package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/metinatakli/cinex-booking/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultCheckoutTTL = 20 * time.Minute

	maxUpdateRetries = 3
)

// CheckoutStore keeps one checkout per session as a JSON document in redis.
type CheckoutStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ domain.CheckoutStore = (*CheckoutStore)(nil)

func NewCheckoutStore(client redis.UniversalClient, ttl time.Duration) *CheckoutStore {
	if ttl <= 0 {
		ttl = DefaultCheckoutTTL
	}

	return &CheckoutStore{client: client, ttl: ttl}
}

func (s *CheckoutStore) Get(ctx context.Context, sessionID string) (*domain.Checkout, error) {
	data, err := s.client.Get(ctx, checkoutKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get checkout for session: %w", err)
	}

	return decodeCheckout(data)
}

// Update applies fn inside an optimistic transaction. A concurrent write to the same checkout
// makes the transaction fail and fn is re-run on the fresh state.
func (s *CheckoutStore) Update(ctx context.Context, sessionID string, fn func(*domain.Checkout) error) (*domain.Checkout, error) {
	key := checkoutKey(sessionID)

	var updated *domain.Checkout

	txf := func(tx *redis.Tx) error {
		checkout, err := s.load(ctx, tx, key)
		if err != nil {
			return err
		}

		if err := fn(checkout); err != nil {
			return err
		}

		data, err := json.Marshal(checkout)
		if err != nil {
			return fmt.Errorf("failed to encode checkout: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}

		updated = checkout
		return nil
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}

		return nil, err
	}

	return nil, domain.ErrEditConflict
}

func (s *CheckoutStore) load(ctx context.Context, tx *redis.Tx, key string) (*domain.Checkout, error) {
	data, err := tx.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.NewCheckout(), nil
		}
		return nil, fmt.Errorf("failed to get checkout: %w", err)
	}

	return decodeCheckout(data)
}

func (s *CheckoutStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, checkoutKey(sessionID)).Err()
}

// Migrate moves the checkout of the old session to the new one, keeping its remaining TTL
// plus a small grace period.
// The two session keys are watched in one transaction, so they must live on the same node.
func (s *CheckoutStore) Migrate(ctx context.Context, oldSessionID, newSessionID string) error {
	oldKey := checkoutKey(oldSessionID)
	newKey := checkoutKey(newSessionID)

	return s.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, oldKey).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return nil
			}
			return fmt.Errorf("failed to get checkout for session %s: %w", oldSessionID, err)
		}

		ttl, err := tx.TTL(ctx, oldKey).Result()
		if err != nil {
			return fmt.Errorf("failed to get TTL of checkout for session %s: %w", oldSessionID, err)
		}

		if ttl <= 0 {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, newKey, data, ttl+3*time.Minute)
			pipe.Del(ctx, oldKey)
			return nil
		})

		return err
	}, oldKey, newKey)
}

func decodeCheckout(data []byte) (*domain.Checkout, error) {
	var checkout domain.Checkout
	if err := json.Unmarshal(data, &checkout); err != nil {
		return nil, fmt.Errorf("failed to decode checkout: %w", err)
	}

	return &checkout, nil
}
