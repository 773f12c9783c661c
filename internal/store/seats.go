package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/metinatakli/cinex-booking/internal/domain"
	"github.com/redis/go-redis/v9"
)

const errSeatHeld = "seat already held"

var holdSeatScript = redis.NewScript(`
	-- KEYS = [hold key, hold set key]
	-- ARGV = [sessionID, ttl, member]

	local owner = redis.call("GET", KEYS[1])
	if owner and owner ~= ARGV[1] then
		return {err = "seat already held"}
	end

	redis.call("SET", KEYS[1], ARGV[1], "EX", ARGV[2])
	redis.call("SADD", KEYS[2], ARGV[3])

	return "OK"
`)

var releaseSeatsScript = redis.NewScript(`
	-- KEYS = [hold set key, hold key...]
	-- ARGV = [sessionID, member...]

	local released = 0
	for i = 2, #KEYS do
		if redis.call("GET", KEYS[i]) == ARGV[1] then
			redis.call("DEL", KEYS[i])
			redis.call("SREM", KEYS[1], ARGV[i])
			released = released + 1
		end
	end

	return released
`)

// Cleans up expired holds and returns the live ones as a flat member, owner list.
var liveHoldsScript = redis.NewScript(`
	-- KEYS = [hold set key, hold key...]
	-- ARGV = [member...]

	local expired = {}
	local live = {}

	for i = 2, #KEYS do
		local member = ARGV[i - 1]
		local owner = redis.call("GET", KEYS[i])
		if owner then
			table.insert(live, member)
			table.insert(live, owner)
		else
			table.insert(expired, member)
		end
	end

	if #expired > 0 then
		redis.call("SREM", KEYS[1], unpack(expired))
	end

	return live
`)

// SeatHolder holds seats of a showtime for a session with a TTL.
type SeatHolder struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ domain.SeatHolder = (*SeatHolder)(nil)

func NewSeatHolder(client redis.UniversalClient, ttl time.Duration) *SeatHolder {
	if ttl <= 0 {
		ttl = DefaultCheckoutTTL
	}

	return &SeatHolder{client: client, ttl: ttl}
}

// Hold claims the seat for the session. Holding a seat the session already owns extends it.
func (h *SeatHolder) Hold(ctx context.Context, showtimeID string, seat domain.SeatKey, sessionID string) error {
	keys := []string{seatHoldKey(showtimeID, seat), seatHoldSetKey(showtimeID)}

	err := holdSeatScript.Run(ctx, h.client, keys, sessionID, int(h.ttl.Seconds()), seat.Member()).Err()
	if err != nil {
		if redis.HasErrorPrefix(err, errSeatHeld) {
			return domain.ErrSeatAlreadyHeld
		}
		return fmt.Errorf("failed to hold seat %s: %w", seat, err)
	}

	return nil
}

// Release drops the holds the session owns among seats; holds of other sessions are left alone.
func (h *SeatHolder) Release(ctx context.Context, showtimeID string, seats []domain.SeatKey, sessionID string) error {
	if len(seats) == 0 {
		return nil
	}

	keys := make([]string, 0, len(seats)+1)
	args := make([]interface{}, 0, len(seats)+1)

	keys = append(keys, seatHoldSetKey(showtimeID))
	args = append(args, sessionID)

	for _, seat := range seats {
		keys = append(keys, seatHoldKey(showtimeID, seat))
		args = append(args, seat.Member())
	}

	if err := releaseSeatsScript.Run(ctx, h.client, keys, args...).Err(); err != nil {
		return fmt.Errorf("failed to release seat holds: %w", err)
	}

	return nil
}

// Transfer re-keys holds from one session to another after a session token renewal.
func (h *SeatHolder) Transfer(ctx context.Context, showtimeID string, seats []domain.SeatKey, fromSessionID, toSessionID string) error {
	if len(seats) == 0 {
		return nil
	}

	keys := make([]string, len(seats))
	for i, seat := range seats {
		keys[i] = seatHoldKey(showtimeID, seat)
	}

	err := h.client.Watch(ctx, func(tx *redis.Tx) error {
		for _, key := range keys {
			owner, err := tx.Get(ctx, key).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				return err
			}

			if owner != "" && owner != fromSessionID {
				return domain.ErrSeatAlreadyHeld
			}
		}

		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for i, key := range keys {
				pipe.Set(ctx, key, toSessionID, h.ttl)
				pipe.SAdd(ctx, seatHoldSetKey(showtimeID), seats[i].Member())
			}
			return nil
		})

		return err
	}, keys...)

	if err != nil {
		return fmt.Errorf("failed to transfer seat holds from session %s to %s: %w", fromSessionID, toSessionID, err)
	}

	return nil
}

// Held returns the live holds of a showtime by owner session and prunes expired members.
func (h *SeatHolder) Held(ctx context.Context, showtimeID string) (map[domain.SeatKey]string, error) {
	setKey := seatHoldSetKey(showtimeID)

	members, err := h.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list seat holds: %w", err)
	}

	if len(members) == 0 {
		return map[domain.SeatKey]string{}, nil
	}

	keys := make([]string, 0, len(members)+1)
	args := make([]interface{}, 0, len(members))

	keys = append(keys, setKey)
	for _, member := range members {
		keys = append(keys, seatHoldMemberKey(showtimeID, member))
		args = append(args, member)
	}

	res, err := liveHoldsScript.Run(ctx, h.client, keys, args...).StringSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to read seat holds: %w", err)
	}

	held := make(map[domain.SeatKey]string, len(res)/2)
	for i := 0; i+1 < len(res); i += 2 {
		seat, err := domain.ParseSeatKey(res[i])
		if err != nil {
			continue
		}
		held[seat] = res[i+1]
	}

	return held, nil
}
