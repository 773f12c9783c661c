package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/metinatakli/cinex-booking/internal/domain"
)

var _ domain.CinemaAPI = (*Client)(nil)

func (c *Client) Login(ctx context.Context, email, password string) (*domain.Identity, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &resp, nil)
	if err != nil {
		return nil, err
	}

	if resp.Token == "" {
		return nil, fmt.Errorf("login: upstream returned no token")
	}

	return &domain.Identity{
		Token:    resp.Token,
		UserID:   resp.User.ID,
		Email:    resp.User.Email,
		FullName: resp.User.FullName,
		Role:     resp.User.Role,
	}, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

func (c *Client) GetShowtime(ctx context.Context, id string) (*domain.Showtime, error) {
	var resp showtimeResponse
	if err := c.do(ctx, http.MethodGet, "/showtimes/"+url.PathEscape(id), nil, &resp, nil); err != nil {
		return nil, err
	}

	return resp.Showtime.toDomain()
}

func (c *Client) ListCombos(ctx context.Context) ([]domain.Combo, error) {
	var resp combosResponse
	if err := c.do(ctx, http.MethodGet, "/combos", nil, &resp, nil); err != nil {
		return nil, err
	}

	combos := make([]domain.Combo, 0, len(resp.Combos))
	for _, dto := range resp.Combos {
		combo, err := dto.toDomain()
		if err != nil {
			return nil, fmt.Errorf("combo %s: %w", dto.ID, err)
		}
		combos = append(combos, combo)
	}

	return combos, nil
}

// CreateBooking submits a booking. The idempotency key lets the upstream drop a retried submission.
func (c *Client) CreateBooking(ctx context.Context, req domain.BookingRequest, idempotencyKey string) (*domain.Booking, error) {
	header := http.Header{}
	if idempotencyKey != "" {
		header.Set(headerIdempotencyKey, idempotencyKey)
	}

	var resp bookingResponse
	if err := c.do(ctx, http.MethodPost, "/bookings", newCreateBookingRequest(req), &resp, header); err != nil {
		return nil, err
	}

	return resp.Booking.toDomain()
}

func (c *Client) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	var resp bookingResponse
	if err := c.do(ctx, http.MethodGet, "/bookings/"+url.PathEscape(id), nil, &resp, nil); err != nil {
		return nil, err
	}

	return resp.Booking.toDomain()
}

func (c *Client) CancelBooking(ctx context.Context, id, reason string) error {
	path := fmt.Sprintf("/bookings/%s/cancel", url.PathEscape(id))
	return c.do(ctx, http.MethodPut, path, cancelBookingRequest{Reason: reason}, nil, nil)
}

func (c *Client) CreatePaymentIntent(ctx context.Context, bookingID string, amount int64, method domain.PaymentMethod) (*domain.PaymentIntent, error) {
	req := createIntentRequest{BookingID: bookingID, Amount: amount, Method: string(method)}

	var resp createIntentResponse
	if err := c.do(ctx, http.MethodPost, "/payments/create-intent", req, &resp, nil); err != nil {
		return nil, err
	}

	return &domain.PaymentIntent{
		ID:        resp.PaymentIntentID,
		BookingID: bookingID,
		Amount:    amount,
		Method:    method,
	}, nil
}

// ConfirmPayment confirms the intent and returns the booking as it stands afterwards.
func (c *Client) ConfirmPayment(ctx context.Context, bookingID, paymentIntentID string) (*domain.Booking, error) {
	req := confirmPaymentRequest{BookingID: bookingID, PaymentIntentID: paymentIntentID}
	if err := c.do(ctx, http.MethodPost, "/payments/confirm", req, nil, nil); err != nil {
		return nil, err
	}

	return c.GetBooking(ctx, bookingID)
}

func (c *Client) GetCrowdPrediction(ctx context.Context, showtimeID string) (*domain.CrowdPrediction, error) {
	var resp crowdResponse
	path := "/crowd-prediction/showtime/" + url.PathEscape(showtimeID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp, nil); err != nil {
		return nil, err
	}

	occupancy := resp.OccupancyPercentage.InexactFloat64()

	// the level predicted upstream wins, thresholds only fill in when it is missing
	level := domain.CrowdLevel(strings.ToLower(strings.TrimSpace(resp.OccupancyLevel)))
	if !level.Valid() {
		level = domain.CrowdLevelFor(occupancy)
	}

	return &domain.CrowdPrediction{
		ShowtimeID:          showtimeID,
		OccupancyPercentage: occupancy,
		Level:               level,
	}, nil
}
