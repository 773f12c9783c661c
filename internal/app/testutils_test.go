package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/metinatakli/cinex-booking/api"
	"github.com/metinatakli/cinex-booking/internal/domain"
	"github.com/metinatakli/cinex-booking/internal/mailer"
	"github.com/metinatakli/cinex-booking/internal/mocks"
	"github.com/metinatakli/cinex-booking/internal/ticket"
	"github.com/metinatakli/cinex-booking/internal/validator"
)

const (
	testShowtimeID = "st-1"
	testBookingID  = "bk-1"
	testUserID     = "user-1"
)

var testIdentity = domain.Identity{
	Token:    "upstream-token",
	UserID:   testUserID,
	Email:    "an@example.com",
	FullName: "An Nguyen",
	Role:     "customer",
}

// testDeps bundles the mocks behind a test application.
type testDeps struct {
	cinema    *mocks.MockCinemaAPI
	checkouts *mocks.MockCheckoutStore
	seats     *mocks.MockSeatHolder
	deadlines *mocks.MockDeadlineRepo
	events    *mocks.MockPublisher
	mailer    *mailer.RecordingMailer
}

func newTestDeps() *testDeps {
	return &testDeps{
		cinema:    new(mocks.MockCinemaAPI),
		checkouts: new(mocks.MockCheckoutStore),
		seats:     new(mocks.MockSeatHolder),
		deadlines: new(mocks.MockDeadlineRepo),
		events:    new(mocks.MockPublisher),
		mailer:    mailer.NewRecordingMailer("CineX <no-reply@cinex.vn>", nil),
	}
}

func newTestApplication(deps *testDeps) *Application {
	cfg := Config{
		Env:     "test",
		Cart:    CartConfig{TTL: 20 * time.Minute},
		Payment: PaymentConfig{Timeout: domain.DefaultPaymentTimeout},
	}

	return NewApp(
		cfg,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		nil,
		nil,
		validator.NewValidator(),
		deps.mailer,
		scs.New(),
		deps.cinema,
		deps.checkouts,
		deps.seats,
		deps.deadlines,
		deps.events,
		ticket.NewQRGenerator(0),
	)
}

func (d *testDeps) assertExpectations(t *testing.T) {
	d.cinema.AssertExpectations(t)
	d.checkouts.AssertExpectations(t)
	d.seats.AssertExpectations(t)
	d.deadlines.AssertExpectations(t)
	d.events.AssertExpectations(t)
}

// setupTestSession loads a committed session into the request context and returns its token.
// A non-nil identity signs the session in.
func setupTestSession(t *testing.T, app *Application, r *http.Request, identity *domain.Identity) (*http.Request, string) {
	ctx, err := app.sessionManager.Load(r.Context(), "")
	if err != nil {
		t.Fatalf("Failed to load session: %v", err)
	}

	app.sessionManager.Put(ctx, SessionKeyGuest.String(), true)

	if identity != nil {
		app.putIdentity(ctx, *identity)
	}

	token, _, err := app.sessionManager.Commit(ctx)
	if err != nil {
		t.Fatalf("Failed to commit session: %v", err)
	}

	r = r.WithContext(ctx)
	if identity != nil {
		r = app.contextSetIdentity(r, *identity)
	}

	return r, token
}

func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}

	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	var reader io.Reader

	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

// checkErrorResponse matches wantErrMessage against the message or, for validation errors,
// against one of the reported issues.
func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantErrMessage string) {
	t.Helper()

	if wantStatus >= 200 && wantStatus < 300 {
		return
	}

	var resp api.ValidationErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}

	if wantErrMessage == "" {
		return
	}

	if strings.Contains(resp.Message, wantErrMessage) {
		return
	}

	for _, vErr := range resp.ValidationErrors {
		if vErr.Issue == wantErrMessage {
			return
		}
	}

	t.Errorf("Error message %q with issues %v does not contain %q", resp.Message, resp.ValidationErrors, wantErrMessage)
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	return v
}

func testShowtime() *domain.Showtime {
	return &domain.Showtime{
		ID:          testShowtimeID,
		MovieTitle:  "Dune: Part Two",
		CinemaName:  "CineX Landmark",
		RoomName:    "Room 1",
		StartTime:   time.Date(2026, 10, 20, 19, 30, 0, 0, time.UTC),
		Prices:      domain.DefaultPriceTable(),
		Rows:        domain.DefaultLayoutRows,
		SeatsPerRow: domain.DefaultLayoutCols,
		BookedSeats: []domain.SeatKey{{Row: "A", Number: 1}},
	}
}

func testSeat(row string, number int) domain.Seat {
	seat, _ := testShowtime().SeatAt(domain.SeatKey{Row: row, Number: number})
	return seat
}

// checkoutAt builds a checkout for the test showtime at step with the given seats.
func checkoutAt(step domain.Step, seats ...domain.Seat) *domain.Checkout {
	c := domain.NewCheckout()
	c.SelectShowtime(*testShowtime())
	c.Cart.Seats = seats
	c.Step = step

	return c
}

func testCombos() []domain.Combo {
	return []domain.Combo{
		{ID: "combo-1", Name: "Popcorn + Coke", Price: 89000, Items: []string{"popcorn", "coke"}, Available: true},
		{ID: "combo-2", Name: "Nachos", Price: 65000, Available: false},
	}
}
