package integration_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

type fakeSeat struct {
	Row    string `json:"row"`
	Number int    `json:"number"`
}

type fakeBooking struct {
	ID           string     `json:"_id"`
	BookingCode  string     `json:"bookingCode"`
	Showtime     string     `json:"showtime"`
	Status       string     `json:"status"`
	TotalAmount  int64      `json:"totalAmount"`
	Seats        []fakeSeat `json:"seats"`
	CreatedAt    time.Time  `json:"createdAt"`
	CancelReason string     `json:"-"`
}

// fakeCinema is an in-memory stand-in for the upstream cinema REST API.
type fakeCinema struct {
	server *httptest.Server

	mu          sync.Mutex
	seq         int
	bookings    map[string]*fakeBooking
	idempotency map[string]string
	intents     map[string]string
	createCalls int
}

func newFakeCinema() *fakeCinema {
	f := &fakeCinema{}
	f.Reset()

	r := chi.NewRouter()
	r.Post("/auth/login", f.login)
	r.Post("/auth/logout", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	r.Get("/showtimes/{id}", f.showtime)
	r.Get("/combos", f.combos)
	r.Get("/crowd-prediction/showtime/{id}", f.crowd)

	r.Group(func(r chi.Router) {
		r.Use(f.requireToken)
		r.Post("/bookings", f.createBooking)
		r.Get("/bookings/{id}", f.getBooking)
		r.Put("/bookings/{id}/cancel", f.cancelBooking)
		r.Post("/payments/create-intent", f.createIntent)
		r.Post("/payments/confirm", f.confirmPayment)
	})

	f.server = httptest.NewServer(r)

	return f
}

func (f *fakeCinema) URL() string {
	return f.server.URL
}

func (f *fakeCinema) Close() {
	f.server.Close()
}

func (f *fakeCinema) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.bookings = make(map[string]*fakeBooking)
	f.idempotency = make(map[string]string)
	f.intents = make(map[string]string)
	f.createCalls = 0
}

func (f *fakeCinema) booking(id string) fakeBooking {
	f.mu.Lock()
	defer f.mu.Unlock()

	if b, ok := f.bookings[id]; ok {
		return *b
	}

	return fakeBooking{}
}

// sellAtCounter books seats upstream without going through this service.
func (f *fakeCinema) sellAtCounter(seats ...fakeSeat) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	id := fmt.Sprintf("bk-%d", f.seq)
	f.bookings[id] = &fakeBooking{ID: id, Showtime: TestShowtimeId, Status: "confirmed", Seats: seats}
}

func (f *fakeCinema) bookingCreations() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.createCalls
}

func writeFake(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeCinema) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token != TestUserToken && token != TestServiceToken {
			writeFake(w, http.StatusUnauthorized, map[string]string{"message": "Not authorized"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (f *fakeCinema) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)

	if in.Email != TestUserEmail || in.Password != TestUserPassword {
		writeFake(w, http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})
		return
	}

	writeFake(w, http.StatusOK, map[string]any{
		"token": TestUserToken,
		"user": map[string]string{
			"_id":      TestUserId,
			"email":    TestUserEmail,
			"fullName": TestUserFullName,
			"role":     "customer",
		},
	})
}

// bookedSeats returns the seats taken by pending and confirmed bookings plus A1, which is
// sold at the box office.
func (f *fakeCinema) bookedSeats() []fakeSeat {
	booked := []fakeSeat{{Row: "A", Number: 1}}

	for _, b := range f.bookings {
		if b.Status == "cancelled" {
			continue
		}
		booked = append(booked, b.Seats...)
	}

	return booked
}

func (f *fakeCinema) showtime(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "id") != TestShowtimeId {
		writeFake(w, http.StatusNotFound, map[string]string{"message": "Showtime not found"})
		return
	}

	f.mu.Lock()
	booked := f.bookedSeats()
	f.mu.Unlock()

	writeFake(w, http.StatusOK, map[string]any{
		"showtime": map[string]any{
			"_id":       TestShowtimeId,
			"movie":     map[string]string{"_id": "mv-1", "title": TestMovieTitle},
			"cinema":    map[string]string{"_id": "cn-1", "name": TestCinemaName},
			"room":      map[string]any{"_id": "rm-1", "name": "Room 1", "rows": 10, "seatsPerRow": 12},
			"startTime": "2026-10-20T19:30:00Z",
			"price": map[string]any{
				"standard": TestSeatPrice,
				"vip":      TestVipPrice,
				"couple":   TestCouplePrice,
			},
			"bookedSeats": booked,
		},
	})
}

func (f *fakeCinema) combos(w http.ResponseWriter, _ *http.Request) {
	writeFake(w, http.StatusOK, map[string]any{
		"combos": []map[string]any{
			{
				"_id":       TestComboId,
				"name":      "Popcorn + Coke",
				"price":     TestComboPrice,
				"items":     []map[string]any{{"name": "Popcorn", "quantity": 1}, {"name": "Coke", "quantity": 2}},
				"available": true,
			},
			{
				"_id":       "combo-2",
				"name":      "Nachos",
				"price":     "65000.00",
				"available": false,
			},
		},
	})
}

func (f *fakeCinema) crowd(w http.ResponseWriter, r *http.Request) {
	writeFake(w, http.StatusOK, map[string]any{
		"showtimeId":          chi.URLParam(r, "id"),
		"occupancyPercentage": "67.5",
		"occupancyLevel":      "medium",
	})
}

func (f *fakeCinema) createBooking(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ShowtimeID  string     `json:"showtimeId"`
		Seats       []fakeSeat `json:"seats"`
		TotalAmount int64      `json:"totalAmount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeFake(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.createCalls++

	key := r.Header.Get("Idempotency-Key")
	if id, ok := f.idempotency[key]; ok && key != "" {
		writeFake(w, http.StatusCreated, map[string]any{"booking": f.bookings[id]})
		return
	}

	for _, taken := range f.bookedSeats() {
		for _, s := range in.Seats {
			if s == taken {
				writeFake(w, http.StatusConflict, map[string]string{
					"message": fmt.Sprintf("Seat %s%d is already booked", s.Row, s.Number),
				})
				return
			}
		}
	}

	f.seq++
	b := &fakeBooking{
		ID:          fmt.Sprintf("bk-%d", f.seq),
		BookingCode: fmt.Sprintf("CX%04d", f.seq),
		Showtime:    in.ShowtimeID,
		Status:      "pending",
		TotalAmount: in.TotalAmount,
		Seats:       in.Seats,
		CreatedAt:   time.Now().UTC(),
	}

	f.bookings[b.ID] = b
	if key != "" {
		f.idempotency[key] = b.ID
	}

	writeFake(w, http.StatusCreated, map[string]any{"booking": b})
}

func (f *fakeCinema) getBooking(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	b, ok := f.bookings[chi.URLParam(r, "id")]
	var out fakeBooking
	if ok {
		out = *b
	}
	f.mu.Unlock()

	if !ok {
		writeFake(w, http.StatusNotFound, map[string]string{"message": "Booking not found"})
		return
	}

	writeFake(w, http.StatusOK, map[string]any{"booking": out})
}

func (f *fakeCinema) cancelBooking(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Reason string `json:"reason"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)

	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[chi.URLParam(r, "id")]
	if !ok {
		writeFake(w, http.StatusNotFound, map[string]string{"message": "Booking not found"})
		return
	}

	if b.Status != "pending" {
		writeFake(w, http.StatusConflict, map[string]string{"message": "Booking can not be cancelled"})
		return
	}

	b.Status = "cancelled"
	b.CancelReason = in.Reason

	writeFake(w, http.StatusOK, map[string]any{"booking": b})
}

func (f *fakeCinema) createIntent(w http.ResponseWriter, r *http.Request) {
	var in struct {
		BookingID string `json:"bookingId"`
		Amount    int64  `json:"amount"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)

	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[in.BookingID]
	if !ok {
		writeFake(w, http.StatusNotFound, map[string]string{"message": "Booking not found"})
		return
	}

	if in.Amount != b.TotalAmount {
		writeFake(w, http.StatusBadRequest, map[string]string{"message": "Amount mismatch"})
		return
	}

	id := fmt.Sprintf("pi-%s", b.ID)
	f.intents[id] = b.ID

	writeFake(w, http.StatusOK, map[string]string{"paymentIntentId": id})
}

func (f *fakeCinema) confirmPayment(w http.ResponseWriter, r *http.Request) {
	var in struct {
		BookingID       string `json:"bookingId"`
		PaymentIntentID string `json:"paymentIntentId"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)

	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[in.BookingID]
	if !ok || f.intents[in.PaymentIntentID] != in.BookingID {
		writeFake(w, http.StatusNotFound, map[string]string{"message": "Payment intent not found"})
		return
	}

	if b.Status != "pending" {
		writeFake(w, http.StatusConflict, map[string]string{"message": "Booking is not pending"})
		return
	}

	b.Status = "confirmed"

	writeFake(w, http.StatusOK, map[string]any{"success": true})
}
