package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/metinatakli/cinex-booking/internal/domain"
	"github.com/stretchr/testify/require"
)

var keysToIgnore = map[string]struct{}{
	"timestamp":        {},
	"requestId":        {},
	"createdAt":        {},
	"id":               {},
	"paymentDeadline":  {},
	"remainingSeconds": {},
	"startTime":        {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string, cookies []*http.Cookie) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	for _, c := range cookies {
		req.AddCookie(c)
	}

	return req, nil
}

func compareResponse(t testing.TB, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	cleanMap(actual)

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore indeterministic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		_, ok := keysToIgnore[k]
		return ok
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func cleanMap(m map[string]any) {
	for k := range m {
		if _, ok := keysToIgnore[k]; ok {
			delete(m, k)
			continue
		}

		switch v := m[k].(type) {
		case map[string]any:
			cleanMap(v)
		case []any:
			for _, item := range v {
				if nested, ok := item.(map[string]any); ok {
					cleanMap(nested)
				}
			}
		}
	}
}

type browser struct {
	handler http.Handler
	cookies []*http.Cookie
}

func (b *browser) serve(req *http.Request) *http.Response {
	rec := httptest.NewRecorder()
	b.handler.ServeHTTP(rec, req)

	res := rec.Result()
	b.remember(res.Cookies())

	return res
}

func (b *browser) remember(cookies []*http.Cookie) {
	for _, c := range cookies {
		replaced := false
		for i, existing := range b.cookies {
			if existing.Name == c.Name {
				b.cookies[i] = c
				replaced = true
			}
		}
		if !replaced {
			b.cookies = append(b.cookies, c)
		}
	}
}

// do sends a request with the browser's cookies and decodes a JSON response into out when
// out is non nil.
func (b *browser) do(t testing.TB, method, path, body string, out any) int {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := prepareRequest(method, path, reader, nil, b.cookies)
	require.NoError(t, err)

	res := b.serve(req)
	defer res.Body.Close()

	if out != nil && res.StatusCode < http.StatusBadRequest {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}

	return res.StatusCode
}

func (b *browser) sessionID() string {
	for _, c := range b.cookies {
		if c.Name == sessionCookieName {
			return c.Value
		}
	}

	return ""
}

// login signs the browser in with the test user.
func (b *browser) login(t testing.TB) {
	t.Helper()

	body := `{"email":"` + TestUserEmail + `","password":"` + TestUserPassword + `"}`
	require.Equal(t, http.StatusOK, b.do(t, http.MethodPost, "/auth/login", body, nil))
}

// readyForPayment fills a cart with the given seats and one combo and walks it to the last step.
func (b *browser) readyForPayment(t testing.TB, seats ...domain.SeatKey) {
	t.Helper()

	require.Equal(t, http.StatusOK, b.do(t, http.MethodPut, "/cart/showtime", `{"showtimeId":"`+TestShowtimeId+`"}`, nil))

	for _, seat := range seats {
		body, err := json.Marshal(seat)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, b.do(t, http.MethodPost, "/cart/seats", string(body), nil))
	}

	require.Equal(t, http.StatusOK, b.do(t, http.MethodPost, "/cart/step/next", "", nil))
	require.Equal(t, http.StatusOK, b.do(t, http.MethodPost, "/cart/combos", `{"comboId":"`+TestComboId+`"}`, nil))
	require.Equal(t, http.StatusOK, b.do(t, http.MethodPost, "/cart/step/next", "", nil))
}

func deadlineStatus(t testing.TB, app *TestApp, bookingID string) domain.DeadlineStatus {
	t.Helper()

	var status string
	err := app.DB.QueryRow(context.Background(),
		"SELECT status FROM payment_deadlines WHERE booking_id = $1", bookingID).Scan(&status)
	require.NoError(t, err)

	return domain.DeadlineStatus(status)
}
