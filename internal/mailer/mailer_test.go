package mailer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatVND(t *testing.T) {
	tests := map[int64]string{
		0:        "0 ₫",
		999:      "999 ₫",
		1000:     "1.000 ₫",
		378000:   "378.000 ₫",
		12345678: "12.345.678 ₫",
		-64000:   "-64.000 ₫",
	}

	for in, want := range tests {
		assert.Equal(t, want, formatVND(in))
	}
}

func TestRenderBookingConfirmed(t *testing.T) {
	data := map[string]any{
		"FullName":    "An Nguyen",
		"BookingCode": "CX123",
		"MovieTitle":  "Dune: Part Two",
		"CinemaName":  "CineX Landmark",
		"Seats":       []string{"D4", "D5"},
		"TotalAmount": int64(378000),
	}

	msg, err := render("CineX <no-reply@cinex.vn>", "an@example.com", "booking_confirmed.tmpl", data)
	require.NoError(t, err)

	assert.Equal(t, []string{"Your CineX tickets for Dune: Part Two"}, msg.GetHeader("Subject"))
	assert.Equal(t, []string{"an@example.com"}, msg.GetHeader("To"))

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)

	body := buf.String()
	assert.True(t, strings.Contains(body, "CX123"))
	assert.True(t, strings.Contains(body, "D4, D5"))
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := render("a@b.c", "d@e.f", "missing.tmpl", nil)
	assert.Error(t, err)
}

func TestRecordingMailerRecordsMessages(t *testing.T) {
	m := NewRecordingMailer("CineX <no-reply@cinex.vn>", nil)

	data := map[string]any{
		"FullName":    "An Nguyen",
		"BookingCode": "CX123",
		"MovieTitle":  "Dune: Part Two",
		"Seats":       []string{"D4"},
		"TotalAmount": int64(100000),
	}

	require.NoError(t, m.Send("an@example.com", "booking_confirmed.tmpl", data))

	sent := m.Messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "an@example.com", sent[0].Recipient)
	assert.Equal(t, "Your CineX tickets for Dune: Part Two", sent[0].Subject)

	m.Reset()
	assert.Empty(t, m.Messages())
}

func TestRecordingMailerRejectsUnknownTemplate(t *testing.T) {
	m := NewRecordingMailer("a@b.c", nil)

	assert.Error(t, m.Send("d@e.f", "missing.tmpl", nil))
	assert.Empty(t, m.Messages())
}
