package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/cinex-booking/api"
	"github.com/metinatakli/cinex-booking/internal/domain"
	"github.com/metinatakli/cinex-booking/internal/gateway"
	"github.com/metinatakli/cinex-booking/internal/ticket"
	appvalidator "github.com/metinatakli/cinex-booking/internal/validator"
)

func (app *Application) logError(r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.contextGetLogger(r).Error(err.Error(), "method", method, "uri", uri)
}

// The errorResponse() method is a generic helper for sending JSON-formatted error
// messages to the client with a given status code.
func (app *Application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	resp := api.ErrorResponse{
		Message:   message,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	message := "The server encountered a problem and could not process your request"
	app.errorResponse(w, r, http.StatusInternalServerError, message)
}

func (app *Application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "The requested resource not found"
	app.errorResponse(w, r, http.StatusNotFound, message)
}

func (app *Application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	message := fmt.Sprintf("The %s method is not supported for this resource", r.Method)
	app.errorResponse(w, r, http.StatusMethodNotAllowed, message)
}

func (app *Application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *Application) editConflictResponse(w http.ResponseWriter, r *http.Request) {
	message := "Unable to update the record due to an edit conflict, please try again"
	app.errorResponse(w, r, http.StatusConflict, message)
}

func (app *Application) editConflictResponseWithErr(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusConflict, err.Error())
}

func (app *Application) unauthorizedAccessResponse(w http.ResponseWriter, r *http.Request) {
	message := "You must be authenticated to access this resource"
	app.errorResponse(w, r, http.StatusUnauthorized, message)
}

func (app *Application) invalidCredentialsResponse(w http.ResponseWriter, r *http.Request) {
	message := "Invalid authentication credentials"
	app.errorResponse(w, r, http.StatusUnauthorized, message)
}

func (app *Application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		app.badRequestResponse(w, r, err)
		return
	}

	details := make([]api.ValidationError, len(validationErrors))
	for i, fieldErr := range validationErrors {
		details[i] = api.ValidationError{
			Field: fieldErr.Field(),
			Issue: appvalidator.ValidationMessage(fieldErr),
		}
	}

	app.validationErrorResponse(w, r, details)
}

func (app *Application) validationErrorResponse(w http.ResponseWriter, r *http.Request, details []api.ValidationError) {
	resp := api.ValidationErrorResponse{
		Message:          "One or more fields are invalid",
		RequestId:        middleware.GetReqID(r.Context()),
		Timestamp:        time.Now(),
		ValidationErrors: details,
	}

	err := app.writeJSON(w, http.StatusUnprocessableEntity, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// handleError maps domain and cinema API errors to responses. Unknown errors are logged and
// reported as server errors.
func (app *Application) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *gateway.APIError

	switch {
	case errors.Is(err, domain.ErrCartNotFound),
		errors.Is(err, domain.ErrSeatNotFound),
		errors.Is(err, domain.ErrComboNotFound):
		app.errorResponse(w, r, http.StatusNotFound, err.Error())

	case errors.Is(err, domain.ErrRecordNotFound),
		errors.Is(err, gateway.ErrNotFound):
		app.notFoundResponse(w, r)

	case errors.Is(err, domain.ErrEditConflict):
		app.editConflictResponse(w, r)

	case errors.Is(err, domain.ErrInvalidStep),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrSeatAlreadyHeld),
		errors.Is(err, domain.ErrSeatAlreadyBooked),
		errors.Is(err, domain.ErrBookingNotPending),
		errors.Is(err, ticket.ErrNotConfirmed):
		app.editConflictResponseWithErr(w, r, err)

	case errors.Is(err, gateway.ErrConflict):
		app.errorResponse(w, r, http.StatusConflict, upstreamMessage(err, "The booking was changed by the cinema, please reload"))

	case errors.Is(err, domain.ErrPaymentExpired):
		app.errorResponse(w, r, http.StatusGone, err.Error())

	case errors.Is(err, domain.ErrNoShowtime),
		errors.Is(err, domain.ErrInvalidSeat),
		errors.Is(err, domain.ErrSeatAlreadySelected),
		errors.Is(err, domain.ErrSeatLimitReached),
		errors.Is(err, domain.ErrInvalidCombo),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrNoSeatsSelected),
		errors.Is(err, domain.ErrComboUnavailable):
		app.errorResponse(w, r, http.StatusUnprocessableEntity, err.Error())

	case errors.Is(err, gateway.ErrUnauthorized):
		app.unauthorizedAccessResponse(w, r)

	case errors.As(err, &apiErr), errors.Is(err, gateway.ErrInvalidMoney):
		app.logError(r, err)
		app.errorResponse(w, r, http.StatusBadGateway, "The cinema service could not process the request")

	default:
		app.serverErrorResponse(w, r, err)
	}
}

func upstreamMessage(err error, fallback string) string {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	return fallback
}
