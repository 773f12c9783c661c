package app

import (
	"errors"
	"net/http"

	"github.com/metinatakli/cinex-booking/api"
	"github.com/metinatakli/cinex-booking/internal/domain"
	"github.com/metinatakli/cinex-booking/internal/gateway"
	appvalidator "github.com/metinatakli/cinex-booking/internal/validator"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

func toApiUser(identity domain.Identity) api.UserResponse {
	return api.UserResponse{
		User: api.User{
			Id:       identity.UserID,
			Email:    identity.Email,
			FullName: identity.FullName,
			Role:     identity.Role,
		},
	}
}

func (app *Application) Login(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	if identity, ok := app.sessionIdentity(r.Context()); ok {
		err := app.writeJSON(w, http.StatusOK, toApiUser(identity), nil)
		if err != nil {
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	var input api.LoginRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		if errors.Is(err, openapi_types.ErrValidationEmail) {
			app.validationErrorResponse(w, r, []api.ValidationError{{Field: "email", Issue: appvalidator.ErrInvalidEmail}})
			return
		}
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	identity, err := app.cinema.Login(r.Context(), string(input.Email), input.Password)
	if err != nil {
		switch {
		case errors.Is(err, gateway.ErrUnauthorized):
			logger.Warn("login rejected by cinema API")
			app.invalidCredentialsResponse(w, r)
		default:
			app.handleError(w, r, err)
		}

		return
	}

	oldSessionId := app.sessionManager.Token(r.Context())

	// To help prevent session fixation attacks we should renew the session token after any privilege level change.
	// https://github.com/OWASP/CheatSheetSeries/blob/master/cheatsheets/Session_Management_Cheat_Sheet.md#renew-the-session-id-after-any-privilege-level-change
	err = app.sessionManager.RenewToken(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	newSessionId := app.sessionManager.Token(r.Context())
	err = app.migrateSessionData(r.Context(), oldSessionId, newSessionId)
	if err != nil {
		logger.Error(
			"failed to migrate session data",
			"error", err,
			"oldSessionId", oldSessionId,
			"newSessionId", newSessionId,
		)
	}

	app.putIdentity(r.Context(), *identity)

	err = app.writeJSON(w, http.StatusOK, toApiUser(*identity), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) Logout(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	if _, ok := app.sessionIdentity(r.Context()); !ok {
		app.notFoundResponse(w, r)
		return
	}

	err := app.cinema.Logout(app.upstreamContext(r))
	if err != nil {
		logger.Warn("cinema API logout failed", "error", err)
	}

	err = app.discardCheckout(r.Context(), app.sessionManager.Token(r.Context()))
	if err != nil {
		logger.Error("failed to discard checkout on logout", "error", err)
	}

	err = app.sessionManager.Destroy(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
