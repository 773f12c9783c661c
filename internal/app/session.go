package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/metinatakli/cinex-booking/internal/domain"
	"github.com/metinatakli/cinex-booking/internal/gateway"
)

type sessionKey string

const (
	SessionKeyGuest    = sessionKey("guest")
	SessionKeyToken    = sessionKey("token")
	SessionKeyUserId   = sessionKey("userID")
	SessionKeyEmail    = sessionKey("email")
	SessionKeyFullName = sessionKey("fullName")
	SessionKeyRole     = sessionKey("role")
)

func (s sessionKey) String() string {
	return string(s)
}

const identityContextKey = contextKey("identity")

func (app *Application) putIdentity(ctx context.Context, identity domain.Identity) {
	app.sessionManager.Put(ctx, SessionKeyToken.String(), identity.Token)
	app.sessionManager.Put(ctx, SessionKeyUserId.String(), identity.UserID)
	app.sessionManager.Put(ctx, SessionKeyEmail.String(), identity.Email)
	app.sessionManager.Put(ctx, SessionKeyFullName.String(), identity.FullName)
	app.sessionManager.Put(ctx, SessionKeyRole.String(), identity.Role)
}

// sessionIdentity reads the signed in user from the session. ok is false for guests.
func (app *Application) sessionIdentity(ctx context.Context) (domain.Identity, bool) {
	token := app.sessionManager.GetString(ctx, SessionKeyToken.String())
	if token == "" {
		return domain.Identity{}, false
	}

	return domain.Identity{
		Token:    token,
		UserID:   app.sessionManager.GetString(ctx, SessionKeyUserId.String()),
		Email:    app.sessionManager.GetString(ctx, SessionKeyEmail.String()),
		FullName: app.sessionManager.GetString(ctx, SessionKeyFullName.String()),
		Role:     app.sessionManager.GetString(ctx, SessionKeyRole.String()),
	}, true
}

func (app *Application) contextSetIdentity(r *http.Request, identity domain.Identity) *http.Request {
	ctx := context.WithValue(r.Context(), identityContextKey, identity)
	return r.WithContext(ctx)
}

func (app *Application) contextGetIdentity(r *http.Request) domain.Identity {
	identity, ok := r.Context().Value(identityContextKey).(domain.Identity)
	if !ok {
		panic("missing identity from context")
	}

	return identity
}

// upstreamContext carries the session's cinema API token, if any, for gateway calls.
func (app *Application) upstreamContext(r *http.Request) context.Context {
	token := app.sessionManager.GetString(r.Context(), SessionKeyToken.String())
	if token == "" {
		return r.Context()
	}

	return gateway.WithToken(r.Context(), token)
}

// migrateSessionData moves the checkout and its seat holds to a renewed session token.
func (app *Application) migrateSessionData(ctx context.Context, oldSessionId, newSessionId string) error {
	checkout, err := app.checkouts.Get(ctx, oldSessionId)
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get checkout for session %s: %w", oldSessionId, err)
	}

	if checkout.Cart.Showtime != nil && len(checkout.Cart.Seats) > 0 {
		err = app.seats.Transfer(ctx, checkout.Cart.Showtime.ID, checkout.Cart.SeatKeys(), oldSessionId, newSessionId)
		if err != nil {
			return fmt.Errorf(
				"failed to migrate seat holds from old session %s to new session %s: %w",
				oldSessionId,
				newSessionId,
				err)
		}
	}

	err = app.checkouts.Migrate(ctx, oldSessionId, newSessionId)
	if err != nil {
		return fmt.Errorf("failed to migrate checkout to session %s: %w", newSessionId, err)
	}

	return nil
}

// discardCheckout releases the session's seat holds and deletes its checkout.
func (app *Application) discardCheckout(ctx context.Context, sessionID string) error {
	checkout, err := app.checkouts.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return nil
		}
		return err
	}

	if checkout.Cart.Showtime != nil && len(checkout.Cart.Seats) > 0 {
		err = app.seats.Release(ctx, checkout.Cart.Showtime.ID, checkout.Cart.SeatKeys(), sessionID)
		if err != nil {
			return err
		}
	}

	return app.checkouts.Delete(ctx, sessionID)
}
