package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/metinatakli/cinex-booking/api"
	"go.opentelemetry.io/otel/trace"
)

func (app *Application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")

				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// logRequest attaches a request scoped logger and logs every completed request.
func (app *Application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := app.logger.With(
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"uri", r.URL.RequestURI(),
		)

		if span := trace.SpanContextFromContext(r.Context()); span.HasTraceID() {
			logger = logger.With("trace_id", span.TraceID().String())
		}

		r = app.contextSetLogger(r, logger)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		logger.Info("request completed", "status", ww.Status(), "bytes", ww.BytesWritten(), "duration", time.Since(start))
	})
}

func (app *Application) ensureGuestUserSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionId := app.sessionManager.Token(r.Context())

		if sessionId == "" {
			app.sessionManager.Put(r.Context(), SessionKeyGuest.String(), true)

			_, _, err := app.sessionManager.Commit(r.Context())
			if err != nil {
				app.serverErrorResponse(w, r, err)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func (app *Application) requireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := app.sessionIdentity(r.Context())
		if !ok {
			app.unauthorizedAccessResponse(w, r)
			return
		}

		r = app.contextSetIdentity(r, identity)

		next.ServeHTTP(w, r)
	})
}

// validateRequest checks path parameters and request bodies against the OpenAPI document.
// Requests that match no operation are passed on so the router can answer 404 or 405.
func (app *Application) validateRequest(router routers.Router) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options: &openapi3filter.Options{
					AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
				},
			}

			err = openapi3filter.ValidateRequest(r.Context(), input)
			if err != nil {
				app.requestValidationResponse(w, r, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (app *Application) requestValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	var reqErr *openapi3filter.RequestError
	if !errors.As(err, &reqErr) {
		app.badRequestResponse(w, r, err)
		return
	}

	if reqErr.Parameter != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid %s parameter %q", reqErr.Parameter.In, reqErr.Parameter.Name))
		return
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		app.validationErrorResponse(w, r, []api.ValidationError{{
			Field: strings.Join(schemaErr.JSONPointer(), "."),
			Issue: schemaErr.Reason,
		}})
		return
	}

	app.badRequestResponse(w, r, errors.New(reqErr.Error()))
}
