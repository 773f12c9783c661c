package app

import (
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/metinatakli/cinex-booking/api"
	"github.com/riandyrn/otelchi"
)

const serviceName = "cinex-booking"

func (app *Application) Routes() http.Handler {
	doc, err := api.GetSwagger()
	if err != nil {
		panic(fmt.Sprintf("invalid embedded OpenAPI document: %v", err))
	}

	openapiRouter, err := legacy.NewRouter(doc)
	if err != nil {
		panic(fmt.Sprintf("failed to build OpenAPI router: %v", err))
	}

	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)
	r.MethodNotAllowed(app.methodNotAllowedResponse)

	r.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(r)))
	r.Use(middleware.RequestID)
	r.Use(app.logRequest)
	r.Use(app.recoverPanic)
	r.Use(app.sessionManager.LoadAndSave)
	r.Use(app.ensureGuestUserSession)
	r.Use(app.validateRequest(openapiRouter))

	r.Get("/healthcheck", app.GetHealth)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", app.Login)
		r.Post("/logout", app.Logout)
	})

	r.Route("/showtimes/{showtimeId}", func(r chi.Router) {
		r.Get("/seats", app.GetSeatMap)
		r.Get("/crowd", app.GetCrowdLevel)
	})

	r.Get("/combos", app.ListCombos)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", app.GetCart)
		r.Delete("/", app.ClearCart)
		r.Put("/showtime", app.SetShowtime)
		r.Post("/seats", app.AddSeat)
		r.Delete("/seats/{row}/{number}", app.RemoveSeat)
		r.Post("/combos", app.AddCombo)
		r.Put("/combos/{comboId}", app.SetComboQuantity)
		r.Delete("/combos/{comboId}", app.RemoveCombo)
		r.Post("/step/next", app.NextStep)
		r.Post("/step/back", app.PreviousStep)
		r.With(app.requireAuthentication).Post("/checkout", app.SubmitBooking)
	})

	r.With(app.requireAuthentication).Route("/bookings/{bookingId}", func(r chi.Router) {
		r.Get("/", app.GetBooking)
		r.Post("/payment", app.PayBooking)
		r.Post("/cancel", app.CancelBooking)
		r.Get("/ticket.png", app.GetTicket)
	})

	return r
}
