package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"medicab/internal/http/handlers"
	"medicab/internal/infra"
	"medicab/internal/middleware"
)

func NewRouter(app *handlers.App, cfg *infra.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.RateLimit(cfg.RateLimitPerMin, time.Minute),
	)

	// Health & metrics
	r.Get("/v1/healthz", app.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(cfg.JWTSecret))

		r.Route("/donations", func(r chi.Router) {
			r.Post("/", app.DonationsCreate)
			r.Get("/", app.DonationsList)
			r.Get("/{id}", app.DonationsGet)
			r.Patch("/{id}/status", app.DonationsTransition)
			r.Delete("/{id}", app.DonationsCancel)
		})

		r.Route("/medicines", func(r chi.Router) {
			r.Get("/", app.MedicinesList)
			r.Get("/barcode/{barcode}", app.MedicinesGetByBarcode)
			r.Post("/", app.MedicinesCreate)
			r.Put("/{id}", app.MedicinesUpdate)
			r.Delete("/{id}", app.MedicinesDelete)
		})

		r.Route("/cabinet", func(r chi.Router) {
			r.Post("/", app.CabinetAdd)
			r.Get("/", app.CabinetList)
			r.Delete("/{id}", app.CabinetRemove)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", app.NotificationsList)
			r.Post("/{id}/read", app.NotificationsMarkRead)
		})

		r.Post("/admin/sweep", app.SweepTrigger)
	})

	return r
}
