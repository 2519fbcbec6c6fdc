package api

import (
	_ "ratehub/docs"
	"ratehub/internal/rate/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swagger "github.com/swaggo/http-swagger"
)

func NewRouter(rateHandler *handler.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	// Swagger UI
	router.Get("/swagger/*", swagger.WrapHandler)

	// Prometheus
	router.Handle("/metrics", promhttp.Handler())

	router.Get("/api/v1/rates", rateHandler.GetRates)
	router.Get("/api/v1/rates/supported-currencies", rateHandler.GetSupportedCurrencies)
	router.Post("/api/v1/rates/refresh", rateHandler.Refresh)
	router.Get("/api/v1/rates/{base:[A-Za-z]{3}}", rateHandler.GetRates)
	router.Get("/api/v1/rates/{base:[A-Za-z]{3}}/{target:[A-Za-z]{3}}/history", rateHandler.GetHistory)
	router.Post("/api/v1/convert", rateHandler.Convert)
	router.Get("/api/v1/status", rateHandler.GetStatus)
	router.Put("/api/v1/settings", rateHandler.UpdateSettings)
	router.Delete("/api/v1/admin/purge", rateHandler.Purge)
	return router
}
