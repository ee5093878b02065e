package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"teamsort/internal/platform/httpserver"
	platformmetrics "teamsort/internal/platform/metrics"
	"teamsort/internal/platform/middleware"
	"teamsort/internal/session"
)

type routerDeps struct {
	logger         *slog.Logger
	controller     *session.Controller
	operatorGuard  func(http.Handler) http.Handler
	httpMetrics    *platformmetrics.Metrics
	checks         map[string]httpserver.Check
	metricsHandler http.Handler
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AccessLog(d.logger, d.httpMetrics))

	r.Get("/health", httpserver.Health(d.checks))
	if d.metricsHandler != nil {
		r.Handle("/metrics", d.metricsHandler)
	}
	session.NewHandler(d.controller, d.logger, d.operatorGuard).Register(r)
	return r
}
