package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kjstillabower/krishi-dashboard/internal/observability"
)

// RouterConfig wires the local API. A nil Limiter disables rate limiting; a zero
// RequestTimeout leaves requests bounded only by the server.
type RouterConfig struct {
	Handler        *Handler
	Logger         *zap.Logger
	Limiter        *rate.Limiter
	RequestTimeout time.Duration
}

// NewRouter builds the local API. /health and /metrics sit outside the rate limit
// and timeout so probes keep answering under load.
func NewRouter(cfg RouterConfig) *mux.Router {
	h := cfg.Handler
	router := mux.NewRouter()
	router.Use(CorrelationIDMiddleware(cfg.Logger))
	router.Use(MetricsMiddleware)

	router.HandleFunc("/health", h.GetHealth).Methods(http.MethodGet)
	router.Handle("/metrics", observability.MetricsHandler()).Methods(http.MethodGet)

	api := router.NewRoute().Subrouter()
	api.Use(RateLimitMiddleware(cfg.Limiter))
	if cfg.RequestTimeout > 0 {
		api.Use(TimeoutMiddleware(cfg.RequestTimeout))
	}

	api.HandleFunc("/state", h.GetDomains).Methods(http.MethodGet)
	api.HandleFunc("/state/{domain}", h.GetState).Methods(http.MethodGet)
	api.HandleFunc("/refresh/{domain}", h.PostRefresh).Methods(http.MethodPost)

	api.HandleFunc("/weather/current", h.PostCurrentWeather).Methods(http.MethodPost)
	api.HandleFunc("/weather/forecast", h.PostForecast).Methods(http.MethodPost)
	api.HandleFunc("/history", h.PostHistory).Methods(http.MethodPost)
	api.HandleFunc("/hourly", h.PostHourly).Methods(http.MethodPost)
	api.HandleFunc("/analytics", h.PostAnalytics).Methods(http.MethodPost)
	api.HandleFunc("/jobs/{job}", h.PostJob).Methods(http.MethodPost)

	api.HandleFunc("/alerts", h.GetAlerts).Methods(http.MethodGet)
	api.HandleFunc("/alerts/{id}", h.PatchAlert).Methods(http.MethodPatch)
	api.HandleFunc("/alerts/{id}", h.DeleteAlert).Methods(http.MethodDelete)

	// Literal month routes are registered before /months/{id} patterns.
	api.HandleFunc("/months", h.GetMonths).Methods(http.MethodGet)
	api.HandleFunc("/months/auto-fill", h.PostAutoFill).Methods(http.MethodPost)
	api.HandleFunc("/months/current", h.PutCurrentMonth).Methods(http.MethodPut)
	api.HandleFunc("/months/current/conditions", h.GetConditions).Methods(http.MethodGet)
	api.HandleFunc("/months/{id}", h.PatchMonth).Methods(http.MethodPatch)
	api.HandleFunc("/months/{id}/advisory", h.GetMonthAdvisory).Methods(http.MethodGet)

	api.HandleFunc("/seasons", h.GetCropSeasons).Methods(http.MethodGet)
	api.HandleFunc("/seasons/progress", h.GetSeasonProgress).Methods(http.MethodGet)

	api.HandleFunc("/settings", h.GetSettings).Methods(http.MethodGet)
	api.HandleFunc("/settings", h.PutSettings).Methods(http.MethodPut)
	api.HandleFunc("/settings/reset", h.PostSettingsReset).Methods(http.MethodPost)
	api.HandleFunc("/settings/export", h.GetSettingsExport).Methods(http.MethodGet)
	api.HandleFunc("/settings/import", h.PostSettingsImport).Methods(http.MethodPost)

	api.HandleFunc("/session/login", h.PostLogin).Methods(http.MethodPost)
	api.HandleFunc("/session/logout", h.PostLogout).Methods(http.MethodPost)

	return router
}
