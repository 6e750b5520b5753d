package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/kjstillabower/krishi-dashboard/internal/client"
	"github.com/kjstillabower/krishi-dashboard/internal/degraded"
	"github.com/kjstillabower/krishi-dashboard/internal/lifecycle"
	"github.com/kjstillabower/krishi-dashboard/internal/overload"
	"github.com/kjstillabower/krishi-dashboard/internal/settings"
	"github.com/kjstillabower/krishi-dashboard/internal/store"
	"github.com/kjstillabower/krishi-dashboard/internal/validation"
)

const serviceName = "krishi-dashboard"

// HealthConfig holds lifecycle thresholds for the health handler.
type HealthConfig struct {
	OverloadWindow       time.Duration
	OverloadThresholdPct int
	DegradedWindow       time.Duration
	DegradedErrorPct     int
	DegradedMinSamples   int
	StartTime            time.Time
	// SettingsPing, when set, checks that the settings backend is reachable.
	SettingsPing func() error
}

// Handler serves the local JSON API over the store and the settings manager.
type Handler struct {
	store            *store.Store
	settings         *settings.Manager
	healthConfig     *HealthConfig
	logger           *zap.Logger
	clock            clockwork.Clock
	defaultLocation  string
	healthStatusMu   sync.Mutex
	healthStatusPrev string
}

// NewHandler returns a new Handler. A nil clock uses the real clock.
func NewHandler(
	st *store.Store,
	mgr *settings.Manager,
	healthConfig *HealthConfig,
	logger *zap.Logger,
	clock clockwork.Clock,
) *Handler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		store:        st,
		settings:     mgr,
		healthConfig: healthConfig,
		logger:       logger,
		clock:        clock,
	}
}

// SetDefaultLocation sets the location used by weather routes called without one.
// Call before serving.
func (h *Handler) SetDefaultLocation(loc string) {
	h.defaultLocation = loc
}

type healthResult struct {
	status     string
	statusCode int
	reason     string
}

// GetHealth handles GET /health.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	result := h.computeHealthStatus()

	h.healthStatusMu.Lock()
	prev := h.healthStatusPrev
	if prev != "" && prev != result.status {
		h.logger.Info("health status transition",
			zap.String("previous_status", prev),
			zap.String("current_status", result.status),
			zap.String("reason", result.reason))
	}
	h.healthStatusPrev = result.status
	h.healthStatusMu.Unlock()

	checks := map[string]string{"backendApi": "healthy", "session": "anonymous"}
	if result.status == "degraded" {
		checks["backendApi"] = "unhealthy"
	}
	if h.store != nil && h.store.Auth.IsAuthenticated() {
		checks["session"] = "authenticated"
	}
	if h.healthConfig != nil && h.healthConfig.SettingsPing != nil {
		if h.healthConfig.SettingsPing() == nil {
			checks["settings"] = "healthy"
		} else {
			checks["settings"] = "unhealthy"
		}
	}
	resp := map[string]interface{}{
		"status":    result.status,
		"service":   serviceName,
		"version":   "dev",
		"checks":    checks,
		"timestamp": h.clock.Now().UTC().Format(time.RFC3339),
	}
	if h.healthConfig != nil && !h.healthConfig.StartTime.IsZero() {
		resp["uptime"] = h.clock.Since(h.healthConfig.StartTime).Truncate(time.Second).String()
	}
	writeJSON(w, result.statusCode, resp)
}

// computeHealthStatus evaluates conditions in priority order:
// shutting-down > starting > overloaded > degraded > healthy.
func (h *Handler) computeHealthStatus() healthResult {
	if lifecycle.IsShuttingDown() {
		return healthResult{"shutting-down", http.StatusServiceUnavailable, "signal"}
	}
	if !lifecycle.IsReady() {
		return healthResult{"starting", http.StatusServiceUnavailable, "initial_load"}
	}
	if h.healthConfig == nil {
		return healthResult{"healthy", http.StatusOK, ""}
	}
	if h.healthConfig.OverloadWindow > 0 && h.healthConfig.OverloadThresholdPct > 0 {
		if overload.DenialRatio(h.healthConfig.OverloadWindow) >= float64(h.healthConfig.OverloadThresholdPct) {
			return healthResult{"overloaded", http.StatusServiceUnavailable, "overload_threshold"}
		}
	}
	if h.healthConfig.DegradedWindow > 0 && h.healthConfig.DegradedErrorPct > 0 {
		if degraded.IsDegraded(h.healthConfig.DegradedWindow, float64(h.healthConfig.DegradedErrorPct), h.healthConfig.DegradedMinSamples) {
			return healthResult{"degraded", http.StatusServiceUnavailable, "error_rate_breach"}
		}
	}
	return healthResult{"healthy", http.StatusOK, ""}
}

// writeJSON writes v as JSON with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the standard error envelope with the request's correlation ID.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":      code,
			"message":   message,
			"requestId": correlationID(r.Context()),
		},
	})
}

func correlationID(ctx context.Context) string {
	if v, ok := ctx.Value("correlation_id").(string); ok {
		return v
	}
	return ""
}

func requestLogger(r *http.Request) *zap.Logger {
	if logger, ok := r.Context().Value("logger").(*zap.Logger); ok && logger != nil {
		return logger
	}
	return zap.NewNop()
}

var validationErrors = []error{
	validation.ErrLocationEmpty,
	validation.ErrLocationTooShort,
	validation.ErrLocationTooLong,
	validation.ErrLocationInvalidChars,
	validation.ErrInvalidDate,
	validation.ErrDateRangeInverted,
	validation.ErrInvalidGranularity,
	validation.ErrInvalidPeriod,
	validation.ErrOutOfRange,
	validation.ErrInvalidID,
}

func isValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// writeServiceError maps a store or client error onto a status code and envelope.
// Backend failures carry the same message the container recorded.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var unknown store.ErrUnknownDomain
	switch {
	case isValidationError(err):
		writeError(w, r, http.StatusBadRequest, "INVALID_PARAMETER", err.Error())
		return
	case errors.As(err, &unknown):
		writeError(w, r, http.StatusNotFound, "UNKNOWN_DOMAIN", err.Error())
		return
	case errors.Is(err, settings.ErrInvalidFormat):
		writeError(w, r, http.StatusBadRequest, "INVALID_FORMAT", settings.ErrInvalidFormat.Error())
		return
	case errors.Is(err, settings.ErrInvalidSettings):
		writeError(w, r, http.StatusBadRequest, "INVALID_SETTINGS", err.Error())
		return
	}

	requestLogger(r).Debug("backend error",
		zap.String("category", string(client.CategorizeError(err))),
		zap.Error(err))
	msg := client.Message(err)
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", msg)
	case errors.Is(err, client.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", msg)
	case errors.Is(err, client.ErrBadRequest):
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", msg)
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusGatewayTimeout, "UPSTREAM_TIMEOUT", msg)
	default:
		writeError(w, r, http.StatusBadGateway, "UPSTREAM_ERROR", msg)
	}
}
