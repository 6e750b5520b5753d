package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/kjstillabower/krishi-dashboard/internal/advisory"
	"github.com/kjstillabower/krishi-dashboard/internal/models"
	"github.com/kjstillabower/krishi-dashboard/internal/store"
	"github.com/kjstillabower/krishi-dashboard/internal/validation"
)

// historyDefaultDays is the window used when a history request names no range.
const historyDefaultDays = 30

// GetState handles GET /state/{domain}.
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	snap, err := h.store.Snapshot(mux.Vars(r)["domain"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// GetDomains handles GET /state.
func (h *Handler) GetDomains(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"domains": store.Domains()})
}

// PostRefresh handles POST /refresh/{domain}. The snapshot after the refresh is returned.
func (h *Handler) PostRefresh(w http.ResponseWriter, r *http.Request) {
	domain := mux.Vars(r)["domain"]
	if err := h.store.Refresh(r.Context(), domain); err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.writeSnapshot(w, r, domain)
}

func (h *Handler) writeSnapshot(w http.ResponseWriter, r *http.Request, domain string) {
	snap, err := h.store.Snapshot(domain)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// PostHistory handles POST /history?start_date&end_date&granularity.
func (h *Handler) PostHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rng := store.DateRange{Start: q.Get("start_date"), End: q.Get("end_date")}
	if rng.Start == "" && rng.End == "" {
		now := h.clock.Now()
		rng = store.DateRange{
			Start: now.AddDate(0, 0, -historyDefaultDays).Format(time.DateOnly),
			End:   now.Format(time.DateOnly),
		}
	}
	err := h.store.History.Load(r.Context(), store.HistoryQuery{Range: rng, Granularity: q.Get("granularity")})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.writeSnapshot(w, r, store.DomainHistory)
}

// PostHourly handles POST /hourly?hours=N.
func (h *Handler) PostHourly(w http.ResponseWriter, r *http.Request) {
	hours := store.DefaultHours
	if raw := r.URL.Query().Get("hours"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "INVALID_PARAMETER", "hours must be an integer")
			return
		}
		hours = n
	}
	if _, err := h.store.Hourly.Fetch(r.Context(), hours); err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.writeSnapshot(w, r, store.DomainHourly)
}

// PostCurrentWeather handles POST /weather/current?location=. An empty location
// lets the backend pick its default.
func (h *Handler) PostCurrentWeather(w http.ResponseWriter, r *http.Request) {
	if _, err := h.store.Dashboard.FetchCurrent(r.Context(), h.location(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.writeSnapshot(w, r, store.DomainDashboard)
}

func (h *Handler) location(r *http.Request) string {
	if loc := r.URL.Query().Get("location"); loc != "" {
		return loc
	}
	return h.defaultLocation
}

// PostForecast handles POST /weather/forecast?location&days.
func (h *Handler) PostForecast(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	days := store.DefaultPredictionDays
	if raw := q.Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "INVALID_PARAMETER", "days must be an integer")
			return
		}
		days = n
	}
	if _, err := h.store.Dashboard.FetchForecast(r.Context(), h.location(r), days); err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.writeSnapshot(w, r, store.DomainDashboard)
}

// PostAnalytics handles POST /analytics?period=.
func (h *Handler) PostAnalytics(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = h.store.Analytics.Data().Period
	}
	if err := h.store.Analytics.Load(r.Context(), period); err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.writeSnapshot(w, r, store.DomainAnalytics)
}

// PostJob handles POST /jobs/{job}.
func (h *Handler) PostJob(w http.ResponseWriter, r *http.Request) {
	job, err := store.ParseJob(mux.Vars(r)["job"])
	if err != nil {
		writeError(w, r, http.StatusNotFound, "UNKNOWN_JOB", err.Error())
		return
	}
	result, err := h.store.UI.RunJob(r.Context(), job)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	requestLogger(r).Info("backend job triggered", zap.String("job", string(job)))
	writeJSON(w, http.StatusOK, result)
}

// PatchAlert handles PATCH /alerts/{id} with body {"is_active": bool}.
func (h *Handler) PatchAlert(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body struct {
		IsActive *bool `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.IsActive == nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_BODY", "is_active is required")
		return
	}
	alert, err := h.store.Alerts.SetActive(r.Context(), id, *body.IsActive)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, alert)
}

// DeleteAlert handles DELETE /alerts/{id}. The alert is dropped locally only.
func (h *Handler) DeleteAlert(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !h.store.Alerts.Dismiss(id) {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "alert "+strconv.FormatInt(id, 10)+" is not held")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetAlerts handles GET /alerts?filter=. Alerts come from the container, sorted
// most severe first, with summary counts.
func (h *Handler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	held := h.store.Alerts.Data().Alerts
	filter := r.URL.Query().Get("filter")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"alerts": advisory.SortAlerts(advisory.FilterAlerts(held, filter)),
		"stats":  advisory.SummarizeAlerts(held),
	})
}

// PostLogin handles POST /session/login.
func (h *Handler) PostLogin(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Username == "" {
		writeError(w, r, http.StatusBadRequest, "INVALID_BODY", "username and password are required")
		return
	}
	user, err := h.store.Auth.Login(r.Context(), creds)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if _, err := h.store.Permission.Fetch(r.Context()); err != nil {
		requestLogger(r).Warn("permission fetch after login failed", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, user)
}

// PostLogout handles POST /session/logout. A failed logout keeps the session.
func (h *Handler) PostLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Auth.Logout(r.Context()); err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.store.ClearSession()
	w.WriteHeader(http.StatusNoContent)
}

// pathID parses the {id} route variable, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err == nil {
		err = validation.ValidateID(id)
	}
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_PARAMETER", "id must be a positive integer")
		return 0, false
	}
	return id, true
}
