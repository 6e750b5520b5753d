package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/kjstillabower/krishi-dashboard/internal/advisory"
	"github.com/kjstillabower/krishi-dashboard/internal/models"
	"github.com/kjstillabower/krishi-dashboard/internal/validation"
)

// maxBulkIDs bounds a single bulk auto-fill request.
const maxBulkIDs = 100

// GetMonths handles GET /months?q&season&has_data&confidence&sort&order.
func (h *Handler) GetMonths(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	held := h.store.NepaliSeason.Data().Months
	months := advisory.FilterMonths(held, advisory.MonthFilter{
		Search:         q.Get("q"),
		Season:         q.Get("season"),
		HasWeatherData: q.Get("has_data"),
		Confidence:     q.Get("confidence"),
	})
	by := q.Get("sort")
	if by == "" {
		by = advisory.SortMonthNumber
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"months": advisory.SortMonths(months, by, q.Get("order") == "desc"),
		"stats":  advisory.SummarizeMonths(held),
	})
}

type monthAdvisoryResponse struct {
	Month       models.NepaliMonth     `json:"month"`
	Confidence  advisory.Label         `json:"confidence"`
	DataQuality advisory.DataQuality   `json:"dataQuality"`
	Advisory    advisory.MonthAdvisory `json:"advisory"`
}

// GetMonthAdvisory handles GET /months/{id}/advisory for a held month.
func (h *Handler) GetMonthAdvisory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	m, found := h.store.NepaliSeason.Month(id)
	if !found {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "month "+strconv.FormatInt(id, 10)+" is not held")
		return
	}
	writeJSON(w, http.StatusOK, monthAdvisoryResponse{
		Month:       m,
		Confidence:  advisory.ConfidenceLabel(m.DataConfidence, m.WeatherDataSource),
		DataQuality: advisory.MonthDataQuality(m),
		Advisory:    advisory.BuildMonthAdvisory(&m),
	})
}

// PatchMonth handles PATCH /months/{id}. Fields in the body are merged into the
// held month locally; the backend is not called.
func (h *Handler) PatchMonth(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil || patch == nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_BODY", "body must be a JSON object")
		return
	}
	patch["id"] = json.RawMessage(strconv.FormatInt(id, 10))
	raw, err := json.Marshal(patch)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	updated, err := h.store.NepaliSeason.UpdateMonth(raw)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if !updated {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "month "+strconv.FormatInt(id, 10)+" is not held")
		return
	}
	m, _ := h.store.NepaliSeason.Month(id)
	writeJSON(w, http.StatusOK, m)
}

// PutCurrentMonth handles PUT /months/current with body {"id": N}. An id of 0 clears
// the selection.
func (h *Handler) PutCurrentMonth(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_BODY", "id is required")
		return
	}
	if body.ID == 0 {
		h.store.NepaliSeason.SetCurrentMonth(nil)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	m, found := h.store.NepaliSeason.Month(body.ID)
	if !found {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "month "+strconv.FormatInt(body.ID, 10)+" is not held")
		return
	}
	h.store.NepaliSeason.SetCurrentMonth(&m)
	writeJSON(w, http.StatusOK, m)
}

// GetConditions handles GET /months/current/conditions: threshold alerts and
// irrigation advice for the selected month's weather.
func (h *Handler) GetConditions(w http.ResponseWriter, r *http.Request) {
	current := h.store.NepaliSeason.Data().CurrentMonth
	if current == nil {
		writeError(w, r, http.StatusNotFound, "NO_MONTH", "no current month is selected")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"month":      current.EnglishName,
		"assessment": advisory.EvaluateAlerts(current.AvgTemperature, current.TotalRainfall, current.AvgHumidity),
		"irrigation": advisory.IrrigationAdvice(current.TotalRainfall, current.AvgTemperature),
	})
}

// PostAutoFill handles POST /months/auto-fill with body {"ids": [...]}. Each id is
// filled independently; the aggregate is returned with 200 even when some fail.
func (h *Handler) PostAutoFill(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs []int64 `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.IDs) == 0 {
		writeError(w, r, http.StatusBadRequest, "INVALID_BODY", "ids must be a non-empty list")
		return
	}
	if len(body.IDs) > maxBulkIDs {
		writeError(w, r, http.StatusBadRequest, "INVALID_BODY", "at most "+strconv.Itoa(maxBulkIDs)+" ids per request")
		return
	}
	for _, id := range body.IDs {
		if err := validation.ValidateID(id); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, h.store.NepaliSeason.AutoFillMany(r.Context(), body.IDs))
}

// GetCropSeasons handles GET /seasons?q&season_type&crop&region&has_weather&sort&order.
func (h *Handler) GetCropSeasons(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	st := h.store.NepaliSeason.Data()
	seasons := advisory.FilterCropSeasons(st.CropSeasons, advisory.CropSeasonFilter{
		Search:     q.Get("q"),
		SeasonType: q.Get("season_type"),
		Crop:       q.Get("crop"),
		Region:     q.Get("region"),
		HasWeather: q.Get("has_weather"),
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"seasons": advisory.SortCropSeasons(seasons, q.Get("sort"), q.Get("order") == "desc"),
		"stats":   advisory.SummarizeCropSeasons(st.CropSeasons, st.CurrentMonth),
	})
}

type seasonProgress struct {
	ID               int64                 `json:"id"`
	Name             string                `json:"name"`
	SeasonType       string                `json:"seasonType"`
	Color            string                `json:"color"`
	ProgressPct      float64               `json:"progressPct"`
	InSeason         bool                  `json:"inSeason"`
	WaterRequirement advisory.Label        `json:"waterRequirement"`
	YieldPotential   advisory.Label        `json:"yieldPotential"`
	Crops            []advisory.CropProfile `json:"crops,omitempty"`
}

// GetSeasonProgress handles GET /seasons/progress?current=N. Without current the
// selected month's number is used.
func (h *Handler) GetSeasonProgress(w http.ResponseWriter, r *http.Request) {
	st := h.store.NepaliSeason.Data()
	current := 0
	if raw := r.URL.Query().Get("current"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err == nil {
			err = validation.ValidateMonthNumber(n)
		}
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "INVALID_PARAMETER", "current must be a month number 1-12")
			return
		}
		current = n
	} else if st.CurrentMonth != nil {
		current = st.CurrentMonth.MonthNumber
	}

	out := make([]seasonProgress, 0, len(st.CropSeasons))
	for _, s := range st.CropSeasons {
		p := seasonProgress{
			ID:               s.ID,
			Name:             s.Name,
			SeasonType:       s.SeasonType,
			Color:            advisory.SeasonColor(s.SeasonType),
			WaterRequirement: advisory.WaterRequirementStatus(s.WaterRequirementMM),
			YieldPotential:   advisory.YieldPotential(s.ExpectedYieldMin, s.ExpectedYieldMax),
		}
		if s.StartMonth != nil && s.EndMonth != nil {
			p.ProgressPct = advisory.SeasonProgress(s.StartMonth.MonthNumber, s.EndMonth.MonthNumber, current)
			p.InSeason = current > 0 && advisory.InSeason(s.StartMonth.MonthNumber, s.EndMonth.MonthNumber, current)
		}
		for _, crop := range s.PrimaryCrops {
			p.Crops = append(p.Crops, advisory.CropInfo(crop))
		}
		out = append(out, p)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"current": current,
		"seasons": out,
	})
}
