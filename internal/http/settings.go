package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/kjstillabower/krishi-dashboard/internal/settings"
)

// maxImportBytes caps an uploaded settings file.
const maxImportBytes = 1 << 20

// GetSettings handles GET /settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.settings.Get(r.Context())
	if err != nil {
		h.writeSettingsError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// PutSettings handles PUT /settings. The body replaces the stored settings; fields
// it omits take their default values.
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	s := settings.Defaults()
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_BODY", "body must be a settings object")
		return
	}
	if err := h.settings.Put(r.Context(), s); err != nil {
		h.writeSettingsError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// PostSettingsReset handles POST /settings/reset.
func (h *Handler) PostSettingsReset(w http.ResponseWriter, r *http.Request) {
	s, err := h.settings.Reset(r.Context())
	if err != nil {
		h.writeSettingsError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// GetSettingsExport handles GET /settings/export as a file download.
func (h *Handler) GetSettingsExport(w http.ResponseWriter, r *http.Request) {
	data, name, err := h.settings.Export(r.Context())
	if err != nil {
		h.writeSettingsError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// PostSettingsImport handles POST /settings/import. The raw body is the file content.
func (h *Handler) PostSettingsImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_BODY", "could not read upload")
		return
	}
	s, err := h.settings.Import(r.Context(), data)
	if err != nil {
		h.writeSettingsError(w, r, err)
		return
	}
	requestLogger(r).Info("settings imported")
	writeJSON(w, http.StatusOK, s)
}

func (h *Handler) writeSettingsError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, settings.ErrInvalidFormat), errors.Is(err, settings.ErrInvalidSettings):
		writeServiceError(w, r, err)
	default:
		h.logger.Error("settings backend failure", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "SETTINGS_UNAVAILABLE", "settings storage is unavailable")
	}
}
