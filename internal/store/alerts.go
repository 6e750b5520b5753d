package store

import (
	"context"
	"fmt"

	"github.com/kjstillabower/krishi-dashboard/internal/models"
	"github.com/kjstillabower/krishi-dashboard/internal/validation"
)

type AlertsAPI interface {
	Alerts(ctx context.Context) ([]models.Alert, error)
	SetAlertActive(ctx context.Context, id int64, active bool) (*models.Alert, error)
}

type AlertsState struct {
	Alerts []models.Alert `json:"alerts"`
}

type AlertsStore struct {
	*Container[AlertsState]
	api AlertsAPI
}

func NewAlertsStore(api AlertsAPI, opts Options) *AlertsStore {
	return &AlertsStore{
		Container: NewContainer("alerts", AlertsState{Alerts: []models.Alert{}}, opts),
		api:       api,
	}
}

func (s *AlertsStore) Fetch(ctx context.Context) ([]models.Alert, error) {
	return run(ctx, s.Container, "fetch", s.api.Alerts,
		func(st *AlertsState, alerts []models.Alert) { st.Alerts = alerts })
}

// SetActive toggles an alert on the backend and replaces the matching element with
// the returned alert. An id not held locally leaves the list unchanged.
func (s *AlertsStore) SetActive(ctx context.Context, id int64, active bool) (*models.Alert, error) {
	if err := validation.ValidateID(id); err != nil {
		return nil, err
	}
	return runWith(ctx, s.Container, "update_status", fmt.Sprintf("update_status:%d", id), defaultMessage,
		func(ctx context.Context) (*models.Alert, error) { return s.api.SetAlertActive(ctx, id, active) },
		func(st *AlertsState, updated *models.Alert) { st.Alerts = replaceAlert(st.Alerts, *updated) })
}

// Dismiss removes an alert locally. The backend is not told.
func (s *AlertsStore) Dismiss(id int64) bool {
	removed := false
	s.Update(func(st *AlertsState) {
		kept := make([]models.Alert, 0, len(st.Alerts))
		for _, a := range st.Alerts {
			if a.ID == id {
				removed = true
				continue
			}
			kept = append(kept, a)
		}
		st.Alerts = kept
	})
	return removed
}

func replaceAlert(alerts []models.Alert, updated models.Alert) []models.Alert {
	for i := range alerts {
		if alerts[i].ID == updated.ID {
			out := make([]models.Alert, len(alerts))
			copy(out, alerts)
			out[i] = updated
			return out
		}
	}
	return alerts
}
