package store

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const alertsBody = `[
	{"id":1,"alert_type":"frost","severity":"high","title":"Frost warning","is_active":true,"start_time":"2024-01-10T00:00:00Z"},
	{"id":2,"alert_type":"rain","severity":"medium","title":"Heavy rain","is_active":true,"start_time":"2024-01-11T00:00:00Z"},
	{"id":3,"alert_type":"wind","severity":"low","title":"Gusts","is_active":false,"start_time":"2024-01-12T00:00:00Z"}
]`

func TestAlerts_SetActive_ReplacesMatchingElement(t *testing.T) {
	var patched map[string]any
	s, _ := newTestStore(t, backend{
		"GET weather/alerts/": jsonResponse(200, alertsBody),
		"PATCH weather/alerts/2/": func(w http.ResponseWriter, r *http.Request) {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &patched)
			jsonResponse(200, `{"id":2,"alert_type":"rain","severity":"medium","title":"Heavy rain","is_active":false,"start_time":"2024-01-11T00:00:00Z"}`)(w, r)
		},
	})
	ctx := context.Background()
	_, err := s.Alerts.Fetch(ctx)
	require.NoError(t, err)
	before := s.Alerts.Data().Alerts

	_, err = s.Alerts.SetActive(ctx, 2, false)
	require.NoError(t, err)
	assert.Equal(t, false, patched["is_active"])

	after := s.Alerts.Data().Alerts
	require.Len(t, after, 3)
	assert.False(t, after[1].IsActive)
	assert.Equal(t, before[0], after[0])
	assert.Equal(t, before[2], after[2])
	assert.True(t, before[1].IsActive, "earlier snapshot must not change")
}

func TestAlerts_SetActive_UnknownIDLeavesListUnchanged(t *testing.T) {
	s, _ := newTestStore(t, backend{
		"GET weather/alerts/":      jsonResponse(200, alertsBody),
		"PATCH weather/alerts/99/": jsonResponse(200, `{"id":99,"is_active":true}`),
	})
	ctx := context.Background()
	_, err := s.Alerts.Fetch(ctx)
	require.NoError(t, err)
	before := s.Alerts.Data().Alerts

	_, err = s.Alerts.SetActive(ctx, 99, true)
	require.NoError(t, err)
	assert.Equal(t, before, s.Alerts.Data().Alerts)
}

func TestAlerts_Dismiss(t *testing.T) {
	s, _ := newTestStore(t, backend{"GET weather/alerts/": jsonResponse(200, alertsBody)})
	_, err := s.Alerts.Fetch(context.Background())
	require.NoError(t, err)

	assert.True(t, s.Alerts.Dismiss(1))
	assert.False(t, s.Alerts.Dismiss(1))

	ids := []int64{}
	for _, a := range s.Alerts.Data().Alerts {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []int64{2, 3}, ids)
}
