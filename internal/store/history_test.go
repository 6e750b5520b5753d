package store

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjstillabower/krishi-dashboard/internal/validation"
)

func TestHistory_Load_SendsRangeToEveryCall(t *testing.T) {
	queries := map[string]url.Values{}
	capture := func(name, body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			queries[name] = r.URL.Query()
			jsonResponse(200, body)(w, r)
		}
	}
	s, _ := newTestStore(t, backend{
		"GET weather/historical/":          capture("historical", `[{"date":"2024-01-01","temperature":12.5}]`),
		"GET weather/stats/":               capture("stats", `{"record_count":31}`),
		"GET weather/prediction-accuracy/": capture("accuracy", `{"accuracy_data":[{"date":"2024-01-02","predicted_temp":13,"actual_temp":12}]}`),
	})

	q := HistoryQuery{Range: DateRange{Start: "2024-01-01", End: "2024-01-31"}}
	require.NoError(t, s.History.Load(context.Background(), q))

	for _, name := range []string{"historical", "stats", "accuracy"} {
		assert.Equal(t, "2024-01-01", queries[name].Get("start_date"), name)
		assert.Equal(t, "2024-01-31", queries[name].Get("end_date"), name)
	}
	assert.Equal(t, "daily", queries["historical"].Get("granularity"))

	st := s.History.Data()
	assert.Equal(t, q.Range, st.DateRange)
	assert.Len(t, st.Records, 1)
	require.NotNil(t, st.Accuracy)
	assert.Len(t, st.Accuracy.AccuracyData, 1)
}

func TestHistory_FetchHistorical_Validation(t *testing.T) {
	s, _ := newTestStore(t, backend{})
	ctx := context.Background()

	_, err := s.History.FetchHistorical(ctx, HistoryQuery{Range: DateRange{Start: "2024-02-01", End: "2024-01-01"}})
	assert.ErrorIs(t, err, validation.ErrDateRangeInverted)

	_, err = s.History.FetchHistorical(ctx, HistoryQuery{Granularity: "yearly"})
	assert.ErrorIs(t, err, validation.ErrInvalidGranularity)
}

func TestHourly_Fetch(t *testing.T) {
	var hours string
	s, _ := newTestStore(t, backend{"GET weather/hourly/": func(w http.ResponseWriter, r *http.Request) {
		hours = r.URL.Query().Get("hours")
		jsonResponse(200, `[{"forecast_time":"2024-04-14T07:00:00Z","temperature":22}]`)(w, r)
	}})
	assert.Equal(t, DefaultHours, s.Hourly.Data().Hours)

	_, err := s.Hourly.Fetch(context.Background(), 24)
	require.NoError(t, err)
	assert.Equal(t, "24", hours)
	st := s.Hourly.Data()
	assert.Equal(t, 24, st.Hours)
	assert.Len(t, st.Entries, 1)

	_, err = s.Hourly.Fetch(context.Background(), 500)
	assert.ErrorIs(t, err, validation.ErrOutOfRange)
}

func TestAnalytics_Load(t *testing.T) {
	s, _ := newTestStore(t, backend{
		"GET weather/correlations/":        jsonResponse(200, `{"strongest_correlations":[{"variable_1":"temperature","variable_2":"humidity","correlation":-0.62}]}`),
		"GET weather/trends/":              jsonResponse(200, `{"monthly_trends":[{"month":"2024-01","avg_temp":14}]}`),
		"GET weather/prediction-accuracy/": jsonResponse(500, `{"detail":"accuracy unavailable"}`),
		"GET weather/stats/":               jsonResponse(200, `{"record_count":90}`),
	})

	err := s.Analytics.Load(context.Background(), "90d")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accuracy unavailable")

	st := s.Analytics.Data()
	assert.Equal(t, "90d", st.Period)
	require.NotNil(t, st.Correlations)
	assert.Len(t, st.Correlations.StrongestCorrelations, 1)
	require.NotNil(t, st.Trends)
	require.NotNil(t, st.Stats)
	assert.Nil(t, st.Accuracy)
}

func TestUI_RunJobRaisesSuccessFlag(t *testing.T) {
	s, _ := newTestStore(t, backend{
		"POST weather/train-models/": jsonResponse(200, `{"status":"success","message":"Models trained"}`),
		"POST weather/update/":       jsonResponse(503, `{"detail":"provider down"}`),
	})
	ctx := context.Background()

	_, err := s.UI.RunJob(ctx, JobTrainModels)
	require.NoError(t, err)
	st := s.UI.Data()
	assert.True(t, st.SuccessActive)
	assert.Equal(t, JobTrainModels, st.LastJob)

	s.UI.SetActive(false)
	_, err = s.UI.RunJob(ctx, JobUpdateWeather)
	require.Error(t, err)
	snap := s.UI.Snapshot()
	assert.False(t, snap.Data.SuccessActive)
	assert.Equal(t, "provider down", snap.Fetch.Error)

	_, err = ParseJob("reboot")
	assert.Error(t, err)
}

func TestStore_SnapshotAndRefresh_UnknownDomain(t *testing.T) {
	s, _ := newTestStore(t, backend{})
	_, err := s.Snapshot("weather")
	assert.ErrorAs(t, err, &ErrUnknownDomain{})
	assert.ErrorAs(t, s.Refresh(context.Background(), "weather"), &ErrUnknownDomain{})
	for _, d := range Domains() {
		_, err := s.Snapshot(d)
		assert.NoError(t, err, d)
	}
}
