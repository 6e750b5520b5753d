package store

import (
	"context"
	"net/url"

	"github.com/kjstillabower/krishi-dashboard/internal/models"
	"github.com/kjstillabower/krishi-dashboard/internal/validation"
)

// DefaultPredictionDays is the horizon the dashboard asks predictions for.
const DefaultPredictionDays = 7

type DashboardAPI interface {
	Dashboard(ctx context.Context) (*models.Dashboard, error)
	Predictions(ctx context.Context, days int) ([]models.Prediction, error)
	Stats(ctx context.Context, params url.Values) (*models.WeatherStats, error)
	SystemStatus(ctx context.Context) (*models.SystemStatus, error)
	CurrentWeather(ctx context.Context, location string) (*models.CurrentWeather, error)
	Forecast(ctx context.Context, location string, days int) ([]models.ForecastDay, error)
}

// DashboardState mirrors the dashboard view. BackendLastUpdated is the backend's own
// stamp from the bundle, distinct from the container's LastUpdated.
type DashboardState struct {
	Current            *models.CurrentWeather `json:"currentWeather"`
	DailyForecast      []models.ForecastDay   `json:"dailyForecast"`
	Predictions        []models.Prediction    `json:"predictions"`
	Stats              *models.WeatherStats   `json:"stats"`
	SystemStatus       *models.SystemStatus   `json:"systemStatus"`
	MLModels           []models.MLModel       `json:"mlModels"`
	BackendLastUpdated string                 `json:"backendLastUpdated,omitempty"`
}

type DashboardStore struct {
	*Container[DashboardState]
	api DashboardAPI
}

func NewDashboardStore(api DashboardAPI, opts Options) *DashboardStore {
	initial := DashboardState{
		DailyForecast: []models.ForecastDay{},
		Predictions:   []models.Prediction{},
		MLModels:      []models.MLModel{},
	}
	return &DashboardStore{Container: NewContainer("dashboard", initial, opts), api: api}
}

// Fetch loads the current-weather + 7-day bundle.
func (s *DashboardStore) Fetch(ctx context.Context) (*models.Dashboard, error) {
	return run(ctx, s.Container, "fetch", s.api.Dashboard,
		func(st *DashboardState, d *models.Dashboard) {
			st.Current = d.Current
			st.DailyForecast = d.DailyNext7d
			st.BackendLastUpdated = d.LastUpdated
		})
}

func (s *DashboardStore) FetchPredictions(ctx context.Context, days int) ([]models.Prediction, error) {
	if err := validation.ValidateDays(days); err != nil {
		return nil, err
	}
	return run(ctx, s.Container, "predictions",
		func(ctx context.Context) ([]models.Prediction, error) { return s.api.Predictions(ctx, days) },
		func(st *DashboardState, p []models.Prediction) { st.Predictions = p })
}

func (s *DashboardStore) FetchStats(ctx context.Context) (*models.WeatherStats, error) {
	return run(ctx, s.Container, "stats",
		func(ctx context.Context) (*models.WeatherStats, error) { return s.api.Stats(ctx, nil) },
		func(st *DashboardState, ws *models.WeatherStats) { st.Stats = ws })
}

// FetchSystemStatus stores the status and lifts active_models into MLModels.
func (s *DashboardStore) FetchSystemStatus(ctx context.Context) (*models.SystemStatus, error) {
	return run(ctx, s.Container, "system_status", s.api.SystemStatus,
		func(st *DashboardState, ss *models.SystemStatus) {
			st.SystemStatus = ss
			st.MLModels = ss.ActiveModels
			if st.MLModels == nil {
				st.MLModels = []models.MLModel{}
			}
		})
}

// FetchCurrent refreshes only the current-weather block for location.
func (s *DashboardStore) FetchCurrent(ctx context.Context, location string) (*models.CurrentWeather, error) {
	if location != "" {
		loc, err := validation.ValidateLocation(location, 2, 100)
		if err != nil {
			return nil, err
		}
		location = loc
	}
	return run(ctx, s.Container, "current",
		func(ctx context.Context) (*models.CurrentWeather, error) { return s.api.CurrentWeather(ctx, location) },
		func(st *DashboardState, cw *models.CurrentWeather) { st.Current = cw })
}

// FetchForecast refreshes only the daily forecast for location.
func (s *DashboardStore) FetchForecast(ctx context.Context, location string, days int) ([]models.ForecastDay, error) {
	if err := validation.ValidateDays(days); err != nil {
		return nil, err
	}
	return run(ctx, s.Container, "forecast",
		func(ctx context.Context) ([]models.ForecastDay, error) { return s.api.Forecast(ctx, location, days) },
		func(st *DashboardState, f []models.ForecastDay) { st.DailyForecast = f })
}

// Refresh runs the dashboard view's load: bundle, predictions, stats and status.
// Every call is attempted; the first error is returned.
func (s *DashboardStore) Refresh(ctx context.Context) error {
	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	_, err := s.Fetch(ctx)
	keep(err)
	_, err = s.FetchPredictions(ctx, DefaultPredictionDays)
	keep(err)
	_, err = s.FetchStats(ctx)
	keep(err)
	_, err = s.FetchSystemStatus(ctx)
	keep(err)
	return first
}
