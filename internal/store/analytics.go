package store

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"github.com/kjstillabower/krishi-dashboard/internal/models"
	"github.com/kjstillabower/krishi-dashboard/internal/validation"
)

// DefaultPeriod is the analytics view's initial range.
const DefaultPeriod = "30d"

type AnalyticsAPI interface {
	Correlations(ctx context.Context) (*models.Correlations, error)
	Trends(ctx context.Context, period string) (*models.Trends, error)
	PredictionAccuracy(ctx context.Context, params url.Values) (*models.PredictionAccuracy, error)
	Stats(ctx context.Context, params url.Values) (*models.WeatherStats, error)
}

type AnalyticsState struct {
	Correlations *models.Correlations       `json:"correlations"`
	Trends       *models.Trends             `json:"trends"`
	Accuracy     *models.PredictionAccuracy `json:"accuracy"`
	Stats        *models.WeatherStats       `json:"stats"`
	Period       string                     `json:"period"`
}

type AnalyticsStore struct {
	*Container[AnalyticsState]
	api AnalyticsAPI
}

func NewAnalyticsStore(api AnalyticsAPI, opts Options) *AnalyticsStore {
	return &AnalyticsStore{
		Container: NewContainer("analytics", AnalyticsState{Period: DefaultPeriod}, opts),
		api:       api,
	}
}

func periodParams(period string) url.Values {
	if period == "" {
		return nil
	}
	return url.Values{"period": {period}}
}

func (s *AnalyticsStore) FetchCorrelations(ctx context.Context) (*models.Correlations, error) {
	return run(ctx, s.Container, "correlations", s.api.Correlations,
		func(st *AnalyticsState, c *models.Correlations) { st.Correlations = c })
}

func (s *AnalyticsStore) FetchTrends(ctx context.Context, period string) (*models.Trends, error) {
	if err := validation.ValidatePeriod(period); err != nil {
		return nil, err
	}
	return run(ctx, s.Container, "trends",
		func(ctx context.Context) (*models.Trends, error) { return s.api.Trends(ctx, period) },
		func(st *AnalyticsState, t *models.Trends) { st.Trends = t })
}

func (s *AnalyticsStore) FetchPredictionAccuracy(ctx context.Context, period string) (*models.PredictionAccuracy, error) {
	if err := validation.ValidatePeriod(period); err != nil {
		return nil, err
	}
	return run(ctx, s.Container, "prediction_accuracy",
		func(ctx context.Context) (*models.PredictionAccuracy, error) {
			return s.api.PredictionAccuracy(ctx, periodParams(period))
		},
		func(st *AnalyticsState, pa *models.PredictionAccuracy) { st.Accuracy = pa })
}

func (s *AnalyticsStore) FetchStats(ctx context.Context, period string) (*models.WeatherStats, error) {
	if err := validation.ValidatePeriod(period); err != nil {
		return nil, err
	}
	return run(ctx, s.Container, "stats",
		func(ctx context.Context) (*models.WeatherStats, error) { return s.api.Stats(ctx, periodParams(period)) },
		func(st *AnalyticsState, ws *models.WeatherStats) { st.Stats = ws })
}

// Load issues the analytics view's four fetches concurrently for period. They are
// independent; every failure is joined into the returned error.
func (s *AnalyticsStore) Load(ctx context.Context, period string) error {
	if err := validation.ValidatePeriod(period); err != nil {
		return err
	}
	s.Update(func(st *AnalyticsState) { st.Period = period })

	calls := []func(context.Context) error{
		func(ctx context.Context) error { _, err := s.FetchCorrelations(ctx); return err },
		func(ctx context.Context) error { _, err := s.FetchTrends(ctx, period); return err },
		func(ctx context.Context) error { _, err := s.FetchPredictionAccuracy(ctx, period); return err },
		func(ctx context.Context) error { _, err := s.FetchStats(ctx, period); return err },
	}
	errs := make([]error, len(calls))
	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(i int, call func(context.Context) error) {
			defer wg.Done()
			errs[i] = call(ctx)
		}(i, call)
	}
	wg.Wait()
	return errors.Join(errs...)
}
