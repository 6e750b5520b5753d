package store

import (
	"context"
	"net/url"

	"github.com/kjstillabower/krishi-dashboard/internal/models"
	"github.com/kjstillabower/krishi-dashboard/internal/validation"
)

const defaultGranularity = "daily"

type HistoryAPI interface {
	Historical(ctx context.Context, startDate, endDate, granularity string) ([]models.HistoricalRecord, error)
	Stats(ctx context.Context, params url.Values) (*models.WeatherStats, error)
	PredictionAccuracy(ctx context.Context, params url.Values) (*models.PredictionAccuracy, error)
	Correlations(ctx context.Context) (*models.Correlations, error)
}

// DateRange is an inclusive YYYY-MM-DD range.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (r DateRange) params() url.Values {
	q := url.Values{}
	if r.Start != "" {
		q.Set("start_date", r.Start)
	}
	if r.End != "" {
		q.Set("end_date", r.End)
	}
	return q
}

// HistoryQuery selects a historical series.
type HistoryQuery struct {
	Range       DateRange
	Granularity string
}

type HistoryState struct {
	Records      []models.HistoricalRecord  `json:"historicalData"`
	Stats        *models.WeatherStats       `json:"stats"`
	Accuracy     *models.PredictionAccuracy `json:"accuracyData"`
	Correlations *models.Correlations       `json:"correlations"`
	DateRange    DateRange                  `json:"dateRange"`
}

type HistoryStore struct {
	*Container[HistoryState]
	api HistoryAPI
}

func NewHistoryStore(api HistoryAPI, opts Options) *HistoryStore {
	return &HistoryStore{
		Container: NewContainer("history", HistoryState{Records: []models.HistoricalRecord{}}, opts),
		api:       api,
	}
}

// SetDateRange records the range the view is showing. It does not fetch.
func (s *HistoryStore) SetDateRange(r DateRange) {
	s.Update(func(st *HistoryState) { st.DateRange = r })
}

func (s *HistoryStore) FetchHistorical(ctx context.Context, q HistoryQuery) ([]models.HistoricalRecord, error) {
	if err := validation.ValidateDateRange(q.Range.Start, q.Range.End); err != nil {
		return nil, err
	}
	if err := validation.ValidateGranularity(q.Granularity); err != nil {
		return nil, err
	}
	granularity := q.Granularity
	if granularity == "" {
		granularity = defaultGranularity
	}
	return run(ctx, s.Container, "historical",
		func(ctx context.Context) ([]models.HistoricalRecord, error) {
			return s.api.Historical(ctx, q.Range.Start, q.Range.End, granularity)
		},
		func(st *HistoryState, recs []models.HistoricalRecord) { st.Records = recs })
}

func (s *HistoryStore) FetchStats(ctx context.Context, r DateRange) (*models.WeatherStats, error) {
	if err := validation.ValidateDateRange(r.Start, r.End); err != nil {
		return nil, err
	}
	return run(ctx, s.Container, "stats",
		func(ctx context.Context) (*models.WeatherStats, error) { return s.api.Stats(ctx, r.params()) },
		func(st *HistoryState, ws *models.WeatherStats) { st.Stats = ws })
}

// FetchPredictionAccuracy asks for accuracy over r using the shared client.
func (s *HistoryStore) FetchPredictionAccuracy(ctx context.Context, r DateRange) (*models.PredictionAccuracy, error) {
	if err := validation.ValidateDateRange(r.Start, r.End); err != nil {
		return nil, err
	}
	return run(ctx, s.Container, "prediction_accuracy",
		func(ctx context.Context) (*models.PredictionAccuracy, error) {
			return s.api.PredictionAccuracy(ctx, r.params())
		},
		func(st *HistoryState, pa *models.PredictionAccuracy) { st.Accuracy = pa })
}

func (s *HistoryStore) FetchCorrelations(ctx context.Context) (*models.Correlations, error) {
	return run(ctx, s.Container, "correlations", s.api.Correlations,
		func(st *HistoryState, c *models.Correlations) { st.Correlations = c })
}

// Load runs the history view's load for q: series, stats and accuracy over the
// same range. The range is recorded first. The first error is returned.
func (s *HistoryStore) Load(ctx context.Context, q HistoryQuery) error {
	if err := validation.ValidateDateRange(q.Range.Start, q.Range.End); err != nil {
		return err
	}
	s.SetDateRange(q.Range)
	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	_, err := s.FetchHistorical(ctx, q)
	keep(err)
	_, err = s.FetchStats(ctx, q.Range)
	keep(err)
	_, err = s.FetchPredictionAccuracy(ctx, q.Range)
	keep(err)
	return first
}
