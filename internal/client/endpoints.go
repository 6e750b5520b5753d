package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kjstillabower/krishi-dashboard/internal/models"
)

// Accounts

func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.SessionResponse, error) {
	var out models.SessionResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "accounts/login/", body: creds}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "accounts/me/"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout ends the backend session. The backend exposes it as a GET.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodGet, path: "accounts/logout/"}, nil)
}

func (c *Client) CheckAuth(ctx context.Context) (*models.SessionResponse, error) {
	var out models.SessionResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: "accounts/is-authenticate/"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Permissions(ctx context.Context) (models.PermissionSet, error) {
	var out models.PermissionSet
	if err := c.do(ctx, request{method: http.MethodGet, path: "accounts/user/permission/"}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = models.PermissionSet{}
	}
	return out, nil
}

// Weather

func (c *Client) CurrentWeather(ctx context.Context, location string) (*models.CurrentWeather, error) {
	q := url.Values{}
	if location != "" {
		q.Set("location", location)
	}
	var out models.CurrentWeather
	if err := c.do(ctx, request{method: http.MethodGet, path: "weather/current/", query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Forecast(ctx context.Context, location string, days int) ([]models.ForecastDay, error) {
	q := url.Values{}
	if location != "" {
		q.Set("location", location)
	}
	if days > 0 {
		q.Set("days", strconv.Itoa(days))
	}
	var out []models.ForecastDay
	if err := c.do(ctx, request{method: http.MethodGet, path: "weather/forecast/", query: q}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	var out models.Dashboard
	if err := c.do(ctx, request{method: http.MethodGet, path: "weather/dashboard/"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Predictions(ctx context.Context, days int) ([]models.Prediction, error) {
	q := url.Values{"days": {strconv.Itoa(days)}}
	var out []models.Prediction
	if err := c.do(ctx, request{method: http.MethodGet, path: "weather/predictions/", query: q}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Stats accepts an optional period or start_date/end_date pair; nil params asks for the default window.
func (c *Client) Stats(ctx context.Context, params url.Values) (*models.WeatherStats, error) {
	var out models.WeatherStats
	if err := c.do(ctx, request{method: http.MethodGet, path: "weather/stats/", query: params}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SystemStatus(ctx context.Context) (*models.SystemStatus, error) {
	var out models.SystemStatus
	if err := c.do(ctx, request{method: http.MethodGet, path: "weather/status/"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateWeather(ctx context.Context) (*models.JobResult, error) {
	return c.job(ctx, "weather/update/")
}

func (c *Client) TrainModels(ctx context.Context) (*models.JobResult, error) {
	return c.job(ctx, "weather/train-models/")
}

func (c *Client) MakePredictions(ctx context.Context) (*models.JobResult, error) {
	return c.job(ctx, "weather/make-predictions/")
}

func (c *Client) job(ctx context.Context, path string) (*models.JobResult, error) {
	var out models.JobResult
	if err := c.do(ctx, request{method: http.MethodPost, path: path}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Historical(ctx context.Context, startDate, endDate, granularity string) ([]models.HistoricalRecord, error) {
	q := url.Values{}
	if startDate != "" {
		q.Set("start_date", startDate)
	}
	if endDate != "" {
		q.Set("end_date", endDate)
	}
	if granularity != "" {
		q.Set("granularity", granularity)
	}
	var out []models.HistoricalRecord
	if err := c.do(ctx, request{method: http.MethodGet, path: "weather/historical/", query: q}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Hourly(ctx context.Context, hours int) ([]models.HourlyEntry, error) {
	q := url.Values{"hours": {strconv.Itoa(hours)}}
	var out []models.HourlyEntry
	if err := c.do(ctx, request{method: http.MethodGet, path: "weather/hourly/", query: q}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Alerts(ctx context.Context) ([]models.Alert, error) {
	var out []models.Alert
	if err := c.do(ctx, request{method: http.MethodGet, path: "weather/alerts/"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetAlertActive toggles an alert's active flag and returns the updated alert.
func (c *Client) SetAlertActive(ctx context.Context, id int64, active bool) (*models.Alert, error) {
	body := map[string]bool{"is_active": active}
	var out models.Alert
	req := request{
		method:   http.MethodPatch,
		path:     "weather/alerts/" + strconv.FormatInt(id, 10) + "/",
		endpoint: "weather/alerts/{id}/",
		body:     body,
	}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Analytics

func (c *Client) Correlations(ctx context.Context) (*models.Correlations, error) {
	var out models.Correlations
	if err := c.do(ctx, request{method: http.MethodGet, path: "weather/correlations/"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Trends(ctx context.Context, period string) (*models.Trends, error) {
	q := url.Values{}
	if period != "" {
		q.Set("period", period)
	}
	var out models.Trends
	if err := c.do(ctx, request{method: http.MethodGet, path: "weather/trends/", query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PredictionAccuracy accepts either period or a start_date/end_date pair.
func (c *Client) PredictionAccuracy(ctx context.Context, params url.Values) (*models.PredictionAccuracy, error) {
	var out models.PredictionAccuracy
	if err := c.do(ctx, request{method: http.MethodGet, path: "weather/prediction-accuracy/", query: params}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Nepali season

func (c *Client) NepaliMonths(ctx context.Context) (models.MonthList, error) {
	var out models.MonthList
	if err := c.do(ctx, request{method: http.MethodGet, path: "nepali-season/months/"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CropSeasons(ctx context.Context) ([]models.CropSeason, error) {
	var out []models.CropSeason
	if err := c.do(ctx, request{method: http.MethodGet, path: "nepali-season/crop-seasons/"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CoverageReport(ctx context.Context) (*models.CoverageReport, error) {
	var out models.CoverageReport
	if err := c.do(ctx, request{method: http.MethodGet, path: "nepali-season/weather-coverage-report/"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AutoFillMonth asks the backend to backfill one month. The payload is returned raw so the
// caller can merge only the fields the backend sent.
func (c *Client) AutoFillMonth(ctx context.Context, id int64) (json.RawMessage, error) {
	var out json.RawMessage
	req := request{
		method:   http.MethodPost,
		path:     "nepali-season/months/" + strconv.FormatInt(id, 10) + "/auto-fill/",
		endpoint: "nepali-season/months/{id}/auto-fill/",
	}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}
