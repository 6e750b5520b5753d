package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Weather data sources reported per month.
const (
	SourceNone      = "none"
	SourceAutoDaily = "auto_daily"
)

// NepaliMonth is one Bikram Sambat month with its weather rollup.
type NepaliMonth struct {
	ID                     int64    `json:"id"`
	MonthNumber            int      `json:"month_number"`
	NepaliName             string   `json:"nepali_name"`
	EnglishName            string   `json:"english_name"`
	SeasonType             string   `json:"season_type"`
	StartDateEnglish       string   `json:"start_date_english,omitempty"`
	EndDateEnglish         string   `json:"end_date_english,omitempty"`
	AvgTemperature         float64  `json:"avg_temperature"`
	AvgTempMax             float64  `json:"avg_temp_max"`
	AvgTempMin             float64  `json:"avg_temp_min"`
	TotalRainfall          float64  `json:"total_rainfall"`
	AvgHumidity            float64  `json:"avg_humidity"`
	AvgWindSpeed           float64  `json:"avg_wind_speed"`
	SunshineHours          float64  `json:"sunshine_hours"`
	DataConfidence         float64  `json:"data_confidence"`
	WeatherDataSource      string   `json:"weather_data_source"`
	LastWeatherUpdate      string   `json:"last_weather_update,omitempty"`
	SuitableCrops          []string `json:"suitable_crops,omitempty"`
	Festivals              []string `json:"festivals,omitempty"`
	AgriculturalActivities string   `json:"agricultural_activities,omitempty"`
	SpecialNotes           string   `json:"special_notes,omitempty"`
}

// HasWeatherData reports whether any source has filled the month.
func (m NepaliMonth) HasWeatherData() bool {
	return m.WeatherDataSource != "" && m.WeatherDataSource != SourceNone
}

// MonthList decodes either a bare array or a paginated {"results": [...]} body.
type MonthList []NepaliMonth

func (l *MonthList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var months []NepaliMonth
		if err := json.Unmarshal(data, &months); err != nil {
			return err
		}
		*l = months
		return nil
	}
	var page struct {
		Results []NepaliMonth `json:"results"`
	}
	if err := json.Unmarshal(data, &page); err != nil {
		return fmt.Errorf("month list: %w", err)
	}
	*l = page.Results
	return nil
}

// MonthRef is the nested month reference on a crop season.
type MonthRef struct {
	ID          int64  `json:"id,omitempty"`
	MonthNumber int    `json:"month_number"`
	NepaliName  string `json:"nepali_name,omitempty"`
	EnglishName string `json:"english_name,omitempty"`
}

// CropSeason is an agricultural season definition.
type CropSeason struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	NepaliName         string    `json:"nepali_name,omitempty"`
	SeasonType         string    `json:"season_type"`
	Description        string    `json:"description,omitempty"`
	PrimaryCrops       []string  `json:"primary_crops,omitempty"`
	SecondaryCrops     []string  `json:"secondary_crops,omitempty"`
	IntercropOptions   []string  `json:"intercrop_options,omitempty"`
	SuitableRegions    []string  `json:"suitable_regions,omitempty"`
	StartMonth         *MonthRef `json:"start_month,omitempty"`
	EndMonth           *MonthRef `json:"end_month,omitempty"`
	DurationDays       int       `json:"duration_days,omitempty"`
	WaterRequirementMM float64   `json:"water_requirement_mm"`
	ExpectedYieldMin   float64   `json:"expected_yield_min"`
	ExpectedYieldMax   float64   `json:"expected_yield_max"`
	OptimalTempMin     *float64  `json:"optimal_temp_min,omitempty"`
	OptimalTempMax     *float64  `json:"optimal_temp_max,omitempty"`
	TotalRainRequired  *float64  `json:"total_rain_required,omitempty"`
	WeatherAutoFilled  bool      `json:"weather_auto_filled,omitempty"`
	LastAutoFill       string    `json:"last_auto_fill,omitempty"`
}

// ConfidenceLevels counts months per confidence band.
type ConfidenceLevels struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
	None   int `json:"none"`
}

// CoverageMonth is one row of the coverage report.
type CoverageMonth struct {
	MonthNumber    int     `json:"month_number"`
	EnglishName    string  `json:"english_name"`
	HasWeatherData bool    `json:"has_weather_data"`
	Confidence     float64 `json:"confidence"`
	Source         string  `json:"source,omitempty"`
}

// CoverageReport is the nepali-season/weather-coverage-report/ response.
type CoverageReport struct {
	TotalMonths        int               `json:"total_months"`
	MonthsWithData     int               `json:"months_with_data"`
	CoveragePercentage float64           `json:"coverage_percentage"`
	ByConfidenceLevel  *ConfidenceLevels `json:"by_confidence_level,omitempty"`
	BySource           map[string]int    `json:"by_source,omitempty"`
	Months             []CoverageMonth   `json:"months,omitempty"`
}
