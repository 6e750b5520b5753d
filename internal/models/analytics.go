package models

// Correlation is one variable pair. Strength and Direction are computed by the backend.
type Correlation struct {
	Variable1   string  `json:"variable_1"`
	Variable2   string  `json:"variable_2"`
	Correlation float64 `json:"correlation"`
	Direction   string  `json:"direction"`
	Strength    string  `json:"strength"`
}

// Correlations is the weather/correlations/ response.
type Correlations struct {
	StrongestCorrelations []Correlation `json:"strongest_correlations"`
}

// MonthlyTrend is one month of weather/trends/.
type MonthlyTrend struct {
	Month        string  `json:"month"`
	AvgTemp      float64 `json:"avg_temp"`
	AvgHumidity  float64 `json:"avg_humidity"`
	AvgPressure  float64 `json:"avg_pressure"`
	AvgWindSpeed float64 `json:"avg_wind_speed"`
	Season       string  `json:"season,omitempty"`
}

// Trends is the weather/trends/ response.
type Trends struct {
	Period        string         `json:"period,omitempty"`
	MonthlyTrends []MonthlyTrend `json:"monthly_trends"`
}

// AccuracyPoint compares one prediction against the observed value.
type AccuracyPoint struct {
	Date           string  `json:"date"`
	PredictedTemp  float64 `json:"predicted_temp"`
	ActualTemp     float64 `json:"actual_temp"`
	Error          float64 `json:"error"`
	AccuracyScore  float64 `json:"accuracy_score"`
	WeatherCorrect bool    `json:"weather_correct"`
}

// PredictionAccuracy is the weather/prediction-accuracy/ response.
type PredictionAccuracy struct {
	Period          string          `json:"period,omitempty"`
	OverallAccuracy *float64        `json:"overall_accuracy,omitempty"`
	AccuracyData    []AccuracyPoint `json:"accuracy_data"`
}
