package models

// CurrentWeather is the "current" block of the dashboard bundle and the weather/current/ response.
type CurrentWeather struct {
	Location           string  `json:"location,omitempty"`
	Temperature        float64 `json:"temperature"`
	FeelsLike          float64 `json:"feels_like"`
	TempMin            float64 `json:"temp_min"`
	TempMax            float64 `json:"temp_max"`
	Humidity           float64 `json:"humidity"`
	Pressure           float64 `json:"pressure"`
	WindSpeed          float64 `json:"wind_speed"`
	Cloudiness         float64 `json:"cloudiness"`
	Visibility         float64 `json:"visibility"`
	WeatherMain        string  `json:"weather_main"`
	WeatherDescription string  `json:"weather_description"`
	WeatherIcon        string  `json:"weather_icon,omitempty"`
	Sunrise            string  `json:"sunrise,omitempty"`
	Sunset             string  `json:"sunset,omitempty"`
	Timestamp          string  `json:"timestamp,omitempty"`
}

// ForecastDay is one entry of daily_next_7d.
type ForecastDay struct {
	ID                 int64   `json:"id,omitempty"`
	WeatherDate        string  `json:"weather_date"`
	TempMin            float64 `json:"temp_min"`
	TempMax            float64 `json:"temp_max"`
	Humidity           float64 `json:"humidity"`
	WindSpeed          float64 `json:"wind_speed"`
	Pop                float64 `json:"pop"`
	WeatherMain        string  `json:"weather_main"`
	WeatherDescription string  `json:"weather_description"`
	WeatherIcon        string  `json:"weather_icon,omitempty"`
}

// Dashboard is the weather/dashboard/ bundle.
type Dashboard struct {
	Current     *CurrentWeather `json:"current"`
	DailyNext7d []ForecastDay   `json:"daily_next_7d"`
	LastUpdated string          `json:"last_updated,omitempty"`
}

// Prediction is one ML model forecast. ActualTempDay is set once the day has been observed.
type Prediction struct {
	ID                   int64    `json:"id"`
	PredictionFor        string   `json:"prediction_for"`
	PredictedTempDay     float64  `json:"predicted_temp_day"`
	PredictedTempMin     float64  `json:"predicted_temp_min"`
	PredictedTempMax     float64  `json:"predicted_temp_max"`
	PredictedHumidity    float64  `json:"predicted_humidity"`
	PredictedPressure    float64  `json:"predicted_pressure"`
	PredictedWindSpeed   float64  `json:"predicted_wind_speed"`
	PredictedWeatherMain string   `json:"predicted_weather_main"`
	Confidence           float64  `json:"confidence"`
	ActualTempDay        *float64 `json:"actual_temp_day,omitempty"`
}

// Aggregate is a min/avg/max rollup for one metric.
type Aggregate struct {
	Avg *float64 `json:"avg,omitempty"`
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// WeatherStats is the weather/stats/ response. Only fields the views read are typed.
type WeatherStats struct {
	RecordCount    int        `json:"record_count"`
	Temperature    *Aggregate `json:"temperature,omitempty"`
	Humidity       *Aggregate `json:"humidity,omitempty"`
	Pressure       *Aggregate `json:"pressure,omitempty"`
	Wind           *Aggregate `json:"wind,omitempty"`
	TemperatureAvg *float64   `json:"temperature_avg,omitempty"`
	TemperatureMin *float64   `json:"temperature_min,omitempty"`
	TemperatureMax *float64   `json:"temperature_max,omitempty"`
	HumidityAvg    *float64   `json:"humidity_avg,omitempty"`
	PressureAvg    *float64   `json:"pressure_avg,omitempty"`
	WindSpeedAvg   *float64   `json:"wind_speed_avg,omitempty"`
	Period         string     `json:"period,omitempty"`
}

// MLModel is an active model listed by weather/status/.
type MLModel struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	Accuracy *float64 `json:"accuracy,omitempty"`
}

// SystemStatus is the weather/status/ response.
type SystemStatus struct {
	CurrentWeather         *CurrentWeather `json:"current_weather,omitempty"`
	TotalHistoricalRecords int             `json:"total_historical_records"`
	ActiveModels           []MLModel       `json:"active_models"`
	LastUpdate             string          `json:"last_update,omitempty"`
}

// JobResult is the response of the backend job triggers (update, train, predict).
type JobResult struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// HistoricalRecord is one observed day (or hour, depending on granularity).
type HistoricalRecord struct {
	Date           string   `json:"date"`
	Temperature    float64  `json:"temperature"`
	TemperatureMin *float64 `json:"temperature_min,omitempty"`
	TemperatureMax *float64 `json:"temperature_max,omitempty"`
	Humidity       float64  `json:"humidity"`
	Pressure       float64  `json:"pressure"`
	WindSpeed      float64  `json:"wind_speed"`
	Cloudiness     *float64 `json:"cloudiness,omitempty"`
	Rainfall       *float64 `json:"rainfall,omitempty"`
}

// HourlyEntry is one hour of the weather/hourly/ series.
type HourlyEntry struct {
	ForecastTime string  `json:"forecast_time"`
	Temperature  float64 `json:"temperature"`
	FeelsLike    float64 `json:"feels_like,omitempty"`
	Humidity     float64 `json:"humidity"`
	Pressure     float64 `json:"pressure"`
	WindSpeed    float64 `json:"wind_speed"`
	Cloudiness   float64 `json:"cloudiness"`
	Pop          float64 `json:"pop"`
	WeatherMain  string  `json:"weather_main"`
	WeatherIcon  string  `json:"weather_icon,omitempty"`
}
