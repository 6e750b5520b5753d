// Package settings holds the client-side dashboard preferences. They are never sent
// to the backend; a Manager persists them through a cache.Cache backend.
package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"
	_ "time/tzdata"
)

var (
	// ErrInvalidFormat is returned when imported data is not a settings object.
	ErrInvalidFormat = errors.New("invalid file format")
	// ErrInvalidSettings is returned when a field is outside its allowed values.
	ErrInvalidSettings = errors.New("invalid settings")
)

// Settings is the full preference set. JSON keys match the exported file format.
type Settings struct {
	// General
	Location string `json:"location"`
	Units    string `json:"units"`
	Timezone string `json:"timezone"`
	Language string `json:"language"`

	// Alerts
	EmailNotifications bool `json:"emailNotifications"`
	PushNotifications  bool `json:"pushNotifications"`
	SMSAlerts          bool `json:"smsAlerts"`
	AlertSound         bool `json:"alertSound"`
	CriticalAlertsOnly bool `json:"criticalAlertsOnly"`

	// Data
	AutoRefresh     bool `json:"autoRefresh"`
	RefreshInterval int  `json:"refreshInterval"` // minutes
	DataRetention   int  `json:"dataRetention"`   // days
	EnableAnalytics bool `json:"enableAnalytics"`

	// ML
	AutoTrainModels        bool   `json:"autoTrainModels"`
	TrainingFrequency      string `json:"trainingFrequency"`
	PredictionHorizon      int    `json:"predictionHorizon"` // days
	ModelAccuracyThreshold int    `json:"modelAccuracyThreshold"`

	// API
	APIKey       string `json:"apiKey"`
	RateLimit    int    `json:"rateLimit"`
	CacheEnabled bool   `json:"cacheEnabled"`
}

// Defaults returns the factory settings.
func Defaults() Settings {
	return Settings{
		Location: "Morang, Nepal",
		Units:    "metric",
		Timezone: "Asia/Kathmandu",
		Language: "en",

		EmailNotifications: true,
		PushNotifications:  true,
		AlertSound:         true,

		AutoRefresh:     true,
		RefreshInterval: 5,
		DataRetention:   365,
		EnableAnalytics: true,

		AutoTrainModels:        true,
		TrainingFrequency:      "weekly",
		PredictionHorizon:      7,
		ModelAccuracyThreshold: 80,

		APIKey:       "••••••••••••••••",
		RateLimit:    1000,
		CacheEnabled: true,
	}
}

var (
	units               = []string{"metric", "imperial"}
	languages           = []string{"en", "ne", "es", "fr", "de"}
	trainingFrequencies = []string{"daily", "weekly", "monthly"}
	retentionDays       = []int{30, 90, 180, 365, 730}
)

// Validate checks every enumerated and ranged field.
func (s Settings) Validate() error {
	switch {
	case !slices.Contains(units, s.Units):
		return fmt.Errorf("%w: units %q", ErrInvalidSettings, s.Units)
	case !slices.Contains(languages, s.Language):
		return fmt.Errorf("%w: language %q", ErrInvalidSettings, s.Language)
	case !slices.Contains(trainingFrequencies, s.TrainingFrequency):
		return fmt.Errorf("%w: trainingFrequency %q", ErrInvalidSettings, s.TrainingFrequency)
	case !slices.Contains(retentionDays, s.DataRetention):
		return fmt.Errorf("%w: dataRetention %d", ErrInvalidSettings, s.DataRetention)
	case s.RefreshInterval < 1 || s.RefreshInterval > 60:
		return fmt.Errorf("%w: refreshInterval must be 1-60, got %d", ErrInvalidSettings, s.RefreshInterval)
	case s.PredictionHorizon < 1 || s.PredictionHorizon > 14:
		return fmt.Errorf("%w: predictionHorizon must be 1-14, got %d", ErrInvalidSettings, s.PredictionHorizon)
	case s.ModelAccuracyThreshold < 50 || s.ModelAccuracyThreshold > 95:
		return fmt.Errorf("%w: modelAccuracyThreshold must be 50-95, got %d", ErrInvalidSettings, s.ModelAccuracyThreshold)
	case s.RateLimit < 100 || s.RateLimit > 10000:
		return fmt.Errorf("%w: rateLimit must be 100-10000, got %d", ErrInvalidSettings, s.RateLimit)
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil || s.Timezone == "" {
		return fmt.Errorf("%w: timezone %q", ErrInvalidSettings, s.Timezone)
	}
	return nil
}

// Export renders s as the indented JSON written to a settings file.
func Export(s Settings) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Import parses a settings file. Fields absent from the file keep their default
// values; anything that is not a JSON object is ErrInvalidFormat.
func Import(data []byte) (Settings, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Settings{}, ErrInvalidFormat
	}
	s := Defaults()
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return s, nil
}

// ExportFileName is the download name for a settings export made at t (UTC date).
func ExportFileName(t time.Time) string {
	return "weather_settings_" + t.UTC().Format(time.DateOnly) + ".json"
}
