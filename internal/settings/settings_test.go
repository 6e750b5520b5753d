package settings

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjstillabower/krishi-dashboard/internal/cache"
)

func TestDefaults_Valid(t *testing.T) {
	d := Defaults()
	require.NoError(t, d.Validate())
	assert.Equal(t, "Morang, Nepal", d.Location)
	assert.Equal(t, "Asia/Kathmandu", d.Timezone)
	assert.Equal(t, 5, d.RefreshInterval)
	assert.False(t, d.SMSAlerts)
}

func TestExportImport_RoundTrip(t *testing.T) {
	s := Defaults()
	s.Location = "Jhapa, Nepal"
	s.Units = "imperial"
	s.CriticalAlertsOnly = true
	s.PredictionHorizon = 14

	body, err := Export(s)
	require.NoError(t, err)
	assert.Contains(t, string(body), "\n  \"location\": \"Jhapa, Nepal\"")

	got, err := Import(body)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestImport(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"partial keeps defaults", `{"units":"imperial"}`, false},
		{"not json", `location=Morang`, true},
		{"array", `[1,2]`, true},
		{"empty", ``, true},
		{"wrong type", `{"refreshInterval":"soon"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Import([]byte(tt.in))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "imperial", s.Units)
			assert.Equal(t, "Morang, Nepal", s.Location)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"units", func(s *Settings) { s.Units = "kelvin" }},
		{"language", func(s *Settings) { s.Language = "xx" }},
		{"frequency", func(s *Settings) { s.TrainingFrequency = "hourly" }},
		{"retention", func(s *Settings) { s.DataRetention = 7 }},
		{"refresh", func(s *Settings) { s.RefreshInterval = 0 }},
		{"horizon", func(s *Settings) { s.PredictionHorizon = 15 }},
		{"threshold", func(s *Settings) { s.ModelAccuracyThreshold = 99 }},
		{"rate limit", func(s *Settings) { s.RateLimit = 50 }},
		{"timezone", func(s *Settings) { s.Timezone = "Mars/Olympus" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)
		})
	}
}

func TestExportFileName(t *testing.T) {
	at := time.Date(2026, 3, 9, 23, 0, 0, 0, time.FixedZone("NPT", 20700))
	assert.Equal(t, "weather_settings_2026-03-09.json", ExportFileName(at))
}

func newManager(t *testing.T) (*Manager, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC))
	return NewManager(cache.NewInMemoryCache(clock), clock, nil), clock
}

func TestManager_GetDefaultsWhenEmpty(t *testing.T) {
	m, _ := newManager(t)
	s, err := m.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
}

func TestManager_PutGetReset(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)

	s := Defaults()
	s.Language = "ne"
	require.NoError(t, m.Put(ctx, s))

	got, err := m.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ne", got.Language)

	reset, err := m.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), reset)

	got, err = m.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "en", got.Language)
}

func TestManager_PutRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)

	s := Defaults()
	s.Units = "kelvin"
	assert.ErrorIs(t, m.Put(ctx, s), ErrInvalidSettings)

	got, _ := m.Get(ctx)
	assert.Equal(t, "metric", got.Units)
}

func TestManager_ExportImport(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)

	s := Defaults()
	s.AutoRefresh = false
	require.NoError(t, m.Put(ctx, s))

	body, name, err := m.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, "weather_settings_2026-10-16.json", name)

	_, err = m.Reset(ctx)
	require.NoError(t, err)

	imported, err := m.Import(ctx, body)
	require.NoError(t, err)
	assert.Equal(t, s, imported)

	got, err := m.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, s, got)

	_, err = m.Import(ctx, []byte("not json"))
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestManager_CorruptEntryServesDefaults(t *testing.T) {
	ctx := context.Background()
	backend := cache.NewInMemoryCache(nil)
	require.NoError(t, backend.Set(ctx, storageKey, []byte("{broken"), 0))

	s, err := NewManager(backend, nil, nil).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
}

type failingCache struct{ cache.Cache }

func (failingCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func TestManager_BackendError(t *testing.T) {
	_, err := NewManager(failingCache{}, nil, nil).Get(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load settings")
}

func TestSettings_JSONKeys(t *testing.T) {
	raw, err := json.Marshal(Defaults())
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	for _, k := range []string{"location", "smsAlerts", "refreshInterval", "modelAccuracyThreshold", "apiKey", "cacheEnabled"} {
		assert.Contains(t, m, k)
	}
}
