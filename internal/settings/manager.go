package settings

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/kjstillabower/krishi-dashboard/internal/cache"
	"github.com/kjstillabower/krishi-dashboard/internal/observability"
)

const storageKey = "settings"

// Manager loads and saves Settings through a cache backend. A missing entry reads
// as Defaults.
type Manager struct {
	backend cache.Cache
	clock   clockwork.Clock
	logger  *zap.Logger
}

func NewManager(backend cache.Cache, clock clockwork.Clock, logger *zap.Logger) *Manager {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{backend: backend, clock: clock, logger: logger}
}

// Get returns the stored settings, or Defaults when nothing is stored.
func (m *Manager) Get(ctx context.Context) (Settings, error) {
	raw, ok, err := m.backend.Get(ctx, storageKey)
	if err != nil {
		m.record("get", err)
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}
	if !ok {
		m.record("get", nil)
		return Defaults(), nil
	}
	s := Defaults()
	if err := json.Unmarshal(raw, &s); err != nil {
		// A corrupt entry is replaced on the next Put; serve defaults until then.
		m.logger.Warn("stored settings unreadable, using defaults", zap.Error(err))
		m.record("get", err)
		return Defaults(), nil
	}
	m.record("get", nil)
	return s, nil
}

// Put validates and stores s.
func (m *Manager) Put(ctx context.Context, s Settings) error {
	if err := s.Validate(); err != nil {
		m.record("put", err)
		return err
	}
	raw, err := json.Marshal(s)
	if err != nil {
		m.record("put", err)
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := m.backend.Set(ctx, storageKey, raw, 0); err != nil {
		m.record("put", err)
		return fmt.Errorf("save settings: %w", err)
	}
	m.record("put", nil)
	m.logger.Info("settings saved")
	return nil
}

// Reset removes stored settings and returns the defaults now in effect.
func (m *Manager) Reset(ctx context.Context) (Settings, error) {
	if err := m.backend.Delete(ctx, storageKey); err != nil {
		m.record("reset", err)
		return Settings{}, fmt.Errorf("reset settings: %w", err)
	}
	m.record("reset", nil)
	m.logger.Info("settings reset to defaults")
	return Defaults(), nil
}

// Export returns the current settings as a file body and its download name.
func (m *Manager) Export(ctx context.Context) ([]byte, string, error) {
	s, err := m.Get(ctx)
	if err != nil {
		return nil, "", err
	}
	body, err := Export(s)
	if err != nil {
		m.record("export", err)
		return nil, "", fmt.Errorf("export settings: %w", err)
	}
	m.record("export", nil)
	return body, ExportFileName(m.clock.Now()), nil
}

// Import replaces the stored settings with the parsed file.
func (m *Manager) Import(ctx context.Context, data []byte) (Settings, error) {
	s, err := Import(data)
	if err != nil {
		m.record("import", err)
		return Settings{}, err
	}
	if err := m.Put(ctx, s); err != nil {
		m.record("import", err)
		return Settings{}, err
	}
	m.record("import", nil)
	return s, nil
}

func (m *Manager) record(op string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	observability.SettingsOperationsTotal.WithLabelValues(op, outcome).Inc()
}
