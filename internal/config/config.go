package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds dashboard process configuration loaded from YAML and env.
type Config struct {
	TestingMode bool

	ServerPort string

	APIBaseURL string
	APITimeout time.Duration
	Username   string
	Password   string

	StorePolicy string // "arrival" or "latest"

	RefreshInterval time.Duration
	DefaultLocation string

	SettingsBackend       string // "memory", "memcached" or "sqlite"
	SQLitePath            string
	MemcachedAddrs        string
	MemcachedTimeout      time.Duration
	MemcachedMaxIdleConns int

	CircuitBreakerEnabled   bool
	CircuitBreakerFailures  int
	CircuitBreakerSuccesses int
	CircuitBreakerTimeout   time.Duration

	RequestTimeout time.Duration
	RateLimitRPS   int
	RateLimitBurst int

	ShutdownTimeout time.Duration

	OverloadWindow       time.Duration
	OverloadThresholdPct int
	DegradedWindow       time.Duration
	DegradedErrorPct     int
	DegradedMinSamples   int
}

type fileConfig struct {
	TestingMode *bool `yaml:"testing_mode"`

	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	API struct {
		BaseURL  string `yaml:"base_url"`
		Timeout  string `yaml:"timeout"`
		Username string `yaml:"username"`
	} `yaml:"api"`

	Store struct {
		Policy string `yaml:"policy"`
	} `yaml:"store"`

	Refresh struct {
		Interval        string `yaml:"interval"`
		DefaultLocation string `yaml:"default_location"`
	} `yaml:"refresh"`

	Settings struct {
		Backend string `yaml:"backend"`
		SQLite  struct {
			Path string `yaml:"path"`
		} `yaml:"sqlite"`
		Memcached struct {
			Addrs        string `yaml:"addrs"`
			Timeout      string `yaml:"timeout"`
			MaxIdleConns int    `yaml:"max_idle_conns"`
		} `yaml:"memcached"`
	} `yaml:"settings"`

	Reliability struct {
		RequestTimeout string `yaml:"request_timeout"`
		RateLimitRPS   int    `yaml:"rate_limit_rps"`
		RateLimitBurst int    `yaml:"rate_limit_burst"`
		CircuitBreaker struct {
			Enabled          bool   `yaml:"enabled"`
			FailureThreshold int    `yaml:"failure_threshold"`
			SuccessThreshold int    `yaml:"success_threshold"`
			Timeout          string `yaml:"timeout"`
		} `yaml:"circuit_breaker"`
	} `yaml:"reliability"`

	Shutdown struct {
		Timeout string `yaml:"timeout"`
	} `yaml:"shutdown"`

	Lifecycle struct {
		OverloadWindow       string `yaml:"overload_window"`
		OverloadThresholdPct int    `yaml:"overload_threshold_pct"`
		DegradedWindow       string `yaml:"degraded_window"`
		DegradedErrorPct     int    `yaml:"degraded_error_pct"`
		DegradedMinSamples   int    `yaml:"degraded_min_samples"`
	} `yaml:"lifecycle"`
}

type secretsFile struct {
	Password string `yaml:"password"`
}

// Load reads configuration from config/{ENV_NAME}.yaml (default dev) and config/secrets.yaml.
// The backend password comes from DASHBOARD_PASSWORD or the secrets file; it may be empty when
// the backend session is already valid. Call from project root.
func Load() (*Config, error) {
	env := os.Getenv("ENV_NAME")
	if env == "" {
		env = "dev"
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("config: get working directory: %w", err)
	}
	configPath := filepath.Join(cwd, "config", env+".yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg := &Config{}
	if fc.TestingMode != nil {
		cfg.TestingMode = *fc.TestingMode
	}

	cfg.ServerPort = fc.Server.Port
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}

	cfg.APIBaseURL = envOr("API_BASE_URL", fc.API.BaseURL)
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "http://localhost:8000/api/"
	}
	cfg.APITimeout = parseDuration(fc.API.Timeout, 10*time.Second)
	cfg.Username = envOr("DASHBOARD_USERNAME", fc.API.Username)

	cfg.Password = os.Getenv("DASHBOARD_PASSWORD")
	if cfg.Password == "" {
		secretsPath := filepath.Join(cwd, "config", "secrets.yaml")
		secretsData, err := os.ReadFile(secretsPath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read secrets file: %w", err)
			}
		} else {
			var sec secretsFile
			if err := yaml.Unmarshal(secretsData, &sec); err != nil {
				return nil, fmt.Errorf("parse secrets file: %w", err)
			}
			cfg.Password = sec.Password
		}
	}

	cfg.StorePolicy = strings.TrimSpace(strings.ToLower(fc.Store.Policy))
	if cfg.StorePolicy == "" {
		cfg.StorePolicy = "arrival"
	}

	cfg.RefreshInterval = parseDuration(fc.Refresh.Interval, 5*time.Minute)
	cfg.DefaultLocation = strings.TrimSpace(fc.Refresh.DefaultLocation)

	cfg.SettingsBackend = strings.TrimSpace(strings.ToLower(envOr("SETTINGS_BACKEND", fc.Settings.Backend)))
	if cfg.SettingsBackend == "" {
		cfg.SettingsBackend = "memory"
	}
	cfg.SQLitePath = strings.TrimSpace(fc.Settings.SQLite.Path)
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = filepath.Join("data", "settings.db")
	}
	cfg.MemcachedAddrs = strings.TrimSpace(envOr("MEMCACHED_ADDRS", fc.Settings.Memcached.Addrs))
	if cfg.MemcachedAddrs == "" {
		cfg.MemcachedAddrs = "localhost:11211"
	}
	cfg.MemcachedTimeout = parseDuration(fc.Settings.Memcached.Timeout, 500*time.Millisecond)
	cfg.MemcachedMaxIdleConns = fc.Settings.Memcached.MaxIdleConns
	if cfg.MemcachedMaxIdleConns <= 0 {
		cfg.MemcachedMaxIdleConns = 2
	}

	cb := fc.Reliability.CircuitBreaker
	cfg.CircuitBreakerEnabled = cb.Enabled
	cfg.CircuitBreakerFailures = cb.FailureThreshold
	if cfg.CircuitBreakerFailures <= 0 {
		cfg.CircuitBreakerFailures = 5
	}
	cfg.CircuitBreakerSuccesses = cb.SuccessThreshold
	if cfg.CircuitBreakerSuccesses <= 0 {
		cfg.CircuitBreakerSuccesses = 2
	}
	cfg.CircuitBreakerTimeout = parseDuration(cb.Timeout, 30*time.Second)

	cfg.RequestTimeout = parseDuration(fc.Reliability.RequestTimeout, 15*time.Second)
	cfg.RateLimitRPS = fc.Reliability.RateLimitRPS
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 50
	}
	cfg.RateLimitBurst = fc.Reliability.RateLimitBurst
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 100
	}

	cfg.ShutdownTimeout = parseDuration(fc.Shutdown.Timeout, 30*time.Second)

	cfg.OverloadWindow = parseDuration(fc.Lifecycle.OverloadWindow, 60*time.Second)
	cfg.OverloadThresholdPct = fc.Lifecycle.OverloadThresholdPct
	if cfg.OverloadThresholdPct <= 0 {
		cfg.OverloadThresholdPct = 80
	}
	cfg.DegradedWindow = parseDuration(fc.Lifecycle.DegradedWindow, 5*time.Minute)
	cfg.DegradedErrorPct = fc.Lifecycle.DegradedErrorPct
	if cfg.DegradedErrorPct <= 0 {
		cfg.DegradedErrorPct = 50
	}
	cfg.DegradedMinSamples = fc.Lifecycle.DegradedMinSamples
	if cfg.DegradedMinSamples <= 0 {
		cfg.DegradedMinSamples = 4
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return strings.TrimSpace(fallback)
}

// parseDuration parses a duration string and returns defaultVal if parsing fails or result is <= 0.
func parseDuration(s string, defaultVal time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

// validate performs post-load validation of configuration values. RequestTimeout is
// raised above APITimeout so a handler never gives up before its backend call.
func validate(cfg *Config) error {
	if !strings.HasPrefix(cfg.APIBaseURL, "http://") && !strings.HasPrefix(cfg.APIBaseURL, "https://") {
		return fmt.Errorf("%w: api.base_url must be an http(s) URL, got %q", ErrInvalid, cfg.APIBaseURL)
	}
	if cfg.RequestTimeout <= cfg.APITimeout {
		cfg.RequestTimeout = cfg.APITimeout + time.Second
	}
	switch cfg.StorePolicy {
	case "arrival", "latest":
	default:
		return fmt.Errorf("%w: store.policy must be arrival or latest, got %q", ErrInvalid, cfg.StorePolicy)
	}
	switch cfg.SettingsBackend {
	case "memory", "memcached", "sqlite":
	default:
		return fmt.Errorf("%w: settings.backend must be memory, memcached or sqlite, got %q", ErrInvalid, cfg.SettingsBackend)
	}
	if cfg.DegradedErrorPct > 100 || cfg.OverloadThresholdPct > 100 {
		return fmt.Errorf("%w: lifecycle percentages must be at most 100", ErrInvalid)
	}
	return nil
}
