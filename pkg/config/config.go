package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"gigscout/pkg/geo"
)

// Config holds the application configuration.
type Config struct {
	Request RequestConfig `yaml:"request"`
	Log     LogConfig     `yaml:"log"`
	DB      DBConfig      `yaml:"db"`
	Server  ServerConfig  `yaml:"server"`
	Catalog CatalogConfig `yaml:"catalog"`
	Locate  LocateConfig  `yaml:"locate"`
	Apply   ApplyConfig   `yaml:"apply"`
}

// RequestConfig holds HTTP request settings.
type RequestConfig struct {
	Retries int           `yaml:"retries"`
	Timeout Duration      `yaml:"timeout"`
	Backoff BackoffConfig `yaml:"backoff"`
}

// BackoffConfig holds exponential backoff settings.
type BackoffConfig struct {
	BaseDelay Duration `yaml:"base_delay"`
	MaxDelay  Duration `yaml:"max_delay"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server   LogSettings `yaml:"server"`
	Requests LogSettings `yaml:"requests"`
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// DBConfig holds local store settings.
type DBConfig struct {
	Path     string   `yaml:"path"`
	CacheTTL Duration `yaml:"cache_ttl"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// CatalogConfig holds remote job-catalog settings.
type CatalogConfig struct {
	BaseURL     string  `yaml:"base_url"`
	RadiusAnyKm float64 `yaml:"radius_any_km"` // concrete bound sent when the user picks "any"
}

// LocateConfig holds geolocation settings.
type LocateConfig struct {
	Provider string    `yaml:"provider"` // "http", "fixed"
	Endpoint string    `yaml:"endpoint"`
	Timeout  Duration  `yaml:"timeout"`
	Fallback geo.Point `yaml:"fallback"` // anchor used when acquisition fails or is denied
}

// ApplyConfig holds application-submission settings.
type ApplyConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Request: RequestConfig{
			Retries: 3,
			Timeout: Duration(30 * time.Second),
			Backoff: BackoffConfig{
				BaseDelay: Duration(500 * time.Millisecond),
				MaxDelay:  Duration(10 * time.Second),
			},
		},
		Log: LogConfig{
			Server: LogSettings{
				Path:  "./logs/server.log",
				Level: "INFO",
			},
			Requests: LogSettings{
				Path:  "./logs/requests.log",
				Level: "INFO",
			},
		},
		DB: DBConfig{
			Path:     "./data/gigscout.db",
			CacheTTL: Duration(10 * time.Minute),
		},
		Server: ServerConfig{
			Address: "localhost:1930",
		},
		Catalog: CatalogConfig{
			BaseURL:     "https://api.gigscout.example/v1",
			RadiusAnyKm: 50,
		},
		Locate: LocateConfig{
			Provider: "http",
			Endpoint: "https://api.gigscout.example/v1/locate",
			Timeout:  Duration(10 * time.Second),
			// Bengaluru city center
			Fallback: geo.Point{Lat: 12.9716, Lng: 77.5946},
		},
		Apply: ApplyConfig{
			Endpoint: "https://api.gigscout.example/v1/applications",
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// If the file exists, it merges defaults with existing values but does NOT
// save back to disk (to preserve user formatting and comments).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		if err := validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if !cfg.Locate.Fallback.Valid() {
		return fmt.Errorf("invalid locate.fallback coordinates: %+v", cfg.Locate.Fallback)
	}
	if cfg.Catalog.RadiusAnyKm <= 0 {
		return fmt.Errorf("catalog.radius_any_km must be positive, got %v", cfg.Catalog.RadiusAnyKm)
	}
	return nil
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# GigScout Configuration
# ---------------------
# Supported Duration units: ns, us, ms, s, m, h, d (day), w (week)

`)
	data = append(header, data...)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return Save(path, DefaultConfig())
}
