package config

import (
	"sync/atomic"
)

var configValue atomic.Value

func GetConfig() *Config {
	return configValue.Load().(*Config)
}

func SetConfig(cfg *Config) {
	configValue.Store(cfg)
}

type Config struct {
	Version   string          `mapstructure:"version"`
	Weather   WeatherConfig   `mapstructure:"weather"`
	Geocode   GeocodeConfig   `mapstructure:"geocode"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type WeatherConfig struct {
	BaseURL    string  `mapstructure:"base_url" validate:"required,url"`
	APIKey     string  `mapstructure:"api_key"`
	Units      string  `mapstructure:"units" validate:"oneof=imperial metric standard"`
	Timeout    int     `mapstructure:"timeout" validate:"gt=0"`
	DefaultLat float64 `mapstructure:"default_lat" validate:"gte=-90,lte=90"`
	DefaultLon float64 `mapstructure:"default_lon" validate:"gte=-180,lte=180"`
}

type GeocodeConfig struct {
	BaseURL   string `mapstructure:"base_url" validate:"required,url"`
	UserAgent string `mapstructure:"user_agent" validate:"required"`
	Timeout   int    `mapstructure:"timeout" validate:"gt=0"`
}

type CacheConfig struct {
	// Dir defaults to <user cache dir>/weatherpls when empty.
	Dir        string `mapstructure:"dir"`
	WeatherTTL int    `mapstructure:"weather_ttl" validate:"gte=0"`
	GeocodeTTL int    `mapstructure:"geocode_ttl" validate:"gte=0"`
	MaxEntries int    `mapstructure:"max_entries" validate:"gte=0"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
}

type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Version: "1.0.0",
		Weather: WeatherConfig{
			BaseURL:    "https://api.openweathermap.org/data/2.5",
			APIKey:     "",
			Units:      "imperial",
			Timeout:    10,
			DefaultLat: 40.8363,
			DefaultLon: -73.9358,
		},
		Geocode: GeocodeConfig{
			BaseURL:   "https://nominatim.openstreetmap.org",
			UserAgent: "weatherpls/1.0",
			Timeout:   10,
		},
		Cache: CacheConfig{
			Dir:        "",
			WeatherTTL: 600,
			GeocodeTTL: 86400,
			MaxEntries: 64,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
		Telemetry: TelemetryConfig{
			Enabled:  false,
			Endpoint: "tempo:4317",
		},
	}
}
