package application

import (
	"errors"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	forecast "facilities-cloud/internal/forecast/domain"
)

// Config defines forecast configuration. The distribution schedule is
// external configuration data; the compiled-in default covers the
// documented 5-year plan.
type Config struct {
	Schedule       forecast.Schedule `yaml:"schedule"`
	DefaultHorizon int               `yaml:"default_horizon"`
	MaxHorizon     int               `yaml:"max_horizon"`
}

// LoadConfig loads forecast config from the FORECAST_CONFIG yaml file
// when set, otherwise returns defaults.
func LoadConfig() (Config, error) {
	cfg := Config{
		Schedule:       forecast.DefaultSchedule(),
		DefaultHorizon: getenvIntDefault("FORECAST_DEFAULT_HORIZON", 5),
		MaxHorizon:     getenvIntDefault("FORECAST_MAX_HORIZON", 30),
	}

	if path := os.Getenv("FORECAST_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if len(cfg.Schedule) == 0 {
		return cfg, errors.New("forecast: empty distribution schedule")
	}
	if cfg.DefaultHorizon <= 0 {
		cfg.DefaultHorizon = 5
	}
	if cfg.MaxHorizon < cfg.DefaultHorizon {
		cfg.MaxHorizon = cfg.DefaultHorizon
	}
	return cfg, nil
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
