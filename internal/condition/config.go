package condition

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries the scoring tables for one deployment. Jurisdictions
// with different FCI boundaries override via a YAML file.
type Config struct {
	Thresholds Thresholds `yaml:"fci_thresholds"`
	Scores     ScoreTable `yaml:"condition_scores"`
}

// DefaultConfig returns the compiled-in tables.
func DefaultConfig() Config {
	return Config{
		Thresholds: DefaultThresholds(),
		Scores:     DefaultScoreTable(),
	}
}

// LoadConfig loads scoring tables from the CONDITION_CONFIG yaml file
// when set, otherwise returns the defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	path := os.Getenv("CONDITION_CONFIG")
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
