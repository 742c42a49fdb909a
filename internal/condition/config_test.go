package condition

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_DefaultsWhenUnset(t *testing.T) {
	t.Setenv("CONDITION_CONFIG", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Thresholds != DefaultThresholds() {
		t.Fatalf("expected default thresholds, got %+v", cfg.Thresholds)
	}
	if cfg.Scores != DefaultScoreTable() {
		t.Fatalf("expected default score table, got %+v", cfg.Scores)
	}
}

func TestLoadConfig_YAMLOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "condition.yaml")
	content := `
fci_thresholds:
  good: 0.04
  fair: 0.08
  poor: 0.25
condition_scores:
  good: 90
  fair: 70
  poor: 40
  critical: 10
  not_assessed: 55
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	t.Setenv("CONDITION_CONFIG", path)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	expected := Thresholds{Good: 0.04, Fair: 0.08, Poor: 0.25}
	if cfg.Thresholds != expected {
		t.Fatalf("expected overridden thresholds %+v, got %+v", expected, cfg.Thresholds)
	}
	// A 0.05 ratio is Good under the defaults but Fair under the
	// stricter jurisdiction boundaries.
	if rating := cfg.Thresholds.Rating(Ratio(0.05)); rating != RatingFair {
		t.Fatalf("expected Fair under overridden thresholds, got %s", rating)
	}
	if score := cfg.Scores.Score(LabelGood); score != 90 {
		t.Fatalf("expected overridden good score 90, got %f", score)
	}
	if score := cfg.Scores.Score(LabelNotAssessed); score != 55 {
		t.Fatalf("expected overridden not_assessed score 55, got %f", score)
	}
}

func TestLoadConfig_PartialOverrideKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "condition.yaml")
	content := "fci_thresholds:\n  good: 0.03\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	t.Setenv("CONDITION_CONFIG", path)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Thresholds.Good != 0.03 {
		t.Fatalf("expected good boundary 0.03, got %f", cfg.Thresholds.Good)
	}
	if cfg.Scores != DefaultScoreTable() {
		t.Fatalf("untouched score table must stay at defaults, got %+v", cfg.Scores)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Setenv("CONDITION_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("fci_thresholds: ["), 0o600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	t.Setenv("CONDITION_CONFIG", path)
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}
