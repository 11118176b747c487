// internal/appconfig/appconfig_test.go
package appconfig

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoad verifies that a valid configuration loads with defaults applied and
// that invalid JSON, invalid settings and missing files are reported.
func TestLoad(t *testing.T) {
	validConfig := `{
        "dataset": {"path": "data/ratings.csv"},
        "classifier": {"type": "uclassify", "readKey": "r", "writeKey": "w"}
    }`

	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load() with valid config failed: %v", err)
	}
	if cfg.Folds != DefaultFolds {
		t.Fatalf("expected default folds %d, got %d", DefaultFolds, cfg.Folds)
	}
	if cfg.Classifier.RequestTimeout() != 120*time.Second {
		t.Fatalf("expected default request timeout of 120s, got %v", cfg.Classifier.RequestTimeout())
	}
	if cfg.Dataset.RatingColumnIndex() != 1 || cfg.Dataset.TextColumnIndex() != 3 {
		t.Fatalf("expected default columns 1/3, got %d/%d", cfg.Dataset.RatingColumnIndex(), cfg.Dataset.TextColumnIndex())
	}
	if !cfg.Dataset.HeaderSkipped() {
		t.Fatal("expected header to be skipped by default")
	}
	if cfg.FoldConcurrency() != 1 {
		t.Fatalf("expected sequential folds by default, got %d", cfg.FoldConcurrency())
	}
	if cfg.ConfigPath == "" {
		t.Fatal("expected ConfigPath to be recorded")
	}

	if _, err := Load(writeConfig(t, `{ "dataset": [`)); err == nil {
		t.Fatal("Load() with invalid JSON should have failed")
	}

	badType := `{"classifier": {"type": "carrier-pigeon"}}`
	if _, err := Load(writeConfig(t, badType)); err == nil {
		t.Fatal("Load() with unknown classifier type should have failed")
	}

	sameColumns := `{"dataset": {"ratingColumn": 2, "textColumn": 2}}`
	if _, err := Load(writeConfig(t, sameColumns)); err == nil {
		t.Fatal("Load() with identical rating/text columns should have failed")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("Load() with nonexistent file should have failed")
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	if cfg.FoldCount() != 3 {
		t.Fatalf("FoldCount() = %d, want 3", cfg.FoldCount())
	}
	if cfg.FoldTimeout() != 30*time.Minute {
		t.Fatalf("FoldTimeout() = %v, want 30m", cfg.FoldTimeout())
	}
	if cfg.OutputDir() != "senticvData/results" {
		t.Fatalf("OutputDir() = %q", cfg.OutputDir())
	}
	if cfg.LogFilePath() != "senticv.log" {
		t.Fatalf("LogFilePath() = %q", cfg.LogFilePath())
	}
	if cfg.Classifier.BackendType() != "uclassify" {
		t.Fatalf("BackendType() = %q", cfg.Classifier.BackendType())
	}
	if cfg.Output.S3.Enabled() {
		t.Fatal("S3 should be disabled without a bucket")
	}

	cfg.Classifier.Retries = -2
	if cfg.Classifier.RetryAttempts() != 0 {
		t.Fatalf("negative retries should clamp to 0, got %d", cfg.Classifier.RetryAttempts())
	}
	cfg.Classifier.Type = "  Bayes "
	if cfg.Classifier.BackendType() != "bayes" {
		t.Fatalf("BackendType() should normalize, got %q", cfg.Classifier.BackendType())
	}
}

func TestShowConfigMasksCredentials(t *testing.T) {
	cfg := &Config{Classifier: Classifier{ReadKey: "lNin5wW4Mod5", WriteKey: "abc"}}
	var buf bytes.Buffer
	ShowConfig(&buf, "", cfg)

	out := buf.String()
	if !strings.Contains(out, "No config file loaded") {
		t.Fatalf("expected missing-file notice, got %s", out)
	}
	if strings.Contains(out, "lNin5wW4Mod5") {
		t.Fatalf("read key leaked into output: %s", out)
	}
	if !strings.Contains(out, "lN****d5") || !strings.Contains(out, "Write Key:        ****") {
		t.Fatalf("expected masked keys, got %s", out)
	}
}

func TestRedactedLeavesOriginalIntact(t *testing.T) {
	cfg := Config{Classifier: Classifier{ReadKey: "readkey123", WriteKey: ""}}
	red := cfg.Redacted()
	if red.Classifier.ReadKey != "re****23" || red.Classifier.WriteKey != "(unset)" {
		t.Fatalf("unexpected redaction: %+v", red.Classifier)
	}
	if cfg.Classifier.ReadKey != "readkey123" {
		t.Fatalf("original config mutated: %+v", cfg.Classifier)
	}
}
