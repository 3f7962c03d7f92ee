package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	configContent := `
seed: "winter-rounds"
dsn: "postgres://localhost/locum_test"
specialization: cardiology
difficulty: hard
theme: midnight
show_hints: false
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.SeedText != "winter-rounds" {
		t.Errorf("expected seed 'winter-rounds', got '%s'", cfg.SeedText)
	}
	if cfg.DSN != "postgres://localhost/locum_test" {
		t.Errorf("expected dsn, got '%s'", cfg.DSN)
	}
	if cfg.Specialization != "cardiology" {
		t.Errorf("expected specialization 'cardiology', got '%s'", cfg.Specialization)
	}
	if cfg.Difficulty != "hard" {
		t.Errorf("expected difficulty 'hard', got '%s'", cfg.Difficulty)
	}
	if cfg.Theme != "midnight" {
		t.Errorf("expected theme 'midnight', got '%s'", cfg.Theme)
	}
	if cfg.ShowHints {
		t.Error("expected show_hints false")
	}
}

func TestLoadWithEnvExpansion(t *testing.T) {
	t.Setenv("TEST_LOCUM_DSN", "postgres://env/db")

	configContent := `
dsn: "${TEST_LOCUM_DSN}"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.DSN != "postgres://env/db" {
		t.Errorf("expected dsn from env, got '%s'", cfg.DSN)
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	t.Setenv("LOCUM_SPECIALIZATION", "")
	t.Setenv("LOCUM_DIFFICULTY", "")

	configContent := `
seed: "only-a-seed"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.SeedText != "only-a-seed" {
		t.Errorf("expected seed 'only-a-seed', got '%s'", cfg.SeedText)
	}
	if cfg.Specialization != "general_practice" {
		t.Errorf("expected default specialization, got '%s'", cfg.Specialization)
	}
	if cfg.Difficulty != "medium" {
		t.Errorf("expected default difficulty, got '%s'", cfg.Difficulty)
	}
	if !cfg.ShowHints {
		t.Error("expected show_hints default true")
	}
}

func TestLoadFileNotFound(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadFromEnvWithOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://envdb/locum")
	t.Setenv("LOCUM_SPECIALIZATION", "neurology")
	t.Setenv("LOCUM_HINTS", "false")

	cfg := LoadFromEnv()

	if cfg.DSN != "postgres://envdb/locum" {
		t.Errorf("expected dsn from env, got '%s'", cfg.DSN)
	}
	if cfg.Specialization != "neurology" {
		t.Errorf("expected specialization from env, got '%s'", cfg.Specialization)
	}
	if cfg.ShowHints {
		t.Error("expected show_hints false from env")
	}
}
