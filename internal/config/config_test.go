package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew_Defaults(t *testing.T) {
	for _, env := range []string{EnvPort, EnvLogLevel, EnvDataDir, EnvFrameRate, EnvSeedDemo} {
		t.Setenv(env, "")
	}

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port(), DefaultPort)
	}
	if cfg.LogLevel() != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel(), DefaultLogLevel)
	}
	if cfg.FrameRate() != DefaultFrameRate {
		t.Errorf("FrameRate = %v, want %v", cfg.FrameRate(), DefaultFrameRate)
	}
	if !cfg.SeedDemo() {
		t.Error("SeedDemo = false, want true")
	}
}

func TestNew_FromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvPort, "9000")
	t.Setenv(EnvDataDir, dir)
	t.Setenv(EnvFrameRate, "24")
	t.Setenv(EnvSeedDemo, "false")

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port())
	}
	if cfg.DBPath() != filepath.Join(dir, DBFilename) {
		t.Errorf("DBPath = %q", cfg.DBPath())
	}
	if cfg.ExportDir() != filepath.Join(dir, "exports") {
		t.Errorf("ExportDir = %q", cfg.ExportDir())
	}
	if cfg.FrameRate() != 24 {
		t.Errorf("FrameRate = %v, want 24", cfg.FrameRate())
	}
	if cfg.SeedDemo() {
		t.Error("SeedDemo = true, want false")
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		value string
	}{
		{"port not a number", EnvPort, "abc"},
		{"port out of range", EnvPort, "70000"},
		{"frame rate not a number", EnvFrameRate, "fast"},
		{"frame rate zero", EnvFrameRate, "0"},
		{"frame rate negative", EnvFrameRate, "-30"},
		{"seed demo not a bool", EnvSeedDemo, "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)
			if _, err := New(); err == nil {
				t.Errorf("New() with %s=%q should fail", tt.env, tt.value)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv(EnvPort, "")
	t.Setenv(EnvFrameRate, "30")

	path := filepath.Join(t.TempDir(), ".env")
	content := EnvPort + "=9100\n" + EnvFrameRate + "=24\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	// t.Setenv with an empty value still counts as set, so clear it for the
	// file to apply.
	os.Unsetenv(EnvPort)

	loaded, err := LoadEnvFile(path)
	if err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}
	if !loaded {
		t.Fatal("LoadEnvFile() = false, want true")
	}

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != 9100 {
		t.Errorf("Port = %d, want 9100 from file", cfg.Port())
	}
	if cfg.FrameRate() != 30 {
		t.Errorf("FrameRate = %v, want 30 from environment", cfg.FrameRate())
	}
}

func TestLoadEnvFile_Missing(t *testing.T) {
	loaded, err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}
	if loaded {
		t.Error("LoadEnvFile() = true for a missing file")
	}
}
