package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func env(values map[string]string) func(string) string {
	return func(k string) string { return values[k] }
}

func TestParsePort(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "valid", input: "5000", expected: 5000},
		{name: "empty", input: "", expected: DefaultPort},
		{name: "not a number", input: "abc", expected: DefaultPort},
		{name: "negative", input: "-1", expected: DefaultPort},
		{name: "too large", input: "70000", expected: DefaultPort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParsePort(tt.input); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestConfig_ApplyEnv(t *testing.T) {
	t.Run("unset port keeps default", func(t *testing.T) {
		cfg := New()
		cfg.ApplyEnv(env(nil))
		if cfg.Port != 45454 {
			t.Errorf("expected 45454, got %d", cfg.Port)
		}
		if cfg.Address() != "localhost:45454" {
			t.Errorf("unexpected address %s", cfg.Address())
		}
	})

	t.Run("reads all variables", func(t *testing.T) {
		cfg := New()
		cfg.ApplyEnv(env(map[string]string{
			EnvPort:        "6001",
			EnvUUID:        "abc-123",
			EnvRunPipe:     "/tmp/run.sock",
			EnvTestIDsPipe: "/tmp/ids.sock",
		}))
		if cfg.Port != 6001 || cfg.UUID != "abc-123" {
			t.Errorf("unexpected port/uuid: %d %s", cfg.Port, cfg.UUID)
		}
		if cfg.RunPipe != "/tmp/run.sock" || cfg.TestIDsPipe != "/tmp/ids.sock" {
			t.Errorf("unexpected pipes: %s %s", cfg.RunPipe, cfg.TestIDsPipe)
		}
	})

	t.Run("garbage port falls back", func(t *testing.T) {
		cfg := New()
		cfg.Port = 1234
		cfg.ApplyEnv(env(map[string]string{EnvPort: "not-a-port"}))
		if cfg.Port != DefaultPort {
			t.Errorf("expected %d, got %d", DefaultPort, cfg.Port)
		}
	})
}

func TestConfig_LoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "testbridge.yaml")
	content := "host: 127.0.0.1\nport: 7000\nfolder_key: name\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg := New()
	if err := cfg.LoadFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Host != "127.0.0.1" || cfg.Port != 7000 || cfg.FolderKey != "name" || cfg.LogLevel != "debug" {
		t.Errorf("config file not applied: %+v", cfg)
	}
	if cfg.StorageDir != DefaultStorageDir {
		t.Errorf("expected unset keys to keep defaults, got %s", cfg.StorageDir)
	}

	if err := cfg.LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRequirePipe(t *testing.T) {
	err := RequirePipe(EnvRunPipe, "")
	if !errors.Is(err, ErrMissingPipe) {
		t.Errorf("expected ErrMissingPipe, got %v", err)
	}
	if err := RequirePipe(EnvRunPipe, "/tmp/x"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.ProjectPath != DefaultProjectPath {
		t.Errorf("expected ProjectPath %s, got %s", DefaultProjectPath, cfg.ProjectPath)
	}

	if cfg.Port != DefaultPort {
		t.Errorf("expected Port %d, got %d", DefaultPort, cfg.Port)
	}

	if cfg.FolderKey != DefaultFolderKey {
		t.Errorf("expected FolderKey %s, got %s", DefaultFolderKey, cfg.FolderKey)
	}
}

func TestLoad(t *testing.T) {
	// Register restores, then clear so the project's .env can fill them in
	for _, k := range []string{EnvPort, EnvUUID, EnvRunPipe, EnvTestIDsPipe} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv(EnvPort, "6000")

	project := t.TempDir()
	dotenv := "TEST_PORT=7000\nTEST_UUID=from-dotenv\n"
	if err := os.WriteFile(filepath.Join(project, ".env"), []byte(dotenv), 0644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}

	cfg, err := Load(Flags{Project: project, LogLevel: "debug"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != 6000 {
		t.Errorf("expected real environment to win over .env, got port %d", cfg.Port)
	}
	if cfg.UUID != "from-dotenv" {
		t.Errorf("expected uuid from .env, got %q", cfg.UUID)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level flag to apply, got %s", cfg.LogLevel)
	}

	cfg, err = Load(Flags{Project: project, Port: 9000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 9000 {
		t.Errorf("expected port flag to win, got %d", cfg.Port)
	}

	if _, err := Load(Flags{ConfigFile: filepath.Join(project, "missing.yaml")}); err == nil {
		t.Error("expected error for missing config file")
	}
}
