package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %s, want :8080", cfg.Server.Addr)
	}
	if cfg.Store.Backend != BackendFS {
		t.Errorf("Backend = %s, want %s", cfg.Store.Backend, BackendFS)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
server:
  addr: ":9090"
store:
  backend: sqlite
  dataDir: /tmp/anneal
defaults:
  steps: 5000
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("Addr = %s, want :9090", cfg.Server.Addr)
	}
	if cfg.Store.Backend != BackendSQLite {
		t.Errorf("Backend = %s, want %s", cfg.Store.Backend, BackendSQLite)
	}
	if cfg.Defaults.Steps != 5000 {
		t.Errorf("Steps = %d, want 5000", cfg.Defaults.Steps)
	}

	// Values absent from the file keep their defaults.
	if cfg.Defaults.Problem != "sort" {
		t.Errorf("Problem = %s, want sort", cfg.Defaults.Problem)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %s, want default :8080", cfg.Server.Addr)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("{not yaml:"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, true},
		{"unknown backend", func(c *Config) { c.Store.Backend = "redis" }, true},
		{"empty data dir", func(c *Config) { c.Store.DataDir = "" }, true},
		{"negative steps", func(c *Config) { c.Defaults.Steps = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
