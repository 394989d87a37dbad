package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Alerts.MinRelevanceScore != 40 {
		t.Errorf("expected MinRelevanceScore=40, got %v", cfg.Alerts.MinRelevanceScore)
	}

	if cfg.Alerts.DigestMode != "realtime" {
		t.Errorf("expected DigestMode=realtime, got %s", cfg.Alerts.DigestMode)
	}

	if cfg.Evaluation.Workers != 4 {
		t.Errorf("expected Workers=4, got %d", cfg.Evaluation.Workers)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected Level=info, got %s", cfg.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "missing database path",
			modify: func(c *Config) {
				c.Database.Path = ""
			},
			wantErr: true,
		},
		{
			name: "relevance minimum above 100",
			modify: func(c *Config) {
				c.Alerts.MinRelevanceScore = 101
			},
			wantErr: true,
		},
		{
			name: "negative daily cap",
			modify: func(c *Config) {
				c.Alerts.MaxAlertsPerDay = -1
			},
			wantErr: true,
		},
		{
			name: "unknown digest mode",
			modify: func(c *Config) {
				c.Alerts.DigestMode = "weekly"
			},
			wantErr: true,
		},
		{
			name: "zero workers",
			modify: func(c *Config) {
				c.Evaluation.Workers = 0
			},
			wantErr: true,
		},
		{
			name: "invalid log level",
			modify: func(c *Config) {
				c.Logging.Level = "loud"
			},
			wantErr: true,
		},
		{
			name: "invalid mcp transport",
			modify: func(c *Config) {
				c.MCP.Transport = "http"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_JoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Database.Path = ""
	cfg.MCP.Transport = "http"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "database.path") || !strings.Contains(err.Error(), "mcp.transport") {
		t.Errorf("Validate() = %q, want both problems reported", err.Error())
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input    string
		expected string
	}{
		{"~/test", filepath.Join(home, "test")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
	}

	for _, tt := range tests {
		result, err := expandPath(tt.input)
		if err != nil {
			t.Errorf("expandPath(%q) error: %v", tt.input, err)
		}
		if result != tt.expected {
			t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[database]
path = "/tmp/relevance-test.db"

[alerts]
min_relevance_score = 55
digest_mode = "hourly_digest"

[evaluation]
workers = 8
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Database.Path != "/tmp/relevance-test.db" {
		t.Errorf("Database.Path = %q, want /tmp/relevance-test.db", cfg.Database.Path)
	}
	if cfg.Alerts.MinRelevanceScore != 55 {
		t.Errorf("MinRelevanceScore = %v, want 55", cfg.Alerts.MinRelevanceScore)
	}
	if cfg.Alerts.DigestMode != "hourly_digest" {
		t.Errorf("DigestMode = %q, want hourly_digest", cfg.Alerts.DigestMode)
	}
	if cfg.Evaluation.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Evaluation.Workers)
	}
	// untouched sections keep defaults
	if cfg.Alerts.MaxAlertsPerDay != 20 {
		t.Errorf("MaxAlertsPerDay = %d, want 20", cfg.Alerts.MaxAlertsPerDay)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("Load() error = %v, want not found", err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[evaluation]\nworkers = 0\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() expected validation error")
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Database.Path = "/var/lib/relevance.db"
	cfg.Alerts.MaxAlertsPerDay = 3

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Alerts.MaxAlertsPerDay != 3 {
		t.Errorf("MaxAlertsPerDay = %d, want 3", loaded.Alerts.MaxAlertsPerDay)
	}
	if loaded.Database.Path != "/var/lib/relevance.db" {
		t.Errorf("Database.Path = %q", loaded.Database.Path)
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() error: %v", err)
	}
	if strings.HasPrefix(cfg.Database.Path, "~") {
		t.Errorf("Database.Path = %q, want expanded", cfg.Database.Path)
	}
}

func TestResolvePath(t *testing.T) {
	t.Setenv(EnvConfigPath, "/etc/relevance.toml")

	if got := ResolvePath("/flag.toml"); got != "/flag.toml" {
		t.Errorf("ResolvePath(flag) = %q", got)
	}
	if got := ResolvePath(""); got != "/etc/relevance.toml" {
		t.Errorf("ResolvePath(env) = %q", got)
	}

	t.Setenv(EnvConfigPath, "")
	if got := ResolvePath(""); got != DefaultPath {
		t.Errorf("ResolvePath(default) = %q", got)
	}
}

func TestAlertsPreferences(t *testing.T) {
	a := AlertsConfig{MinRelevanceScore: 10, MinUrgencyScore: 20, MaxAlertsPerDay: 5, DigestMode: "daily_digest"}
	p := a.Preferences()

	if p.MinRelevanceScore != 10 || p.MinUrgencyScore != 20 || p.MaxAlertsPerDay != 5 || string(p.DigestMode) != "daily_digest" {
		t.Errorf("Preferences() = %+v", p)
	}
}
