package config

import "github.com/hussienjaafar/mojo-digital-wins/internal/org"

// Config represents the application configuration
type Config struct {
	Database   DatabaseConfig   `toml:"database"`
	Alerts     AlertsConfig     `toml:"alerts"`
	Evaluation EvaluationConfig `toml:"evaluation"`
	Logging    LoggingConfig    `toml:"logging"`
	MCP        MCPConfig        `toml:"mcp"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// AlertsConfig seeds the alert preferences of newly created organizations
type AlertsConfig struct {
	MinRelevanceScore float64 `toml:"min_relevance_score"`
	MinUrgencyScore   float64 `toml:"min_urgency_score"`
	MaxAlertsPerDay   int     `toml:"max_alerts_per_day"`
	DigestMode        string  `toml:"digest_mode"`
}

// Preferences converts the seed values into org alert preferences
func (a AlertsConfig) Preferences() org.AlertPreferences {
	return org.AlertPreferences{
		MinRelevanceScore: a.MinRelevanceScore,
		MinUrgencyScore:   a.MinUrgencyScore,
		MaxAlertsPerDay:   a.MaxAlertsPerDay,
		DigestMode:        org.DigestMode(a.DigestMode),
	}
}

// EvaluationConfig contains batch evaluation settings
type EvaluationConfig struct {
	Workers int  `toml:"workers"`
	Record  bool `toml:"record"`
}

// LoggingConfig contains log settings
type LoggingConfig struct {
	Level string `toml:"level"`
}

// MCPConfig contains MCP server settings
type MCPConfig struct {
	Enabled   bool   `toml:"enabled"`
	Transport string `toml:"transport"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "~/.local/share/relevance/relevance.db",
		},
		Alerts: AlertsConfig{
			MinRelevanceScore: 40,
			MinUrgencyScore:   0,
			MaxAlertsPerDay:   20,
			DigestMode:        string(org.DigestRealtime),
		},
		Evaluation: EvaluationConfig{
			Workers: 4,
			Record:  true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		MCP: MCPConfig{
			Enabled:   true,
			Transport: "stdio",
		},
	}
}
