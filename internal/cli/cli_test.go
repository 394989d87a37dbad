package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hussienjaafar/mojo-digital-wins/internal/config"
	"github.com/hussienjaafar/mojo-digital-wins/internal/org"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"12h", 12 * time.Hour, false},
		{"7d", 7 * 24 * time.Hour, false},
		{"2w", 14 * 24 * time.Hour, false},
		{"1m", 30 * 24 * time.Hour, false},
		{"d", 0, true},
		{"xd", 0, true},
		{"-1d", 0, true},
		{"5y", 0, true},
	}

	for _, tt := range tests {
		got, err := parseDuration(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseDuration(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseDuration(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("parseDuration(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestSinceFlag(t *testing.T) {
	since, err := sinceFlag("")
	require.NoError(t, err)
	assert.Nil(t, since)

	since, err = sinceFlag("1d")
	require.NoError(t, err)
	require.NotNil(t, since)
	assert.WithinDuration(t, time.Now().Add(-24*time.Hour), *since, time.Minute)

	_, err = sinceFlag("soon")
	assert.Error(t, err)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadInputs(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		path := writeFile(t, "batch.yaml", `
- candidate:
    entityName: Ohio Wind Farm
    entityType: project
    topics: [clean energy, wind power]
    velocity: 120
    sentiment: 0.4
  urgency: 35
- candidate:
    entityName: Acme Coal Plant
`)
		inputs, err := loadInputs(path)
		require.NoError(t, err)
		require.Len(t, inputs, 2)

		assert.Equal(t, "Ohio Wind Farm", inputs[0].Candidate.EntityName)
		assert.Equal(t, []string{"clean energy", "wind power"}, inputs[0].Candidate.Topics)
		assert.Equal(t, 120.0, inputs[0].Candidate.Velocity)
		require.NotNil(t, inputs[0].Candidate.Sentiment)
		assert.Equal(t, 0.4, *inputs[0].Candidate.Sentiment)
		assert.Equal(t, 35.0, inputs[0].Urgency)
		assert.Zero(t, inputs[1].Urgency)
	})

	t.Run("json", func(t *testing.T) {
		path := writeFile(t, "batch.json", `[{"candidate": {"entityName": "Port Strike", "topics": ["labor union"]}, "urgency": 80}]`)
		inputs, err := loadInputs(path)
		require.NoError(t, err)
		require.Len(t, inputs, 1)
		assert.Equal(t, "Port Strike", inputs[0].Candidate.EntityName)
		assert.Equal(t, 80.0, inputs[0].Urgency)
	})

	t.Run("missing entity name", func(t *testing.T) {
		path := writeFile(t, "batch.json", `[{"candidate": {"topics": ["labor union"]}}]`)
		_, err := loadInputs(path)
		assert.ErrorContains(t, err, "entry 0")
	})

	t.Run("unknown field", func(t *testing.T) {
		path := writeFile(t, "batch.yml", "- candidate:\n    entityName: X\n    popularity: 3\n")
		_, err := loadInputs(path)
		assert.Error(t, err)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeFile(t, "batch.csv", "entityName\nX\n")
		_, err := loadInputs(path)
		assert.ErrorContains(t, err, "unsupported file type")
	})
}

func TestLoadOrgDocument(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		path := writeFile(t, "org.yaml", `
id: ignored
name: Great Lakes Climate
type: climate
geographies: [Ohio, Michigan]
interest_topics:
  - topic: wind power
    weight: 0.8
entity_rules:
  - entity_name: Acme Coal
    rule_type: deny
    reason: polluter
alert_preferences:
  min_relevance_score: 50
seed_defaults: true
`)
		doc, err := loadOrgDocument(path)
		require.NoError(t, err)

		assert.Empty(t, doc.ID)
		assert.Equal(t, "Great Lakes Climate", doc.Name)
		assert.Equal(t, org.TypeClimate, doc.Type)
		assert.Equal(t, []string{"Ohio", "Michigan"}, doc.Geographies)
		require.Len(t, doc.InterestTopics, 1)
		assert.Equal(t, org.SourceSelfDeclared, doc.InterestTopics[0].Source)
		require.NotNil(t, doc.AlertPreferences)
		assert.Equal(t, org.DigestRealtime, doc.AlertPreferences.DigestMode)
		assert.True(t, doc.SeedDefaults)
	})

	t.Run("json", func(t *testing.T) {
		path := writeFile(t, "org.json", `{"name": "Local 10", "type": "labor", "focus_areas": ["port workers"]}`)
		doc, err := loadOrgDocument(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"port workers"}, doc.FocusAreas)
		assert.Nil(t, doc.AlertPreferences)
	})

	t.Run("reports every problem", func(t *testing.T) {
		path := writeFile(t, "org.json", `{
			"name": "Bad Org",
			"type": "sports",
			"interest_topics": [{"topic": "x", "weight": 2}],
			"entity_rules": [{"entity_name": "Y", "rule_type": "maybe"}]
		}`)
		_, err := loadOrgDocument(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "profile")
		assert.Contains(t, err.Error(), "interest_topics[0]")
		assert.Contains(t, err.Error(), "entity_rules[0]")
	})
}

// execute runs the root command once and returns what it wrote to stdout
func execute(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute(), "relevance %v", args)
	return out.String()
}

func TestCommands_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")

	cfg := config.Default()
	cfg.Database.Path = filepath.Join(dir, "relevance.db")
	cfg.Logging.Level = "error"
	require.NoError(t, config.Save(cfg, cfgPath))

	run := func(args ...string) string {
		return execute(t, append(args, "-c", cfgPath)...)
	}

	out := run("org", "create", "Great Lakes Climate", "--type", "climate", "--geo", "Ohio", "-o", "table")
	assert.Contains(t, out, "Created organization 'Great Lakes Climate'")

	out = run("org", "rule", "add", "great lakes climate", "Acme Coal", "--type", "deny", "--reason", "polluter", "-o", "table")
	assert.Contains(t, out, "Added deny rule for 'Acme Coal'")

	out = run("org", "prefs", "set", "Great Lakes Climate", "--min-relevance", "50", "-o", "json")
	var prefs org.AlertPreferences
	require.NoError(t, json.Unmarshal([]byte(out), &prefs))
	assert.Equal(t, 50.0, prefs.MinRelevanceScore)
	assert.Equal(t, 20, prefs.MaxAlertsPerDay, "untouched fields keep the [alerts] seed")

	batch := writeFile(t, "batch.yaml", `
- candidate:
    entityName: Ohio Wind Farm
    topics: [clean energy]
  urgency: 10
- candidate:
    entityName: Acme Coal Plant
`)
	out = run("evaluate", "Great Lakes Climate", batch, "--workers", "2", "-o", "json")

	var outcomes []struct {
		EvaluationID string `json:"evaluation_id"`
		Result       struct {
			Score              int      `json:"score"`
			IsBlocked          bool     `json:"isBlocked"`
			MatchedGeographies []string `json:"matchedGeographies"`
		} `json:"result"`
		Verdict struct {
			Passes bool `json:"passes"`
		} `json:"verdict"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &outcomes))
	require.Len(t, outcomes, 2)

	assert.Equal(t, 64, outcomes[0].Result.Score, "clean energy 0.9 plus Ohio")
	assert.Equal(t, []string{"Ohio"}, outcomes[0].Result.MatchedGeographies)
	assert.True(t, outcomes[0].Verdict.Passes)
	require.NotEmpty(t, outcomes[0].EvaluationID)

	assert.True(t, outcomes[1].Result.IsBlocked)
	assert.False(t, outcomes[1].Verdict.Passes)

	out = run("feedback", "useful", outcomes[0].EvaluationID, "-o", "json")
	assert.Contains(t, out, `"useful"`)

	out = run("stats", "--org", "Great Lakes Climate", "-o", "json")
	var stats struct {
		Total   int `json:"total_evaluations"`
		Blocked int `json:"blocked"`
		Passed  int `json:"passed"`
		Useful  int `json:"useful"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Blocked)
	assert.Equal(t, 1, stats.Passed)
	assert.Equal(t, 1, stats.Useful)

	out = run("gate", "30", "10", "--org", "Great Lakes Climate", "-o", "json")
	assert.Contains(t, out, "Relevance score 30 is below minimum 50")

	out = run("catalog", "labor", "-o", "json")
	assert.Contains(t, out, "labor union")

	out = run("version", "-o", "table")
	assert.Contains(t, out, "relevance dev")
}
