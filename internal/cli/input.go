package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hussienjaafar/mojo-digital-wins/internal/evaluator"
	"github.com/hussienjaafar/mojo-digital-wins/internal/org"
)

// orgDocument is the import format for one organization
type orgDocument struct {
	org.Profile      `yaml:",inline"`
	InterestTopics   []org.InterestTopic   `json:"interest_topics" yaml:"interest_topics"`
	EntityRules      []org.EntityRule      `json:"entity_rules" yaml:"entity_rules"`
	AlertPreferences *org.AlertPreferences `json:"alert_preferences" yaml:"alert_preferences"`
	SeedDefaults     bool                  `json:"seed_defaults" yaml:"seed_defaults"`
}

// Validate checks the profile and every topic, rule and preference,
// reporting all problems at once
func (d *orgDocument) Validate() error {
	var errs []error

	if err := d.Profile.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("profile: %w", err))
	}
	for i := range d.InterestTopics {
		if err := d.InterestTopics[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("interest_topics[%d]: %w", i, err))
		}
	}
	for i := range d.EntityRules {
		if err := d.EntityRules[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("entity_rules[%d]: %w", i, err))
		}
	}
	if d.AlertPreferences != nil {
		if err := d.AlertPreferences.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("alert_preferences: %w", err))
		}
	}

	return errors.Join(errs...)
}

// decodeFile reads a JSON or YAML document, picking the decoder by extension
func decodeFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported file type %q (use .json, .yaml or .yml)", filepath.Ext(path))
	}

	return nil
}

// loadInputs reads a batch of candidates with their urgency scores
func loadInputs(path string) ([]evaluator.Input, error) {
	var inputs []evaluator.Input
	if err := decodeFile(path, &inputs); err != nil {
		return nil, err
	}

	for i, in := range inputs {
		if strings.TrimSpace(in.Candidate.EntityName) == "" {
			return nil, fmt.Errorf("entry %d: candidate.entityName is required", i)
		}
	}
	return inputs, nil
}

// loadOrgDocument reads an organization import file. Topics without a
// source are treated as self-declared and missing digest modes as realtime.
func loadOrgDocument(path string) (*orgDocument, error) {
	var doc orgDocument
	if err := decodeFile(path, &doc); err != nil {
		return nil, err
	}

	doc.ID = ""
	for i := range doc.InterestTopics {
		if doc.InterestTopics[i].Source == "" {
			doc.InterestTopics[i].Source = org.SourceSelfDeclared
		}
	}
	if doc.AlertPreferences != nil && doc.AlertPreferences.DigestMode == "" {
		doc.AlertPreferences.DigestMode = org.DigestRealtime
	}

	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid organization in %s: %w", path, err)
	}
	return &doc, nil
}

// parseDuration parses a human-readable duration like "12h", "7d", "2w", "1m"
func parseDuration(s string) (time.Duration, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration format")
	}

	unit := s[len(s)-1]
	valueStr := s[:len(s)-1]

	var value int
	if _, err := fmt.Sscanf(valueStr, "%d", &value); err != nil || value < 0 {
		return 0, fmt.Errorf("invalid duration value")
	}

	switch unit {
	case 'h':
		return time.Duration(value) * time.Hour, nil
	case 'd':
		return time.Duration(value) * 24 * time.Hour, nil
	case 'w':
		return time.Duration(value) * 7 * 24 * time.Hour, nil
	case 'm':
		return time.Duration(value) * 30 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown duration unit: %c (use h, d, w, or m)", unit)
	}
}

// sinceFlag converts a --since value into an absolute cutoff
func sinceFlag(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	d, err := parseDuration(value)
	if err != nil {
		return nil, fmt.Errorf("invalid duration: %w", err)
	}
	since := time.Now().Add(-d)
	return &since, nil
}
