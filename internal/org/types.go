// Package org holds the organization-side inputs to relevance scoring:
// profiles, interest topics, entity rules and alert preferences.
package org

import (
	"github.com/go-playground/validator/v10"
)

// OrgType tags an organization with one entry of a closed taxonomy
type OrgType string

const (
	TypeForeignPolicy OrgType = "foreign_policy"
	TypeHumanRights   OrgType = "human_rights"
	TypeCandidate     OrgType = "candidate"
	TypeLabor         OrgType = "labor"
	TypeClimate       OrgType = "climate"
	TypeCivilRights   OrgType = "civil_rights"
)

// AllOrgTypes returns every known organization type in catalog order
func AllOrgTypes() []OrgType {
	return []OrgType{
		TypeForeignPolicy,
		TypeHumanRights,
		TypeCandidate,
		TypeLabor,
		TypeClimate,
		TypeCivilRights,
	}
}

// Valid reports whether t is one of the known organization types
func (t OrgType) Valid() bool {
	for _, known := range AllOrgTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// TopicSource records where an interest topic came from
type TopicSource string

const (
	SourceSelfDeclared    TopicSource = "self_declared"
	SourceLearnedImplicit TopicSource = "learned_implicit"
	SourceLearnedOutcome  TopicSource = "learned_outcome"
	SourceAdminOverride   TopicSource = "admin_override"
)

// Learned reports whether the topic was inferred rather than declared
func (s TopicSource) Learned() bool {
	return s == SourceLearnedImplicit || s == SourceLearnedOutcome
}

// RuleType is the kind of an entity rule
type RuleType string

const (
	RuleAllow RuleType = "allow"
	RuleDeny  RuleType = "deny"
)

// DigestMode controls how alerts are batched for delivery
type DigestMode string

const (
	DigestRealtime DigestMode = "realtime"
	DigestHourly   DigestMode = "hourly_digest"
	DigestDaily    DigestMode = "daily_digest"
)

// Profile is descriptive metadata about an organization
type Profile struct {
	ID           string   `json:"id,omitempty" yaml:"id,omitempty"`
	Name         string   `json:"name" yaml:"name" validate:"required,max=255"`
	Type         OrgType  `json:"type,omitempty" yaml:"type,omitempty" validate:"omitempty,oneof=foreign_policy human_rights candidate labor climate civil_rights"`
	Mission      string   `json:"mission,omitempty" yaml:"mission,omitempty"`
	FocusAreas   []string `json:"focus_areas,omitempty" yaml:"focus_areas,omitempty"`
	KeyIssues    []string `json:"key_issues,omitempty" yaml:"key_issues,omitempty"`
	Geographies  []string `json:"geographies,omitempty" yaml:"geographies,omitempty"`
	PrimaryGoals []string `json:"primary_goals,omitempty" yaml:"primary_goals,omitempty"`
}

// InterestTopic is one declared or inferred interest of an organization.
// Weight expresses relative importance, not a probability.
type InterestTopic struct {
	ID     string      `json:"id,omitempty" yaml:"id,omitempty"`
	Topic  string      `json:"topic" yaml:"topic" validate:"required"`
	Weight float64     `json:"weight" yaml:"weight" validate:"gte=0,lte=1"`
	Source TopicSource `json:"source" yaml:"source" validate:"oneof=self_declared learned_implicit learned_outcome admin_override"`
}

// EntityRule pins a named entity to always-blocked (deny) or bonus-eligible (allow)
type EntityRule struct {
	ID         string   `json:"id,omitempty" yaml:"id,omitempty"`
	EntityName string   `json:"entity_name" yaml:"entity_name" validate:"required"`
	RuleType   RuleType `json:"rule_type" yaml:"rule_type" validate:"oneof=allow deny"`
	Reason     string   `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// AlertPreferences is the per-organization gating configuration.
// MaxAlertsPerDay and DigestMode are read by the delivery planner only.
type AlertPreferences struct {
	MinRelevanceScore float64    `json:"min_relevance_score" yaml:"min_relevance_score" validate:"gte=0,lte=100"`
	MinUrgencyScore   float64    `json:"min_urgency_score" yaml:"min_urgency_score" validate:"gte=0,lte=100"`
	MaxAlertsPerDay   int        `json:"max_alerts_per_day" yaml:"max_alerts_per_day" validate:"gte=0"`
	DigestMode        DigestMode `json:"digest_mode" yaml:"digest_mode" validate:"oneof=realtime hourly_digest daily_digest"`
}

// DefaultAlertPreferences gates nothing and delivers in realtime without a cap
func DefaultAlertPreferences() AlertPreferences {
	return AlertPreferences{
		DigestMode: DigestRealtime,
	}
}

var validate = validator.New()

// Validate checks the profile fields
func (p *Profile) Validate() error {
	return validate.Struct(p)
}

// Validate checks the topic weight and source
func (t *InterestTopic) Validate() error {
	return validate.Struct(t)
}

// Validate checks the rule type and entity name
func (r *EntityRule) Validate() error {
	return validate.Struct(r)
}

// Validate checks score ranges, the daily cap and the digest mode
func (p *AlertPreferences) Validate() error {
	return validate.Struct(p)
}
