package org

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTopicsForOrgType_AllTypesSeeded(t *testing.T) {
	for _, orgType := range AllOrgTypes() {
		t.Run(string(orgType), func(t *testing.T) {
			topics := DefaultTopicsForOrgType(orgType)
			require.NotEmpty(t, topics)

			seen := make(map[string]bool)
			for _, topic := range topics {
				assert.Equal(t, SourceSelfDeclared, topic.Source)
				assert.GreaterOrEqual(t, topic.Weight, 0.0)
				assert.LessOrEqual(t, topic.Weight, 1.0)
				assert.False(t, seen[topic.Topic], "duplicate topic %q", topic.Topic)
				seen[topic.Topic] = true
				assert.NoError(t, topic.Validate())
			}
		})
	}
}

func TestDefaultTopicsForOrgType_Unknown(t *testing.T) {
	tests := []OrgType{"", "unknown", "Labor"}

	for _, orgType := range tests {
		topics := DefaultTopicsForOrgType(orgType)
		assert.NotNil(t, topics)
		assert.Empty(t, topics, "type %q", orgType)
	}
}

func TestDefaultTopicsForOrgType_ReturnsCopy(t *testing.T) {
	first := DefaultTopicsForOrgType(TypeClimate)
	first[0].Weight = 0
	first[0].Topic = "mutated"

	second := DefaultTopicsForOrgType(TypeClimate)
	assert.Equal(t, "climate change", second[0].Topic)
	assert.Equal(t, 1.0, second[0].Weight)
}

func TestOrgType_Valid(t *testing.T) {
	assert.True(t, TypeLabor.Valid())
	assert.True(t, TypeCivilRights.Valid())
	assert.False(t, OrgType("").Valid())
	assert.False(t, OrgType("think_tank").Valid())
}

func TestTopicSource_Learned(t *testing.T) {
	assert.True(t, SourceLearnedImplicit.Learned())
	assert.True(t, SourceLearnedOutcome.Learned())
	assert.False(t, SourceSelfDeclared.Learned())
	assert.False(t, SourceAdminOverride.Learned())
}

func TestInterestTopic_Validate(t *testing.T) {
	tests := []struct {
		name    string
		topic   InterestTopic
		wantErr bool
	}{
		{
			name:  "valid",
			topic: InterestTopic{Topic: "healthcare", Weight: 0.8, Source: SourceSelfDeclared},
		},
		{
			name:  "zero weight",
			topic: InterestTopic{Topic: "healthcare", Weight: 0, Source: SourceLearnedOutcome},
		},
		{
			name:    "weight above one",
			topic:   InterestTopic{Topic: "healthcare", Weight: 1.5, Source: SourceSelfDeclared},
			wantErr: true,
		},
		{
			name:    "negative weight",
			topic:   InterestTopic{Topic: "healthcare", Weight: -0.1, Source: SourceSelfDeclared},
			wantErr: true,
		},
		{
			name:    "missing topic",
			topic:   InterestTopic{Weight: 0.5, Source: SourceSelfDeclared},
			wantErr: true,
		},
		{
			name:    "unknown source",
			topic:   InterestTopic{Topic: "healthcare", Weight: 0.5, Source: "guessed"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.topic.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEntityRule_Validate(t *testing.T) {
	assert.NoError(t, (&EntityRule{EntityName: "Jane Doe", RuleType: RuleDeny}).Validate())
	assert.NoError(t, (&EntityRule{EntityName: "ACLU", RuleType: RuleAllow, Reason: "partner"}).Validate())
	assert.Error(t, (&EntityRule{EntityName: "Jane Doe", RuleType: "block"}).Validate())
	assert.Error(t, (&EntityRule{RuleType: RuleDeny}).Validate())
}

func TestAlertPreferences_Validate(t *testing.T) {
	defaults := DefaultAlertPreferences()
	assert.NoError(t, defaults.Validate())
	assert.Equal(t, DigestRealtime, defaults.DigestMode)

	tests := []struct {
		name    string
		prefs   AlertPreferences
		wantErr bool
	}{
		{
			name:  "valid digest",
			prefs: AlertPreferences{MinRelevanceScore: 60, MinUrgencyScore: 50, MaxAlertsPerDay: 10, DigestMode: DigestDaily},
		},
		{
			name:    "relevance above 100",
			prefs:   AlertPreferences{MinRelevanceScore: 101, DigestMode: DigestRealtime},
			wantErr: true,
		},
		{
			name:    "negative cap",
			prefs:   AlertPreferences{MaxAlertsPerDay: -1, DigestMode: DigestRealtime},
			wantErr: true,
		},
		{
			name:    "unknown digest mode",
			prefs:   AlertPreferences{DigestMode: "weekly"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.prefs.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProfile_Validate(t *testing.T) {
	assert.NoError(t, (&Profile{Name: "Climate Action Now", Type: TypeClimate}).Validate())
	assert.NoError(t, (&Profile{Name: "No Type Org"}).Validate())
	assert.Error(t, (&Profile{Name: "Bad Type", Type: "think_tank"}).Validate())
	assert.Error(t, (&Profile{}).Validate())
}
