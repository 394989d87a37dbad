package database

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/hussienjaafar/mojo-digital-wins/internal/org"
	"github.com/hussienjaafar/mojo-digital-wins/internal/relevance"
)

// Organization is a stored organization profile
type Organization struct {
	org.Profile
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Feedback records whether an evaluation turned out to be useful
type Feedback string

const (
	FeedbackUseful    Feedback = "useful"
	FeedbackNotUseful Feedback = "not_useful"
)

// Evaluation is one scored candidate for one organization, along with its
// gate verdict and delivery decision
type Evaluation struct {
	ID                 string                   `json:"id"`
	OrgID              string                   `json:"org_id"`
	EntityName         string                   `json:"entity_name"`
	EntityType         string                   `json:"entity_type,omitempty"`
	Topics             []string                 `json:"topics"`
	Velocity           float64                  `json:"velocity"`
	Urgency            float64                  `json:"urgency"`
	Score              int                      `json:"score"`
	PriorityBucket     relevance.PriorityBucket `json:"priority_bucket"`
	IsBlocked          bool                     `json:"is_blocked"`
	IsAllowlisted      bool                     `json:"is_allowlisted"`
	Reasons            []string                 `json:"reasons"`
	MatchedTopics      []string                 `json:"matched_topics"`
	MatchedGeographies []string                 `json:"matched_geographies"`
	Passed             bool                     `json:"passed"`
	GateReason         string                   `json:"gate_reason,omitempty"`
	Alerted            bool                     `json:"alerted"`
	DeliverAt          *time.Time               `json:"deliver_at,omitempty"`
	Feedback           *Feedback                `json:"feedback,omitempty"`
	FeedbackAt         *time.Time               `json:"feedback_at,omitempty"`
	CreatedAt          time.Time                `json:"created_at"`
}

// Candidate rebuilds the scorer input this evaluation was made from.
// Sentiment and mentions are not stored.
func (e *Evaluation) Candidate() relevance.Candidate {
	return relevance.Candidate{
		EntityName: e.EntityName,
		EntityType: e.EntityType,
		Topics:     e.Topics,
		Velocity:   e.Velocity,
	}
}

// Stats represents aggregate evaluation statistics
type Stats struct {
	TotalEvaluations int     `json:"total_evaluations"`
	High             int     `json:"high"`
	Medium           int     `json:"medium"`
	Low              int     `json:"low"`
	Blocked          int     `json:"blocked"`
	Passed           int     `json:"passed"`
	Alerted          int     `json:"alerted"`
	Useful           int     `json:"useful"`
	NotUseful        int     `json:"not_useful"`
	AverageScore     float64 `json:"average_score"`
}

// PassRate returns the share of evaluations that passed the gate
func (s *Stats) PassRate() float64 {
	if s.TotalEvaluations == 0 {
		return 0
	}
	return float64(s.Passed) / float64(s.TotalEvaluations)
}

// ListOptions contains options for listing evaluations
type ListOptions struct {
	OrgID   *string
	Bucket  *relevance.PriorityBucket
	Blocked *bool
	Passed  *bool
	Alerted *bool
	Since   *time.Time
	Limit   int
	Offset  int
}

// ScoringContext is everything the scorer and gate need for one organization
type ScoringContext struct {
	Profile     org.Profile
	Topics      []org.InterestTopic
	Rules       []org.EntityRule
	Preferences *org.AlertPreferences
}

// encodeList stores a string slice as a JSON array
func encodeList(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// decodeList parses a JSON array column, always returning a non-nil slice
func decodeList(raw string) ([]string, error) {
	values := []string{}
	if raw == "" {
		return values, nil
	}
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, err
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}

// NullTime is a helper to convert *time.Time to sql.NullTime
func NullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// TimePtr converts sql.NullTime to *time.Time
func TimePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	return &nt.Time
}

// NullString is a helper to convert *string to sql.NullString
func NullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// StringPtr converts sql.NullString to *string
func StringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
