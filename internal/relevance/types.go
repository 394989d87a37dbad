// Package relevance scores how pertinent a news entity, topic or opportunity
// is to one organization and gates the result against alert thresholds.
//
// Everything in this package is a pure function of its inputs: no I/O, no
// shared mutable state. A Scorer may be used from many goroutines at once.
package relevance

// PriorityBucket is the coarse three-level classification of a score
type PriorityBucket string

const (
	PriorityHigh   PriorityBucket = "high"
	PriorityMedium PriorityBucket = "medium"
	PriorityLow    PriorityBucket = "low"
)

// BucketFor maps a relevance score to its priority bucket
func BucketFor(score int) PriorityBucket {
	switch {
	case score >= highThreshold:
		return PriorityHigh
	case score >= mediumThreshold:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Candidate is one news entity or opportunity evaluated against one organization
type Candidate struct {
	EntityName string   `json:"entityName" yaml:"entityName"`
	EntityType string   `json:"entityType,omitempty" yaml:"entityType,omitempty"`
	Topics     []string `json:"topics,omitempty" yaml:"topics,omitempty"`
	Velocity   float64  `json:"velocity,omitempty" yaml:"velocity,omitempty"`

	// Sentiment and Mentions are accepted from upstream but not scored
	Sentiment *float64 `json:"sentiment,omitempty" yaml:"sentiment,omitempty"`
	Mentions  *int     `json:"mentions,omitempty" yaml:"mentions,omitempty"`
}

// topicUniverse returns the candidate topics plus the entity type when present
func (c *Candidate) topicUniverse() []string {
	universe := make([]string, 0, len(c.Topics)+1)
	universe = append(universe, c.Topics...)
	if c.EntityType != "" {
		universe = append(universe, c.EntityType)
	}
	return universe
}

// Result is the outcome of scoring one candidate
type Result struct {
	Score              int            `json:"score"`
	Reasons            []string       `json:"reasons"`
	IsBlocked          bool           `json:"isBlocked"`
	PriorityBucket     PriorityBucket `json:"priorityBucket"`
	MatchedTopics      []string       `json:"matchedTopics"`
	MatchedGeographies []string       `json:"matchedGeographies"`
	IsAllowlisted      bool           `json:"isAllowlisted"`
}

// Verdict is the outcome of the threshold gate
type Verdict struct {
	Passes bool   `json:"passes"`
	Reason string `json:"reason,omitempty"`
}
