// Package learning adjusts an organization's learned interest topics from
// feedback on past evaluations. Self-declared and admin topics are never
// touched.
package learning

import (
	"context"
	"fmt"
	"math"

	"github.com/charmbracelet/log"

	"github.com/hussienjaafar/mojo-digital-wins/internal/database"
	"github.com/hussienjaafar/mojo-digital-wins/internal/logging"
	"github.com/hussienjaafar/mojo-digital-wins/internal/org"
	"github.com/hussienjaafar/mojo-digital-wins/internal/relevance"
)

const (
	usefulBoost      = 0.05
	notUsefulPenalty = 0.1
	newTopicWeight   = 0.3
)

// Store is the persistence the learner needs
type Store interface {
	GetEvaluation(ctx context.Context, id string) (*database.Evaluation, error)
	SetFeedback(ctx context.Context, id string, feedback database.Feedback) error
	ListInterestTopics(ctx context.Context, orgID string) ([]org.InterestTopic, error)
	SetInterestTopicWeight(ctx context.Context, id string, weight float64) error
	UpsertInterestTopic(ctx context.Context, orgID string, t *org.InterestTopic) error
}

// WeightChange describes one adjusted topic
type WeightChange struct {
	Topic  string  `json:"topic"`
	Before float64 `json:"before"`
	After  float64 `json:"after"`
}

// Summary reports what a piece of feedback changed
type Summary struct {
	EvaluationID string             `json:"evaluation_id"`
	Feedback     database.Feedback  `json:"feedback"`
	Previous     *database.Feedback `json:"previous,omitempty"`
	Adjusted     []WeightChange     `json:"adjusted"`
	Added        []string           `json:"added"`
	Skipped      string             `json:"skipped,omitempty"`
}

// Learner records feedback and tunes learned topic weights
type Learner struct {
	store  Store
	logger *log.Logger
}

// New creates a learner
func New(store Store, logger *log.Logger) *Learner {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Learner{store: store, logger: logger}
}

// RecordFeedback stores feedback on an evaluation and adjusts the
// organization's learned topics accordingly
func (l *Learner) RecordFeedback(ctx context.Context, evaluationID string, useful bool) (*Summary, error) {
	ev, err := l.store.GetEvaluation(ctx, evaluationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load evaluation: %w", err)
	}
	if ev == nil {
		return nil, fmt.Errorf("evaluation not found: %s", evaluationID)
	}

	feedback := database.FeedbackNotUseful
	if useful {
		feedback = database.FeedbackUseful
	}
	if err := l.store.SetFeedback(ctx, ev.ID, feedback); err != nil {
		return nil, fmt.Errorf("failed to store feedback: %w", err)
	}

	summary := &Summary{
		EvaluationID: ev.ID,
		Feedback:     feedback,
		Previous:     ev.Feedback,
		Adjusted:     []WeightChange{},
		Added:        []string{},
	}

	// an evaluation counts once; repeating the same feedback changes nothing
	if ev.Feedback != nil && *ev.Feedback == feedback {
		summary.Skipped = "feedback unchanged"
		return summary, nil
	}

	if ev.IsBlocked {
		summary.Skipped = "evaluation was blocked by a deny rule"
		return summary, nil
	}

	topics, err := l.store.ListInterestTopics(ctx, ev.OrgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load topics: %w", err)
	}

	byKey := make(map[string]org.InterestTopic, len(topics))
	for _, t := range topics {
		byKey[relevance.Normalize(t.Topic)] = t
	}

	delta := weightDelta(feedback)
	if ev.Feedback != nil {
		delta -= weightDelta(*ev.Feedback)
	}

	for _, matched := range ev.MatchedTopics {
		t, ok := byKey[relevance.Normalize(matched)]
		if !ok || !t.Source.Learned() {
			continue
		}
		after := clampWeight(t.Weight + delta)
		if after == t.Weight {
			continue
		}
		if err := l.store.SetInterestTopicWeight(ctx, t.ID, after); err != nil {
			return nil, fmt.Errorf("failed to adjust topic %q: %w", t.Topic, err)
		}
		summary.Adjusted = append(summary.Adjusted, WeightChange{Topic: t.Topic, Before: t.Weight, After: after})
	}

	if useful {
		for _, text := range candidateTopics(ev) {
			key := relevance.Normalize(text)
			if key == "" {
				continue
			}
			if _, exists := byKey[key]; exists {
				continue
			}
			t := &org.InterestTopic{Topic: text, Weight: newTopicWeight, Source: org.SourceLearnedOutcome}
			if err := l.store.UpsertInterestTopic(ctx, ev.OrgID, t); err != nil {
				return nil, fmt.Errorf("failed to add topic %q: %w", text, err)
			}
			byKey[key] = *t
			summary.Added = append(summary.Added, text)
		}
	}

	l.logger.Info("feedback recorded",
		"evaluation", ev.ID,
		"org", ev.OrgID,
		"feedback", feedback,
		"adjusted", len(summary.Adjusted),
		"added", len(summary.Added),
	)

	return summary, nil
}

// candidateTopics returns the stored candidate topics followed by its entity type
func candidateTopics(ev *database.Evaluation) []string {
	out := make([]string, 0, len(ev.Topics)+1)
	out = append(out, ev.Topics...)
	if ev.EntityType != "" {
		out = append(out, ev.EntityType)
	}
	return out
}

// weightDelta is the adjustment one piece of feedback makes to a matched
// learned topic
func weightDelta(f database.Feedback) float64 {
	if f == database.FeedbackUseful {
		return usefulBoost
	}
	return -notUsefulPenalty
}

// clampWeight keeps weights in [0, 1] at two decimals
func clampWeight(w float64) float64 {
	w = math.Round(w*100) / 100
	return math.Max(0, math.Min(1, w))
}
