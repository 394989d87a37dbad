// Package evaluator runs candidates through scoring, gating and delivery
// planning for one organization and records the outcome.
package evaluator

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/hussienjaafar/mojo-digital-wins/internal/alerting"
	"github.com/hussienjaafar/mojo-digital-wins/internal/database"
	"github.com/hussienjaafar/mojo-digital-wins/internal/logging"
	"github.com/hussienjaafar/mojo-digital-wins/internal/relevance"
)

// Store is the persistence the evaluator needs
type Store interface {
	LoadScoringContext(ctx context.Context, orgID string) (*database.ScoringContext, error)
	CountAlertsSince(ctx context.Context, orgID string, since time.Time) (int, error)
	CreateEvaluation(ctx context.Context, e *database.Evaluation) error
}

// Input is one candidate plus the urgency score supplied by the caller
type Input struct {
	Candidate relevance.Candidate `json:"candidate" yaml:"candidate"`
	Urgency   float64             `json:"urgency" yaml:"urgency"`
}

// Options controls a batch evaluation
type Options struct {
	Workers int
	DryRun  bool
}

// Outcome is the full result for one input
type Outcome struct {
	EvaluationID string            `json:"evaluation_id,omitempty"`
	Input        Input             `json:"input"`
	Result       relevance.Result  `json:"result"`
	Verdict      relevance.Verdict `json:"verdict"`
	Delivery     alerting.Delivery `json:"delivery"`
}

// Evaluator scores candidates for organizations stored in a Store
type Evaluator struct {
	store  Store
	scorer *relevance.Scorer
	logger *log.Logger
	now    func() time.Time
}

// Option configures an Evaluator
type Option func(*Evaluator)

// WithScorer replaces the default scorer
func WithScorer(s *relevance.Scorer) Option {
	return func(e *Evaluator) {
		if s != nil {
			e.scorer = s
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an evaluator
func New(store Store, logger *log.Logger, opts ...Option) *Evaluator {
	e := &Evaluator{
		store:  store,
		scorer: relevance.NewScorer(),
		logger: logger,
		now:    time.Now,
	}
	if e.logger == nil {
		e.logger = logging.Discard()
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate scores every input against the organization, gates each result
// with the input's urgency and plans delivery against the day's running
// alert count. Outcomes are returned in input order.
func (e *Evaluator) Evaluate(ctx context.Context, orgID string, inputs []Input, opts Options) ([]Outcome, error) {
	sc, err := e.store.LoadScoringContext(ctx, orgID)
	if err != nil {
		return nil, err
	}

	results, err := e.scoreAll(ctx, sc, inputs, opts.Workers)
	if err != nil {
		return nil, err
	}

	now := e.now()
	sentToday, err := e.store.CountAlertsSince(ctx, orgID, alerting.StartOfDay(now))
	if err != nil {
		return nil, fmt.Errorf("failed to count today's alerts: %w", err)
	}

	outcomes := make([]Outcome, 0, len(inputs))
	for i, in := range inputs {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		res := results[i]
		verdict := relevance.PassesThresholds(float64(res.Score), in.Urgency, sc.Preferences)
		delivery := alerting.Plan(verdict, sc.Preferences, sentToday, now)
		if delivery.Alert {
			sentToday++
		}

		out := Outcome{Input: in, Result: res, Verdict: verdict, Delivery: delivery}

		if !opts.DryRun {
			ev := toEvaluation(orgID, out, now)
			if err := e.store.CreateEvaluation(ctx, ev); err != nil {
				return outcomes, fmt.Errorf("failed to record evaluation for %q: %w", in.Candidate.EntityName, err)
			}
			out.EvaluationID = ev.ID
		}

		e.logger.Debug("evaluated candidate",
			"org", orgID,
			"entity", in.Candidate.EntityName,
			"score", res.Score,
			"bucket", res.PriorityBucket,
			"blocked", res.IsBlocked,
			"passes", verdict.Passes,
			"alert", delivery.Alert,
		)

		outcomes = append(outcomes, out)
	}

	e.logger.Info("evaluation complete", "org", orgID, "candidates", len(inputs), "dry_run", opts.DryRun)
	return outcomes, nil
}

// scoreAll runs the scorer over inputs with at most workers goroutines
func (e *Evaluator) scoreAll(ctx context.Context, sc *database.ScoringContext, inputs []Input, workers int) ([]relevance.Result, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([]relevance.Result, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range inputs {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.scorer.Calculate(inputs[i].Candidate, sc.Profile, sc.Topics, sc.Rules)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func toEvaluation(orgID string, out Outcome, now time.Time) *database.Evaluation {
	c := out.Input.Candidate
	ev := &database.Evaluation{
		OrgID:              orgID,
		EntityName:         c.EntityName,
		EntityType:         c.EntityType,
		Topics:             c.Topics,
		Velocity:           c.Velocity,
		Urgency:            out.Input.Urgency,
		Score:              out.Result.Score,
		PriorityBucket:     out.Result.PriorityBucket,
		IsBlocked:          out.Result.IsBlocked,
		IsAllowlisted:      out.Result.IsAllowlisted,
		Reasons:            out.Result.Reasons,
		MatchedTopics:      out.Result.MatchedTopics,
		MatchedGeographies: out.Result.MatchedGeographies,
		Passed:             out.Verdict.Passes,
		GateReason:         out.Delivery.Reason,
		Alerted:            out.Delivery.Alert,
		CreatedAt:          now,
	}
	if out.Delivery.Alert {
		at := out.Delivery.DeliverAt
		ev.DeliverAt = &at
	}
	return ev
}
