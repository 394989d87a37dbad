package evaluator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hussienjaafar/mojo-digital-wins/internal/database"
	"github.com/hussienjaafar/mojo-digital-wins/internal/org"
	"github.com/hussienjaafar/mojo-digital-wins/internal/relevance"
)

type fakeStore struct {
	mu        sync.Mutex
	sc        *database.ScoringContext
	loadErr   error
	alerts    int
	createErr error
	created   []*database.Evaluation
	since     time.Time
}

func (f *fakeStore) LoadScoringContext(ctx context.Context, orgID string) (*database.ScoringContext, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.sc, nil
}

func (f *fakeStore) CountAlertsSince(ctx context.Context, orgID string, since time.Time) (int, error) {
	f.since = since
	return f.alerts, nil
}

func (f *fakeStore) CreateEvaluation(ctx context.Context, e *database.Evaluation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	e.ID = fmt.Sprintf("eval-%d", len(f.created)+1)
	f.created = append(f.created, e)
	return nil
}

var fixedNow = time.Date(2026, 3, 14, 15, 42, 0, 0, time.UTC)

func testContext(prefs *org.AlertPreferences) *database.ScoringContext {
	return &database.ScoringContext{
		Profile: org.Profile{Name: "Great Lakes Climate Action", Geographies: []string{"Ohio"}},
		Topics: []org.InterestTopic{
			{Topic: "clean energy", Weight: 1.0, Source: org.SourceSelfDeclared},
			{Topic: "emissions", Weight: 0.5, Source: org.SourceSelfDeclared},
		},
		Rules: []org.EntityRule{
			{EntityName: "Acme Coal", RuleType: org.RuleDeny, Reason: "polluter"},
		},
		Preferences: prefs,
	}
}

func input(name string, urgency float64, topics ...string) Input {
	return Input{Candidate: relevance.Candidate{EntityName: name, Topics: topics}, Urgency: urgency}
}

func newTestEvaluator(store Store) *Evaluator {
	return New(store, nil, WithClock(func() time.Time { return fixedNow }))
}

func TestEvaluate_OrderAndScores(t *testing.T) {
	store := &fakeStore{sc: testContext(nil)}
	ev := newTestEvaluator(store)

	inputs := []Input{
		input("Solar Co-op", 10, "clean energy"),
		input("Acme Coal", 90, "clean energy"),
		input("Bake Sale", 10, "baking"),
		input("Ohio Wind Farm", 10, "emissions"),
	}

	outcomes, err := ev.Evaluate(context.Background(), "org-1", inputs, Options{Workers: 3})
	require.NoError(t, err)
	require.Len(t, outcomes, 4)

	assert.Equal(t, 60, outcomes[0].Result.Score)
	assert.True(t, outcomes[1].Result.IsBlocked)
	assert.Equal(t, 0, outcomes[2].Result.Score)
	assert.Equal(t, 40, outcomes[3].Result.Score) // 30 topic + 10 geography

	for i, out := range outcomes {
		assert.Equal(t, inputs[i], out.Input)
		assert.Equal(t, fmt.Sprintf("eval-%d", i+1), out.EvaluationID)
		assert.True(t, out.Verdict.Passes, "nil preferences pass everything")
	}

	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), store.since)
	require.Len(t, store.created, 4)
	assert.Equal(t, "Acme Coal", store.created[1].EntityName)
	assert.True(t, store.created[1].IsBlocked)
	assert.Equal(t, fixedNow, store.created[0].CreatedAt)
}

func TestEvaluate_GateAndCap(t *testing.T) {
	prefs := &org.AlertPreferences{
		MinRelevanceScore: 50,
		MinUrgencyScore:   30,
		MaxAlertsPerDay:   2,
		DigestMode:        org.DigestHourly,
	}
	store := &fakeStore{sc: testContext(prefs), alerts: 1}
	ev := newTestEvaluator(store)

	inputs := []Input{
		input("Low Relevance", 90, "emissions"),
		input("Low Urgency", 10, "clean energy"),
		input("First Alert", 80, "clean energy"),
		input("Over Cap", 80, "clean energy"),
	}

	outcomes, err := ev.Evaluate(context.Background(), "org-1", inputs, Options{Workers: 2})
	require.NoError(t, err)

	assert.False(t, outcomes[0].Verdict.Passes)
	assert.Contains(t, outcomes[0].Verdict.Reason, "Relevance score 30")
	assert.False(t, outcomes[0].Delivery.Alert)

	assert.False(t, outcomes[1].Verdict.Passes)
	assert.Contains(t, outcomes[1].Verdict.Reason, "Urgency score 10")

	assert.True(t, outcomes[2].Verdict.Passes)
	assert.True(t, outcomes[2].Delivery.Alert)
	assert.Equal(t, time.Date(2026, 3, 14, 16, 0, 0, 0, time.UTC), outcomes[2].Delivery.DeliverAt)

	assert.True(t, outcomes[3].Verdict.Passes)
	assert.False(t, outcomes[3].Delivery.Alert)
	assert.Equal(t, "Daily alert limit of 2 reached", outcomes[3].Delivery.Reason)

	require.Len(t, store.created, 4)
	assert.True(t, store.created[2].Alerted)
	require.NotNil(t, store.created[2].DeliverAt)
	assert.Nil(t, store.created[3].DeliverAt)
	assert.Equal(t, "Daily alert limit of 2 reached", store.created[3].GateReason)
}

func TestEvaluate_DryRun(t *testing.T) {
	store := &fakeStore{sc: testContext(nil)}
	ev := newTestEvaluator(store)

	outcomes, err := ev.Evaluate(context.Background(), "org-1", []Input{input("Solar Co-op", 0, "clean energy")}, Options{DryRun: true})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)

	assert.Empty(t, outcomes[0].EvaluationID)
	assert.Empty(t, store.created)
}

func TestEvaluate_Errors(t *testing.T) {
	t.Run("load failure", func(t *testing.T) {
		store := &fakeStore{loadErr: errors.New("organization not found: x")}
		_, err := newTestEvaluator(store).Evaluate(context.Background(), "x", nil, Options{})
		assert.ErrorContains(t, err, "organization not found")
	})

	t.Run("persist failure", func(t *testing.T) {
		store := &fakeStore{sc: testContext(nil), createErr: errors.New("disk full")}
		_, err := newTestEvaluator(store).Evaluate(context.Background(), "org-1", []Input{input("Solar Co-op", 0)}, Options{})
		assert.ErrorContains(t, err, "disk full")
		assert.ErrorContains(t, err, "Solar Co-op")
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		store := &fakeStore{sc: testContext(nil)}
		_, err := newTestEvaluator(store).Evaluate(ctx, "org-1", []Input{input("Solar Co-op", 0)}, Options{Workers: 1})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, store.created)
	})
}

func TestEvaluate_Empty(t *testing.T) {
	store := &fakeStore{sc: testContext(nil)}

	outcomes, err := newTestEvaluator(store).Evaluate(context.Background(), "org-1", nil, Options{Workers: 0})
	require.NoError(t, err)
	assert.Empty(t, outcomes)
}

type exactMatcher struct{}

func (exactMatcher) Match(a, b string) bool {
	return relevance.Normalize(a) == relevance.Normalize(b)
}

func TestEvaluate_WithScorer(t *testing.T) {
	in := []Input{input("Solar Co-op", 0, "clean energy policy")}

	outcomes, err := newTestEvaluator(&fakeStore{sc: testContext(nil)}).
		Evaluate(context.Background(), "org-1", in, Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 60, outcomes[0].Result.Score)

	exact := New(&fakeStore{sc: testContext(nil)}, nil,
		WithScorer(relevance.NewScorer(relevance.WithMatcher(exactMatcher{}))))
	outcomes, err = exact.Evaluate(context.Background(), "org-1", in, Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 0, outcomes[0].Result.Score)
	assert.Equal(t, relevance.PriorityLow, outcomes[0].Result.PriorityBucket)
}

func TestEvaluate_Database(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	o := &database.Organization{Profile: org.Profile{Name: "Labor Org", Type: org.TypeLabor}}
	prefs := &org.AlertPreferences{MinRelevanceScore: 40, MaxAlertsPerDay: 1, DigestMode: org.DigestRealtime}
	require.NoError(t, db.SeedOrganization(ctx, o, prefs, org.DefaultTopicsForOrgType(org.TypeLabor), nil))

	ev := New(db, nil)
	inputs := []Input{
		input("Warehouse Strike", 50, "strike", "union"),
		input("Nurses Union Drive", 50, "union"),
	}

	outcomes, err := ev.Evaluate(ctx, o.ID, inputs, Options{Workers: 2})
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	assert.True(t, outcomes[0].Delivery.Alert)
	assert.False(t, outcomes[1].Delivery.Alert)

	stored, err := db.ListEvaluations(ctx, database.ListOptions{OrgID: &o.ID})
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	count, err := db.CountAlertsSince(ctx, o.ID, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// A second run sees today's alert and stays capped
	outcomes, err = ev.Evaluate(ctx, o.ID, inputs[:1], Options{})
	require.NoError(t, err)
	assert.False(t, outcomes[0].Delivery.Alert)
}
