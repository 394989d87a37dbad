package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hussienjaafar/mojo-digital-wins/internal/alerting"
	"github.com/hussienjaafar/mojo-digital-wins/internal/database"
	"github.com/hussienjaafar/mojo-digital-wins/internal/evaluator"
	"github.com/hussienjaafar/mojo-digital-wins/internal/org"
	"github.com/hussienjaafar/mojo-digital-wins/internal/relevance"
)

func (s *Server) registerHandlers() {
	s.handlers["score_candidate"] = s.handleScoreCandidate
	s.handlers["check_thresholds"] = s.handleCheckThresholds
	s.handlers["default_topics"] = s.handleDefaultTopics
	s.handlers["list_evaluations"] = s.handleListEvaluations
	s.handlers["get_stats"] = s.handleGetStats
}

// resolveOrganization turns a name or ID into a stored organization
func (s *Server) resolveOrganization(ctx context.Context, ref string) (*database.Organization, error) {
	o, err := s.db.ResolveOrganization(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if o == nil {
		return nil, fmt.Errorf("organization not found: %s", ref)
	}
	return o, nil
}

type scoreCandidateParams struct {
	Organization     string                `json:"organization"`
	Candidate        *relevance.Candidate  `json:"candidate"`
	Urgency          float64               `json:"urgency"`
	Record           bool                  `json:"record"`
	Profile          *org.Profile          `json:"profile"`
	InterestTopics   []org.InterestTopic   `json:"interest_topics"`
	EntityRules      []org.EntityRule      `json:"entity_rules"`
	AlertPreferences *org.AlertPreferences `json:"alert_preferences"`
}

type scoreCandidateResult struct {
	Result  relevance.Result  `json:"result"`
	Verdict relevance.Verdict `json:"verdict"`
}

func (s *Server) handleScoreCandidate(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p scoreCandidateParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	if p.Candidate == nil {
		return nil, fmt.Errorf("candidate is required")
	}
	if strings.TrimSpace(p.Candidate.EntityName) == "" {
		return nil, fmt.Errorf("candidate.entityName is required")
	}

	if p.Organization != "" {
		o, err := s.resolveOrganization(ctx, p.Organization)
		if err != nil {
			return nil, err
		}

		opts := evaluator.Options{Workers: 1, DryRun: !p.Record}
		outcomes, err := s.evaluator.Evaluate(ctx, o.ID, []evaluator.Input{{Candidate: *p.Candidate, Urgency: p.Urgency}}, opts)
		if err != nil {
			return nil, err
		}
		return outcomes[0], nil
	}

	if p.Record {
		return nil, fmt.Errorf("record requires a stored organization")
	}

	profile := org.Profile{}
	if p.Profile != nil {
		profile = *p.Profile
	}

	var errs []error
	for i := range p.InterestTopics {
		if p.InterestTopics[i].Source == "" {
			p.InterestTopics[i].Source = org.SourceSelfDeclared
		}
		if err := p.InterestTopics[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("interest_topics[%d]: %w", i, err))
		}
	}
	for i := range p.EntityRules {
		if err := p.EntityRules[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("entity_rules[%d]: %w", i, err))
		}
	}
	if p.AlertPreferences != nil && p.AlertPreferences.DigestMode == "" {
		p.AlertPreferences.DigestMode = org.DigestRealtime
	}
	if p.AlertPreferences != nil {
		if err := p.AlertPreferences.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("alert_preferences: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	result := relevance.CalculateRelevance(*p.Candidate, profile, p.InterestTopics, p.EntityRules)
	return scoreCandidateResult{
		Result:  result,
		Verdict: relevance.PassesThresholds(float64(result.Score), p.Urgency, p.AlertPreferences),
	}, nil
}

type checkThresholdsParams struct {
	RelevanceScore    *float64 `json:"relevance_score"`
	UrgencyScore      *float64 `json:"urgency_score"`
	Organization      string   `json:"organization"`
	MinRelevanceScore *float64 `json:"min_relevance_score"`
	MinUrgencyScore   *float64 `json:"min_urgency_score"`
}

func (s *Server) handleCheckThresholds(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p checkThresholdsParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	if p.RelevanceScore == nil || p.UrgencyScore == nil {
		return nil, fmt.Errorf("relevance_score and urgency_score are required")
	}

	var prefs *org.AlertPreferences
	switch {
	case p.Organization != "":
		o, err := s.resolveOrganization(ctx, p.Organization)
		if err != nil {
			return nil, err
		}
		prefs, err = s.db.GetAlertPreferences(ctx, o.ID)
		if err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
	case p.MinRelevanceScore != nil || p.MinUrgencyScore != nil:
		prefs = &org.AlertPreferences{DigestMode: org.DigestRealtime}
		if p.MinRelevanceScore != nil {
			prefs.MinRelevanceScore = *p.MinRelevanceScore
		}
		if p.MinUrgencyScore != nil {
			prefs.MinUrgencyScore = *p.MinUrgencyScore
		}
	}

	return relevance.PassesThresholds(*p.RelevanceScore, *p.UrgencyScore, prefs), nil
}

type defaultTopicsParams struct {
	OrgType string `json:"org_type"`
}

type defaultTopicsResult struct {
	OrgType org.OrgType         `json:"org_type"`
	Topics  []org.InterestTopic `json:"topics"`
}

func (s *Server) handleDefaultTopics(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p defaultTopicsParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	t := org.OrgType(p.OrgType)
	if !t.Valid() {
		return nil, fmt.Errorf("unknown organization type: %q", p.OrgType)
	}

	return defaultTopicsResult{OrgType: t, Topics: org.DefaultTopicsForOrgType(t)}, nil
}

type listEvaluationsParams struct {
	Organization string `json:"organization"`
	Bucket       string `json:"bucket"`
	Passed       *bool  `json:"passed"`
	Alerted      *bool  `json:"alerted"`
	SinceDays    int    `json:"since_days"`
	Limit        int    `json:"limit"`
}

func (s *Server) handleListEvaluations(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p listEvaluationsParams
	if params != nil {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("invalid parameters: %w", err)
		}
	}

	opts := database.ListOptions{
		Passed:  p.Passed,
		Alerted: p.Alerted,
	}

	if p.Organization != "" {
		o, err := s.resolveOrganization(ctx, p.Organization)
		if err != nil {
			return nil, err
		}
		opts.OrgID = &o.ID
	}

	if p.Bucket != "" && p.Bucket != "all" {
		bucket := relevance.PriorityBucket(p.Bucket)
		switch bucket {
		case relevance.PriorityHigh, relevance.PriorityMedium, relevance.PriorityLow:
			opts.Bucket = &bucket
		default:
			return nil, fmt.Errorf("invalid bucket: %s", p.Bucket)
		}
	}

	if p.SinceDays > 0 {
		since := time.Now().AddDate(0, 0, -p.SinceDays)
		opts.Since = &since
	}

	if p.Limit > 0 {
		opts.Limit = p.Limit
	} else {
		opts.Limit = 20
	}

	evals, err := s.db.ListEvaluations(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return evals, nil
}

type getStatsParams struct {
	Organization string `json:"organization"`
	SinceDays    int    `json:"since_days"`
}

type statsResult struct {
	*database.Stats
	PassRate float64 `json:"pass_rate"`
}

func (s *Server) handleGetStats(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p getStatsParams
	if params != nil {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("invalid parameters: %w", err)
		}
	}

	opts := database.ListOptions{}
	if p.Organization != "" {
		o, err := s.resolveOrganization(ctx, p.Organization)
		if err != nil {
			return nil, err
		}
		opts.OrgID = &o.ID
	}

	if p.SinceDays > 0 {
		since := time.Now().AddDate(0, 0, -p.SinceDays)
		opts.Since = &since
	}

	stats, err := s.db.GetStats(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return statsResult{Stats: stats, PassRate: stats.PassRate()}, nil
}

// Resource handlers

func (s *Server) handleReadResource(ctx context.Context, uri string) (string, error) {
	switch uri {
	case "relevance://organizations":
		return s.getResourceOrganizations(ctx)
	case "relevance://catalog":
		return getResourceCatalog(), nil
	default:
		return "", fmt.Errorf("unknown resource: %s", uri)
	}
}

func (s *Server) getResourceOrganizations(ctx context.Context) (string, error) {
	orgs, err := s.db.ListOrganizations(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Organizations\n=============\n\n")

	if len(orgs) == 0 {
		b.WriteString("No organizations yet. Run 'relevance org create' to add one.\n")
		return b.String(), nil
	}

	now := time.Now()
	for _, o := range orgs {
		sc, err := s.db.LoadScoringContext(ctx, o.ID)
		if err != nil {
			return "", err
		}
		sent, err := s.db.CountAlertsSince(ctx, o.ID, alerting.StartOfDay(now))
		if err != nil {
			return "", err
		}

		orgType := string(o.Type)
		if orgType == "" {
			orgType = "-"
		}
		fmt.Fprintf(&b, "- %s [%s] | %d topic(s) | %d rule(s) | %d alert(s) today\n",
			o.Name, orgType, len(sc.Topics), len(sc.Rules), sent)
		if sc.Preferences != nil {
			fmt.Fprintf(&b, "    min relevance %g, min urgency %g, %s\n",
				sc.Preferences.MinRelevanceScore, sc.Preferences.MinUrgencyScore, sc.Preferences.DigestMode)
		}
	}

	return b.String(), nil
}

func getResourceCatalog() string {
	var b strings.Builder
	b.WriteString("Default Topic Catalog\n=====================\n")

	for _, t := range org.AllOrgTypes() {
		fmt.Fprintf(&b, "\n%s:\n", t)
		for _, topic := range org.DefaultTopicsForOrgType(t) {
			fmt.Fprintf(&b, "  - %s (%.1f)\n", topic.Topic, topic.Weight)
		}
	}

	return b.String()
}
