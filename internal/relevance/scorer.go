package relevance

import (
	"fmt"
	"math"
	"strings"

	"github.com/hussienjaafar/mojo-digital-wins/internal/org"
)

// Scoring weights and bucket boundaries
const (
	topicPointsScale   = 60 // best matched interest weight * 60
	profileMatchPoints = 15 // per profile focus/issue match
	profileMatchCap    = 40
	profileReasonLimit = 3 // matches named in the fallback reason
	allowlistBonus     = 20
	geographyBonus     = 10
	velocityThreshold  = 50 // velocity must exceed this to score
	velocityDivisor    = 50
	velocityCap        = 10
	highThreshold      = 70
	mediumThreshold    = 40
	maxScore           = 100
)

const noMatchReason = "No specific topic or entity matches found."

// Scorer computes relevance results for candidates
type Scorer struct {
	matcher EntityMatcher
}

// Option configures a Scorer
type Option func(*Scorer)

// WithMatcher replaces the default substring matcher
func WithMatcher(m EntityMatcher) Option {
	return func(s *Scorer) {
		if m != nil {
			s.matcher = m
		}
	}
}

// NewScorer creates a Scorer using SubstringMatcher unless overridden
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{matcher: SubstringMatcher{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultScorer = NewScorer()

// CalculateRelevance scores a candidate with the default Scorer
func CalculateRelevance(c Candidate, profile org.Profile, topics []org.InterestTopic, rules []org.EntityRule) Result {
	return defaultScorer.Calculate(c, profile, topics, rules)
}

// Calculate scores a candidate against one organization's profile, interest
// topics and entity rules. A matching deny rule ends evaluation with a
// blocked zero score; otherwise topic, allowlist, geography and velocity
// points are summed and clamped to [0, 100].
func (s *Scorer) Calculate(c Candidate, profile org.Profile, topics []org.InterestTopic, rules []org.EntityRule) Result {
	if rule, ok := s.findRule(rules, org.RuleDeny, c.EntityName); ok {
		return blockedResult(rule)
	}

	result := Result{
		Reasons:            []string{},
		MatchedTopics:      []string{},
		MatchedGeographies: []string{},
	}
	universe := c.topicUniverse()
	score := 0

	// Interest topics first; profile focus areas only when none matched
	if points, matched := s.scoreInterestTopics(c.EntityName, universe, topics); len(matched) > 0 {
		score += points
		result.MatchedTopics = append(result.MatchedTopics, matched...)
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("Matches interest topics: %s (+%d)", strings.Join(matched, ", "), points))
	} else if points, matched := s.scoreProfileTopics(c.EntityName, universe, profile); len(matched) > 0 {
		score += points
		result.MatchedTopics = append(result.MatchedTopics, matched...)
		named := matched
		if len(named) > profileReasonLimit {
			named = named[:profileReasonLimit]
		}
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("Matches organization focus: %s (+%d)", strings.Join(named, ", "), points))
	}

	if rule, ok := s.findRule(rules, org.RuleAllow, c.EntityName); ok {
		score += allowlistBonus
		result.IsAllowlisted = true
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("Allowlisted entity: %q (+%d)", rule.EntityName, allowlistBonus))
	}

	if geos := matchGeographies(c.EntityName, universe, profile.Geographies); len(geos) > 0 {
		score += geographyBonus
		result.MatchedGeographies = append(result.MatchedGeographies, geos...)
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("Geographic relevance: %s (+%d)", strings.Join(geos, ", "), geographyBonus))
	}

	if c.Velocity > velocityThreshold {
		points := velocityCap
		if r := math.Round(c.Velocity / velocityDivisor); r < velocityCap {
			points = int(r)
		}
		score += points
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("Trending velocity %s (+%d)", formatNumber(c.Velocity), points))
	}

	result.Score = clampScore(score)
	result.PriorityBucket = BucketFor(result.Score)
	if len(result.Reasons) == 0 {
		result.Reasons = append(result.Reasons, noMatchReason)
	}

	return result
}

// findRule returns the first rule of the given type matching the entity name
func (s *Scorer) findRule(rules []org.EntityRule, ruleType org.RuleType, entityName string) (org.EntityRule, bool) {
	for _, rule := range rules {
		if rule.RuleType == ruleType && s.matcher.Match(rule.EntityName, entityName) {
			return rule, true
		}
	}
	return org.EntityRule{}, false
}

// matchesCandidate reports whether text matches the entity name or any topic
func (s *Scorer) matchesCandidate(text, entityName string, universe []string) bool {
	if s.matcher.Match(text, entityName) {
		return true
	}
	for _, topic := range universe {
		if s.matcher.Match(text, topic) {
			return true
		}
	}
	return false
}

// scoreInterestTopics awards points for the heaviest matching interest topic
func (s *Scorer) scoreInterestTopics(entityName string, universe []string, topics []org.InterestTopic) (int, []string) {
	var matched []string
	best := 0.0

	for _, t := range topics {
		if !s.matchesCandidate(t.Topic, entityName, universe) {
			continue
		}
		matched = append(matched, t.Topic)
		if t.Weight > best {
			best = t.Weight
		}
	}

	if len(matched) == 0 {
		return 0, nil
	}
	return int(math.Round(best * topicPointsScale)), matched
}

// scoreProfileTopics awards points per matching profile focus area or key issue
func (s *Scorer) scoreProfileTopics(entityName string, universe []string, profile org.Profile) (int, []string) {
	var matched []string
	for _, text := range profileTopics(profile) {
		if s.matchesCandidate(text, entityName, universe) {
			matched = append(matched, text)
		}
	}

	if len(matched) == 0 {
		return 0, nil
	}
	return min(len(matched)*profileMatchPoints, profileMatchCap), matched
}

// profileTopics is the union of focus areas and key issues, first occurrence kept
func profileTopics(profile org.Profile) []string {
	seen := make(map[string]bool, len(profile.FocusAreas)+len(profile.KeyIssues))
	var union []string

	for _, list := range [][]string{profile.FocusAreas, profile.KeyIssues} {
		for _, text := range list {
			if seen[text] {
				continue
			}
			seen[text] = true
			union = append(union, text)
		}
	}
	return union
}

// matchGeographies returns the profile geographies mentioned by the candidate.
// Containment is one-way: the geography must appear inside the candidate text.
func matchGeographies(entityName string, universe []string, geographies []string) []string {
	if len(geographies) == 0 {
		return nil
	}

	name := Normalize(entityName)
	normalizedUniverse := make([]string, 0, len(universe))
	for _, topic := range universe {
		normalizedUniverse = append(normalizedUniverse, Normalize(topic))
	}

	var matched []string
	for _, geo := range geographies {
		g := Normalize(geo)
		if g == "" {
			continue
		}
		if strings.Contains(name, g) || containsAny(normalizedUniverse, g) {
			matched = append(matched, geo)
		}
	}
	return matched
}

func containsAny(haystacks []string, needle string) bool {
	for _, h := range haystacks {
		if strings.Contains(h, needle) {
			return true
		}
	}
	return false
}

func blockedResult(rule org.EntityRule) Result {
	reason := fmt.Sprintf("Blocked by deny rule for %q", rule.EntityName)
	if rule.Reason != "" {
		reason += ": " + rule.Reason
	}

	return Result{
		Score:              0,
		Reasons:            []string{reason},
		IsBlocked:          true,
		PriorityBucket:     PriorityLow,
		MatchedTopics:      []string{},
		MatchedGeographies: []string{},
	}
}

func clampScore(score int) int {
	return max(0, min(score, maxScore))
}

// formatNumber prints whole numbers without a decimal point
func formatNumber(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
