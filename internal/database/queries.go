package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hussienjaafar/mojo-digital-wins/internal/org"
	"github.com/hussienjaafar/mojo-digital-wins/internal/relevance"
)

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const orgColumns = `id, name, type, mission, focus_areas, key_issues, geographies, primary_goals, created_at, updated_at`

// CreateOrganization inserts a new organization
func (db *DB) CreateOrganization(ctx context.Context, o *Organization) error {
	return createOrganization(ctx, db, o)
}

func createOrganization(ctx context.Context, q querier, o *Organization) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	o.CreatedAt = time.Now().UTC()
	o.UpdatedAt = o.CreatedAt

	_, err := q.ExecContext(ctx, `
		INSERT INTO organizations (`+orgColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		o.ID, o.Name, o.Type, o.Mission,
		encodeList(o.FocusAreas), encodeList(o.KeyIssues),
		encodeList(o.Geographies), encodeList(o.PrimaryGoals),
		o.CreatedAt, o.UpdatedAt,
	)
	return err
}

// SeedOrganization creates an organization together with its preferences,
// interest topics and entity rules in one transaction
func (db *DB) SeedOrganization(ctx context.Context, o *Organization, prefs *org.AlertPreferences, topics []org.InterestTopic, rules []org.EntityRule) error {
	return db.Transaction(ctx, func(tx *sql.Tx) error {
		if err := createOrganization(ctx, tx, o); err != nil {
			return fmt.Errorf("failed to create organization: %w", err)
		}
		if prefs != nil {
			if err := saveAlertPreferences(ctx, tx, o.ID, prefs); err != nil {
				return fmt.Errorf("failed to save preferences: %w", err)
			}
		}
		for i := range topics {
			if err := upsertInterestTopic(ctx, tx, o.ID, &topics[i]); err != nil {
				return fmt.Errorf("failed to save topic %q: %w", topics[i].Topic, err)
			}
		}
		for i := range rules {
			if err := createEntityRule(ctx, tx, o.ID, &rules[i]); err != nil {
				return fmt.Errorf("failed to save rule %q: %w", rules[i].EntityName, err)
			}
		}
		return nil
	})
}

// GetOrganization retrieves an organization by ID
func (db *DB) GetOrganization(ctx context.Context, id string) (*Organization, error) {
	row := db.QueryRowContext(ctx, `SELECT `+orgColumns+` FROM organizations WHERE id = ?`, id)
	return scanOrganization(row)
}

// GetOrganizationByName retrieves an organization by name (case-insensitive)
func (db *DB) GetOrganizationByName(ctx context.Context, name string) (*Organization, error) {
	row := db.QueryRowContext(ctx, `SELECT `+orgColumns+` FROM organizations WHERE LOWER(name) = LOWER(?)`, name)
	return scanOrganization(row)
}

// ResolveOrganization looks an organization up by ID, then by name
func (db *DB) ResolveOrganization(ctx context.Context, ref string) (*Organization, error) {
	o, err := db.GetOrganization(ctx, ref)
	if err != nil || o != nil {
		return o, err
	}
	return db.GetOrganizationByName(ctx, ref)
}

// ListOrganizations retrieves all organizations ordered by name
func (db *DB) ListOrganizations(ctx context.Context) ([]Organization, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+orgColumns+` FROM organizations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []Organization
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, *o)
	}

	return orgs, rows.Err()
}

// UpdateOrganization updates an existing organization's profile
func (db *DB) UpdateOrganization(ctx context.Context, o *Organization) error {
	o.UpdatedAt = time.Now().UTC()

	result, err := db.ExecContext(ctx, `
		UPDATE organizations SET
			name = ?, type = ?, mission = ?, focus_areas = ?, key_issues = ?,
			geographies = ?, primary_goals = ?, updated_at = ?
		WHERE id = ?
	`,
		o.Name, o.Type, o.Mission, encodeList(o.FocusAreas), encodeList(o.KeyIssues),
		encodeList(o.Geographies), encodeList(o.PrimaryGoals), o.UpdatedAt, o.ID,
	)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("organization not found: %s", o.ID)
	}
	return nil
}

// DeleteOrganization removes an organization and everything attached to it
func (db *DB) DeleteOrganization(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM organizations WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("organization not found: %s", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrganization(row rowScanner) (*Organization, error) {
	o := &Organization{}
	var focus, issues, geos, goals string

	err := row.Scan(
		&o.ID, &o.Name, &o.Type, &o.Mission, &focus, &issues, &geos, &goals,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if o.FocusAreas, err = decodeList(focus); err != nil {
		return nil, fmt.Errorf("bad focus_areas for %s: %w", o.ID, err)
	}
	if o.KeyIssues, err = decodeList(issues); err != nil {
		return nil, fmt.Errorf("bad key_issues for %s: %w", o.ID, err)
	}
	if o.Geographies, err = decodeList(geos); err != nil {
		return nil, fmt.Errorf("bad geographies for %s: %w", o.ID, err)
	}
	if o.PrimaryGoals, err = decodeList(goals); err != nil {
		return nil, fmt.Errorf("bad primary_goals for %s: %w", o.ID, err)
	}
	return o, nil
}

// Interest topics

// UpsertInterestTopic inserts a topic or, when the organization already has
// a topic with the same normalized text, replaces its weight and source
func (db *DB) UpsertInterestTopic(ctx context.Context, orgID string, t *org.InterestTopic) error {
	return upsertInterestTopic(ctx, db, orgID, t)
}

func upsertInterestTopic(ctx context.Context, q querier, orgID string, t *org.InterestTopic) error {
	key := relevance.Normalize(t.Topic)
	if key == "" {
		return fmt.Errorf("topic %q has no matchable text", t.Topic)
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().UTC()

	return q.QueryRowContext(ctx, `
		INSERT INTO interest_topics (id, org_id, topic, topic_key, weight, source, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(org_id, topic_key) DO UPDATE SET
			topic = excluded.topic,
			weight = excluded.weight,
			source = excluded.source,
			updated_at = excluded.updated_at
		RETURNING id
	`, t.ID, orgID, t.Topic, key, t.Weight, t.Source, now, now).Scan(&t.ID)
}

// ListInterestTopics returns an organization's topics, heaviest first
func (db *DB) ListInterestTopics(ctx context.Context, orgID string) ([]org.InterestTopic, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, topic, weight, source FROM interest_topics
		WHERE org_id = ?
		ORDER BY weight DESC, topic
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	topics := []org.InterestTopic{}
	for rows.Next() {
		t := org.InterestTopic{}
		if err := rows.Scan(&t.ID, &t.Topic, &t.Weight, &t.Source); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}

	return topics, rows.Err()
}

// SetInterestTopicWeight changes the weight of a single topic
func (db *DB) SetInterestTopicWeight(ctx context.Context, id string, weight float64) error {
	result, err := db.ExecContext(ctx, `
		UPDATE interest_topics SET weight = ?, updated_at = ? WHERE id = ?
	`, weight, time.Now().UTC(), id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("topic not found: %s", id)
	}
	return nil
}

// DeleteInterestTopic deletes a topic by ID
func (db *DB) DeleteInterestTopic(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM interest_topics WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("topic not found: %s", id)
	}
	return nil
}

// Entity rules

// CreateEntityRule inserts a new allow or deny rule
func (db *DB) CreateEntityRule(ctx context.Context, orgID string, r *org.EntityRule) error {
	return createEntityRule(ctx, db, orgID, r)
}

func createEntityRule(ctx context.Context, q querier, orgID string, r *org.EntityRule) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO entity_rules (id, org_id, entity_name, rule_type, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.ID, orgID, r.EntityName, r.RuleType, r.Reason, time.Now().UTC())
	return err
}

// ListEntityRules returns an organization's rules in creation order
func (db *DB) ListEntityRules(ctx context.Context, orgID string) ([]org.EntityRule, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, entity_name, rule_type, reason FROM entity_rules
		WHERE org_id = ?
		ORDER BY created_at, rowid
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := []org.EntityRule{}
	for rows.Next() {
		r := org.EntityRule{}
		if err := rows.Scan(&r.ID, &r.EntityName, &r.RuleType, &r.Reason); err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}

	return rules, rows.Err()
}

// DeleteEntityRule deletes a rule by ID
func (db *DB) DeleteEntityRule(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM entity_rules WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("rule not found: %s", id)
	}
	return nil
}

// Alert preferences

// GetAlertPreferences returns nil when the organization has none
func (db *DB) GetAlertPreferences(ctx context.Context, orgID string) (*org.AlertPreferences, error) {
	p := &org.AlertPreferences{}

	err := db.QueryRowContext(ctx, `
		SELECT min_relevance_score, min_urgency_score, max_alerts_per_day, digest_mode
		FROM alert_preferences WHERE org_id = ?
	`, orgID).Scan(&p.MinRelevanceScore, &p.MinUrgencyScore, &p.MaxAlertsPerDay, &p.DigestMode)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// SaveAlertPreferences creates or replaces an organization's preferences
func (db *DB) SaveAlertPreferences(ctx context.Context, orgID string, p *org.AlertPreferences) error {
	return saveAlertPreferences(ctx, db, orgID, p)
}

func saveAlertPreferences(ctx context.Context, q querier, orgID string, p *org.AlertPreferences) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO alert_preferences (org_id, min_relevance_score, min_urgency_score, max_alerts_per_day, digest_mode, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(org_id) DO UPDATE SET
			min_relevance_score = excluded.min_relevance_score,
			min_urgency_score = excluded.min_urgency_score,
			max_alerts_per_day = excluded.max_alerts_per_day,
			digest_mode = excluded.digest_mode,
			updated_at = excluded.updated_at
	`, orgID, p.MinRelevanceScore, p.MinUrgencyScore, p.MaxAlertsPerDay, p.DigestMode, time.Now().UTC())
	return err
}

// LoadScoringContext gathers the profile, topics, rules and preferences of
// an organization
func (db *DB) LoadScoringContext(ctx context.Context, orgID string) (*ScoringContext, error) {
	o, err := db.GetOrganization(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load organization: %w", err)
	}
	if o == nil {
		return nil, fmt.Errorf("organization not found: %s", orgID)
	}

	topics, err := db.ListInterestTopics(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load topics: %w", err)
	}

	rules, err := db.ListEntityRules(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	prefs, err := db.GetAlertPreferences(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	return &ScoringContext{
		Profile:     o.Profile,
		Topics:      topics,
		Rules:       rules,
		Preferences: prefs,
	}, nil
}
