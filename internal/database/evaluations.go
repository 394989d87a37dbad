package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var evaluationColumns = []string{
	"id", "org_id", "entity_name", "entity_type", "topics", "velocity", "urgency",
	"score", "priority_bucket", "is_blocked", "is_allowlisted", "reasons",
	"matched_topics", "matched_geographies", "passed", "gate_reason", "alerted",
	"deliver_at", "feedback", "feedback_at", "created_at",
}

// CreateEvaluation inserts a new evaluation
func (db *DB) CreateEvaluation(ctx context.Context, e *Evaluation) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.CreatedAt = e.CreatedAt.UTC()

	var deliverAt *time.Time
	if e.DeliverAt != nil {
		t := e.DeliverAt.UTC()
		deliverAt = &t
	}

	query, args, err := sq.Insert("evaluations").
		Columns(evaluationColumns...).
		Values(
			e.ID, e.OrgID, e.EntityName, e.EntityType, encodeList(e.Topics), e.Velocity, e.Urgency,
			e.Score, e.PriorityBucket, e.IsBlocked, e.IsAllowlisted, encodeList(e.Reasons),
			encodeList(e.MatchedTopics), encodeList(e.MatchedGeographies), e.Passed, e.GateReason, e.Alerted,
			NullTime(deliverAt), nullFeedback(e.Feedback), NullTime(e.FeedbackAt), e.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	_, err = db.ExecContext(ctx, query, args...)
	return err
}

// GetEvaluation retrieves an evaluation by ID
func (db *DB) GetEvaluation(ctx context.Context, id string) (*Evaluation, error) {
	query, args, err := sq.Select(evaluationColumns...).
		From("evaluations").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	return scanEvaluation(db.QueryRowContext(ctx, query, args...))
}

// ListEvaluations retrieves evaluations with optional filters, newest first
func (db *DB) ListEvaluations(ctx context.Context, opts ListOptions) ([]Evaluation, error) {
	builder := applyListFilters(sq.Select(evaluationColumns...).From("evaluations"), opts).
		OrderBy("created_at DESC", "rowid DESC")

	if opts.Limit > 0 {
		builder = builder.Limit(uint64(opts.Limit))
		if opts.Offset > 0 {
			builder = builder.Offset(uint64(opts.Offset))
		}
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var evaluations []Evaluation
	for rows.Next() {
		e, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		evaluations = append(evaluations, *e)
	}

	return evaluations, rows.Err()
}

func applyListFilters(b sq.SelectBuilder, opts ListOptions) sq.SelectBuilder {
	if opts.OrgID != nil {
		b = b.Where(sq.Eq{"org_id": *opts.OrgID})
	}
	if opts.Bucket != nil {
		b = b.Where(sq.Eq{"priority_bucket": string(*opts.Bucket)})
	}
	if opts.Blocked != nil {
		b = b.Where(sq.Eq{"is_blocked": *opts.Blocked})
	}
	if opts.Passed != nil {
		b = b.Where(sq.Eq{"passed": *opts.Passed})
	}
	if opts.Alerted != nil {
		b = b.Where(sq.Eq{"alerted": *opts.Alerted})
	}
	if opts.Since != nil {
		b = b.Where(sq.GtOrEq{"created_at": opts.Since.UTC()})
	}
	return b
}

// CountAlertsSince counts alerted evaluations of an organization created at
// or after since
func (db *DB) CountAlertsSince(ctx context.Context, orgID string, since time.Time) (int, error) {
	query, args, err := sq.Select("COUNT(*)").
		From("evaluations").
		Where(sq.Eq{"org_id": orgID, "alerted": true}).
		Where(sq.GtOrEq{"created_at": since.UTC()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// SetFeedback records user feedback on an evaluation
func (db *DB) SetFeedback(ctx context.Context, id string, feedback Feedback) error {
	query, args, err := sq.Update("evaluations").
		Set("feedback", string(feedback)).
		Set("feedback_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update: %w", err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("evaluation not found: %s", id)
	}
	return nil
}

// GetStats aggregates evaluations matching the filters. Limit and Offset are
// ignored.
func (db *DB) GetStats(ctx context.Context, opts ListOptions) (*Stats, error) {
	builder := sq.Select(
		"COUNT(*)",
		"COALESCE(SUM(CASE WHEN priority_bucket = 'high' THEN 1 ELSE 0 END), 0)",
		"COALESCE(SUM(CASE WHEN priority_bucket = 'medium' THEN 1 ELSE 0 END), 0)",
		"COALESCE(SUM(CASE WHEN priority_bucket = 'low' THEN 1 ELSE 0 END), 0)",
		"COALESCE(SUM(is_blocked), 0)",
		"COALESCE(SUM(passed), 0)",
		"COALESCE(SUM(alerted), 0)",
		"COALESCE(SUM(CASE WHEN feedback = 'useful' THEN 1 ELSE 0 END), 0)",
		"COALESCE(SUM(CASE WHEN feedback = 'not_useful' THEN 1 ELSE 0 END), 0)",
		"COALESCE(AVG(score), 0)",
	).From("evaluations")

	query, args, err := applyListFilters(builder, opts).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	s := &Stats{}
	err = db.QueryRowContext(ctx, query, args...).Scan(
		&s.TotalEvaluations, &s.High, &s.Medium, &s.Low, &s.Blocked,
		&s.Passed, &s.Alerted, &s.Useful, &s.NotUseful, &s.AverageScore,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func scanEvaluation(row rowScanner) (*Evaluation, error) {
	e := &Evaluation{}
	var topics, reasons, matchedTopics, matchedGeos string
	var deliverAt, feedbackAt sql.NullTime
	var feedback sql.NullString

	err := row.Scan(
		&e.ID, &e.OrgID, &e.EntityName, &e.EntityType, &topics, &e.Velocity, &e.Urgency,
		&e.Score, &e.PriorityBucket, &e.IsBlocked, &e.IsAllowlisted, &reasons,
		&matchedTopics, &matchedGeos, &e.Passed, &e.GateReason, &e.Alerted,
		&deliverAt, &feedback, &feedbackAt, &e.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if e.Topics, err = decodeList(topics); err != nil {
		return nil, fmt.Errorf("bad topics for %s: %w", e.ID, err)
	}
	if e.Reasons, err = decodeList(reasons); err != nil {
		return nil, fmt.Errorf("bad reasons for %s: %w", e.ID, err)
	}
	if e.MatchedTopics, err = decodeList(matchedTopics); err != nil {
		return nil, fmt.Errorf("bad matched_topics for %s: %w", e.ID, err)
	}
	if e.MatchedGeographies, err = decodeList(matchedGeos); err != nil {
		return nil, fmt.Errorf("bad matched_geographies for %s: %w", e.ID, err)
	}

	e.DeliverAt = TimePtr(deliverAt)
	e.FeedbackAt = TimePtr(feedbackAt)
	if fb := StringPtr(feedback); fb != nil {
		f := Feedback(*fb)
		e.Feedback = &f
	}
	return e, nil
}

func nullFeedback(f *Feedback) sql.NullString {
	if f == nil {
		return sql.NullString{}
	}
	s := string(*f)
	return NullString(&s)
}
