package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rpggio/focuslog/internal/domain/activity"
	"github.com/rpggio/focuslog/internal/domain/recategorize"
	"github.com/rpggio/focuslog/internal/repository"
)

// SampleRepository stores raw activity samples. It serves ingestion, the read
// path, recategorization and reconciliation.
type SampleRepository struct {
	db *DB
}

// NewSampleRepository creates a new SampleRepository
func NewSampleRepository(db *DB) *SampleRepository {
	return &SampleRepository{db: db}
}

const sampleColumns = `id, user_id, timestamp, end_timestamp, owner_name, kind, browser, title, url,
	content_snippet, category_id, category_reasoning, last_categorization_at,
	old_category_id, old_category_reasoning, summary, screenshot_ref`

const insertSample = `INSERT INTO samples (` + sampleColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Create inserts a sample. An unknown or foreign category yields
// repository.ErrForeignKeyViolation.
func (r *SampleRepository) Create(ctx context.Context, userID string, s *activity.Sample) error {
	s.UserID = userID
	return createSample(ctx, r.db, s)
}

func createSample(ctx context.Context, db execer, s *activity.Sample) error {
	_, err := db.ExecContext(ctx, insertSample,
		s.ID,
		s.UserID,
		s.Timestamp,
		nullInt64Ptr(s.EndTimestamp),
		s.OwnerName,
		string(s.Kind),
		s.Browser,
		s.Title,
		nullString(s.URL),
		s.ContentSnippet,
		nullStringPtr(s.CategoryID),
		s.CategoryReasoning,
		nullInt64Ptr(s.LastCategorizationAt),
		nullStringPtr(s.OldCategoryID),
		s.OldCategoryReasoning,
		nullString(s.Summary),
		s.ScreenshotRef,
	)
	if err != nil {
		return writeError("create sample", err)
	}
	return nil
}

// ListRange returns samples with Start <= timestamp < End ordered by timestamp.
func (r *SampleRepository) ListRange(ctx context.Context, userID string, opts activity.RangeOptions) ([]activity.Sample, error) {
	query := `SELECT ` + sampleColumns + ` FROM samples
		WHERE user_id = ? AND timestamp >= ? AND timestamp < ?
		ORDER BY timestamp ASC, id ASC`
	args := []any{userID, opts.Start, opts.End}
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}
	return r.query(ctx, query, args...)
}

// UpdateCategorization stores the classifier's result for one sample.
func (r *SampleRepository) UpdateCategorization(ctx context.Context, userID, sampleID string, c activity.Categorization) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE samples
		SET category_id = ?, category_reasoning = ?, summary = ?, last_categorization_at = ?
		WHERE id = ? AND user_id = ?
	`, nullStringPtr(c.CategoryID), c.Reasoning, nullString(c.Summary), c.At, sampleID, userID)
	if err != nil {
		return writeError("update categorization", err)
	}
	return requireAffected(result, "update categorization")
}

// LatestCategorized finds the most recent categorized sample for the same
// owner and URL, or the same owner and title when s has no URL.
func (r *SampleRepository) LatestCategorized(ctx context.Context, userID string, s activity.Sample) (*activity.Sample, error) {
	query := `SELECT ` + sampleColumns + ` FROM samples
		WHERE user_id = ? AND owner_name = ? AND category_id IS NOT NULL AND id != ?`
	args := []any{userID, s.OwnerName, s.ID}
	if url := strings.TrimSpace(s.URL); url != "" {
		query += ` AND url = ?`
		args = append(args, url)
	} else {
		query += ` AND title = ? AND (url IS NULL OR url = '')`
		args = append(args, s.Title)
	}
	query += ` ORDER BY timestamp DESC LIMIT 1`
	return r.one(ctx, query, args...)
}

// FindProbe returns one sample in [start, end) whose url or trimmed title
// equals identifier, URL matches first.
func (r *SampleRepository) FindProbe(ctx context.Context, userID string, start, end int64, identifier string) (*activity.Sample, error) {
	return r.one(ctx, `SELECT `+sampleColumns+` FROM samples
		WHERE user_id = ? AND timestamp >= ? AND timestamp < ? AND (url = ? OR TRIM(title) = ?)
		ORDER BY CASE WHEN url = ? THEN 0 ELSE 1 END, timestamp DESC
		LIMIT 1`,
		userID, start, end, identifier, identifier, identifier)
}

// BulkRecategorize rewrites the category of every matched sample in one
// UPDATE, keeping the previous assignment in the old_* columns.
func (r *SampleRepository) BulkRecategorize(ctx context.Context, userID string, filter recategorize.MatchFilter, update recategorize.Update) (int64, error) {
	where, args, err := matchClause(userID, filter)
	if err != nil {
		return 0, err
	}
	query := `UPDATE samples SET
			old_category_id = category_id,
			old_category_reasoning = category_reasoning,
			category_id = ?,
			category_reasoning = ?,
			summary = NULL,
			last_categorization_at = ?
		WHERE ` + where
	args = append([]any{update.CategoryID, update.Reasoning, update.At}, args...)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, writeError("recategorize samples", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to recategorize samples: %w", err)
	}
	return n, nil
}

// LatestMatching returns the most recent sample matching filter.
func (r *SampleRepository) LatestMatching(ctx context.Context, userID string, filter recategorize.MatchFilter) (*activity.Sample, error) {
	where, args, err := matchClause(userID, filter)
	if err != nil {
		return nil, err
	}
	return r.one(ctx, `SELECT `+sampleColumns+` FROM samples WHERE `+where+` ORDER BY timestamp DESC, id DESC LIMIT 1`, args...)
}

// ListTimestamps returns the timestamps of samples in [start, end], ascending.
func (r *SampleRepository) ListTimestamps(ctx context.Context, userID string, start, end int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT timestamp FROM samples
		WHERE user_id = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC
	`, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list sample timestamps: %w", err)
	}
	defer rows.Close()

	timestamps := []int64{}
	for rows.Next() {
		var ts int64
		if err := rows.Scan(&ts); err != nil {
			return nil, fmt.Errorf("failed to scan timestamp: %w", err)
		}
		timestamps = append(timestamps, ts)
	}
	return timestamps, rows.Err()
}

func matchClause(userID string, filter recategorize.MatchFilter) (string, []any, error) {
	where := `user_id = ? AND timestamp >= ? AND timestamp < ?`
	args := []any{userID, filter.Start, filter.End}
	switch filter.Strategy {
	case recategorize.ByURL:
		where += ` AND url = ?`
		args = append(args, filter.URL)
	case recategorize.ByTitleAndOwner:
		where += ` AND TRIM(title) = ? AND owner_name = ? AND (url IS NULL OR url = '')`
		args = append(args, filter.Title, filter.OwnerName)
	case recategorize.ByOwner:
		where += ` AND owner_name = ?`
		args = append(args, filter.OwnerName)
	default:
		return "", nil, fmt.Errorf("%w: unknown match strategy %q", repository.ErrInvalidInput, filter.Strategy)
	}
	return where, args, nil
}

func (r *SampleRepository) one(ctx context.Context, query string, args ...any) (*activity.Sample, error) {
	s, err := scanSample(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sample: %w", err)
	}
	return s, nil
}

func (r *SampleRepository) query(ctx context.Context, query string, args ...any) ([]activity.Sample, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list samples: %w", err)
	}
	defer rows.Close()

	samples := []activity.Sample{}
	for rows.Next() {
		s, err := scanSample(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		samples = append(samples, *s)
	}
	return samples, rows.Err()
}

func scanSample(row rowScanner) (*activity.Sample, error) {
	var s activity.Sample
	var kind string
	var endTS, lastCat sql.NullInt64
	var url, categoryID, oldCategoryID, summary sql.NullString
	if err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.Timestamp,
		&endTS,
		&s.OwnerName,
		&kind,
		&s.Browser,
		&s.Title,
		&url,
		&s.ContentSnippet,
		&categoryID,
		&s.CategoryReasoning,
		&lastCat,
		&oldCategoryID,
		&s.OldCategoryReasoning,
		&summary,
		&s.ScreenshotRef,
	); err != nil {
		return nil, err
	}
	s.Kind = activity.Kind(kind)
	s.EndTimestamp = int64Ptr(endTS)
	s.URL = url.String
	s.CategoryID = stringPtr(categoryID)
	s.LastCategorizationAt = int64Ptr(lastCat)
	s.OldCategoryID = stringPtr(oldCategoryID)
	s.Summary = summary.String
	return &s, nil
}

func requireAffected(result sql.Result, op string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
