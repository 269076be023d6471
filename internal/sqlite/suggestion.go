package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/focuslog/internal/domain/activity"
	"github.com/rpggio/focuslog/internal/domain/suggestion"
	"github.com/rpggio/focuslog/internal/repository"
)

// SuggestionRepository implements suggestion.Repository for SQLite
type SuggestionRepository struct {
	db *DB
}

// NewSuggestionRepository creates a new SuggestionRepository
func NewSuggestionRepository(db *DB) *SuggestionRepository {
	return &SuggestionRepository{db: db}
}

const suggestionColumns = `id, user_id, external_calendar_event_id, start_time, end_time, name,
	suggested_category_id, status, reasoning, created_at, resolved_at`

// ListByExternalIDs returns the user's suggestions for the given event IDs.
func (r *SuggestionRepository) ListByExternalIDs(ctx context.Context, userID string, externalIDs []string) ([]suggestion.Suggestion, error) {
	if len(externalIDs) == 0 {
		return []suggestion.Suggestion{}, nil
	}
	args := make([]any, 0, len(externalIDs)+1)
	args = append(args, userID)
	for _, id := range externalIDs {
		args = append(args, id)
	}
	return r.query(ctx, `SELECT `+suggestionColumns+` FROM suggestions
		WHERE user_id = ? AND external_calendar_event_id IN (`+placeholders(len(externalIDs))+`)
		ORDER BY start_time ASC`, args...)
}

// InsertBatch inserts each row with ON CONFLICT DO NOTHING on the
// (user, event) pair. Rows failing for other reasons are reported, and the
// remaining rows are still inserted.
func (r *SuggestionRepository) InsertBatch(ctx context.Context, rows []suggestion.Suggestion) (suggestion.InsertResult, error) {
	var result suggestion.InsertResult
	if len(rows) == 0 {
		return result, nil
	}

	err := r.db.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO suggestions (`+suggestionColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)
			ON CONFLICT (user_id, external_calendar_event_id) DO NOTHING
		`)
		if err != nil {
			return fmt.Errorf("prepare suggestion insert: %w", err)
		}
		defer stmt.Close()

		for _, sg := range rows {
			createdAt := sg.CreatedAt
			if createdAt.IsZero() {
				createdAt = time.Now().UTC()
			}
			res, err := stmt.ExecContext(ctx,
				sg.ID,
				sg.UserID,
				sg.ExternalCalendarEventID,
				sg.StartTime,
				sg.EndTime,
				sg.Name,
				nullStringPtr(sg.SuggestedCategoryID),
				string(sg.Status),
				sg.Reasoning,
				createdAt,
			)
			if err != nil {
				if isUniqueViolation(err) {
					result.Duplicates++
					continue
				}
				result.Failed = append(result.Failed, suggestion.RowError{ExternalID: sg.ExternalCalendarEventID, Err: err})
				continue
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("suggestion insert result: %w", err)
			}
			if n == 0 {
				result.Duplicates++
				continue
			}
			result.Inserted++
		}
		return nil
	})
	if err != nil {
		return suggestion.InsertResult{}, err
	}
	return result, nil
}

// Get returns one suggestion.
func (r *SuggestionRepository) Get(ctx context.Context, userID, id string) (*suggestion.Suggestion, error) {
	sg, err := scanSuggestion(r.db.QueryRowContext(ctx,
		`SELECT `+suggestionColumns+` FROM suggestions WHERE id = ? AND user_id = ?`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get suggestion: %w", err)
	}
	return sg, nil
}

// List returns the user's suggestions, newest event first. An empty status
// lists all.
func (r *SuggestionRepository) List(ctx context.Context, userID string, status suggestion.Status) ([]suggestion.Suggestion, error) {
	query := `SELECT ` + suggestionColumns + ` FROM suggestions WHERE user_id = ?`
	args := []any{userID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY start_time DESC, id ASC`
	return r.query(ctx, query, args...)
}

// Accept flips a pending suggestion and inserts the manual sample in one
// transaction.
func (r *SuggestionRepository) Accept(ctx context.Context, userID, id string, sample *activity.Sample, at int64) error {
	sample.UserID = userID
	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		if err := resolve(ctx, tx, userID, id, suggestion.StatusAccepted, at); err != nil {
			return err
		}
		return createSample(ctx, tx, sample)
	})
}

// Reject flips a pending suggestion to rejected.
func (r *SuggestionRepository) Reject(ctx context.Context, userID, id string, at int64) error {
	return resolve(ctx, r.db, userID, id, suggestion.StatusRejected, at)
}

type queryExecer interface {
	execer
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func resolve(ctx context.Context, db queryExecer, userID, id string, status suggestion.Status, at int64) error {
	result, err := db.ExecContext(ctx, `
		UPDATE suggestions SET status = ?, resolved_at = ?
		WHERE id = ? AND user_id = ? AND status = 'pending'
	`, string(status), at, id, userID)
	if err != nil {
		return fmt.Errorf("failed to resolve suggestion: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to resolve suggestion: %w", err)
	}
	if n > 0 {
		return nil
	}

	var exists int
	err = db.QueryRowContext(ctx, `SELECT 1 FROM suggestions WHERE id = ? AND user_id = ?`, id, userID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check suggestion: %w", err)
	}
	return repository.ErrConflict
}

func (r *SuggestionRepository) query(ctx context.Context, query string, args ...any) ([]suggestion.Suggestion, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list suggestions: %w", err)
	}
	defer rows.Close()

	list := []suggestion.Suggestion{}
	for rows.Next() {
		sg, err := scanSuggestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}
		list = append(list, *sg)
	}
	return list, rows.Err()
}

func scanSuggestion(row rowScanner) (*suggestion.Suggestion, error) {
	var sg suggestion.Suggestion
	var categoryID sql.NullString
	var status string
	var createdAt sql.NullTime
	var resolvedAt sql.NullInt64
	if err := row.Scan(
		&sg.ID,
		&sg.UserID,
		&sg.ExternalCalendarEventID,
		&sg.StartTime,
		&sg.EndTime,
		&sg.Name,
		&categoryID,
		&status,
		&sg.Reasoning,
		&createdAt,
		&resolvedAt,
	); err != nil {
		return nil, err
	}
	sg.SuggestedCategoryID = stringPtr(categoryID)
	sg.Status = suggestion.Status(status)
	if createdAt.Valid {
		sg.CreatedAt = createdAt.Time
	}
	if resolvedAt.Valid {
		t := time.UnixMilli(resolvedAt.Int64).UTC()
		sg.ResolvedAt = &t
	}
	return &sg, nil
}
