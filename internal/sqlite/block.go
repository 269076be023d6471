package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rpggio/focuslog/internal/domain/block"
	"github.com/rpggio/focuslog/internal/repository"
)

// BlockRepository implements block.Repository for SQLite
type BlockRepository struct {
	db *DB
}

// NewBlockRepository creates a new BlockRepository
func NewBlockRepository(db *DB) *BlockRepository {
	return &BlockRepository{db: db}
}

const blockColumns = `id, user_id, start_time, end_time, duration_seconds, app_name, window_title,
	activity_type, source_sample_ids, version`

// Latest returns the user's block with the greatest end time.
func (r *BlockRepository) Latest(ctx context.Context, userID string) (*block.Block, error) {
	b, err := scanBlock(r.db.QueryRowContext(ctx, `
		SELECT `+blockColumns+` FROM blocks
		WHERE user_id = ?
		ORDER BY end_time DESC, created_at DESC
		LIMIT 1
	`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest block: %w", err)
	}
	return b, nil
}

// Create inserts a new block.
func (r *BlockRepository) Create(ctx context.Context, b *block.Block) error {
	ids, err := encodeIDs(b.SourceSampleIDs)
	if err != nil {
		return err
	}
	if b.Version == 0 {
		b.Version = 1
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO blocks (`+blockColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.UserID, b.StartTime, b.EndTime, b.DurationSeconds, b.AppName, b.WindowTitle,
		string(b.ActivityType), ids, b.Version)
	if err != nil {
		return writeError("create block", err)
	}
	return nil
}

// Extend writes b if the stored version still equals expectedVersion.
func (r *BlockRepository) Extend(ctx context.Context, b *block.Block, expectedVersion int64) error {
	ids, err := encodeIDs(b.SourceSampleIDs)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, `
		UPDATE blocks
		SET end_time = ?, duration_seconds = ?, source_sample_ids = ?, version = ?
		WHERE id = ? AND user_id = ? AND version = ?
	`, b.EndTime, b.DurationSeconds, ids, b.Version, b.ID, b.UserID, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to extend block: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to extend block: %w", err)
	}
	if n == 0 {
		return repository.ErrConflict
	}
	return nil
}

// ListRange returns blocks that started in [start, end), oldest first.
func (r *BlockRepository) ListRange(ctx context.Context, userID string, start, end int64) ([]block.Block, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+blockColumns+` FROM blocks
		WHERE user_id = ? AND start_time >= ? AND start_time < ?
		ORDER BY start_time ASC, id ASC
	`, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocks: %w", err)
	}
	defer rows.Close()

	blocks := []block.Block{}
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan block: %w", err)
		}
		blocks = append(blocks, *b)
	}
	return blocks, rows.Err()
}

func encodeIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("failed to encode sample ids: %w", err)
	}
	return string(data), nil
}

func scanBlock(row rowScanner) (*block.Block, error) {
	var b block.Block
	var activityType, ids string
	if err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.StartTime,
		&b.EndTime,
		&b.DurationSeconds,
		&b.AppName,
		&b.WindowTitle,
		&activityType,
		&ids,
		&b.Version,
	); err != nil {
		return nil, err
	}
	b.ActivityType = block.ActivityType(activityType)
	if err := json.Unmarshal([]byte(ids), &b.SourceSampleIDs); err != nil {
		return nil, fmt.Errorf("decode sample ids: %w", err)
	}
	return &b, nil
}
