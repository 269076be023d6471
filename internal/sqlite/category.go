package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/focuslog/internal/domain/category"
	"github.com/rpggio/focuslog/internal/repository"
)

// CategoryRepository implements category.Repository for SQLite
type CategoryRepository struct {
	db *DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

const categoryColumns = `id, user_id, name, color, is_productive, is_default, is_archived, is_likely_to_be_offline, created_at`

// Create inserts a category. A duplicate name for the user yields repository.ErrDuplicate.
func (r *CategoryRepository) Create(ctx context.Context, userID string, c *category.Category) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (`+categoryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		c.ID,
		userID,
		c.Name,
		c.Color,
		boolInt(c.IsProductive),
		boolInt(c.IsDefault),
		boolInt(c.IsArchived),
		boolInt(c.IsLikelyToBeOffline),
		c.CreatedAt,
	)
	if err != nil {
		return writeError("create category", err)
	}
	c.UserID = userID
	return nil
}

// Get retrieves a category by ID
func (r *CategoryRepository) Get(ctx context.Context, userID, id string) (*category.Category, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE id = ? AND user_id = ?
	`, id, userID)

	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

// List returns the user's categories ordered by name.
func (r *CategoryRepository) List(ctx context.Context, userID string, includeArchived bool) ([]category.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE user_id = ?`
	if !includeArchived {
		query += ` AND is_archived = 0`
	}
	query += ` ORDER BY name ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []category.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

// Archive soft-deletes a category.
func (r *CategoryRepository) Archive(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE categories SET is_archived = 1 WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to archive category: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to archive category: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (*category.Category, error) {
	var c category.Category
	var productive, isDefault, archived, offline int
	var createdAt sql.NullTime
	if err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Name,
		&c.Color,
		&productive,
		&isDefault,
		&archived,
		&offline,
		&createdAt,
	); err != nil {
		return nil, err
	}
	c.IsProductive = productive != 0
	c.IsDefault = isDefault != 0
	c.IsArchived = archived != 0
	c.IsLikelyToBeOffline = offline != 0
	if createdAt.Valid {
		c.CreatedAt = createdAt.Time
	}
	return &c, nil
}
