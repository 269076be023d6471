package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/focuslog/internal/domain/profile"
	"github.com/rpggio/focuslog/internal/repository"
)

// ProfileRepository implements profile.Repository for SQLite
type ProfileRepository struct {
	db *DB
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Get returns the user's profile or repository.ErrNotFound.
func (r *ProfileRepository) Get(ctx context.Context, userID string) (*profile.Profile, error) {
	var p profile.Profile
	var apps string
	var updatedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, life_goal, weekly_goal, daily_goal, multi_purpose_apps, updated_at
		FROM profiles
		WHERE user_id = ?
	`, userID).Scan(&p.UserID, &p.LifeGoal, &p.WeeklyGoal, &p.DailyGoal, &apps, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if err := json.Unmarshal([]byte(apps), &p.MultiPurposeApps); err != nil {
		return nil, fmt.Errorf("failed to decode multi-purpose apps: %w", err)
	}
	if updatedAt.Valid {
		p.UpdatedAt = updatedAt.Time
	}
	return &p, nil
}

// Upsert writes the whole profile row.
func (r *ProfileRepository) Upsert(ctx context.Context, p *profile.Profile) error {
	apps := p.MultiPurposeApps
	if apps == nil {
		apps = []string{}
	}
	encoded, err := json.Marshal(apps)
	if err != nil {
		return fmt.Errorf("failed to encode multi-purpose apps: %w", err)
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, life_goal, weekly_goal, daily_goal, multi_purpose_apps, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			life_goal = excluded.life_goal,
			weekly_goal = excluded.weekly_goal,
			daily_goal = excluded.daily_goal,
			multi_purpose_apps = excluded.multi_purpose_apps,
			updated_at = excluded.updated_at
	`, p.UserID, p.LifeGoal, p.WeeklyGoal, p.DailyGoal, string(encoded), p.UpdatedAt)
	if err != nil {
		return writeError("upsert profile", err)
	}
	return nil
}
