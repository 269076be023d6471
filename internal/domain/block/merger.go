package block

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/focuslog/internal/domain/activity"
	"github.com/rpggio/focuslog/internal/observability"
	"github.com/rpggio/focuslog/internal/repository"
)

// MergeThreshold is the largest gap that still extends the latest block.
const MergeThreshold = 15 * time.Second

// Merger extends or supersedes a user's most recent block.
type Merger struct {
	repo       Repository
	categories CategoryGetter
	logger     *slog.Logger
}

// NewMerger creates a block merger. categories may be nil.
func NewMerger(repo Repository, categories CategoryGetter, logger *slog.Logger) *Merger {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Merger{repo: repo, categories: categories, logger: logger}
}

// Record implements activity.BlockRecorder.
func (m *Merger) Record(ctx context.Context, s activity.Sample) error {
	_, _, err := m.Apply(ctx, s)
	return err
}

// ShouldMerge reports whether s continues last.
func ShouldMerge(last *Block, s activity.Sample) bool {
	if last == nil {
		return false
	}
	if last.AppName != s.OwnerName || last.WindowTitle != s.Title {
		return false
	}
	gap := s.Timestamp - last.EndTime
	return gap > 0 && gap <= MergeThreshold.Milliseconds()
}

// Apply merges s into the latest block or starts a new one. It reports
// whether the sample was merged. A lost conditional write falls back to
// creating a new block.
func (m *Merger) Apply(ctx context.Context, s activity.Sample) (*Block, bool, error) {
	last, err := m.repo.Latest(ctx, s.UserID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, false, fmt.Errorf("loading latest block: %w", err)
	}

	if ShouldMerge(last, s) {
		extended := *last
		extended.EndTime = s.Timestamp
		extended.DurationSeconds = (extended.EndTime - extended.StartTime) / 1000
		extended.SourceSampleIDs = append(append([]string{}, last.SourceSampleIDs...), s.ID)
		extended.Version = last.Version + 1

		err := m.repo.Extend(ctx, &extended, last.Version)
		if err == nil {
			observability.RecordBlockWrite(observability.BlockMerged)
			return &extended, true, nil
		}
		if !errors.Is(err, repository.ErrConflict) {
			return nil, false, fmt.Errorf("extending block: %w", err)
		}
		observability.RecordBlockWrite(observability.BlockConflict)
		m.logger.Debug("block extend lost to concurrent write", "user_id", s.UserID, "block_id", last.ID)
	}

	created := &Block{
		ID:              uuid.NewString(),
		UserID:          s.UserID,
		StartTime:       s.Timestamp,
		EndTime:         s.Timestamp,
		DurationSeconds: 0,
		AppName:         s.OwnerName,
		WindowTitle:     s.Title,
		ActivityType:    m.activityType(ctx, s),
		SourceSampleIDs: []string{s.ID},
		Version:         1,
	}
	if err := m.repo.Create(ctx, created); err != nil {
		return nil, false, fmt.Errorf("creating block: %w", err)
	}
	observability.RecordBlockWrite(observability.BlockCreated)
	return created, false, nil
}

func (m *Merger) activityType(ctx context.Context, s activity.Sample) ActivityType {
	if s.Kind == activity.KindSystem {
		return TypeBreak
	}
	if s.CategoryID == nil || m.categories == nil {
		return TypeNeutral
	}
	c, err := m.categories.Get(ctx, s.UserID, *s.CategoryID)
	if err != nil {
		return TypeNeutral
	}
	switch {
	case c.IsProductive:
		return TypeWork
	case c.IsLikelyToBeOffline:
		return TypeBreak
	default:
		return TypeUnproductive
	}
}

// List returns the user's blocks that started in [start, end).
func (m *Merger) List(ctx context.Context, userID string, start, end int64) ([]Block, error) {
	if end <= start {
		return []Block{}, nil
	}
	return m.repo.ListRange(ctx, userID, start, end)
}
