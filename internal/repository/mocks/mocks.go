package mocks

import (
	"context"

	"github.com/rpggio/focuslog/internal/domain/activity"
	"github.com/rpggio/focuslog/internal/domain/block"
	"github.com/rpggio/focuslog/internal/domain/category"
	"github.com/rpggio/focuslog/internal/domain/profile"
	"github.com/rpggio/focuslog/internal/domain/recategorize"
	"github.com/rpggio/focuslog/internal/domain/suggestion"
	"github.com/stretchr/testify/mock"
)

// SampleRepository is a mock for the sample store.
type SampleRepository struct {
	mock.Mock
}

func (m *SampleRepository) Create(ctx context.Context, userID string, s *activity.Sample) error {
	args := m.Called(ctx, userID, s)
	return args.Error(0)
}

func (m *SampleRepository) ListRange(ctx context.Context, userID string, opts activity.RangeOptions) ([]activity.Sample, error) {
	args := m.Called(ctx, userID, opts)
	if list, ok := args.Get(0).([]activity.Sample); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SampleRepository) UpdateCategorization(ctx context.Context, userID, sampleID string, c activity.Categorization) error {
	args := m.Called(ctx, userID, sampleID, c)
	return args.Error(0)
}

func (m *SampleRepository) LatestCategorized(ctx context.Context, userID string, s activity.Sample) (*activity.Sample, error) {
	args := m.Called(ctx, userID, s)
	if sample, ok := args.Get(0).(*activity.Sample); ok {
		return sample, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SampleRepository) FindProbe(ctx context.Context, userID string, start, end int64, identifier string) (*activity.Sample, error) {
	args := m.Called(ctx, userID, start, end, identifier)
	if sample, ok := args.Get(0).(*activity.Sample); ok {
		return sample, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SampleRepository) BulkRecategorize(ctx context.Context, userID string, filter recategorize.MatchFilter, update recategorize.Update) (int64, error) {
	args := m.Called(ctx, userID, filter, update)
	return args.Get(0).(int64), args.Error(1)
}

func (m *SampleRepository) LatestMatching(ctx context.Context, userID string, filter recategorize.MatchFilter) (*activity.Sample, error) {
	args := m.Called(ctx, userID, filter)
	if sample, ok := args.Get(0).(*activity.Sample); ok {
		return sample, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SampleRepository) ListTimestamps(ctx context.Context, userID string, start, end int64) ([]int64, error) {
	args := m.Called(ctx, userID, start, end)
	if ts, ok := args.Get(0).([]int64); ok {
		return ts, args.Error(1)
	}
	return nil, args.Error(1)
}

// BlockRepository is a mock for block.Repository.
type BlockRepository struct {
	mock.Mock
}

func (m *BlockRepository) Latest(ctx context.Context, userID string) (*block.Block, error) {
	args := m.Called(ctx, userID)
	if b, ok := args.Get(0).(*block.Block); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BlockRepository) Create(ctx context.Context, b *block.Block) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *BlockRepository) Extend(ctx context.Context, b *block.Block, expectedVersion int64) error {
	args := m.Called(ctx, b, expectedVersion)
	return args.Error(0)
}

func (m *BlockRepository) ListRange(ctx context.Context, userID string, start, end int64) ([]block.Block, error) {
	args := m.Called(ctx, userID, start, end)
	if list, ok := args.Get(0).([]block.Block); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// CategoryRepository is a mock for category.Repository.
type CategoryRepository struct {
	mock.Mock
}

func (m *CategoryRepository) Create(ctx context.Context, userID string, c *category.Category) error {
	args := m.Called(ctx, userID, c)
	return args.Error(0)
}

func (m *CategoryRepository) Get(ctx context.Context, userID, id string) (*category.Category, error) {
	args := m.Called(ctx, userID, id)
	if c, ok := args.Get(0).(*category.Category); ok && c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CategoryRepository) List(ctx context.Context, userID string, includeArchived bool) ([]category.Category, error) {
	args := m.Called(ctx, userID, includeArchived)
	if list, ok := args.Get(0).([]category.Category); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CategoryRepository) Archive(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// ProfileRepository is a mock for profile.Repository.
type ProfileRepository struct {
	mock.Mock
}

func (m *ProfileRepository) Get(ctx context.Context, userID string) (*profile.Profile, error) {
	args := m.Called(ctx, userID)
	if p, ok := args.Get(0).(*profile.Profile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProfileRepository) Upsert(ctx context.Context, p *profile.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// SuggestionRepository is a mock for suggestion.Repository.
type SuggestionRepository struct {
	mock.Mock
}

func (m *SuggestionRepository) ListByExternalIDs(ctx context.Context, userID string, externalIDs []string) ([]suggestion.Suggestion, error) {
	args := m.Called(ctx, userID, externalIDs)
	if list, ok := args.Get(0).([]suggestion.Suggestion); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SuggestionRepository) InsertBatch(ctx context.Context, rows []suggestion.Suggestion) (suggestion.InsertResult, error) {
	args := m.Called(ctx, rows)
	return args.Get(0).(suggestion.InsertResult), args.Error(1)
}

func (m *SuggestionRepository) Get(ctx context.Context, userID, id string) (*suggestion.Suggestion, error) {
	args := m.Called(ctx, userID, id)
	if sg, ok := args.Get(0).(*suggestion.Suggestion); ok {
		return sg, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SuggestionRepository) List(ctx context.Context, userID string, status suggestion.Status) ([]suggestion.Suggestion, error) {
	args := m.Called(ctx, userID, status)
	if list, ok := args.Get(0).([]suggestion.Suggestion); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SuggestionRepository) Accept(ctx context.Context, userID, id string, sample *activity.Sample, at int64) error {
	args := m.Called(ctx, userID, id, sample, at)
	return args.Error(0)
}

func (m *SuggestionRepository) Reject(ctx context.Context, userID, id string, at int64) error {
	args := m.Called(ctx, userID, id, at)
	return args.Error(0)
}
