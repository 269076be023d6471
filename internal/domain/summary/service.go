package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/focuslog/internal/domain/activity"
	"github.com/rpggio/focuslog/internal/domain/category"
)

// SampleLister loads raw samples for a window.
type SampleLister interface {
	ListRange(ctx context.Context, userID string, opts activity.RangeOptions) ([]activity.Sample, error)
}

// CategoryLister loads a user's categories.
type CategoryLister interface {
	List(ctx context.Context, userID string, includeArchived bool) ([]category.Category, error)
}

// Service builds summaries on demand. Nothing is cached.
type Service struct {
	samples    SampleLister
	categories CategoryLister
	now        func() time.Time
}

// Option configures a summary service.
type Option func(*Service)

// WithClock overrides the time source used to cap the final interval.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewService creates a summary service.
func NewService(samples SampleLister, categories CategoryLister, opts ...Option) *Service {
	s := &Service{samples: samples, categories: categories, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetSummary aggregates the user's time in [start, end). Archived categories
// are included because older samples may still reference them.
func (s *Service) GetSummary(ctx context.Context, userID string, start, end int64) (*Summary, error) {
	out := &Summary{StartTime: start, EndTime: end, Categories: []ProcessedCategory{}}
	if strings.TrimSpace(userID) == "" || end <= start {
		return out, nil
	}

	samples, err := s.samples.ListRange(ctx, userID, activity.RangeOptions{Start: start, End: end})
	if err != nil {
		return nil, fmt.Errorf("listing samples: %w", err)
	}
	categories, err := s.categories.List(ctx, userID, true)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	lookup := category.NewLookup(categories)

	intervals := activity.BuildIntervals(samples, s.now().UnixMilli())
	out.Categories = Aggregate(intervals, lookup)
	for _, iv := range intervals {
		out.TotalDurationMs += iv.DurationMs
		if iv.CategoryID == nil {
			out.UncategorizedMs += iv.DurationMs
			continue
		}
		if _, ok := lookup[*iv.CategoryID]; !ok {
			out.UncategorizedMs += iv.DurationMs
		}
	}
	return out, nil
}
