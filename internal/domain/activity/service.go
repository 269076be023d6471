package activity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/focuslog/internal/observability"
	"github.com/rpggio/focuslog/internal/repository"
)

// Service handles sample ingestion and the interval read path.
type Service struct {
	repo        Repository
	blocks      BlockRecorder
	categorizer Categorizer
	logger      *slog.Logger
	now         func() time.Time
}

// Option configures optional service settings.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewService creates a new activity service. blocks and categorizer may be nil.
func NewService(repo Repository, blocks BlockRecorder, categorizer Categorizer, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Service{
		repo:        repo,
		blocks:      blocks,
		categorizer: categorizer,
		logger:      logger,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitRequest describes one sample reported by a tracking client.
type SubmitRequest struct {
	Timestamp      int64
	OwnerName      string
	Kind           Kind
	Browser        string
	Title          string
	URL            string
	ContentSnippet string
	CategoryID     *string
	Reasoning      string
	ScreenshotRef  string
}

// Submit persists a sample, makes one bounded categorization attempt and
// folds the sample into the canonical blocks. Only the sample write can fail
// the call. Title is stored trimmed so it matches the identifier Resolve
// derives from it.
func (s *Service) Submit(ctx context.Context, userID string, req SubmitRequest) (*Sample, error) {
	if strings.TrimSpace(userID) == "" || req.Timestamp <= 0 {
		return nil, ErrInvalidInput
	}
	kind := req.Kind
	switch kind {
	case "":
		kind = KindWindow
	case KindWindow, KindBrowser, KindSystem, KindManual:
	default:
		return nil, ErrInvalidInput
	}

	sample := &Sample{
		ID:             uuid.NewString(),
		UserID:         userID,
		Timestamp:      req.Timestamp,
		OwnerName:      strings.TrimSpace(req.OwnerName),
		Kind:           kind,
		Browser:        req.Browser,
		Title:          strings.TrimSpace(req.Title),
		URL:            strings.TrimSpace(req.URL),
		ContentSnippet: req.ContentSnippet,
		ScreenshotRef:  req.ScreenshotRef,
	}
	if req.CategoryID != nil && *req.CategoryID != "" {
		at := s.now().UnixMilli()
		sample.CategoryID = req.CategoryID
		sample.CategoryReasoning = req.Reasoning
		sample.LastCategorizationAt = &at
	}

	if err := s.repo.Create(ctx, userID, sample); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, ErrInvalidCategory
		}
		return nil, fmt.Errorf("creating sample: %w", err)
	}
	observability.RecordSampleIngested(string(sample.Kind))

	// Categorize before merging: a new block takes its activity type from
	// the sample's category.
	if sample.CategoryID == nil && s.categorizer != nil {
		s.categorize(ctx, sample)
	}

	if s.blocks != nil {
		if err := s.blocks.Record(ctx, *sample); err != nil {
			s.logger.Warn("block merge failed", "user_id", userID, "sample_id", sample.ID, "error", err)
		}
	}

	return sample, nil
}

func (s *Service) categorize(ctx context.Context, sample *Sample) {
	result, err := s.categorizer.Categorize(ctx, *sample)
	if err != nil {
		s.logger.Warn("categorization failed", "user_id", sample.UserID, "sample_id", sample.ID, "error", err)
		return
	}
	if result == nil || result.CategoryID == nil {
		return
	}
	if result.At == 0 {
		result.At = s.now().UnixMilli()
	}
	if err := s.repo.UpdateCategorization(ctx, sample.UserID, sample.ID, *result); err != nil {
		s.logger.Warn("storing categorization failed", "user_id", sample.UserID, "sample_id", sample.ID, "error", err)
		return
	}
	at := result.At
	sample.CategoryID = result.CategoryID
	sample.CategoryReasoning = result.Reasoning
	sample.Summary = result.Summary
	sample.LastCategorizationAt = &at
}

// ListSamples returns the user's samples in [start, end) ordered by timestamp.
func (s *Service) ListSamples(ctx context.Context, userID string, start, end int64) ([]Sample, error) {
	if strings.TrimSpace(userID) == "" || end <= start {
		return []Sample{}, nil
	}
	samples, err := s.repo.ListRange(ctx, userID, RangeOptions{Start: start, End: end})
	if err != nil {
		return nil, fmt.Errorf("listing samples: %w", err)
	}
	return samples, nil
}

// ListIntervals recomputes the intervals for [start, end).
func (s *Service) ListIntervals(ctx context.Context, userID string, start, end int64) ([]Interval, error) {
	samples, err := s.ListSamples(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	return BuildIntervals(samples, s.now().UnixMilli()), nil
}
