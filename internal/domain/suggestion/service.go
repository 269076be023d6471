package suggestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rpggio/focuslog/internal/domain/activity"
	"github.com/rpggio/focuslog/internal/domain/category"
	"github.com/rpggio/focuslog/internal/domain/classify"
	"github.com/rpggio/focuslog/internal/observability"
	"github.com/rpggio/focuslog/internal/repository"
)

// DefaultConcurrency bounds parallel classifier calls during reconciliation.
const DefaultConcurrency = 4

// AcceptedReasoning is used when an accepted suggestion carries no reasoning.
const AcceptedReasoning = "Accepted calendar suggestion"

// CategorySuggester is the classifier gateway operation the reconciler needs.
type CategorySuggester interface {
	SuggestCategory(ctx context.Context, req classify.Request, categories []category.Category) classify.CategoryVerdict
}

// Service reconciles calendar events into suggestions and resolves them.
type Service struct {
	repo        Repository
	samples     SampleTimestamps
	suggester   CategorySuggester
	categories  classify.CategorySource
	profiles    classify.ProfileGetter
	calendar    CalendarProvider
	concurrency int
	logger      *slog.Logger
	now         func() time.Time
}

// Option configures a suggestion service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithConcurrency sets how many events are classified at once.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithCalendar enables ReconcileRange.
func WithCalendar(provider CalendarProvider) Option {
	return func(s *Service) { s.calendar = provider }
}

// WithProfiles passes the user's goals to the classifier.
func WithProfiles(profiles classify.ProfileGetter) Option {
	return func(s *Service) { s.profiles = profiles }
}

// NewService creates a suggestion service.
func NewService(repo Repository, samples SampleTimestamps, suggester CategorySuggester, categories classify.CategorySource, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Service{
		repo:        repo,
		samples:     samples,
		suggester:   suggester,
		categories:  categories,
		concurrency: DefaultConcurrency,
		logger:      logger,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReconcileRange fetches events for [start, end) from the calendar provider
// and reconciles them.
func (s *Service) ReconcileRange(ctx context.Context, userID string, start, end int64) (*ReconcileResult, error) {
	if s.calendar == nil {
		return nil, fmt.Errorf("%w: no calendar provider configured", ErrInvalidInput)
	}
	if strings.TrimSpace(userID) == "" || end <= start {
		return &ReconcileResult{}, nil
	}
	events, err := s.calendar.Events(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetching calendar events: %w", err)
	}
	return s.Reconcile(ctx, userID, events)
}

// Reconcile turns finished, untracked calendar events into pending
// suggestions. Events that already have a suggestion, or overlap any
// recorded sample, are skipped.
func (s *Service) Reconcile(ctx context.Context, userID string, events []CalendarEvent) (*ReconcileResult, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	result := &ReconcileResult{}
	if len(events) == 0 {
		return result, nil
	}

	now := s.now().UnixMilli()
	seen := make(map[string]bool, len(events))
	candidates := make([]CalendarEvent, 0, len(events))
	for _, ev := range events {
		ev.ID = strings.TrimSpace(ev.ID)
		if ev.ID == "" || seen[ev.ID] || ev.StartTime >= ev.EndTime || ev.EndTime > now {
			seen[ev.ID] = true
			continue
		}
		seen[ev.ID] = true
		candidates = append(candidates, ev)
	}
	if len(candidates) == 0 {
		result.Skipped = len(events)
		return result, nil
	}

	minStart, maxEnd := candidates[0].StartTime, candidates[0].EndTime
	ids := make([]string, 0, len(candidates))
	for _, ev := range candidates {
		minStart = min(minStart, ev.StartTime)
		maxEnd = max(maxEnd, ev.EndTime)
		ids = append(ids, ev.ID)
	}

	timestamps, err := s.samples.ListTimestamps(ctx, userID, minStart, maxEnd)
	if err != nil {
		return nil, fmt.Errorf("listing sample timestamps: %w", err)
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] < timestamps[j] })

	existing, err := s.repo.ListByExternalIDs(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("listing existing suggestions: %w", err)
	}
	suggested := make(map[string]bool, len(existing))
	for _, sg := range existing {
		suggested[sg.ExternalCalendarEventID] = true
	}

	eligible := make([]CalendarEvent, 0, len(candidates))
	for _, ev := range candidates {
		if suggested[ev.ID] || hasSampleIn(timestamps, ev.StartTime, ev.EndTime) {
			continue
		}
		eligible = append(eligible, ev)
	}
	result.Eligible = len(eligible)
	result.Skipped = len(events) - len(eligible)
	if len(eligible) == 0 {
		return result, nil
	}

	verdicts, err := s.classifyAll(ctx, userID, eligible)
	if err != nil {
		return nil, err
	}

	createdAt := s.now().UTC()
	rows := make([]Suggestion, 0, len(eligible))
	for i, ev := range eligible {
		rows = append(rows, Suggestion{
			ID:                      uuid.NewString(),
			UserID:                  userID,
			ExternalCalendarEventID: ev.ID,
			StartTime:               ev.StartTime,
			EndTime:                 ev.EndTime,
			Name:                    ev.Summary,
			SuggestedCategoryID:     verdicts[i].CategoryID,
			Status:                  StatusPending,
			Reasoning:               verdicts[i].Reasoning,
			CreatedAt:               createdAt,
		})
	}

	inserted, err := s.repo.InsertBatch(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("inserting suggestions: %w", err)
	}
	for _, failed := range inserted.Failed {
		s.logger.Warn("suggestion insert failed", "user_id", userID, "event_id", failed.ExternalID, "error", failed.Err)
	}
	if inserted.Duplicates > 0 {
		s.logger.Debug("skipped duplicate suggestions", "user_id", userID, "count", inserted.Duplicates)
	}
	result.Created = inserted.Inserted
	observability.RecordSuggestionsCreated(inserted.Inserted)
	return result, nil
}

func (s *Service) classifyAll(ctx context.Context, userID string, events []CalendarEvent) ([]classify.CategoryVerdict, error) {
	categories, err := s.categories.EnsureDefaults(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}
	var goals classify.Goals
	if s.profiles != nil {
		if p, err := s.profiles.Get(ctx, userID); err != nil {
			s.logger.Warn("profile lookup failed", "user_id", userID, "error", err)
		} else if p != nil {
			goals = classify.Goals{LifeGoal: p.LifeGoal, WeeklyGoal: p.WeeklyGoal, DailyGoal: p.DailyGoal}
		}
	}

	verdicts := make([]classify.CategoryVerdict, len(events))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, ev := range events {
		g.Go(func() error {
			req := classify.Request{
				Goals: goals,
				Sample: activity.Sample{
					UserID:         userID,
					Timestamp:      ev.StartTime,
					OwnerName:      ev.Summary,
					Title:          ev.Summary,
					ContentSnippet: ev.Description,
					Kind:           activity.KindManual,
				},
			}
			verdicts[i] = s.suggester.SuggestCategory(gctx, req, categories)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return verdicts, nil
}

// hasSampleIn reports whether any sorted timestamp lies in [start, end).
func hasSampleIn(sorted []int64, start, end int64) bool {
	i := sort.Search(len(sorted), func(i int) bool { return sorted[i] >= start })
	return i < len(sorted) && sorted[i] < end
}

// Accept records the suggestion as a manual sample spanning the event.
func (s *Service) Accept(ctx context.Context, userID, id string) (*activity.Sample, error) {
	sg, err := s.pending(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UnixMilli()
	end := sg.EndTime
	sample := &activity.Sample{
		ID:           uuid.NewString(),
		UserID:       userID,
		Timestamp:    sg.StartTime,
		OwnerName:    sg.Name,
		Kind:         activity.KindManual,
		Title:        sg.Name,
		EndTimestamp: &end,
	}
	if sg.SuggestedCategoryID != nil {
		reasoning := sg.Reasoning
		if reasoning == "" {
			reasoning = AcceptedReasoning
		}
		sample.CategoryID = sg.SuggestedCategoryID
		sample.CategoryReasoning = reasoning
		sample.LastCategorizationAt = &now
	}

	if err := s.repo.Accept(ctx, userID, id, sample, now); err != nil {
		return nil, s.mapResolveErr(err, "accepting suggestion")
	}
	return sample, nil
}

// Reject marks the suggestion rejected.
func (s *Service) Reject(ctx context.Context, userID, id string) error {
	if _, err := s.pending(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Reject(ctx, userID, id, s.now().UnixMilli()); err != nil {
		return s.mapResolveErr(err, "rejecting suggestion")
	}
	return nil
}

// List returns the user's suggestions, optionally filtered by status.
func (s *Service) List(ctx context.Context, userID string, status Status) ([]Suggestion, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	list, err := s.repo.List(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("listing suggestions: %w", err)
	}
	return list, nil
}

func (s *Service) pending(ctx context.Context, userID, id string) (*Suggestion, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(id) == "" {
		return nil, ErrInvalidInput
	}
	sg, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSuggestionNotFound
		}
		return nil, fmt.Errorf("loading suggestion: %w", err)
	}
	if sg.Status != StatusPending {
		return nil, ErrAlreadyResolved
	}
	return sg, nil
}

func (s *Service) mapResolveErr(err error, op string) error {
	switch {
	case errors.Is(err, repository.ErrConflict):
		return ErrAlreadyResolved
	case errors.Is(err, repository.ErrNotFound):
		return ErrSuggestionNotFound
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
