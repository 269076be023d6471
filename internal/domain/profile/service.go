package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/focuslog/internal/repository"
)

// ErrInvalidInput indicates invalid input for profile operations.
var ErrInvalidInput = errors.New("invalid profile input")

// Service reads and updates user profiles.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new profile service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Get returns the user's profile, or an empty one if none was saved.
func (s *Service) Get(ctx context.Context, userID string) (*Profile, error) {
	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &Profile{UserID: userID}, nil
		}
		return nil, fmt.Errorf("getting profile: %w", err)
	}
	return p, nil
}

// UpdateRequest changes the fields that are non-nil.
type UpdateRequest struct {
	LifeGoal         *string
	WeeklyGoal       *string
	DailyGoal        *string
	MultiPurposeApps []string
}

// Update applies a partial update to the user's profile.
func (s *Service) Update(ctx context.Context, userID string, req UpdateRequest) (*Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	current, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	updated := *current
	if req.LifeGoal != nil {
		updated.LifeGoal = strings.TrimSpace(*req.LifeGoal)
	}
	if req.WeeklyGoal != nil {
		updated.WeeklyGoal = strings.TrimSpace(*req.WeeklyGoal)
	}
	if req.DailyGoal != nil {
		updated.DailyGoal = strings.TrimSpace(*req.DailyGoal)
	}
	if req.MultiPurposeApps != nil {
		updated.MultiPurposeApps = req.MultiPurposeApps
	}
	updated.UpdatedAt = time.Now()

	if err := s.repo.Upsert(ctx, &updated); err != nil {
		return nil, fmt.Errorf("saving profile: %w", err)
	}
	return &updated, nil
}
