package category

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/focuslog/internal/repository"
)

const defaultColor = "#8E8E93"

// Defaults are seeded for users without any categories.
var Defaults = []CreateRequest{
	{Name: "Work", Color: "#22C55E", IsProductive: true, IsDefault: true},
	{Name: "Communication", Color: "#3B82F6", IsProductive: true},
	{Name: "Distraction", Color: "#EF4444"},
	{Name: "Break", Color: "#F59E0B", IsLikelyToBeOffline: true},
}

// Service handles category business logic.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new category service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateRequest describes a category creation request.
type CreateRequest struct {
	Name                string
	Color               string
	IsProductive        bool
	IsDefault           bool
	IsLikelyToBeOffline bool
}

// Create adds a category. Names are unique per user.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (*Category, error) {
	name := strings.TrimSpace(req.Name)
	if strings.TrimSpace(userID) == "" || name == "" {
		return nil, ErrInvalidInput
	}
	color := strings.TrimSpace(req.Color)
	if color == "" {
		color = defaultColor
	}

	c := &Category{
		ID:                  uuid.NewString(),
		UserID:              userID,
		Name:                name,
		Color:               color,
		IsProductive:        req.IsProductive,
		IsDefault:           req.IsDefault,
		IsLikelyToBeOffline: req.IsLikelyToBeOffline,
		CreatedAt:           time.Now(),
	}
	if err := s.repo.Create(ctx, userID, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("creating category: %w", err)
	}
	return c, nil
}

// Get returns one of the user's categories.
func (s *Service) Get(ctx context.Context, userID, id string) (*Category, error) {
	c, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("getting category: %w", err)
	}
	return c, nil
}

// List returns the user's categories ordered by name.
func (s *Service) List(ctx context.Context, userID string, includeArchived bool) ([]Category, error) {
	return s.repo.List(ctx, userID, includeArchived)
}

// Archive soft-deletes a category. Samples keep referencing it.
func (s *Service) Archive(ctx context.Context, userID, id string) error {
	if err := s.repo.Archive(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("archiving category: %w", err)
	}
	return nil
}

// EnsureDefaults seeds the default categories when the user has none and
// returns the user's active categories.
func (s *Service) EnsureDefaults(ctx context.Context, userID string) ([]Category, error) {
	existing, err := s.repo.List(ctx, userID, true)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	if len(existing) > 0 {
		return activeOnly(existing), nil
	}

	created := make([]Category, 0, len(Defaults))
	for _, req := range Defaults {
		c, err := s.Create(ctx, userID, req)
		if err != nil && !errors.Is(err, ErrDuplicateName) {
			return nil, err
		}
		if c != nil {
			created = append(created, *c)
		}
	}
	if s.logger != nil {
		s.logger.Info("seeded default categories", "user_id", userID, "count", len(created))
	}
	return s.repo.List(ctx, userID, false)
}

func activeOnly(categories []Category) []Category {
	active := make([]Category, 0, len(categories))
	for _, c := range categories {
		if !c.IsArchived {
			active = append(active, c)
		}
	}
	return active
}
