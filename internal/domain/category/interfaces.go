package category

import "context"

// Repository provides persistence for categories.
type Repository interface {
	Create(ctx context.Context, userID string, c *Category) error
	Get(ctx context.Context, userID, id string) (*Category, error)
	List(ctx context.Context, userID string, includeArchived bool) ([]Category, error)
	Archive(ctx context.Context, userID, id string) error
}
