package block

import (
	"context"

	"github.com/rpggio/focuslog/internal/domain/category"
)

// Repository persists canonical blocks.
type Repository interface {
	// Latest returns the user's block with the greatest end time.
	Latest(ctx context.Context, userID string) (*Block, error)
	Create(ctx context.Context, b *Block) error
	// Extend writes b only if the stored version still equals expectedVersion,
	// returning repository.ErrConflict otherwise.
	Extend(ctx context.Context, b *Block, expectedVersion int64) error
	ListRange(ctx context.Context, userID string, start, end int64) ([]Block, error)
}

// CategoryGetter resolves the category a sample was filed under.
type CategoryGetter interface {
	Get(ctx context.Context, userID, id string) (*category.Category, error)
}
