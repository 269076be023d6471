package activity

import "context"

// Repository provides persistence operations for samples.
type Repository interface {
	Create(ctx context.Context, userID string, s *Sample) error
	ListRange(ctx context.Context, userID string, opts RangeOptions) ([]Sample, error)
	UpdateCategorization(ctx context.Context, userID, sampleID string, c Categorization) error
}

// BlockRecorder folds a freshly written sample into the user's canonical blocks.
type BlockRecorder interface {
	Record(ctx context.Context, s Sample) error
}

// Categorizer assigns a category to a sample. A nil result means the sample
// stays uncategorized.
type Categorizer interface {
	Categorize(ctx context.Context, s Sample) (*Categorization, error)
}
