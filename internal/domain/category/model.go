package category

import "time"

// Category is a user-owned bucket that time is grouped into.
type Category struct {
	ID                  string    `json:"id"`
	UserID              string    `json:"user_id"`
	Name                string    `json:"name"`
	Color               string    `json:"color"`
	IsProductive        bool      `json:"is_productive"`
	IsDefault           bool      `json:"is_default"`
	IsArchived          bool      `json:"is_archived"`
	IsLikelyToBeOffline bool      `json:"is_likely_to_be_offline"`
	CreatedAt           time.Time `json:"created_at"`
}

// Lookup indexes categories by ID.
type Lookup map[string]Category

// NewLookup builds a lookup from a category list.
func NewLookup(categories []Category) Lookup {
	lookup := make(Lookup, len(categories))
	for _, c := range categories {
		lookup[c.ID] = c
	}
	return lookup
}
