package recategorize

import "github.com/rpggio/focuslog/internal/domain/activity"

// MatchStrategy is how "this activity" is matched against stored samples.
type MatchStrategy string

const (
	ByURL           MatchStrategy = "by_url"
	ByTitleAndOwner MatchStrategy = "by_title_and_owner"
	ByOwner         MatchStrategy = "by_owner"
)

// MatchFilter selects the samples one recategorization rewrites. Fields not
// used by Strategy are empty.
type MatchFilter struct {
	Strategy  MatchStrategy
	Start     int64
	End       int64
	URL       string
	Title     string
	OwnerName string
}

// Update is the category assignment written to every matched sample.
type Update struct {
	CategoryID string
	Reasoning  string
	At         int64
}

// Request moves one activity to a new category for [StartDateMs, EndDateMs).
type Request struct {
	UserID             string            `json:"user_id"`
	StartDateMs        int64             `json:"start_date_ms"`
	EndDateMs          int64             `json:"end_date_ms"`
	ActivityIdentifier string            `json:"activity_identifier"`
	ItemType           activity.ItemType `json:"item_type"`
	NewCategoryID      string            `json:"new_category_id"`
}

// Result reports what a recategorization changed.
type Result struct {
	UpdatedCount int64            `json:"updated_count"`
	LatestEvent  *activity.Sample `json:"latest_event,omitempty"`
	Strategy     MatchStrategy    `json:"strategy,omitempty"`
}
