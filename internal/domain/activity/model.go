package activity

// Kind describes where a sample was captured.
type Kind string

const (
	KindWindow  Kind = "window"
	KindBrowser Kind = "browser"
	KindSystem  Kind = "system"
	KindManual  Kind = "manual"
)

// ItemType distinguishes websites from native applications.
type ItemType string

const (
	ItemTypeWebsite ItemType = "website"
	ItemTypeApp     ItemType = "app"
)

// ManualReasoning is stored as category reasoning when a human moves an activity.
const ManualReasoning = "Updated manually"

// Sample is one point-in-time observation of the active window.
// Timestamps are Unix milliseconds.
type Sample struct {
	ID                   string  `json:"id"`
	UserID               string  `json:"user_id"`
	Timestamp            int64   `json:"timestamp"`
	OwnerName            string  `json:"owner_name"`
	Kind                 Kind    `json:"kind"`
	Browser              string  `json:"browser,omitempty"`
	Title                string  `json:"title,omitempty"`
	URL                  string  `json:"url,omitempty"`
	ContentSnippet       string  `json:"content_snippet,omitempty"`
	CategoryID           *string `json:"category_id,omitempty"`
	CategoryReasoning    string  `json:"category_reasoning,omitempty"`
	LastCategorizationAt *int64  `json:"last_categorization_at,omitempty"`
	OldCategoryID        *string `json:"old_category_id,omitempty"`
	OldCategoryReasoning string  `json:"old_category_reasoning,omitempty"`
	Summary              string  `json:"summary,omitempty"` // cached classifier summary
	ScreenshotRef        string  `json:"screenshot_ref,omitempty"`
	// EndTimestamp is only set on manual samples that span a known range.
	EndTimestamp *int64 `json:"end_timestamp,omitempty"`
}

// Identity is the stable key an activity is grouped and matched by.
type Identity struct {
	ItemType    ItemType `json:"item_type"`
	Identifier  string   `json:"identifier"`
	DisplayName string   `json:"display_name"`
	OriginalURL string   `json:"original_url,omitempty"`
}

// Interval is a derived duration span between consecutive samples. It is
// never persisted.
type Interval struct {
	StartTime  int64   `json:"start_time"`
	EndTime    int64   `json:"end_time"`
	DurationMs int64   `json:"duration_ms"`
	OwnerName  string  `json:"owner_name"`
	Title      string  `json:"title,omitempty"`
	URL        string  `json:"url,omitempty"`
	CategoryID *string `json:"category_id,omitempty"`
	Sample     Sample  `json:"sample"`
}

// Categorization is the category assignment produced for one sample.
type Categorization struct {
	CategoryID *string
	Reasoning  string
	Summary    string
	At         int64
}
