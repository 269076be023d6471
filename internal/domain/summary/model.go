package summary

import "github.com/rpggio/focuslog/internal/domain/activity"

// ActivityItem is the time spent on one identifier within one category.
type ActivityItem struct {
	Identifier  string            `json:"identifier"`
	DisplayName string            `json:"display_name"`
	ItemType    activity.ItemType `json:"item_type"`
	DurationMs  int64             `json:"duration_ms"`
	OriginalURL string            `json:"original_url,omitempty"`
}

// ProcessedCategory is one category's share of a window.
type ProcessedCategory struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Color           string         `json:"color"`
	IsProductive    bool           `json:"is_productive"`
	TotalDurationMs int64          `json:"total_duration_ms"`
	Activities      []ActivityItem `json:"activities"`
}

// Summary is the categorized view of [StartTime, EndTime).
type Summary struct {
	StartTime       int64               `json:"start_time"`
	EndTime         int64               `json:"end_time"`
	Categories      []ProcessedCategory `json:"categories"`
	UncategorizedMs int64               `json:"uncategorized_ms"`
	TotalDurationMs int64               `json:"total_duration_ms"`
}
