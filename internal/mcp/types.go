package mcp

import (
	"github.com/rpggio/focuslog/internal/domain/activity"
	"github.com/rpggio/focuslog/internal/domain/category"
	"github.com/rpggio/focuslog/internal/domain/suggestion"
)

type SubmitSampleParams struct {
	Timestamp      int64         `json:"timestamp"`
	OwnerName      string        `json:"owner_name"`
	Kind           activity.Kind `json:"kind,omitempty"`
	Browser        string        `json:"browser,omitempty"`
	Title          string        `json:"title,omitempty"`
	URL            string        `json:"url,omitempty"`
	ContentSnippet string        `json:"content_snippet,omitempty"`
	CategoryID     *string       `json:"category_id,omitempty"`
	Reasoning      string        `json:"reasoning,omitempty"`
	ScreenshotRef  string        `json:"screenshot_ref,omitempty"`
}

type CheckDistractionParams struct {
	OwnerName      string        `json:"owner_name"`
	Kind           activity.Kind `json:"kind,omitempty"`
	Browser        string        `json:"browser,omitempty"`
	Title          string        `json:"title,omitempty"`
	URL            string        `json:"url,omitempty"`
	ContentSnippet string        `json:"content_snippet,omitempty"`
}

type RecategorizeParams struct {
	StartDateMs        int64             `json:"start_date_ms"`
	EndDateMs          int64             `json:"end_date_ms"`
	ActivityIdentifier string            `json:"activity_identifier"`
	ItemType           activity.ItemType `json:"item_type"`
	NewCategoryID      string            `json:"new_category_id"`
}

// RangeParams selects [StartMs, EndMs).
type RangeParams struct {
	StartMs int64 `json:"start_ms"`
	EndMs   int64 `json:"end_ms"`
}

type ReconcileCalendarParams struct {
	StartMs int64                      `json:"start_ms,omitempty"`
	EndMs   int64                      `json:"end_ms,omitempty"`
	Events  []suggestion.CalendarEvent `json:"events,omitempty"`
}

type SuggestionIDParams struct {
	ID string `json:"id"`
}

type ListSuggestionsParams struct {
	Status suggestion.Status `json:"status,omitempty"`
}

type ListCategoriesParams struct {
	IncludeArchived bool `json:"include_archived,omitempty"`
}

type CreateCategoryParams struct {
	Name                string `json:"name"`
	Color               string `json:"color,omitempty"`
	IsProductive        bool   `json:"is_productive,omitempty"`
	IsLikelyToBeOffline bool   `json:"is_likely_to_be_offline,omitempty"`
}

type ArchiveCategoryParams struct {
	ID string `json:"id"`
}

type UpdateProfileParams struct {
	LifeGoal         *string  `json:"life_goal,omitempty"`
	WeeklyGoal       *string  `json:"weekly_goal,omitempty"`
	DailyGoal        *string  `json:"daily_goal,omitempty"`
	MultiPurposeApps []string `json:"multi_purpose_apps,omitempty"`
}

// SubmitSampleResponse carries the stored sample and its resolved identity.
type SubmitSampleResponse struct {
	Sample   activity.Sample   `json:"sample"`
	Identity activity.Identity `json:"identity"`
}

type ListIntervalsResponse struct {
	Intervals       []activity.Interval `json:"intervals"`
	TotalDurationMs int64               `json:"total_duration_ms"`
}

type ListCategoriesResponse struct {
	Categories []category.Category `json:"categories"`
}

type ListSuggestionsResponse struct {
	Suggestions []suggestion.Suggestion `json:"suggestions"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
