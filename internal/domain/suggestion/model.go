package suggestion

import "time"

// Status is the lifecycle state of a suggestion.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// CalendarEvent is one event from an external calendar. Times are Unix ms.
type CalendarEvent struct {
	ID          string `json:"id"`
	Summary     string `json:"summary"`
	Description string `json:"description,omitempty"`
	StartTime   int64  `json:"start_time"`
	EndTime     int64  `json:"end_time"`
}

// Suggestion proposes recording a past calendar event as activity.
type Suggestion struct {
	ID                      string     `json:"id"`
	UserID                  string     `json:"user_id"`
	ExternalCalendarEventID string     `json:"external_calendar_event_id"`
	StartTime               int64      `json:"start_time"`
	EndTime                 int64      `json:"end_time"`
	Name                    string     `json:"name"`
	SuggestedCategoryID     *string    `json:"suggested_category_id,omitempty"`
	Status                  Status     `json:"status"`
	Reasoning               string     `json:"reasoning,omitempty"`
	CreatedAt               time.Time  `json:"created_at"`
	ResolvedAt              *time.Time `json:"resolved_at,omitempty"`
}

// ReconcileResult counts what one reconciliation run did.
type ReconcileResult struct {
	Created  int `json:"created"`
	Eligible int `json:"eligible"`
	Skipped  int `json:"skipped"`
}

// RowError is one suggestion the store could not insert.
type RowError struct {
	ExternalID string
	Err        error
}

// InsertResult reports the outcome of a batch insert.
type InsertResult struct {
	Inserted   int
	Duplicates int
	Failed     []RowError
}
