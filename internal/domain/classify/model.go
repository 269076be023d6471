package classify

import (
	"encoding/json"

	"github.com/rpggio/focuslog/internal/domain/activity"
)

// DistractionStatus is the classifier's answer to "is this a distraction?".
type DistractionStatus string

const (
	DistractionYes   DistractionStatus = "yes"
	DistractionNo    DistractionStatus = "no"
	DistractionMaybe DistractionStatus = "maybe"
)

// Fallbacks returned when the slow path cannot produce an answer.
const (
	FallbackMessage   = "Keep going, you're doing fine."
	FallbackReasoning = "Classifier unavailable"
	fastPathReasoning = "Matched productive allow-list"
	fastPathMessage   = "Nice focus, keep it up."
)

// Goals are the user's declared intentions passed to the classifier.
type Goals struct {
	LifeGoal   string `json:"lifeGoal"`
	WeeklyGoal string `json:"weeklyGoal"`
	DailyGoal  string `json:"dailyGoal"`
}

// Request is one activity to classify.
type Request struct {
	Goals        Goals
	Sample       activity.Sample
	MultiPurpose bool
}

// ActivityDetails is the activity as sent to the external classifier.
type ActivityDetails struct {
	OwnerName string `json:"ownerName"`
	Type      string `json:"type"`
	Title     string `json:"title,omitempty"`
	URL       string `json:"url,omitempty"`
	Content   string `json:"content,omitempty"`
	Browser   string `json:"browser,omitempty"`
}

// DistractionVerdict is the result of CheckDistraction.
type DistractionVerdict struct {
	Status              DistractionStatus `json:"distractionStatus"`
	MotivationalMessage string            `json:"motivationalMessage"`
	FastPath            bool              `json:"-"`
}

// CategoryVerdict is the result of SuggestCategory. A nil CategoryID leaves
// the activity uncategorized.
type CategoryVerdict struct {
	CategoryID *string `json:"categoryId"`
	Reasoning  string  `json:"reasoning"`
	FastPath   bool    `json:"-"`
}

// Task names the structured-output contract a prompt expects.
type Task string

const (
	TaskDistraction Task = "distraction_status"
	TaskCategory    Task = "category_suggestion"
)

// Schema is a named JSON schema for structured output.
type Schema struct {
	Name       string         `json:"name"`
	Definition map[string]any `json:"schema"`
}

// Prompt is a structured-output request for the external classifier.
type Prompt struct {
	Task   Task
	System string
	User   string
	Schema Schema
}

// Result is the raw structured payload, or a refusal.
type Result struct {
	Payload json.RawMessage
	Refusal string
}
