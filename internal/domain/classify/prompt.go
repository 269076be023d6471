package classify

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rpggio/focuslog/internal/domain/activity"
	"github.com/rpggio/focuslog/internal/domain/category"
)

const (
	maxURLRunes     = 150
	maxContentRunes = 2000
)

const distractionSystem = `You help a person stay focused on their goals.
Given their goals and the activity they are doing right now, decide whether the
activity is a distraction. Answer "yes", "no" or "maybe" and add one short
motivational sentence addressed to the person.`

const categorySystem = `You sort computer activity into the person's own categories.
Pick the single category that best fits the activity, using the category id
exactly as listed. Answer with a null categoryId when none fits. Keep the
reasoning to one sentence.`

var distractionSchema = Schema{
	Name: string(TaskDistraction),
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"distractionStatus":   map[string]any{"type": "string", "enum": []string{"yes", "no", "maybe"}},
			"motivationalMessage": map[string]any{"type": "string"},
		},
		"required":             []string{"distractionStatus", "motivationalMessage"},
		"additionalProperties": false,
	},
}

var categorySchema = Schema{
	Name: string(TaskCategory),
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"categoryId": map[string]any{"type": []string{"string", "null"}},
			"reasoning":  map[string]any{"type": "string"},
		},
		"required":             []string{"categoryId", "reasoning"},
		"additionalProperties": false,
	},
}

type promptPayload struct {
	LifeGoal        string           `json:"lifeGoal"`
	WeeklyGoal      string           `json:"weeklyGoal"`
	DailyGoal       string           `json:"dailyGoal"`
	ActivityDetails ActivityDetails  `json:"activityDetails"`
	Categories      []promptCategory `json:"categories,omitempty"`
}

type promptCategory struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	IsProductive bool   `json:"isProductive"`
}

// Details converts a sample into the shape sent to the classifier.
func Details(s activity.Sample) ActivityDetails {
	identity := activity.Resolve(s)
	return ActivityDetails{
		OwnerName: s.OwnerName,
		Type:      string(identity.ItemType),
		Title:     activity.CleanTitle(s.Title),
		URL:       truncate(s.URL, maxURLRunes),
		Content:   truncate(s.ContentSnippet, maxContentRunes),
		Browser:   s.Browser,
	}
}

func buildDistractionPrompt(req Request) (Prompt, error) {
	user, err := encodePayload(req, nil)
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{Task: TaskDistraction, System: distractionSystem, User: user, Schema: distractionSchema}, nil
}

func buildCategoryPrompt(req Request, categories []category.Category) (Prompt, error) {
	listed := make([]promptCategory, 0, len(categories))
	for _, c := range categories {
		listed = append(listed, promptCategory{ID: c.ID, Name: c.Name, IsProductive: c.IsProductive})
	}
	user, err := encodePayload(req, listed)
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{Task: TaskCategory, System: categorySystem, User: user, Schema: categorySchema}, nil
}

func encodePayload(req Request, categories []promptCategory) (string, error) {
	payload := promptPayload{
		LifeGoal:        req.Goals.LifeGoal,
		WeeklyGoal:      req.Goals.WeeklyGoal,
		DailyGoal:       req.Goals.DailyGoal,
		ActivityDetails: Details(req.Sample),
		Categories:      categories,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding prompt: %w", err)
	}
	return string(data), nil
}

func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if utf8.RuneCountInString(value) <= limit {
		return value
	}
	runes := []rune(value)
	return string(runes[:limit])
}
