package profile

import (
	"strings"
	"time"
)

// Profile holds the goals a user declared and the apps they marked as
// multi-purpose.
type Profile struct {
	UserID           string    `json:"user_id"`
	LifeGoal         string    `json:"life_goal,omitempty"`
	WeeklyGoal       string    `json:"weekly_goal,omitempty"`
	DailyGoal        string    `json:"daily_goal,omitempty"`
	MultiPurposeApps []string  `json:"multi_purpose_apps,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// IsMultiPurpose reports whether ownerName was marked multi-purpose.
func (p Profile) IsMultiPurpose(ownerName string) bool {
	for _, app := range p.MultiPurposeApps {
		if strings.EqualFold(strings.TrimSpace(app), strings.TrimSpace(ownerName)) {
			return true
		}
	}
	return false
}
