package summary

import (
	"sort"

	"github.com/rpggio/focuslog/internal/domain/activity"
	"github.com/rpggio/focuslog/internal/domain/category"
)

type categoryAcc struct {
	category category.Category
	total    int64
	order    []string
	items    map[string]*ActivityItem
}

// Aggregate groups intervals by category and identifier. Intervals without a
// known category are left out. The result order is deterministic.
func Aggregate(intervals []activity.Interval, lookup category.Lookup) []ProcessedCategory {
	accs := make(map[string]*categoryAcc)
	var ids []string

	for _, iv := range intervals {
		if iv.CategoryID == nil {
			continue
		}
		cat, ok := lookup[*iv.CategoryID]
		if !ok {
			continue
		}
		acc, ok := accs[cat.ID]
		if !ok {
			acc = &categoryAcc{category: cat, items: make(map[string]*ActivityItem)}
			accs[cat.ID] = acc
			ids = append(ids, cat.ID)
		}

		identity := activity.Resolve(iv.Sample)
		key := string(identity.ItemType) + "\x00" + identity.Identifier
		item, ok := acc.items[key]
		if !ok {
			item = &ActivityItem{Identifier: identity.Identifier, ItemType: identity.ItemType}
			acc.items[key] = item
			acc.order = append(acc.order, key)
		}
		item.DurationMs += iv.DurationMs
		item.DisplayName = identity.DisplayName
		if identity.OriginalURL != "" {
			item.OriginalURL = identity.OriginalURL
		}
		acc.total += iv.DurationMs
	}

	result := make([]ProcessedCategory, 0, len(ids))
	for _, id := range ids {
		acc := accs[id]
		activities := make([]ActivityItem, 0, len(acc.order))
		for _, key := range acc.order {
			activities = append(activities, *acc.items[key])
		}
		sort.SliceStable(activities, func(i, j int) bool {
			if activities[i].DurationMs != activities[j].DurationMs {
				return activities[i].DurationMs > activities[j].DurationMs
			}
			if activities[i].Identifier != activities[j].Identifier {
				return activities[i].Identifier < activities[j].Identifier
			}
			return activities[i].ItemType < activities[j].ItemType
		})
		result = append(result, ProcessedCategory{
			ID:              acc.category.ID,
			Name:            acc.category.Name,
			Color:           acc.category.Color,
			IsProductive:    acc.category.IsProductive,
			TotalDurationMs: acc.total,
			Activities:      activities,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.IsProductive != b.IsProductive {
			return a.IsProductive
		}
		if a.TotalDurationMs != b.TotalDurationMs {
			return a.TotalDurationMs > b.TotalDurationMs
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	return result
}
