package summary_test

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"

	"github.com/rpggio/focuslog/internal/domain/activity"
	"github.com/rpggio/focuslog/internal/domain/category"
	"github.com/rpggio/focuslog/internal/domain/summary"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func interval(catID *string, owner, url, title string, ms int64) activity.Interval {
	s := activity.Sample{OwnerName: owner, URL: url, Title: title, CategoryID: catID}
	return activity.Interval{DurationMs: ms, OwnerName: owner, URL: url, Title: title, CategoryID: catID, Sample: s}
}

var lookup = category.NewLookup([]category.Category{
	{ID: "work", Name: "Work", Color: "#00f", IsProductive: true},
	{ID: "comms", Name: "Communication", IsProductive: true},
	{ID: "fun", Name: "Distraction"},
})

func TestAggregate_GroupsByIdentifier(t *testing.T) {
	intervals := []activity.Interval{
		interval(ptr("work"), "Chrome", "https://github.com/a", "PR 1 - Google Chrome", 5000),
		interval(ptr("work"), "Chrome", "https://www.github.com/b", "PR 2 - Google Chrome", 7000),
		interval(ptr("work"), "Code", "", "main.go", 3000),
		interval(ptr("fun"), "Chrome", "https://youtube.com", "", 60000),
		interval(nil, "Finder", "", "", 9000),
		interval(ptr("missing"), "Notes", "", "", 9000),
	}

	got := summary.Aggregate(intervals, lookup)
	require.Len(t, got, 2)

	require.Equal(t, "work", got[0].ID)
	require.Equal(t, int64(15000), got[0].TotalDurationMs)
	require.Len(t, got[0].Activities, 2)
	require.Equal(t, "github.com", got[0].Activities[0].Identifier)
	require.Equal(t, int64(12000), got[0].Activities[0].DurationMs)
	require.Equal(t, "PR 2", got[0].Activities[0].DisplayName, "display name is last write wins")
	require.Equal(t, "https://www.github.com/b", got[0].Activities[0].OriginalURL)
	require.Equal(t, activity.ItemTypeApp, got[0].Activities[1].ItemType)

	require.Equal(t, "fun", got[1].ID, "productive categories sort first regardless of total")
	require.Equal(t, int64(60000), got[1].TotalDurationMs)
}

func TestAggregate_Empty(t *testing.T) {
	require.Empty(t, summary.Aggregate(nil, lookup))
	require.Empty(t, summary.Aggregate([]activity.Interval{interval(ptr("work"), "Code", "", "", 1000)}, category.Lookup{}))
}

func TestAggregate_TieBreaksAreStable(t *testing.T) {
	intervals := []activity.Interval{
		interval(ptr("comms"), "Slack", "", "", 5000),
		interval(ptr("work"), "Zed", "", "", 2000),
		interval(ptr("work"), "Code", "", "", 2000),
	}
	got := summary.Aggregate(intervals, lookup)
	require.Equal(t, "comms", got[0].ID, "equal productivity orders by total desc")
	require.Equal(t, "Communication", got[0].Name)
	require.Equal(t, "Code", got[1].Activities[0].Identifier, "equal durations order by identifier")
}

func randomIntervals(r *rand.Rand, n int) []activity.Interval {
	cats := []*string{ptr("work"), ptr("comms"), ptr("fun"), nil, ptr("gone")}
	owners := []string{"Code", "Slack", "Chrome", "Terminal"}
	urls := []string{"", "https://a.com/1", "https://b.com", "https://www.a.com/2"}
	out := make([]activity.Interval, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, interval(
			cats[r.Intn(len(cats))],
			owners[r.Intn(len(owners))],
			urls[r.Intn(len(urls))],
			fmt.Sprintf("title %d", r.Intn(3)),
			int64(1000+r.Intn(900000)),
		))
	}
	return out
}

func TestAggregate_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for run := 0; run < 50; run++ {
		intervals := randomIntervals(r, 1+r.Intn(40))

		first := summary.Aggregate(intervals, lookup)
		second := summary.Aggregate(intervals, lookup)
		a, err := json.Marshal(first)
		require.NoError(t, err)
		b, err := json.Marshal(second)
		require.NoError(t, err)
		require.Equal(t, string(a), string(b))

		for i, pc := range first {
			var sum int64
			for j, item := range pc.Activities {
				sum += item.DurationMs
				if j > 0 {
					require.GreaterOrEqual(t, pc.Activities[j-1].DurationMs, item.DurationMs)
				}
			}
			require.Equal(t, pc.TotalDurationMs, sum)

			if i == 0 {
				continue
			}
			prev := first[i-1]
			require.False(t, !prev.IsProductive && pc.IsProductive, "productive after non-productive")
			if prev.IsProductive == pc.IsProductive {
				require.GreaterOrEqual(t, prev.TotalDurationMs, pc.TotalDurationMs)
			}
		}
	}
}
