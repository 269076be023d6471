package testserver

import (
	"context"
	"net/http"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/focuslog/internal/domain/activity"
	"github.com/rpggio/focuslog/internal/domain/classify"
	"github.com/rpggio/focuslog/internal/domain/recategorize"
	"github.com/rpggio/focuslog/internal/domain/suggestion"
	"github.com/rpggio/focuslog/internal/domain/summary"
	"github.com/rpggio/focuslog/internal/mcp"
	"github.com/stretchr/testify/require"
)

func categoryID(t *testing.T, ts *TestServer, name string) string {
	t.Helper()
	var list mcp.ListCategoriesResponse
	require.Nil(t, ts.Call(t, "list_categories", map[string]any{}, &list))
	for _, c := range list.Categories {
		if c.Name == name {
			return c.ID
		}
	}
	t.Fatalf("category %q not found", name)
	return ""
}

func findCategory(s summary.Summary, name string) *summary.ProcessedCategory {
	for i := range s.Categories {
		if s.Categories[i].Name == name {
			return &s.Categories[i]
		}
	}
	return nil
}

func TestEndToEnd_TimelineAndRecategorize(t *testing.T) {
	ts := New(t, "secret", "u1")
	ts.Classifier.Payloads[classify.TaskCategory] = `{"categoryId":null,"reasoning":"unsure"}`

	now := ts.Clock.Now().UnixMilli()
	base := now - time.Hour.Milliseconds()

	submit := func(offset int64, owner, url, title string) mcp.SubmitSampleResponse {
		var resp mcp.SubmitSampleResponse
		require.Nil(t, ts.Call(t, "submit_sample", map[string]any{
			"timestamp": base + offset, "owner_name": owner, "url": url, "title": title,
		}, &resp))
		return resp
	}
	submit(0, "Google Chrome", "https://a.com", "A")
	submit(5_000, "Google Chrome", "https://a.com", "B")
	submit(20_000, "Slack", "", "general")
	code := submit(25_000, "Code", "", "main.go")

	work := categoryID(t, ts, "Work")
	distraction := categoryID(t, ts, "Distraction")
	require.NotNil(t, code.Sample.CategoryID, "allow-listed app is categorized on the fast path")
	require.Equal(t, work, *code.Sample.CategoryID)

	var intervals mcp.ListIntervalsResponse
	require.Nil(t, ts.Call(t, "list_intervals", map[string]any{"start_ms": base, "end_ms": now}, &intervals))
	require.Len(t, intervals.Intervals, 4)
	require.Equal(t, int64(5_000), intervals.Intervals[0].DurationMs)
	require.Equal(t, int64(15_000), intervals.Intervals[1].DurationMs)
	require.Equal(t, activity.MaxSingleEventDuration.Milliseconds(), intervals.Intervals[3].DurationMs)

	var before summary.Summary
	require.Nil(t, ts.Call(t, "get_summary", map[string]any{"start_ms": base, "end_ms": now}, &before))
	require.Equal(t, int64(25_000), before.UncategorizedMs)
	require.Equal(t, "Work", before.Categories[0].Name)

	var result recategorize.Result
	require.Nil(t, ts.Call(t, "recategorize", map[string]any{
		"start_date_ms": base, "end_date_ms": now, "activity_identifier": "https://a.com",
		"item_type": "website", "new_category_id": distraction,
	}, &result))
	require.Equal(t, int64(2), result.UpdatedCount)
	require.Equal(t, recategorize.ByURL, result.Strategy)
	require.NotNil(t, result.LatestEvent)
	require.Equal(t, "B", result.LatestEvent.Title)

	var after summary.Summary
	require.Nil(t, ts.Call(t, "get_summary", map[string]any{"start_ms": base, "end_ms": now}, &after))
	moved := findCategory(after, "Distraction")
	require.NotNil(t, moved)
	require.Equal(t, int64(20_000), moved.TotalDurationMs)
	require.Equal(t, "a.com", moved.Activities[0].Identifier)
	require.Equal(t, int64(5_000), after.UncategorizedMs)

	// A stale identifier changes nothing.
	require.Nil(t, ts.Call(t, "recategorize", map[string]any{
		"start_date_ms": base, "end_date_ms": now, "activity_identifier": "gone.example",
		"item_type": "website", "new_category_id": work,
	}, &result))
	require.Zero(t, result.UpdatedCount)
}

func TestEndToEnd_CalendarSuggestions(t *testing.T) {
	ts := New(t, "secret", "u1")
	ts.Classifier.Payloads[classify.TaskCategory] = `{"categoryId":null,"reasoning":"meeting"}`

	now := ts.Clock.Now().UnixMilli()
	hour := time.Hour.Milliseconds()

	var submitted mcp.SubmitSampleResponse
	require.Nil(t, ts.Call(t, "submit_sample", map[string]any{"timestamp": now - hour, "owner_name": "Slack"}, &submitted))

	events := []suggestion.CalendarEvent{
		{ID: "tracked", Summary: "Standup", StartTime: now - hour - 60_000, EndTime: now - hour + 60_000},
		{ID: "offline", Summary: "Lunch", StartTime: now - 3*hour, EndTime: now - 2*hour},
		{ID: "future", Summary: "Review", StartTime: now - 60_000, EndTime: now + hour},
	}
	var reconciled suggestion.ReconcileResult
	require.Nil(t, ts.Call(t, "reconcile_calendar", map[string]any{"events": events}, &reconciled))
	require.Equal(t, 1, reconciled.Created)

	require.Nil(t, ts.Call(t, "reconcile_calendar", map[string]any{"events": events}, &reconciled))
	require.Zero(t, reconciled.Created, "suggestions are created once per event")

	var pending mcp.ListSuggestionsResponse
	require.Nil(t, ts.Call(t, "list_suggestions", map[string]any{}, &pending))
	require.Len(t, pending.Suggestions, 1)
	sg := pending.Suggestions[0]
	require.Equal(t, "offline", sg.ExternalCalendarEventID)
	require.Equal(t, "Lunch", sg.Name)

	var sample activity.Sample
	require.Nil(t, ts.Call(t, "accept_suggestion", map[string]any{"id": sg.ID}, &sample))
	require.Equal(t, activity.KindManual, sample.Kind)
	require.Equal(t, now-3*hour, sample.Timestamp)

	rpcErr := ts.Call(t, "accept_suggestion", map[string]any{"id": sg.ID}, nil)
	require.NotNil(t, rpcErr)
	require.Equal(t, map[string]any{"code": mcp.CodeAlreadyResolved}, rpcErr.Data)

	var intervals mcp.ListIntervalsResponse
	require.Nil(t, ts.Call(t, "list_intervals", map[string]any{"start_ms": now - 4*hour, "end_ms": now}, &intervals))
	require.Equal(t, hour, intervals.Intervals[0].DurationMs, "accepted suggestion spans the event")
}

func TestEndToEnd_Auth(t *testing.T) {
	ts := New(t, "secret", "u1")

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/rpc", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer wrong")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

type bearer struct {
	token string
	next  http.RoundTripper
}

func (b bearer) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("Authorization", "Bearer "+b.token)
	return b.next.RoundTrip(r)
}

func TestEndToEnd_StreamableMCP(t *testing.T) {
	ts := New(t, "secret", "u1")
	ctx := context.Background()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "e2e", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: &http.Client{Transport: bearer{token: ts.Token, next: http.DefaultTransport}},
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	result, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "create_category",
		Arguments: map[string]any{"name": "Reading", "is_productive": true},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	list, err := ts.App.Categories.List(ctx, "u1", false)
	require.NoError(t, err)
	names := make([]string, 0, len(list))
	for _, c := range list {
		names = append(names, c.Name)
	}
	require.Contains(t, names, "Reading")
}
