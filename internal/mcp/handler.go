package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rpggio/focuslog/internal/domain/activity"
	"github.com/rpggio/focuslog/internal/domain/category"
	"github.com/rpggio/focuslog/internal/domain/classify"
	"github.com/rpggio/focuslog/internal/domain/profile"
	"github.com/rpggio/focuslog/internal/domain/recategorize"
	"github.com/rpggio/focuslog/internal/domain/suggestion"
	"github.com/rpggio/focuslog/internal/domain/summary"
)

// SampleService defines ingestion and interval operations needed by MCP.
type SampleService interface {
	Submit(ctx context.Context, userID string, req activity.SubmitRequest) (*activity.Sample, error)
	ListIntervals(ctx context.Context, userID string, start, end int64) ([]activity.Interval, error)
}

// DistractionChecker classifies a sample against the user's goals.
type DistractionChecker interface {
	CheckDistraction(ctx context.Context, s activity.Sample) classify.DistractionVerdict
}

// RecategorizeService moves an activity to another category.
type RecategorizeService interface {
	Recategorize(ctx context.Context, req recategorize.Request) (*recategorize.Result, error)
}

// SuggestionService defines calendar reconciliation operations needed by MCP.
type SuggestionService interface {
	ReconcileRange(ctx context.Context, userID string, start, end int64) (*suggestion.ReconcileResult, error)
	Reconcile(ctx context.Context, userID string, events []suggestion.CalendarEvent) (*suggestion.ReconcileResult, error)
	Accept(ctx context.Context, userID, id string) (*activity.Sample, error)
	Reject(ctx context.Context, userID, id string) error
	List(ctx context.Context, userID string, status suggestion.Status) ([]suggestion.Suggestion, error)
}

// SummaryService builds the categorized summary of a window.
type SummaryService interface {
	GetSummary(ctx context.Context, userID string, start, end int64) (*summary.Summary, error)
}

// CategoryService defines category operations needed by MCP.
type CategoryService interface {
	Create(ctx context.Context, userID string, req category.CreateRequest) (*category.Category, error)
	List(ctx context.Context, userID string, includeArchived bool) ([]category.Category, error)
	Archive(ctx context.Context, userID, id string) error
}

// ProfileService defines profile operations needed by MCP.
type ProfileService interface {
	Get(ctx context.Context, userID string) (*profile.Profile, error)
	Update(ctx context.Context, userID string, req profile.UpdateRequest) (*profile.Profile, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Samples      SampleService
	Distraction  DistractionChecker
	Recategorize RecategorizeService
	Suggestions  SuggestionService
	Summaries    SummaryService
	Categories   CategoryService
	Profiles     ProfileService
}

// Handler dispatches MCP commands.
type Handler struct {
	svc Services
}

// NewHandler creates a new MCP handler.
func NewHandler(svc Services) *Handler {
	return &Handler{svc: svc}
}

// Handle dispatches a tool call to the domain services.
func (h *Handler) Handle(ctx context.Context, userID, method string, params json.RawMessage) (any, error) {
	switch method {
	case "submit_sample":
		var req SubmitSampleParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sample, err := h.svc.Samples.Submit(ctx, userID, activity.SubmitRequest{
			Timestamp:      req.Timestamp,
			OwnerName:      req.OwnerName,
			Kind:           req.Kind,
			Browser:        req.Browser,
			Title:          req.Title,
			URL:            req.URL,
			ContentSnippet: req.ContentSnippet,
			CategoryID:     req.CategoryID,
			Reasoning:      req.Reasoning,
			ScreenshotRef:  req.ScreenshotRef,
		})
		if err != nil {
			return nil, mapError(err)
		}
		return SubmitSampleResponse{Sample: *sample, Identity: activity.Resolve(*sample)}, nil
	case "check_distraction":
		if h.svc.Distraction == nil {
			return nil, invalidInput("distraction checks are not configured")
		}
		var req CheckDistractionParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.Distraction.CheckDistraction(ctx, activity.Sample{
			UserID:         userID,
			OwnerName:      req.OwnerName,
			Kind:           req.Kind,
			Browser:        req.Browser,
			Title:          req.Title,
			URL:            req.URL,
			ContentSnippet: req.ContentSnippet,
		}), nil
	case "recategorize":
		var req RecategorizeParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		result, err := h.svc.Recategorize.Recategorize(ctx, recategorize.Request{
			UserID:             userID,
			StartDateMs:        req.StartDateMs,
			EndDateMs:          req.EndDateMs,
			ActivityIdentifier: req.ActivityIdentifier,
			ItemType:           req.ItemType,
			NewCategoryID:      req.NewCategoryID,
		})
		if err != nil {
			return nil, mapError(err)
		}
		return result, nil
	case "reconcile_calendar":
		var req ReconcileCalendarParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		var (
			result *suggestion.ReconcileResult
			err    error
		)
		if len(req.Events) > 0 {
			result, err = h.svc.Suggestions.Reconcile(ctx, userID, req.Events)
		} else {
			result, err = h.svc.Suggestions.ReconcileRange(ctx, userID, req.StartMs, req.EndMs)
		}
		if err != nil {
			return nil, mapError(err)
		}
		return result, nil
	case "accept_suggestion":
		var req SuggestionIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sample, err := h.svc.Suggestions.Accept(ctx, userID, req.ID)
		if err != nil {
			return nil, mapError(err)
		}
		return sample, nil
	case "reject_suggestion":
		var req SuggestionIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.svc.Suggestions.Reject(ctx, userID, req.ID); err != nil {
			return nil, mapError(err)
		}
		return StatusResponse{Status: string(suggestion.StatusRejected)}, nil
	case "list_suggestions":
		var req ListSuggestionsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		status := req.Status
		if status == "" {
			status = suggestion.StatusPending
		}
		list, err := h.svc.Suggestions.List(ctx, userID, status)
		if err != nil {
			return nil, mapError(err)
		}
		return ListSuggestionsResponse{Suggestions: list}, nil
	case "get_summary":
		var req RangeParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sum, err := h.svc.Summaries.GetSummary(ctx, userID, req.StartMs, req.EndMs)
		if err != nil {
			return nil, mapError(err)
		}
		return sum, nil
	case "list_intervals":
		var req RangeParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		intervals, err := h.svc.Samples.ListIntervals(ctx, userID, req.StartMs, req.EndMs)
		if err != nil {
			return nil, mapError(err)
		}
		resp := ListIntervalsResponse{Intervals: intervals}
		for _, iv := range intervals {
			resp.TotalDurationMs += iv.DurationMs
		}
		return resp, nil
	case "list_categories":
		var req ListCategoriesParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		list, err := h.svc.Categories.List(ctx, userID, req.IncludeArchived)
		if err != nil {
			return nil, mapError(err)
		}
		return ListCategoriesResponse{Categories: list}, nil
	case "create_category":
		var req CreateCategoryParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		c, err := h.svc.Categories.Create(ctx, userID, category.CreateRequest{
			Name:                req.Name,
			Color:               req.Color,
			IsProductive:        req.IsProductive,
			IsLikelyToBeOffline: req.IsLikelyToBeOffline,
		})
		if err != nil {
			return nil, mapError(err)
		}
		return c, nil
	case "archive_category":
		var req ArchiveCategoryParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.svc.Categories.Archive(ctx, userID, req.ID); err != nil {
			return nil, mapError(err)
		}
		return StatusResponse{Status: "archived"}, nil
	case "get_profile":
		p, err := h.svc.Profiles.Get(ctx, userID)
		if err != nil {
			return nil, mapError(err)
		}
		return p, nil
	case "update_profile":
		var req UpdateProfileParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		p, err := h.svc.Profiles.Update(ctx, userID, profile.UpdateRequest{
			LifeGoal:         req.LifeGoal,
			WeeklyGoal:       req.WeeklyGoal,
			DailyGoal:        req.DailyGoal,
			MultiPurposeApps: req.MultiPurposeApps,
		})
		if err != nil {
			return nil, mapError(err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown method: %s", method)
	}
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return invalidInput(fmt.Sprintf("malformed arguments: %v", err))
	}
	return nil
}
