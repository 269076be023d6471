// Package calendar provides calendar event sources for the suggestion
// reconciler.
package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/rpggio/focuslog/internal/domain/suggestion"
)

// fileEvent is one event as stored on disk. Times are RFC 3339.
type fileEvent struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id,omitempty"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
}

// FileProvider reads events from a JSON array on disk. Events without a
// user_id are visible to every user. The file is re-read on each call.
type FileProvider struct {
	path string
}

var _ suggestion.CalendarProvider = (*FileProvider)(nil)

// NewFileProvider creates a provider for path.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

// Events returns the events overlapping [start, end), ordered by start time.
// A missing file yields no events.
func (p *FileProvider) Events(ctx context.Context, userID string, start, end int64) ([]suggestion.CalendarEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []suggestion.CalendarEvent{}, nil
		}
		return nil, fmt.Errorf("read calendar file: %w", err)
	}

	var raw []fileEvent
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse calendar file: %w", err)
	}

	events := make([]suggestion.CalendarEvent, 0, len(raw))
	for _, ev := range raw {
		if ev.UserID != "" && ev.UserID != userID {
			continue
		}
		evStart, evEnd := ev.Start.UnixMilli(), ev.End.UnixMilli()
		if evEnd <= start || evStart >= end {
			continue
		}
		events = append(events, suggestion.CalendarEvent{
			ID:          ev.ID,
			Summary:     ev.Summary,
			Description: ev.Description,
			StartTime:   evStart,
			EndTime:     evEnd,
		})
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].StartTime < events[j].StartTime })
	return events, nil
}
