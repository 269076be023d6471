package activity

import (
	"sort"
	"time"
)

const (
	// MaxSingleEventDuration caps how long one sample may be credited.
	MaxSingleEventDuration = 15 * time.Minute
	// MinIntervalDuration drops focus-switching noise.
	MinIntervalDuration = time.Second
)

// BuildIntervals turns samples into non-overlapping duration intervals.
// now is Unix milliseconds. The input slice is not modified.
//
// Every interval is at most MaxSingleEventDuration except those of samples
// carrying an EndTimestamp (manual samples from accepted suggestions), which
// are capped at their own span instead, so a one hour meeting stays one hour.
func BuildIntervals(samples []Sample, now int64) []Interval {
	if len(samples) == 0 {
		return []Interval{}
	}

	sorted := make([]Sample, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Timestamp != sorted[j].Timestamp {
			return sorted[i].Timestamp < sorted[j].Timestamp
		}
		return sorted[i].ID < sorted[j].ID
	})

	maxMs := MaxSingleEventDuration.Milliseconds()
	minMs := MinIntervalDuration.Milliseconds()

	intervals := make([]Interval, 0, len(sorted))
	for i, s := range sorted {
		start := s.Timestamp
		limit := maxMs
		if s.EndTimestamp != nil {
			limit = *s.EndTimestamp - start
		}

		var end int64
		if i < len(sorted)-1 {
			end = sorted[i+1].Timestamp
		} else {
			end = min(now, start+limit)
		}

		duration := end - start
		if duration < 0 {
			duration = 0
		}
		if duration > limit {
			duration = limit
		}
		if duration < minMs {
			continue
		}

		intervals = append(intervals, Interval{
			StartTime:  start,
			EndTime:    start + duration,
			DurationMs: duration,
			OwnerName:  s.OwnerName,
			Title:      s.Title,
			URL:        s.URL,
			CategoryID: s.CategoryID,
			Sample:     s,
		})
	}
	return intervals
}
