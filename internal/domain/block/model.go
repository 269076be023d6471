package block

// ActivityType is the coarse label shown for a block.
type ActivityType string

const (
	TypeWork         ActivityType = "work"
	TypeBreak        ActivityType = "break"
	TypeUnproductive ActivityType = "unproductive"
	TypeNeutral      ActivityType = "neutral"
)

// Block is a persisted, merged run of samples sharing app and title.
type Block struct {
	ID              string       `json:"id"`
	UserID          string       `json:"user_id"`
	StartTime       int64        `json:"start_time"`
	EndTime         int64        `json:"end_time"`
	DurationSeconds int64        `json:"duration_seconds"`
	AppName         string       `json:"app_name"`
	WindowTitle     string       `json:"window_title"`
	ActivityType    ActivityType `json:"activity_type"`
	SourceSampleIDs []string     `json:"source_sample_ids"`
	Version         int64        `json:"version"`
}
