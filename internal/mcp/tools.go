package mcp

// ToolDefinition describes a callable tool.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

func object(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func field(typ, description string) map[string]any {
	return map[string]any{"type": typ, "description": description}
}

func rangeProperties() map[string]any {
	return map[string]any{
		"start_ms": field("integer", "Window start, Unix milliseconds (inclusive)"),
		"end_ms":   field("integer", "Window end, Unix milliseconds (exclusive)"),
	}
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		// Ingestion
		{
			Name:        "submit_sample",
			Description: "Record one observation of the active window. Blocks are merged and the sample is categorized before returning.",
			InputSchema: object(map[string]any{
				"timestamp":  field("integer", "Capture time, Unix milliseconds"),
				"owner_name": field("string", "Application that owns the window"),
				"kind": map[string]any{
					"type":        "string",
					"description": "Capture source (defaults to window)",
					"enum":        []string{"window", "browser", "system", "manual"},
				},
				"browser":         field("string", "Browser name for browser samples"),
				"title":           field("string", "Window or tab title"),
				"url":             field("string", "Tab URL for browser samples"),
				"content_snippet": field("string", "Visible text excerpt used for classification"),
				"category_id":     field("string", "Explicit category; skips classification"),
				"reasoning":       field("string", "Reasoning stored with an explicit category"),
				"screenshot_ref":  field("string", "Opaque reference to a stored screenshot"),
			}, "timestamp", "owner_name"),
		},
		{
			Name:        "check_distraction",
			Description: "Judge whether an activity is a distraction from the user's goals. Never fails; returns a neutral verdict when the classifier is unavailable.",
			InputSchema: object(map[string]any{
				"owner_name":      field("string", "Application that owns the window"),
				"kind":            field("string", "Capture source"),
				"browser":         field("string", "Browser name"),
				"title":           field("string", "Window or tab title"),
				"url":             field("string", "Tab URL"),
				"content_snippet": field("string", "Visible text excerpt"),
			}, "owner_name"),
		},

		// Reading
		{
			Name:        "list_intervals",
			Description: "List derived activity intervals for a window. Intervals are recomputed from samples on every call.",
			InputSchema: object(rangeProperties(), "start_ms", "end_ms"),
		},
		{
			Name:        "get_summary",
			Description: "Get time per category and per activity for a window",
			InputSchema: object(rangeProperties(), "start_ms", "end_ms"),
		},

		// Correction
		{
			Name:        "recategorize",
			Description: "Move every sample of one activity within a window to another category. Invalid or stale input updates nothing.",
			InputSchema: object(map[string]any{
				"start_date_ms":       field("integer", "Window start, Unix milliseconds"),
				"end_date_ms":         field("integer", "Window end, Unix milliseconds"),
				"activity_identifier": field("string", "Identifier from get_summary (host for websites, owner for apps)"),
				"item_type": map[string]any{
					"type":        "string",
					"description": "Activity type from get_summary",
					"enum":        []string{"website", "app"},
				},
				"new_category_id": field("string", "Target category ID"),
			}, "start_date_ms", "end_date_ms", "activity_identifier", "item_type", "new_category_id"),
		},

		// Calendar
		{
			Name:        "reconcile_calendar",
			Description: "Create suggestions for past calendar events with no tracked activity. Pass events directly or a window to read from the configured calendar.",
			InputSchema: object(map[string]any{
				"start_ms": field("integer", "Window start when reading the configured calendar"),
				"end_ms":   field("integer", "Window end when reading the configured calendar"),
				"events": map[string]any{
					"type":        "array",
					"description": "Calendar events to reconcile",
					"items": object(map[string]any{
						"id":          field("string", "External event ID"),
						"summary":     field("string", "Event title"),
						"description": field("string", "Event description"),
						"start_time":  field("integer", "Start, Unix milliseconds"),
						"end_time":    field("integer", "End, Unix milliseconds"),
					}, "id", "start_time", "end_time"),
				},
			}),
		},
		{
			Name:        "list_suggestions",
			Description: "List calendar suggestions by status (defaults to pending)",
			InputSchema: object(map[string]any{
				"status": map[string]any{
					"type":        "string",
					"description": "Suggestion status",
					"enum":        []string{"pending", "accepted", "rejected"},
				},
			}),
		},
		{
			Name:        "accept_suggestion",
			Description: "Accept a pending suggestion and record it as a manual sample",
			InputSchema: object(map[string]any{"id": field("string", "Suggestion ID")}, "id"),
		},
		{
			Name:        "reject_suggestion",
			Description: "Reject a pending suggestion",
			InputSchema: object(map[string]any{"id": field("string", "Suggestion ID")}, "id"),
		},

		// Categories
		{
			Name:        "list_categories",
			Description: "List the user's categories",
			InputSchema: object(map[string]any{
				"include_archived": field("boolean", "Include archived categories"),
			}),
		},
		{
			Name:        "create_category",
			Description: "Create a category. Names are unique per user.",
			InputSchema: object(map[string]any{
				"name":                    field("string", "Display name"),
				"color":                   field("string", "Hex color"),
				"is_productive":           field("boolean", "Counts as productive time"),
				"is_likely_to_be_offline": field("boolean", "Time usually spent away from the computer"),
			}, "name"),
		},
		{
			Name:        "archive_category",
			Description: "Archive a category. Existing samples keep it; new samples can no longer be filed under it.",
			InputSchema: object(map[string]any{"id": field("string", "Category ID")}, "id"),
		},

		// Profile
		{
			Name:        "get_profile",
			Description: "Get the user's goals and multi-purpose apps",
			InputSchema: object(map[string]any{}),
		},
		{
			Name:        "update_profile",
			Description: "Update goals and multi-purpose apps. Omitted fields are unchanged.",
			InputSchema: object(map[string]any{
				"life_goal":   field("string", "Long-term goal"),
				"weekly_goal": field("string", "Goal for this week"),
				"daily_goal":  field("string", "Goal for today"),
				"multi_purpose_apps": map[string]any{
					"type":        "array",
					"description": "Apps used for both work and leisure; always classified",
					"items":       map[string]any{"type": "string"},
				},
			}),
		},
	}
}
