package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `focuslog turns active-window samples into a categorized timeline.

Core concepts:
- Sample: one point-in-time observation of the active window (app, title, URL). Immutable except for its category.
- Interval: derived duration between consecutive samples, capped at 15 minutes, never stored.
- Activity: what intervals are grouped by. Websites by host, apps by owner name.
- Category: user-owned bucket (productive or not). Archived categories stay on old samples.
- Suggestion: a past calendar event with no tracked activity, waiting to be accepted or rejected.

Typical workflow:
1) Ingest: submit_sample for each observation. Categorization happens before the call returns.
2) Read: get_summary for a window; list_intervals for the raw timeline.
3) Correct: recategorize with the identifier and item_type shown in get_summary.
4) Calendar: reconcile_calendar, then list_suggestions and accept_suggestion / reject_suggestion.

All times are Unix milliseconds. Windows are [start, end).

Docs:
- focuslog://docs/recategorize
- focuslog://docs/classification
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "focuslog://docs/recategorize",
		Name:        "docs_recategorize",
		Title:       "How recategorize matches samples",
		Description: "Match strategies and why a call can update zero rows.",
		Content: `# Recategorize

The identifier from get_summary is resolved against one stored sample in the window
to pick a match strategy:

- by_url: the probe's URL equals the identifier, or the identifier looks like a URL.
  Every sample in the window with that exact URL moves.
- by_title_and_owner: website identifiers that are a host. Samples with the probe's
  title and owner move.
- by_owner: app identifiers. Every sample of that application moves.

If no sample matches the identifier (for example the summary is stale) nothing
changes and updated_count is 0. A missing, archived or foreign category, or an
empty window, also updates nothing. Moved samples keep their previous category in
old_category_id for auditing.
`,
	},
	{
		URI:         "focuslog://docs/classification",
		Name:        "docs_classification",
		Title:       "Classification behaviour",
		Description: "Fast path, history reuse and fallbacks.",
		Content: `# Classification

Each new sample is categorized once:

1. An explicit category_id on submit_sample wins.
2. A previous sample with the same owner and URL (or title) reuses its category.
3. Allow-listed productive apps and hosts skip the classifier unless the app is
   marked multi-purpose in the profile.
4. Otherwise the external classifier is asked with the user's goals.

The classifier has a deadline. Timeouts, refusals and malformed replies leave the
sample uncategorized and are counted in metrics; they never fail ingestion.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
