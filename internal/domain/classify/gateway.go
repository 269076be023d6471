package classify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/rpggio/focuslog/internal/domain/category"
	"github.com/rpggio/focuslog/internal/observability"
)

// DefaultTimeout bounds a single slow-path call.
const DefaultTimeout = 10 * time.Second

// Classification paths and outcomes recorded in metrics.
const (
	PathFast = "fast"
	PathSlow = "slow"

	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeTimeout  = "timeout"
	OutcomeRefusal  = "refusal"
	OutcomeInvalid  = "invalid"
	OutcomeDisabled = "disabled"
)

var errPanic = errors.New("classifier panicked")

// Gateway wraps the external classifier with a cheap heuristic in front and
// safe defaults behind. Its operations never return errors.
type Gateway struct {
	classifier Classifier
	heuristic  Heuristic
	timeout    time.Duration
	logger     *slog.Logger
}

// GatewayOption configures a gateway.
type GatewayOption func(*Gateway)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) GatewayOption {
	return func(g *Gateway) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// NewGateway creates a gateway. A nil classifier disables the slow path; a
// nil heuristic disables the fast path.
func NewGateway(classifier Classifier, heuristic Heuristic, logger *slog.Logger, opts ...GatewayOption) *Gateway {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	g := &Gateway{
		classifier: classifier,
		heuristic:  heuristic,
		timeout:    DefaultTimeout,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) fastPath(req Request) bool {
	return g.heuristic != nil && !req.MultiPurpose && g.heuristic(req.Sample)
}

// CheckDistraction decides whether the activity distracts from the user's goals.
func (g *Gateway) CheckDistraction(ctx context.Context, req Request) DistractionVerdict {
	if g.fastPath(req) {
		observability.RecordClassification(PathFast, OutcomeOK)
		return DistractionVerdict{Status: DistractionNo, MotivationalMessage: fastPathMessage, FastPath: true}
	}

	fallback := DistractionVerdict{Status: DistractionMaybe, MotivationalMessage: FallbackMessage}
	prompt, err := buildDistractionPrompt(req)
	if err != nil {
		g.logger.Warn("building distraction prompt failed", "error", err)
		return fallback
	}
	payload, outcome := g.call(ctx, prompt)
	if outcome != OutcomeOK {
		observability.RecordClassification(PathSlow, outcome)
		return fallback
	}

	var verdict DistractionVerdict
	if err := json.Unmarshal(payload, &verdict); err != nil {
		g.invalid("decoding distraction payload", err)
		return fallback
	}
	switch verdict.Status {
	case DistractionYes, DistractionNo, DistractionMaybe:
	default:
		g.invalid("unexpected distraction status", fmt.Errorf("status %q", verdict.Status))
		return fallback
	}
	if strings.TrimSpace(verdict.MotivationalMessage) == "" {
		verdict.MotivationalMessage = FallbackMessage
	}
	observability.RecordClassification(PathSlow, OutcomeOK)
	return verdict
}

// SuggestCategory picks one of the user's active categories. Suggestions
// outside categories are discarded.
func (g *Gateway) SuggestCategory(ctx context.Context, req Request, categories []category.Category) CategoryVerdict {
	active := activeCategories(categories)
	fallback := CategoryVerdict{Reasoning: FallbackReasoning}
	if len(active) == 0 {
		return fallback
	}

	if g.fastPath(req) {
		if productive := pickProductive(active); productive != nil {
			observability.RecordClassification(PathFast, OutcomeOK)
			id := productive.ID
			return CategoryVerdict{CategoryID: &id, Reasoning: fastPathReasoning, FastPath: true}
		}
	}

	prompt, err := buildCategoryPrompt(req, active)
	if err != nil {
		g.logger.Warn("building category prompt failed", "error", err)
		return fallback
	}
	payload, outcome := g.call(ctx, prompt)
	if outcome != OutcomeOK {
		observability.RecordClassification(PathSlow, outcome)
		return fallback
	}

	var verdict CategoryVerdict
	if err := json.Unmarshal(payload, &verdict); err != nil {
		g.invalid("decoding category payload", err)
		return fallback
	}
	if verdict.CategoryID != nil {
		id := strings.TrimSpace(*verdict.CategoryID)
		if !containsCategory(active, id) {
			g.invalid("unknown category suggested", fmt.Errorf("category %q", id))
			return fallback
		}
		verdict.CategoryID = &id
	}
	observability.RecordClassification(PathSlow, OutcomeOK)
	return verdict
}

func (g *Gateway) invalid(msg string, err error) {
	observability.RecordClassification(PathSlow, OutcomeInvalid)
	g.logger.Warn(msg, "error", err)
}

// call runs one bounded classifier request and reports its outcome.
func (g *Gateway) call(ctx context.Context, prompt Prompt) (payload json.RawMessage, outcome string) {
	if g.classifier == nil {
		return nil, OutcomeDisabled
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	result, err := g.boundedClassify(ctx, prompt)
	switch {
	case err != nil && (errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil):
		g.logger.Warn("classifier timed out", "task", prompt.Task, "timeout", g.timeout)
		return nil, OutcomeTimeout
	case err != nil:
		g.logger.Warn("classifier failed", "task", prompt.Task, "error", err)
		return nil, OutcomeError
	case result == nil:
		return nil, OutcomeInvalid
	case result.Refusal != "":
		g.logger.Info("classifier refused", "task", prompt.Task, "refusal", result.Refusal)
		return nil, OutcomeRefusal
	case len(result.Payload) == 0:
		return nil, OutcomeInvalid
	}
	return result.Payload, OutcomeOK
}

type classifyOutcome struct {
	result *Result
	err    error
}

// boundedClassify returns when the classifier does or when ctx ends,
// whichever is first. A classifier that ignores ctx is left to finish on its
// own goroutine and its answer is dropped.
func (g *Gateway) boundedClassify(ctx context.Context, prompt Prompt) (*Result, error) {
	done := make(chan classifyOutcome, 1)
	go func() {
		result, err := g.safeClassify(ctx, prompt)
		done <- classifyOutcome{result: result, err: err}
	}()
	select {
	case out := <-done:
		return out.result, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (g *Gateway) safeClassify(ctx context.Context, prompt Prompt) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: %v", errPanic, r)
		}
	}()
	return g.classifier.Classify(ctx, prompt)
}

func activeCategories(categories []category.Category) []category.Category {
	active := make([]category.Category, 0, len(categories))
	for _, c := range categories {
		if !c.IsArchived {
			active = append(active, c)
		}
	}
	return active
}

func containsCategory(categories []category.Category, id string) bool {
	for _, c := range categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// pickProductive prefers the default productive category, then the first
// productive one by name.
func pickProductive(categories []category.Category) *category.Category {
	productive := make([]category.Category, 0, len(categories))
	for _, c := range categories {
		if c.IsProductive {
			productive = append(productive, c)
		}
	}
	if len(productive) == 0 {
		return nil
	}
	sort.SliceStable(productive, func(i, j int) bool {
		if productive[i].IsDefault != productive[j].IsDefault {
			return productive[i].IsDefault
		}
		return productive[i].Name < productive[j].Name
	})
	return &productive[0]
}
