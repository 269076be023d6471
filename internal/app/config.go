package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rpggio/focuslog/internal/calendar"
	"github.com/rpggio/focuslog/internal/config"
	"github.com/rpggio/focuslog/internal/domain/classify"
	"github.com/rpggio/focuslog/internal/llm"
	"github.com/rpggio/focuslog/internal/sqlite"
)

// FromConfig builds the graph described by cfg. A classifier that is enabled
// but has no API key is logged and left disabled.
func FromConfig(db *sqlite.DB, cfg config.Config, logger *slog.Logger) (*App, error) {
	opts := Options{
		ClassifierTimeout: cfg.Classifier.Timeout(),
		Concurrency:       cfg.Reconciler.Concurrency,
		Logger:            logger,
	}

	if len(cfg.Heuristic.ProductiveApps) > 0 || len(cfg.Heuristic.ProductiveHosts) > 0 {
		opts.Heuristic = classify.NewAllowListHeuristic(cfg.Heuristic.ProductiveApps, cfg.Heuristic.ProductiveHosts)
	}

	if cfg.Classifier.Enabled {
		client, err := llm.NewClient(llm.Config{
			BaseURL:   cfg.Classifier.BaseURL,
			Model:     cfg.Classifier.Model,
			APIKeyEnv: cfg.Classifier.APIKeyEnv,
		})
		switch {
		case errors.Is(err, llm.ErrNoAPIKey):
			if logger != nil {
				logger.Warn("classifier enabled but api key missing; using fallbacks", "api_key_env", cfg.Classifier.APIKeyEnv)
			}
		case err != nil:
			return nil, fmt.Errorf("configuring classifier: %w", err)
		default:
			opts.Classifier = client
		}
	}

	if cfg.Calendar.EventsPath != "" {
		opts.Calendar = calendar.NewFileProvider(cfg.Calendar.EventsPath)
	}

	return New(db, opts), nil
}
