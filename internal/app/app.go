// Package app wires configuration, population source, engine and services
// together for the server and CLI entry points.
package app

import (
	"context"
	"log/slog"

	"dnamatch/internal/adapters"
	"dnamatch/internal/alignment"
	"dnamatch/internal/config"
	"dnamatch/internal/logging"
	"dnamatch/internal/matching"
	"dnamatch/internal/metrics"
	"dnamatch/internal/population"
	"dnamatch/internal/services/comparison"
	"dnamatch/internal/services/identification"
	"dnamatch/internal/services/missingperson"
)

// App holds the wired services.
type App struct {
	Comparison     *comparison.Service
	Identification *identification.Service
	MissingPerson  *missingperson.Service
	Source         *population.Loader

	closeSource func()
}

// New opens the configured population source and builds the services on top
// of it. Close releases the source.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, m *metrics.Metrics) (*App, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	src, closeSource, err := adapters.OpenSource(ctx, cfg.Population)
	if err != nil {
		return nil, err
	}
	loader := population.NewLoader(src, cfg.Population.MaxRecords, logger, m)
	scorer := alignment.Default()
	engine := matching.New(
		matching.WithScorer(scorer),
		matching.WithWorkers(cfg.Search.Workers),
		matching.WithRelativeThreshold(cfg.Search.RelativeThreshold),
		matching.WithLogger(logger),
		matching.WithMetrics(m),
	)
	logger.Info("population source ready",
		logging.String(logging.FieldSource, loader.Name()),
		logging.Int("workers", cfg.Search.Workers),
	)
	return &App{
		Comparison:     comparison.New(scorer, m),
		Identification: identification.New(loader, engine, logger, cfg.SearchTimeout()),
		MissingPerson:  missingperson.New(loader, engine, logger, cfg.SearchTimeout()),
		Source:         loader,
		closeSource:    closeSource,
	}, nil
}

func (a *App) Close() {
	if a != nil && a.closeSource != nil {
		a.closeSource()
	}
}
