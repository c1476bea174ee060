package population

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dnamatch/internal/domain"
	"dnamatch/internal/logging"
	"dnamatch/internal/metrics"
	"dnamatch/internal/ports"
)

// ErrLimit reports a snapshot larger than the configured bound.
var ErrLimit = errors.New("population exceeds configured limit")

// Loader fetches snapshots from a source, tags every failure as an upstream
// fetch error and enforces a record limit.
type Loader struct {
	source  ports.PopulationSource
	limit   int
	logger  *slog.Logger
	metrics *metrics.Metrics
}

var _ ports.PopulationSource = (*Loader)(nil)

// NewLoader wraps source. A limit of zero or less disables the bound.
func NewLoader(source ports.PopulationSource, limit int, logger *slog.Logger, m *metrics.Metrics) *Loader {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Loader{source: source, limit: limit, logger: logger, metrics: m}
}

func (l *Loader) Name() string { return l.source.Name() }

// Fetch returns one snapshot. Source errors come back as
// *domain.UpstreamFetchError; an oversized snapshot returns ErrLimit.
func (l *Loader) Fetch(ctx context.Context) ([]domain.PopulationRecord, error) {
	start := time.Now()
	records, err := l.source.Fetch(ctx)
	if err != nil {
		l.metrics.ObserveFetchFailure(l.source.Name())
		logging.FromContext(ctx, l.logger).Warn("population fetch failed",
			logging.String(logging.FieldSource, l.source.Name()),
			logging.Error(err),
		)
		return nil, domain.NewUpstreamFetchError(l.source.Name(), err)
	}
	if l.limit > 0 && len(records) > l.limit {
		return nil, fmt.Errorf("%w: %d records, limit %d", ErrLimit, len(records), l.limit)
	}
	l.logger.Debug("population fetched",
		logging.String(logging.FieldSource, l.source.Name()),
		logging.Int("records", len(records)),
		logging.Duration("elapsed", time.Since(start)),
	)
	return records, nil
}
