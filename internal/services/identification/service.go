package identification

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"dnamatch/internal/api"
	"dnamatch/internal/domain"
	"dnamatch/internal/logging"
	"dnamatch/internal/matching"
	"dnamatch/internal/ports"
)

const (
	msgFound   = "Successful identification"
	msgNoMatch = "No matches found."
)

// Service answers identification requests: one exact match among the
// records of a status category.
type Service struct {
	population ports.PopulationSource
	engine     *matching.Engine
	logger     *slog.Logger
	timeout    time.Duration
}

var _ ports.Identifier = (*Service)(nil)

// New wires the service. A zero timeout leaves the scan bounded only by ctx.
func New(population ports.PopulationSource, engine *matching.Engine, logger *slog.Logger, timeout time.Duration) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{population: population, engine: engine, logger: logger, timeout: timeout}
}

// Identify validates the request, fetches the registry and runs the
// short-circuiting scan. Input and filter errors are returned before the
// registry is contacted.
func (s *Service) Identify(ctx context.Context, query, status string) (api.IdentifyResponse, error) {
	if strings.TrimSpace(query) == "" {
		return api.IdentifyResponse{}, &domain.InputError{Field: "file"}
	}
	filter := domain.StatusFilter(strings.TrimSpace(status))
	if !filter.Valid() {
		return api.IdentifyResponse{}, &domain.InvalidFilterError{Value: status}
	}

	searchID := uuid.NewString()
	logger := logging.WithSearch(s.logger, searchID, matching.OpIdentify)
	ctx = logging.ContextWithSearchID(ctx, searchID)
	records, err := s.population.Fetch(ctx)
	if err != nil {
		return api.IdentifyResponse{}, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	res, err := s.engine.Identify(ctx, query, records, filter)
	if err != nil {
		logger.Warn("identification failed", logging.Error(err))
		return api.IdentifyResponse{}, err
	}
	if !res.Found {
		logger.Info("no identification match", logging.Int("scanned", res.Scanned))
		return api.IdentifyResponse{SearchID: searchID, Message: msgNoMatch, StatusCode: http.StatusBadRequest}, nil
	}

	pct := res.Match.Percentage()
	logger.Info("identification match",
		logging.String(logging.FieldRecord, res.Match.Record.Name),
		logging.Int(logging.FieldPercentage, pct),
	)
	rec := res.Match.Record
	return api.IdentifyResponse{
		SearchID:             searchID,
		Matches:              &rec,
		SimilarityPercentage: &pct,
		MatchStatus:          api.StatusDNAMatch,
		Message:              msgFound,
		StatusCode:           http.StatusOK,
	}, nil
}
