package missingperson

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
	msgFound       = "Successful identification"
	msgNoMatch     = "No match found."
	msgNoRelatives = "No matching child found"
)

// Service runs missing-person searches across the whole registry.
type Service struct {
	population ports.PopulationSource
	engine     *matching.Engine
	logger     *slog.Logger
	timeout    time.Duration
}

var _ ports.MissingPersonFinder = (*Service)(nil)

func New(population ports.PopulationSource, engine *matching.Engine, logger *slog.Logger, timeout time.Duration) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{population: population, engine: engine, logger: logger, timeout: timeout}
}

// Search finds the exact match for query and the relative candidates around
// it. When no relative remains the response carries an explicit marker entry
// instead of an empty list.
func (s *Service) Search(ctx context.Context, query string) (api.MissingResponse, error) {
	if strings.TrimSpace(query) == "" {
		return api.MissingResponse{}, &domain.InputError{Field: "file"}
	}
	searchID := uuid.NewString()
	logger := logging.WithSearch(s.logger, searchID, matching.OpRelatives)
	ctx = logging.ContextWithSearchID(ctx, searchID)

	records, err := s.population.Fetch(ctx)
	if err != nil {
		return api.MissingResponse{}, err
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	res, err := s.engine.FindWithRelatives(ctx, query, records)
	if err != nil {
		logger.Warn("missing-person search failed", logging.Error(err))
		return api.MissingResponse{}, err
	}
	if !res.Found {
		logger.Info("no missing-person match", logging.Int("scanned", res.Scanned))
		return api.MissingResponse{SearchID: searchID, Message: msgNoMatch, StatusCode: http.StatusNotFound}, nil
	}

	out := api.MissingResponse{
		SearchID:      searchID,
		MainMatchInfo: mainInfo(*res.Primary),
		Message:       msgFound,
		StatusCode:    http.StatusOK,
	}
	for _, m := range res.Relatives {
		rec := m.Record
		pct := m.Percentage()
		out.PotentialRelativeInfo = append(out.PotentialRelativeInfo, api.RelativeInfo{RelativeData: &rec, SimilarityPercentage: &pct})
	}
	if len(out.PotentialRelativeInfo) == 0 {
		out.PotentialRelativeInfo = []api.RelativeInfo{{Message: msgNoRelatives, StatusCode: http.StatusNotFound}}
	}
	for _, m := range res.AdditionalExact {
		out.AdditionalExactInfo = append(out.AdditionalExactInfo, *mainInfo(m))
	}
	logger.Info("missing-person match",
		logging.String(logging.FieldRecord, res.Primary.Record.Name),
		logging.Int("relatives", len(res.Relatives)),
	)
	return out, nil
}

func mainInfo(m domain.Match) *api.MainMatchInfo {
	return &api.MainMatchInfo{
		MatchedRecord:        m.Record,
		SimilarityPercentage: m.Percentage(),
		MatchStatus:          api.StatusDNAMatch,
	}
}
