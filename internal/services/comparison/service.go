package comparison

import (
	"context"
	"net/http"
	"strings"

	"dnamatch/internal/alignment"
	"dnamatch/internal/api"
	"dnamatch/internal/domain"
	"dnamatch/internal/matching"
	"dnamatch/internal/metrics"
	"dnamatch/internal/ports"
)

// Service compares two uploaded sequences directly, without a registry.
type Service struct {
	scorer  alignment.Scorer
	metrics *metrics.Metrics
}

var _ ports.Comparer = (*Service)(nil)

func New(scorer alignment.Scorer, m *metrics.Metrics) *Service {
	if scorer == nil {
		scorer = alignment.Default()
	}
	return &Service{scorer: scorer, metrics: m}
}

// Compare scores a against b. Both sequences must be non-empty.
func (s *Service) Compare(ctx context.Context, a, b string) (api.CompareResponse, error) {
	switch {
	case strings.TrimSpace(a) == "":
		return api.CompareResponse{}, &domain.InputError{Field: "file_a"}
	case strings.TrimSpace(b) == "":
		return api.CompareResponse{}, &domain.InputError{Field: "file_b"}
	}
	if err := ctx.Err(); err != nil {
		return api.CompareResponse{}, err
	}
	res := Result(s.scorer, a, b)
	s.metrics.ObserveAlignment()

	status := api.StatusDNANotMatch
	if res.Exact {
		status = api.StatusDNAMatch
	}
	return api.CompareResponse{
		SimilarityPercentage: res.Percentage,
		MatchStatus:          status,
		Message:              "Successful Comparison",
		StatusCode:           http.StatusOK,
	}, nil
}

// Result scores a pair of sequences, capping both first.
func Result(scorer alignment.Scorer, a, b string) domain.ComparisonResult {
	sim := scorer.Score(domain.Truncate(a), domain.Truncate(b)).Similarity
	return domain.ComparisonResult{
		Similarity: sim,
		Percentage: domain.Percent(sim),
		Exact:      matching.Classify(sim, matching.DefaultRelativeSimilarity) == domain.TierExact,
	}
}
