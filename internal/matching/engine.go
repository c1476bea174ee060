// Package matching applies the alignment scorer across a population snapshot.
//
// Two scans are offered. Identify stops at the first exact match in
// population order. FindWithRelatives always scans every record, because
// relative candidates below the exact threshold have to be collected too.
// Neither mutates or retains the population it is given.
package matching

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"dnamatch/internal/alignment"
	"dnamatch/internal/domain"
	"dnamatch/internal/logging"
	"dnamatch/internal/metrics"
	"dnamatch/internal/workers/scorepool"
)

// Thresholds.
const (
	ExactSimilarity           = 1.0
	DefaultRelativeSimilarity = 0.96
)

// Operation names used in logs and metrics.
const (
	OpIdentify  = "identify"
	OpRelatives = "missing"
)

// Engine drives the scorer over a population.
type Engine struct {
	scorer   alignment.Scorer
	workers  int
	relative float64
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithScorer overrides the default alignment scorer.
func WithScorer(s alignment.Scorer) Option {
	return func(e *Engine) {
		if s != nil {
			e.scorer = s
		}
	}
}

// WithWorkers scores records on n goroutines. Values below 2 keep scoring on
// the calling goroutine.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// WithRelativeThreshold sets the kinship threshold. Values outside (0, 1)
// are ignored.
func WithRelativeThreshold(t float64) Option {
	return func(e *Engine) {
		if t > 0 && t < ExactSimilarity {
			e.relative = t
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// New builds an Engine using the default scoring scheme unless overridden.
func New(opts ...Option) *Engine {
	e := &Engine{
		scorer:   alignment.Default(),
		workers:  1,
		relative: DefaultRelativeSimilarity,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RelativeThreshold reports the configured kinship threshold.
func (e *Engine) RelativeThreshold() float64 { return e.relative }

// Classify maps a similarity onto a tier. Exact requires strict equality with
// 1.0; a record at 1.0 is never also Relative.
func Classify(similarity, relativeThreshold float64) domain.MatchTier {
	switch {
	case similarity == ExactSimilarity:
		return domain.TierExact
	case similarity >= relativeThreshold:
		return domain.TierRelative
	default:
		return domain.TierNone
	}
}

// Identify searches the records admitted by filter for an exact match and
// returns the first one in population order. A missing match is reported
// through Found, not as an error.
func (e *Engine) Identify(ctx context.Context, query string, population []domain.PopulationRecord, filter domain.StatusFilter) (domain.IdentificationResult, error) {
	if strings.TrimSpace(query) == "" {
		return domain.IdentificationResult{}, &domain.InputError{Field: "query"}
	}
	if !filter.Valid() {
		return domain.IdentificationResult{}, &domain.InvalidFilterError{Value: string(filter)}
	}
	start := time.Now()
	logger := logging.FromContext(ctx, e.logger).With(logging.String(logging.FieldOperation, OpIdentify))

	cands := candidates(population, filter)
	sc, err := e.scan(ctx, logger, domain.Truncate(query), population, cands, true)
	if err != nil {
		e.metrics.ObserveSearch(OpIdentify, metrics.OutcomeError, time.Since(start))
		return domain.IdentificationResult{}, err
	}

	res := domain.IdentificationResult{Scanned: sc.scanned}
	for i, idx := range cands {
		if !sc.scored[i] {
			continue
		}
		if Classify(sc.sims[i], e.relative) == domain.TierExact {
			res.Found = true
			res.Match = newMatch(population, idx, sc.sims[i], domain.TierExact)
			break
		}
	}
	e.observe(OpIdentify, res.Found, start)
	logger.Info("identification scan finished",
		logging.Int("candidates", len(cands)),
		logging.Int("scanned", res.Scanned),
		slog.Bool("found", res.Found),
	)
	return res, nil
}

// FindWithRelatives scans the whole population for an exact match and for
// relative candidates. Without an exact match nothing is reported, relatives
// included. Candidates sharing the primary match's national ID are dropped.
func (e *Engine) FindWithRelatives(ctx context.Context, query string, population []domain.PopulationRecord) (domain.RelativeSearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return domain.RelativeSearchResult{}, &domain.InputError{Field: "query"}
	}
	start := time.Now()
	logger := logging.FromContext(ctx, e.logger).With(logging.String(logging.FieldOperation, OpRelatives))

	cands := candidates(population, domain.FilterAll)
	sc, err := e.scan(ctx, logger, domain.Truncate(query), population, cands, false)
	if err != nil {
		e.metrics.ObserveSearch(OpRelatives, metrics.OutcomeError, time.Since(start))
		return domain.RelativeSearchResult{}, err
	}

	res := domain.RelativeSearchResult{Scanned: sc.scanned}
	var relatives, exact []domain.Match
	for i, idx := range cands {
		switch tier := Classify(sc.sims[i], e.relative); tier {
		case domain.TierExact:
			m := newMatch(population, idx, sc.sims[i], tier)
			if res.Primary == nil {
				res.Primary = m
				continue
			}
			exact = append(exact, *m)
		case domain.TierRelative:
			relatives = append(relatives, *newMatch(population, idx, sc.sims[i], tier))
		}
	}
	if res.Primary == nil {
		e.observe(OpRelatives, false, start)
		logger.Info("kinship scan finished without exact match", logging.Int("scanned", res.Scanned))
		return res, nil
	}

	res.Found = true
	res.Relatives = excludeSameIdentity(relatives, res.Primary.Record.NationalID)
	res.AdditionalExact = excludeSameIdentity(exact, res.Primary.Record.NationalID)
	e.observe(OpRelatives, true, start)
	logger.Info("kinship scan finished",
		logging.Int("scanned", res.Scanned),
		logging.String(logging.FieldRecord, res.Primary.Record.Name),
		logging.Int("relatives", len(res.Relatives)),
		logging.Int("additional_exact", len(res.AdditionalExact)),
	)
	return res, nil
}

func (e *Engine) observe(op string, found bool, start time.Time) {
	outcome := metrics.OutcomeNoMatch
	if found {
		outcome = metrics.OutcomeMatch
	}
	e.metrics.ObserveSearch(op, outcome, time.Since(start))
}

// candidates returns the population indices that pass filter and carry a
// sequence, in population order.
func candidates(population []domain.PopulationRecord, filter domain.StatusFilter) []int {
	out := make([]int, 0, len(population))
	for i := range population {
		rec := &population[i]
		if !rec.HasSequence() || !filter.Admits(rec.Status) {
			continue
		}
		out = append(out, i)
	}
	return out
}

func newMatch(population []domain.PopulationRecord, idx int, similarity float64, tier domain.MatchTier) *domain.Match {
	return &domain.Match{
		Record:     population[idx].Selected(),
		Index:      idx,
		Similarity: similarity,
		Tier:       tier,
	}
}

func excludeSameIdentity(matches []domain.Match, nationalID string) []domain.Match {
	out := make([]domain.Match, 0, len(matches))
	for _, m := range matches {
		if nationalID != "" && m.Record.NationalID == nationalID {
			continue
		}
		out = append(out, m)
	}
	return out
}

// scanState holds per-candidate similarities; scored marks which candidates
// were actually compared.
type scanState struct {
	sims    []float64
	scored  []bool
	scanned int
}

// scan scores candidates against query. With stopAtExact it stops once an
// exact match is found, but every candidate before that match is scored.
func (e *Engine) scan(ctx context.Context, logger *slog.Logger, query string, population []domain.PopulationRecord, cands []int, stopAtExact bool) (scanState, error) {
	st := scanState{
		sims:   make([]float64, len(cands)),
		scored: make([]bool, len(cands)),
	}
	score := func(i int) float64 {
		rec := &population[cands[i]]
		sim := e.scorer.Score(query, domain.Truncate(*rec.Sequence)).Similarity
		e.metrics.ObserveAlignment()
		logger.Debug("compared record",
			logging.String(logging.FieldRecord, rec.Name),
			logging.Float64(logging.FieldSimilarity, sim),
			logging.Int(logging.FieldPercentage, domain.Percent(sim)),
		)
		st.sims[i] = sim
		st.scored[i] = true
		return sim
	}

	if e.workers < 2 || len(cands) < 2 {
		for i := range cands {
			if err := ctx.Err(); err != nil {
				return st, err
			}
			st.scanned++
			if score(i) == ExactSimilarity && stopAtExact {
				break
			}
		}
		return st, nil
	}

	var firstExact atomic.Int64
	firstExact.Store(int64(len(cands)))
	var scanned atomic.Int64
	more := func(i int) bool {
		return !stopAtExact || int64(i) < firstExact.Load()
	}
	err := scorepool.Run(ctx, len(cands), e.workers, more, func(ctx context.Context, i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		scanned.Add(1)
		if score(i) != ExactSimilarity {
			return nil
		}
		for {
			cur := firstExact.Load()
			if int64(i) >= cur || firstExact.CompareAndSwap(cur, int64(i)) {
				return nil
			}
		}
	})
	st.scanned = int(scanned.Load())
	return st, err
}
