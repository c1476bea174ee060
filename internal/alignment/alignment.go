// Package alignment scores global (end-to-end) alignments of two sequences and
// normalizes the score into a similarity ratio.
//
// Only the optimal scalar score is computed. No alignment path is kept, so
// when several branches of the recurrence tie there is no canonical path and
// none is promised.
package alignment

import (
	"errors"
	"math"
)

// Params holds the scoring scheme. A gap of length k costs
// GapOpen + (k-1)*GapExtend; with GapOpen == GapExtend gaps are linear.
type Params struct {
	Match     float64
	Mismatch  float64
	GapOpen   float64
	GapExtend float64
}

// DefaultParams is the scheme used for identification and kinship search.
var DefaultParams = Params{Match: 3, Mismatch: -1, GapOpen: -2, GapExtend: -2}

var errMatchScore = errors.New("alignment: match score must be positive")

// Validate checks that the scheme can be normalized.
func (p Params) Validate() error {
	if !(p.Match > 0) {
		return errMatchScore
	}
	return nil
}

// Result is the optimal global alignment score and its normalized form.
type Result struct {
	RawScore   float64
	Similarity float64
}

// Scorer compares two sequences.
type Scorer interface {
	Score(a, b string) Result
}

// Func adapts a plain function to Scorer.
type Func func(a, b string) Result

func (f Func) Score(a, b string) Result { return f(a, b) }

type boundScorer struct{ p Params }

func (s boundScorer) Score(a, b string) Result { return Score(a, b, s.p) }

// New returns a Scorer bound to p.
func New(p Params) (Scorer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return boundScorer{p: p}, nil
}

// Default returns a Scorer using DefaultParams.
func Default() Scorer { return boundScorer{p: DefaultParams} }

// Score computes the global alignment of a and b under p. Similarity is
// RawScore / (max(len(a), len(b)) * p.Match) and is 0 whenever either input
// is empty. It can fall below 0 for dissimilar inputs of unequal length and
// never exceeds 1.
func Score(a, b string, p Params) Result {
	var raw float64
	if p.GapOpen == p.GapExtend {
		raw = linearScore(a, b, p)
	} else {
		raw = affineScore(a, b, p)
	}
	res := Result{RawScore: raw}
	if len(a) == 0 || len(b) == 0 || !(p.Match > 0) {
		return res
	}
	res.Similarity = raw / (float64(max(len(a), len(b))) * p.Match)
	return res
}

// linearScore is Needleman-Wunsch with a single gap penalty, keeping one row
// sized to the shorter input.
func linearScore(a, b string, p Params) float64 {
	if len(b) > len(a) {
		a, b = b, a
	}
	gap := p.GapOpen
	row := make([]float64, len(b)+1)
	for j := range row {
		row[j] = float64(j) * gap
	}
	for i := 1; i <= len(a); i++ {
		diag := row[0]
		row[0] = float64(i) * gap
		ai := a[i-1]
		for j := 1; j <= len(b); j++ {
			s := p.Mismatch
			if ai == b[j-1] {
				s = p.Match
			}
			best := diag + s
			if up := row[j] + gap; up > best {
				best = up
			}
			if left := row[j-1] + gap; left > best {
				best = left
			}
			diag = row[j]
			row[j] = best
		}
	}
	return row[len(b)]
}

// affineScore is Gotoh's three-state recurrence: m ends in an aligned pair,
// x in a gap in b, y in a gap in a.
func affineScore(a, b string, p Params) float64 {
	if len(b) > len(a) {
		a, b = b, a
	}
	n := len(b)
	negInf := math.Inf(-1)
	open, ext := p.GapOpen, p.GapExtend

	m := make([]float64, n+1)
	x := make([]float64, n+1)
	y := make([]float64, n+1)
	nm := make([]float64, n+1)
	nx := make([]float64, n+1)
	ny := make([]float64, n+1)

	m[0], x[0], y[0] = 0, negInf, negInf
	for j := 1; j <= n; j++ {
		m[j], x[j] = negInf, negInf
		y[j] = open + float64(j-1)*ext
	}
	if len(a) == 0 {
		return max(m[n], x[n], y[n])
	}
	for i := 1; i <= len(a); i++ {
		nm[0], ny[0] = negInf, negInf
		nx[0] = open + float64(i-1)*ext
		ai := a[i-1]
		for j := 1; j <= n; j++ {
			s := p.Mismatch
			if ai == b[j-1] {
				s = p.Match
			}
			nm[j] = max(m[j-1], x[j-1], y[j-1]) + s
			nx[j] = max(m[j]+open, x[j]+ext, y[j]+open)
			ny[j] = max(nm[j-1]+open, ny[j-1]+ext, nx[j-1]+open)
		}
		m, nm = nm, m
		x, nx = nx, x
		y, ny = ny, y
	}
	return max(m[n], x[n], y[n])
}
