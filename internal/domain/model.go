package domain

import "math"

// Core domain models shared by the engine, services and adapters. Transport
// shapes live in internal/api; keep these decoupled where helpful.

// MaxSequenceLength caps every sequence handed to the scorer.
const MaxSequenceLength = 2000

// Truncate returns seq capped to MaxSequenceLength symbols.
func Truncate(seq string) string {
	if len(seq) > MaxSequenceLength {
		return seq[:MaxSequenceLength]
	}
	return seq
}

// Status is the registry category of a population record.
type Status string

const (
	StatusMissing      Status = "missing"
	StatusAcknowledged Status = "acknowledged"
	StatusCrime        Status = "crime"
	StatusDisaster     Status = "disaster"
)

// Statuses lists the recognized categories in display order.
var Statuses = []Status{StatusMissing, StatusAcknowledged, StatusCrime, StatusDisaster}

// StatusFilter selects records by status. FilterAll disables filtering.
type StatusFilter string

const FilterAll StatusFilter = "all"

// Valid reports whether f is a known category or the wildcard.
func (f StatusFilter) Valid() bool {
	if f == FilterAll {
		return true
	}
	for _, s := range Statuses {
		if Status(f) == s {
			return true
		}
	}
	return false
}

// Admits reports whether a record with status s passes the filter.
func (f StatusFilter) Admits(s Status) bool {
	return f == FilterAll || Status(f) == s
}

// PopulationRecord is one individual in a registry snapshot. JSON tags follow
// the upstream registry API.
type PopulationRecord struct {
	Name        string  `json:"name,omitempty"`
	Status      Status  `json:"status,omitempty"`
	Description string  `json:"description,omitempty"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`
	Address     string  `json:"address,omitempty"`
	NationalID  string  `json:"national_id,omitempty"`
	Phone       string  `json:"phone,omitempty"`
	Gender      string  `json:"gender,omitempty"`
	Birthdate   string  `json:"birthdate,omitempty"`
	BloodType   string  `json:"bloodType,omitempty"`
	Sequence    *string `json:"DNA_sequence,omitempty"`
}

// HasSequence reports whether the record carries a sequence at all. An empty
// string still counts as present.
func (r PopulationRecord) HasSequence() bool { return r.Sequence != nil }

// Selected returns the identifying fields reported for a match.
func (r PopulationRecord) Selected() MatchedRecord {
	return MatchedRecord{
		Name:        r.Name,
		Status:      r.Status,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Address:     r.Address,
		NationalID:  r.NationalID,
		Phone:       r.Phone,
		Gender:      r.Gender,
		Birthdate:   r.Birthdate,
		BloodType:   r.BloodType,
	}
}

// MatchedRecord is the subset of record fields surfaced in results.
type MatchedRecord struct {
	Name        string `json:"name,omitempty"`
	Status      Status `json:"status,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
	Address     string `json:"address,omitempty"`
	NationalID  string `json:"national_id,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Gender      string `json:"gender,omitempty"`
	Birthdate   string `json:"birthdate,omitempty"`
	BloodType   string `json:"bloodType,omitempty"`
}

// MatchTier classifies one scored record.
type MatchTier int

const (
	TierNone MatchTier = iota
	TierRelative
	TierExact
)

func (t MatchTier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierRelative:
		return "relative"
	default:
		return "none"
	}
}

// Match is a scored record that reached a tier.
type Match struct {
	Record     MatchedRecord
	Index      int // position in the population snapshot
	Similarity float64
	Tier       MatchTier
}

// Percentage is the similarity rounded to a whole percent.
func (m Match) Percentage() int { return Percent(m.Similarity) }

// Percent rounds a similarity ratio to a whole percent, half to even.
func Percent(similarity float64) int {
	return int(math.RoundToEven(similarity * 100))
}

// IdentificationResult is the outcome of a short-circuiting identification.
type IdentificationResult struct {
	Found   bool
	Match   *Match
	Scanned int // records scored
}

// RelativeSearchResult is the outcome of an exhaustive kinship search.
type RelativeSearchResult struct {
	Found           bool
	Primary         *Match
	Relatives       []Match
	AdditionalExact []Match
	Scanned         int
}

// ComparisonResult is the outcome of comparing two uploaded sequences.
type ComparisonResult struct {
	Similarity float64
	Percentage int
	Exact      bool
}
