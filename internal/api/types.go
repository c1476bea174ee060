// Package api holds the HTTP contract described in api/openapi.yaml: the
// response bodies and the chi wiring for ServerInterface.
package api

import "dnamatch/internal/domain"

// Match status labels.
const (
	StatusDNAMatch    = "DNA MATCH"
	StatusDNANotMatch = "DNA Not MATCH"
)

// ErrorResponse is returned for rejected requests. StatusCode mirrors the
// HTTP status.
type ErrorResponse struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// CompareResponse is the result of POST /compare.
type CompareResponse struct {
	SimilarityPercentage int    `json:"similarity_percentage"`
	MatchStatus          string `json:"match_status"`
	Message              string `json:"message"`
	StatusCode           int    `json:"statusCode"`
}

// IdentifyResponse is the result of POST /identify. Matches and
// SimilarityPercentage are set only when a record matched.
type IdentifyResponse struct {
	SearchID             string                `json:"search_id,omitempty"`
	Matches              *domain.MatchedRecord `json:"matches,omitempty"`
	SimilarityPercentage *int                  `json:"similarity_percentage,omitempty"`
	MatchStatus          string                `json:"match_status,omitempty"`
	Message              string                `json:"message"`
	StatusCode           int                   `json:"statusCode"`
}

// MainMatchInfo is the primary record of a missing-person search.
type MainMatchInfo struct {
	domain.MatchedRecord
	SimilarityPercentage int    `json:"similarity_percentage"`
	MatchStatus          string `json:"match_status"`
}

// RelativeInfo is either a relative candidate or, when none remain, a single
// "No matching child found" marker.
type RelativeInfo struct {
	RelativeData         *domain.MatchedRecord `json:"relative_data,omitempty"`
	SimilarityPercentage *int                  `json:"similarity_percentage_relative,omitempty"`
	Message              string                `json:"message,omitempty"`
	StatusCode           int                   `json:"statusCode,omitempty"`
}

// MissingResponse is the result of POST /missing.
type MissingResponse struct {
	SearchID              string          `json:"search_id,omitempty"`
	MainMatchInfo         *MainMatchInfo  `json:"main_match_info,omitempty"`
	PotentialRelativeInfo []RelativeInfo  `json:"potential_relative_info,omitempty"`
	AdditionalExactInfo   []MainMatchInfo `json:"additional_exact_info,omitempty"`
	Message               string          `json:"message"`
	StatusCode            int             `json:"statusCode"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}
