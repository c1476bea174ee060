package ports

import (
	"context"

	"dnamatch/internal/api"
	"dnamatch/internal/domain"
)

// PopulationSource returns a read-only registry snapshot in registry order.
type PopulationSource interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.PopulationRecord, error)
}

// Comparer scores two uploaded sequences against each other.
type Comparer interface {
	Compare(ctx context.Context, a, b string) (api.CompareResponse, error)
}

// Identifier looks for an exact match among records with the given status.
type Identifier interface {
	Identify(ctx context.Context, query, status string) (api.IdentifyResponse, error)
}

// MissingPersonFinder looks for an exact match plus probable relatives.
type MissingPersonFinder interface {
	Search(ctx context.Context, query string) (api.MissingResponse, error)
}
