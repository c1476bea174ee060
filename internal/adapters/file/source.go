// Package file reads registry snapshots from a local JSON document.
package file

import (
	"context"
	"errors"
	"os"

	"dnamatch/internal/domain"
	"dnamatch/internal/population"
	"dnamatch/internal/ports"
)

// Source re-reads the document on every Fetch so edits are picked up without
// a restart.
type Source struct {
	path string
}

var _ ports.PopulationSource = (*Source)(nil)

func New(path string) (*Source, error) {
	if path == "" {
		return nil, errors.New("population file path required")
	}
	return &Source{path: path}, nil
}

func (s *Source) Name() string { return "file:" + s.path }

func (s *Source) Fetch(ctx context.Context) ([]domain.PopulationRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return population.Decode(f)
}
