package comparison

import (
	"context"
	"errors"
	"testing"

	"dnamatch/internal/domain"
	"dnamatch/internal/metrics"
)

func TestCompare(t *testing.T) {
	svc := New(nil, metrics.New())
	tests := []struct {
		name   string
		a, b   string
		pct    int
		status string
	}{
		{"identical", "ACGT", "ACGT", 100, "DNA MATCH"},
		{"one mismatch", "ACGT", "ACGA", 67, "DNA Not MATCH"},
		{"dissimilar", "AAAAAAAA", "C", -62, "DNA Not MATCH"},
		{"half rounds to even", "ACGTACGT", "ACGAACG", 62, "DNA Not MATCH"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Compare(context.Background(), tt.a, tt.b)
			if err != nil {
				t.Fatalf("Compare returned error: %v", err)
			}
			if resp.SimilarityPercentage != tt.pct || resp.MatchStatus != tt.status || resp.StatusCode != 200 {
				t.Fatalf("unexpected response: %+v", resp)
			}
		})
	}
}

func TestCompareRequiresBothSequences(t *testing.T) {
	svc := New(nil, nil)
	var ie *domain.InputError
	if _, err := svc.Compare(context.Background(), "", "ACGT"); !errors.As(err, &ie) || ie.Field != "file_a" {
		t.Fatalf("expected file_a input error, got %v", err)
	}
	if _, err := svc.Compare(context.Background(), "ACGT", "\n"); !errors.As(err, &ie) || ie.Field != "file_b" {
		t.Fatalf("expected file_b input error, got %v", err)
	}
}
