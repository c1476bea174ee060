package identification

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"dnamatch/internal/domain"
	"dnamatch/internal/logging"
	"dnamatch/internal/matching"
)

type stubSource struct {
	records []domain.PopulationRecord
	err     error
	calls   int
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Fetch(context.Context) ([]domain.PopulationRecord, error) {
	s.calls++
	return s.records, s.err
}

func seq(s string) *string { return &s }

func TestIdentifyFound(t *testing.T) {
	src := &stubSource{records: []domain.PopulationRecord{
		{Name: "Other", Status: domain.StatusMissing, Sequence: seq("TTTT")},
		{Name: "Jane", Status: domain.StatusMissing, NationalID: "1", BloodType: "A-", Sequence: seq("ACGT")},
	}}
	svc := New(src, matching.New(), nil, time.Second)

	resp, err := svc.Identify(context.Background(), "ACGT", "missing")
	if err != nil {
		t.Fatalf("Identify returned error: %v", err)
	}
	if resp.StatusCode != http.StatusOK || resp.MatchStatus != "DNA MATCH" || resp.Message != msgFound {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Matches == nil || resp.Matches.Name != "Jane" || resp.Matches.BloodType != "A-" {
		t.Fatalf("unexpected match fields: %+v", resp.Matches)
	}
	if resp.SimilarityPercentage == nil || *resp.SimilarityPercentage != 100 {
		t.Fatalf("unexpected percentage: %v", resp.SimilarityPercentage)
	}
	if resp.SearchID == "" {
		t.Fatal("expected search id")
	}
}

func TestIdentifyNoMatch(t *testing.T) {
	src := &stubSource{records: []domain.PopulationRecord{{Name: "x", Status: domain.StatusCrime, Sequence: seq("ACGT")}}}
	resp, err := New(src, matching.New(), nil, 0).Identify(context.Background(), "ACGT", "missing")
	if err != nil {
		t.Fatalf("Identify returned error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest || resp.Message != msgNoMatch || resp.Matches != nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestIdentifyValidatesBeforeFetching(t *testing.T) {
	src := &stubSource{}
	svc := New(src, matching.New(), nil, 0)

	if _, err := svc.Identify(context.Background(), "", "all"); !errors.Is(err, domain.ErrInput) {
		t.Fatalf("expected input error, got %v", err)
	}
	var fe *domain.InvalidFilterError
	if _, err := svc.Identify(context.Background(), "ACGT", "unknown_status"); !errors.As(err, &fe) {
		t.Fatalf("expected invalid filter error, got %v", err)
	}
	if _, err := svc.Identify(context.Background(), "ACGT", ""); !errors.As(err, &fe) {
		t.Fatalf("expected invalid filter error for empty status, got %v", err)
	}
	if src.calls != 0 {
		t.Fatalf("population fetched %d times", src.calls)
	}
}

func TestIdentifyPropagatesFetchError(t *testing.T) {
	src := &stubSource{err: domain.NewUpstreamFetchError("stub", errors.New("Failed to retrieve data from API"))}
	_, err := New(src, matching.New(), nil, 0).Identify(context.Background(), "ACGT", "all")
	if !errors.Is(err, domain.ErrUpstreamFetch) {
		t.Fatalf("expected upstream fetch error, got %v", err)
	}
}

func TestIdentifyTagsComparisonsWithSearchID(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	src := &stubSource{records: []domain.PopulationRecord{{Name: "Jane", Status: domain.StatusMissing, Sequence: seq("ACGT")}}}
	svc := New(src, matching.New(matching.WithLogger(logger)), logger, 0)

	resp, err := svc.Identify(context.Background(), "ACGT", "all")
	if err != nil {
		t.Fatalf("Identify returned error: %v", err)
	}
	want := `"search_id":"` + resp.SearchID + `"`
	var compared bool
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if strings.Contains(line, `"msg":"compared record"`) {
			compared = true
			if !strings.Contains(line, want) {
				t.Fatalf("comparison line not tagged with %s: %s", want, line)
			}
		}
	}
	if !compared {
		t.Fatalf("no comparison line logged:\n%s", buf.String())
	}
}
