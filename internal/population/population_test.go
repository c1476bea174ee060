package population

import (
	"context"
	"errors"
	"strings"
	"testing"

	"dnamatch/internal/domain"
)

func TestDecode(t *testing.T) {
	doc := `{"population":[
		{"name":"Jane","status":"missing","national_id":29001011234567,"DNA_sequence":"ACGT","bloodType":"O+"},
		{"name":"John","status":"crime","DNA_sequence":null},
		{"name":"Ann","status":"disaster","DNA_sequence":""},
		{"name":"Bob","status":"acknowledged","phone":true}
	]}`
	recs, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if len(recs) != 4 {
		t.Fatalf("expected 4 records, got %d", len(recs))
	}
	if recs[0].NationalID != "29001011234567" || recs[0].BloodType != "O+" || *recs[0].Sequence != "ACGT" {
		t.Fatalf("unexpected first record: %+v", recs[0])
	}
	if recs[1].HasSequence() {
		t.Fatal("null sequence should be absent")
	}
	if !recs[2].HasSequence() || *recs[2].Sequence != "" {
		t.Fatal("empty sequence should be present")
	}
	if recs[3].Phone != "true" || recs[3].Status != domain.StatusAcknowledged {
		t.Fatalf("unexpected fourth record: %+v", recs[3])
	}
}

func TestDecodeRejectsWrongShape(t *testing.T) {
	for _, doc := range []string{
		`{"people":[]}`,
		`[{"name":"x"}]`,
		`{"population":{"name":"x"}}`,
		`not json`,
	} {
		if _, err := Decode(strings.NewReader(doc)); err == nil {
			t.Errorf("Decode(%q) should fail", doc)
		}
	}
}

type stubSource struct {
	records []domain.PopulationRecord
	err     error
}

func (s stubSource) Name() string { return "stub" }

func (s stubSource) Fetch(context.Context) ([]domain.PopulationRecord, error) {
	return s.records, s.err
}

func TestLoaderWrapsFailures(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	l := NewLoader(stubSource{err: cause}, 0, nil, nil)
	_, err := l.Fetch(context.Background())
	if !errors.Is(err, domain.ErrUpstreamFetch) || !errors.Is(err, cause) {
		t.Fatalf("expected upstream fetch error wrapping cause, got %v", err)
	}
	if l.Name() != "stub" {
		t.Fatalf("Name = %q", l.Name())
	}
}

func TestLoaderEnforcesLimit(t *testing.T) {
	recs := make([]domain.PopulationRecord, 3)
	if _, err := NewLoader(stubSource{records: recs}, 2, nil, nil).Fetch(context.Background()); !errors.Is(err, ErrLimit) {
		t.Fatalf("expected ErrLimit, got %v", err)
	}
	got, err := NewLoader(stubSource{records: recs}, 3, nil, nil).Fetch(context.Background())
	if err != nil || len(got) != 3 {
		t.Fatalf("Fetch = %d records, err %v", len(got), err)
	}
}
