package s3

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
)

// objectRoundTripper serves a fixed set of objects for path-style GETs.
type objectRoundTripper struct {
	objects map[string]string
	paths   []string
}

func (m *objectRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.paths = append(m.paths, req.URL.Path)
	body, ok := m.objects[strings.TrimPrefix(req.URL.Path, "/")]
	if req.Method != http.MethodGet || !ok {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(strings.NewReader(`<?xml version="1.0"?><Error><Code>NoSuchKey</Code></Error>`)),
			Header:     http.Header{"Content-Type": {"application/xml"}},
			Request:    req,
		}, nil
	}
	return &http.Response{
		StatusCode:    http.StatusOK,
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: int64(len(body)),
		Header:        http.Header{"Content-Type": {"application/json"}},
		Request:       req,
	}, nil
}

func newTestSource(t *testing.T, rt http.RoundTripper, key string) *Source {
	t.Helper()
	src, err := New(context.Background(), Config{
		Bucket:          "registry",
		Key:             key,
		Endpoint:        "https://mock.s3.local",
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		PathStyle:       true,
		HTTPClient:      &http.Client{Transport: rt},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return src
}

func TestFetchObject(t *testing.T) {
	rt := &objectRoundTripper{objects: map[string]string{
		"registry/snapshots/population.json": `{"population":[{"name":"Jane","status":"crime","DNA_sequence":"ACGT"}]}`,
	}}
	src := newTestSource(t, rt, "snapshots/population.json")

	records, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(records) != 1 || records[0].Name != "Jane" || *records[0].Sequence != "ACGT" {
		t.Fatalf("unexpected records: %+v", records)
	}
	if len(rt.paths) != 1 || rt.paths[0] != "/registry/snapshots/population.json" {
		t.Fatalf("unexpected request paths: %v", rt.paths)
	}
	if src.Name() != "s3://registry/snapshots/population.json" {
		t.Fatalf("unexpected name %q", src.Name())
	}
}

func TestFetchMissingObject(t *testing.T) {
	src := newTestSource(t, &objectRoundTripper{objects: map[string]string{}}, "absent.json")
	if _, err := src.Fetch(context.Background()); err == nil {
		t.Fatal("expected error for missing object")
	}
}

func TestNewRequiresBucketAndKey(t *testing.T) {
	if _, err := New(context.Background(), Config{Key: "k"}); err == nil {
		t.Fatal("expected error without bucket")
	}
	if _, err := New(context.Background(), Config{Bucket: "b"}); err == nil {
		t.Fatal("expected error without key")
	}
}
