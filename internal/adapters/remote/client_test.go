package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchDecodesPopulation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("expected GET, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"population":[{"name":"Jane","status":"missing","national_id":42,"DNA_sequence":"ACGT"},{"name":"NoDNA","DNA_sequence":null}]}`))
	}))
	t.Cleanup(server.Close)

	client, err := New(server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	records, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Name != "Jane" || records[0].NationalID != "42" || !records[0].HasSequence() {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[1].HasSequence() {
		t.Fatal("null DNA_sequence should be absent")
	}
}

func TestFetchNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	client, err := New(server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.Fetch(context.Background()); !errors.Is(err, ErrStatus) {
		t.Fatalf("expected ErrStatus, got %v", err)
	}
}

func TestFetchRejectsUnexpectedShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"name":"x"}]`))
	}))
	t.Cleanup(server.Close)

	client, err := New(server.URL, WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.Fetch(context.Background()); err == nil {
		t.Fatal("expected shape error")
	}
}

func TestNewValidatesURL(t *testing.T) {
	if _, err := New("ftp://example.com/data"); err == nil {
		t.Fatal("expected error for unsupported scheme")
	}
	client, err := New("")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if client.URL() != DefaultURL {
		t.Fatalf("expected default url, got %q", client.URL())
	}
}

func TestSourceName(t *testing.T) {
	tests := map[string]string{
		"api.example.co.uk": "remote:example.co.uk",
		"www.example.com":   "remote:example.com",
		"127.0.0.1":         "remote:127.0.0.1",
	}
	for host, want := range tests {
		if got := sourceName(host); got != want {
			t.Errorf("sourceName(%q) = %q, want %q", host, got, want)
		}
	}
}
