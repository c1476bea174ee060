package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestStatusFilterValid(t *testing.T) {
	tests := []struct {
		filter StatusFilter
		want   bool
	}{
		{"all", true},
		{"missing", true},
		{"acknowledged", true},
		{"crime", true},
		{"disaster", true},
		{"unknown_status", false},
		{"", false},
		{"Missing", false},
	}
	for _, tt := range tests {
		if got := tt.filter.Valid(); got != tt.want {
			t.Errorf("StatusFilter(%q).Valid() = %v, want %v", tt.filter, got, tt.want)
		}
	}
}

func TestStatusFilterAdmits(t *testing.T) {
	if !FilterAll.Admits(StatusCrime) {
		t.Fatal("wildcard should admit every status")
	}
	if !StatusFilter("missing").Admits(StatusMissing) {
		t.Fatal("filter should admit matching status")
	}
	if StatusFilter("missing").Admits(StatusDisaster) {
		t.Fatal("filter should reject other statuses")
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("A", MaxSequenceLength+10)
	if got := Truncate(long); len(got) != MaxSequenceLength {
		t.Fatalf("expected %d symbols, got %d", MaxSequenceLength, len(got))
	}
	if got := Truncate("ACGT"); got != "ACGT" {
		t.Fatalf("short sequence changed: %q", got)
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{1.0, 100},
		{0.96, 96},
		{0.0, 0},
		{-0.25, -25},
		{0.625, 62},
		{-0.125, -12},
		{0.875, 88},
	}
	for _, tt := range tests {
		if got := Percent(tt.in); got != tt.want {
			t.Errorf("Percent(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestUpstreamFetchErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("fetch: %w", NewUpstreamFetchError("remote", cause))
	if !errors.Is(err, ErrUpstreamFetch) {
		t.Fatal("expected ErrUpstreamFetch")
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be reachable")
	}
	if again := NewUpstreamFetchError("other", err); again != err {
		t.Fatal("already-wrapped errors should pass through")
	}
	if NewUpstreamFetchError("remote", nil) != nil {
		t.Fatal("nil cause should yield nil")
	}
}

func TestTypedErrorsMatchSentinels(t *testing.T) {
	if !errors.Is(&InputError{Field: "file"}, ErrInput) {
		t.Fatal("InputError should match ErrInput")
	}
	var fe *InvalidFilterError
	err := fmt.Errorf("identify: %w", &InvalidFilterError{Value: "x"})
	if !errors.As(err, &fe) || fe.Value != "x" {
		t.Fatalf("expected InvalidFilterError, got %v", err)
	}
	if !errors.Is(err, ErrInvalidFilter) {
		t.Fatal("InvalidFilterError should match ErrInvalidFilter")
	}
}
