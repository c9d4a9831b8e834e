package maps

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestProviderStatus(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{errors.New("maps: ZERO_RESULTS - "), "ZERO_RESULTS"},
		{errors.New("maps: REQUEST_DENIED - The provided API key is invalid."), "REQUEST_DENIED"},
		{errors.New("maps: NOT_FOUND"), "NOT_FOUND"},
		{fmt.Errorf("wrapped: %w", context.DeadlineExceeded), "TIMEOUT"},
		{errors.New("dial tcp: connection refused"), "UNKNOWN_ERROR"},
	}
	for _, tt := range tests {
		if got := providerStatus(tt.err); got != tt.want {
			t.Errorf("providerStatus(%q) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestIsNoResults(t *testing.T) {
	if !isNoResults(errors.New("maps: ZERO_RESULTS - ")) {
		t.Error("expected ZERO_RESULTS to count as no results")
	}
	if isNoResults(errors.New("maps: OVER_QUERY_LIMIT - ")) {
		t.Error("did not expect OVER_QUERY_LIMIT to count as no results")
	}
}

func TestRegionFor(t *testing.T) {
	if got := regionFor("GB"); got != "uk" {
		t.Errorf("regionFor(GB) = %q", got)
	}
	if got := regionFor("IE"); got != "ie" {
		t.Errorf("regionFor(IE) = %q", got)
	}
}

func TestPlaceRef(t *testing.T) {
	if got := placeRef("ChIJ123"); got != "place_id:ChIJ123" {
		t.Errorf("placeRef() = %q", got)
	}
}
