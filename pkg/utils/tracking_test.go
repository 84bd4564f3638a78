package utils

import (
	"regexp"
	"testing"
)

var trackingIDPattern = regexp.MustCompile(`^DD-\d{8}-[0-9A-F]{6}$`)

func TestGenerateTrackingID_Shape(t *testing.T) {
	for i := 0; i < 100; i++ {
		id := GenerateTrackingID()
		if !trackingIDPattern.MatchString(id) {
			t.Fatalf("tracking id %q does not match DD-YYYYMMDD-XXXXXX", id)
		}
	}
}

func TestGenerateTrackingID_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[GenerateTrackingID()] = true
	}
	// 24 bits of randomness; 50 draws colliding down to one value would
	// mean the random source is broken.
	if len(seen) < 2 {
		t.Fatalf("expected varied ids, got %d distinct", len(seen))
	}
}
