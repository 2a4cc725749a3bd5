package analytics

import (
	"testing"
	"time"
)

func TestResolveWindow(t *testing.T) {
	now := time.Unix(1700000000, 0)

	testCases := []struct {
		period    string
		wantStart int64
		wantEnd   int64
		name      string
	}{
		{"1h", 1700000000 - 3600, 1700000000, "one hour"},
		{"24h", 1700000000 - 86400, 1700000000, "one day"},
		{"7d", 1700000000 - 604800, 1700000000, "one week"},
		{"30d", 1700000000 - 2592000, 1700000000, "thirty days"},
		{"fortnight", 1700000000 - 86400, 1700000000, "unrecognized defaults to 24h"},
		{"", 1700000000 - 86400, 1700000000, "empty defaults to 24h"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := ResolveWindow(tc.period, 0, 0, now)
			if start != tc.wantStart || end != tc.wantEnd {
				t.Errorf("ResolveWindow(%q) = (%d, %d), want (%d, %d)",
					tc.period, start, end, tc.wantStart, tc.wantEnd)
			}
		})
	}
}

func TestResolveWindowCustom(t *testing.T) {
	now := time.Unix(1700000000, 0)

	t.Run("custom bounds used verbatim", func(t *testing.T) {
		start, end := ResolveWindow("custom", 100, 200, now)
		if start != 100 || end != 200 {
			t.Errorf("custom window = (%d, %d), want (100, 200)", start, end)
		}
	})

	t.Run("inverted custom bounds pass through unvalidated", func(t *testing.T) {
		start, end := ResolveWindow("custom", 200, 100, now)
		if start != 200 || end != 100 {
			t.Errorf("inverted custom window = (%d, %d), want (200, 100)", start, end)
		}
	})
}
