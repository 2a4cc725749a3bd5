// Package testutils holds small helpers shared by the test suites.
package testutils

import (
	"path/filepath"
	"testing"
)

// CreateTestDBPath returns a SQLite database path inside a per-test temp
// directory that is removed automatically.
func CreateTestDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.db")
}

// AssertNoError fails the test immediately if err is non-nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// AssertEqual checks if two values are equal
func AssertEqual(t *testing.T, got, want interface{}) {
	t.Helper()
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}
