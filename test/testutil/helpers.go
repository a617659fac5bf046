// Package testutil provides test helper functions for unit and integration tests.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

// ProjectRoot returns the repository root, resolved relative to this file.
func ProjectRoot(t *testing.T) string {
	t.Helper()

	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}

	// testutil lives in test/testutil
	return filepath.Join(filepath.Dir(currentFile), "..", "..")
}

// FixturePath returns the absolute path of a provider fixture file.
func FixturePath(t *testing.T, filename string) string {
	t.Helper()
	return filepath.Join(ProjectRoot(t), "fixtures", filename)
}

// LoadFixtureJSON loads a provider fixture from the fixtures directory.
func LoadFixtureJSON(t *testing.T, filename string) []byte {
	t.Helper()

	data, err := os.ReadFile(FixturePath(t, filename))
	if err != nil {
		t.Fatalf("Failed to load fixture %s: %v", filename, err)
	}
	return data
}

// MustParseTime parses a time string in RFC3339 format.
// It fails the test if parsing fails.
func MustParseTime(t *testing.T, dateStr string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		t.Fatalf("Failed to parse time %s: %v", dateStr, err)
	}
	return parsed
}

// MustParseDate parses a date string in YYYY-MM-DD format.
// It fails the test if parsing fails.
func MustParseDate(t *testing.T, dateStr string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		t.Fatalf("Failed to parse date %s: %v", dateStr, err)
	}
	return parsed
}

// Ptr returns a pointer to the given value.
// Useful for creating pointers to literals in tests.
func Ptr[T any](v T) *T {
	return &v
}
