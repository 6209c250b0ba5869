// Package testutil provides testing utilities.
package testutil

import (
	"os"
	"testing"
)

// SkipPersistentTests skips tests that open an on-disk SQLite database
// unless SQLGRAM_RUN_DB_TESTS is set or the run is not -short.
//
// Run them with: SQLGRAM_RUN_DB_TESTS=1 go test -short ./...
func SkipPersistentTests(t *testing.T) {
	t.Helper()
	if testing.Short() && os.Getenv("SQLGRAM_RUN_DB_TESTS") == "" {
		t.Skip("Skipping on-disk database test in -short mode (set SQLGRAM_RUN_DB_TESTS=1 to run)")
	}
}
