package testsupport

import (
	"testing"

	"ewms/internal/config"
	"ewms/internal/statedb"
)

// MustOpenDB opens a state database under the test config's data directory
// and closes it when the test finishes.
func MustOpenDB(t testing.TB, cfg *config.Config) *statedb.DB {
	t.Helper()

	db, err := statedb.Open(cfg)
	if err != nil {
		t.Fatalf("open state db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}
