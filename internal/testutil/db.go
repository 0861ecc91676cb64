package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// SQLiteDSN returns a DSN for an in-memory SQLite database. The shared
// cache keeps all pool connections on the same database; the per-test name
// avoids cross-test interference.
func SQLiteDSN(t *testing.T) string {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	return "file:" + name + "?mode=memory&cache=shared&_busy_timeout=5000"
}

// WriteConfig writes a connections YAML document into a temp dir and
// returns the file path.
func WriteConfig(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".connections.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
