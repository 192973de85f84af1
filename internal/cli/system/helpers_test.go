package system

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/reviewnag/internal/cli"
	"github.com/julianstephens/reviewnag/internal/models"
	"github.com/julianstephens/reviewnag/internal/storage/sqlite"
)

// setupTestContext returns a context over an initialized SQLite store in a
// temp dir. The daemon config points into the same dir so nothing touches
// the user's home.
func setupTestContext(t *testing.T) (*cli.Context, *sqlite.Store) {
	t.Helper()
	tempDir := t.TempDir()

	store := sqlite.NewStore(filepath.Join(tempDir, "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := &cli.Context{
		Store:        store,
		DaemonConfig: filepath.Join(tempDir, "config.yaml"),
	}
	return ctx, store
}

func testEntry(id, tag string, at time.Time) models.ScheduleEntry {
	return models.ScheduleEntry{
		ID:            id,
		Tag:           tag,
		Title:         "📚 Go review",
		Body:          "20 minutes in: first review window!",
		ItemID:        "42",
		ScheduledTime: at,
		CreatedAt:     at.Add(-20 * time.Minute),
	}
}
