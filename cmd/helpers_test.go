package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campuspulse/activity-rank/internal/config"
)

func testStoreConfig() config.StoreConfig {
	return config.StoreConfig{Driver: "sqlite", SQLitePath: "activity-rank.db"}
}

// writeSnapshotFile drops a two-row JSON snapshot into a temp dir: one
// activity still running on 2024-08-21 and one already ended.
func writeSnapshotFile(t *testing.T) string {
	t.Helper()

	const snapshot = `[
  {
    "id": "a1",
    "name": "UCLA Career Fair",
    "address": "Los Angeles, CA",
    "startTime": "2024-08-20 10:00:00",
    "endTime": "2024-09-01 18:00:00",
    "timeZone": "Zone: Pacific Time, PT"
  },
  {
    "id": "a2",
    "name": "NYU Welcome Week",
    "address": "New York, NY",
    "startTime": "2024-07-01 09:00:00",
    "endTime": "2024-07-05 17:00:00",
    "timeZone": "east"
  }
]`

	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(snapshot), 0o644))
	return path
}
