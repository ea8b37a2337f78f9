package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/match-schedule/internal/domain/schedule"
)

func TestAuditLog_AppendsLines(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "match_history.log")
	log := NewAuditLog(path)
	ts := time.Date(2026, 10, 14, 9, 5, 7, 0, time.UTC)

	require.NoError(t, log.Append(context.Background(), schedule.AuditEntry{Timestamp: ts, Count: 12, Fingerprint: "abc123"}))
	require.NoError(t, log.Append(context.Background(), schedule.AuditEntry{Timestamp: ts.Add(time.Hour), Count: 0, Fingerprint: "def456"}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	want := "[2026-10-14 09:05:07] Updated: 12 matches found. Hash: abc123\n" +
		"[2026-10-14 10:05:07] Updated: 0 matches found. Hash: def456\n"
	require.Equal(t, want, string(raw))
}

func TestAuditLog_PreservesExistingContent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "match_history.log")
	require.NoError(t, os.WriteFile(path, []byte("previous line\n"), 0o644))

	entry := schedule.AuditEntry{Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), Count: 1, Fingerprint: "ff"}
	require.NoError(t, NewAuditLog(path).Append(context.Background(), entry))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "previous line\n[2026-01-02 03:04:05] Updated: 1 matches found. Hash: ff\n", string(raw))
}
