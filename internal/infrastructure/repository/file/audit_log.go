package file

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/match-schedule/internal/domain/schedule"
)

const auditTimestampLayout = "2006-01-02 15:04:05"

// AuditLog appends one line per persisted change.
type AuditLog struct {
	mu   sync.Mutex
	path string
}

func NewAuditLog(path string) *AuditLog {
	return &AuditLog{path: path}
}

var _ schedule.AuditLog = (*AuditLog)(nil)

func (l *AuditLog) Append(_ context.Context, entry schedule.AuditEntry) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	formatAuditLine(buf, entry)

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return crerr.Wrapf(err, "create audit log dir for %s", l.path)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return crerr.Wrapf(err, "open audit log %s", l.path)
	}
	if _, err := f.Write(buf.B); err != nil {
		_ = f.Close()
		return crerr.Wrapf(err, "append audit log %s", l.path)
	}
	if err := f.Close(); err != nil {
		return crerr.Wrapf(err, "close audit log %s", l.path)
	}
	return nil
}

// formatAuditLine renders "[<ts>] Updated: <n> matches found. Hash: <fp>\n".
func formatAuditLine(buf *bytebufferpool.ByteBuffer, entry schedule.AuditEntry) {
	_ = buf.WriteByte('[')
	buf.B = entry.Timestamp.AppendFormat(buf.B, auditTimestampLayout)
	_, _ = buf.WriteString("] Updated: ")
	buf.B = strconv.AppendInt(buf.B, int64(entry.Count), 10)
	_, _ = buf.WriteString(" matches found. Hash: ")
	_, _ = buf.WriteString(entry.Fingerprint)
	_ = buf.WriteByte('\n')
}
