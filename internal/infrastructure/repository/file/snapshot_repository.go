package file

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/match-schedule/internal/domain/schedule"
	"github.com/riskibarqy/match-schedule/internal/platform/canonical"
)

// SnapshotRepository keeps the current schedule as a single JSON document.
type SnapshotRepository struct {
	path string
}

func NewSnapshotRepository(path string) *SnapshotRepository {
	return &SnapshotRepository{path: path}
}

var _ schedule.SnapshotRepository = (*SnapshotRepository)(nil)

// Load returns an empty schedule when the file does not exist. A file that
// cannot be parsed also yields an empty schedule, together with the error.
func (r *SnapshotRepository) Load(_ context.Context) (schedule.Schedule, error) {
	raw, err := os.ReadFile(r.path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return schedule.Schedule{}, nil
	}
	if err != nil {
		return schedule.Schedule{}, crerr.Wrapf(err, "read snapshot %s", r.path)
	}

	var out schedule.Schedule
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return schedule.Schedule{}, crerr.Wrapf(err, "decode snapshot %s", r.path)
	}
	if out == nil {
		out = schedule.Schedule{}
	}
	return out, nil
}

// Save replaces the snapshot atomically with the pretty-printed canonical
// encoding of s.
func (r *SnapshotRepository) Save(_ context.Context, s schedule.Schedule) error {
	if s == nil {
		s = schedule.Schedule{}
	}
	data, err := canonical.MarshalIndent(s)
	if err != nil {
		return crerr.Wrap(err, "encode snapshot")
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return crerr.Wrapf(err, "create snapshot dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return crerr.Wrap(err, "create snapshot temp file")
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return crerr.Wrap(err, "write snapshot temp file")
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return crerr.Wrap(err, "chmod snapshot temp file")
	}
	if err := tmp.Close(); err != nil {
		return crerr.Wrap(err, "close snapshot temp file")
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return crerr.Wrapf(err, "replace snapshot %s", r.path)
	}
	return nil
}
