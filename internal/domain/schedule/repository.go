package schedule

import "context"

// SnapshotRepository stores the last persisted schedule.
type SnapshotRepository interface {
	Load(ctx context.Context) (Schedule, error)
	Save(ctx context.Context, s Schedule) error
}

// AuditLog is append-only.
type AuditLog interface {
	Append(ctx context.Context, entry AuditEntry) error
}
