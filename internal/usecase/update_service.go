package usecase

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/match-schedule/internal/domain/schedule"
	"github.com/riskibarqy/match-schedule/internal/platform/logging"
)

type RunStatus string

const (
	RunStatusNoData    RunStatus = "no_data"
	RunStatusUnchanged RunStatus = "unchanged"
	RunStatusUpdated   RunStatus = "updated"
)

type RunResult struct {
	Status              RunStatus
	RawCount            int
	MatchCount          int
	Fingerprint         string
	PreviousFingerprint string
}

// UpdateService runs the fetch, aggregate, compare and persist pipeline once.
type UpdateService struct {
	fetcher    MatchFetcher
	aggregator *ScheduleAggregator
	gate       *ChangeGate
	snapshots  schedule.SnapshotRepository
	audit      schedule.AuditLog
	now        func() time.Time
	logger     *logging.Logger
}

func NewUpdateService(
	fetcher MatchFetcher,
	aggregator *ScheduleAggregator,
	gate *ChangeGate,
	snapshots schedule.SnapshotRepository,
	audit schedule.AuditLog,
	logger *logging.Logger,
) *UpdateService {
	if logger == nil {
		logger = logging.Default()
	}
	if gate == nil {
		gate = NewChangeGate()
	}
	return &UpdateService{
		fetcher:    fetcher,
		aggregator: aggregator,
		gate:       gate,
		snapshots:  snapshots,
		audit:      audit,
		now:        time.Now,
		logger:     logger,
	}
}

// Run returns an error only when persisting a detected change fails. Upstream
// failures end the run with RunStatusNoData and leave state untouched.
func (s *UpdateService) Run(ctx context.Context) (result RunResult, err error) {
	ctx, span := startSpan(ctx, "usecase.UpdateService.Run")
	defer func() {
		span.SetAttributes(
			attribute.String("run.status", string(result.Status)),
			attribute.Int("run.matches", result.MatchCount),
		)
		finishSpan(span, err)
	}()

	s.logger.InfoContext(ctx, "starting schedule update")

	raws, err := s.fetcher.FetchMatches(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "fetch match list failed", "error", err)
		return RunResult{Status: RunStatusNoData}, nil
	}
	if len(raws) == 0 {
		s.logger.WarnContext(ctx, "no data received from match list")
		return RunResult{Status: RunStatusNoData}, nil
	}

	s.logger.InfoContext(ctx, "processing raw matches", "raw_matches", len(raws))
	next, err := s.aggregator.Aggregate(ctx, raws)
	if err != nil {
		return RunResult{}, crerr.Wrap(err, "aggregate schedule")
	}
	// Lookups fail open, so a schedule built after cancellation has lost its
	// links and must not replace the snapshot.
	if err := ctx.Err(); err != nil {
		return RunResult{RawCount: len(raws)}, crerr.Wrap(err, "run cancelled before persisting")
	}

	previous, err := s.snapshots.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "previous snapshot unreadable, treating as empty", "error", err)
		previous = schedule.Schedule{}
	}

	decision, err := s.gate.ShouldPersist(next, previous)
	if err != nil {
		return RunResult{}, err
	}

	result = RunResult{
		Status:              RunStatusUnchanged,
		RawCount:            len(raws),
		MatchCount:          len(next),
		Fingerprint:         decision.Fingerprint,
		PreviousFingerprint: decision.PreviousFingerprint,
	}
	if !decision.Persist {
		s.logger.InfoContext(ctx, "no changes detected, skipping write", "fingerprint", decision.Fingerprint)
		return result, nil
	}

	s.logger.InfoContext(ctx, "changes detected, writing snapshot",
		"matches", len(next),
		"fingerprint", decision.Fingerprint,
		"previous_fingerprint", decision.PreviousFingerprint,
	)
	if err := s.snapshots.Save(ctx, next); err != nil {
		return RunResult{}, crerr.Wrap(err, "save snapshot")
	}
	entry := schedule.AuditEntry{
		Timestamp:   s.now(),
		Count:       len(next),
		Fingerprint: decision.Fingerprint,
	}
	if err := s.audit.Append(ctx, entry); err != nil {
		return RunResult{}, crerr.Wrap(err, "append audit entry")
	}

	result.Status = RunStatusUpdated
	return result, nil
}
