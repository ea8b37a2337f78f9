package usecase

import (
	"context"

	"github.com/riskibarqy/match-schedule/internal/domain/schedule"
)

// MatchFetcher loads the raw upstream match list.
type MatchFetcher interface {
	FetchMatches(ctx context.Context) ([]schedule.RawMatch, error)
}

// SourceResolver resolves one source reference. Implementations must fail
// open: any failure yields an empty slice.
type SourceResolver interface {
	Resolve(ctx context.Context, ref schedule.SourceRef) []schedule.StreamDescriptor
}

// Processor normalizes one raw match; ok is false when the match is
// filtered out.
type Processor interface {
	Process(ctx context.Context, raw schedule.RawMatch, nowMs int64) (match schedule.Match, ok bool)
}
