package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/panics"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/match-schedule/internal/domain/schedule"
	"github.com/riskibarqy/match-schedule/internal/platform/logging"
)

const DefaultMaxWorkers = 20

type ScheduleAggregator struct {
	processor  Processor
	maxWorkers int
	now        func() time.Time
	logger     *logging.Logger
}

func NewScheduleAggregator(processor Processor, maxWorkers int, logger *logging.Logger) *ScheduleAggregator {
	if logger == nil {
		logger = logging.Default()
	}
	if maxWorkers < 1 {
		maxWorkers = DefaultMaxWorkers
	}
	return &ScheduleAggregator{
		processor:  processor,
		maxWorkers: maxWorkers,
		now:        time.Now,
		logger:     logger,
	}
}

type processResult struct {
	index int
	match schedule.Match
	ok    bool
}

// Aggregate processes every raw match on a bounded pool and returns the
// retained matches sorted by kick-off. The recency cutoff is taken once so
// every match in the run is judged against the same instant.
func (a *ScheduleAggregator) Aggregate(ctx context.Context, raws []schedule.RawMatch) (schedule.Schedule, error) {
	ctx, span := startSpan(ctx, "usecase.ScheduleAggregator.Aggregate", attribute.Int("raw_matches", len(raws)))
	defer span.End()

	out := make(schedule.Schedule, 0, len(raws))
	if len(raws) == 0 {
		return out, nil
	}

	nowMs := a.now().UnixMilli()
	workerCount := normalizeWorkerCount(a.maxWorkers, len(raws))

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, crerr.Wrap(err, "create worker pool")
	}
	defer pool.Release()

	results := make(chan processResult, len(raws))
	var workers sync.WaitGroup
	for i, raw := range raws {
		i, raw := i, raw
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			results <- a.processOne(ctx, i, raw, nowMs)
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, crerr.Wrap(err, "submit match to worker pool")
		}
	}

	workers.Wait()
	close(results)

	retained := make([]processResult, 0, len(raws))
	for row := range results {
		if row.ok {
			retained = append(retained, row)
		}
	}

	sort.SliceStable(retained, func(i, j int) bool {
		if retained[i].match.KickOff != retained[j].match.KickOff {
			return retained[i].match.KickOff < retained[j].match.KickOff
		}
		return retained[i].index < retained[j].index
	})
	for _, row := range retained {
		out = append(out, row.match)
	}

	a.logger.InfoContext(ctx, "schedule aggregated",
		"raw_matches", len(raws),
		"matches", len(out),
		"filtered", len(raws)-len(out),
		"workers", workerCount,
	)
	return out, nil
}

func (a *ScheduleAggregator) processOne(ctx context.Context, index int, raw schedule.RawMatch, nowMs int64) processResult {
	row := processResult{index: index}

	var catcher panics.Catcher
	catcher.Try(func() {
		row.match, row.ok = a.processor.Process(ctx, raw, nowMs)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		a.logger.ErrorContext(ctx, "match processing panicked, dropping match",
			"match_id", raw.ID.String(),
			"error", recovered.AsError(),
		)
		return processResult{index: index}
	}
	return row
}

func normalizeWorkerCount(maxWorkers, tasks int) int {
	if maxWorkers < 1 {
		maxWorkers = DefaultMaxWorkers
	}
	if tasks > 0 && tasks < maxWorkers {
		return tasks
	}
	return maxWorkers
}
