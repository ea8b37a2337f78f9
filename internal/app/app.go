package app

import (
	"github.com/riskibarqy/match-schedule/external/streamed"
	"github.com/riskibarqy/match-schedule/internal/config"
	"github.com/riskibarqy/match-schedule/internal/infrastructure/repository/file"
	"github.com/riskibarqy/match-schedule/internal/platform/logging"
	"github.com/riskibarqy/match-schedule/internal/usecase"
)

// NewUpdateService wires the updater pipeline from cfg.
func NewUpdateService(cfg config.Config, logger *logging.Logger) (*usecase.UpdateService, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Default()
	}

	matchClient := streamed.NewClient(streamed.ClientConfig{
		MatchesURL: cfg.MatchesURL,
		Timeout:    cfg.MatchesTimeout,
		Logger:     logger.With("component", "match_client"),
	})
	resolver := streamed.NewStreamResolver(streamed.StreamResolverConfig{
		BaseURL:        cfg.StreamBaseURL,
		Timeout:        cfg.StreamTimeout,
		RateLimit:      cfg.StreamRateLimit,
		Logger:         logger.With("component", "stream_resolver"),
		CircuitBreaker: cfg.StreamCircuit,
	})

	processor := usecase.NewMatchProcessor(resolver, usecase.MatchProcessorConfig{
		BadgeBaseURL:  cfg.BadgeBaseURL,
		RecencyWindow: cfg.RecencyWindow,
		Location:      cfg.KickOffZone,
	}, logger.With("component", "match_processor"))
	aggregator := usecase.NewScheduleAggregator(processor, cfg.MaxWorkers, logger.With("component", "schedule_aggregator"))

	return usecase.NewUpdateService(
		matchClient,
		aggregator,
		usecase.NewChangeGate(),
		file.NewSnapshotRepository(cfg.OutputFile),
		file.NewAuditLog(cfg.LogFile),
		logger.With("component", "update_service"),
	), nil
}
