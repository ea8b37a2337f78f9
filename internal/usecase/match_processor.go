package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/riskibarqy/match-schedule/internal/domain/schedule"
	"github.com/riskibarqy/match-schedule/internal/platform/logging"
)

const (
	DefaultRecencyWindow = 12 * time.Hour
	defaultBadgeBaseURL  = "https://streamed.pk/api/images/badge"
)

type MatchProcessorConfig struct {
	BadgeBaseURL string
	// RecencyWindow hides matches whose start is further in the past.
	RecencyWindow time.Duration
	// Location renders kick-off times; nil means the host's local zone.
	Location *time.Location
}

type MatchProcessor struct {
	resolver     SourceResolver
	badgeBaseURL string
	windowMs     int64
	location     *time.Location
	logger       *logging.Logger
}

func NewMatchProcessor(resolver SourceResolver, cfg MatchProcessorConfig, logger *logging.Logger) *MatchProcessor {
	if logger == nil {
		logger = logging.Default()
	}
	window := cfg.RecencyWindow
	if window <= 0 {
		window = DefaultRecencyWindow
	}
	location := cfg.Location
	if location == nil {
		location = time.Local
	}
	badgeBaseURL := strings.TrimRight(strings.TrimSpace(cfg.BadgeBaseURL), "/")
	if badgeBaseURL == "" {
		badgeBaseURL = defaultBadgeBaseURL
	}

	return &MatchProcessor{
		resolver:     resolver,
		badgeBaseURL: badgeBaseURL,
		windowMs:     window.Milliseconds(),
		location:     location,
		logger:       logger,
	}
}

var _ Processor = (*MatchProcessor)(nil)

// Process filters raw by recency, then resolves its sources one after the
// other so links keep source declaration order.
func (p *MatchProcessor) Process(ctx context.Context, raw schedule.RawMatch, nowMs int64) (schedule.Match, bool) {
	if nowMs-int64(raw.Date) > p.windowMs {
		p.logger.DebugContext(ctx, "match outside recency window", "match_id", raw.ID.String(), "date_ms", int64(raw.Date))
		return schedule.Match{}, false
	}

	home := raw.HomeTeam()
	away := raw.AwayTeam()

	links := make([]schedule.StreamDescriptor, 0, len(raw.Sources))
	for _, ref := range raw.Sources {
		links = append(links, p.resolver.Resolve(ctx, ref)...)
	}

	return schedule.Match{
		ID:      raw.ID.String(),
		Title:   matchTitle(raw, home, away),
		Sport:   raw.Category.String(),
		KickOff: raw.Date.Time(p.location).Format(schedule.KickOffLayout),
		IsLive:  false,
		Team1: schedule.Team{
			Name: firstNonEmpty(home.Name.String(), schedule.DefaultHomeTeamName),
			Logo: p.badgeURL(home.Badge.String()),
		},
		Team2: schedule.Team{
			Name: firstNonEmpty(away.Name.String(), schedule.DefaultAwayTeamName),
			Logo: p.badgeURL(away.Badge.String()),
		},
		Links: links,
	}, true
}

func (p *MatchProcessor) badgeURL(badge string) string {
	if badge == "" {
		return ""
	}
	return p.badgeBaseURL + "/" + badge + ".webp"
}

func matchTitle(raw schedule.RawMatch, home, away schedule.RawTeam) string {
	if title := raw.Title.String(); title != "" {
		return title
	}
	return firstNonEmpty(home.Name.String(), "Home") + " vs " + firstNonEmpty(away.Name.String(), "Away")
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
