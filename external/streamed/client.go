package streamed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/match-schedule/internal/domain/schedule"
	"github.com/riskibarqy/match-schedule/internal/platform/logging"
	"github.com/riskibarqy/match-schedule/internal/usecase"
)

const (
	defaultMatchesURL  = "https://streamed.pk/api/matches/all-today"
	defaultListTimeout = 15 * time.Second
	maxListBodyBytes   = 16 << 20
)

var errUpstreamTransient = crerr.New("streamed transient failure")

type ClientConfig struct {
	HTTPClient *http.Client
	MatchesURL string
	Timeout    time.Duration
	Logger     *logging.Logger
}

// Client reads the upstream match list.
type Client struct {
	httpClient *http.Client
	matchesURL string
	logger     *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultListTimeout
	}

	matchesURL := strings.TrimSpace(cfg.MatchesURL)
	if matchesURL == "" {
		matchesURL = defaultMatchesURL
	}

	return &Client{
		httpClient: httpClient,
		matchesURL: matchesURL,
		logger:     logger,
	}
}

var _ usecase.MatchFetcher = (*Client)(nil)

// FetchMatches returns every decodable match of the upstream list.
// Elements that are not match objects are skipped.
func (c *Client) FetchMatches(ctx context.Context) ([]schedule.RawMatch, error) {
	raw, err := c.get(ctx)
	if err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if err := sonic.Unmarshal(raw, &items); err != nil {
		return nil, crerr.Wrapf(err, "decode match list body=%s", abbreviateBody(raw))
	}

	out := make([]schedule.RawMatch, 0, len(items))
	skipped := 0
	for i, item := range items {
		var match schedule.RawMatch
		if err := sonic.Unmarshal(item, &match); err != nil {
			skipped++
			c.logger.DebugContext(ctx, "skip undecodable match", "index", i, "error", err)
			continue
		}
		out = append(out, match)
	}
	if skipped > 0 {
		c.logger.WarnContext(ctx, "match list contained undecodable entries", "skipped", skipped, "total", len(items))
	}

	return out, nil
}

func (c *Client) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.matchesURL, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: send request: %v", errUpstreamTransient, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxListBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", errUpstreamTransient, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if isRetryableStatus(resp.StatusCode) {
			return nil, fmt.Errorf("%w: provider status=%d body=%s", errUpstreamTransient, resp.StatusCode, abbreviateBody(raw))
		}
		return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
	}

	return raw, nil
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func abbreviateBody(raw []byte) string {
	const limit = 240
	value := strings.TrimSpace(string(raw))
	if len(value) <= limit {
		return value
	}
	return value[:limit] + "..."
}
