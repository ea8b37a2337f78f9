package streamed

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"

	"github.com/riskibarqy/match-schedule/internal/domain/schedule"
	"github.com/riskibarqy/match-schedule/internal/platform/logging"
	"github.com/riskibarqy/match-schedule/internal/platform/resilience"
	"github.com/riskibarqy/match-schedule/internal/usecase"
)

const (
	defaultStreamBaseURL = "https://streamed.pk/api/stream"
	defaultStreamTimeout = 6 * time.Second
	maxStreamBodyBytes   = 2 << 20
)

type StreamResolverConfig struct {
	HTTPClient *fasthttp.Client
	BaseURL    string
	Timeout    time.Duration
	// RateLimit caps lookups per second; zero disables the limiter.
	RateLimit      float64
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// StreamResolver turns source references into stream descriptors. It never
// returns an error: every failure resolves to an empty result.
type StreamResolver struct {
	httpClient *fasthttp.Client
	baseURL    string
	timeout    time.Duration
	limiter    *rate.Limiter
	logger     *logging.Logger
	flight     resilience.SingleFlight[[]schedule.StreamDescriptor]

	breakerCfg resilience.CircuitBreakerConfig
	breakerMu  sync.Mutex
	breakers   map[string]*resilience.CircuitBreaker
}

type streamPayload struct {
	EmbedURL *string `json:"embedUrl"`
	Language *string `json:"language"`
	HD       *bool   `json:"hd"`
}

func NewStreamResolver(cfg StreamResolverConfig) *StreamResolver {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultStreamTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                "match-schedule",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxConnsPerHost:     64,
			MaxResponseBodySize: maxStreamBodyBytes,
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultStreamBaseURL
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &StreamResolver{
		httpClient: httpClient,
		baseURL:    baseURL,
		timeout:    timeout,
		limiter:    limiter,
		logger:     logger,
		breakerCfg: cfg.CircuitBreaker,
		breakers:   make(map[string]*resilience.CircuitBreaker),
	}
}

// breakerFor returns the circuit of one provider, so a failing source never
// short-circuits lookups against the others.
func (r *StreamResolver) breakerFor(source string) *resilience.CircuitBreaker {
	r.breakerMu.Lock()
	defer r.breakerMu.Unlock()

	if breaker, ok := r.breakers[source]; ok {
		return breaker
	}
	breaker := resilience.NewCircuitBreaker(r.breakerCfg)
	breaker.OnTransition(func(from, to resilience.CircuitState) {
		r.logger.Warn("stream provider circuit changed state", "source", source, "from", string(from), "to", string(to))
	})
	r.breakers[source] = breaker
	return breaker
}

var _ usecase.SourceResolver = (*StreamResolver)(nil)

// Resolve performs a single lookup for ref. Concurrent lookups of the same
// ref share one request.
func (r *StreamResolver) Resolve(ctx context.Context, ref schedule.SourceRef) []schedule.StreamDescriptor {
	if !ref.Valid() {
		r.logger.DebugContext(ctx, "skip invalid source reference", "source", ref.Source.String(), "id", ref.ID.String())
		return []schedule.StreamDescriptor{}
	}

	streams, err, _ := r.flight.Do(ref.Key(), func() ([]schedule.StreamDescriptor, error) {
		return r.lookup(ctx, ref)
	})
	if err != nil {
		r.logger.WarnContext(ctx, "stream lookup failed", "source", ref.Source.String(), "id", ref.ID.String(), "error", err)
		return []schedule.StreamDescriptor{}
	}

	out := make([]schedule.StreamDescriptor, len(streams))
	copy(out, streams)
	return out
}

func (r *StreamResolver) lookup(ctx context.Context, ref schedule.SourceRef) ([]schedule.StreamDescriptor, error) {
	var out []schedule.StreamDescriptor
	fetch := func() error {
		streams, err := r.fetch(ctx, ref)
		out = streams
		return err
	}

	breaker := r.breakerFor(ref.Source.String())
	err := breaker.Do(fetch, isTransientFailure)
	if stderrors.Is(err, resilience.ErrCircuitOpen) {
		return nil, fmt.Errorf("%w: stream provider %s circuit %s", usecase.ErrDependencyUnavailable, ref.Source.String(), breaker.State())
	}
	return out, err
}

func (r *StreamResolver) fetch(ctx context.Context, ref schedule.SourceRef) ([]schedule.StreamDescriptor, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if r.limiter != nil {
		if err := r.limiter.Wait(callCtx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %v", errUpstreamTransient, err)
		}
	}
	deadline, _ := callCtx.Deadline()
	if err := callCtx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", errUpstreamTransient, err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(r.lookupURL(ref))
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	if err := r.httpClient.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("%w: send request: %v", errUpstreamTransient, err)
	}

	status := resp.StatusCode()
	if status != fasthttp.StatusOK {
		if isRetryableStatus(status) {
			return nil, fmt.Errorf("%w: provider status=%d", errUpstreamTransient, status)
		}
		return nil, fmt.Errorf("provider status=%d", status)
	}

	var items []streamPayload
	if err := sonic.Unmarshal(resp.Body(), &items); err != nil {
		return nil, crerr.Wrapf(err, "decode stream payload body=%s", abbreviateBody(resp.Body()))
	}

	return mapStreams(items), nil
}

func (r *StreamResolver) lookupURL(ref schedule.SourceRef) string {
	return r.baseURL + "/" + url.PathEscape(ref.Source.String()) + "/" + url.PathEscape(ref.ID.String())
}

func mapStreams(items []streamPayload) []schedule.StreamDescriptor {
	out := make([]schedule.StreamDescriptor, 0, len(items))
	for _, item := range items {
		stream := schedule.StreamDescriptor{
			URL:      item.EmbedURL,
			Language: schedule.DefaultLanguage,
		}
		if item.Language != nil {
			stream.Language = *item.Language
		}
		if item.HD != nil {
			stream.HD = *item.HD
		}
		out = append(out, stream)
	}
	return out
}

func isTransientFailure(err error) bool {
	return crerr.Is(err, errUpstreamTransient)
}
