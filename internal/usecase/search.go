// Package usecase contains the search orchestrator: provider fan-out, the
// decision pipeline, and the coalescing result cache behind one entry point.
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/skymind/travel-decision-engine/internal/cache"
	"github.com/skymind/travel-decision-engine/internal/domain"
	"github.com/skymind/travel-decision-engine/internal/infrastructure/logger"
	"github.com/skymind/travel-decision-engine/internal/infrastructure/retry"
	"github.com/skymind/travel-decision-engine/internal/infrastructure/timeutil"
	"github.com/skymind/travel-decision-engine/internal/metrics"
	"github.com/skymind/travel-decision-engine/internal/pipeline"
)

// Default timeout values.
const (
	DefaultGlobalTimeout   = 5 * time.Second
	DefaultProviderTimeout = 2 * time.Second
)

// SearchUseCase is the engine's single entry point for searches.
type SearchUseCase interface {
	// Search validates the request, resolves it through the result cache,
	// and on a miss queries every provider and runs the decision pipeline.
	Search(ctx context.Context, req domain.SearchRequest) (*domain.RankedResult, error)
}

// Config contains configuration options for the use case.
type Config struct {
	GlobalTimeout   time.Duration
	ProviderTimeout time.Duration
	Retry           retry.Config
	Pipeline        pipeline.Config
	CacheTTL        time.Duration
	CacheCapacity   int
	Clock           timeutil.Clock
	Metrics         *metrics.Metrics
	Logger          *logger.Logger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		GlobalTimeout:   DefaultGlobalTimeout,
		ProviderTimeout: DefaultProviderTimeout,
		Retry:           retry.ProviderConfig.WithRetryIf(domain.IsRetryable),
	}
}

// searchUseCase implements SearchUseCase with the scatter-gather pattern over
// the registered providers.
type searchUseCase struct {
	providers       []domain.Provider
	pipeline        *pipeline.Pipeline
	cache           *cache.ResultCache
	metrics         *metrics.Metrics
	log             *logger.Logger
	clock           timeutil.Clock
	globalTimeout   time.Duration
	providerTimeout time.Duration
	retryCfg        retry.Config
}

// NewSearchUseCase creates a SearchUseCase over the given providers.
func NewSearchUseCase(providers []domain.Provider, cfg Config) SearchUseCase {
	def := DefaultConfig()
	if cfg.GlobalTimeout <= 0 {
		cfg.GlobalTimeout = def.GlobalTimeout
	}
	if cfg.ProviderTimeout <= 0 {
		cfg.ProviderTimeout = def.ProviderTimeout
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = def.Retry
	}
	if cfg.Clock == nil {
		cfg.Clock = timeutil.NewRealClock()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.Nop()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.Pipeline.Clock == nil {
		cfg.Pipeline.Clock = cfg.Clock
	}

	return &searchUseCase{
		providers:       providers,
		pipeline:        pipeline.New(cfg.Pipeline),
		cache:           cache.New(cfg.CacheTTL, cfg.CacheCapacity, cfg.Clock),
		metrics:         cfg.Metrics,
		log:             cfg.Logger,
		clock:           cfg.Clock,
		globalTimeout:   cfg.GlobalTimeout,
		providerTimeout: cfg.ProviderTimeout,
		retryCfg:        cfg.Retry,
	}
}

// Search implements SearchUseCase.
func (uc *searchUseCase) Search(ctx context.Context, req domain.SearchRequest) (*domain.RankedResult, error) {
	start := time.Now()

	req.SetDefaults()
	if err := req.Validate(); err != nil {
		uc.metrics.SearchesTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	fingerprint := req.Fingerprint()
	log := uc.log.WithFingerprint(string(fingerprint))

	result, hit, err := uc.cache.Resolve(ctx, fingerprint, func(ctx context.Context) (*domain.RankedResult, error) {
		return uc.compute(ctx, req)
	})
	elapsed := time.Since(start)
	uc.metrics.SearchDuration.Observe(elapsed.Seconds())

	if err != nil {
		uc.metrics.SearchesTotal.WithLabelValues("error").Inc()
		log.Error().Err(err).Msg("search failed")
		return nil, err
	}

	if hit {
		uc.metrics.CacheHits.Inc()
	} else {
		uc.metrics.CacheMisses.Inc()
	}
	uc.metrics.SearchesTotal.WithLabelValues("ok").Inc()
	log.Info().
		Bool("cache_hit", hit).
		Int("results", result.TotalResults).
		Dur("elapsed", elapsed).
		Msg("search completed")

	// Cached results are shared between requests; per-request fields go on a
	// shallow copy.
	response := *result
	response.CacheHit = hit
	response.SearchTimeMs = elapsed.Milliseconds()
	return &response, nil
}

// providerResult holds the outcome of one provider query.
type providerResult struct {
	Provider string
	Records  []domain.RawRecord
	Err      error
	Duration time.Duration
}

// compute runs the full search on a cache miss: scatter-gather over all
// providers, then the decision pipeline.
func (uc *searchUseCase) compute(ctx context.Context, req domain.SearchRequest) (*domain.RankedResult, error) {
	if len(uc.providers) == 0 {
		return nil, domain.ErrAllProvidersFailed
	}

	ctx, cancel := context.WithTimeout(ctx, uc.globalTimeout)
	defer cancel()

	results := make(chan providerResult, len(uc.providers))
	for _, provider := range uc.providers {
		go uc.queryProvider(ctx, provider, req, results)
	}

	var (
		records  []domain.RawRecord
		queried  = make([]string, 0, len(uc.providers))
		failed   []string
		warnings []string
	)
	for range uc.providers {
		res := <-results
		queried = append(queried, res.Provider)
		if res.Err != nil {
			failed = append(failed, res.Provider)
			warnings = append(warnings, fmt.Sprintf("provider %s failed: %v", res.Provider, res.Err))
			uc.metrics.ProviderFailures.WithLabelValues(res.Provider).Inc()
			uc.log.WithProvider(res.Provider).Warn().
				Err(res.Err).
				Dur("elapsed", res.Duration).
				Msg("provider query failed")
			continue
		}
		records = append(records, res.Records...)
	}

	if len(failed) == len(uc.providers) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrAllProvidersFailed, err)
		}
		return nil, domain.ErrAllProvidersFailed
	}

	out, err := uc.pipeline.Run(records, req)
	if err != nil {
		return nil, err
	}
	if out.Dropped > 0 {
		uc.metrics.DroppedRecords.Add(float64(out.Dropped))
		warnings = append(warnings, fmt.Sprintf("%d provider record(s) were invalid and skipped", out.Dropped))
	}
	if len(records) > 0 && len(out.Ranked) == 0 && out.Filtered == 0 {
		warnings = append(warnings, "all provider records were invalid")
	}

	return &domain.RankedResult{
		Itineraries:      out.Ranked,
		TotalResults:     len(out.Ranked),
		DroppedRecords:   out.Dropped,
		ProvidersQueried: queried,
		ProvidersFailed:  failed,
		Warnings:         warnings,
		ComputedAt:       uc.clock.Now(),
	}, nil
}

// queryProvider queries one provider with its own timeout, retry on
// retryable errors, and panic recovery so a failing adapter cannot take the
// whole search down.
func (uc *searchUseCase) queryProvider(ctx context.Context, provider domain.Provider, req domain.SearchRequest, results chan<- providerResult) {
	ctx, cancel := context.WithTimeout(ctx, uc.providerTimeout)
	defer cancel()

	start := time.Now()
	name := provider.Name()

	defer func() {
		if r := recover(); r != nil {
			results <- providerResult{
				Provider: name,
				Err:      fmt.Errorf("provider panic: %v", r),
				Duration: time.Since(start),
			}
		}
	}()

	records, err := retry.DoWithResult(ctx, func() ([]domain.RawRecord, error) {
		return provider.Search(ctx, req)
	}, uc.retryCfg)

	results <- providerResult{
		Provider: name,
		Records:  records,
		Err:      err,
		Duration: time.Since(start),
	}
}

// Ensure searchUseCase implements SearchUseCase at compile time.
var _ SearchUseCase = (*searchUseCase)(nil)
