// Package intel runs the two-stage web intelligence check: a search call
// that gathers findings, then an analysis call that turns them into a
// SAFETY/REASON verdict. The path is advisory and never returns an error.
package intel

import (
	"context"
	"log/slog"
	"time"

	"qrsafe/internal/domain"
	"qrsafe/internal/metrics"
	"qrsafe/internal/ports"
)

// Config tunes the intelligence path.
type Config struct {
	SearchModel   string
	AnalysisModel string
	// Timeout bounds both model calls together. Zero means no extra deadline.
	Timeout  time.Duration
	CacheTTL time.Duration
}

// Service chains Retriever and Extractor.
type Service struct {
	retriever *Retriever
	extractor *Extractor
	cache     ports.VerdictCache
	cfg       Config
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// New builds the service. cache and m may be nil.
func New(asker ports.Asker, cache ports.VerdictCache, cfg Config, logger *slog.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		retriever: NewRetriever(asker, cfg.SearchModel),
		extractor: NewExtractor(asker, cfg.AnalysisModel),
		cache:     cache,
		cfg:       cfg,
		logger:    logger,
		metrics:   m,
	}
}

// Check returns the safety verdict for rawURL.
func (s *Service) Check(ctx context.Context, rawURL string) domain.SafetyVerdict {
	start := time.Now()
	if v, ok := s.cached(ctx, rawURL); ok {
		return v
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	verdict := s.run(ctx, rawURL)
	s.metrics.IncrementIntelligenceRating(verdict.Rating())
	s.metrics.ObservePathLatency("intelligence", time.Since(start))

	if verdict.Degraded() {
		s.logger.WarnContext(ctx, "web intelligence degraded",
			"url", rawURL,
			"error", *verdict.Error,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return verdict
	}

	s.logger.InfoContext(ctx, "web intelligence assessed",
		"url", rawURL,
		"rating", verdict.Rating(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	s.store(ctx, rawURL, verdict)
	return verdict
}

func (s *Service) run(ctx context.Context, rawURL string) domain.SafetyVerdict {
	findings, err := s.retriever.Retrieve(ctx, rawURL)
	if err != nil {
		return Degraded(err)
	}
	s.logger.DebugContext(ctx, "search findings", "url", rawURL, "findings", string(findings))
	return s.extractor.Extract(ctx, rawURL, findings)
}

func (s *Service) cached(ctx context.Context, rawURL string) (domain.SafetyVerdict, bool) {
	if s.cache == nil {
		return domain.SafetyVerdict{}, false
	}
	v, found, err := s.cache.Get(ctx, rawURL)
	switch {
	case err != nil:
		s.metrics.IncrementVerdictCache("error")
		s.logger.WarnContext(ctx, "verdict cache read failed", "url", rawURL, "error", err)
		return domain.SafetyVerdict{}, false
	case !found:
		s.metrics.IncrementVerdictCache("miss")
		return domain.SafetyVerdict{}, false
	}
	s.metrics.IncrementVerdictCache("hit")
	return v, true
}

// store caches v under the exact raw URL. Findings text belongs to a single
// check and is dropped.
func (s *Service) store(ctx context.Context, rawURL string, v domain.SafetyVerdict) {
	if s.cache == nil || s.cfg.CacheTTL <= 0 {
		return
	}
	v.RawFindings = nil
	if err := s.cache.Set(ctx, rawURL, v, s.cfg.CacheTTL); err != nil {
		s.logger.WarnContext(ctx, "verdict cache write failed", "url", rawURL, "error", err)
	}
}
