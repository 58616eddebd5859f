package verifier

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"qrsafe/internal/domain"
	"qrsafe/internal/metrics"
	"qrsafe/internal/normalize"
)

var tracer = otel.Tracer("qrsafe/verifier")

// CuratedMatcher is the curated lookup path.
type CuratedMatcher interface {
	Match(ctx context.Context, key domain.NormalizedURL) (domain.CuratedVerdict, error)
}

// IntelligenceChecker is the advisory web intelligence path. It never fails.
type IntelligenceChecker interface {
	Check(ctx context.Context, rawURL string) domain.SafetyVerdict
}

// Service exposes the three verification operations.
type Service struct {
	curated CuratedMatcher
	intel   IntelligenceChecker
	timeout time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New builds the service. timeout bounds a combined check; zero disables it.
func New(curated CuratedMatcher, intel IntelligenceChecker, timeout time.Duration, logger *slog.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{curated: curated, intel: intel, timeout: timeout, logger: logger, metrics: m}
}

// CheckCurated matches rawURL against the curated collections.
func (s *Service) CheckCurated(ctx context.Context, rawURL string) (domain.CuratedVerdict, error) {
	if err := validate(rawURL); err != nil {
		return domain.CuratedVerdict{}, err
	}
	return s.matchCurated(ctx, normalize.Normalize(rawURL))
}

// CheckIntelligence runs the web intelligence path only.
func (s *Service) CheckIntelligence(ctx context.Context, rawURL string) (domain.SafetyVerdict, error) {
	if err := validate(rawURL); err != nil {
		return domain.SafetyVerdict{}, err
	}
	return s.intel.Check(ctx, rawURL), nil
}

// CheckCombined runs both paths concurrently and returns once both finished.
// A curated failure fails the whole check and cancels the intelligence path.
func (s *Service) CheckCombined(ctx context.Context, rawURL string) (domain.CombinedResult, error) {
	if err := validate(rawURL); err != nil {
		return domain.CombinedResult{}, err
	}
	checkID := uuid.NewString()
	start := time.Now()
	key := normalize.Normalize(rawURL)

	ctx, span := tracer.Start(ctx, "verifier.CheckCombined")
	defer span.End()
	span.SetAttributes(attribute.String("check.id", checkID), attribute.String("url.key", key.String()))

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var (
		curated      domain.CuratedVerdict
		intelligence domain.SafetyVerdict
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.matchCurated(gctx, key)
		if err != nil {
			return err
		}
		curated = v
		return nil
	})
	g.Go(func() error {
		ictx, ispan := tracer.Start(gctx, "verifier.intelligence")
		defer ispan.End()
		intelligence = s.intel.Check(ictx, rawURL)
		ispan.SetAttributes(attribute.String("intelligence.rating", intelligence.Rating()))
		return nil
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "curated lookup failed")
		s.logger.ErrorContext(ctx, "combined check failed",
			"check_id", checkID,
			"url", rawURL,
			"error", err,
		)
		return domain.CombinedResult{}, err
	}

	s.metrics.ObservePathLatency("combined", time.Since(start))
	s.logger.InfoContext(ctx, "combined check completed",
		"check_id", checkID,
		"url", rawURL,
		"curated", curated.Outcome(),
		"intelligence", intelligence.Rating(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return domain.CombinedResult{
		Target: domain.Target{
			URL:               rawURL,
			NormalizedURL:     key,
			RegistrableDomain: normalize.RegistrableDomain(rawURL),
		},
		Curated:      curated,
		Intelligence: intelligence,
	}, nil
}

func (s *Service) matchCurated(ctx context.Context, key domain.NormalizedURL) (domain.CuratedVerdict, error) {
	ctx, span := tracer.Start(ctx, "verifier.curated")
	defer span.End()

	start := time.Now()
	v, err := s.curated.Match(ctx, key)
	s.metrics.ObservePathLatency("curated", time.Since(start))
	if err != nil {
		span.RecordError(err)
		s.metrics.IncrementCuratedOutcome("error")
		return domain.CuratedVerdict{}, err
	}
	s.metrics.IncrementCuratedOutcome(v.Outcome())
	span.SetAttributes(attribute.String("curated.outcome", v.Outcome()))
	return v, nil
}

func validate(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return domain.ErrURLRequired
	}
	return nil
}
