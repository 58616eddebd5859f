package curated

import (
	"context"
	"fmt"
	"log/slog"

	"qrsafe/internal/domain"
	"qrsafe/internal/ports"
)

const (
	maliciousDetails       = "This URL has been reported as malicious."
	defaultThreatDetails   = "Known scam or phishing URL"
	unknownDetails         = "This URL is not from a verified partner."
	verifiedDetailsPattern = "Official %s QR code. Verified partner."
)

// Service matches normalized keys against the curated collections.
type Service struct {
	repo   ports.CuratedRepository
	logger *slog.Logger
}

func New(repo ports.CuratedRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Match runs the malicious check and, only when it finds nothing, the
// verified check. Store faults are returned as *domain.StorageError.
func (s *Service) Match(ctx context.Context, key domain.NormalizedURL) (domain.CuratedVerdict, error) {
	threat, found, err := s.repo.FindMalicious(ctx, key)
	if err != nil {
		s.logger.ErrorContext(ctx, "malicious lookup failed", "key", key, "error", err)
		return domain.CuratedVerdict{}, &domain.StorageError{Op: "find malicious", Err: err}
	}
	if found {
		return maliciousVerdict(threat), nil
	}

	partner, found, err := s.repo.FindVerified(ctx, key)
	if err != nil {
		s.logger.ErrorContext(ctx, "verified lookup failed", "key", key, "error", err)
		return domain.CuratedVerdict{}, &domain.StorageError{Op: "find verified", Err: err}
	}
	if found {
		return verifiedVerdict(partner), nil
	}

	return domain.CuratedVerdict{
		Verified: false,
		Source:   domain.SourceVerifiedDB,
		Details:  unknownDetails,
		Unknown:  domain.Ptr(true),
	}, nil
}

func maliciousVerdict(e domain.MaliciousEntry) domain.CuratedVerdict {
	details := defaultThreatDetails
	if e.ThreatDetails != nil && *e.ThreatDetails != "" {
		details = *e.ThreatDetails
	}
	return domain.CuratedVerdict{
		Verified:      false,
		Source:        domain.SourceThreatDB,
		Details:       maliciousDetails,
		IsMalicious:   domain.Ptr(true),
		ThreatDetails: &details,
	}
}

func verifiedVerdict(e domain.VerifiedEntry) domain.CuratedVerdict {
	date := domain.Date(e.VerificationDate)
	return domain.CuratedVerdict{
		Verified:         true,
		Source:           domain.SourceVerifiedDB,
		Details:          fmt.Sprintf(verifiedDetailsPattern, e.CompanyName),
		CompanyName:      domain.Ptr(e.CompanyName),
		VerificationDate: &date,
	}
}
