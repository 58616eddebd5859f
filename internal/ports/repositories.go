package ports

import (
	"context"

	"qrsafe/internal/domain"
)

//go:generate mockgen -source=repositories.go -destination=mocks/repositories.go -package=mocks

// CuratedRepository looks up curated records by normalized key. Both finders
// return the first matching row in store order; found is false when no row
// matches.
type CuratedRepository interface {
	// FindMalicious matches when the stored key equals key, is a substring of
	// key, or contains key.
	FindMalicious(ctx context.Context, key domain.NormalizedURL) (entry domain.MaliciousEntry, found bool, err error)
	// FindVerified matches when the stored key equals key or is a prefix of it.
	FindVerified(ctx context.Context, key domain.NormalizedURL) (entry domain.VerifiedEntry, found bool, err error)
	Ping(ctx context.Context) error
}

// CuratedWriter populates the curated collections. Only the seed command uses it.
type CuratedWriter interface {
	UpsertMalicious(ctx context.Context, entry domain.MaliciousEntry) error
	UpsertVerified(ctx context.Context, entry domain.VerifiedEntry) error
}
